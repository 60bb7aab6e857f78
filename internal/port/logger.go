package port

import "context"

// Logger is the logging collaborator the upload pipeline reports to.
// Implementations must be safe for concurrent use.
type Logger interface {
	Infof(ctx context.Context, format string, a ...any)
	Warnf(ctx context.Context, format string, a ...any)
	Errorf(ctx context.Context, format string, a ...any)
}
