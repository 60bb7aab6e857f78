package logger

import (
	"context"

	"github.com/fhuszti/eiv-uploader/internal/port"
)

// Sink forwards port.Logger calls to the package-level slog logger.
type Sink struct {
	prefix string
}

// compile-time check: *Sink must satisfy port.Logger
var _ port.Logger = (*Sink)(nil)

// New returns a Sink whose messages all start with prefix.
func New(prefix string) *Sink {
	return &Sink{prefix: prefix}
}

func (s *Sink) Infof(ctx context.Context, format string, a ...any) {
	Infof(ctx, s.prefix+format, a...)
}

func (s *Sink) Warnf(ctx context.Context, format string, a ...any) {
	Warnf(ctx, s.prefix+format, a...)
}

func (s *Sink) Errorf(ctx context.Context, format string, a ...any) {
	Errorf(ctx, s.prefix+format, a...)
}

type NoopLogger struct{}

// compile-time check: *NoopLogger must satisfy port.Logger
var _ port.Logger = (*NoopLogger)(nil)

// NewNoop is the logger handed out when no logging sink is available.
func NewNoop() *NoopLogger {
	return &NoopLogger{}
}

func (n *NoopLogger) Infof(ctx context.Context, format string, a ...any)  {}
func (n *NoopLogger) Warnf(ctx context.Context, format string, a ...any)  {}
func (n *NoopLogger) Errorf(ctx context.Context, format string, a ...any) {}
