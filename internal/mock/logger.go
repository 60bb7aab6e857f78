package mock

import (
	"context"
	"fmt"
	"sync"
)

// Logger implements port.Logger and keeps every formatted message per severity.
type Logger struct {
	mu     sync.Mutex
	Infos  []string
	Warns  []string
	Errors []string
}

func (l *Logger) Infof(ctx context.Context, format string, a ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, fmt.Sprintf(format, a...))
}

func (l *Logger) Warnf(ctx context.Context, format string, a ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warns = append(l.Warns, fmt.Sprintf(format, a...))
}

func (l *Logger) Errorf(ctx context.Context, format string, a ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, fmt.Sprintf(format, a...))
}

// Snapshot returns copies of the recorded messages.
func (l *Logger) Snapshot() (infos, warns, errs []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.Infos...), append([]string(nil), l.Warns...), append([]string(nil), l.Errors...)
}
