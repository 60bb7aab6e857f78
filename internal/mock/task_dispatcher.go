package mock

import (
	"context"
	"sync"

	"github.com/fhuszti/eiv-uploader/internal/model"
	"github.com/fhuszti/eiv-uploader/internal/uuid"
)

// Dispatcher implements port.TaskDispatcher for tests.
type Dispatcher struct {
	mu sync.Mutex

	SubmitCalled bool
	Paths        []string
	SubmitErr    error

	ShutdownCalled bool
	ShutdownOut    bool

	StatsOut model.PoolStats
}

func (m *Dispatcher) Submit(filePath string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SubmitCalled = true
	m.Paths = append(m.Paths, filePath)
	if m.SubmitErr != nil {
		return uuid.Nil, m.SubmitErr
	}
	return uuid.NewUUID(), nil
}

func (m *Dispatcher) Shutdown(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ShutdownCalled = true
	return m.ShutdownOut
}

func (m *Dispatcher) Stats() model.PoolStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.StatsOut
}
