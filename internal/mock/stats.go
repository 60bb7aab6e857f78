package mock

import (
	"context"
	"sync"

	"github.com/fhuszti/eiv-uploader/internal/model"
)

// Stats implements port.UploadStats for tests.
type Stats struct {
	mu sync.Mutex

	Recorded  []model.UploadResult
	TotalsOut map[model.Outcome]int64

	RecordErr error
	TotalsErr error

	RecordCalled bool
	TotalsCalled bool
}

func (m *Stats) RecordResult(ctx context.Context, res model.UploadResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordCalled = true
	m.Recorded = append(m.Recorded, res)
	return m.RecordErr
}

func (m *Stats) Totals(ctx context.Context) (map[model.Outcome]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TotalsCalled = true
	return m.TotalsOut, m.TotalsErr
}
