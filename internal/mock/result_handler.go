package mock

import (
	"context"
	"sync"

	"github.com/fhuszti/eiv-uploader/internal/model"
)

// ResultHandler implements port.ResultHandler and stores every result it receives.
type ResultHandler struct {
	mu      sync.Mutex
	Results []model.UploadResult

	// PanicWith makes HandleResult panic after recording, when non-nil.
	PanicWith any
}

func (m *ResultHandler) HandleResult(ctx context.Context, res model.UploadResult) {
	m.mu.Lock()
	m.Results = append(m.Results, res)
	m.mu.Unlock()
	if m.PanicWith != nil {
		panic(m.PanicWith)
	}
}

func (m *ResultHandler) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Results)
}
