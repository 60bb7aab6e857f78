package mock

import (
	"context"
	"sync"
	"time"

	"github.com/fhuszti/eiv-uploader/internal/model"
)

// Uploader implements port.Uploader for tests. It records every task and tracks how many
// uploads run at the same time.
type Uploader struct {
	// Delay is waited before answering, or until ctx ends.
	Delay time.Duration

	// ResultFn builds the result; nil means success with status 200.
	ResultFn func(ctx context.Context, t model.UploadTask) model.UploadResult

	mu          sync.Mutex
	Calls       []model.UploadTask
	inFlight    int
	MaxInFlight int
}

func (m *Uploader) Upload(ctx context.Context, t model.UploadTask) model.UploadResult {
	m.mu.Lock()
	m.Calls = append(m.Calls, t)
	m.inFlight++
	if m.inFlight > m.MaxInFlight {
		m.MaxInFlight = m.inFlight
	}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	start := time.Now()
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			kind := model.FailureTimeout
			if ctx.Err() == context.Canceled {
				kind = model.FailureCancelled
			}
			return model.TransportError(t, kind, ctx.Err(), time.Since(start))
		}
	}

	if m.ResultFn != nil {
		return m.ResultFn(ctx, t)
	}
	return model.Success(t, 200, time.Since(start))
}

// CallCount returns the number of uploads attempted so far.
func (m *Uploader) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// PeakInFlight returns the highest number of concurrent uploads observed.
func (m *Uploader) PeakInFlight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.MaxInFlight
}
