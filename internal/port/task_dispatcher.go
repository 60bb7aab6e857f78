package port

import (
	"context"

	"github.com/fhuszti/eiv-uploader/internal/model"
	"github.com/fhuszti/eiv-uploader/internal/uuid"
)

// TaskDispatcher schedules uploads in the background.
type TaskDispatcher interface {
	// Submit enqueues an upload for filePath and returns without waiting for it.
	Submit(filePath string) (uuid.UUID, error)
	// Shutdown stops accepting work and drains what is left until ctx is done.
	Shutdown(ctx context.Context) bool
	Stats() model.PoolStats
}

// ResultHandler receives the terminal result of every task.
// It is called from worker goroutines and must be safe for concurrent use.
type ResultHandler interface {
	HandleResult(ctx context.Context, res model.UploadResult)
}
