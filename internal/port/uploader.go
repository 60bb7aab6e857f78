package port

import (
	"context"

	"github.com/fhuszti/eiv-uploader/internal/model"
)

// Uploader sends one file to its destination in a single attempt.
// It never returns an error: every failure is folded into the result.
type Uploader interface {
	Upload(ctx context.Context, t model.UploadTask) model.UploadResult
}

// UploaderFunc adapts a function to the Uploader interface.
type UploaderFunc func(ctx context.Context, t model.UploadTask) model.UploadResult

func (f UploaderFunc) Upload(ctx context.Context, t model.UploadTask) model.UploadResult {
	return f(ctx, t)
}
