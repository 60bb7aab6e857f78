package port

import (
	"context"

	"github.com/fhuszti/eiv-uploader/internal/model"
)

// UploadStats keeps running totals of upload outcomes.
type UploadStats interface {
	RecordResult(ctx context.Context, res model.UploadResult) error
	Totals(ctx context.Context) (map[model.Outcome]int64, error)
}
