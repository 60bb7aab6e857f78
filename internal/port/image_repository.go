package port

import (
	"context"

	"github.com/fhuszti/eiv-uploader/internal/model"
)

// ImageRepository stores images accepted by the receiver.
type ImageRepository interface {
	Exists(ctx context.Context, hash string) (bool, error)
	// Save fails with model.ErrImageExists when the hash is already stored.
	Save(ctx context.Context, rec model.ImageRecord, raw, thumb []byte) error
	List(ctx context.Context, bucket string, page, limit int) (model.ImagePage, error)
}
