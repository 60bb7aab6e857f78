package api_context

import (
	"context"

	"github.com/fhuszti/eiv-uploader/internal/uuid"
)

type ctxKey string

const (
	TaskIDKey ctxKey = "taskID"
	BucketKey ctxKey = "bucket"
)

func WithTaskID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, TaskIDKey, id)
}

func TaskIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(TaskIDKey).(uuid.UUID)
	return id, ok
}

func BucketFromContext(ctx context.Context) (string, bool) {
	bucket, ok := ctx.Value(BucketKey).(string)
	return bucket, ok
}
