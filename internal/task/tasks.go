package task

import (
	"fmt"
	"time"

	"github.com/fhuszti/eiv-uploader/internal/model"
	"github.com/fhuszti/eiv-uploader/internal/uuid"
	"github.com/fhuszti/eiv-uploader/internal/validation"
)

// NewUploadTask creates a validated upload task for filePath.
func NewUploadTask(filePath, dest string) (model.UploadTask, error) {
	t := model.UploadTask{
		ID:             uuid.NewUUID(),
		FilePath:       filePath,
		DestinationURL: dest,
		EnqueuedAt:     time.Now(),
	}
	if err := validation.ValidateStruct(t); err != nil {
		errsJSON, _ := validation.ErrorsToJson(err)
		return model.UploadTask{}, fmt.Errorf("invalid upload task %s: %w", errsJSON, err)
	}
	return t, nil
}
