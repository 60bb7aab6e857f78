package worker

import (
	"context"
	"path/filepath"

	"github.com/fhuszti/eiv-uploader/internal/model"
	"github.com/fhuszti/eiv-uploader/internal/port"
)

// ImageSavedHandler handles an image-saved event from the host.
// It hands the file to the dispatcher and never lets an error reach the host.
func ImageSavedHandler(ctx context.Context, ev model.ImageSavedEvent, d port.TaskDispatcher, log port.Logger) {
	path := ev.FilePath
	if path != "" && !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	if _, err := d.Submit(path); err != nil {
		log.Errorf(ctx, "Fatal error, upload failed: could not queue %s: %v", path, err)
	}
}
