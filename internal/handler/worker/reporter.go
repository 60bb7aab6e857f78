package worker

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fhuszti/eiv-uploader/internal/logger"
	"github.com/fhuszti/eiv-uploader/internal/model"
	"github.com/fhuszti/eiv-uploader/internal/port"
)

// Reporter turns upload results into log notifications and stats updates.
type Reporter struct {
	log   port.Logger
	stats port.UploadStats
}

// compile-time check: *Reporter must satisfy port.ResultHandler
var _ port.ResultHandler = (*Reporter)(nil)

// NewReporter accepts nil collaborators and falls back to no-op ones.
func NewReporter(log port.Logger, stats port.UploadStats) *Reporter {
	if log == nil {
		log = logger.NewNoop()
	}
	return &Reporter{log: log, stats: stats}
}

func (r *Reporter) HandleResult(ctx context.Context, res model.UploadResult) {
	name := filepath.Base(res.FilePath)

	switch res.Outcome {
	case model.OutcomeSuccess:
		r.log.Infof(ctx, "Upload successful: %s (status %d, %s)", name, res.StatusCode, res.Duration.Round(time.Millisecond))
	case model.OutcomeHTTPError:
		r.log.Warnf(ctx, "Upload failed: %s (%s)", name, res.Reason())
	default:
		r.log.Errorf(ctx, "Fatal error, upload failed: %s (%s)", name, res.Reason())
	}

	if r.stats == nil {
		return
	}
	if err := r.stats.RecordResult(ctx, res); err != nil {
		logger.Warnf(ctx, "⚠️  Could not record upload stats: %v", err)
	}
}
