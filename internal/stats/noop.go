package stats

import (
	"context"

	"github.com/fhuszti/eiv-uploader/internal/model"
	"github.com/fhuszti/eiv-uploader/internal/port"
)

type NoopStats struct{}

// compile-time check: *NoopStats must satisfy port.UploadStats
var _ port.UploadStats = (*NoopStats)(nil)

func NewNoop() *NoopStats {
	return &NoopStats{}
}

func (n *NoopStats) RecordResult(ctx context.Context, res model.UploadResult) error { return nil }

func (n *NoopStats) Totals(ctx context.Context) (map[model.Outcome]int64, error) {
	return map[model.Outcome]int64{}, nil
}
