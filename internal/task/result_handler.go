package task

import (
	"context"
	"sync"

	"github.com/fhuszti/eiv-uploader/internal/logger"
	"github.com/fhuszti/eiv-uploader/internal/model"
	"github.com/fhuszti/eiv-uploader/internal/port"
)

// ChannelResultHandler publishes results on a buffered channel.
// A full channel loses the result rather than stalling a worker.
// The channel is closed once the dispatcher has drained.
type ChannelResultHandler struct {
	results chan model.UploadResult
	once    sync.Once
}

// compile-time check: *ChannelResultHandler must satisfy port.ResultHandler
var _ port.ResultHandler = (*ChannelResultHandler)(nil)

func NewChannelResultHandler(buffer int) *ChannelResultHandler {
	return &ChannelResultHandler{results: make(chan model.UploadResult, buffer)}
}

func (h *ChannelResultHandler) HandleResult(ctx context.Context, res model.UploadResult) {
	select {
	case h.results <- res:
	default:
		logger.Warnf(ctx, "⚠️  Result channel full, dropping result for %s", res.FilePath)
	}
}

func (h *ChannelResultHandler) Results() <-chan model.UploadResult {
	return h.results
}

func (h *ChannelResultHandler) close() {
	h.once.Do(func() { close(h.results) })
}
