package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fhuszti/eiv-uploader/internal/config"
	"github.com/fhuszti/eiv-uploader/internal/extension"
	"github.com/fhuszti/eiv-uploader/internal/logger"
	"github.com/fhuszti/eiv-uploader/internal/model"
	"github.com/fhuszti/eiv-uploader/internal/port"
	"github.com/fhuszti/eiv-uploader/internal/stats"
	"github.com/fhuszti/eiv-uploader/internal/storage"
	"github.com/fhuszti/eiv-uploader/internal/watcher"
	"golang.org/x/sync/errgroup"
)

const logPrefix = "[External Image Viewer] "

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init()
	log := logger.New(logPrefix)

	if !cfg.UploadEnabled() {
		logger.Warnf(ctx, "⚠️  %v, nothing to do", extension.ErrDisabled)
		return
	}

	dir := cfg.WatchDir
	if dir == "" {
		dir = "."
		logger.Warn(ctx, "⚠️  EIV_WATCH_DIR not set, watching the working directory")
	}
	host, err := watcher.New(dir, cfg.WatchExtensions, cfg.SettleDelay, log)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialise watcher: %v", err)
		os.Exit(1)
	}

	st, closeStats := initStats(ctx, cfg)
	defer closeStats()

	deps := extension.Deps{Logger: log, Stats: st}
	if cfg.Backend == config.BackendMinio {
		deps.NewUploader = func(ctx context.Context) (port.Uploader, string, error) {
			return initMinio(ctx, cfg)
		}
	}

	ext, err := extension.Setup(host, cfg, deps)
	switch {
	case errors.Is(err, extension.ErrDisabled):
		logger.Warnf(ctx, "⚠️  %v, nothing to do", err)
		return
	case err != nil:
		logger.Errorf(ctx, "❌  Failed to set up uploads: %v", err)
		os.Exit(1)
	}

	run(ctx, host, ext, st, cfg)
}

// initStats returns Redis-backed totals when Redis answers, no-op totals otherwise.
func initStats(ctx context.Context, cfg *config.Settings) (port.UploadStats, func()) {
	if cfg.RedisAddr == "" {
		logger.Warn(ctx, "⚠️  Redis not configured, upload totals are not kept")
		return stats.NewNoop(), func() {}
	}

	rs := stats.NewRedisStats(cfg.RedisAddr, cfg.RedisPassword)
	if err := rs.Ping(ctx); err != nil {
		logger.Warnf(ctx, "⚠️  Redis unreachable, upload totals are not kept: %v", err)
		_ = rs.Close()
		return stats.NewNoop(), func() {}
	}
	logger.Info(ctx, "✅  Redis upload totals enabled")

	return rs, func() {
		if err := rs.Close(); err != nil {
			logger.Warnf(ctx, "Redis close error: %v", err)
		}
	}
}

func initMinio(ctx context.Context, cfg *config.Settings) (port.Uploader, string, error) {
	strg, err := storage.NewMinioClient(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	if err != nil {
		return nil, "", fmt.Errorf("MinIO client: %w", err)
	}
	up, err := strg.WithBucket(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, "", fmt.Errorf("bucket %q: %w", cfg.MinioBucket, err)
	}
	logger.Infof(ctx, "✅  MinIO bucket %q ready", cfg.MinioBucket)
	return up, up.DestinationURL(), nil
}

func run(ctx context.Context, host *watcher.Watcher, ext *extension.Extension, st port.UploadStats, cfg *config.Settings) {
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Infof(ctx, "🚀 Uploader started, sending images to %s", ext.Destination())
	err := supervise(sigCtx, host.Run, func() {
		logger.Info(ctx, "🛑 Shutdown signal received, draining uploads…")

		drainCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if !ext.Shutdown(drainCtx) {
			logger.Warnf(ctx, "⚠️  Drain timed out after %s, pending uploads were cancelled", cfg.ShutdownTimeout)
		}
	})

	if err != nil {
		logger.Errorf(ctx, "❌  Uploader stopped: %v", err)
		// drain has already run once supervise returns
		report(ctx, ext, st)
		os.Exit(1)
	}

	report(ctx, ext, st)
	logger.Info(ctx, "✅  Uploader gracefully stopped")
}

// supervise runs host until ctx ends or host returns, then drains. The drain runs exactly once
// whichever side stops first.
func supervise(ctx context.Context, host func(context.Context) error, drain func()) error {
	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		defer stop()
		return host(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		drain()
		return nil
	})
	return g.Wait()
}

func report(ctx context.Context, ext *extension.Extension, st port.UploadStats) {
	s := ext.Stats()
	logger.Infof(ctx, "uploads this run: %d completed, %d failed, %d dropped", s.Completed, s.Failed, s.Dropped)

	totals, err := st.Totals(ctx)
	if err != nil {
		logger.Warnf(ctx, "⚠️  Could not read upload totals: %v", err)
		return
	}
	if len(totals) > 0 {
		logger.Infof(ctx, "uploads overall: %d succeeded, %d rejected, %d failed",
			totals[model.OutcomeSuccess], totals[model.OutcomeHTTPError], totals[model.OutcomeTransportError])
	}

	if rs, ok := st.(*stats.RedisStats); ok {
		last, err := rs.LastFailure(ctx)
		if err == nil && last != nil {
			logger.Infof(ctx, "last failure: %s (%s)", last.FilePath, last.Reason)
		}
	}
}
