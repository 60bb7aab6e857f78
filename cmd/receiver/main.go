package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fhuszti/eiv-uploader/internal/config"
	"github.com/fhuszti/eiv-uploader/internal/logger"
	"github.com/fhuszti/eiv-uploader/internal/receiver"
	"github.com/fhuszti/eiv-uploader/internal/repository/filesystem"
	"github.com/fhuszti/eiv-uploader/internal/thumbnail"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadReceiver()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init()

	logger.Info(ctx, "initialising image store...")
	repo, err := filesystem.NewImageRepository(cfg.DataDir)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialise image store: %v", err)
		os.Exit(1)
	}

	thumbs := thumbnail.New(thumbnail.NewWebPEncoder(), cfg.ThumbHeight)

	logger.Info(ctx, "initialising router...")
	r := receiver.NewRouter(cfg, repo, thumbs)

	listenRouter(ctx, r, cfg)
}

func listenRouter(ctx context.Context, h http.Handler, cfg *config.ReceiverSettings) {
	srv := &http.Server{Addr: ":" + strconv.Itoa(cfg.ServerPort), Handler: h}

	// start serving
	go func() {
		logger.Infof(ctx, "🚀 Receiver listening on %s (%d buckets)", srv.Addr, len(cfg.Buckets()))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(ctx, "❌  Listen error: %v", err)
			os.Exit(1)
		}
	}()

	// block until we get SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "❌  Server shutdown failed: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "✅  Server gracefully stopped")
}
