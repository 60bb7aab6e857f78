// Package receiver assembles the development image receiver the uploader can target.
package receiver

import (
	"github.com/fhuszti/eiv-uploader/internal/config"
	"github.com/fhuszti/eiv-uploader/internal/handler/api"
	cMiddleware "github.com/fhuszti/eiv-uploader/internal/middleware"
	"github.com/fhuszti/eiv-uploader/internal/port"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts the receiver API under /api.
func NewRouter(cfg *config.ReceiverSettings, repo port.ImageRepository, thumbs port.Thumbnailer) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.NotFound(api.NotFoundHandler())
	r.MethodNotAllowed(api.MethodNotAllowedHandler())

	buckets := cfg.Buckets()

	r.Route("/api", func(r chi.Router) {
		r.Get("/buckets", api.ListBucketsHandler(buckets))
		r.Get("/buckets/{bucket}/{page}", api.ListImagesHandler(repo, buckets, cfg.ListLimit))
		r.With(cMiddleware.WithBucketToken(cfg.Tokens)).
			Post("/images", api.UploadImageHandler(repo, thumbs, cfg.MaxImageBytes))
	})

	return r
}
