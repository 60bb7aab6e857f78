package api

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/fhuszti/eiv-uploader/internal/api_context"
	"github.com/fhuszti/eiv-uploader/internal/logger"
	"github.com/fhuszti/eiv-uploader/internal/model"
	"github.com/fhuszti/eiv-uploader/internal/pngmeta"
	"github.com/fhuszti/eiv-uploader/internal/port"
)

const DefaultMaxImageBytes = 64 << 20

// UploadImageHandler accepts a raw PNG body for the bucket resolved by the token middleware.
func UploadImageHandler(repo port.ImageRepository, thumbs port.Thumbnailer, maxBytes int64) http.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		bucket, ok := api_context.BucketFromContext(ctx)
		if !ok || bucket == "" {
			RespondText(w, http.StatusForbidden, "Authorization required.")
			return
		}

		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				RespondText(w, http.StatusRequestEntityTooLarge, "Image too large.")
				return
			}
			RespondText(w, http.StatusBadRequest, "Image data required.")
			return
		}
		if len(data) == 0 {
			RespondText(w, http.StatusBadRequest, "Image data required.")
			return
		}

		sum := sha256.Sum256(data)
		hash := hex.EncodeToString(sum[:])

		exists, err := repo.Exists(ctx, hash)
		if err != nil {
			logger.Errorf(ctx, "❌  Could not check image %s: %v", hash, err)
			RespondText(w, http.StatusInternalServerError, "Could not store image.")
			return
		}
		if exists {
			RespondText(w, http.StatusConflict, "Already exists.")
			return
		}

		md, err := pngmeta.Parse(data)
		if err != nil {
			logger.Warnf(ctx, "⚠️  Rejected image for bucket %q: %v", bucket, err)
			RespondText(w, http.StatusBadRequest, "Invalid PNG image.")
			return
		}

		thumb, err := thumbs.Make(data)
		if err != nil {
			logger.Warnf(ctx, "⚠️  Thumbnail failed for %s: %v", hash, err)
			RespondText(w, http.StatusBadRequest, "Failed to create thumbnail.")
			return
		}

		rec := model.ImageRecord{
			Hash:      hash,
			Bucket:    bucket,
			IP:        clientIP(r),
			Metadata:  *md,
			CreatedAt: time.Now().UTC(),
		}
		if err := repo.Save(ctx, rec, data, thumb); err != nil {
			if errors.Is(err, model.ErrImageExists) {
				RespondText(w, http.StatusConflict, "Already exists.")
				return
			}
			logger.Errorf(ctx, "❌  Could not store image %s: %v", hash, err)
			RespondText(w, http.StatusInternalServerError, "Could not store image.")
			return
		}

		RespondText(w, http.StatusOK, "OK")
		logger.Infof(ctx, "✅  Stored image %s (%dx%d) in bucket %q", hash, md.Width, md.Height, bucket)
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || host == "" {
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "(unknown)"
	}
	return host
}
