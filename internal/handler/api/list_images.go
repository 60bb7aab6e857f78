package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/fhuszti/eiv-uploader/internal/logger"
	"github.com/fhuszti/eiv-uploader/internal/model"
	"github.com/fhuszti/eiv-uploader/internal/port"
	"github.com/go-chi/chi/v5"
)

const DefaultListLimit = 50

// ListImagesHandler serves GET /api/buckets/{bucket}/{page}. Pages start at 0.
func ListImagesHandler(repo port.ImageRepository, buckets []model.Bucket, limit int) http.HandlerFunc {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	known := make(map[string]struct{}, len(buckets))
	for _, b := range buckets {
		known[b.ID] = struct{}{}
	}

	return func(w http.ResponseWriter, r *http.Request) {
		bucket := chi.URLParam(r, "bucket")
		if _, ok := known[bucket]; !ok {
			WriteError(w, http.StatusNotFound, fmt.Sprintf("bucket %q does not exist", bucket), nil)
			return
		}

		page, err := strconv.Atoi(chi.URLParam(r, "page"))
		if err != nil || page < 0 {
			WriteError(w, http.StatusBadRequest, fmt.Sprintf("page %q is not a valid page number", chi.URLParam(r, "page")), nil)
			return
		}

		out, err := repo.List(r.Context(), bucket, page, limit)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Could not list images", err)
			return
		}

		RespondJSON(w, http.StatusOK, out)
		logger.Debugf(r.Context(), "listed page %d of bucket %q (%d/%d)", page, bucket, len(out.Images), out.Total)
	}
}
