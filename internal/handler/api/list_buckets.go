package api

import (
	"net/http"

	"github.com/fhuszti/eiv-uploader/internal/model"
)

type ListBucketsResponse struct {
	Buckets []model.Bucket `json:"buckets"`
}

func ListBucketsHandler(buckets []model.Bucket) http.HandlerFunc {
	if buckets == nil {
		buckets = []model.Bucket{}
	}
	return func(w http.ResponseWriter, r *http.Request) {
		RespondJSON(w, http.StatusOK, ListBucketsResponse{Buckets: buckets})
	}
}
