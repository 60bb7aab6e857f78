package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/fhuszti/eiv-uploader/internal/api_context"
	"github.com/fhuszti/eiv-uploader/internal/handler/api"
	"github.com/fhuszti/eiv-uploader/internal/logger"
)

// WithBucketToken resolves the Bearer token to the bucket it writes into.
// tokens maps token to bucket.
func WithBucketToken(tokens map[string]string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				api.RespondText(w, http.StatusForbidden, "Authorization required.")
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			bucket, ok := tokens[token]
			if !ok || token == "" {
				logger.Warnf(r.Context(), "⚠️  Unknown upload token from %s", r.RemoteAddr)
				api.RespondText(w, http.StatusNotFound, "Bucket not found.")
				return
			}

			// stash it in context and call the real handler
			ctx := context.WithValue(r.Context(), api_context.BucketKey, bucket)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
