package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFallbackHandlers(t *testing.T) {
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		method    string
		path      string
		wantCode  int
		wantBody  string
		wantAllow string
	}{
		{"not found", NotFoundHandler(), http.MethodGet, "/nope", http.StatusNotFound, "Not found.", ""},
		{"upload endpoint", MethodNotAllowedHandler(), http.MethodGet, "/api/images", http.StatusMethodNotAllowed, "Method not allowed.", http.MethodPost},
		{"listing endpoint", MethodNotAllowedHandler(), http.MethodPost, "/api/buckets", http.StatusMethodNotAllowed, "Method not allowed.", http.MethodGet},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			tc.handler(rr, httptest.NewRequest(tc.method, tc.path, nil))

			if rr.Code != tc.wantCode {
				t.Errorf("status = %d; want %d", rr.Code, tc.wantCode)
			}
			if got := rr.Body.String(); got != tc.wantBody {
				t.Errorf("body = %q; want %q", got, tc.wantBody)
			}
			if ct := rr.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
				t.Errorf("Content-Type = %q", ct)
			}
			if got := rr.Header().Get("Allow"); got != tc.wantAllow {
				t.Errorf("Allow = %q; want %q", got, tc.wantAllow)
			}
		})
	}
}
