package api

import "net/http"

// MethodNotAllowedHandler answers in plain text, like the upload endpoint.
func MethodNotAllowedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", allowedMethods(r))
		RespondText(w, http.StatusMethodNotAllowed, "Method not allowed.")
	}
}

func allowedMethods(r *http.Request) string {
	if r.URL.Path == "/api/images" {
		return http.MethodPost
	}
	return http.MethodGet
}
