package api

import "net/http"

func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		RespondText(w, http.StatusNotFound, "Not found.")
	}
}
