package http

import (
	"io"
	"net/http"
)

const livenessText = "medication-bot is running"

// Root is the liveness endpoint.
func Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, livenessText)
}
