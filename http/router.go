package http

import "net/http"

// NewRouter wires the webhook routes. limiter may be nil.
func NewRouter(progress *ProgressHandler, limiter *RateLimiter) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", Root)
	mux.Handle(
		"/medication",
		RateLimitMiddleware(
			limiter,
			http.HandlerFunc(progress.CheckProgress),
		),
	)

	return RequestID(Recover(mux))
}
