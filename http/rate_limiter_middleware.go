package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net"
	"net/http"

	"medication-bot/domain"
	"medication-bot/message"
)

// RateLimitMiddleware rejects clients over their budget with a chat
// message. A nil limiter disables limiting.
func RateLimitMiddleware(
	limiter *RateLimiter,
	next http.Handler,
) http.Handler {
	if limiter == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		key := clientKey(r)

		if !limiter.Allow(key) {
			log.Printf("[%s] rate limit exceeded for %s", RequestIDFrom(r.Context()), key)
			writeSkillText(w, message.RateLimited)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientKey identifies who is calling. The platform relays all users
// through a few addresses, so its user id is preferred over the IP. The
// body is restored for the next handler.
func clientKey(r *http.Request) string {
	if r.Body != nil {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
		r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))

		var req domain.SkillRequest
		if err == nil && json.Unmarshal(body, &req) == nil {
			if id := req.UserID(); id != "" {
				return "user:" + id
			}
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return "ip:" + ip
}
