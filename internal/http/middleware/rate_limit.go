package middleware

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/floripafacil/backend/internal/http/response"
	"github.com/floripafacil/backend/internal/repo/postgres"
)

// RateLimitConfig defines rate limiting parameters
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	KeyFunc  func(r *http.Request) []string
}

// RateLimiter guards the public lead-capture endpoints against abuse.
type RateLimiter struct {
	repo   postgres.RateLimitRepo
	config RateLimitConfig
}

func NewRateLimiter(repo postgres.RateLimitRepo, config RateLimitConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = ClientIPKeyFunc
	}
	return &RateLimiter{repo: repo, config: config}
}

func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, key := range rl.config.KeyFunc(r) {
				ok, err := rl.repo.CheckRateLimit(r.Context(), key, rl.config.Requests, rl.config.Window)
				if err != nil {
					// Fail open; the repo already logs its own trouble.
					continue
				}
				if !ok {
					response.RateLimit(w, "too many requests, try again later")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIPKeyFunc rate-limits by the real client IP.
func ClientIPKeyFunc(r *http.Request) []string {
	if ip := clientIP(r); ip != "" {
		return []string{"ip:" + ip}
	}
	return nil
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
