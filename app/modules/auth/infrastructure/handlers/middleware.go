package authhandlers

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	authdomain "github.com/smk-league/smk-rating/app/modules/auth/domain"
	authjwt "github.com/smk-league/smk-rating/app/modules/auth/infrastructure/jwt"
	"github.com/smk-league/smk-rating/app/observability/attr"
)

const (
	// cleanupThreshold is the minimum map size before a cleanup pass runs.
	cleanupThreshold = 500
	// maxIdleAge is the duration after which an idle IP entry is eligible for cleanup.
	maxIdleAge = 10 * time.Minute
)

type ipEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter is an IP-based rate limiter that prunes stale entries inline.
type IPRateLimiter struct {
	ips map[string]*ipEntry
	mu  sync.Mutex
	r   rate.Limit
	b   int
}

// NewIPRateLimiter creates a new IPRateLimiter.
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips: make(map[string]*ipEntry),
		r:   r,
		b:   b,
	}
}

// GetLimiter returns a rate.Limiter for the given IP, pruning stale entries when the
// map exceeds cleanupThreshold.
func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	if len(i.ips) > cleanupThreshold {
		cutoff := time.Now().Add(-maxIdleAge)
		for k, e := range i.ips {
			if e.lastSeen.Before(cutoff) {
				delete(i.ips, k)
			}
		}
	}

	e, exists := i.ips[ip]
	if !exists {
		e = &ipEntry{limiter: rate.NewLimiter(i.r, i.b)}
		i.ips[ip] = e
	}
	e.lastSeen = time.Now()

	return e.limiter
}

// RateLimitMiddleware returns a middleware that rate limits requests based on IP.
func RateLimitMiddleware(limiter *IPRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if !limiter.GetLimiter(ip).Allow() {
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CORSMiddleware returns a middleware that sets CORS headers for the configured origins.
// When allowedOrigins is empty, no CORS headers are added.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[strings.TrimSpace(o)] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin := r.Header.Get("Origin"); origin != "" {
				if _, ok := origins[origin]; ok {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Vary", "Origin")
					w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
					w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				}
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type claimsKey struct{}

// ClaimsFromContext returns the claims stored by RequireAdmin.
func ClaimsFromContext(ctx context.Context) (*authdomain.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*authdomain.Claims)
	return c, ok
}

// RequireAdmin rejects requests without a valid admin bearer token.
func RequireAdmin(provider authjwt.Provider, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := provider.ValidateToken(token)
			if err != nil {
				logger.WarnContext(r.Context(), "Rejected admin token",
					attr.Error(err),
					attr.String("path", r.URL.Path),
				)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if !claims.IsAdmin() {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
		})
	}
}
