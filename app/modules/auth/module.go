package auth

import (
	"log/slog"
	"net/http"
	"time"

	authdomain "github.com/smk-league/smk-rating/app/modules/auth/domain"
	authhandlers "github.com/smk-league/smk-rating/app/modules/auth/infrastructure/handlers"
	authjwt "github.com/smk-league/smk-rating/app/modules/auth/infrastructure/jwt"
	"github.com/smk-league/smk-rating/config"
	"golang.org/x/time/rate"
)

// Module provides the HTTP guards shared by the other modules.
type Module struct {
	provider authjwt.Provider
	limiter  *authhandlers.IPRateLimiter
	origins  []string
	ttl      time.Duration
	logger   *slog.Logger
}

// NewModule creates a new auth module.
func NewModule(cfg *config.Config, logger *slog.Logger) *Module {
	if cfg.Auth.AdminJWTSecret == "" {
		logger.Warn("ADMIN_JWT_SECRET not set, admin routes will reject every request")
	}
	return &Module{
		provider: authjwt.NewProvider(cfg.Auth.AdminJWTSecret, cfg.Auth.Issuer),
		limiter:  authhandlers.NewIPRateLimiter(rate.Limit(cfg.HTTP.RateLimit), cfg.HTTP.RateBurst),
		origins:  cfg.HTTP.AllowedOrigins,
		ttl:      cfg.Auth.TokenTTL,
		logger:   logger,
	}
}

// Public returns the middleware chain applied to every API route.
func (m *Module) Public() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		authhandlers.CORSMiddleware(m.origins),
		authhandlers.RateLimitMiddleware(m.limiter),
	}
}

// RequireAdmin guards mutating routes.
func (m *Module) RequireAdmin() func(http.Handler) http.Handler {
	return authhandlers.RequireAdmin(m.provider, m.logger)
}

// IssueAdminToken mints a token for the admin CLI.
func (m *Module) IssueAdminToken(subject string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = m.ttl
	}
	return m.provider.GenerateToken(subject, authdomain.RoleAdmin, ttl)
}
