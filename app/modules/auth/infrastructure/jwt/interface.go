package authjwt

import (
	"time"

	authdomain "github.com/smk-league/smk-rating/app/modules/auth/domain"
)

// Provider defines the interface for JWT token operations.
type Provider interface {
	// GenerateToken creates a signed JWT token for the given subject and role.
	GenerateToken(subject string, role authdomain.Role, ttl time.Duration) (string, error)

	// ValidateToken validates a JWT token and returns the claims if valid.
	ValidateToken(tokenString string) (*authdomain.Claims, error)
}
