package authdomain

import "time"

// Claims represents the domain model for authentication claims.
type Claims struct {
	Subject   string
	Role      Role
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// IsExpired reports whether the claims have expired at now.
func (c *Claims) IsExpired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// IsAdmin reports whether the claims grant write access to the league data.
func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}
