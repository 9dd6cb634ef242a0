package authjwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	authdomain "github.com/smk-league/smk-rating/app/modules/auth/domain"
)

type adminClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

type provider struct {
	secret []byte
	issuer string
}

// NewProvider creates a new HS256 JWT provider.
func NewProvider(secret, issuer string) Provider {
	return &provider{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// GenerateToken creates a signed JWT token.
func (p *provider) GenerateToken(subject string, role authdomain.Role, ttl time.Duration) (string, error) {
	if !role.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	now := time.Now()
	claims := &adminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    p.issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Role: string(role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

// ValidateToken validates a JWT token and returns the domain claims if valid.
func (p *provider) ValidateToken(tokenString string) (*authdomain.Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if p.issuer != "" {
		opts = append(opts, jwt.WithIssuer(p.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &adminClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return p.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrInvalidSignature
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*adminClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	domainClaims := &authdomain.Claims{
		Subject: claims.Subject,
		Role:    authdomain.Role(claims.Role),
	}
	if !domainClaims.Role.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, claims.Role)
	}
	if claims.ExpiresAt != nil {
		domainClaims.ExpiresAt = claims.ExpiresAt.Time
	}
	if claims.IssuedAt != nil {
		domainClaims.IssuedAt = claims.IssuedAt.Time
	}

	return domainClaims, nil
}
