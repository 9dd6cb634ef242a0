package authjwt

import "errors"

// Errors returned by the admin token provider. RequireAdmin answers 401 for
// all of them.
var (
	ErrInvalidToken     = errors.New("admin token is malformed or was issued elsewhere")
	ErrExpiredToken     = errors.New("admin token expired")
	ErrInvalidSignature = errors.New("admin token signature does not match the configured secret")
	// ErrUnknownRole covers both minting and validating a token whose role
	// is neither viewer nor admin.
	ErrUnknownRole = errors.New("unknown token role")
)
