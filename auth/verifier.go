// Package auth turns a bearer credential into a verified user id.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// BearerPrefix is the literal prefix required on the Authorization header.
const BearerPrefix = "Bearer "

var (
	// ErrUnauthorized covers missing, malformed and unverifiable credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrMissingToken is returned when the header is absent or lacks the prefix.
	ErrMissingToken = fmt.Errorf("%w: token missing", ErrUnauthorized)
)

// TokenVerifier resolves an identity token to the user id it was issued for.
// Implementations wrap every failure with ErrUnauthorized.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// ExtractBearerToken returns the credential after the "Bearer " prefix.
func ExtractBearerToken(header string) (string, error) {
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", ErrMissingToken
	}
	return header[len(BearerPrefix):], nil
}
