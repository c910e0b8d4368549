package auth

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
)

const (
	firebaseIssuerPrefix = "https://securetoken.google.com/"
	firebaseJWKSURL      = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"
)

// FirebaseVerifier checks Firebase Authentication ID tokens. They are OIDC ID
// tokens issued by securetoken.google.com/<project> for audience <project>.
type FirebaseVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewFirebaseVerifier fetches Google's signing keys lazily on first use.
func NewFirebaseVerifier(ctx context.Context, projectID string) *FirebaseVerifier {
	return NewFirebaseVerifierWithKeySet(projectID, oidc.NewRemoteKeySet(ctx, firebaseJWKSURL))
}

// NewFirebaseVerifierWithKeySet verifies signatures against keys instead of Google's JWKS.
func NewFirebaseVerifierWithKeySet(projectID string, keys oidc.KeySet) *FirebaseVerifier {
	return &FirebaseVerifier{
		verifier: oidc.NewVerifier(firebaseIssuerPrefix+projectID, keys, &oidc.Config{
			ClientID: projectID,
		}),
	}
}

// Verify returns the Firebase uid (the token subject).
func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrMissingToken
	}
	idToken, err := v.verifier.Verify(ctx, token)
	if err != nil {
		return "", fmt.Errorf("%w: failed to verify ID token: %v", ErrUnauthorized, err)
	}
	if idToken.Subject == "" {
		return "", fmt.Errorf("%w: ID token has no subject", ErrUnauthorized)
	}
	return idToken.Subject, nil
}
