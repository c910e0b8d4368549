package auth

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProject = "smart-farming-test"

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{header: "Bearer ", want: ""},
		{header: "", wantErr: true},
		{header: "bearer abc", wantErr: true},
		{header: "Basic dXNlcjpwYXNz", wantErr: true},
		{header: "Bearerabc", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := ExtractBearerToken(tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnauthorized)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHMACVerifier(t *testing.T) {
	ctx := context.Background()
	v := NewHMACVerifier("dev-secret")
	valid := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}

	t.Run("valid token yields uid", func(t *testing.T) {
		token, err := SignHMACToken("dev-secret", "uid-123", valid)
		require.NoError(t, err)

		uid, err := v.Verify(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "uid-123", uid)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := SignHMACToken("other-secret", "uid-123", valid)
		require.NoError(t, err)

		_, err = v.Verify(ctx, token)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := SignHMACToken("dev-secret", "uid-123", jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		})
		require.NoError(t, err)

		_, err = v.Verify(ctx, token)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("missing expiry", func(t *testing.T) {
		token, err := SignHMACToken("dev-secret", "uid-123", jwt.RegisteredClaims{})
		require.NoError(t, err)

		_, err = v.Verify(ctx, token)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := v.Verify(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, ErrUnauthorized)
		_, err = v.Verify(ctx, "")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func signFirebaseToken(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestFirebaseVerifier(t *testing.T) {
	ctx := context.Background()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	v := NewFirebaseVerifierWithKeySet(testProject, &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{&key.PublicKey}})

	base := func() jwt.MapClaims {
		return jwt.MapClaims{
			"iss": "https://securetoken.google.com/" + testProject,
			"aud": testProject,
			"sub": "firebase-uid-1",
			"iat": time.Now().Unix(),
			"exp": time.Now().Add(time.Hour).Unix(),
		}
	}

	t.Run("valid token yields subject", func(t *testing.T) {
		uid, err := v.Verify(ctx, signFirebaseToken(t, key, base()))
		require.NoError(t, err)
		assert.Equal(t, "firebase-uid-1", uid)
	})

	t.Run("wrong audience", func(t *testing.T) {
		claims := base()
		claims["aud"] = "another-project"
		_, err := v.Verify(ctx, signFirebaseToken(t, key, claims))
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		claims := base()
		claims["iss"] = "https://accounts.google.com"
		_, err := v.Verify(ctx, signFirebaseToken(t, key, claims))
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("expired", func(t *testing.T) {
		claims := base()
		claims["exp"] = time.Now().Add(-time.Hour).Unix()
		_, err := v.Verify(ctx, signFirebaseToken(t, key, claims))
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("signed by another key", func(t *testing.T) {
		other, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
		_, err = v.Verify(ctx, signFirebaseToken(t, other, base()))
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("empty subject", func(t *testing.T) {
		claims := base()
		delete(claims, "sub")
		_, err := v.Verify(ctx, signFirebaseToken(t, key, claims))
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}
