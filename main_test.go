package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bagus-DevLab/chatbot-smartgarden/auth"
	"github.com/Bagus-DevLab/chatbot-smartgarden/config"
)

func TestNewQuotaRepository_SQL(t *testing.T) {
	var cfg config.Config
	cfg.Quota.Backend = config.QuotaBackendSQL
	cfg.Database.DSN = "memory"

	repo, err := newQuotaRepository(context.Background(), cfg)
	require.NoError(t, err)

	quota, err := repo.Get(context.Background(), "uid-main")
	require.NoError(t, err)
	assert.Nil(t, quota)
}

func TestNewQuotaRepository_Unknown(t *testing.T) {
	var cfg config.Config
	cfg.Quota.Backend = "mongo"

	_, err := newQuotaRepository(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNewTokenVerifier(t *testing.T) {
	var cfg config.Config
	cfg.Auth.Provider = config.AuthProviderHMAC
	cfg.Auth.HMACSecret = "s"
	v, err := newTokenVerifier(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &auth.HMACVerifier{}, v)

	cfg.Auth.Provider = config.AuthProviderFirebase
	cfg.Firebase.ProjectID = "smart-farming"
	v, err = newTokenVerifier(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &auth.FirebaseVerifier{}, v)

	cfg.Auth.Provider = "saml"
	_, err = newTokenVerifier(context.Background(), cfg)
	assert.Error(t, err)
}
