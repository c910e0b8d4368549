package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newYAMLViper(t *testing.T, yaml string) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(yaml)))
	return v
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(newYAMLViper(t, `
auth:
  provider: hmac
  hmac_secret: s3cret
`))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 5, cfg.Quota.DailyLimit)
	assert.Equal(t, QuotaBackendSQL, cfg.Quota.Backend)
	assert.Equal(t, DefaultDatabaseDSN, cfg.Database.DSN)
	assert.Equal(t, "gpt-3.5-turbo", cfg.LLM.Model)
	assert.InDelta(t, 0.7, cfg.LLM.Temperature, 0.0001)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DAILY_QUOTA", "3")
	t.Setenv("AUTH_HMAC_SECRET", "from-env")
	t.Setenv("QUOTA_BACKEND", "Redis")

	cfg, err := Load(newYAMLViper(t, `
auth:
  provider: hmac
`))
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 3, cfg.Quota.DailyLimit)
	assert.Equal(t, "from-env", cfg.Auth.HMACSecret)
	assert.Equal(t, QuotaBackendRedis, cfg.Quota.Backend)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "firebase provider needs project id",
			yaml:    "auth:\n  provider: firebase\n",
			wantErr: "firebase.project_id",
		},
		{
			name:    "hmac provider needs secret",
			yaml:    "auth:\n  provider: hmac\n",
			wantErr: "auth.hmac_secret",
		},
		{
			name:    "unknown backend",
			yaml:    "auth:\n  provider: hmac\n  hmac_secret: x\nquota:\n  backend: mongo\n",
			wantErr: "unknown quota.backend",
		},
		{
			name:    "non-positive limit",
			yaml:    "auth:\n  provider: hmac\n  hmac_secret: x\nquota:\n  daily_limit: 0\n",
			wantErr: "daily_limit",
		},
		{
			name: "firestore with project id",
			yaml: "firebase:\n  project_id: smart-farming\nquota:\n  backend: firestore\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(newYAMLViper(t, tt.yaml))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
