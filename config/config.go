package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Supported quota storage backends.
const (
	QuotaBackendSQL       = "sql"
	QuotaBackendRedis     = "redis"
	QuotaBackendFirestore = "firestore"
)

// Supported identity providers.
const (
	AuthProviderFirebase = "firebase"
	AuthProviderHMAC     = "hmac"
)

// DefaultDatabaseDSN is the SQLite file used when no DSN is configured.
const DefaultDatabaseDSN = "data/quota.db"

// LLMConfig holds the language model client settings.
type LLMConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"` // Empty means the provider default
	Model       string  `mapstructure:"model"`
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string
		Mode string // gin mode: debug, release or test
	}
	Log struct {
		Level string
		Dir   string
		Dev   bool
	}
	Database struct {
		DSN string // a SQLite file path, a postgres:// URL, or "memory" for tests
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	Firebase struct {
		ProjectID       string `mapstructure:"project_id"`
		CredentialsFile string `mapstructure:"credentials_file"`
	}
	Auth struct {
		Provider   string
		HMACSecret string `mapstructure:"hmac_secret"`
	}
	Quota struct {
		DailyLimit int    `mapstructure:"daily_limit"`
		Backend    string // sql, redis or firestore
	}
	LLM LLMConfig `mapstructure:"llm"`
}

// AppConfig is the global configuration instance.
var AppConfig Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.dir", "logs")
	v.SetDefault("log.dev", false)
	v.SetDefault("database.dsn", DefaultDatabaseDSN)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("firebase.project_id", "")
	v.SetDefault("firebase.credentials_file", "serviceAccountKey.json")
	v.SetDefault("auth.provider", AuthProviderFirebase)
	v.SetDefault("auth.hmac_secret", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("quota.daily_limit", 5)
	v.SetDefault("quota.backend", QuotaBackendSQL)
	v.SetDefault("llm.model", "gpt-3.5-turbo")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_tokens", 0)
}

// LoadConfig loads configuration from config.yaml, an optional .env file and
// environment variables into AppConfig. It exits the process on a broken config.
func LoadConfig() {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	v.AddConfigPath("../config")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			slog.Warn("[Config] config.yaml not found, using environment variables and defaults")
		} else {
			slog.Error("[Config] error reading configuration file", "error", err)
			os.Exit(1)
		}
	}

	mergeDotEnv(v, ".env")

	cfg, err := Load(v)
	if err != nil {
		slog.Error("[Config] invalid configuration", "error", err)
		os.Exit(1)
	}
	AppConfig = *cfg
	slog.Info("[Config] configuration loading complete",
		"quota_backend", AppConfig.Quota.Backend,
		"auth_provider", AppConfig.Auth.Provider,
		"daily_limit", AppConfig.Quota.DailyLimit,
		"model", AppConfig.LLM.Model,
	)
}

// mergeDotEnv exports the KEY=VALUE pairs of a dotenv file into the process
// environment without overriding variables that are already set.
func mergeDotEnv(v *viper.Viper, path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	env := viper.New()
	env.SetConfigFile(path)
	env.SetConfigType("dotenv")
	if err := env.ReadInConfig(); err != nil {
		slog.Warn("[Config] failed to read dotenv file", "path", path, "error", err)
		return
	}
	for _, key := range env.AllKeys() {
		name := strings.ToUpper(key)
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if err := os.Setenv(name, env.GetString(key)); err != nil {
			slog.Warn("[Config] failed to export dotenv key", "key", name, "error", err)
		}
	}
	slog.Info("[Config] loaded dotenv file", "path", path)
}

// Load builds a Config from an already prepared viper instance, applying
// defaults and environment overrides, then validates it.
func Load(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	applyEnvOverrides(&cfg)

	cfg.Quota.Backend = strings.ToLower(strings.TrimSpace(cfg.Quota.Backend))
	cfg.Auth.Provider = strings.ToLower(strings.TrimSpace(cfg.Auth.Provider))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnvOverrides handles the flat variable names used by existing deployments,
// which do not follow the section_key convention.
func applyEnvOverrides(cfg *Config) {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Server.Port = port
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.LLM.APIKey = key
	}
	if project := os.Getenv("FIREBASE_PROJECT_ID"); project != "" {
		cfg.Firebase.ProjectID = project
	}
	if creds := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); creds != "" {
		cfg.Firebase.CredentialsFile = creds
	}
	if raw := os.Getenv("DAILY_QUOTA"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			cfg.Quota.DailyLimit = n
		} else {
			slog.Warn("[Config] ignoring non-numeric DAILY_QUOTA", "value", raw)
		}
	}
}

// Validate reports configuration combinations the server cannot start with.
func (c *Config) Validate() error {
	if c.Quota.DailyLimit <= 0 {
		return fmt.Errorf("quota.daily_limit must be positive, got %d", c.Quota.DailyLimit)
	}

	switch c.Quota.Backend {
	case QuotaBackendSQL, QuotaBackendRedis:
	case QuotaBackendFirestore:
		if c.Firebase.ProjectID == "" {
			return errors.New("firebase.project_id is required for the firestore quota backend")
		}
	default:
		return fmt.Errorf("unknown quota.backend %q", c.Quota.Backend)
	}

	switch c.Auth.Provider {
	case AuthProviderFirebase:
		if c.Firebase.ProjectID == "" {
			return errors.New("firebase.project_id is required for the firebase auth provider")
		}
	case AuthProviderHMAC:
		if c.Auth.HMACSecret == "" {
			return errors.New("auth.hmac_secret is required for the hmac auth provider")
		}
	default:
		return fmt.Errorf("unknown auth.provider %q", c.Auth.Provider)
	}

	if c.LLM.Model == "" {
		return errors.New("llm.model must not be empty")
	}
	return nil
}
