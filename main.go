package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Bagus-DevLab/chatbot-smartgarden/api"
	"github.com/Bagus-DevLab/chatbot-smartgarden/auth"
	"github.com/Bagus-DevLab/chatbot-smartgarden/config"
	"github.com/Bagus-DevLab/chatbot-smartgarden/database"
	"github.com/Bagus-DevLab/chatbot-smartgarden/logging"
	"github.com/Bagus-DevLab/chatbot-smartgarden/metrics"
	"github.com/Bagus-DevLab/chatbot-smartgarden/repository"
	"github.com/Bagus-DevLab/chatbot-smartgarden/services"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig

	if err := logging.Initialize(logging.Config{
		Level:   cfg.Log.Level,
		Dev:     cfg.Log.Dev,
		Dir:     cfg.Log.Dir,
		Console: true,
	}); err != nil {
		slog.Error("[Main] failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer func() { _ = logging.Close() }()

	ctx := context.Background()

	quotaRepo, err := newQuotaRepository(ctx, cfg)
	if err != nil {
		slog.Error("[Main] failed to initialize quota storage", "backend", cfg.Quota.Backend, "error", err)
		os.Exit(1)
	}

	verifier, err := newTokenVerifier(ctx, cfg)
	if err != nil {
		slog.Error("[Main] failed to initialize token verifier", "error", err)
		os.Exit(1)
	}

	if cfg.LLM.APIKey == "" {
		slog.Warn("[Main] OPENAI_API_KEY is not set, every chat will receive the fallback reply")
	}
	m := metrics.New(prometheus.DefaultRegisterer)
	assistantService := services.NewAssistantService(services.NewOpenAIClient(cfg.LLM), cfg.LLM, m)
	quotaService := services.NewQuotaService(quotaRepo)
	slog.Info("[Main] services initialized")

	gin.SetMode(cfg.Server.Mode)
	handler := api.NewAPIHandler(quotaService, assistantService, m, cfg.Quota.DailyLimit)
	router := api.NewRouter(handler, verifier, prometheus.DefaultGatherer)

	port := cfg.Server.Port
	if port == "" {
		slog.Warn("[Main] server port not configured, using default 8080")
		port = "8080"
	}
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("[Main] starting server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("[Main] server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	slog.Info("[Main] shutting down server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("[Main] graceful shutdown failed", "error", err)
	}
	slog.Info("[Main] server stopped")
}

func newQuotaRepository(ctx context.Context, cfg config.Config) (repository.QuotaRepository, error) {
	switch cfg.Quota.Backend {
	case config.QuotaBackendSQL:
		db, err := database.Init(cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		return repository.NewQuotaRepository(db), nil
	case config.QuotaBackendRedis:
		client, err := database.InitRedis(ctx, database.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		return repository.NewRedisQuotaRepository(client), nil
	case config.QuotaBackendFirestore:
		client, err := database.InitFirestore(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			return nil, err
		}
		return repository.NewFirestoreQuotaRepository(client), nil
	default:
		return nil, fmt.Errorf("unknown quota backend %q", cfg.Quota.Backend)
	}
}

func newTokenVerifier(ctx context.Context, cfg config.Config) (auth.TokenVerifier, error) {
	switch cfg.Auth.Provider {
	case config.AuthProviderFirebase:
		return auth.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID), nil
	case config.AuthProviderHMAC:
		slog.Warn("[Main] using HMAC development tokens, do not use in production")
		return auth.NewHMACVerifier(cfg.Auth.HMACSecret), nil
	default:
		return nil, fmt.Errorf("unknown auth provider %q", cfg.Auth.Provider)
	}
}
