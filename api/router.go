package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Bagus-DevLab/chatbot-smartgarden/auth"
	"github.com/Bagus-DevLab/chatbot-smartgarden/middleware"
)

// NewRouter wires middlewares and routes. gatherer may be nil to skip /metrics.
func NewRouter(handler *APIHandler, verifier auth.TokenVerifier, gatherer prometheus.Gatherer) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies(nil)

	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Cors())

	r.GET("/health", handler.HealthHandler)
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	r.POST("/chat", middleware.BearerAuth(verifier, handler.metrics), handler.ChatHandler)
	r.GET("/quota", middleware.BearerAuth(verifier, nil), handler.QuotaHandler)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not Found"})
	})
	return r
}
