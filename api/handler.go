package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Bagus-DevLab/chatbot-smartgarden/metrics"
	"github.com/Bagus-DevLab/chatbot-smartgarden/middleware"
	"github.com/Bagus-DevLab/chatbot-smartgarden/models"
	"github.com/Bagus-DevLab/chatbot-smartgarden/services"
	"github.com/Bagus-DevLab/chatbot-smartgarden/utils"
)

// QuotaExceededDetail is returned with 429 once the daily quota is used up.
const QuotaExceededDetail = "Kuota harian habis."

// APIHandler holds the dependencies of the HTTP handlers.
type APIHandler struct {
	quotaService     services.QuotaService
	assistantService services.AssistantService
	metrics          *metrics.Metrics
	dailyLimit       int
}

// NewAPIHandler creates a new APIHandler. m may be nil.
func NewAPIHandler(
	quotaService services.QuotaService,
	assistantService services.AssistantService,
	m *metrics.Metrics,
	dailyLimit int,
) *APIHandler {
	return &APIHandler{
		quotaService:     quotaService,
		assistantService: assistantService,
		metrics:          m,
		dailyLimit:       dailyLimit,
	}
}

// ChatHandler answers POST /chat. BearerAuth has already put the user id on the context.
func (h *APIHandler) ChatHandler(c *gin.Context) {
	userID := c.GetString(middleware.ContextKeyUserID)
	if userID == "" {
		h.metrics.ObserveChatRequest(metrics.OutcomeError)
		utils.SendJSONError(c, http.StatusInternalServerError, "", errors.New("chat handler reached without authenticated user"))
		return
	}

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.ObserveChatRequest(metrics.OutcomeInvalid)
		utils.SendJSONError(c, http.StatusUnprocessableEntity, "Invalid request body: "+err.Error(), nil)
		return
	}

	allowed, err := h.quotaService.CheckAndConsume(c.Request.Context(), userID, h.dailyLimit)
	if err != nil {
		h.metrics.ObserveChatRequest(metrics.OutcomeError)
		utils.SendJSONError(c, http.StatusInternalServerError, "", err)
		return
	}
	if !allowed {
		h.metrics.ObserveChatRequest(metrics.OutcomeQuotaExceeded)
		h.metrics.IncrementQuotaDenied()
		utils.SendJSONError(c, http.StatusTooManyRequests, QuotaExceededDetail, nil)
		return
	}

	reply := h.assistantService.Complete(c.Request.Context(), *req.Message)

	h.metrics.ObserveChatRequest(metrics.OutcomeOK)
	slog.Info("[ChatHandler] reply sent", "user_id", userID, "reply_chars", len(reply))
	c.JSON(http.StatusOK, models.ChatResponse{Response: reply})
}

// QuotaHandler answers GET /quota with today's usage for the caller.
func (h *APIHandler) QuotaHandler(c *gin.Context) {
	userID := c.GetString(middleware.ContextKeyUserID)
	if userID == "" {
		utils.SendJSONError(c, http.StatusInternalServerError, "", errors.New("quota handler reached without authenticated user"))
		return
	}

	status, err := h.quotaService.Status(c.Request.Context(), userID, h.dailyLimit)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "", err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// HealthHandler reports that the process is serving.
func (h *APIHandler) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
