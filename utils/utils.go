package utils

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Bagus-DevLab/chatbot-smartgarden/models"
)

// GenericServerError is the only detail a client ever sees for a 5xx response.
const GenericServerError = "Internal Server Error"

// SendJSONError aborts the request with {"detail": publicMsg} and logs internalError.
// For 5xx responses the detail is always GenericServerError so internals never leak.
func SendJSONError(c *gin.Context, statusCode int, publicMsg string, internalError error) {
	attrs := []any{
		"status_code", statusCode,
		"public_message", publicMsg,
		"path", c.Request.URL.Path,
	}
	if requestID := c.GetString("requestID"); requestID != "" {
		attrs = append(attrs, "request_id", requestID)
	}

	if internalError != nil {
		_ = c.Error(internalError)
		slog.Error("handler error", append(attrs, "internal_error", internalError.Error())...)
	} else {
		slog.Info("handler response", attrs...)
	}

	if statusCode >= http.StatusInternalServerError {
		publicMsg = GenericServerError
	}

	c.AbortWithStatusJSON(statusCode, models.ErrorResponse{Detail: publicMsg})
}
