package middleware

import (
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Bagus-DevLab/chatbot-smartgarden/auth"
	"github.com/Bagus-DevLab/chatbot-smartgarden/logging"
	"github.com/Bagus-DevLab/chatbot-smartgarden/metrics"
	"github.com/Bagus-DevLab/chatbot-smartgarden/utils"
)

// Context keys set by the middlewares below.
const (
	ContextKeyUserID    = "userID"
	ContextKeyRequestID = "requestID"
)

// RequestIDHeader is echoed back on every response.
const RequestIDHeader = "X-Request-ID"

// RequestID tags each request with the caller supplied X-Request-ID or a new UUID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ContextKeyRequestID, id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

// Logger is a Gin middleware for logging HTTP requests and responses.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		latency := time.Since(startTime)
		statusCode := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status_code", statusCode,
			"latency", latency,
			"client_ip", c.ClientIP(),
			"request_id", c.GetString(ContextKeyRequestID),
		}
		if uid := c.GetString(ContextKeyUserID); uid != "" {
			attrs = append(attrs, "user_id", uid)
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate).String(); errs != "" {
			attrs = append(attrs, "errors", errs)
		}

		logger := logging.Get()
		switch {
		case statusCode >= http.StatusInternalServerError:
			logger.Error("[GIN] request completed with server error", attrs...)
		case statusCode >= http.StatusBadRequest:
			logger.Warn("[GIN] request completed with client error", attrs...)
		default:
			logger.Info("[GIN] request completed", attrs...)
		}
	}
}

// Recovery turns panics into a generic 500 response.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				buf := make([]byte, 2048)
				n := runtime.Stack(buf, false)
				logging.Get().Error("[GIN] panic recovered",
					"panic_value", rec,
					"stack_trace", string(buf[:n]),
					"path", c.Request.URL.Path,
					"request_id", c.GetString(ContextKeyRequestID),
				)
				utils.SendJSONError(c, http.StatusInternalServerError, "", nil)
			}
		}()
		c.Next()
	}
}

// Cors is a Gin middleware for enabling Cross-Origin Resource Sharing (CORS).
// It allows requests from any origin.
func Cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// BearerAuth rejects requests without a verifiable "Bearer <token>" header
// with 401 before any handler runs, and stores the verified user id under
// ContextKeyUserID. Rejections are counted on m when it is non-nil.
func BearerAuth(verifier auth.TokenVerifier, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			m.ObserveChatRequest(metrics.OutcomeUnauthorized)
			utils.SendJSONError(c, http.StatusUnauthorized, "Unauthorized: Token missing", nil)
			return
		}

		userID, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			m.ObserveChatRequest(metrics.OutcomeUnauthorized)
			if !errors.Is(err, auth.ErrUnauthorized) {
				// Not a credential problem; operators need to see it.
				logging.Get().Error("[Auth] token verifier returned an unexpected error", "error", err)
			}
			utils.SendJSONError(c, http.StatusUnauthorized, "Unauthorized: Invalid token", err)
			return
		}

		c.Set(ContextKeyUserID, userID)
		c.Next()
	}
}
