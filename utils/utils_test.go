package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSendJSONError(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		publicMsg string
		internal  error
		wantBody  string
	}{
		{
			name:      "client error keeps public message",
			status:    http.StatusTooManyRequests,
			publicMsg: "Kuota harian habis.",
			wantBody:  `{"detail":"Kuota harian habis."}`,
		},
		{
			name:      "server error hides internals",
			status:    http.StatusInternalServerError,
			publicMsg: "dial tcp 10.0.0.3:5432: connection refused",
			internal:  errors.New("dial tcp 10.0.0.3:5432: connection refused"),
			wantBody:  `{"detail":"Internal Server Error"}`,
		},
		{
			name:     "server error without message",
			status:   http.StatusInternalServerError,
			wantBody: `{"detail":"Internal Server Error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/chat", nil)

			SendJSONError(c, tt.status, tt.publicMsg, tt.internal)

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			assert.True(t, c.IsAborted())
			if tt.internal != nil {
				assert.Len(t, c.Errors, 1)
			}
		})
	}
}
