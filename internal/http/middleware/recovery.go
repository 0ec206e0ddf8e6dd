package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/honeyshop-backend/internal/http/response"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
)

// Recovery turns a handler panic into a 500 envelope.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		if log != nil {
			log.Error("Handler panic", "path", c.Request.URL.Path, "panic", recovered)
		}
		response.AbortError(c, http.StatusInternalServerError, "internal", "internal server error")
	})
}
