package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/honeyshop-backend/internal/domain/aggregates"
	"github.com/yungbote/honeyshop-backend/internal/platform/apierr"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
)

// StatusForCode maps a domain error code to its HTTP status.
func StatusForCode(code domainagg.ErrorCode) int {
	switch code {
	case domainagg.CodeValidation, domainagg.CodeInvariantViolation:
		return http.StatusBadRequest
	case domainagg.CodeUnauthorized:
		return http.StatusUnauthorized
	case domainagg.CodeForbidden:
		return http.StatusForbidden
	case domainagg.CodeNotFound:
		return http.StatusNotFound
	case domainagg.CodeConflict:
		return http.StatusConflict
	case domainagg.CodePreconditionFailed:
		return http.StatusPreconditionFailed
	case domainagg.CodeUnavailable, domainagg.CodeRetryable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func publicMessage(code domainagg.ErrorCode, err error) string {
	switch code {
	case domainagg.CodeUnavailable, domainagg.CodeRetryable:
		return "service temporarily unavailable, please retry"
	case domainagg.CodePreconditionFailed:
		return "request conflicts with related records"
	case domainagg.CodeInternal:
		return "internal server error"
	}
	if msg := domainagg.MessageOf(err); msg != "" {
		return msg
	}
	return string(code)
}

// RespondServiceError renders err in the error envelope. Transport errors
// carry their own status; coded errors are mapped by StatusForCode; anything
// else is a 500 with a generic message. 4xx are logged at warn, 5xx at error.
func RespondServiceError(c *gin.Context, log *logger.Logger, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	status, code, msg := http.StatusInternalServerError, string(domainagg.CodeInternal), "internal server error"
	if ae, ok := apierr.As(err); ok {
		status, code, msg = ae.Status, ae.Code, ae.Error()
	} else if dc := domainagg.CodeOf(err); dc != "" {
		status, code, msg = StatusForCode(dc), string(dc), publicMessage(dc, err)
	}

	if log != nil {
		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"code", code,
			"error", err.Error(),
		}
		if status >= http.StatusInternalServerError {
			log.Error("Request failed", fields...)
		} else {
			log.Warn("Request rejected", fields...)
		}
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}
