package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/honeyshop-backend/internal/http/response"
	"github.com/yungbote/honeyshop-backend/internal/platform/apierr"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
)

// bindJSON decodes the body into dst, answering 400 on failure.
func bindJSON(c *gin.Context, log *logger.Logger, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondServiceError(c, log, apierr.BadRequest(fmt.Errorf("invalid request body: %w", err)))
		return false
	}
	return true
}

// uintParam reads a positive integer path parameter.
func uintParam(c *gin.Context, log *logger.Logger, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		response.RespondServiceError(c, log, apierr.BadRequest(errors.New("invalid "+name)))
		return 0, false
	}
	return uint(n), true
}
