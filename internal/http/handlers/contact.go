package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/honeyshop-backend/internal/http/response"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
	"github.com/yungbote/honeyshop-backend/internal/services"
)

type ContactHandler struct {
	log            *logger.Logger
	contactService services.ContactService
}

func NewContactHandler(log *logger.Logger, contactService services.ContactService) *ContactHandler {
	return &ContactHandler{log: log.With("handler", "ContactHandler"), contactService: contactService}
}

// POST /api/contact
func (ch *ContactHandler) Submit(c *gin.Context) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Message string `json:"message"`
	}
	if !bindJSON(c, ch.log, &req) {
		return
	}
	saved, err := ch.contactService.Submit(c.Request.Context(), services.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	})
	if err != nil {
		response.RespondServiceError(c, ch.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"contact": saved, "message": "thanks, we will be in touch"})
}

// GET /api/admin/contacts?limit=50
func (ch *ContactHandler) ListRecent(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.Query("limit"), 10, 64)
	list, err := ch.contactService.ListRecent(c.Request.Context(), limit)
	if err != nil {
		response.RespondServiceError(c, ch.log, err)
		return
	}
	response.RespondOK(c, gin.H{"contacts": list})
}
