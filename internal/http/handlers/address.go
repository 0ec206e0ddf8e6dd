package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/honeyshop-backend/internal/http/response"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
	"github.com/yungbote/honeyshop-backend/internal/services"
)

type AddressHandler struct {
	log            *logger.Logger
	addressService services.AddressService
}

func NewAddressHandler(log *logger.Logger, addressService services.AddressService) *AddressHandler {
	return &AddressHandler{log: log.With("handler", "AddressHandler"), addressService: addressService}
}

type addressRequest struct {
	Label      string `json:"label"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
	IsDefault  bool   `json:"is_default"`
}

func (r addressRequest) input() services.AddressInput {
	return services.AddressInput{
		Label:      r.Label,
		Street:     r.Street,
		City:       r.City,
		State:      r.State,
		Country:    r.Country,
		PostalCode: r.PostalCode,
		IsDefault:  r.IsDefault,
	}
}

// GET /api/addresses
func (ah *AddressHandler) List(c *gin.Context) {
	list, err := ah.addressService.ListAddresses(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, ah.log, err)
		return
	}
	response.RespondOK(c, gin.H{"addresses": list})
}

// POST /api/addresses
func (ah *AddressHandler) Create(c *gin.Context) {
	var req addressRequest
	if !bindJSON(c, ah.log, &req) {
		return
	}
	a, err := ah.addressService.CreateAddress(c.Request.Context(), req.input())
	if err != nil {
		response.RespondServiceError(c, ah.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"address": a})
}

// PATCH /api/addresses/:id
func (ah *AddressHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, ah.log, "id")
	if !ok {
		return
	}
	var req addressRequest
	if !bindJSON(c, ah.log, &req) {
		return
	}
	a, err := ah.addressService.UpdateAddress(c.Request.Context(), id, req.input())
	if err != nil {
		response.RespondServiceError(c, ah.log, err)
		return
	}
	response.RespondOK(c, gin.H{"address": a})
}

// DELETE /api/addresses/:id
func (ah *AddressHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, ah.log, "id")
	if !ok {
		return
	}
	if err := ah.addressService.DeleteAddress(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, ah.log, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /api/addresses/:id/default
func (ah *AddressHandler) SetDefault(c *gin.Context) {
	id, ok := uintParam(c, ah.log, "id")
	if !ok {
		return
	}
	a, err := ah.addressService.SetDefault(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, ah.log, err)
		return
	}
	response.RespondOK(c, gin.H{"address": a})
}
