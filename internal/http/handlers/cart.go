package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/honeyshop-backend/internal/http/response"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
	"github.com/yungbote/honeyshop-backend/internal/services"
)

type CartHandler struct {
	log         *logger.Logger
	cartService services.CartService
}

func NewCartHandler(log *logger.Logger, cartService services.CartService) *CartHandler {
	return &CartHandler{log: log.With("handler", "CartHandler"), cartService: cartService}
}

// GET /api/cart
func (ch *CartHandler) View(c *gin.Context) {
	view, err := ch.cartService.View(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, ch.log, err)
		return
	}
	response.RespondOK(c, gin.H{"cart": view})
}

// POST /api/cart/items
// body: { "product_slug": "clover-honey", "quantity": 2 }
func (ch *CartHandler) AddItem(c *gin.Context) {
	var req struct {
		ProductSlug string `json:"product_slug"`
		Quantity    int    `json:"quantity"`
	}
	if !bindJSON(c, ch.log, &req) {
		return
	}
	view, err := ch.cartService.AddItem(c.Request.Context(), req.ProductSlug, req.Quantity)
	if err != nil {
		response.RespondServiceError(c, ch.log, err)
		return
	}
	response.RespondOK(c, gin.H{"cart": view})
}

// DELETE /api/cart/items/:slug
func (ch *CartHandler) RemoveItem(c *gin.Context) {
	view, err := ch.cartService.RemoveItem(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.RespondServiceError(c, ch.log, err)
		return
	}
	response.RespondOK(c, gin.H{"cart": view})
}

// DELETE /api/cart
func (ch *CartHandler) Clear(c *gin.Context) {
	res, err := ch.cartService.Clear(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, ch.log, err)
		return
	}
	msg := "cart cleared"
	if !res.HadItems {
		msg = "cart is already empty"
	}
	response.RespondOK(c, gin.H{"cart": res.Cart, "message": msg})
}

// GET /api/checkout
func (ch *CartHandler) Checkout(c *gin.Context) {
	view, err := ch.cartService.Checkout(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, ch.log, err)
		return
	}
	response.RespondOK(c, view)
}
