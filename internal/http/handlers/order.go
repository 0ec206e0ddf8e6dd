package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/honeyshop-backend/internal/domain/catalog"
	"github.com/yungbote/honeyshop-backend/internal/http/response"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
	"github.com/yungbote/honeyshop-backend/internal/services"
)

type OrderHandler struct {
	log          *logger.Logger
	orderService services.OrderService
}

func NewOrderHandler(log *logger.Logger, orderService services.OrderService) *OrderHandler {
	return &OrderHandler{log: log.With("handler", "OrderHandler"), orderService: orderService}
}

// POST /api/orders
// body: { "cart_id": "...", "total_amount": "48.97", "address_id": 3 }
func (oh *OrderHandler) Place(c *gin.Context) {
	var req struct {
		CartID      string        `json:"cart_id"`
		TotalAmount catalog.Money `json:"total_amount"`
		AddressID   uint          `json:"address_id"`
	}
	if !bindJSON(c, oh.log, &req) {
		return
	}
	order, err := oh.orderService.PlaceOrder(c.Request.Context(), services.PlaceOrderRequest{
		CartID:      req.CartID,
		TotalAmount: req.TotalAmount,
		AddressID:   req.AddressID,
	})
	if err != nil {
		response.RespondServiceError(c, oh.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"order": order, "message": "order placed successfully"})
}

// GET /api/orders
func (oh *OrderHandler) List(c *gin.Context) {
	sum, err := oh.orderService.Summarize(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, oh.log, err)
		return
	}
	response.RespondOK(c, sum)
}
