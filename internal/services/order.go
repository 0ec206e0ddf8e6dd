package services

import (
	"context"

	"github.com/yungbote/honeyshop-backend/internal/data/aggregates"
	"github.com/yungbote/honeyshop-backend/internal/data/repos"
	domainagg "github.com/yungbote/honeyshop-backend/internal/domain/aggregates"
	"github.com/yungbote/honeyshop-backend/internal/domain/catalog"
	"github.com/yungbote/honeyshop-backend/internal/domain/commerce"
	"github.com/yungbote/honeyshop-backend/internal/platform/dbctx"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
)

type PlaceOrderRequest struct {
	CartID      string
	TotalAmount catalog.Money
	AddressID   uint
}

type OrderService interface {
	PlaceOrder(ctx context.Context, in PlaceOrderRequest) (commerce.OrderView, error)
	ListOrders(ctx context.Context) ([]commerce.OrderView, error)
	Summarize(ctx context.Context) (commerce.OrderSummary, error)
	SummarizeFor(ctx context.Context, userID uint) (commerce.OrderSummary, error)
}

type orderService struct {
	log       *logger.Logger
	orders    domainagg.OrderAggregate
	orderRepo repos.OrderRepo
	products  aggregates.ProductLookup
}

func NewOrderService(log *logger.Logger, orders domainagg.OrderAggregate, orderRepo repos.OrderRepo, products aggregates.ProductLookup) OrderService {
	return &orderService{
		log:       log.With("service", "OrderService"),
		orders:    orders,
		orderRepo: orderRepo,
		products:  products,
	}
}

func (s *orderService) PlaceOrder(ctx context.Context, in PlaceOrderRequest) (commerce.OrderView, error) {
	const op = "Commerce.Order.Place"
	userID, err := requireUser(ctx, op)
	if err != nil {
		return commerce.OrderView{}, err
	}
	res, err := s.orders.PlaceOrder(ctx, domainagg.PlaceOrderInput{
		UserID:      userID,
		CartID:      in.CartID,
		TotalAmount: in.TotalAmount,
		AddressID:   in.AddressID,
	})
	if err != nil {
		return commerce.OrderView{}, err
	}
	s.log.Info("Order placed", "user_id", userID, "order_number", res.Order.OrderNumber, "total", res.Order.TotalAmount.String())

	products, err := s.products.GetBySlugs(dbctx.Context{Ctx: ctx}, commerce.OrderSlugs([]*commerce.Order{res.Order}))
	if err != nil {
		return commerce.OrderView{}, aggregates.MapError(op, err)
	}
	return commerce.BuildOrderView(res.Order, products), nil
}

func (s *orderService) ListOrders(ctx context.Context) ([]commerce.OrderView, error) {
	sum, err := s.Summarize(ctx)
	if err != nil {
		return nil, err
	}
	return sum.Orders, nil
}

func (s *orderService) Summarize(ctx context.Context) (commerce.OrderSummary, error) {
	userID, err := requireUser(ctx, "Commerce.Order.Summarize")
	if err != nil {
		return commerce.OrderSummary{}, err
	}
	return s.SummarizeFor(ctx, userID)
}

// SummarizeFor lists a user's orders newest first, joined with live catalog
// data, and totals what they spent.
func (s *orderService) SummarizeFor(ctx context.Context, userID uint) (commerce.OrderSummary, error) {
	const op = "Commerce.Order.Summarize"
	dbc := dbctx.Context{Ctx: ctx}
	orders, err := s.orderRepo.ListByUser(dbc, userID)
	if err != nil {
		return commerce.OrderSummary{}, aggregates.MapError(op, err)
	}
	products, err := s.products.GetBySlugs(dbc, commerce.OrderSlugs(orders))
	if err != nil {
		return commerce.OrderSummary{}, aggregates.MapError(op, err)
	}
	return commerce.Summarize(orders, products), nil
}
