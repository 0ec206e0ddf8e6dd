package services

import (
	"context"

	"github.com/yungbote/honeyshop-backend/internal/data/aggregates"
	"github.com/yungbote/honeyshop-backend/internal/data/repos"
	domainagg "github.com/yungbote/honeyshop-backend/internal/domain/aggregates"
	"github.com/yungbote/honeyshop-backend/internal/domain/commerce"
	"github.com/yungbote/honeyshop-backend/internal/domain/user"
	"github.com/yungbote/honeyshop-backend/internal/platform/dbctx"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
)

// CheckoutView is what the checkout page needs before an order is placed.
type CheckoutView struct {
	Addresses []*user.Address   `json:"addresses"`
	Cart      commerce.CartView `json:"cart"`
}

type ClearCartView struct {
	Cart     commerce.CartView `json:"cart"`
	HadItems bool              `json:"had_items"`
}

type CartService interface {
	View(ctx context.Context) (commerce.CartView, error)
	AddItem(ctx context.Context, productSlug string, quantity int) (commerce.CartView, error)
	RemoveItem(ctx context.Context, productSlug string) (commerce.CartView, error)
	Clear(ctx context.Context) (ClearCartView, error)
	Checkout(ctx context.Context) (CheckoutView, error)
}

type cartService struct {
	log         *logger.Logger
	carts       domainagg.CartAggregate
	products    aggregates.ProductLookup
	addressRepo repos.AddressRepo
	pricing     commerce.Pricing
}

func NewCartService(
	log *logger.Logger,
	carts domainagg.CartAggregate,
	products aggregates.ProductLookup,
	addressRepo repos.AddressRepo,
	pricing commerce.Pricing,
) CartService {
	return &cartService{
		log:         log.With("service", "CartService"),
		carts:       carts,
		products:    products,
		addressRepo: addressRepo,
		pricing:     pricing,
	}
}

func (s *cartService) View(ctx context.Context) (commerce.CartView, error) {
	const op = "Commerce.Cart.View"
	userID, err := requireUser(ctx, op)
	if err != nil {
		return commerce.CartView{}, err
	}
	c, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return commerce.CartView{}, err
	}
	return s.render(ctx, op, c)
}

func (s *cartService) AddItem(ctx context.Context, productSlug string, quantity int) (commerce.CartView, error) {
	const op = "Commerce.Cart.AddItem"
	userID, err := requireUser(ctx, op)
	if err != nil {
		return commerce.CartView{}, err
	}
	c, err := s.carts.AddItem(ctx, domainagg.AddCartItemInput{UserID: userID, ProductSlug: productSlug, Quantity: quantity})
	if err != nil {
		return commerce.CartView{}, err
	}
	return s.render(ctx, op, c)
}

func (s *cartService) RemoveItem(ctx context.Context, productSlug string) (commerce.CartView, error) {
	const op = "Commerce.Cart.RemoveItem"
	userID, err := requireUser(ctx, op)
	if err != nil {
		return commerce.CartView{}, err
	}
	c, err := s.carts.RemoveItem(ctx, domainagg.RemoveCartItemInput{UserID: userID, ProductSlug: productSlug})
	if err != nil {
		return commerce.CartView{}, err
	}
	return s.render(ctx, op, c)
}

func (s *cartService) Clear(ctx context.Context) (ClearCartView, error) {
	const op = "Commerce.Cart.Clear"
	userID, err := requireUser(ctx, op)
	if err != nil {
		return ClearCartView{}, err
	}
	res, err := s.carts.Clear(ctx, userID)
	if err != nil {
		return ClearCartView{}, err
	}
	view, err := s.render(ctx, op, res.Cart)
	if err != nil {
		return ClearCartView{}, err
	}
	return ClearCartView{Cart: view, HadItems: res.HadItems}, nil
}

func (s *cartService) Checkout(ctx context.Context) (CheckoutView, error) {
	const op = "Commerce.Cart.Checkout"
	userID, err := requireUser(ctx, op)
	if err != nil {
		return CheckoutView{}, err
	}
	view, err := s.View(ctx)
	if err != nil {
		return CheckoutView{}, err
	}
	addresses, err := s.addressRepo.ListByUser(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return CheckoutView{}, aggregates.MapError(op, err)
	}
	return CheckoutView{Addresses: addresses, Cart: view}, nil
}

func (s *cartService) render(ctx context.Context, op string, c *commerce.Cart) (commerce.CartView, error) {
	products, err := s.products.GetBySlugs(dbctx.Context{Ctx: ctx}, c.Slugs())
	if err != nil {
		return commerce.CartView{}, aggregates.MapError(op, err)
	}
	return commerce.BuildCartView(c, products, s.pricing), nil
}
