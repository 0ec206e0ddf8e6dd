package aggregates

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/yungbote/honeyshop-backend/internal/data/repos"
	domainagg "github.com/yungbote/honeyshop-backend/internal/domain/aggregates"
	"github.com/yungbote/honeyshop-backend/internal/domain/commerce"
	"github.com/yungbote/honeyshop-backend/internal/domain/user"
	"github.com/yungbote/honeyshop-backend/internal/platform/dbctx"
)

// DefaultOrderNumberAttempts bounds regeneration after an order number collision.
const DefaultOrderNumberAttempts = 3

var errOrderNumberTaken = errors.New("order number taken")

// AddressOwnership checks that an address belongs to a user.
type AddressOwnership interface {
	GetOwned(dbc dbctx.Context, userID, addressID uint) (*user.Address, error)
}

type OrderAggregateDeps struct {
	Base BaseDeps

	Mongo     MongoTransactor
	Carts     repos.CartRepo
	Orders    repos.OrderRepo
	Products  ProductLookup
	Addresses AddressOwnership
	Pricing   commerce.Pricing
	// VerifyTotal rejects checkouts whose submitted total differs from the
	// server-side cart total. When false the mismatch is only logged.
	VerifyTotal bool

	Now      func() time.Time
	NewID    func() uuid.UUID
	Attempts int
}

type orderAggregate struct {
	deps OrderAggregateDeps
}

func NewOrderAggregate(deps OrderAggregateDeps) domainagg.OrderAggregate {
	if deps.Base.Runner == nil {
		deps.Base.Runner = NewMongoTxRunner(deps.Mongo)
	}
	deps.Base = deps.Base.withDefaults()
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = uuid.New
	}
	if deps.Attempts <= 0 {
		deps.Attempts = DefaultOrderNumberAttempts
	}
	return &orderAggregate{deps: deps}
}

func (a *orderAggregate) Contract() domainagg.Contract {
	return domainagg.OrderAggregateContract
}

func (a *orderAggregate) transactional() bool {
	return a.deps.Mongo != nil && a.deps.Mongo.SupportsTransactions()
}

func (a *orderAggregate) PlaceOrder(ctx context.Context, in domainagg.PlaceOrderInput) (domainagg.PlaceOrderResult, error) {
	const op = "Commerce.Order.PlaceOrder"
	var out domainagg.PlaceOrderResult
	if in.UserID == 0 {
		return out, domainagg.Validation(op, "missing user_id")
	}
	cartID, err := primitive.ObjectIDFromHex(in.CartID)
	if err != nil {
		return out, domainagg.Validation(op, "invalid cart_id")
	}
	if in.AddressID == 0 {
		return out, domainagg.Validation(op, "missing address_id")
	}
	if in.TotalAmount.IsNegative() {
		return out, domainagg.Validation(op, "total_amount must not be negative")
	}

	readCtx := dbctx.Context{Ctx: ctx}
	if _, err := a.deps.Addresses.GetOwned(readCtx, in.UserID, in.AddressID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return out, domainagg.NotFound(op, "address not found")
		}
		return out, MapError(op, err)
	}

	cart, err := a.deps.Carts.GetByID(readCtx, cartID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return out, domainagg.NotFound(op, "cart not found")
		}
		return out, MapError(op, err)
	}
	if err := RequireOwner(cart.UserID, in.UserID, "cart"); err != nil {
		return out, MapError(op, err)
	}
	if cart.IsEmpty() {
		return out, domainagg.Validation(op, "cart is empty")
	}

	products, err := a.deps.Products.GetBySlugs(readCtx, cart.Slugs())
	if err != nil {
		return out, MapError(op, err)
	}
	out.ServerTotal = commerce.BuildCartView(cart, products, a.deps.Pricing).Total
	if !out.ServerTotal.Equal(in.TotalAmount) {
		if a.deps.Base.Log != nil {
			a.deps.Base.Log.Warn("checkout total mismatch",
				"op", op,
				"cart_id", cart.ID.Hex(),
				"submitted", in.TotalAmount.String(),
				"computed", out.ServerTotal.String(),
			)
		}
		if a.deps.VerifyTotal {
			return out, domainagg.Validation(op, "total does not match cart")
		}
	}

	order := &commerce.Order{
		UserID:        in.UserID,
		Items:         commerce.OrderItemsFromCart(cart, products),
		TotalAmount:   in.TotalAmount,
		PaymentStatus: commerce.PaymentPending,
		OrderStatus:   commerce.OrderProcessing,
		AddressID:     in.AddressID,
		Date:          a.deps.Now().UTC(),
	}

	for attempt := 1; attempt <= a.deps.Attempts; attempt++ {
		order.ID = primitive.NewObjectID()
		order.OrderNumber = commerce.NewOrderNumber(order.Date, a.deps.NewID())
		err = executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
			return a.convert(dbc, order, cart.ID)
		})
		if err == nil || !errors.Is(err, errOrderNumberTaken) {
			break
		}
	}
	if err != nil {
		return out, err
	}
	out.Order = order
	return out, nil
}

// convert inserts the order and deletes the source cart. Inside a document
// store transaction both writes commit together; otherwise a failed cart
// delete is compensated by removing the order again.
func (a *orderAggregate) convert(dbc dbctx.Context, order *commerce.Order, cartID primitive.ObjectID) error {
	if _, err := a.deps.Orders.Create(dbc, order); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.Join(ErrConflict, errOrderNumberTaken)
		}
		return err
	}

	deleted, err := a.deps.Carts.DeleteByID(dbc, cartID)
	if err == nil && deleted == 0 {
		err = ConflictError("cart already checked out")
	}
	if err == nil {
		return nil
	}
	if !a.transactional() {
		a.compensate(dbc, order)
	}
	return err
}

func (a *orderAggregate) compensate(dbc dbctx.Context, order *commerce.Order) {
	ctx := context.WithoutCancel(dbc.Ctx)
	if _, err := a.deps.Orders.DeleteByID(dbctx.Context{Ctx: ctx}, order.ID); err != nil && a.deps.Base.Log != nil {
		a.deps.Base.Log.Error("order compensation failed; order and cart both present",
			"order_number", order.OrderNumber,
			"error", err,
		)
	}
}
