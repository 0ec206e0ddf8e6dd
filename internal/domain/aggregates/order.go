package aggregates

import (
	"context"

	"github.com/yungbote/honeyshop-backend/internal/domain/catalog"
	"github.com/yungbote/honeyshop-backend/internal/domain/commerce"
)

var OrderAggregateContract = Contract{
	Name:             "Commerce.OrderAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Converts a cart into an order and deletes the cart; uses a document store transaction when available, else compensates by deleting the order.",
}

// OrderAggregate owns cart-to-order conversion.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeConflict, CodeUnavailable, CodeInternal.
type OrderAggregate interface {
	Aggregate

	PlaceOrder(ctx context.Context, in PlaceOrderInput) (PlaceOrderResult, error)
}

type PlaceOrderInput struct {
	UserID      uint
	CartID      string
	TotalAmount catalog.Money
	AddressID   uint
}

type PlaceOrderResult struct {
	Order *commerce.Order
	// ServerTotal is the cart total recomputed from live prices.
	ServerTotal catalog.Money
}
