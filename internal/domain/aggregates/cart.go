package aggregates

import (
	"context"

	"github.com/yungbote/honeyshop-backend/internal/domain/commerce"
)

var CartAggregateContract = Contract{
	Name:             "Commerce.CartAggregate",
	WriteTxOwnership: WriteTxSingleDocument,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "One cart document per user; mutations are read-merge-write guarded by a version compare-and-set and retried on conflict.",
}

// CartAggregate owns cart line mutations and total recomputation.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeConflict, CodeUnavailable, CodeInternal.
type CartAggregate interface {
	Aggregate

	GetOrCreate(ctx context.Context, userID uint) (*commerce.Cart, error)

	// AddItem merges qty into the line for slug. The product must exist and be active.
	AddItem(ctx context.Context, in AddCartItemInput) (*commerce.Cart, error)

	// RemoveItem drops the line for slug; absent lines are a no-op.
	RemoveItem(ctx context.Context, in RemoveCartItemInput) (*commerce.Cart, error)

	// Clear empties the cart, reporting whether it had items.
	Clear(ctx context.Context, userID uint) (ClearCartResult, error)
}

type AddCartItemInput struct {
	UserID      uint
	ProductSlug string
	Quantity    int
}

type RemoveCartItemInput struct {
	UserID      uint
	ProductSlug string
}

type ClearCartResult struct {
	Cart     *commerce.Cart
	HadItems bool
}
