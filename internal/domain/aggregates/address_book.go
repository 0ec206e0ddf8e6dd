package aggregates

import (
	"context"

	"github.com/yungbote/honeyshop-backend/internal/domain/user"
)

var AddressBookAggregateContract = Contract{
	Name:             "Identity.AddressBookAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns the single default address per user; clears siblings and sets the default in one transaction under a user row lock.",
}

// AddressBookAggregate owns address writes for one user.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeConflict, CodeRetryable, CodeInternal.
type AddressBookAggregate interface {
	Aggregate

	// SaveAddress creates (ID == 0) or updates an owned address. When
	// IsDefault is set every other address of the owner is cleared first.
	SaveAddress(ctx context.Context, in SaveAddressInput) (SaveAddressResult, error)

	// SetDefault makes one owned address the owner's only default.
	SetDefault(ctx context.Context, in SetDefaultAddressInput) (SaveAddressResult, error)

	// DeleteAddress removes an owned address.
	DeleteAddress(ctx context.Context, in DeleteAddressInput) error
}

type SaveAddressInput struct {
	UserID  uint
	Address user.Address
}

type SaveAddressResult struct {
	Address       *user.Address
	ClearedOthers int64
}

type SetDefaultAddressInput struct {
	UserID    uint
	AddressID uint
}

type DeleteAddressInput struct {
	UserID    uint
	AddressID uint
}
