package aggregates

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/honeyshop-backend/internal/data/repos"
	domainagg "github.com/yungbote/honeyshop-backend/internal/domain/aggregates"
	"github.com/yungbote/honeyshop-backend/internal/domain/user"
	"github.com/yungbote/honeyshop-backend/internal/normalization"
	"github.com/yungbote/honeyshop-backend/internal/platform/dbctx"
)

// duplicateDefaultMessage is reported when the single-default index rejects a write.
const duplicateDefaultMessage = "address default conflict"

type AddressBookAggregateDeps struct {
	Base BaseDeps

	Users     repos.UserRepo
	Addresses repos.AddressRepo
}

type addressBookAggregate struct {
	deps AddressBookAggregateDeps
}

func NewAddressBookAggregate(deps AddressBookAggregateDeps) domainagg.AddressBookAggregate {
	deps.Base = deps.Base.withDefaults()
	return &addressBookAggregate{deps: deps}
}

func (a *addressBookAggregate) Contract() domainagg.Contract {
	return domainagg.AddressBookAggregateContract
}

func (a *addressBookAggregate) SaveAddress(ctx context.Context, in domainagg.SaveAddressInput) (domainagg.SaveAddressResult, error) {
	const op = "Identity.AddressBook.SaveAddress"
	var out domainagg.SaveAddressResult
	if in.UserID == 0 {
		return out, domainagg.Validation(op, "missing user_id")
	}
	if a.deps.Users == nil || a.deps.Addresses == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "address book repos not configured", nil)
	}

	incoming := normalizeAddress(in.Address)
	if missing := incoming.MissingFields(); len(missing) > 0 {
		return out, domainagg.Validation(op, "missing required fields: "+strings.Join(missing, ", "))
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		if err := a.lockOwner(dbc, in.UserID); err != nil {
			return err
		}

		target := &incoming
		target.UserID = in.UserID
		if incoming.ID != 0 {
			existing, err := a.deps.Addresses.GetOwned(dbc, in.UserID, incoming.ID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("address")
			}
			if err != nil {
				return err
			}
			existing.Label = incoming.Label
			existing.Street = incoming.Street
			existing.City = incoming.City
			existing.State = incoming.State
			existing.Country = incoming.Country
			existing.PostalCode = incoming.PostalCode
			existing.IsDefault = incoming.IsDefault
			target = existing
		}

		if target.IsDefault {
			cleared, err := a.deps.Addresses.ClearDefaults(dbc, in.UserID, target.ID)
			if err != nil {
				return err
			}
			out.ClearedOthers = cleared
		}

		var saved *user.Address
		var err error
		if target.ID == 0 {
			saved, err = a.deps.Addresses.Create(dbc, target)
		} else {
			saved, err = a.deps.Addresses.Save(dbc, target)
		}
		if err != nil {
			return asDefaultConflict(err)
		}
		out.Address = saved
		return nil
	})
	return out, err
}

func (a *addressBookAggregate) SetDefault(ctx context.Context, in domainagg.SetDefaultAddressInput) (domainagg.SaveAddressResult, error) {
	const op = "Identity.AddressBook.SetDefault"
	var out domainagg.SaveAddressResult
	if in.UserID == 0 || in.AddressID == 0 {
		return out, domainagg.Validation(op, "missing user_id or address_id")
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		if err := a.lockOwner(dbc, in.UserID); err != nil {
			return err
		}
		addr, err := a.deps.Addresses.GetOwned(dbc, in.UserID, in.AddressID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("address")
		}
		if err != nil {
			return err
		}

		cleared, err := a.deps.Addresses.ClearDefaults(dbc, in.UserID, addr.ID)
		if err != nil {
			return err
		}
		out.ClearedOthers = cleared

		if !addr.IsDefault {
			addr.IsDefault = true
			if _, err := a.deps.Addresses.Save(dbc, addr); err != nil {
				return asDefaultConflict(err)
			}
		}
		out.Address = addr
		return nil
	})
	return out, err
}

func (a *addressBookAggregate) DeleteAddress(ctx context.Context, in domainagg.DeleteAddressInput) error {
	const op = "Identity.AddressBook.DeleteAddress"
	if in.UserID == 0 || in.AddressID == 0 {
		return domainagg.Validation(op, "missing user_id or address_id")
	}
	return executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		rows, err := a.deps.Addresses.DeleteOwned(dbc, in.UserID, in.AddressID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return notFound("address")
		}
		return nil
	})
}

// lockOwner serializes address book writers for one user.
func (a *addressBookAggregate) lockOwner(dbc dbctx.Context, userID uint) error {
	if _, err := a.deps.Users.LockByID(dbc, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("user")
		}
		return err
	}
	return nil
}

func asDefaultConflict(err error) error {
	if IsUniqueViolation(err) {
		return ConflictError(duplicateDefaultMessage)
	}
	return err
}

func normalizeAddress(a user.Address) user.Address {
	a.Label = normalization.ParseInputString(a.Label)
	a.Street = normalization.ParseInputString(a.Street)
	a.City = normalization.ParseInputString(a.City)
	a.State = normalization.ParseInputString(a.State)
	a.Country = normalization.ParseInputString(a.Country)
	a.PostalCode = normalization.ParseInputString(a.PostalCode)
	if a.Country == "" {
		a.Country = user.DefaultCountry
	}
	return a
}
