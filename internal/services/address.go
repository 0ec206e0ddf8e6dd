package services

import (
	"context"

	"github.com/yungbote/honeyshop-backend/internal/data/aggregates"
	"github.com/yungbote/honeyshop-backend/internal/data/repos"
	domainagg "github.com/yungbote/honeyshop-backend/internal/domain/aggregates"
	"github.com/yungbote/honeyshop-backend/internal/domain/user"
	"github.com/yungbote/honeyshop-backend/internal/platform/dbctx"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
)

type AddressInput struct {
	Label      string
	Street     string
	City       string
	State      string
	Country    string
	PostalCode string
	IsDefault  bool
}

func (in AddressInput) toAddress(id uint) user.Address {
	return user.Address{
		ID:         id,
		Label:      in.Label,
		Street:     in.Street,
		City:       in.City,
		State:      in.State,
		Country:    in.Country,
		PostalCode: in.PostalCode,
		IsDefault:  in.IsDefault,
	}
}

type AddressService interface {
	ListAddresses(ctx context.Context) ([]*user.Address, error)
	CreateAddress(ctx context.Context, in AddressInput) (*user.Address, error)
	UpdateAddress(ctx context.Context, addressID uint, in AddressInput) (*user.Address, error)
	DeleteAddress(ctx context.Context, addressID uint) error
	SetDefault(ctx context.Context, addressID uint) (*user.Address, error)
}

type addressService struct {
	log         *logger.Logger
	addressRepo repos.AddressRepo
	book        domainagg.AddressBookAggregate
}

func NewAddressService(log *logger.Logger, addressRepo repos.AddressRepo, book domainagg.AddressBookAggregate) AddressService {
	return &addressService{
		log:         log.With("service", "AddressService"),
		addressRepo: addressRepo,
		book:        book,
	}
}

func (s *addressService) ListAddresses(ctx context.Context) ([]*user.Address, error) {
	const op = "Identity.Address.List"
	userID, err := requireUser(ctx, op)
	if err != nil {
		return nil, err
	}
	list, err := s.addressRepo.ListByUser(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	return list, nil
}

func (s *addressService) CreateAddress(ctx context.Context, in AddressInput) (*user.Address, error) {
	return s.save(ctx, "Identity.Address.Create", 0, in)
}

func (s *addressService) UpdateAddress(ctx context.Context, addressID uint, in AddressInput) (*user.Address, error) {
	if addressID == 0 {
		return nil, domainagg.Validation("Identity.Address.Update", "invalid address id")
	}
	return s.save(ctx, "Identity.Address.Update", addressID, in)
}

func (s *addressService) save(ctx context.Context, op string, addressID uint, in AddressInput) (*user.Address, error) {
	userID, err := requireUser(ctx, op)
	if err != nil {
		return nil, err
	}
	res, err := s.book.SaveAddress(ctx, domainagg.SaveAddressInput{UserID: userID, Address: in.toAddress(addressID)})
	if err != nil {
		return nil, err
	}
	if res.ClearedOthers > 0 {
		s.log.Debug("Default address moved", "user_id", userID, "cleared", res.ClearedOthers)
	}
	return res.Address, nil
}

func (s *addressService) DeleteAddress(ctx context.Context, addressID uint) error {
	const op = "Identity.Address.Delete"
	userID, err := requireUser(ctx, op)
	if err != nil {
		return err
	}
	return s.book.DeleteAddress(ctx, domainagg.DeleteAddressInput{UserID: userID, AddressID: addressID})
}

func (s *addressService) SetDefault(ctx context.Context, addressID uint) (*user.Address, error) {
	const op = "Identity.Address.SetDefault"
	userID, err := requireUser(ctx, op)
	if err != nil {
		return nil, err
	}
	res, err := s.book.SetDefault(ctx, domainagg.SetDefaultAddressInput{UserID: userID, AddressID: addressID})
	if err != nil {
		return nil, err
	}
	return res.Address, nil
}
