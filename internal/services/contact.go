package services

import (
	"context"
	"time"

	"github.com/yungbote/honeyshop-backend/internal/data/aggregates"
	"github.com/yungbote/honeyshop-backend/internal/data/repos"
	domainagg "github.com/yungbote/honeyshop-backend/internal/domain/aggregates"
	"github.com/yungbote/honeyshop-backend/internal/domain/commerce"
	"github.com/yungbote/honeyshop-backend/internal/normalization"
	"github.com/yungbote/honeyshop-backend/internal/platform/dbctx"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
)

const defaultContactListLimit = 50

type ContactInput struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

type ContactService interface {
	Submit(ctx context.Context, in ContactInput) (*commerce.Contact, error)
	ListRecent(ctx context.Context, limit int64) ([]*commerce.Contact, error)
}

type contactService struct {
	log         *logger.Logger
	contactRepo repos.ContactRepo
	now         func() time.Time
}

func NewContactService(log *logger.Logger, contactRepo repos.ContactRepo) ContactService {
	return &contactService{
		log:         log.With("service", "ContactService"),
		contactRepo: contactRepo,
		now:         time.Now,
	}
}

func (s *contactService) Submit(ctx context.Context, in ContactInput) (*commerce.Contact, error) {
	const op = "Contact.Submit"
	c := &commerce.Contact{
		Name:    normalization.ParseInputString(in.Name),
		Email:   normalization.Email(in.Email),
		Phone:   normalization.ParseInputString(in.Phone),
		Message: normalization.ParseInputString(in.Message),
		Date:    s.now().UTC(),
	}
	if c.Message == "" {
		return nil, domainagg.Validation(op, "message is required")
	}
	saved, err := s.contactRepo.Create(dbctx.Context{Ctx: ctx}, c)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	return saved, nil
}

func (s *contactService) ListRecent(ctx context.Context, limit int64) ([]*commerce.Contact, error) {
	if limit <= 0 || limit > 500 {
		limit = defaultContactListLimit
	}
	list, err := s.contactRepo.ListRecent(dbctx.Context{Ctx: ctx}, limit)
	if err != nil {
		return nil, aggregates.MapError("Contact.ListRecent", err)
	}
	return list, nil
}
