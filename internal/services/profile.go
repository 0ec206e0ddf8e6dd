package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/honeyshop-backend/internal/data/aggregates"
	"github.com/yungbote/honeyshop-backend/internal/data/repos"
	"github.com/yungbote/honeyshop-backend/internal/domain/catalog"
	"github.com/yungbote/honeyshop-backend/internal/domain/commerce"
	"github.com/yungbote/honeyshop-backend/internal/domain/user"
	"github.com/yungbote/honeyshop-backend/internal/platform/dbctx"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
)

type ProfileSummary struct {
	User         *user.User           `json:"user"`
	Addresses    []*user.Address      `json:"addresses"`
	Orders       []commerce.OrderView `json:"orders"`
	TotalSpend   catalog.Money        `json:"total_spend"`
	ReviewsCount int64                `json:"reviews_count"`
}

type ProfileService interface {
	Profile(ctx context.Context) (ProfileSummary, error)
}

type profileService struct {
	log         *logger.Logger
	users       UserService
	addressRepo repos.AddressRepo
	orders      OrderService
	reviews     ReviewService
}

func NewProfileService(log *logger.Logger, users UserService, addressRepo repos.AddressRepo, orders OrderService, reviews ReviewService) ProfileService {
	return &profileService{
		log:         log.With("service", "ProfileService"),
		users:       users,
		addressRepo: addressRepo,
		orders:      orders,
		reviews:     reviews,
	}
}

// Profile gathers the account page. The four reads hit three stores and run
// concurrently; the first failure cancels the rest.
func (s *profileService) Profile(ctx context.Context) (ProfileSummary, error) {
	const op = "Identity.Profile.Summary"
	userID, err := requireUser(ctx, op)
	if err != nil {
		return ProfileSummary{}, err
	}

	var out ProfileSummary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.users.GetMe(gctx)
		out.User = u
		return err
	})
	g.Go(func() error {
		list, err := s.addressRepo.ListByUser(dbctx.Context{Ctx: gctx}, userID)
		if err != nil {
			return aggregates.MapError(op, err)
		}
		out.Addresses = list
		return nil
	})
	g.Go(func() error {
		sum, err := s.orders.SummarizeFor(gctx, userID)
		out.Orders = sum.Orders
		out.TotalSpend = sum.TotalSpend
		return err
	})
	g.Go(func() error {
		n, err := s.reviews.CountForUser(gctx, userID)
		out.ReviewsCount = n
		return err
	})
	if err := g.Wait(); err != nil {
		return ProfileSummary{}, err
	}
	if out.Orders == nil {
		out.Orders = []commerce.OrderView{}
	}
	return out, nil
}
