package services

import (
	"context"

	"github.com/yungbote/honeyshop-backend/internal/data/aggregates"
	"github.com/yungbote/honeyshop-backend/internal/data/repos"
	domainagg "github.com/yungbote/honeyshop-backend/internal/domain/aggregates"
	"github.com/yungbote/honeyshop-backend/internal/domain/commerce"
	"github.com/yungbote/honeyshop-backend/internal/platform/dbctx"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
)

type AddReviewRequest struct {
	ProductSlug string
	Rating      int
	Comment     string
}

type AddReviewResult struct {
	Review          *commerce.ReviewView `json:"review,omitempty"`
	AlreadyReviewed bool                 `json:"already_reviewed"`
}

type ReviewService interface {
	AddReview(ctx context.Context, in AddReviewRequest) (AddReviewResult, error)
	ListForProduct(ctx context.Context, productSlug string) ([]commerce.ReviewView, error)
	CountForUser(ctx context.Context, userID uint) (int64, error)
}

type reviewService struct {
	log        *logger.Logger
	reviews    domainagg.ReviewAggregate
	reviewRepo repos.ReviewRepo
	userRepo   repos.UserRepo
}

func NewReviewService(log *logger.Logger, reviews domainagg.ReviewAggregate, reviewRepo repos.ReviewRepo, userRepo repos.UserRepo) ReviewService {
	return &reviewService{
		log:        log.With("service", "ReviewService"),
		reviews:    reviews,
		reviewRepo: reviewRepo,
		userRepo:   userRepo,
	}
}

func (s *reviewService) AddReview(ctx context.Context, in AddReviewRequest) (AddReviewResult, error) {
	const op = "Commerce.Review.Add"
	userID, err := requireUser(ctx, op)
	if err != nil {
		return AddReviewResult{}, err
	}
	res, err := s.reviews.AddReview(ctx, domainagg.AddReviewInput{
		UserID:      userID,
		ProductSlug: in.ProductSlug,
		Rating:      in.Rating,
		Comment:     in.Comment,
	})
	if err != nil {
		return AddReviewResult{}, err
	}
	if res.AlreadyReviewed {
		return AddReviewResult{AlreadyReviewed: true}, nil
	}
	views, err := s.join(ctx, op, []*commerce.Review{res.Review})
	if err != nil {
		return AddReviewResult{}, err
	}
	return AddReviewResult{Review: &views[0]}, nil
}

func (s *reviewService) ListForProduct(ctx context.Context, productSlug string) ([]commerce.ReviewView, error) {
	const op = "Commerce.Review.ListForProduct"
	list, err := s.reviewRepo.ListByProduct(dbctx.Context{Ctx: ctx}, productSlug)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	return s.join(ctx, op, list)
}

func (s *reviewService) CountForUser(ctx context.Context, userID uint) (int64, error) {
	n, err := s.reviewRepo.CountByUser(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return 0, aggregates.MapError("Commerce.Review.CountForUser", err)
	}
	return n, nil
}

// join resolves author usernames with one batched identity lookup.
func (s *reviewService) join(ctx context.Context, op string, reviews []*commerce.Review) ([]commerce.ReviewView, error) {
	names, err := s.userRepo.UsernamesByIDs(dbctx.Context{Ctx: ctx}, commerce.ReviewAuthorIDs(reviews))
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	return commerce.BuildReviewViews(reviews, names), nil
}
