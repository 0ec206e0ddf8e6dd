package aggregates

import (
	"context"

	"github.com/yungbote/honeyshop-backend/internal/domain/commerce"
)

var ReviewAggregateContract = Contract{
	Name:             "Commerce.ReviewAggregate",
	WriteTxOwnership: WriteTxSingleDocument,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "At most one review per (user, product); pre-check plus a unique index so a racing insert reports already reviewed.",
}

// ReviewAggregate owns review creation.
type ReviewAggregate interface {
	Aggregate

	AddReview(ctx context.Context, in AddReviewInput) (AddReviewResult, error)
}

type AddReviewInput struct {
	UserID      uint
	ProductSlug string
	Rating      int
	Comment     string
}

type AddReviewResult struct {
	Review          *commerce.Review
	AlreadyReviewed bool
}
