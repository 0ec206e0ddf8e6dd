package aggregates

import (
	"context"
	"time"

	"github.com/yungbote/honeyshop-backend/internal/data/repos"
	domainagg "github.com/yungbote/honeyshop-backend/internal/domain/aggregates"
	"github.com/yungbote/honeyshop-backend/internal/domain/commerce"
	"github.com/yungbote/honeyshop-backend/internal/normalization"
	"github.com/yungbote/honeyshop-backend/internal/platform/dbctx"
)

type ReviewAggregateDeps struct {
	Base BaseDeps

	Reviews  repos.ReviewRepo
	Products ProductLookup
	Now      func() time.Time
}

type reviewAggregate struct {
	deps ReviewAggregateDeps
}

func NewReviewAggregate(deps ReviewAggregateDeps) domainagg.ReviewAggregate {
	if deps.Base.Runner == nil {
		deps.Base.Runner = NewDirectRunner()
	}
	deps.Base = deps.Base.withDefaults()
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &reviewAggregate{deps: deps}
}

func (a *reviewAggregate) Contract() domainagg.Contract {
	return domainagg.ReviewAggregateContract
}

// AddReview stores the first review a user leaves for a product. Later
// attempts, including ones that lose an insert race, report AlreadyReviewed.
func (a *reviewAggregate) AddReview(ctx context.Context, in domainagg.AddReviewInput) (domainagg.AddReviewResult, error) {
	const op = "Commerce.Review.AddReview"
	var out domainagg.AddReviewResult
	slug := normalization.ParseInputString(in.ProductSlug)
	if in.UserID == 0 {
		return out, domainagg.Validation(op, "missing user_id")
	}
	if slug == "" {
		return out, domainagg.Validation(op, "missing product_slug")
	}
	if !commerce.ValidRating(in.Rating) {
		return out, domainagg.Validation(op, "rating must be between 1 and 5")
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		found, err := a.deps.Products.GetBySlugs(dbc, []string{slug})
		if err != nil {
			return err
		}
		if found[slug] == nil {
			return notFound("product")
		}

		exists, err := a.deps.Reviews.Exists(dbc, in.UserID, slug)
		if err != nil {
			return err
		}
		if exists {
			out.AlreadyReviewed = true
			return nil
		}

		r, err := a.deps.Reviews.Create(dbc, &commerce.Review{
			UserID:      in.UserID,
			ProductSlug: slug,
			Rating:      in.Rating,
			Comment:     normalization.ParseInputString(in.Comment),
			Date:        a.deps.Now().UTC(),
		})
		if IsUniqueViolation(err) {
			out.AlreadyReviewed = true
			return nil
		}
		if err != nil {
			return err
		}
		out.Review = r
		return nil
	})
	return out, err
}
