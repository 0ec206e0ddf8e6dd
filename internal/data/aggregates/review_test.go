package aggregates_test

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/honeyshop-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/honeyshop-backend/internal/domain/aggregates"
	"github.com/yungbote/honeyshop-backend/internal/domain/commerce"
)

func newReviewAgg(reviews *fakeReviewRepo) domainagg.ReviewAggregate {
	return aggregates.NewReviewAggregate(aggregates.ReviewAggregateDeps{
		Reviews:  reviews,
		Products: honeyProducts(),
		Now:      func() time.Time { return time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC) },
	})
}

func TestAddReviewOncePerProduct(t *testing.T) {
	ctx := context.Background()
	reviews := &fakeReviewRepo{}
	agg := newReviewAgg(reviews)

	first, err := agg.AddReview(ctx, domainagg.AddReviewInput{UserID: 1, ProductSlug: "manuka-honey", Rating: 5, Comment: "  rich and floral "})
	if err != nil {
		t.Fatalf("AddReview: %v", err)
	}
	if first.AlreadyReviewed || first.Review == nil {
		t.Fatalf("first review should be stored: %+v", first)
	}
	if first.Review.Comment != "rich and floral" {
		t.Fatalf("comment: got=%q", first.Review.Comment)
	}

	second, err := agg.AddReview(ctx, domainagg.AddReviewInput{UserID: 1, ProductSlug: "manuka-honey", Rating: 1})
	if err != nil {
		t.Fatalf("AddReview: %v", err)
	}
	if !second.AlreadyReviewed || second.Review != nil {
		t.Fatalf("second review should be refused: %+v", second)
	}
	if n, _ := reviews.CountByUser(dbctxBackground(), 1); n != 1 {
		t.Fatalf("stored reviews: want=1 got=%d", n)
	}

	other, err := agg.AddReview(ctx, domainagg.AddReviewInput{UserID: 2, ProductSlug: "manuka-honey", Rating: 4})
	if err != nil || other.AlreadyReviewed {
		t.Fatalf("another user may review the same product: %+v %v", other, err)
	}
}

func TestAddReviewLosingInsertRaceReportsAlreadyReviewed(t *testing.T) {
	reviews := &fakeReviewRepo{racer: &commerce.Review{UserID: 1, ProductSlug: "manuka-honey", Rating: 3}}
	res, err := newReviewAgg(reviews).AddReview(context.Background(), domainagg.AddReviewInput{UserID: 1, ProductSlug: "manuka-honey", Rating: 5})
	if err != nil {
		t.Fatalf("AddReview: %v", err)
	}
	if !res.AlreadyReviewed {
		t.Fatalf("expected AlreadyReviewed after unique violation")
	}
}

func TestAddReviewValidation(t *testing.T) {
	agg := newReviewAgg(&fakeReviewRepo{})
	for _, rating := range []int{0, 6, -1} {
		_, err := agg.AddReview(context.Background(), domainagg.AddReviewInput{UserID: 1, ProductSlug: "manuka-honey", Rating: rating})
		if !domainagg.IsCode(err, domainagg.CodeValidation) {
			t.Fatalf("rating %d: want validation got %q", rating, domainagg.CodeOf(err))
		}
	}
	_, err := agg.AddReview(context.Background(), domainagg.AddReviewInput{UserID: 1, ProductSlug: "clover-honey", Rating: 4})
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("unknown product: want not_found got %q", domainagg.CodeOf(err))
	}
}
