package commerce

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      uint               `bson:"user_id" json:"user_id"`
	ProductSlug string             `bson:"product_slug" json:"product_slug"`
	Rating      int                `bson:"rating" json:"rating"`
	Comment     string             `bson:"comment" json:"comment"`
	Date        time.Time          `bson:"date" json:"date"`
}

func ValidRating(r int) bool { return r >= MinRating && r <= MaxRating }

// ReviewView is a review joined with its author's username.
type ReviewView struct {
	ID          string    `json:"id"`
	ProductSlug string    `json:"product_slug"`
	Username    string    `json:"username"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	Date        time.Time `json:"date"`
}

const UnknownUsername = "unknown"

// BuildReviewViews resolves usernames; authors missing from usernames
// render as UnknownUsername.
func BuildReviewViews(reviews []*Review, usernames map[uint]string) []ReviewView {
	out := make([]ReviewView, 0, len(reviews))
	for _, r := range reviews {
		name, ok := usernames[r.UserID]
		if !ok || name == "" {
			name = UnknownUsername
		}
		v := ReviewView{
			ProductSlug: r.ProductSlug,
			Username:    name,
			Rating:      r.Rating,
			Comment:     r.Comment,
			Date:        r.Date,
		}
		if !r.ID.IsZero() {
			v.ID = r.ID.Hex()
		}
		out = append(out, v)
	}
	return out
}

// ReviewAuthorIDs returns the distinct author ids of reviews.
func ReviewAuthorIDs(reviews []*Review) []uint {
	seen := map[uint]struct{}{}
	out := []uint{}
	for _, r := range reviews {
		if _, ok := seen[r.UserID]; ok {
			continue
		}
		seen[r.UserID] = struct{}{}
		out = append(out, r.UserID)
	}
	return out
}
