package commerce

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yungbote/honeyshop-backend/internal/domain/commerce"
	"github.com/yungbote/honeyshop-backend/internal/platform/dbctx"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
	"github.com/yungbote/honeyshop-backend/internal/platform/mongodb"
)

type ReviewRepo interface {
	Create(dbc dbctx.Context, r *commerce.Review) (*commerce.Review, error)
	Exists(dbc dbctx.Context, userID uint, productSlug string) (bool, error)
	ListByProduct(dbc dbctx.Context, productSlug string) ([]*commerce.Review, error)
	CountByUser(dbc dbctx.Context, userID uint) (int64, error)
}

type reviewRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewReviewRepo(db *mongo.Database, baseLog *logger.Logger) ReviewRepo {
	repoLog := baseLog.With("repo", "ReviewRepo")
	return &reviewRepo{coll: db.Collection(mongodb.CollectionReviews), log: repoLog}
}

func (rr *reviewRepo) Create(dbc dbctx.Context, r *commerce.Review) (*commerce.Review, error) {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	if _, err := rr.coll.InsertOne(dbc.Ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (rr *reviewRepo) Exists(dbc dbctx.Context, userID uint, productSlug string) (bool, error) {
	n, err := rr.coll.CountDocuments(dbc.Ctx,
		bson.M{"user_id": userID, "product_slug": productSlug},
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListByProduct returns the product's reviews, newest first.
func (rr *reviewRepo) ListByProduct(dbc dbctx.Context, productSlug string) ([]*commerce.Review, error) {
	cur, err := rr.coll.Find(dbc.Ctx,
		bson.M{"product_slug": productSlug},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	results := []*commerce.Review{}
	if err := cur.All(dbc.Ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *reviewRepo) CountByUser(dbc dbctx.Context, userID uint) (int64, error) {
	return rr.coll.CountDocuments(dbc.Ctx, bson.M{"user_id": userID})
}
