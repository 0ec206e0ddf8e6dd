package commerce

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yungbote/honeyshop-backend/internal/domain/catalog"
	"github.com/yungbote/honeyshop-backend/internal/domain/commerce"
	"github.com/yungbote/honeyshop-backend/internal/platform/dbctx"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
	"github.com/yungbote/honeyshop-backend/internal/platform/mongodb"
)

type CartRepo interface {
	GetOrCreate(dbc dbctx.Context, userID uint) (*commerce.Cart, error)
	GetByUser(dbc dbctx.Context, userID uint) (*commerce.Cart, error)
	GetByID(dbc dbctx.Context, cartID primitive.ObjectID) (*commerce.Cart, error)
	ReplaceIfVersion(dbc dbctx.Context, cart *commerce.Cart, expectedVersion int64) (bool, error)
	DeleteByID(dbc dbctx.Context, cartID primitive.ObjectID) (int64, error)
}

type cartRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewCartRepo(db *mongo.Database, baseLog *logger.Logger) CartRepo {
	repoLog := baseLog.With("repo", "CartRepo")
	return &cartRepo{coll: db.Collection(mongodb.CollectionCarts), log: repoLog}
}

// GetOrCreate upserts an empty cart for userID. Two concurrent upserts can
// race on the unique user index; the loser re-reads the winner's document.
func (cr *cartRepo) GetOrCreate(dbc dbctx.Context, userID uint) (*commerce.Cart, error) {
	now := time.Now().UTC()
	update := bson.M{"$setOnInsert": bson.M{
		"user_id":      userID,
		"items":        []commerce.CartItem{},
		"total_amount": catalog.Money{},
		"version":      int64(0),
		"updated_at":   now,
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var c commerce.Cart
	err := cr.coll.FindOneAndUpdate(dbc.Ctx, bson.M{"user_id": userID}, update, opts).Decode(&c)
	if mongo.IsDuplicateKeyError(err) {
		return cr.GetByUser(dbc, userID)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (cr *cartRepo) GetByUser(dbc dbctx.Context, userID uint) (*commerce.Cart, error) {
	var c commerce.Cart
	if err := cr.coll.FindOne(dbc.Ctx, bson.M{"user_id": userID}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (cr *cartRepo) GetByID(dbc dbctx.Context, cartID primitive.ObjectID) (*commerce.Cart, error) {
	var c commerce.Cart
	if err := cr.coll.FindOne(dbc.Ctx, bson.M{"_id": cartID}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ReplaceIfVersion writes items and total only when the stored version still
// equals expectedVersion, then bumps it. On success cart.Version is advanced.
func (cr *cartRepo) ReplaceIfVersion(dbc dbctx.Context, cart *commerce.Cart, expectedVersion int64) (bool, error) {
	items := cart.Items
	if items == nil {
		items = []commerce.CartItem{}
	}
	now := time.Now().UTC()
	res, err := cr.coll.UpdateOne(dbc.Ctx,
		bson.M{"_id": cart.ID, "version": expectedVersion},
		bson.M{
			"$set": bson.M{
				"items":        items,
				"total_amount": cart.TotalAmount,
				"updated_at":   now,
			},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, nil
	}
	cart.Version = expectedVersion + 1
	cart.UpdatedAt = now
	return true, nil
}

func (cr *cartRepo) DeleteByID(dbc dbctx.Context, cartID primitive.ObjectID) (int64, error) {
	res, err := cr.coll.DeleteOne(dbc.Ctx, bson.M{"_id": cartID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
