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

type OrderRepo interface {
	Create(dbc dbctx.Context, o *commerce.Order) (*commerce.Order, error)
	GetByNumber(dbc dbctx.Context, orderNumber string) (*commerce.Order, error)
	ListByUser(dbc dbctx.Context, userID uint) ([]*commerce.Order, error)
	CountByUser(dbc dbctx.Context, userID uint) (int64, error)
	DeleteByID(dbc dbctx.Context, orderID primitive.ObjectID) (int64, error)
}

type orderRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewOrderRepo(db *mongo.Database, baseLog *logger.Logger) OrderRepo {
	repoLog := baseLog.With("repo", "OrderRepo")
	return &orderRepo{coll: db.Collection(mongodb.CollectionOrders), log: repoLog}
}

func (repo *orderRepo) Create(dbc dbctx.Context, o *commerce.Order) (*commerce.Order, error) {
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	if _, err := repo.coll.InsertOne(dbc.Ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (repo *orderRepo) GetByNumber(dbc dbctx.Context, orderNumber string) (*commerce.Order, error) {
	var o commerce.Order
	if err := repo.coll.FindOne(dbc.Ctx, bson.M{"order_number": orderNumber}).Decode(&o); err != nil {
		return nil, err
	}
	return &o, nil
}

// ListByUser returns the user's orders, newest first.
func (repo *orderRepo) ListByUser(dbc dbctx.Context, userID uint) ([]*commerce.Order, error) {
	cur, err := repo.coll.Find(dbc.Ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	results := []*commerce.Order{}
	if err := cur.All(dbc.Ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (repo *orderRepo) CountByUser(dbc dbctx.Context, userID uint) (int64, error) {
	return repo.coll.CountDocuments(dbc.Ctx, bson.M{"user_id": userID})
}

func (repo *orderRepo) DeleteByID(dbc dbctx.Context, orderID primitive.ObjectID) (int64, error) {
	res, err := repo.coll.DeleteOne(dbc.Ctx, bson.M{"_id": orderID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
