package catalog

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yungbote/honeyshop-backend/internal/domain/catalog"
	"github.com/yungbote/honeyshop-backend/internal/platform/dbctx"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
	"github.com/yungbote/honeyshop-backend/internal/platform/mongodb"
)

type CategoryRepo interface {
	Create(dbc dbctx.Context, c *catalog.Category) (*catalog.Category, error)
	GetBySlug(dbc dbctx.Context, slug string) (*catalog.Category, error)
	GetByIDs(dbc dbctx.Context, ids []primitive.ObjectID) ([]*catalog.Category, error)
	List(dbc dbctx.Context) ([]*catalog.Category, error)
	SlugExists(dbc dbctx.Context, slug string) (bool, error)
}

type categoryRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewCategoryRepo(db *mongo.Database, baseLog *logger.Logger) CategoryRepo {
	repoLog := baseLog.With("repo", "CategoryRepo")
	return &categoryRepo{coll: db.Collection(mongodb.CollectionCategories), log: repoLog}
}

func (cr *categoryRepo) Create(dbc dbctx.Context, c *catalog.Category) (*catalog.Category, error) {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if _, err := cr.coll.InsertOne(dbc.Ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (cr *categoryRepo) GetBySlug(dbc dbctx.Context, slug string) (*catalog.Category, error) {
	var c catalog.Category
	if err := cr.coll.FindOne(dbc.Ctx, bson.M{"slug": slug}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (cr *categoryRepo) GetByIDs(dbc dbctx.Context, ids []primitive.ObjectID) ([]*catalog.Category, error) {
	results := []*catalog.Category{}
	if len(ids) == 0 {
		return results, nil
	}
	cur, err := cr.coll.Find(dbc.Ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	if err := cur.All(dbc.Ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *categoryRepo) List(dbc dbctx.Context) ([]*catalog.Category, error) {
	results := []*catalog.Category{}
	cur, err := cr.coll.Find(dbc.Ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	if err := cur.All(dbc.Ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *categoryRepo) SlugExists(dbc dbctx.Context, slug string) (bool, error) {
	n, err := cr.coll.CountDocuments(dbc.Ctx, bson.M{"slug": slug}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
