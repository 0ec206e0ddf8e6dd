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

type ContactRepo interface {
	Create(dbc dbctx.Context, c *commerce.Contact) (*commerce.Contact, error)
	ListRecent(dbc dbctx.Context, limit int64) ([]*commerce.Contact, error)
}

type contactRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewContactRepo(db *mongo.Database, baseLog *logger.Logger) ContactRepo {
	repoLog := baseLog.With("repo", "ContactRepo")
	return &contactRepo{coll: db.Collection(mongodb.CollectionContacts), log: repoLog}
}

func (cr *contactRepo) Create(dbc dbctx.Context, c *commerce.Contact) (*commerce.Contact, error) {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if _, err := cr.coll.InsertOne(dbc.Ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (cr *contactRepo) ListRecent(dbc dbctx.Context, limit int64) ([]*commerce.Contact, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := cr.coll.Find(dbc.Ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	results := []*commerce.Contact{}
	if err := cur.All(dbc.Ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}
