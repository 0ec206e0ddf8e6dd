package catalog

import (
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yungbote/honeyshop-backend/internal/domain/catalog"
	"github.com/yungbote/honeyshop-backend/internal/platform/dbctx"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
	"github.com/yungbote/honeyshop-backend/internal/platform/mongodb"
)

// ProductQuery filters and orders product listings. Zero values mean
// "no constraint"; Limit 0 returns everything.
type ProductQuery struct {
	Search     string
	CategoryID *primitive.ObjectID
	ActiveOnly bool
	ExcludeID  *primitive.ObjectID
	SortField  string
	SortDesc   bool
	Skip       int64
	Limit      int64
}

// Filter renders the query as a document store filter. Search is matched as
// a case-insensitive literal substring of the title.
func (q ProductQuery) Filter() bson.M {
	f := bson.M{}
	if s := strings.TrimSpace(q.Search); s != "" {
		f["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
	}
	if q.CategoryID != nil {
		f["category_id"] = *q.CategoryID
	}
	if q.ActiveOnly {
		f["status"] = catalog.ProductActive
	}
	if q.ExcludeID != nil {
		f["_id"] = bson.M{"$ne": *q.ExcludeID}
	}
	return f
}

// Sort orders by SortField (title when empty) with _id as tie-breaker so
// page boundaries are stable.
func (q ProductQuery) Sort() bson.D {
	field := q.SortField
	if field == "" {
		field = "title"
	}
	dir := 1
	if q.SortDesc {
		dir = -1
	}
	return bson.D{{Key: field, Value: dir}, {Key: "_id", Value: dir}}
}

type ProductRepo interface {
	Create(dbc dbctx.Context, p *catalog.Product) (*catalog.Product, error)
	GetBySlug(dbc dbctx.Context, slug string) (*catalog.Product, error)
	GetBySlugs(dbc dbctx.Context, slugs []string) (map[string]*catalog.Product, error)
	SlugExists(dbc dbctx.Context, slug string) (bool, error)
	List(dbc dbctx.Context, q ProductQuery) ([]*catalog.Product, error)
	Count(dbc dbctx.Context, q ProductQuery) (int64, error)
	Update(dbc dbctx.Context, slug string, set bson.M) (*catalog.Product, error)
	AppendImage(dbc dbctx.Context, slug, url string) (*catalog.Product, error)
}

type productRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewProductRepo(db *mongo.Database, baseLog *logger.Logger) ProductRepo {
	repoLog := baseLog.With("repo", "ProductRepo")
	return &productRepo{coll: db.Collection(mongodb.CollectionProducts), log: repoLog}
}

func (pr *productRepo) Create(dbc dbctx.Context, p *catalog.Product) (*catalog.Product, error) {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Status == "" {
		p.Status = catalog.ProductActive
	}
	if p.ModifiedAt.IsZero() {
		p.ModifiedAt = time.Now().UTC()
	}
	if _, err := pr.coll.InsertOne(dbc.Ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (pr *productRepo) GetBySlug(dbc dbctx.Context, slug string) (*catalog.Product, error) {
	var p catalog.Product
	if err := pr.coll.FindOne(dbc.Ctx, bson.M{"slug": slug}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetBySlugs returns the products found, keyed by slug. Missing slugs are
// absent from the map.
func (pr *productRepo) GetBySlugs(dbc dbctx.Context, slugs []string) (map[string]*catalog.Product, error) {
	out := make(map[string]*catalog.Product, len(slugs))
	if len(slugs) == 0 {
		return out, nil
	}
	cur, err := pr.coll.Find(dbc.Ctx, bson.M{"slug": bson.M{"$in": slugs}})
	if err != nil {
		return nil, err
	}
	var rows []*catalog.Product
	if err := cur.All(dbc.Ctx, &rows); err != nil {
		return nil, err
	}
	for _, p := range rows {
		out[p.Slug] = p
	}
	return out, nil
}

func (pr *productRepo) SlugExists(dbc dbctx.Context, slug string) (bool, error) {
	n, err := pr.coll.CountDocuments(dbc.Ctx, bson.M{"slug": slug}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (pr *productRepo) List(dbc dbctx.Context, q ProductQuery) ([]*catalog.Product, error) {
	opts := options.Find().SetSort(q.Sort())
	if q.Skip > 0 {
		opts.SetSkip(q.Skip)
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	cur, err := pr.coll.Find(dbc.Ctx, q.Filter(), opts)
	if err != nil {
		return nil, err
	}
	results := []*catalog.Product{}
	if err := cur.All(dbc.Ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *productRepo) Count(dbc dbctx.Context, q ProductQuery) (int64, error) {
	return pr.coll.CountDocuments(dbc.Ctx, q.Filter())
}

// Update applies set to the product and bumps modified_at. The slug itself
// is never rewritten here.
func (pr *productRepo) Update(dbc dbctx.Context, slug string, set bson.M) (*catalog.Product, error) {
	if set == nil {
		set = bson.M{}
	}
	delete(set, "slug")
	delete(set, "_id")
	set["modified_at"] = time.Now().UTC()

	var p catalog.Product
	err := pr.coll.FindOneAndUpdate(dbc.Ctx,
		bson.M{"slug": slug},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (pr *productRepo) AppendImage(dbc dbctx.Context, slug, url string) (*catalog.Product, error) {
	var p catalog.Product
	err := pr.coll.FindOneAndUpdate(dbc.Ctx,
		bson.M{"slug": slug},
		bson.M{
			"$push": bson.M{"images": url},
			"$set":  bson.M{"modified_at": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
