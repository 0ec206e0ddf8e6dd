package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yungbote/honeyshop-backend/internal/data/repos"
	repotestutil "github.com/yungbote/honeyshop-backend/internal/data/repos/testutil"
	"github.com/yungbote/honeyshop-backend/internal/domain/catalog"
	"github.com/yungbote/honeyshop-backend/internal/domain/commerce"
	"github.com/yungbote/honeyshop-backend/internal/platform/ctxutil"
	"github.com/yungbote/honeyshop-backend/internal/platform/dbctx"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
)

var errBoom = errors.New("boom")

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	return repotestutil.Logger(t)
}

func asUser(userID uint) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: userID, Username: "bee"})
}

type fakeCategoryRepo struct {
	mu     sync.Mutex
	bySlug map[string]*catalog.Category
}

func newFakeCategoryRepo(cs ...*catalog.Category) *fakeCategoryRepo {
	f := &fakeCategoryRepo{bySlug: map[string]*catalog.Category{}}
	for _, c := range cs {
		if c.ID.IsZero() {
			c.ID = primitive.NewObjectID()
		}
		f.bySlug[c.Slug] = c
	}
	return f
}

func (f *fakeCategoryRepo) Create(_ dbctx.Context, c *catalog.Category) (*catalog.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.bySlug[c.Slug]; ok {
		return nil, mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key error"}}}
	}
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	f.bySlug[c.Slug] = c
	return c, nil
}

func (f *fakeCategoryRepo) GetBySlug(_ dbctx.Context, slug string) (*catalog.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.bySlug[slug]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return c, nil
}

func (f *fakeCategoryRepo) GetByIDs(_ dbctx.Context, ids []primitive.ObjectID) ([]*catalog.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*catalog.Category{}
	for _, id := range ids {
		for _, c := range f.bySlug {
			if c.ID == id {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (f *fakeCategoryRepo) List(_ dbctx.Context) ([]*catalog.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*catalog.Category, 0, len(f.bySlug))
	for _, c := range f.bySlug {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCategoryRepo) SlugExists(_ dbctx.Context, slug string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.bySlug[slug]
	return ok, nil
}

// fakeProductRepo evaluates ProductQuery the way the document store does.
type fakeProductRepo struct {
	mu        sync.Mutex
	items     []*catalog.Product
	appendErr error
}

func newFakeProductRepo(ps ...*catalog.Product) *fakeProductRepo {
	f := &fakeProductRepo{}
	for _, p := range ps {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		if p.Status == "" {
			p.Status = catalog.ProductActive
		}
		f.items = append(f.items, p)
	}
	return f
}

func (f *fakeProductRepo) find(slug string) *catalog.Product {
	for _, p := range f.items {
		if p.Slug == slug {
			return p
		}
	}
	return nil
}

func (f *fakeProductRepo) Create(_ dbctx.Context, p *catalog.Product) (*catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.find(p.Slug) != nil {
		return nil, mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key error"}}}
	}
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	f.items = append(f.items, p)
	return p, nil
}

func (f *fakeProductRepo) GetBySlug(_ dbctx.Context, slug string) (*catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p := f.find(slug); p != nil {
		return p, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeProductRepo) GetBySlugs(_ dbctx.Context, slugs []string) (map[string]*catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]*catalog.Product{}
	for _, s := range slugs {
		if p := f.find(s); p != nil {
			out[s] = p
		}
	}
	return out, nil
}

func (f *fakeProductRepo) SlugExists(_ dbctx.Context, slug string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.find(slug) != nil, nil
}

func (f *fakeProductRepo) matching(q repos.ProductQuery) []*catalog.Product {
	out := []*catalog.Product{}
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	for _, p := range f.items {
		if needle != "" && !strings.Contains(strings.ToLower(p.Title), needle) {
			continue
		}
		if q.CategoryID != nil && p.CategoryID != *q.CategoryID {
			continue
		}
		if q.ActiveOnly && p.Status != catalog.ProductActive {
			continue
		}
		if q.ExcludeID != nil && p.ID == *q.ExcludeID {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (f *fakeProductRepo) List(_ dbctx.Context, q repos.ProductQuery) ([]*catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.matching(q)
	less := func(a, b *catalog.Product) bool {
		switch q.SortField {
		case "price":
			return a.Price.Decimal().LessThan(b.Price.Decimal())
		case "modified_at":
			return a.ModifiedAt.Before(b.ModifiedAt)
		default:
			return a.Title < b.Title
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if q.SortDesc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	if q.Skip > 0 {
		if int(q.Skip) >= len(out) {
			return []*catalog.Product{}, nil
		}
		out = out[q.Skip:]
	}
	if q.Limit > 0 && int(q.Limit) < len(out) {
		out = out[:q.Limit]
	}
	return out, nil
}

func (f *fakeProductRepo) Count(_ dbctx.Context, q repos.ProductQuery) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.matching(q))), nil
}

func (f *fakeProductRepo) Update(_ dbctx.Context, slug string, set bson.M) (*catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.find(slug)
	if p == nil {
		return nil, mongo.ErrNoDocuments
	}
	for k, v := range set {
		switch k {
		case "title":
			p.Title = v.(string)
		case "description":
			p.Description = v.(string)
		case "price":
			p.Price = v.(catalog.Money)
		case "status":
			p.Status = v.(catalog.ProductStatus)
		case "category_id":
			p.CategoryID = v.(primitive.ObjectID)
		}
	}
	p.ModifiedAt = time.Now().UTC()
	return p, nil
}

func (f *fakeProductRepo) AppendImage(_ dbctx.Context, slug, url string) (*catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	p := f.find(slug)
	if p == nil {
		return nil, mongo.ErrNoDocuments
	}
	p.Images = append(p.Images, url)
	return p, nil
}

type fakeInvalidator struct {
	slugs []string
}

func (f *fakeInvalidator) Invalidate(_ context.Context, slugs ...string) error {
	f.slugs = append(f.slugs, slugs...)
	return nil
}

type fakeImageStore struct {
	objects   map[string][]byte
	deleted   []string
	uploadErr error
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{objects: map[string][]byte{}}
}

func (f *fakeImageStore) Upload(_ context.Context, key string, r io.Reader) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return err
	}
	f.objects[key] = buf.Bytes()
	return nil
}

func (f *fakeImageStore) Delete(_ context.Context, key string) error {
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeImageStore) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

func (f *fakeImageStore) Close() error { return nil }

type fakeReviewService struct {
	bySlug map[string][]commerce.ReviewView
	counts map[uint]int64
}

func (f *fakeReviewService) AddReview(context.Context, AddReviewRequest) (AddReviewResult, error) {
	return AddReviewResult{}, errBoom
}

func (f *fakeReviewService) ListForProduct(_ context.Context, slug string) ([]commerce.ReviewView, error) {
	if f == nil || f.bySlug[slug] == nil {
		return []commerce.ReviewView{}, nil
	}
	return f.bySlug[slug], nil
}

func (f *fakeReviewService) CountForUser(_ context.Context, userID uint) (int64, error) {
	if f == nil {
		return 0, nil
	}
	return f.counts[userID], nil
}

type fakeContactRepo struct {
	saved []*commerce.Contact
	limit int64
}

func (f *fakeContactRepo) Create(_ dbctx.Context, c *commerce.Contact) (*commerce.Contact, error) {
	c.ID = primitive.NewObjectID()
	f.saved = append(f.saved, c)
	return c, nil
}

func (f *fakeContactRepo) ListRecent(_ dbctx.Context, limit int64) ([]*commerce.Contact, error) {
	f.limit = limit
	return f.saved, nil
}

func ptr[T any](v T) *T { return &v }
