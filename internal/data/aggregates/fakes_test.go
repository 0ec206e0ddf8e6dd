package aggregates_test

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/yungbote/honeyshop-backend/internal/domain/catalog"
	"github.com/yungbote/honeyshop-backend/internal/domain/commerce"
	"github.com/yungbote/honeyshop-backend/internal/domain/user"
	"github.com/yungbote/honeyshop-backend/internal/platform/dbctx"
)

var errDupKey = mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key error"}}}

type fakeProducts struct {
	bySlug map[string]*catalog.Product
	calls  int
}

func newFakeProducts(ps ...*catalog.Product) *fakeProducts {
	f := &fakeProducts{bySlug: map[string]*catalog.Product{}}
	for _, p := range ps {
		f.bySlug[p.Slug] = p
	}
	return f
}

func (f *fakeProducts) GetBySlugs(_ dbctx.Context, slugs []string) (map[string]*catalog.Product, error) {
	f.calls++
	out := map[string]*catalog.Product{}
	for _, s := range slugs {
		if p, ok := f.bySlug[s]; ok {
			out[s] = p
		}
	}
	return out, nil
}

// fakeCartRepo stores deep copies so callers cannot mutate stored carts.
type fakeCartRepo struct {
	mu     sync.Mutex
	byUser map[uint]*commerce.Cart
	// beforeReplace runs once per ReplaceIfVersion, before the version check.
	beforeReplace func(stored *commerce.Cart)
	deleteErr     error
	replaces      int
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{byUser: map[uint]*commerce.Cart{}}
}

func cloneCart(c *commerce.Cart) *commerce.Cart {
	cp := *c
	cp.Items = append([]commerce.CartItem{}, c.Items...)
	return &cp
}

func (f *fakeCartRepo) GetOrCreate(_ dbctx.Context, userID uint) (*commerce.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byUser[userID]
	if !ok {
		c = &commerce.Cart{ID: primitive.NewObjectID(), UserID: userID, Items: []commerce.CartItem{}}
		f.byUser[userID] = c
	}
	return cloneCart(c), nil
}

func (f *fakeCartRepo) GetByUser(_ dbctx.Context, userID uint) (*commerce.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byUser[userID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return cloneCart(c), nil
}

func (f *fakeCartRepo) GetByID(_ dbctx.Context, id primitive.ObjectID) (*commerce.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.byUser {
		if c.ID == id {
			return cloneCart(c), nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeCartRepo) ReplaceIfVersion(_ dbctx.Context, c *commerce.Cart, expected int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaces++
	stored, ok := f.byUser[c.UserID]
	if !ok || stored.ID != c.ID {
		return false, nil
	}
	if f.beforeReplace != nil {
		f.beforeReplace(stored)
	}
	if stored.Version != expected {
		return false, nil
	}
	next := cloneCart(c)
	next.Version = expected + 1
	f.byUser[c.UserID] = next
	c.Version = next.Version
	return true, nil
}

func (f *fakeCartRepo) DeleteByID(_ dbctx.Context, id primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	for uid, c := range f.byUser {
		if c.ID == id {
			delete(f.byUser, uid)
			return 1, nil
		}
	}
	return 0, nil
}

// seed stores c directly, bypassing the version guard.
func (f *fakeCartRepo) seed(c *commerce.Cart) *commerce.Cart {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	f.byUser[c.UserID] = cloneCart(c)
	return c
}

type fakeOrderRepo struct {
	mu       sync.Mutex
	orders   map[primitive.ObjectID]*commerce.Order
	numbers  map[string]bool
	deleted  []primitive.ObjectID
	creates  int
	forceDup int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[primitive.ObjectID]*commerce.Order{}, numbers: map[string]bool{}}
}

func (f *fakeOrderRepo) Create(_ dbctx.Context, o *commerce.Order) (*commerce.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.forceDup > 0 {
		f.forceDup--
		return nil, errDupKey
	}
	if f.numbers[o.OrderNumber] {
		return nil, errDupKey
	}
	cp := *o
	f.orders[o.ID] = &cp
	f.numbers[o.OrderNumber] = true
	return o, nil
}

func (f *fakeOrderRepo) GetByNumber(_ dbctx.Context, n string) (*commerce.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.OrderNumber == n {
			return o, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeOrderRepo) ListByUser(_ dbctx.Context, userID uint) ([]*commerce.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*commerce.Order{}
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) CountByUser(dbc dbctx.Context, userID uint) (int64, error) {
	list, _ := f.ListByUser(dbc, userID)
	return int64(len(list)), nil
}

func (f *fakeOrderRepo) DeleteByID(_ dbctx.Context, id primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	o, ok := f.orders[id]
	if !ok {
		return 0, nil
	}
	delete(f.numbers, o.OrderNumber)
	delete(f.orders, id)
	return 1, nil
}

// rollback discards every stored order, as an aborted transaction would.
func (f *fakeOrderRepo) rollback() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = map[primitive.ObjectID]*commerce.Order{}
	f.numbers = map[string]bool{}
}

type fakeAddresses struct {
	owned map[uint]uint // address id -> owner
}

func (f fakeAddresses) GetOwned(_ dbctx.Context, userID, addressID uint) (*user.Address, error) {
	if owner, ok := f.owned[addressID]; ok && owner == userID {
		return &user.Address{ID: addressID, UserID: userID}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeMongo struct {
	transactions bool
	txCalls      int
}

func (f *fakeMongo) SupportsTransactions() bool { return f.transactions }

func (f *fakeMongo) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.txCalls++
	return fn(ctx)
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews []*commerce.Review
	// racer inserts a competing review right before Create runs.
	racer *commerce.Review
}

func (f *fakeReviewRepo) Create(_ dbctx.Context, r *commerce.Review) (*commerce.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.racer != nil {
		f.reviews = append(f.reviews, f.racer)
		f.racer = nil
	}
	for _, existing := range f.reviews {
		if existing.UserID == r.UserID && existing.ProductSlug == r.ProductSlug {
			return nil, errDupKey
		}
	}
	r.ID = primitive.NewObjectID()
	f.reviews = append(f.reviews, r)
	return r, nil
}

func (f *fakeReviewRepo) Exists(_ dbctx.Context, userID uint, slug string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reviews {
		if r.UserID == userID && r.ProductSlug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReviewRepo) ListByProduct(_ dbctx.Context, slug string) ([]*commerce.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*commerce.Review{}
	for _, r := range f.reviews {
		if r.ProductSlug == slug {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) CountByUser(_ dbctx.Context, userID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, r := range f.reviews {
		if r.UserID == userID {
			n++
		}
	}
	return n, nil
}

var errBoom = errors.New("boom")

func dbctxBackground() dbctx.Context { return dbctx.Context{Ctx: context.Background()} }
