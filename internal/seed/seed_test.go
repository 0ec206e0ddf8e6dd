package seed

import (
	"context"
	"strings"
	"testing"

	domainagg "github.com/yungbote/honeyshop-backend/internal/domain/aggregates"
	"github.com/yungbote/honeyshop-backend/internal/domain/catalog"
	"github.com/yungbote/honeyshop-backend/internal/domain/commerce"
	"github.com/yungbote/honeyshop-backend/internal/domain/user"
	"github.com/yungbote/honeyshop-backend/internal/normalization"
	"github.com/yungbote/honeyshop-backend/internal/platform/ctxutil"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
	"github.com/yungbote/honeyshop-backend/internal/services"
)

func TestDefaultCatalog(t *testing.T) {
	f, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	reviews, orders := 0, 0
	for _, c := range f.Customers {
		reviews += len(c.Reviews)
		orders += len(c.Orders)
	}
	if len(f.Categories) != 4 || len(f.Products) != 10 || reviews != 8 || orders != 3 {
		t.Fatalf("categories=%d products=%d reviews=%d orders=%d", len(f.Categories), len(f.Products), reviews, orders)
	}
}

func TestParseRejects(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{"unknown field", "categorys: []\n", "decode seed file"},
		{"unknown category", "products:\n  - title: Jar\n    category: Nope\n    price: \"1\"\n", `unknown category "Nope"`},
		{"bad price", "categories:\n  - name: Raw\nproducts:\n  - title: Jar\n    category: Raw\n    price: cheap\n", "parse money"},
		{"parent order", "categories:\n  - name: Child\n    parent: Raw\n  - name: Raw\n", "must be listed before"},
		{"review product", "customers:\n  - username: ada\n    reviews:\n      - product: ghost\n        rating: 5\n", `unknown product "ghost"`},
		{"empty order", "customers:\n  - username: ada\n    orders:\n      - items: []\n", "has no items"},
	}
	for _, tc := range cases {
		_, err := Parse(strings.NewReader(tc.doc))
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: want error containing %q, got %v", tc.name, tc.want, err)
		}
	}
}

// world is a tiny in-memory storefront behind the service interfaces.
type world struct {
	categories []*catalog.Category
	products   []*catalog.Product
	users      map[string]uint
	addresses  map[uint][]*user.Address
	reviews    map[uint]map[string]bool
	carts      map[uint]map[string]int
	orders     map[uint][]commerce.OrderView
}

func newWorld() *world {
	return &world{
		users:     map[string]uint{},
		addresses: map[uint][]*user.Address{},
		reviews:   map[uint]map[string]bool{},
		carts:     map[uint]map[string]int{},
		orders:    map[uint][]commerce.OrderView{},
	}
}

type fakeAuth struct {
	services.AuthService
	w *world
}

func (a fakeAuth) RegisterUser(_ context.Context, in services.RegisterInput) (*user.User, error) {
	id := uint(len(a.w.users) + 1)
	a.w.users[in.Username] = id
	return &user.User{ID: id, Username: in.Username}, nil
}

func (a fakeAuth) LoginUser(_ context.Context, username, _ string) (services.TokenPair, error) {
	if _, ok := a.w.users[username]; !ok {
		return services.TokenPair{}, domainagg.Unauthorized("login", "invalid username or password")
	}
	return services.TokenPair{AccessToken: username}, nil
}

func (a fakeAuth) SetContextFromToken(ctx context.Context, token string) (context.Context, error) {
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: a.w.users[token], Username: token}), nil
}

type fakeCatalog struct {
	services.CatalogService
	w *world
}

func (c fakeCatalog) ListCategories(context.Context) ([]*catalog.Category, error) {
	return c.w.categories, nil
}

func (c fakeCatalog) CreateCategory(_ context.Context, in services.CreateCategoryInput) (*catalog.Category, error) {
	cat := &catalog.Category{Name: in.Name, Slug: normalization.Slugify(in.Name)}
	c.w.categories = append(c.w.categories, cat)
	return cat, nil
}

func (c fakeCatalog) ListProducts(context.Context) ([]*catalog.Product, error) {
	return c.w.products, nil
}

func (c fakeCatalog) CreateProduct(_ context.Context, in services.CreateProductInput) (*catalog.Product, error) {
	if in.CategorySlug == "" {
		return nil, domainagg.Validation("create", "category is required")
	}
	p := &catalog.Product{Title: in.Title, Slug: normalization.Slugify(in.Title), Price: in.Price}
	c.w.products = append(c.w.products, p)
	return p, nil
}

func (c fakeCatalog) price(slug string) catalog.Money {
	for _, p := range c.w.products {
		if p.Slug == slug {
			return p.Price
		}
	}
	return catalog.Money{}
}

type fakeAddress struct {
	services.AddressService
	w *world
}

func (a fakeAddress) ListAddresses(ctx context.Context) ([]*user.Address, error) {
	return a.w.addresses[ctxutil.UserID(ctx)], nil
}

func (a fakeAddress) CreateAddress(ctx context.Context, in services.AddressInput) (*user.Address, error) {
	uid := ctxutil.UserID(ctx)
	addr := &user.Address{ID: uint(len(a.w.addresses)*10 + len(a.w.addresses[uid]) + 1), UserID: uid, IsDefault: in.IsDefault}
	a.w.addresses[uid] = append(a.w.addresses[uid], addr)
	return addr, nil
}

type fakeReview struct {
	services.ReviewService
	w *world
}

func (r fakeReview) AddReview(ctx context.Context, in services.AddReviewRequest) (services.AddReviewResult, error) {
	uid := ctxutil.UserID(ctx)
	if r.w.reviews[uid] == nil {
		r.w.reviews[uid] = map[string]bool{}
	}
	if r.w.reviews[uid][in.ProductSlug] {
		return services.AddReviewResult{AlreadyReviewed: true}, nil
	}
	r.w.reviews[uid][in.ProductSlug] = true
	return services.AddReviewResult{Review: &commerce.ReviewView{ProductSlug: in.ProductSlug}}, nil
}

type fakeCart struct {
	services.CartService
	w       *world
	catalog fakeCatalog
}

func (c fakeCart) Clear(ctx context.Context) (services.ClearCartView, error) {
	c.w.carts[ctxutil.UserID(ctx)] = map[string]int{}
	return services.ClearCartView{}, nil
}

func (c fakeCart) AddItem(ctx context.Context, slug string, qty int) (commerce.CartView, error) {
	c.w.carts[ctxutil.UserID(ctx)][slug] += qty
	return commerce.CartView{}, nil
}

func (c fakeCart) View(ctx context.Context) (commerce.CartView, error) {
	total := commerce.DefaultPricing.Shipping.Add(commerce.DefaultPricing.Tax)
	for slug, qty := range c.w.carts[ctxutil.UserID(ctx)] {
		total = total.Add(c.catalog.price(slug).MulInt(qty))
	}
	return commerce.CartView{CartID: "cart", Total: total}, nil
}

type fakeOrder struct {
	services.OrderService
	w      *world
	totals []string
}

func (o *fakeOrder) Summarize(ctx context.Context) (commerce.OrderSummary, error) {
	list := o.w.orders[ctxutil.UserID(ctx)]
	return commerce.OrderSummary{Orders: list, OrderCount: len(list)}, nil
}

func (o *fakeOrder) PlaceOrder(ctx context.Context, in services.PlaceOrderRequest) (commerce.OrderView, error) {
	uid := ctxutil.UserID(ctx)
	if in.AddressID == 0 {
		return commerce.OrderView{}, domainagg.Validation("place", "address required")
	}
	o.totals = append(o.totals, in.TotalAmount.String())
	v := commerce.OrderView{OrderNumber: "ORD"}
	o.w.orders[uid] = append(o.w.orders[uid], v)
	delete(o.w.carts, uid)
	return v, nil
}

func TestSeederRunIsIdempotent(t *testing.T) {
	w := newWorld()
	cat := fakeCatalog{w: w}
	orders := &fakeOrder{w: w}
	s := NewSeeder(logger.Nop(), Services{
		Auth:    fakeAuth{w: w},
		Catalog: cat,
		Address: fakeAddress{w: w},
		Cart:    fakeCart{w: w, catalog: cat},
		Order:   orders,
		Review:  fakeReview{w: w},
	})
	f, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}

	first, err := s.Run(context.Background(), f)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	want := Result{Categories: 4, Products: 10, Customers: 2, Reviews: 8, Orders: 3}
	if first != want {
		t.Fatalf("first run=%+v want %+v", first, want)
	}
	// 2x10.99 + 15.99 + 11 fees; 18.99 + 19.99 + 11; 25.99 + 3x9.99 + 11
	if strings.Join(orders.totals, ",") != "48.97,49.98,66.96" {
		t.Fatalf("order totals=%v", orders.totals)
	}

	second, err := s.Run(context.Background(), f)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second != (Result{}) {
		t.Fatalf("second run created records: %+v", second)
	}
	if len(w.categories) != 4 || len(w.products) != 10 {
		t.Fatalf("duplicates: categories=%d products=%d", len(w.categories), len(w.products))
	}
}
