// Package seed loads demo storefront data through the regular services, so
// every seeded record passes the same validation as an API request.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	domainagg "github.com/yungbote/honeyshop-backend/internal/domain/aggregates"
	"github.com/yungbote/honeyshop-backend/internal/domain/catalog"
	"github.com/yungbote/honeyshop-backend/internal/normalization"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
	"github.com/yungbote/honeyshop-backend/internal/services"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type File struct {
	Categories []Category `yaml:"categories"`
	Products   []Product  `yaml:"products"`
	Customers  []Customer `yaml:"customers"`
}

type Category struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Parent      string `yaml:"parent"`
}

type Product struct {
	Title       string `yaml:"title"`
	Category    string `yaml:"category"`
	Price       string `yaml:"price"`
	Description string `yaml:"description"`
}

type Customer struct {
	Username  string   `yaml:"username"`
	Email     string   `yaml:"email"`
	Password  string   `yaml:"password"`
	FirstName string   `yaml:"first_name"`
	LastName  string   `yaml:"last_name"`
	Phone     string   `yaml:"phone"`
	Address   Address  `yaml:"address"`
	Reviews   []Review `yaml:"reviews"`
	Orders    []Order  `yaml:"orders"`
}

type Address struct {
	Label      string `yaml:"label"`
	Street     string `yaml:"street"`
	City       string `yaml:"city"`
	State      string `yaml:"state"`
	Country    string `yaml:"country"`
	PostalCode string `yaml:"postal_code"`
}

type Review struct {
	Product string `yaml:"product"`
	Rating  int    `yaml:"rating"`
	Comment string `yaml:"comment"`
}

type Order struct {
	Items []OrderItem `yaml:"items"`
}

type OrderItem struct {
	Product  string `yaml:"product"`
	Quantity int    `yaml:"quantity"`
}

// Default returns the embedded demo catalog.
func Default() (*File, error) {
	return Parse(bytes.NewReader(defaultCatalog))
}

// Load reads a seed file from disk; an empty path means the embedded default.
func Load(path string) (*File, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func Parse(r io.Reader) (*File, error) {
	var out File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

// Validate checks cross references: product categories, parent categories,
// and the products named by reviews and orders.
func (f *File) Validate() error {
	categories := map[string]bool{}
	for _, c := range f.Categories {
		if c.Name == "" {
			return fmt.Errorf("category with empty name")
		}
		if c.Parent != "" && !categories[c.Parent] {
			return fmt.Errorf("category %q: parent %q must be listed before it", c.Name, c.Parent)
		}
		categories[c.Name] = true
	}
	products := map[string]bool{}
	for _, p := range f.Products {
		if !categories[p.Category] {
			return fmt.Errorf("product %q: unknown category %q", p.Title, p.Category)
		}
		if _, err := catalog.ParseMoney(p.Price); err != nil {
			return fmt.Errorf("product %q: %w", p.Title, err)
		}
		products[normalization.Slugify(p.Title)] = true
	}
	for _, c := range f.Customers {
		for _, r := range c.Reviews {
			if !products[r.Product] {
				return fmt.Errorf("customer %q: review for unknown product %q", c.Username, r.Product)
			}
		}
		for i, o := range c.Orders {
			if len(o.Items) == 0 {
				return fmt.Errorf("customer %q: order %d has no items", c.Username, i+1)
			}
			for _, it := range o.Items {
				if !products[it.Product] {
					return fmt.Errorf("customer %q: order %d names unknown product %q", c.Username, i+1, it.Product)
				}
			}
		}
	}
	return nil
}

type Services struct {
	Auth    services.AuthService
	Catalog services.CatalogService
	Address services.AddressService
	Cart    services.CartService
	Order   services.OrderService
	Review  services.ReviewService
}

// Result counts what a run created; existing records are skipped.
type Result struct {
	Categories int
	Products   int
	Customers  int
	Reviews    int
	Orders     int
}

type Seeder struct {
	log *logger.Logger
	svc Services
}

func NewSeeder(log *logger.Logger, svc Services) *Seeder {
	return &Seeder{log: log.With("service", "Seeder"), svc: svc}
}

// Run is idempotent: categories and products are matched by name/title,
// customers by username, and orders are only placed for a customer who has
// none yet.
func (s *Seeder) Run(ctx context.Context, f *File) (Result, error) {
	var res Result
	categorySlugs, err := s.seedCategories(ctx, f.Categories, &res)
	if err != nil {
		return res, err
	}
	if err := s.seedProducts(ctx, f.Products, categorySlugs, &res); err != nil {
		return res, err
	}
	for _, c := range f.Customers {
		if err := s.seedCustomer(ctx, c, &res); err != nil {
			return res, fmt.Errorf("customer %q: %w", c.Username, err)
		}
	}
	s.log.Info("Seed complete",
		"categories", res.Categories,
		"products", res.Products,
		"customers", res.Customers,
		"reviews", res.Reviews,
		"orders", res.Orders,
	)
	return res, nil
}

func (s *Seeder) seedCategories(ctx context.Context, list []Category, res *Result) (map[string]string, error) {
	existing, err := s.svc.Catalog.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	slugs := make(map[string]string, len(existing))
	for _, c := range existing {
		slugs[c.Name] = c.Slug
	}
	for _, c := range list {
		if _, ok := slugs[c.Name]; ok {
			continue
		}
		created, err := s.svc.Catalog.CreateCategory(ctx, services.CreateCategoryInput{
			Name:        c.Name,
			Description: c.Description,
			ParentSlug:  slugs[c.Parent],
		})
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", c.Name, err)
		}
		slugs[c.Name] = created.Slug
		res.Categories++
	}
	return slugs, nil
}

func (s *Seeder) seedProducts(ctx context.Context, list []Product, categorySlugs map[string]string, res *Result) error {
	existing, err := s.svc.Catalog.ListProducts(ctx)
	if err != nil {
		return err
	}
	titles := make(map[string]bool, len(existing))
	for _, p := range existing {
		titles[p.Title] = true
	}
	for _, p := range list {
		if titles[p.Title] {
			continue
		}
		price, err := catalog.ParseMoney(p.Price)
		if err != nil {
			return fmt.Errorf("product %q: %w", p.Title, err)
		}
		if _, err := s.svc.Catalog.CreateProduct(ctx, services.CreateProductInput{
			Title:        p.Title,
			CategorySlug: categorySlugs[p.Category],
			Price:        price,
			Description:  p.Description,
		}); err != nil {
			return fmt.Errorf("product %q: %w", p.Title, err)
		}
		titles[p.Title] = true
		res.Products++
	}
	return nil
}

// signIn logs the customer in, registering them first when unknown, and
// returns a context carrying their identity.
func (s *Seeder) signIn(ctx context.Context, c Customer, res *Result) (context.Context, error) {
	pair, err := s.svc.Auth.LoginUser(ctx, c.Username, c.Password)
	if domainagg.IsCode(err, domainagg.CodeUnauthorized) {
		if _, err := s.svc.Auth.RegisterUser(ctx, services.RegisterInput{
			Username:  c.Username,
			Email:     c.Email,
			Password1: c.Password,
			Password2: c.Password,
			FirstName: c.FirstName,
			LastName:  c.LastName,
			Phone:     c.Phone,
		}); err != nil {
			return nil, err
		}
		res.Customers++
		pair, err = s.svc.Auth.LoginUser(ctx, c.Username, c.Password)
	}
	if err != nil {
		return nil, err
	}
	return s.svc.Auth.SetContextFromToken(ctx, pair.AccessToken)
}

func (s *Seeder) seedCustomer(ctx context.Context, c Customer, res *Result) error {
	userCtx, err := s.signIn(ctx, c, res)
	if err != nil {
		return err
	}

	addresses, err := s.svc.Address.ListAddresses(userCtx)
	if err != nil {
		return err
	}
	var addressID uint
	if len(addresses) > 0 {
		addressID = addresses[0].ID
	} else {
		a, err := s.svc.Address.CreateAddress(userCtx, services.AddressInput{
			Label:      c.Address.Label,
			Street:     c.Address.Street,
			City:       c.Address.City,
			State:      c.Address.State,
			Country:    c.Address.Country,
			PostalCode: c.Address.PostalCode,
			IsDefault:  true,
		})
		if err != nil {
			return fmt.Errorf("address: %w", err)
		}
		addressID = a.ID
	}

	for _, r := range c.Reviews {
		out, err := s.svc.Review.AddReview(userCtx, services.AddReviewRequest{
			ProductSlug: r.Product,
			Rating:      r.Rating,
			Comment:     r.Comment,
		})
		if err != nil {
			return fmt.Errorf("review %q: %w", r.Product, err)
		}
		if !out.AlreadyReviewed {
			res.Reviews++
		}
	}

	if len(c.Orders) == 0 {
		return nil
	}
	summary, err := s.svc.Order.Summarize(userCtx)
	if err != nil {
		return err
	}
	if summary.OrderCount > 0 {
		return nil
	}
	for i, o := range c.Orders {
		if err := s.placeOrder(userCtx, o, addressID); err != nil {
			return fmt.Errorf("order %d: %w", i+1, err)
		}
		res.Orders++
	}
	return nil
}

func (s *Seeder) placeOrder(ctx context.Context, o Order, addressID uint) error {
	if _, err := s.svc.Cart.Clear(ctx); err != nil {
		return err
	}
	for _, it := range o.Items {
		if _, err := s.svc.Cart.AddItem(ctx, it.Product, it.Quantity); err != nil {
			return fmt.Errorf("add %q: %w", it.Product, err)
		}
	}
	view, err := s.svc.Cart.View(ctx)
	if err != nil {
		return err
	}
	_, err = s.svc.Order.PlaceOrder(ctx, services.PlaceOrderRequest{
		CartID:      view.CartID,
		TotalAmount: view.Total,
		AddressID:   addressID,
	})
	return err
}
