package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yungbote/honeyshop-backend/internal/data/aggregates"
	"github.com/yungbote/honeyshop-backend/internal/data/repos"
	domainagg "github.com/yungbote/honeyshop-backend/internal/domain/aggregates"
	"github.com/yungbote/honeyshop-backend/internal/domain/catalog"
	"github.com/yungbote/honeyshop-backend/internal/domain/commerce"
	"github.com/yungbote/honeyshop-backend/internal/normalization"
	"github.com/yungbote/honeyshop-backend/internal/platform/dbctx"
	"github.com/yungbote/honeyshop-backend/internal/platform/gcp"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
)

const FeaturedLimit = 3

// ProductInvalidator drops cached product documents after catalog writes.
type ProductInvalidator interface {
	Invalidate(ctx context.Context, slugs ...string) error
}

type CategoryRef struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type CreateCategoryInput struct {
	Name        string
	Description string
	ParentSlug  string
}

type CreateProductInput struct {
	Title        string
	CategorySlug string
	Price        catalog.Money
	Description  string
}

// UpdateProductInput leaves nil fields untouched.
type UpdateProductInput struct {
	Title        *string
	CategorySlug *string
	Price        *catalog.Money
	Description  *string
	Status       *catalog.ProductStatus
}

type HomeView struct {
	Featured   []*catalog.Product  `json:"featured"`
	Categories []*catalog.Category `json:"categories"`
}

type ShopQuery struct {
	Q        string
	Category string
	Sort     string
	Page     string
}

type ShopPage struct {
	Products    []*catalog.Product  `json:"products"`
	Categories  []*catalog.Category `json:"categories"`
	Query       string              `json:"q"`
	Category    string              `json:"category,omitempty"`
	Sort        string              `json:"sort"`
	Page        int                 `json:"page"`
	NumPages    int                 `json:"num_pages"`
	Total       int64               `json:"total"`
	HasNext     bool                `json:"has_next"`
	HasPrevious bool                `json:"has_previous"`
}

type ProductDetail struct {
	Product  *catalog.Product      `json:"product"`
	Category *CategoryRef          `json:"category,omitempty"`
	Reviews  []commerce.ReviewView `json:"reviews"`
	Related  []*catalog.Product    `json:"related"`
}

type CatalogService interface {
	CreateCategory(ctx context.Context, in CreateCategoryInput) (*catalog.Category, error)
	ListCategories(ctx context.Context) ([]*catalog.Category, error)
	CategoryBySlug(ctx context.Context, slug string) (*catalog.Category, error)

	CreateProduct(ctx context.Context, in CreateProductInput) (*catalog.Product, error)
	UpdateProduct(ctx context.Context, slug string, in UpdateProductInput) (*catalog.Product, error)
	ProductBySlug(ctx context.Context, slug string) (*catalog.Product, error)
	ListProducts(ctx context.Context) ([]*catalog.Product, error)

	Featured(ctx context.Context, limit int) ([]*catalog.Product, error)
	Home(ctx context.Context) (HomeView, error)
	Shop(ctx context.Context, q ShopQuery) (ShopPage, error)
	ProductDetail(ctx context.Context, slug string) (ProductDetail, error)

	AddProductImage(ctx context.Context, slug, filename string, content io.Reader) (*catalog.Product, error)
	ExportProducts(ctx context.Context, w io.Writer) error
}

type catalogService struct {
	log          *logger.Logger
	categoryRepo repos.CategoryRepo
	productRepo  repos.ProductRepo
	reviews      ReviewService
	cache        ProductInvalidator
	images       gcp.ImageStore
}

// NewCatalogService accepts a nil cache and a nil image store; image upload
// then reports unavailable.
func NewCatalogService(
	log *logger.Logger,
	categoryRepo repos.CategoryRepo,
	productRepo repos.ProductRepo,
	reviews ReviewService,
	cache ProductInvalidator,
	images gcp.ImageStore,
) CatalogService {
	return &catalogService{
		log:          log.With("service", "CatalogService"),
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		reviews:      reviews,
		cache:        cache,
		images:       images,
	}
}

func (s *catalogService) CreateCategory(ctx context.Context, in CreateCategoryInput) (*catalog.Category, error) {
	const op = "Catalog.Category.Create"
	dbc := dbctx.Context{Ctx: ctx}
	name := normalization.ParseInputString(in.Name)
	if name == "" {
		return nil, domainagg.Validation(op, "name is required")
	}
	c := &catalog.Category{Name: name, Description: normalization.ParseInputString(in.Description)}
	if parentSlug := normalization.ParseInputString(in.ParentSlug); parentSlug != "" {
		parent, err := s.categoryRepo.GetBySlug(dbc, parentSlug)
		if err != nil {
			return nil, lookupError(op, "parent category", err)
		}
		c.ParentID = &parent.ID
	}
	slug, err := normalization.UniqueSlug(ctx, name, func(ctx context.Context, candidate string) (bool, error) {
		return s.categoryRepo.SlugExists(dbctx.Context{Ctx: ctx}, candidate)
	})
	if err != nil {
		return nil, slugError(op, err)
	}
	c.Slug = slug
	saved, err := s.categoryRepo.Create(dbc, c)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	s.log.Info("Category created", "slug", saved.Slug)
	return saved, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]*catalog.Category, error) {
	list, err := s.categoryRepo.List(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, aggregates.MapError("Catalog.Category.List", err)
	}
	return list, nil
}

func (s *catalogService) CategoryBySlug(ctx context.Context, slug string) (*catalog.Category, error) {
	c, err := s.categoryRepo.GetBySlug(dbctx.Context{Ctx: ctx}, strings.TrimSpace(slug))
	if err != nil {
		return nil, lookupError("Catalog.Category.Get", "category", err)
	}
	return c, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, in CreateProductInput) (*catalog.Product, error) {
	const op = "Catalog.Product.Create"
	dbc := dbctx.Context{Ctx: ctx}
	title := normalization.ParseInputString(in.Title)
	if title == "" {
		return nil, domainagg.Validation(op, "title is required")
	}
	if in.Price.IsNegative() {
		return nil, domainagg.Validation(op, "price must not be negative")
	}
	if in.Price.HasSubCents() {
		return nil, domainagg.Validation(op, "price must have at most two decimal places")
	}
	category, err := s.categoryRepo.GetBySlug(dbc, normalization.ParseInputString(in.CategorySlug))
	if err != nil {
		return nil, lookupError(op, "category", err)
	}
	slug, err := normalization.UniqueSlug(ctx, title, func(ctx context.Context, candidate string) (bool, error) {
		return s.productRepo.SlugExists(dbctx.Context{Ctx: ctx}, candidate)
	})
	if err != nil {
		return nil, slugError(op, err)
	}
	saved, err := s.productRepo.Create(dbc, &catalog.Product{
		Title:       title,
		Slug:        slug,
		CategoryID:  category.ID,
		Price:       in.Price,
		Description: normalization.ParseInputString(in.Description),
		Status:      catalog.ProductActive,
	})
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	s.invalidate(ctx, saved.Slug)
	s.log.Info("Product created", "slug", saved.Slug, "category", category.Slug)
	return saved, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, slug string, in UpdateProductInput) (*catalog.Product, error) {
	const op = "Catalog.Product.Update"
	dbc := dbctx.Context{Ctx: ctx}
	set := bson.M{}
	if in.Title != nil {
		title := normalization.ParseInputString(*in.Title)
		if title == "" {
			return nil, domainagg.Validation(op, "title must not be empty")
		}
		set["title"] = title
	}
	if in.Description != nil {
		set["description"] = normalization.ParseInputString(*in.Description)
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domainagg.Validation(op, "price must not be negative")
		}
		if in.Price.HasSubCents() {
			return nil, domainagg.Validation(op, "price must have at most two decimal places")
		}
		set["price"] = *in.Price
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, domainagg.Validation(op, fmt.Sprintf("unknown status %q", *in.Status))
		}
		set["status"] = *in.Status
	}
	if in.CategorySlug != nil {
		category, err := s.categoryRepo.GetBySlug(dbc, normalization.ParseInputString(*in.CategorySlug))
		if err != nil {
			return nil, lookupError(op, "category", err)
		}
		set["category_id"] = category.ID
	}
	updated, err := s.productRepo.Update(dbc, strings.TrimSpace(slug), set)
	if err != nil {
		return nil, lookupError(op, "product", err)
	}
	s.invalidate(ctx, updated.Slug)
	return updated, nil
}

func (s *catalogService) ProductBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	p, err := s.productRepo.GetBySlug(dbctx.Context{Ctx: ctx}, strings.TrimSpace(slug))
	if err != nil {
		return nil, lookupError("Catalog.Product.Get", "product", err)
	}
	return p, nil
}

func (s *catalogService) ListProducts(ctx context.Context) ([]*catalog.Product, error) {
	list, err := s.productRepo.List(dbctx.Context{Ctx: ctx}, repos.ProductQuery{ActiveOnly: true})
	if err != nil {
		return nil, aggregates.MapError("Catalog.Product.List", err)
	}
	return list, nil
}

// Featured returns the most recently modified active products.
func (s *catalogService) Featured(ctx context.Context, limit int) ([]*catalog.Product, error) {
	if limit <= 0 {
		limit = FeaturedLimit
	}
	list, err := s.productRepo.List(dbctx.Context{Ctx: ctx}, repos.ProductQuery{
		ActiveOnly: true,
		SortField:  "modified_at",
		SortDesc:   true,
		Limit:      int64(limit),
	})
	if err != nil {
		return nil, aggregates.MapError("Catalog.Featured", err)
	}
	return list, nil
}

func (s *catalogService) Home(ctx context.Context) (HomeView, error) {
	featured, err := s.Featured(ctx, FeaturedLimit)
	if err != nil {
		return HomeView{}, err
	}
	categories, err := s.ListCategories(ctx)
	if err != nil {
		return HomeView{}, err
	}
	return HomeView{Featured: featured, Categories: categories}, nil
}

func (s *catalogService) Shop(ctx context.Context, in ShopQuery) (ShopPage, error) {
	const op = "Catalog.Shop"
	dbc := dbctx.Context{Ctx: ctx}

	categories, err := s.categoryRepo.List(dbc)
	if err != nil {
		return ShopPage{}, aggregates.MapError(op, err)
	}
	sort := ParseSort(in.Sort)
	q := repos.ProductQuery{
		Search:     strings.TrimSpace(in.Q),
		ActiveOnly: true,
		SortField:  sort.Field,
		SortDesc:   sort.Desc,
	}
	out := ShopPage{Categories: categories, Query: q.Search, Sort: sort.String()}

	// An unknown category slug lists everything.
	if slug := strings.TrimSpace(in.Category); slug != "" {
		for _, c := range categories {
			if c.Slug == slug {
				id := c.ID
				q.CategoryID = &id
				out.Category = slug
				break
			}
		}
	}

	total, err := s.productRepo.Count(dbc, q)
	if err != nil {
		return ShopPage{}, aggregates.MapError(op, err)
	}
	page := ResolvePage(in.Page, total, ShopPageSize)
	q.Skip = page.Offset()
	q.Limit = ShopPageSize

	products, err := s.productRepo.List(dbc, q)
	if err != nil {
		return ShopPage{}, aggregates.MapError(op, err)
	}
	out.Products = products
	out.Total = total
	out.Page = page.Number
	out.NumPages = page.NumPages
	out.HasNext = page.HasNext()
	out.HasPrevious = page.HasPrevious()
	return out, nil
}

func (s *catalogService) ProductDetail(ctx context.Context, slug string) (ProductDetail, error) {
	const op = "Catalog.ProductDetail"
	dbc := dbctx.Context{Ctx: ctx}
	p, err := s.productRepo.GetBySlug(dbc, strings.TrimSpace(slug))
	if err != nil {
		return ProductDetail{}, lookupError(op, "product", err)
	}
	if !p.IsActive() {
		return ProductDetail{}, domainagg.NotFound(op, "product not found")
	}

	out := ProductDetail{Product: p}
	cats, err := s.categoryRepo.GetByIDs(dbc, []primitive.ObjectID{p.CategoryID})
	if err != nil {
		return ProductDetail{}, aggregates.MapError(op, err)
	}
	if len(cats) > 0 {
		out.Category = &CategoryRef{Name: cats[0].Name, Slug: cats[0].Slug}
	}

	reviews, err := s.reviews.ListForProduct(ctx, p.Slug)
	if err != nil {
		return ProductDetail{}, err
	}
	out.Reviews = reviews

	categoryID, selfID := p.CategoryID, p.ID
	related, err := s.productRepo.List(dbc, repos.ProductQuery{
		CategoryID: &categoryID,
		ExcludeID:  &selfID,
		ActiveOnly: true,
	})
	if err != nil {
		return ProductDetail{}, aggregates.MapError(op, err)
	}
	out.Related = related
	return out, nil
}

func (s *catalogService) AddProductImage(ctx context.Context, slug, filename string, content io.Reader) (*catalog.Product, error) {
	const op = "Catalog.Product.AddImage"
	if s.images == nil {
		return nil, domainagg.Unavailable(op, "image storage not configured")
	}
	if !gcp.IsImageKey(filename) {
		return nil, domainagg.Validation(op, "unsupported image type")
	}
	dbc := dbctx.Context{Ctx: ctx}
	p, err := s.productRepo.GetBySlug(dbc, strings.TrimSpace(slug))
	if err != nil {
		return nil, lookupError(op, "product", err)
	}

	key := ImageKey(p.Slug, filename)
	if err := s.images.Upload(ctx, key, content); err != nil {
		s.log.Error("Image upload failed", "slug", p.Slug, "key", key, "error", err)
		return nil, domainagg.NewError(domainagg.CodeUnavailable, op, "image upload failed", err)
	}
	updated, err := s.productRepo.AppendImage(dbc, p.Slug, s.images.PublicURL(key))
	if err != nil {
		if delErr := s.images.Delete(ctx, key); delErr != nil {
			s.log.Warn("Orphaned image not removed", "key", key, "error", delErr)
		}
		return nil, lookupError(op, "product", err)
	}
	s.invalidate(ctx, p.Slug)
	return updated, nil
}

// ImageKey places uploads under products/<slug>/ with a random name that
// keeps the original extension.
func ImageKey(slug, filename string) string {
	ext := strings.ToLower(path.Ext(strings.TrimSpace(filename)))
	return fmt.Sprintf("products/%s/%s%s", slug, uuid.NewString(), ext)
}

func (s *catalogService) invalidate(ctx context.Context, slugs ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, slugs...); err != nil {
		s.log.Warn("Product cache invalidation failed", "slugs", slugs, "error", err)
	}
}

func lookupError(op, what string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domainagg.NotFound(op, what+" not found")
	}
	return aggregates.MapError(op, err)
}

func slugError(op string, err error) error {
	if errors.Is(err, normalization.ErrEmptySlug) {
		return domainagg.Validation(op, err.Error())
	}
	return aggregates.MapError(op, err)
}
