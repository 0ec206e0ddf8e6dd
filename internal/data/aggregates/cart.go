package aggregates

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yungbote/honeyshop-backend/internal/data/repos"
	domainagg "github.com/yungbote/honeyshop-backend/internal/domain/aggregates"
	"github.com/yungbote/honeyshop-backend/internal/domain/catalog"
	"github.com/yungbote/honeyshop-backend/internal/domain/commerce"
	"github.com/yungbote/honeyshop-backend/internal/normalization"
	"github.com/yungbote/honeyshop-backend/internal/platform/dbctx"
)

// DefaultCartAttempts bounds the read-merge-write loop under contention.
const DefaultCartAttempts = 3

// ProductLookup resolves live catalog data by slug. The product repo and the
// product cache both satisfy it.
type ProductLookup interface {
	GetBySlugs(dbc dbctx.Context, slugs []string) (map[string]*catalog.Product, error)
}

type CartAggregateDeps struct {
	Base BaseDeps

	Carts    repos.CartRepo
	Products ProductLookup
	Attempts int
}

type cartAggregate struct {
	deps CartAggregateDeps
}

func NewCartAggregate(deps CartAggregateDeps) domainagg.CartAggregate {
	if deps.Base.Runner == nil {
		deps.Base.Runner = NewDirectRunner()
	}
	deps.Base = deps.Base.withDefaults()
	if deps.Attempts <= 0 {
		deps.Attempts = DefaultCartAttempts
	}
	return &cartAggregate{deps: deps}
}

func (a *cartAggregate) Contract() domainagg.Contract {
	return domainagg.CartAggregateContract
}

func (a *cartAggregate) GetOrCreate(ctx context.Context, userID uint) (*commerce.Cart, error) {
	const op = "Commerce.Cart.GetOrCreate"
	if userID == 0 {
		return nil, domainagg.Validation(op, "missing user_id")
	}
	var out *commerce.Cart
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		c, err := a.deps.Carts.GetOrCreate(dbc, userID)
		if err != nil {
			return err
		}
		out = c
		return nil
	})
	return out, err
}

func (a *cartAggregate) AddItem(ctx context.Context, in domainagg.AddCartItemInput) (*commerce.Cart, error) {
	const op = "Commerce.Cart.AddItem"
	slug := normalization.ParseInputString(in.ProductSlug)
	if in.UserID == 0 {
		return nil, domainagg.Validation(op, "missing user_id")
	}
	if slug == "" {
		return nil, domainagg.Validation(op, "missing product_slug")
	}
	if err := RequirePositive(in.Quantity, "quantity"); err != nil {
		return nil, MapError(op, err)
	}

	return a.mutate(ctx, op, in.UserID, func(dbc dbctx.Context, c *commerce.Cart) error {
		found, err := a.deps.Products.GetBySlugs(dbc, []string{slug})
		if err != nil {
			return err
		}
		if p := found[slug]; p == nil || !p.IsActive() {
			return notFound("product")
		}
		c.AddItem(slug, in.Quantity)
		return nil
	})
}

func (a *cartAggregate) RemoveItem(ctx context.Context, in domainagg.RemoveCartItemInput) (*commerce.Cart, error) {
	const op = "Commerce.Cart.RemoveItem"
	slug := normalization.ParseInputString(in.ProductSlug)
	if in.UserID == 0 {
		return nil, domainagg.Validation(op, "missing user_id")
	}
	return a.mutate(ctx, op, in.UserID, func(_ dbctx.Context, c *commerce.Cart) error {
		c.RemoveItem(slug)
		return nil
	})
}

func (a *cartAggregate) Clear(ctx context.Context, userID uint) (domainagg.ClearCartResult, error) {
	const op = "Commerce.Cart.Clear"
	var out domainagg.ClearCartResult
	if userID == 0 {
		return out, domainagg.Validation(op, "missing user_id")
	}
	c, err := a.mutate(ctx, op, userID, func(_ dbctx.Context, c *commerce.Cart) error {
		out.HadItems = c.Clear()
		return nil
	})
	out.Cart = c
	return out, err
}

// mutate loads (or lazily creates) the user's cart, applies change, reprices
// every line from the live catalog and writes back under the version guard.
// A lost race re-reads and re-applies, up to Attempts times.
func (a *cartAggregate) mutate(ctx context.Context, op string, userID uint, change func(dbc dbctx.Context, c *commerce.Cart) error) (*commerce.Cart, error) {
	var out *commerce.Cart
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		for attempt := 1; attempt <= a.deps.Attempts; attempt++ {
			c, err := a.deps.Carts.GetOrCreate(dbc, userID)
			if err != nil {
				return err
			}
			expected := c.Version
			if err := change(dbc, c); err != nil {
				return err
			}
			products, err := a.deps.Products.GetBySlugs(dbc, c.Slugs())
			if err != nil {
				return err
			}
			c.TotalAmount = c.Total(products)

			ok, err := a.deps.Carts.ReplaceIfVersion(dbc, c, expected)
			if errors.Is(err, mongo.ErrNoDocuments) {
				ok, err = false, nil
			}
			if err != nil {
				return err
			}
			if ok {
				out = c
				return nil
			}
			if attempt < a.deps.Attempts {
				a.deps.Base.Hooks.IncRetry(op)
			}
		}
		return RequireCASSuccess(false, "cart was modified concurrently, please retry")
	})
	return out, err
}
