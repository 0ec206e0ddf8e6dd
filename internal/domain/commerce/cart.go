package commerce

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yungbote/honeyshop-backend/internal/domain/catalog"
)

type CartItem struct {
	ProductSlug string `bson:"product_slug" json:"product_slug"`
	Quantity    int    `bson:"quantity" json:"quantity"`
}

// Cart is one user's pending purchase. Lines reference products by slug;
// TotalAmount is derived from live catalog prices on every mutation.
type Cart struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      uint               `bson:"user_id" json:"user_id"`
	Items       []CartItem         `bson:"items" json:"items"`
	TotalAmount catalog.Money      `bson:"total_amount" json:"total_amount"`
	Version     int64              `bson:"version" json:"-"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// AddItem merges qty into an existing line for slug or appends a new line.
func (c *Cart) AddItem(slug string, qty int) {
	for i := range c.Items {
		if c.Items[i].ProductSlug == slug {
			c.Items[i].Quantity += qty
			return
		}
	}
	c.Items = append(c.Items, CartItem{ProductSlug: slug, Quantity: qty})
}

// RemoveItem drops the line for slug, reporting whether one existed.
func (c *Cart) RemoveItem(slug string) bool {
	for i := range c.Items {
		if c.Items[i].ProductSlug == slug {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the cart, reporting whether it had any lines.
func (c *Cart) Clear() bool {
	had := len(c.Items) > 0
	c.Items = []CartItem{}
	c.TotalAmount = catalog.Money{}
	return had
}

func (c *Cart) IsEmpty() bool { return len(c.Items) == 0 }

// Slugs returns the distinct product slugs referenced by the cart.
func (c *Cart) Slugs() []string {
	out := make([]string, 0, len(c.Items))
	seen := make(map[string]struct{}, len(c.Items))
	for _, it := range c.Items {
		if _, ok := seen[it.ProductSlug]; ok {
			continue
		}
		seen[it.ProductSlug] = struct{}{}
		out = append(out, it.ProductSlug)
	}
	return out
}

// Total prices every line against products. Lines whose product is
// missing contribute zero.
func (c *Cart) Total(products map[string]*catalog.Product) catalog.Money {
	var total catalog.Money
	for _, it := range c.Items {
		p, ok := products[it.ProductSlug]
		if !ok || p == nil {
			continue
		}
		total = total.Add(p.Price.MulInt(it.Quantity))
	}
	return total
}
