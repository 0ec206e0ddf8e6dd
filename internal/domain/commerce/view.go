package commerce

import "github.com/yungbote/honeyshop-backend/internal/domain/catalog"

// Pricing holds the flat fees added on top of the cart subtotal.
type Pricing struct {
	Shipping catalog.Money
	Tax      catalog.Money
}

// DefaultPricing is a flat 6 shipping and 5 tax.
var DefaultPricing = Pricing{
	Shipping: catalog.MoneyFromInt(6),
	Tax:      catalog.MoneyFromInt(5),
}

type CartLineView struct {
	ProductSlug string        `json:"product_slug"`
	Title       string        `json:"title"`
	Image       string        `json:"image,omitempty"`
	Quantity    int           `json:"quantity"`
	Price       catalog.Money `json:"price"`
	LineTotal   catalog.Money `json:"line_total"`
	Available   bool          `json:"available"`
}

type CartView struct {
	CartID    string         `json:"cart_id"`
	Items     []CartLineView `json:"items"`
	ItemCount int            `json:"item_count"`
	Subtotal  catalog.Money  `json:"subtotal"`
	Shipping  catalog.Money  `json:"shipping"`
	Tax       catalog.Money  `json:"tax"`
	Total     catalog.Money  `json:"total"`
}

// BuildCartView joins cart lines with current catalog data. The subtotal
// sums every line; unavailable lines are kept in the view at zero.
func BuildCartView(c *Cart, products map[string]*catalog.Product, pricing Pricing) CartView {
	view := CartView{
		Items:    make([]CartLineView, 0, len(c.Items)),
		Shipping: pricing.Shipping,
		Tax:      pricing.Tax,
	}
	if !c.ID.IsZero() {
		view.CartID = c.ID.Hex()
	}
	for _, it := range c.Items {
		line := CartLineView{ProductSlug: it.ProductSlug, Quantity: it.Quantity}
		if p, ok := products[it.ProductSlug]; ok && p != nil {
			line.Title = p.Title
			line.Image = p.FirstImage()
			line.Price = p.Price
			line.LineTotal = p.Price.MulInt(it.Quantity)
			line.Available = true
		}
		view.Subtotal = view.Subtotal.Add(line.LineTotal)
		view.ItemCount += it.Quantity
		view.Items = append(view.Items, line)
	}
	view.Total = view.Subtotal.Add(pricing.Shipping).Add(pricing.Tax)
	return view
}
