package commerce

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yungbote/honeyshop-backend/internal/domain/catalog"
)

const (
	PaymentPending    = "pending"
	OrderProcessing   = "processing"
	orderNumberPrefix = "ORD"
)

// OrderItem is a cart line frozen at checkout, with the title and unit
// price it was bought at.
type OrderItem struct {
	ProductSlug string        `bson:"product_slug" json:"product_slug"`
	Quantity    int           `bson:"quantity" json:"quantity"`
	Title       string        `bson:"title,omitempty" json:"title,omitempty"`
	UnitPrice   catalog.Money `bson:"unit_price" json:"unit_price"`
}

type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        uint               `bson:"user_id" json:"user_id"`
	Items         []OrderItem        `bson:"items" json:"items"`
	TotalAmount   catalog.Money      `bson:"total_amount" json:"total_amount"`
	PaymentStatus string             `bson:"payment_status" json:"payment_status"`
	OrderStatus   string             `bson:"order_status" json:"order_status"`
	AddressID     uint               `bson:"address_id" json:"address_id"`
	OrderNumber   string             `bson:"order_number" json:"order_number"`
	Date          time.Time          `bson:"date" json:"date"`
}

// NewOrderNumber renders ORD-<YYYYMMDD>-<first 8 chars of id, upper-cased>.
func NewOrderNumber(now time.Time, id uuid.UUID) string {
	return orderNumberPrefix + "-" + now.Format("20060102") + "-" + strings.ToUpper(id.String()[:8])
}

var orderNumberPattern = regexp.MustCompile(`^ORD-\d{8}-[0-9A-F]{8}$`)

func ValidOrderNumber(s string) bool { return orderNumberPattern.MatchString(s) }

// OrderItemsFromCart copies every cart line, snapshotting title and price
// from products where known.
func OrderItemsFromCart(c *Cart, products map[string]*catalog.Product) []OrderItem {
	items := make([]OrderItem, 0, len(c.Items))
	for _, it := range c.Items {
		oi := OrderItem{ProductSlug: it.ProductSlug, Quantity: it.Quantity}
		if p, ok := products[it.ProductSlug]; ok && p != nil {
			oi.Title = p.Title
			oi.UnitPrice = p.Price
		}
		items = append(items, oi)
	}
	return items
}

type OrderLineView struct {
	ProductSlug    string        `json:"product_slug"`
	Title          string        `json:"title"`
	Quantity       int           `json:"quantity"`
	Price          catalog.Money `json:"price"`
	PurchasedPrice catalog.Money `json:"purchased_price"`
	LineTotal      catalog.Money `json:"line_total"`
	Available      bool          `json:"available"`
}

type OrderView struct {
	ID            string          `json:"id"`
	OrderNumber   string          `json:"order_number"`
	Items         []OrderLineView `json:"items"`
	TotalAmount   catalog.Money   `json:"total_amount"`
	PaymentStatus string          `json:"payment_status"`
	OrderStatus   string          `json:"order_status"`
	AddressID     uint            `json:"address_id"`
	Date          time.Time       `json:"date"`
}

type OrderSummary struct {
	Orders     []OrderView   `json:"orders"`
	OrderCount int           `json:"order_count"`
	TotalSpend catalog.Money `json:"total_spend"`
}

// BuildOrderView joins order lines with the current catalog. Price is the
// live price; PurchasedPrice is the checkout snapshot.
func BuildOrderView(o *Order, products map[string]*catalog.Product) OrderView {
	v := OrderView{
		OrderNumber:   o.OrderNumber,
		Items:         make([]OrderLineView, 0, len(o.Items)),
		TotalAmount:   o.TotalAmount,
		PaymentStatus: o.PaymentStatus,
		OrderStatus:   o.OrderStatus,
		AddressID:     o.AddressID,
		Date:          o.Date,
	}
	if !o.ID.IsZero() {
		v.ID = o.ID.Hex()
	}
	for _, it := range o.Items {
		line := OrderLineView{
			ProductSlug:    it.ProductSlug,
			Title:          it.Title,
			Quantity:       it.Quantity,
			PurchasedPrice: it.UnitPrice,
		}
		if p, ok := products[it.ProductSlug]; ok && p != nil {
			line.Title = p.Title
			line.Price = p.Price
			line.LineTotal = p.Price.MulInt(it.Quantity)
			line.Available = true
		}
		v.Items = append(v.Items, line)
	}
	return v
}

// Summarize builds views for orders and sums their stored totals.
func Summarize(orders []*Order, products map[string]*catalog.Product) OrderSummary {
	s := OrderSummary{Orders: make([]OrderView, 0, len(orders))}
	for _, o := range orders {
		s.Orders = append(s.Orders, BuildOrderView(o, products))
		s.TotalSpend = s.TotalSpend.Add(o.TotalAmount)
	}
	s.OrderCount = len(orders)
	return s
}

// OrderSlugs returns the distinct product slugs across orders.
func OrderSlugs(orders []*Order) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, o := range orders {
		for _, it := range o.Items {
			if _, ok := seen[it.ProductSlug]; ok {
				continue
			}
			seen[it.ProductSlug] = struct{}{}
			out = append(out, it.ProductSlug)
		}
	}
	return out
}
