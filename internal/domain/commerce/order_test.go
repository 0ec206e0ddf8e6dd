package commerce

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/honeyshop-backend/internal/domain/catalog"
)

func TestNewOrderNumber(t *testing.T) {
	now := time.Date(2024, 3, 7, 15, 4, 5, 0, time.UTC)
	id := uuid.MustParse("a1b2c3d4-0000-4000-8000-000000000000")

	got := NewOrderNumber(now, id)
	if got != "ORD-20240307-A1B2C3D4" {
		t.Fatalf("NewOrderNumber: got=%s", got)
	}
	if !ValidOrderNumber(got) {
		t.Fatalf("ValidOrderNumber(%s): want=true", got)
	}
}

func TestValidOrderNumberRejects(t *testing.T) {
	for _, s := range []string{"", "ORD-2024037-A1B2C3D4", "ORD-20240307-a1b2c3d4", "ORX-20240307-A1B2C3D4"} {
		if ValidOrderNumber(s) {
			t.Fatalf("ValidOrderNumber(%q): want=false", s)
		}
	}
}

func TestOrderItemsFromCartSnapshotsPrices(t *testing.T) {
	c := &Cart{Items: []CartItem{{"clover-honey", 2}, {"gone", 1}}}
	items := OrderItemsFromCart(c, seedProducts())
	if len(items) != 2 {
		t.Fatalf("items: want=2 got=%d", len(items))
	}
	if items[0].Title != "Clover Honey" || items[0].UnitPrice.String() != "10.99" {
		t.Fatalf("item 0: got=%+v", items[0])
	}
	if items[1].Quantity != 1 || !items[1].UnitPrice.IsZero() {
		t.Fatalf("item 1: got=%+v", items[1])
	}
}

func TestSummarizeUsesLivePricesAndStoredTotals(t *testing.T) {
	products := seedProducts()
	orders := []*Order{
		{
			OrderNumber: "ORD-20240101-AAAAAAAA",
			Items:       []OrderItem{{ProductSlug: "clover-honey", Quantity: 1, UnitPrice: catalog.MoneyFromFloat(9.99)}},
			TotalAmount: catalog.MoneyFromFloat(20.99),
		},
		{
			OrderNumber: "ORD-20240102-BBBBBBBB",
			Items:       []OrderItem{{ProductSlug: "gone", Title: "Retired Jar", Quantity: 2, UnitPrice: catalog.MoneyFromInt(8)}},
			TotalAmount: catalog.MoneyFromInt(27),
		},
	}

	s := Summarize(orders, products)
	if s.OrderCount != 2 {
		t.Fatalf("OrderCount: want=2 got=%d", s.OrderCount)
	}
	if s.TotalSpend.String() != "47.99" {
		t.Fatalf("TotalSpend: want=47.99 got=%s", s.TotalSpend)
	}
	first := s.Orders[0].Items[0]
	if first.Price.String() != "10.99" || first.PurchasedPrice.String() != "9.99" {
		t.Fatalf("live vs purchased: got=%+v", first)
	}
	second := s.Orders[1].Items[0]
	if second.Available || second.Title != "Retired Jar" {
		t.Fatalf("retired line: got=%+v", second)
	}
}

func TestOrderSlugs(t *testing.T) {
	got := OrderSlugs([]*Order{
		{Items: []OrderItem{{ProductSlug: "a"}, {ProductSlug: "b"}}},
		{Items: []OrderItem{{ProductSlug: "b"}, {ProductSlug: "c"}}},
	})
	if len(got) != 3 {
		t.Fatalf("OrderSlugs: got=%v", got)
	}
}
