package catalog

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yungbote/honeyshop-backend/internal/data/repos/testutil"
	"github.com/yungbote/honeyshop-backend/internal/domain/catalog"
	"github.com/yungbote/honeyshop-backend/internal/platform/dbctx"
)

func TestProductQueryFilter(t *testing.T) {
	cat := primitive.NewObjectID()
	f := ProductQuery{Search: " raw (1) ", CategoryID: &cat, ActiveOnly: true}.Filter()

	re, ok := f["title"].(primitive.Regex)
	if !ok {
		t.Fatalf("title filter: want regex got=%T", f["title"])
	}
	if re.Pattern != `raw \(1\)` || re.Options != "i" {
		t.Fatalf("title regex: got=%+v", re)
	}
	if f["category_id"] != cat {
		t.Fatalf("category filter: got=%v", f["category_id"])
	}
	if f["status"] != catalog.ProductActive {
		t.Fatalf("status filter: got=%v", f["status"])
	}
	if len(ProductQuery{}.Filter()) != 0 {
		t.Fatalf("empty query should not filter")
	}
}

func TestProductQuerySort(t *testing.T) {
	got := ProductQuery{}.Sort()
	if got[0].Key != "title" || got[0].Value != 1 {
		t.Fatalf("default sort: got=%v", got)
	}
	got = ProductQuery{SortField: "price", SortDesc: true}.Sort()
	if got[0].Key != "price" || got[0].Value != -1 || got[1].Key != "_id" {
		t.Fatalf("desc sort: got=%v", got)
	}
}

func TestProductRepoIntegration(t *testing.T) {
	db := testutil.Mongo(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	repo := NewProductRepo(db, testutil.Logger(t))
	cats := NewCategoryRepo(db, testutil.Logger(t))

	c, err := cats.Create(dbc, &catalog.Category{Name: "Raw Honey", Slug: "raw-honey"})
	if err != nil {
		t.Fatalf("Create category: %v", err)
	}
	for _, p := range []*catalog.Product{
		{Title: "Clover Raw Honey", Slug: "clover-raw-honey", CategoryID: c.ID, Price: catalog.MoneyFromFloat(10.99)},
		{Title: "Buckwheat Honey", Slug: "buckwheat-honey", CategoryID: c.ID, Price: catalog.MoneyFromFloat(14.5)},
		{Title: "Hidden Jar", Slug: "hidden-jar", CategoryID: c.ID, Price: catalog.MoneyFromInt(3), Status: catalog.ProductInactive},
	} {
		if _, err := repo.Create(dbc, p); err != nil {
			t.Fatalf("Create %s: %v", p.Slug, err)
		}
	}

	if _, err := repo.Create(dbc, &catalog.Product{Title: "dup", Slug: "clover-raw-honey"}); !mongo.IsDuplicateKeyError(err) {
		t.Fatalf("duplicate slug: want duplicate key error got=%v", err)
	}

	got, err := repo.GetBySlug(dbc, "clover-raw-honey")
	if err != nil || got.Price.String() != "10.99" {
		t.Fatalf("GetBySlug: err=%v got=%+v", err, got)
	}

	q := ProductQuery{Search: "HONEY", ActiveOnly: true, SortField: "price", SortDesc: true}
	list, err := repo.List(dbc, q)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Slug != "buckwheat-honey" {
		t.Fatalf("List: got=%d first=%v", len(list), list)
	}
	if n, err := repo.Count(dbc, q); err != nil || n != 2 {
		t.Fatalf("Count: err=%v n=%d", err, n)
	}

	bySlug, err := repo.GetBySlugs(dbc, []string{"clover-raw-honey", "nope"})
	if err != nil || len(bySlug) != 1 {
		t.Fatalf("GetBySlugs: err=%v got=%v", err, bySlug)
	}

	updated, err := repo.Update(dbc, "clover-raw-honey", bson.M{"price": catalog.MoneyFromFloat(11.25), "slug": "ignored"})
	if err != nil || updated.Price.String() != "11.25" || updated.Slug != "clover-raw-honey" {
		t.Fatalf("Update: err=%v got=%+v", err, updated)
	}

	withImg, err := repo.AppendImage(dbc, "clover-raw-honey", "https://cdn.example.com/clover.jpg")
	if err != nil || withImg.FirstImage() != "https://cdn.example.com/clover.jpg" {
		t.Fatalf("AppendImage: err=%v got=%+v", err, withImg)
	}

	if exists, err := cats.SlugExists(dbc, "raw-honey"); err != nil || !exists {
		t.Fatalf("SlugExists: err=%v exists=%v", err, exists)
	}
}
