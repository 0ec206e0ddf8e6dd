package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionCategories = "categories"
	CollectionProducts   = "products"
	CollectionCarts      = "carts"
	CollectionOrders     = "orders"
	CollectionReviews    = "reviews"
	CollectionContacts   = "contacts"
)

// Indexes lists every index the storefront relies on. The unique ones back
// slug uniqueness, one cart per user, one review per (user, product), and
// order number uniqueness.
func Indexes() map[string][]mongo.IndexModel {
	unique := func(name string) *options.IndexOptions {
		return options.Index().SetUnique(true).SetName(name)
	}
	return map[string][]mongo.IndexModel{
		CollectionCategories: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique("ux_categories_slug")},
		},
		CollectionProducts: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique("ux_products_slug")},
			{Keys: bson.D{{Key: "category_id", Value: 1}, {Key: "title", Value: 1}}, Options: options.Index().SetName("ix_products_category_title")},
		},
		CollectionCarts: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: unique("ux_carts_user")},
		},
		CollectionOrders: {
			{Keys: bson.D{{Key: "order_number", Value: 1}}, Options: unique("ux_orders_number")},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: -1}}, Options: options.Index().SetName("ix_orders_user_date")},
		},
		CollectionReviews: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "product_slug", Value: 1}}, Options: unique("ux_reviews_user_product")},
			{Keys: bson.D{{Key: "product_slug", Value: 1}, {Key: "date", Value: -1}}, Options: options.Index().SetName("ix_reviews_product_date")},
		},
	}
}

func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for coll, models := range Indexes() {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}
