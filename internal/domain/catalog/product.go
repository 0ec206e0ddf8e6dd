package catalog

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductStatus string

const (
	ProductActive   ProductStatus = "active"
	ProductInactive ProductStatus = "inactive"
)

func (s ProductStatus) Valid() bool {
	return s == ProductActive || s == ProductInactive
}

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Slug        string             `bson:"slug" json:"slug"`
	CategoryID  primitive.ObjectID `bson:"category_id" json:"category_id"`
	Price       Money              `bson:"price" json:"price"`
	Description string             `bson:"description" json:"description"`
	Images      []string           `bson:"images" json:"images"`
	Status      ProductStatus      `bson:"status" json:"status"`
	ModifiedAt  time.Time          `bson:"modified_at" json:"modified_at"`
}

func (p *Product) IsActive() bool {
	return p != nil && p.Status == ProductActive
}

// FirstImage returns the lead image URL, or "".
func (p *Product) FirstImage() string {
	if p == nil || len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
