package commerce

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contact is a message left through the public contact form.
type Contact struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name    string             `bson:"name" json:"name"`
	Email   string             `bson:"email" json:"email"`
	Phone   string             `bson:"phone" json:"phone"`
	Message string             `bson:"message" json:"message"`
	Date    time.Time          `bson:"date" json:"date"`
}
