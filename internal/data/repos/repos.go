package repos

import (
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/yungbote/honeyshop-backend/internal/data/repos/auth"
	"github.com/yungbote/honeyshop-backend/internal/data/repos/catalog"
	"github.com/yungbote/honeyshop-backend/internal/data/repos/commerce"
	"github.com/yungbote/honeyshop-backend/internal/data/repos/user"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type AddressRepo = user.AddressRepo
type UserTokenRepo = auth.UserTokenRepo

type CategoryRepo = catalog.CategoryRepo
type ProductRepo = catalog.ProductRepo
type ProductQuery = catalog.ProductQuery

type CartRepo = commerce.CartRepo
type OrderRepo = commerce.OrderRepo
type ReviewRepo = commerce.ReviewRepo
type ContactRepo = commerce.ContactRepo

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo { return user.NewUserRepo(db, log) }
func NewAddressRepo(db *gorm.DB, log *logger.Logger) AddressRepo {
	return user.NewAddressRepo(db, log)
}
func NewUserTokenRepo(db *gorm.DB, log *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, log)
}

func NewCategoryRepo(db *mongo.Database, log *logger.Logger) CategoryRepo {
	return catalog.NewCategoryRepo(db, log)
}
func NewProductRepo(db *mongo.Database, log *logger.Logger) ProductRepo {
	return catalog.NewProductRepo(db, log)
}
func NewCartRepo(db *mongo.Database, log *logger.Logger) CartRepo {
	return commerce.NewCartRepo(db, log)
}
func NewOrderRepo(db *mongo.Database, log *logger.Logger) OrderRepo {
	return commerce.NewOrderRepo(db, log)
}
func NewReviewRepo(db *mongo.Database, log *logger.Logger) ReviewRepo {
	return commerce.NewReviewRepo(db, log)
}
func NewContactRepo(db *mongo.Database, log *logger.Logger) ContactRepo {
	return commerce.NewContactRepo(db, log)
}
