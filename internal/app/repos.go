package app

import (
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/yungbote/honeyshop-backend/internal/data/repos"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
)

type Repos struct {
	// Identity store
	User      repos.UserRepo
	UserToken repos.UserTokenRepo
	Address   repos.AddressRepo

	// Catalog / commerce store
	Category repos.CategoryRepo
	Product  repos.ProductRepo
	Cart     repos.CartRepo
	Order    repos.OrderRepo
	Review   repos.ReviewRepo
	Contact  repos.ContactRepo
}

func wireRepos(db *gorm.DB, mdb *mongo.Database, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:      repos.NewUserRepo(db, log),
		UserToken: repos.NewUserTokenRepo(db, log),
		Address:   repos.NewAddressRepo(db, log),

		Category: repos.NewCategoryRepo(mdb, log),
		Product:  repos.NewProductRepo(mdb, log),
		Cart:     repos.NewCartRepo(mdb, log),
		Order:    repos.NewOrderRepo(mdb, log),
		Review:   repos.NewReviewRepo(mdb, log),
		Contact:  repos.NewContactRepo(mdb, log),
	}
}
