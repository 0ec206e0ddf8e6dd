package testutil

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/honeyshop-backend/internal/domain/user"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, username string) *user.User {
	tb.Helper()
	u := &user.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedAddress(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uint, label string, isDefault bool) *user.Address {
	tb.Helper()
	a := &user.Address{
		UserID:     userID,
		Label:      label,
		Street:     "12 Apiary Rd",
		City:       "Austin",
		State:      "TX",
		Country:    user.DefaultCountry,
		PostalCode: "78701",
		IsDefault:  isDefault,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed address: %v", err)
	}
	return a
}
