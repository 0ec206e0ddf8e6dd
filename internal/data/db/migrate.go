package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/honeyshop-backend/internal/domain/auth"
	"github.com/yungbote/honeyshop-backend/internal/domain/user"
)

// SingleDefaultAddressIndex rejects a second default address for one user.
const SingleDefaultAddressIndex = "ux_addresses_single_default"

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		// =========================
		// Core identity + auth
		// =========================
		&user.User{},
		&auth.UserToken{},

		// =========================
		// Address book
		// =========================
		&user.Address{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return EnsureAddressIndexes(db)
}

// EnsureAddressIndexes creates the indexes gorm tags cannot express.
// Partial indexes are understood by both Postgres and SQLite.
func EnsureAddressIndexes(db *gorm.DB) error {
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_addresses_user_listing ON addresses(user_id, is_default, created_at);`).Error; err != nil {
		return fmt.Errorf("create idx_addresses_user_listing: %w", err)
	}
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS ` + SingleDefaultAddressIndex + `
		ON addresses(user_id)
		WHERE is_default
	`).Error; err != nil {
		return fmt.Errorf("create %s: %w", SingleDefaultAddressIndex, err)
	}
	return nil
}
