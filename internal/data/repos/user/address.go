package user

import (
	"gorm.io/gorm"

	"github.com/yungbote/honeyshop-backend/internal/domain/user"
	"github.com/yungbote/honeyshop-backend/internal/platform/dbctx"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
)

type AddressRepo interface {
	Create(dbc dbctx.Context, addr *user.Address) (*user.Address, error)
	Save(dbc dbctx.Context, addr *user.Address) (*user.Address, error)
	GetOwned(dbc dbctx.Context, userID, addressID uint) (*user.Address, error)
	ListByUser(dbc dbctx.Context, userID uint) ([]*user.Address, error)
	ClearDefaults(dbc dbctx.Context, userID, exceptID uint) (int64, error)
	CountDefaults(dbc dbctx.Context, userID uint) (int64, error)
	DeleteOwned(dbc dbctx.Context, userID, addressID uint) (int64, error)
}

type addressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAddressRepo(db *gorm.DB, baseLog *logger.Logger) AddressRepo {
	repoLog := baseLog.With("repo", "AddressRepo")
	return &addressRepo{db: db, log: repoLog}
}

func (ar *addressRepo) Create(dbc dbctx.Context, addr *user.Address) (*user.Address, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ar.db
	}

	if err := transaction.WithContext(dbc.Ctx).Create(addr).Error; err != nil {
		return nil, err
	}
	return addr, nil
}

func (ar *addressRepo) Save(dbc dbctx.Context, addr *user.Address) (*user.Address, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ar.db
	}

	if err := transaction.WithContext(dbc.Ctx).Save(addr).Error; err != nil {
		return nil, err
	}
	return addr, nil
}

// GetOwned returns the address only when it belongs to userID.
func (ar *addressRepo) GetOwned(dbc dbctx.Context, userID, addressID uint) (*user.Address, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ar.db
	}

	var addr user.Address
	if err := transaction.WithContext(dbc.Ctx).
		Where("id = ? AND user_id = ?", addressID, userID).
		First(&addr).Error; err != nil {
		return nil, err
	}
	return &addr, nil
}

// ListByUser orders the default first, then newest.
func (ar *addressRepo) ListByUser(dbc dbctx.Context, userID uint) ([]*user.Address, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ar.db
	}

	results := []*user.Address{}
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC").
		Order("created_at DESC").
		Order("id DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ClearDefaults unsets the flag on every address of userID except exceptID.
// Pass exceptID 0 to clear all of them.
func (ar *addressRepo) ClearDefaults(dbc dbctx.Context, userID, exceptID uint) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ar.db
	}

	res := transaction.WithContext(dbc.Ctx).
		Model(&user.Address{}).
		Where("user_id = ? AND id <> ? AND is_default = ?", userID, exceptID, true).
		Update("is_default", false)
	return res.RowsAffected, res.Error
}

func (ar *addressRepo) CountDefaults(dbc dbctx.Context, userID uint) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ar.db
	}

	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&user.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (ar *addressRepo) DeleteOwned(dbc dbctx.Context, userID, addressID uint) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ar.db
	}

	res := transaction.WithContext(dbc.Ctx).
		Where("id = ? AND user_id = ?", addressID, userID).
		Delete(&user.Address{})
	return res.RowsAffected, res.Error
}
