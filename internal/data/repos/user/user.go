package user

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/honeyshop-backend/internal/domain/user"
	"github.com/yungbote/honeyshop-backend/internal/platform/dbctx"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(dbc dbctx.Context, users []*user.User) ([]*user.User, error)
	GetByID(dbc dbctx.Context, userID uint) (*user.User, error)
	GetByIDs(dbc dbctx.Context, userIDs []uint) ([]*user.User, error)
	GetByUsername(dbc dbctx.Context, username string) (*user.User, error)
	UsernameExists(dbc dbctx.Context, username string) (bool, error)
	EmailExists(dbc dbctx.Context, email string) (bool, error)
	UsernamesByIDs(dbc dbctx.Context, userIDs []uint) (map[uint]string, error)
	UpdateProfile(dbc dbctx.Context, userID uint, updates map[string]interface{}) error
	UpdatePassword(dbc dbctx.Context, userID uint, passwordHash string) error
	LockByID(dbc dbctx.Context, userID uint) (*user.User, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) Create(dbc dbctx.Context, users []*user.User) ([]*user.User, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}

	if len(users) == 0 {
		return []*user.User{}, nil
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func (ur *userRepo) GetByID(dbc dbctx.Context, userID uint) (*user.User, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}

	var u user.User
	if err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", userID).
		First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (ur *userRepo) GetByIDs(dbc dbctx.Context, userIDs []uint) ([]*user.User, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}

	var results []*user.User

	if len(userIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(dbc.Ctx).
		Where("id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) GetByUsername(dbc dbctx.Context, username string) (*user.User, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}

	var u user.User
	if err := transaction.WithContext(dbc.Ctx).
		Where("username = ?", strings.TrimSpace(username)).
		First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (ur *userRepo) UsernameExists(dbc dbctx.Context, username string) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}

	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&user.User{}).
		Where("username = ?", strings.TrimSpace(username)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (ur *userRepo) EmailExists(dbc dbctx.Context, email string) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}

	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&user.User{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UsernamesByIDs resolves display names in one query. Unknown ids are absent
// from the result.
func (ur *userRepo) UsernamesByIDs(dbc dbctx.Context, userIDs []uint) (map[uint]string, error) {
	out := make(map[uint]string, len(userIDs))
	users, err := ur.GetByIDs(dbc, userIDs)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u.Username
	}
	return out, nil
}

func (ur *userRepo) UpdateProfile(dbc dbctx.Context, userID uint, updates map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}

	if len(updates) == 0 {
		return nil
	}

	res := transaction.WithContext(dbc.Ctx).
		Model(&user.User{}).
		Where("id = ?", userID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (ur *userRepo) UpdatePassword(dbc dbctx.Context, userID uint, passwordHash string) error {
	return ur.UpdateProfile(dbc, userID, map[string]interface{}{"password": passwordHash})
}

// LockByID takes a row lock on the user for the rest of the transaction.
// Only postgres takes the lock; SQLite serializes writers already.
func (ur *userRepo) LockByID(dbc dbctx.Context, userID uint) (*user.User, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}

	q := transaction.WithContext(dbc.Ctx)
	if q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var u user.User
	if err := q.Where("id = ?", userID).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
