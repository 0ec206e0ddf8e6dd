package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/honeyshop-backend/internal/domain/auth"
	"github.com/yungbote/honeyshop-backend/internal/platform/dbctx"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
)

// UserTokenRepo stores issued access/refresh token pairs. A row's presence is
// what keeps a signature-valid access token usable.
type UserTokenRepo interface {
	Create(dbc dbctx.Context, userTokens []*auth.UserToken) ([]*auth.UserToken, error)
	GetByUserIDs(dbc dbctx.Context, userIDs []uint) ([]*auth.UserToken, error)
	GetByAccessTokens(dbc dbctx.Context, accessTokens []string) ([]*auth.UserToken, error)
	GetByRefreshTokens(dbc dbctx.Context, refreshTokens []string) ([]*auth.UserToken, error)
	FullDeleteByTokens(dbc dbctx.Context, userTokens []*auth.UserToken) error
	RevokeForUser(dbc dbctx.Context, userID uint, keepAccessToken string) (int64, error)
	DeleteExpired(dbc dbctx.Context, now time.Time, userIDs ...uint) (int64, error)
}

type userTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	repoLog := baseLog.With("repo", "UserTokenRepo")
	return &userTokenRepo{db: db, log: repoLog}
}

func (utr *userTokenRepo) conn(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = utr.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (utr *userTokenRepo) Create(dbc dbctx.Context, userTokens []*auth.UserToken) ([]*auth.UserToken, error) {
	if len(userTokens) == 0 {
		return []*auth.UserToken{}, nil
	}
	if err := utr.conn(dbc).Create(&userTokens).Error; err != nil {
		return nil, err
	}
	return userTokens, nil
}

func findTokens[T any](q *gorm.DB, column string, values []T) ([]*auth.UserToken, error) {
	results := []*auth.UserToken{}
	if len(values) == 0 {
		return results, nil
	}
	if err := q.Where(column+" IN ?", values).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (utr *userTokenRepo) GetByUserIDs(dbc dbctx.Context, userIDs []uint) ([]*auth.UserToken, error) {
	return findTokens(utr.conn(dbc), "user_id", userIDs)
}

func (utr *userTokenRepo) GetByAccessTokens(dbc dbctx.Context, accessTokens []string) ([]*auth.UserToken, error) {
	return findTokens(utr.conn(dbc), "access_token", accessTokens)
}

func (utr *userTokenRepo) GetByRefreshTokens(dbc dbctx.Context, refreshTokens []string) ([]*auth.UserToken, error) {
	return findTokens(utr.conn(dbc), "refresh_token", refreshTokens)
}

func (utr *userTokenRepo) FullDeleteByTokens(dbc dbctx.Context, userTokens []*auth.UserToken) error {
	ids := make([]uuid.UUID, 0, len(userTokens))
	for _, t := range userTokens {
		if t != nil {
			ids = append(ids, t.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return utr.conn(dbc).Where("id IN ?", ids).Delete(&auth.UserToken{}).Error
}

// RevokeForUser deletes every token of userID except the one whose access
// token equals keepAccessToken. An empty keepAccessToken revokes all of them.
func (utr *userTokenRepo) RevokeForUser(dbc dbctx.Context, userID uint, keepAccessToken string) (int64, error) {
	q := utr.conn(dbc).Where("user_id = ?", userID)
	if keepAccessToken != "" {
		q = q.Where("access_token <> ?", keepAccessToken)
	}
	res := q.Delete(&auth.UserToken{})
	return res.RowsAffected, res.Error
}

// DeleteExpired prunes tokens whose refresh window has passed, optionally
// limited to the given users.
func (utr *userTokenRepo) DeleteExpired(dbc dbctx.Context, now time.Time, userIDs ...uint) (int64, error) {
	q := utr.conn(dbc).Where("expires_at <= ?", now)
	if len(userIDs) > 0 {
		q = q.Where("user_id IN ?", userIDs)
	}
	res := q.Delete(&auth.UserToken{})
	if res.Error == nil && res.RowsAffected > 0 {
		utr.log.Debug("Pruned expired tokens", "count", res.RowsAffected)
	}
	return res.RowsAffected, res.Error
}
