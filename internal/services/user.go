package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/honeyshop-backend/internal/data/aggregates"
	"github.com/yungbote/honeyshop-backend/internal/data/repos"
	domainagg "github.com/yungbote/honeyshop-backend/internal/domain/aggregates"
	"github.com/yungbote/honeyshop-backend/internal/domain/user"
	"github.com/yungbote/honeyshop-backend/internal/normalization"
	"github.com/yungbote/honeyshop-backend/internal/platform/ctxutil"
	"github.com/yungbote/honeyshop-backend/internal/platform/dbctx"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
)

// UpdateProfileInput holds optional profile fields; nil keeps the stored value.
type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
}

type ChangePasswordInput struct {
	OldPassword  string
	NewPassword1 string
	NewPassword2 string
}

type UserService interface {
	GetMe(ctx context.Context) (*user.User, error)
	UpdateProfile(ctx context.Context, in UpdateProfileInput) (*user.User, error)
	ChangePassword(ctx context.Context, in ChangePasswordInput) error
}

type userService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, userTokenRepo repos.UserTokenRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
	}
}

// requireUser returns the authenticated caller's id.
func requireUser(ctx context.Context, op string) (uint, error) {
	id := ctxutil.UserID(ctx)
	if id == 0 {
		return 0, domainagg.Unauthorized(op, "authentication required")
	}
	return id, nil
}

func (us *userService) GetMe(ctx context.Context) (*user.User, error) {
	const op = "Identity.User.GetMe"
	userID, err := requireUser(ctx, op)
	if err != nil {
		us.log.Warn("Request data not set in context")
		return nil, err
	}
	u, err := us.userRepo.GetByID(dbctx.Context{Ctx: ctx}, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainagg.NotFound(op, "user not found")
	}
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	return u, nil
}

func (us *userService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*user.User, error) {
	const op = "Identity.User.UpdateProfile"
	userID, err := requireUser(ctx, op)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if v := normalization.ParseInputStringPtr(in.FirstName); v != nil {
		updates["first_name"] = *v
	}
	if v := normalization.ParseInputStringPtr(in.LastName); v != nil {
		updates["last_name"] = *v
	}
	if v := normalization.ParseInputStringPtr(in.Phone); v != nil {
		if !user.ValidPhone(*v) {
			return nil, domainagg.Validation(op, "phone must be 11 digits starting with 0")
		}
		updates["phone"] = *v
	}

	dbc := dbctx.Context{Ctx: ctx}
	if len(updates) > 0 {
		if err := us.userRepo.UpdateProfile(dbc, userID, updates); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domainagg.NotFound(op, "user not found")
			}
			return nil, aggregates.MapError(op, err)
		}
	}
	u, err := us.userRepo.GetByID(dbc, userID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	return u, nil
}

func (us *userService) ChangePassword(ctx context.Context, in ChangePasswordInput) error {
	const op = "Identity.User.ChangePassword"
	userID, err := requireUser(ctx, op)
	if err != nil {
		return err
	}
	if in.NewPassword1 == "" {
		return domainagg.Validation(op, "new password is required")
	}
	if in.NewPassword1 != in.NewPassword2 {
		return domainagg.Validation(op, "new passwords do not match")
	}

	return aggregates.MapError(op, us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		u, err := us.userRepo.LockByID(dbc, userID)
		if err != nil {
			return err
		}
		if !CheckPassword(u.Password, in.OldPassword) {
			return aggregates.ValidationError("current password is incorrect")
		}
		hash, err := HashPassword(in.NewPassword1)
		if err != nil {
			return err
		}
		if err := us.userRepo.UpdatePassword(dbc, userID, hash); err != nil {
			return err
		}
		// Every other session is signed out; the caller's token survives.
		var keep string
		if rd := ctxutil.GetRequestData(ctx); rd != nil {
			keep = rd.TokenString
		}
		revoked, err := us.userTokenRepo.RevokeForUser(dbc, userID, keep)
		if err != nil {
			return err
		}
		us.log.Info("Password changed", "user_id", userID, "revoked_sessions", revoked)
		return nil
	}))
}
