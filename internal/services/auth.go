package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/honeyshop-backend/internal/data/aggregates"
	"github.com/yungbote/honeyshop-backend/internal/data/repos"
	domainagg "github.com/yungbote/honeyshop-backend/internal/domain/aggregates"
	"github.com/yungbote/honeyshop-backend/internal/domain/auth"
	"github.com/yungbote/honeyshop-backend/internal/domain/user"
	"github.com/yungbote/honeyshop-backend/internal/normalization"
	"github.com/yungbote/honeyshop-backend/internal/platform/ctxutil"
	"github.com/yungbote/honeyshop-backend/internal/platform/dbctx"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
)

type RegisterInput struct {
	Username  string
	Email     string
	Password1 string
	Password2 string
	FirstName string
	LastName  string
	Phone     string
}

// TokenPair is what login and refresh hand back to the client.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}

type AuthService interface {
	RegisterUser(ctx context.Context, in RegisterInput) (*user.User, error)
	LoginUser(ctx context.Context, username, password string) (TokenPair, error)
	RefreshUser(ctx context.Context, refreshToken string) (TokenPair, error)
	LogoutUser(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type JWTClaims struct {
	Username string `json:"username"`
	IsStaff  bool   `json:"staff,omitempty"`
	jwt.RegisteredClaims
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

func (as *authService) RegisterUser(ctx context.Context, in RegisterInput) (*user.User, error) {
	const op = "Identity.Auth.Register"
	u := &user.User{
		Username:  normalization.ParseInputString(in.Username),
		Email:     normalization.Email(in.Email),
		FirstName: normalization.ParseInputString(in.FirstName),
		LastName:  normalization.ParseInputString(in.LastName),
		Phone:     normalization.ParseInputString(in.Phone),
	}
	if u.Username == "" || u.Email == "" || in.Password1 == "" {
		return nil, domainagg.Validation(op, "username, email and password are required")
	}
	if !strings.Contains(u.Email, "@") {
		return nil, domainagg.Validation(op, "invalid email")
	}
	if in.Password1 != in.Password2 {
		return nil, domainagg.Validation(op, "password and confirm password do not match")
	}
	if !user.ValidPhone(u.Phone) {
		return nil, domainagg.Validation(op, "phone must be 11 digits starting with 0")
	}

	hash, err := HashPassword(in.Password1)
	if err != nil {
		return nil, domainagg.NewError(domainagg.CodeInternal, op, "failed to hash password", err)
	}
	u.Password = hash

	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		taken, err := as.userRepo.UsernameExists(dbc, u.Username)
		if err != nil {
			return err
		}
		if !taken {
			taken, err = as.userRepo.EmailExists(dbc, u.Email)
			if err != nil {
				return err
			}
		}
		if taken {
			return aggregates.ConflictError("username or email already exists")
		}
		if _, err := as.userRepo.Create(dbc, []*user.User{u}); err != nil {
			if aggregates.IsUniqueViolation(err) {
				return aggregates.ConflictError("username or email already exists")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	as.log.Info("User registered", "user_id", u.ID)
	return u, nil
}

func (as *authService) LoginUser(ctx context.Context, username, password string) (TokenPair, error) {
	const op = "Identity.Auth.Login"
	username = normalization.ParseInputString(username)
	if username == "" || password == "" {
		return TokenPair{}, domainagg.Validation(op, "username and password are required")
	}

	u, err := as.userRepo.GetByUsername(dbctx.Context{Ctx: ctx}, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return TokenPair{}, domainagg.Unauthorized(op, "invalid username or password")
	}
	if err != nil {
		return TokenPair{}, aggregates.MapError(op, err)
	}
	if !CheckPassword(u.Password, password) {
		return TokenPair{}, domainagg.Unauthorized(op, "invalid username or password")
	}

	var pair TokenPair
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := as.userTokenRepo.DeleteExpired(dbc, as.now(), u.ID); err != nil {
			return err
		}
		issued, err := as.issueTokens(dbc, u)
		if err != nil {
			return err
		}
		pair = issued
		return nil
	})
	if err != nil {
		return TokenPair{}, aggregates.MapError(op, err)
	}
	return pair, nil
}

// RefreshUser rotates a refresh token: the old pair is revoked and a new
// pair issued in the same transaction.
func (as *authService) RefreshUser(ctx context.Context, refreshToken string) (TokenPair, error) {
	const op = "Identity.Auth.Refresh"
	refreshToken = normalization.ParseInputString(refreshToken)
	if refreshToken == "" {
		return TokenPair{}, domainagg.Unauthorized(op, "missing refresh token")
	}

	var pair TokenPair
	expired := false
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		found, err := as.userTokenRepo.GetByRefreshTokens(dbc, []string{refreshToken})
		if err != nil {
			return err
		}
		if len(found) == 0 || found[0] == nil {
			return domainagg.Unauthorized(op, "invalid refresh token")
		}
		existing := found[0]
		if existing.Expired(as.now()) {
			// Commit the delete; the caller still gets unauthorized.
			expired = true
			return as.userTokenRepo.FullDeleteByTokens(dbc, []*auth.UserToken{existing})
		}
		u, err := as.userRepo.GetByID(dbc, existing.UserID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainagg.Unauthorized(op, "no user for refresh token")
		}
		if err != nil {
			return err
		}
		issued, err := as.issueTokens(dbc, u)
		if err != nil {
			return err
		}
		if err := as.userTokenRepo.FullDeleteByTokens(dbc, []*auth.UserToken{existing}); err != nil {
			return err
		}
		pair = issued
		return nil
	})
	if err != nil {
		return TokenPair{}, aggregates.MapError(op, err)
	}
	if expired {
		return TokenPair{}, domainagg.Unauthorized(op, "refresh token expired")
	}
	return pair, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
	const op = "Identity.Auth.Logout"
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.TokenString == "" {
		as.log.Warn("Logout without request data")
		return domainagg.Unauthorized(op, "not logged in")
	}
	return aggregates.MapError(op, as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		found, err := as.userTokenRepo.GetByAccessTokens(dbc, []string{rd.TokenString})
		if err != nil {
			return err
		}
		if len(found) == 0 {
			return nil
		}
		return as.userTokenRepo.FullDeleteByTokens(dbc, found)
	}))
}

// SetContextFromToken validates the bearer token and attaches the caller to
// ctx. A signature-valid token that was revoked by logout or refresh is
// rejected.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	const op = "Identity.Auth.Verify"
	if tokenString == "" {
		return ctx, domainagg.Unauthorized(op, "missing token")
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithTimeFunc(as.now))
	if err != nil {
		return ctx, domainagg.NewError(domainagg.CodeUnauthorized, op, "invalid or expired token", err)
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, domainagg.Unauthorized(op, "invalid or expired token")
	}
	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return ctx, domainagg.Unauthorized(op, "invalid user id in token")
	}

	found, err := as.userTokenRepo.GetByAccessTokens(dbctx.Context{Ctx: ctx}, []string{tokenString})
	if err != nil {
		as.log.Warn("Error fetching user token by access token", "error", err)
		return ctx, aggregates.MapError(op, err)
	}
	if len(found) == 0 {
		return ctx, domainagg.Unauthorized(op, "token revoked")
	}

	rd := &ctxutil.RequestData{
		TokenString:  tokenString,
		RefreshToken: found[0].RefreshToken,
		UserID:       uint(userID),
		Username:     claims.Username,
		IsStaff:      claims.IsStaff,
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}

func (as *authService) issueTokens(dbc dbctx.Context, u *user.User) (TokenPair, error) {
	access, err := as.generateAccessToken(u)
	if err != nil {
		return TokenPair{}, fmt.Errorf("generate access token: %w", err)
	}
	token := &auth.UserToken{
		ID:           uuid.New(),
		UserID:       u.ID,
		AccessToken:  access,
		RefreshToken: uuid.New().String(),
		ExpiresAt:    as.now().Add(as.refreshTTL),
	}
	if _, err := as.userTokenRepo.Create(dbc, []*auth.UserToken{token}); err != nil {
		as.log.Warn("Create User Token Error", "error", err)
		return TokenPair{}, fmt.Errorf("create user token: %w", err)
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: token.RefreshToken,
		ExpiresIn:    int(as.accessTTL.Seconds()),
	}, nil
}

func (as *authService) generateAccessToken(u *user.User) (string, error) {
	now := as.now()
	claims := JWTClaims{
		Username: u.Username,
		IsStaff:  u.IsStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(u.ID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}
