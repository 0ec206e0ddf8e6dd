package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/honeyshop-backend/internal/data/repos"
	repotestutil "github.com/yungbote/honeyshop-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/honeyshop-backend/internal/domain/aggregates"
	"github.com/yungbote/honeyshop-backend/internal/platform/ctxutil"
)

type identityFixture struct {
	db    *gorm.DB
	auth  *authService
	users UserService
}

func newIdentityFixture(t *testing.T) *identityFixture {
	t.Helper()
	db := repotestutil.DB(t)
	log := testLogger(t)
	userRepo := repos.NewUserRepo(db, log)
	tokenRepo := repos.NewUserTokenRepo(db, log)
	as := NewAuthService(db, log, userRepo, tokenRepo, "test-secret", 15*time.Minute, 24*time.Hour).(*authService)
	return &identityFixture{db: db, auth: as, users: NewUserService(db, log, userRepo, tokenRepo)}
}

func beekeeper() RegisterInput {
	return RegisterInput{
		Username:  "keeper",
		Email:     " Keeper@Example.com ",
		Password1: "wax-and-comb",
		Password2: "wax-and-comb",
		FirstName: "Ada",
		LastName:  "Hive",
		Phone:     "01234567890",
	}
}

func TestRegisterUser(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()

	u, err := f.auth.RegisterUser(ctx, beekeeper())
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if u.ID == 0 || u.Email != "keeper@example.com" || u.Password == "wax-and-comb" {
		t.Fatalf("registered: id=%d email=%s", u.ID, u.Email)
	}
	if !CheckPassword(u.Password, "wax-and-comb") {
		t.Fatalf("stored hash does not verify")
	}

	dupName := beekeeper()
	dupName.Email = "other@example.com"
	dupEmail := beekeeper()
	dupEmail.Username = "other"
	for _, in := range []RegisterInput{dupName, dupEmail} {
		_, err := f.auth.RegisterUser(ctx, in)
		if !domainagg.IsCode(err, domainagg.CodeConflict) || domainagg.MessageOf(err) != "username or email already exists" {
			t.Fatalf("duplicate %s/%s: want conflict got=%v", in.Username, in.Email, err)
		}
	}
}

func TestRegisterUserValidation(t *testing.T) {
	f := newIdentityFixture(t)
	mismatch := beekeeper()
	mismatch.Password2 = "different"
	badPhone := beekeeper()
	badPhone.Phone = "555-0100"
	noEmail := beekeeper()
	noEmail.Email = ""
	badEmail := beekeeper()
	badEmail.Email = "keeper.example.com"

	cases := []struct {
		name string
		in   RegisterInput
		msg  string
	}{
		{"password mismatch", mismatch, "password and confirm password do not match"},
		{"bad phone", badPhone, "phone must be 11 digits starting with 0"},
		{"missing email", noEmail, "username, email and password are required"},
		{"bad email", badEmail, "invalid email"},
	}
	for _, tc := range cases {
		_, err := f.auth.RegisterUser(context.Background(), tc.in)
		if !domainagg.IsCode(err, domainagg.CodeValidation) || domainagg.MessageOf(err) != tc.msg {
			t.Fatalf("%s: want validation %q got=%v", tc.name, tc.msg, err)
		}
	}
}

func TestLoginVerifyLogout(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()
	u, err := f.auth.RegisterUser(ctx, beekeeper())
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}

	if _, err := f.auth.LoginUser(ctx, "keeper", "wrong"); !domainagg.IsCode(err, domainagg.CodeUnauthorized) {
		t.Fatalf("wrong password: want unauthorized got=%v", err)
	}
	if _, err := f.auth.LoginUser(ctx, "nobody", "wax-and-comb"); domainagg.MessageOf(err) != "invalid username or password" {
		t.Fatalf("unknown user: got=%v", err)
	}

	pair, err := f.auth.LoginUser(ctx, "keeper", "wax-and-comb")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" || pair.ExpiresIn != 900 {
		t.Fatalf("pair: %+v", pair)
	}

	authed, err := f.auth.SetContextFromToken(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := ctxutil.GetRequestData(authed)
	if rd == nil || rd.UserID != u.ID || rd.Username != "keeper" || rd.IsStaff || rd.RefreshToken != pair.RefreshToken {
		t.Fatalf("request data: %+v", rd)
	}

	if err := f.auth.LogoutUser(authed); err != nil {
		t.Fatalf("LogoutUser: %v", err)
	}
	if _, err := f.auth.SetContextFromToken(ctx, pair.AccessToken); domainagg.MessageOf(err) != "token revoked" {
		t.Fatalf("after logout: want token revoked got=%v", err)
	}
	if err := f.auth.LogoutUser(ctx); !domainagg.IsCode(err, domainagg.CodeUnauthorized) {
		t.Fatalf("anonymous logout: want unauthorized got=%v", err)
	}
}

func TestSetContextFromTokenRejectsForgedAndExpired(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()
	if _, err := f.auth.RegisterUser(ctx, beekeeper()); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	pair, err := f.auth.LoginUser(ctx, "keeper", "wax-and-comb")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}

	other := *f.auth
	other.jwtSecretKey = "someone-else"
	if _, err := other.SetContextFromToken(ctx, pair.AccessToken); !domainagg.IsCode(err, domainagg.CodeUnauthorized) {
		t.Fatalf("forged: want unauthorized got=%v", err)
	}

	later := *f.auth
	later.now = func() time.Time { return time.Now().Add(time.Hour) }
	if _, err := later.SetContextFromToken(ctx, pair.AccessToken); domainagg.MessageOf(err) != "invalid or expired token" {
		t.Fatalf("expired: got=%v", err)
	}
	if _, err := f.auth.SetContextFromToken(ctx, ""); domainagg.MessageOf(err) != "missing token" {
		t.Fatalf("empty: got=%v", err)
	}
}

func TestRefreshRotatesTokens(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()
	if _, err := f.auth.RegisterUser(ctx, beekeeper()); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	first, err := f.auth.LoginUser(ctx, "keeper", "wax-and-comb")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}

	second, err := f.auth.RefreshUser(ctx, first.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshUser: %v", err)
	}
	if second.RefreshToken == first.RefreshToken || second.AccessToken == first.AccessToken {
		t.Fatalf("tokens not rotated")
	}
	if _, err := f.auth.RefreshUser(ctx, first.RefreshToken); domainagg.MessageOf(err) != "invalid refresh token" {
		t.Fatalf("reused refresh: got=%v", err)
	}
	if _, err := f.auth.SetContextFromToken(ctx, first.AccessToken); domainagg.MessageOf(err) != "token revoked" {
		t.Fatalf("old access token: got=%v", err)
	}

	expired := *f.auth
	expired.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	if _, err := expired.RefreshUser(ctx, second.RefreshToken); domainagg.MessageOf(err) != "refresh token expired" {
		t.Fatalf("expired refresh: got=%v", err)
	}
	if _, err := f.auth.RefreshUser(ctx, second.RefreshToken); domainagg.MessageOf(err) != "invalid refresh token" {
		t.Fatalf("expired refresh should be deleted: got=%v", err)
	}
}
