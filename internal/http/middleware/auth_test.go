package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/honeyshop-backend/internal/domain/aggregates"
	"github.com/yungbote/honeyshop-backend/internal/http/response"
	"github.com/yungbote/honeyshop-backend/internal/platform/ctxutil"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
)

type stubVerifier struct {
	tokens map[string]*ctxutil.RequestData
	err    error
}

func (s stubVerifier) SetContextFromToken(ctx context.Context, token string) (context.Context, error) {
	if s.err != nil {
		return ctx, s.err
	}
	rd, ok := s.tokens[token]
	if !ok {
		return ctx, domainagg.Unauthorized("verify", "token revoked")
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func authRouter(v TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	am := NewAuthMiddleware(logger.Nop(), v)
	r := gin.New()
	r.GET("/api/me", am.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": ctxutil.UserID(c.Request.Context())})
	})
	r.POST("/api/admin/products", am.RequireAuth(), am.RequireStaff(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return r
}

func call(r *gin.Engine, method, path, token string) (*httptest.ResponseRecorder, response.ErrorEnvelope) {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var env response.ErrorEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestRequireAuth(t *testing.T) {
	r := authRouter(stubVerifier{tokens: map[string]*ctxutil.RequestData{
		"good": {UserID: 7, Username: "keeper"},
	}})

	rec, env := call(r, http.MethodGet, "/api/me", "")
	if rec.Code != http.StatusUnauthorized || env.Error.Message != "missing or invalid token" {
		t.Fatalf("no token: status=%d msg=%q", rec.Code, env.Error.Message)
	}
	rec, env = call(r, http.MethodGet, "/api/me", "stale")
	if rec.Code != http.StatusUnauthorized || env.Error.Message != "token revoked" || env.Error.Code != "unauthorized" {
		t.Fatalf("revoked: status=%d env=%+v", rec.Code, env)
	}
	rec, _ = call(r, http.MethodGet, "/api/me", "good")
	if rec.Code != http.StatusOK || rec.Body.String() != `{"user_id":7}` {
		t.Fatalf("good token: status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestRequireAuthStoreOutage(t *testing.T) {
	r := authRouter(stubVerifier{err: domainagg.Unavailable("verify", "identity store unavailable")})
	rec, env := call(r, http.MethodGet, "/api/me", "any")
	if rec.Code != http.StatusServiceUnavailable || env.Error.Code != "unavailable" {
		t.Fatalf("outage: status=%d env=%+v", rec.Code, env)
	}
}

func TestRequireStaff(t *testing.T) {
	r := authRouter(stubVerifier{tokens: map[string]*ctxutil.RequestData{
		"shopper": {UserID: 7},
		"staff":   {UserID: 1, IsStaff: true},
	}})
	rec, env := call(r, http.MethodPost, "/api/admin/products", "shopper")
	if rec.Code != http.StatusForbidden || env.Error.Message != "staff only" {
		t.Fatalf("shopper: status=%d env=%+v", rec.Code, env)
	}
	rec, _ = call(r, http.MethodPost, "/api/admin/products", "staff")
	if rec.Code != http.StatusCreated {
		t.Fatalf("staff: status=%d", rec.Code)
	}
}
