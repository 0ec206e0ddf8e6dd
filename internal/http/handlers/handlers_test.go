package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/honeyshop-backend/internal/domain/aggregates"
	"github.com/yungbote/honeyshop-backend/internal/domain/catalog"
	"github.com/yungbote/honeyshop-backend/internal/domain/commerce"
	"github.com/yungbote/honeyshop-backend/internal/domain/user"
	"github.com/yungbote/honeyshop-backend/internal/http/response"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
	"github.com/yungbote/honeyshop-backend/internal/services"
)

func init() { gin.SetMode(gin.TestMode) }

func do(r http.Handler, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.APIError {
	t.Helper()
	var env response.ErrorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error envelope: %v body=%s", err, w.Body.String())
	}
	return env.Error
}

// stubCatalog embeds the interface; unimplemented methods panic.
type stubCatalog struct {
	services.CatalogService
	lastShop   services.ShopQuery
	lastUpdate services.UpdateProductInput
	uploaded   string
	exportErr  error
}

func (s *stubCatalog) Shop(_ context.Context, q services.ShopQuery) (services.ShopPage, error) {
	s.lastShop = q
	return services.ShopPage{Products: []*catalog.Product{}, Page: 2, NumPages: 3, Query: q.Q}, nil
}

func (s *stubCatalog) ProductDetail(_ context.Context, slug string) (services.ProductDetail, error) {
	return services.ProductDetail{}, domainagg.NotFound("Catalog.ProductDetail", "product not found")
}

func (s *stubCatalog) UpdateProduct(_ context.Context, slug string, in services.UpdateProductInput) (*catalog.Product, error) {
	s.lastUpdate = in
	return &catalog.Product{Slug: slug}, nil
}

func (s *stubCatalog) AddProductImage(_ context.Context, slug, filename string, r io.Reader) (*catalog.Product, error) {
	b, _ := io.ReadAll(r)
	s.uploaded = filename + ":" + string(b)
	return &catalog.Product{Slug: slug, Images: []string{"https://cdn.example.com/" + filename}}, nil
}

func (s *stubCatalog) ExportProducts(_ context.Context, w io.Writer) error {
	if s.exportErr != nil {
		return s.exportErr
	}
	_, err := w.Write([]byte("PK-xlsx"))
	return err
}

func catalogRouter(s *stubCatalog) *gin.Engine {
	h := NewCatalogHandler(logger.Nop(), s)
	r := gin.New()
	r.GET("/api/shop", h.Shop)
	r.GET("/api/products/:slug", h.ProductDetail)
	r.PATCH("/api/admin/products/:slug", h.UpdateProduct)
	r.POST("/api/admin/products/:slug/images", h.UploadImage)
	r.GET("/api/admin/products/export", h.ExportProducts)
	return r
}

func TestShopPassesQuery(t *testing.T) {
	s := &stubCatalog{}
	w := do(catalogRouter(s), http.MethodGet, "/api/shop?q=clover&category=raw-honey&sort=-price&page=2", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	want := services.ShopQuery{Q: "clover", Category: "raw-honey", Sort: "-price", Page: "2"}
	if s.lastShop != want {
		t.Fatalf("query=%+v want %+v", s.lastShop, want)
	}
	var page services.ShopPage
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Page != 2 || page.NumPages != 3 || page.Query != "clover" {
		t.Fatalf("page=%+v", page)
	}
}

func TestProductDetailNotFound(t *testing.T) {
	w := do(catalogRouter(&stubCatalog{}), http.MethodGet, "/api/products/nope", nil, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d", w.Code)
	}
	if e := decodeError(t, w); e.Code != "not_found" || e.Message != "product not found" {
		t.Fatalf("error=%+v", e)
	}
}

func TestUpdateProductPartialBody(t *testing.T) {
	s := &stubCatalog{}
	w := do(catalogRouter(s), http.MethodPatch, "/api/admin/products/clover-honey",
		strings.NewReader(`{"price":"14.50","status":"inactive"}`), "application/json")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	in := s.lastUpdate
	if in.Title != nil || in.Description != nil || in.CategorySlug != nil {
		t.Fatalf("absent fields set: %+v", in)
	}
	if in.Price == nil || in.Price.String() != "14.50" || in.Status == nil || *in.Status != catalog.ProductInactive {
		t.Fatalf("update=%+v", in)
	}
}

func TestUpdateProductMalformedBody(t *testing.T) {
	w := do(catalogRouter(&stubCatalog{}), http.MethodPatch, "/api/admin/products/clover-honey",
		strings.NewReader(`{"price":`), "application/json")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
	if e := decodeError(t, w); e.Code != "invalid_request" {
		t.Fatalf("error=%+v", e)
	}
}

func TestUploadImage(t *testing.T) {
	s := &stubCatalog{}
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", "jar.png")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	_, _ = fw.Write([]byte("png-bytes"))
	_ = mw.Close()

	w := do(catalogRouter(s), http.MethodPost, "/api/admin/products/clover-honey/images", &body, mw.FormDataContentType())
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if s.uploaded != "jar.png:png-bytes" {
		t.Fatalf("uploaded=%q", s.uploaded)
	}

	w = do(catalogRouter(s), http.MethodPost, "/api/admin/products/clover-honey/images", strings.NewReader(""), "application/json")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing file: status=%d", w.Code)
	}
}

func TestExportProducts(t *testing.T) {
	w := do(catalogRouter(&stubCatalog{}), http.MethodGet, "/api/admin/products/export", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if got := w.Header().Get("Content-Disposition"); got != "attachment; filename=products.xlsx" {
		t.Fatalf("disposition=%q", got)
	}
	if got := w.Header().Get("Content-Type"); got != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("content-type=%q", got)
	}
	if w.Body.String() != "PK-xlsx" {
		t.Fatalf("body=%q", w.Body.String())
	}

	failing := &stubCatalog{exportErr: domainagg.Unavailable("Catalog.ExportProducts", "mongo down")}
	w = do(catalogRouter(failing), http.MethodGet, "/api/admin/products/export", nil, "")
	if w.Code != http.StatusServiceUnavailable || w.Header().Get("Content-Disposition") != "" {
		t.Fatalf("failed export: status=%d disposition=%q", w.Code, w.Header().Get("Content-Disposition"))
	}
}

type stubReviews struct {
	services.ReviewService
	already bool
}

func (s stubReviews) AddReview(_ context.Context, in services.AddReviewRequest) (services.AddReviewResult, error) {
	if s.already {
		return services.AddReviewResult{AlreadyReviewed: true}, nil
	}
	return services.AddReviewResult{Review: &commerce.ReviewView{Rating: in.Rating, Comment: in.Comment}}, nil
}

func TestReviewAddStatus(t *testing.T) {
	body := `{"product_slug":"clover-honey","rating":5,"comment":"lovely"}`
	for _, tc := range []struct {
		already bool
		status  int
	}{{false, http.StatusCreated}, {true, http.StatusOK}} {
		r := gin.New()
		r.POST("/api/reviews", NewReviewHandler(logger.Nop(), stubReviews{already: tc.already}).Add)
		w := do(r, http.MethodPost, "/api/reviews", strings.NewReader(body), "application/json")
		if w.Code != tc.status {
			t.Fatalf("already=%v status=%d want %d", tc.already, w.Code, tc.status)
		}
		var res services.AddReviewResult
		if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if res.AlreadyReviewed != tc.already {
			t.Fatalf("already_reviewed=%v", res.AlreadyReviewed)
		}
	}
}

type stubCart struct {
	services.CartService
	hadItems bool
}

func (s stubCart) Clear(context.Context) (services.ClearCartView, error) {
	return services.ClearCartView{HadItems: s.hadItems}, nil
}

func TestCartClearMessage(t *testing.T) {
	for _, tc := range []struct {
		hadItems bool
		msg      string
	}{{true, "cart cleared"}, {false, "cart is already empty"}} {
		r := gin.New()
		r.DELETE("/api/cart", NewCartHandler(logger.Nop(), stubCart{hadItems: tc.hadItems}).Clear)
		w := do(r, http.MethodDelete, "/api/cart", nil, "")
		var got struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if w.Code != http.StatusOK || got.Message != tc.msg {
			t.Fatalf("status=%d message=%q want %q", w.Code, got.Message, tc.msg)
		}
	}
}

type stubAddresses struct {
	services.AddressService
	deleted uint
}

func (s *stubAddresses) DeleteAddress(_ context.Context, id uint) error {
	s.deleted = id
	return nil
}

func (s *stubAddresses) SetDefault(_ context.Context, id uint) (*user.Address, error) {
	return nil, domainagg.Forbidden("AddressBook.SetDefault", "address belongs to another user")
}

func TestAddressIDParam(t *testing.T) {
	s := &stubAddresses{}
	h := NewAddressHandler(logger.Nop(), s)
	r := gin.New()
	r.DELETE("/api/addresses/:id", h.Delete)
	r.POST("/api/addresses/:id/default", h.SetDefault)

	if w := do(r, http.MethodDelete, "/api/addresses/abc", nil, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric id: status=%d", w.Code)
	}
	if w := do(r, http.MethodDelete, "/api/addresses/0", nil, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("zero id: status=%d", w.Code)
	}
	if w := do(r, http.MethodDelete, "/api/addresses/7", nil, ""); w.Code != http.StatusOK || s.deleted != 7 {
		t.Fatalf("delete: status=%d deleted=%d", w.Code, s.deleted)
	}
	if w := do(r, http.MethodPost, "/api/addresses/7/default", nil, ""); w.Code != http.StatusForbidden {
		t.Fatalf("set default: status=%d", w.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return io.ErrUnexpectedEOF }

	r := gin.New()
	r.GET("/healthz", NewHealthHandler(map[string]Pinger{"postgres": ok, "mongo": ok}).HealthCheck)
	if w := do(r, http.MethodGet, "/healthz", nil, ""); w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Fatalf("healthy: status=%d body=%q", w.Code, w.Body.String())
	}

	r = gin.New()
	r.GET("/healthz", NewHealthHandler(map[string]Pinger{"postgres": ok, "mongo": down}).HealthCheck)
	w := do(r, http.MethodGet, "/healthz", nil, "")
	if w.Code != http.StatusServiceUnavailable || !strings.Contains(w.Body.String(), "mongo") || strings.Contains(w.Body.String(), "postgres") {
		t.Fatalf("degraded: status=%d body=%s", w.Code, w.Body.String())
	}
}
