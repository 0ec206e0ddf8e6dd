package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/honeyshop-backend/internal/domain/catalog"
	"github.com/yungbote/honeyshop-backend/internal/http/response"
	"github.com/yungbote/honeyshop-backend/internal/platform/apierr"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
	"github.com/yungbote/honeyshop-backend/internal/services"
)

const maxImageBytes = 8 << 20

type CatalogHandler struct {
	log            *logger.Logger
	catalogService services.CatalogService
}

func NewCatalogHandler(log *logger.Logger, catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{log: log.With("handler", "CatalogHandler"), catalogService: catalogService}
}

// GET /api/home
func (ch *CatalogHandler) Home(c *gin.Context) {
	view, err := ch.catalogService.Home(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, ch.log, err)
		return
	}
	response.RespondOK(c, view)
}

// GET /api/categories
func (ch *CatalogHandler) Categories(c *gin.Context) {
	list, err := ch.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, ch.log, err)
		return
	}
	response.RespondOK(c, gin.H{"categories": list})
}

// GET /api/shop?q=&category=&sort=&page=
func (ch *CatalogHandler) Shop(c *gin.Context) {
	page, err := ch.catalogService.Shop(c.Request.Context(), services.ShopQuery{
		Q:        c.Query("q"),
		Category: c.Query("category"),
		Sort:     c.Query("sort"),
		Page:     c.Query("page"),
	})
	if err != nil {
		response.RespondServiceError(c, ch.log, err)
		return
	}
	response.RespondOK(c, page)
}

// GET /api/products/:slug
func (ch *CatalogHandler) ProductDetail(c *gin.Context) {
	detail, err := ch.catalogService.ProductDetail(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.RespondServiceError(c, ch.log, err)
		return
	}
	response.RespondOK(c, detail)
}

// GET /api/products
func (ch *CatalogHandler) Products(c *gin.Context) {
	list, err := ch.catalogService.ListProducts(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, ch.log, err)
		return
	}
	response.RespondOK(c, gin.H{"products": list})
}

// POST /api/admin/categories
func (ch *CatalogHandler) CreateCategory(c *gin.Context) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		ParentSlug  string `json:"parent_slug"`
	}
	if !bindJSON(c, ch.log, &req) {
		return
	}
	cat, err := ch.catalogService.CreateCategory(c.Request.Context(), services.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		ParentSlug:  req.ParentSlug,
	})
	if err != nil {
		response.RespondServiceError(c, ch.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"category": cat})
}

// POST /api/admin/products
// body: { "title": "...", "category_slug": "raw-honey", "price": "12.99", "description": "..." }
func (ch *CatalogHandler) CreateProduct(c *gin.Context) {
	var req struct {
		Title        string        `json:"title"`
		CategorySlug string        `json:"category_slug"`
		Price        catalog.Money `json:"price"`
		Description  string        `json:"description"`
	}
	if !bindJSON(c, ch.log, &req) {
		return
	}
	p, err := ch.catalogService.CreateProduct(c.Request.Context(), services.CreateProductInput{
		Title:        req.Title,
		CategorySlug: req.CategorySlug,
		Price:        req.Price,
		Description:  req.Description,
	})
	if err != nil {
		response.RespondServiceError(c, ch.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"product": p})
}

// PATCH /api/admin/products/:slug
func (ch *CatalogHandler) UpdateProduct(c *gin.Context) {
	var req struct {
		Title        *string                `json:"title"`
		CategorySlug *string                `json:"category_slug"`
		Price        *catalog.Money         `json:"price"`
		Description  *string                `json:"description"`
		Status       *catalog.ProductStatus `json:"status"`
	}
	if !bindJSON(c, ch.log, &req) {
		return
	}
	p, err := ch.catalogService.UpdateProduct(c.Request.Context(), c.Param("slug"), services.UpdateProductInput{
		Title:        req.Title,
		CategorySlug: req.CategorySlug,
		Price:        req.Price,
		Description:  req.Description,
		Status:       req.Status,
	})
	if err != nil {
		response.RespondServiceError(c, ch.log, err)
		return
	}
	response.RespondOK(c, gin.H{"product": p})
}

// POST /api/admin/products/:slug/images (multipart, field "image")
func (ch *CatalogHandler) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		response.RespondServiceError(c, ch.log, apierr.BadRequest(fmt.Errorf("image file is required: %w", err)))
		return
	}
	if fh.Size > maxImageBytes {
		response.RespondServiceError(c, ch.log, apierr.New(http.StatusRequestEntityTooLarge, "payload_too_large", errors.New("image exceeds 8MB")))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondServiceError(c, ch.log, apierr.BadRequest(fmt.Errorf("unreadable image file: %w", err)))
		return
	}
	defer f.Close()

	p, err := ch.catalogService.AddProductImage(c.Request.Context(), c.Param("slug"), fh.Filename, f)
	if err != nil {
		response.RespondServiceError(c, ch.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"product": p})
}

// GET /api/admin/products/export
func (ch *CatalogHandler) ExportProducts(c *gin.Context) {
	var buf bytes.Buffer
	if err := ch.catalogService.ExportProducts(c.Request.Context(), &buf); err != nil {
		response.RespondServiceError(c, ch.log, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=products.xlsx")
	c.Header("Expires", "0")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
