package services

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/tealeg/xlsx"

	"github.com/yungbote/honeyshop-backend/internal/data/aggregates"
	"github.com/yungbote/honeyshop-backend/internal/data/repos"
	domainagg "github.com/yungbote/honeyshop-backend/internal/domain/aggregates"
	"github.com/yungbote/honeyshop-backend/internal/platform/dbctx"
)

const ExportSheetName = "Products"

var exportHeaders = []string{
	"ID", "Title", "Slug", "Category", "Price", "Status", "Description", "Images", "ModifiedAt",
}

// ExportProducts writes every product, active or not, as one workbook sheet.
func (s *catalogService) ExportProducts(ctx context.Context, w io.Writer) error {
	const op = "Catalog.Product.Export"
	dbc := dbctx.Context{Ctx: ctx}
	products, err := s.productRepo.List(dbc, repos.ProductQuery{})
	if err != nil {
		return aggregates.MapError(op, err)
	}
	categories, err := s.categoryRepo.List(dbc)
	if err != nil {
		return aggregates.MapError(op, err)
	}
	categorySlugs := make(map[string]string, len(categories))
	for _, c := range categories {
		categorySlugs[c.ID.Hex()] = c.Slug
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet(ExportSheetName)
	if err != nil {
		return domainagg.NewError(domainagg.CodeInternal, op, "failed to create sheet", err)
	}
	header := sheet.AddRow()
	for _, h := range exportHeaders {
		header.AddCell().SetString(h)
	}
	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetString(p.ID.Hex())
		row.AddCell().SetString(p.Title)
		row.AddCell().SetString(p.Slug)
		row.AddCell().SetString(categorySlugs[p.CategoryID.Hex()])
		row.AddCell().SetString(p.Price.String())
		row.AddCell().SetString(string(p.Status))
		row.AddCell().SetString(p.Description)
		row.AddCell().SetString(strings.Join(p.Images, ","))
		row.AddCell().SetString(p.ModifiedAt.UTC().Format(time.RFC3339))
	}
	if err := file.Write(w); err != nil {
		return domainagg.NewError(domainagg.CodeInternal, op, "failed to write workbook", err)
	}
	s.log.Info("Products exported", "count", len(products))
	return nil
}
