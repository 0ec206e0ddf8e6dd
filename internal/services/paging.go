package services

import (
	"strconv"
	"strings"
)

const ShopPageSize = 4

// Page is a resolved 1-based page over a result set.
type Page struct {
	Number   int
	NumPages int
	Size     int
}

// ResolvePage turns the raw page parameter into a valid page. Non-numeric
// input gives the first page, numbers below 1 clamp to the first page and
// numbers past the end clamp to the last. An empty result has one page.
func ResolvePage(raw string, total int64, size int) Page {
	if size <= 0 {
		size = ShopPageSize
	}
	numPages := 1
	if total > 0 {
		numPages = int((total + int64(size) - 1) / int64(size))
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	switch {
	case err != nil, n < 1:
		n = 1
	case n > numPages:
		n = numPages
	}
	return Page{Number: n, NumPages: numPages, Size: size}
}

func (p Page) Offset() int64 { return int64(p.Number-1) * int64(p.Size) }

func (p Page) HasNext() bool { return p.Number < p.NumPages }

func (p Page) HasPrevious() bool { return p.Number > 1 }

var sortableFields = map[string]bool{
	"title":       true,
	"price":       true,
	"modified_at": true,
}

type SortSpec struct {
	Field string
	Desc  bool
}

// ParseSort accepts title, price or modified_at with an optional "-" for
// descending order. Anything else sorts by title ascending.
func ParseSort(raw string) SortSpec {
	raw = strings.TrimSpace(raw)
	spec := SortSpec{Field: strings.TrimPrefix(raw, "-"), Desc: strings.HasPrefix(raw, "-")}
	if !sortableFields[spec.Field] {
		return SortSpec{Field: "title"}
	}
	return spec
}

func (s SortSpec) String() string {
	if s.Desc {
		return "-" + s.Field
	}
	return s.Field
}
