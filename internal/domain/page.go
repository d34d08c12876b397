package domain

import (
	"fmt"
	"math"
	"strings"
)

// SortDirection of a single sort key.
type SortDirection string

const (
	Asc  SortDirection = "ASC"
	Desc SortDirection = "DESC"
)

// postSortColumns maps the public property names to column names.
var postSortColumns = map[string]string{
	"id":        "id",
	"title":     "title",
	"author":    "author",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// SortOrder is one "property,direction" pair of a listing request.
type SortOrder struct {
	Property  string
	Direction SortDirection
}

// Column returns the storage column for the property.
func (o SortOrder) Column() string { return postSortColumns[o.Property] }

// DefaultPostSort is applied when a listing carries no sort.
var DefaultPostSort = []SortOrder{{Property: "id", Direction: Desc}}

// ParseSortOrder parses "property" or "property,asc|desc".
func ParseSortOrder(raw string) (SortOrder, error) {
	prop, dir, _ := strings.Cut(strings.TrimSpace(raw), ",")
	prop = strings.TrimSpace(prop)
	if _, ok := postSortColumns[prop]; !ok {
		return SortOrder{}, fmt.Errorf("unsupported sort property: %q", prop)
	}

	order := SortOrder{Property: prop, Direction: Asc}
	switch strings.ToUpper(strings.TrimSpace(dir)) {
	case "", "ASC":
	case "DESC":
		order.Direction = Desc
	default:
		return SortOrder{}, fmt.Errorf("unsupported sort direction: %q", dir)
	}
	return order, nil
}

// PageRequest is a zero-based page request.
type PageRequest struct {
	Page int
	Size int
	Sort []SortOrder
}

// Offset of the first item of the page. Offsets past math.MaxInt saturate,
// such a page is always beyond the end.
func (r PageRequest) Offset() int {
	if r.Page <= 0 || r.Size <= 0 {
		return 0
	}
	if r.Page > math.MaxInt/r.Size {
		return math.MaxInt
	}
	return r.Page * r.Size
}

// Orders returns the requested sort or DefaultPostSort. The id is appended as
// a final tiebreaker so that pages never overlap.
func (r PageRequest) Orders() []SortOrder {
	orders := r.Sort
	if len(orders) == 0 {
		orders = DefaultPostSort
	}
	for _, o := range orders {
		if o.Property == "id" {
			return orders
		}
	}
	out := make([]SortOrder, 0, len(orders)+1)
	out = append(out, orders...)
	return append(out, SortOrder{Property: "id", Direction: Asc})
}

// Page is one slice of a paginated listing.
type Page[T any] struct {
	Items         []T
	TotalElements int64
	TotalPages    int
	Number        int
	Size          int
}

// NewPage computes the page count for total elements.
func NewPage[T any](items []T, total int64, req PageRequest) *Page[T] {
	pages := 0
	if req.Size > 0 {
		pages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:         items,
		TotalElements: total,
		TotalPages:    pages,
		Number:        req.Page,
		Size:          req.Size,
	}
}
