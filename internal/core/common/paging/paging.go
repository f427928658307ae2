package paging

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Filter is the common list query accepted by every collection endpoint.
type Filter struct {
	SearchTerm     string     `json:"searchTerm,omitempty"`
	PageNumber     int        `json:"pageNumber"`
	PageSize       int        `json:"pageSize"`
	SortBy         string     `json:"sortBy,omitempty"`
	SortDescending bool       `json:"sortDescending"`
	DateFrom       *time.Time `json:"dateFrom,omitempty"`
	DateTo         *time.Time `json:"dateTo,omitempty"`
}

// Normalize clamps the page number to at least 1 and the page size to [1, 100].
func (f Filter) Normalize() Filter {
	if f.PageNumber < 1 {
		f.PageNumber = 1
	}
	if f.PageSize == 0 {
		f.PageSize = DefaultPageSize
	}
	f.PageSize = min(max(f.PageSize, 1), MaxPageSize)
	f.SearchTerm = strings.TrimSpace(f.SearchTerm)
	return f
}

func (f Filter) Offset() int {
	return (f.PageNumber - 1) * f.PageSize
}

// FromRequest reads the filter from query parameters; malformed values fall
// back to their defaults.
func FromRequest(r *http.Request) Filter {
	q := r.URL.Query()

	f := Filter{
		SearchTerm: q.Get("searchTerm"),
		SortBy:     q.Get("sortBy"),
		PageNumber: 1,
		PageSize:   DefaultPageSize,
	}

	if v, err := strconv.Atoi(q.Get("pageNumber")); err == nil {
		f.PageNumber = v
	}
	if v, err := strconv.Atoi(q.Get("pageSize")); err == nil {
		f.PageSize = v
		if v == 0 {
			f.PageSize = 1
		}
	}
	if v, err := strconv.ParseBool(q.Get("sortDescending")); err == nil {
		f.SortDescending = v
	}
	f.DateFrom = parseDate(q.Get("dateFrom"))
	f.DateTo = parseDate(q.Get("dateTo"))

	return f.Normalize()
}

func parseDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// Result is one page of items plus navigation metadata.
type Result[T any] struct {
	Items           []T   `json:"items"`
	TotalCount      int64 `json:"totalCount"`
	PageNumber      int   `json:"pageNumber"`
	PageSize        int   `json:"pageSize"`
	TotalPages      int   `json:"totalPages"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
	HasNextPage     bool  `json:"hasNextPage"`
}

func NewResult[T any](items []T, total int64, f Filter) Result[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if f.PageSize > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(f.PageSize)))
	}
	return Result[T]{
		Items:           items,
		TotalCount:      total,
		PageNumber:      f.PageNumber,
		PageSize:        f.PageSize,
		TotalPages:      totalPages,
		HasPreviousPage: f.PageNumber > 1,
		HasNextPage:     f.PageNumber < totalPages,
	}
}

// Map converts the items of a page while keeping its metadata.
func Map[T, U any](page Result[T], fn func(T) U) Result[U] {
	items := make([]U, len(page.Items))
	for i, item := range page.Items {
		items[i] = fn(item)
	}
	return Result[U]{
		Items:           items,
		TotalCount:      page.TotalCount,
		PageNumber:      page.PageNumber,
		PageSize:        page.PageSize,
		TotalPages:      page.TotalPages,
		HasPreviousPage: page.HasPreviousPage,
		HasNextPage:     page.HasNextPage,
	}
}

// Sorting maps public sortBy keys to columns. Unknown keys use the default column.
type Sorting struct {
	Columns map[string]string
	Default string
}

func (s Sorting) Order(f Filter) string {
	column, ok := s.Columns[strings.ToLower(f.SortBy)]
	if !ok {
		column = s.Default
	}
	if f.SortDescending {
		return fmt.Sprintf("%s DESC", column)
	}
	return fmt.Sprintf("%s ASC", column)
}

// DateRange restricts column to [DateFrom, DateTo].
func DateRange(f Filter, column string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.DateFrom != nil {
			db = db.Where(column+" >= ?", *f.DateFrom)
		}
		if f.DateTo != nil {
			db = db.Where(column+" <= ?", *f.DateTo)
		}
		return db
	}
}

// Search matches the search term against any of the columns, case-insensitively.
func Search(f Filter, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.SearchTerm == "" || len(columns) == 0 {
			return db
		}
		term := "%" + strings.ToLower(f.SearchTerm) + "%"
		clauses := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, c := range columns {
			clauses[i] = fmt.Sprintf("LOWER(%s) LIKE ?", c)
			args[i] = term
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}

// Page applies ordering, limit and offset.
func Page(f Filter, s Sorting) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(s.Order(f)).Limit(f.PageSize).Offset(f.Offset())
	}
}
