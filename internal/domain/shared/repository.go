package shared

import "maps"

// DefaultPageSize applies when a listing names no page size
const DefaultPageSize = 20

// Filter selects one page of a listing. Conditions are equality filters
// keyed by name; each repository documents the keys it understands and
// ignores the rest.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]any
}

// DefaultFilter is the first page, newest first
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: DefaultPageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}
}

// Where returns a copy of f with the condition key = value added
func (f Filter) Where(key string, value any) Filter {
	conditions := make(map[string]any, len(f.Filters)+1)
	maps.Copy(conditions, f.Filters)
	conditions[key] = value
	f.Filters = conditions
	return f
}

// Normalize starts paging at 1 and bounds the page size by maxPageSize.
// A zero maxPageSize leaves it unbounded.
func (f Filter) Normalize(maxPageSize int) Filter {
	f.Page = max(f.Page, 1)
	if f.PageSize <= 0 {
		f.PageSize = DefaultPageSize
	}
	if maxPageSize > 0 {
		f.PageSize = min(f.PageSize, maxPageSize)
	}
	return f
}

// Offset is the number of rows before the current page
func (f Filter) Offset() int {
	return max(f.Page-1, 0) * f.PageSize
}
