package persistence

import (
	"errors"
	"strings"

	"github.com/assetdesk/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// notFoundAs maps gorm.ErrRecordNotFound to a NOT_FOUND domain error for the resource
func notFoundAs(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewNotFoundError(resource)
	}
	return err
}

// likePattern builds a case-insensitive LIKE pattern. Matching uses
// LOWER(column) LIKE ? ESCAPE '\' so it works on both PostgreSQL and SQLite.
func likePattern(search string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(search))
	return "%" + escaped + "%"
}

// applySearch adds an OR of LOWER(col) LIKE ? over the columns
func applySearch(query *gorm.DB, search string, columns ...string) *gorm.DB {
	search = strings.TrimSpace(search)
	if search == "" || len(columns) == 0 {
		return query
	}
	pattern := likePattern(search)
	clauses := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		clauses[i] = "LOWER(" + col + ") LIKE ? ESCAPE '\\'"
		args[i] = pattern
	}
	return query.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

// applyPageAndOrder applies whitelisted ordering and pagination
func applyPageAndOrder(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultOrder string) *gorm.DB {
	if sortField := ValidateSortField(filter.OrderBy, allowed, ""); sortField != "" {
		query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order(defaultOrder)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}
