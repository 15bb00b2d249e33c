package persistence

import (
	"errors"
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// applyPage applies LIMIT/OFFSET when the filter asks for a page
func applyPage(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// applyOrder orders by filter.OrderBy when it is one of the sortable columns,
// falling back to fallback. Column names never come from the request verbatim.
func applyOrder(query *gorm.DB, filter shared.Filter, sortable map[string]string, fallback string) *gorm.DB {
	column, ok := sortable[filter.OrderBy]
	if !ok {
		return query.Order(fallback)
	}
	dir := "ASC"
	if strings.EqualFold(filter.OrderDir, "desc") {
		dir = "DESC"
	}
	return query.Order(column + " " + dir)
}

// translateError maps gorm errors onto domain errors
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	default:
		return err
	}
}
