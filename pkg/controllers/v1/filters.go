package v1

import (
	"fmt"

	"github.com/ecole-gestion/backend/internal/types"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// textFilter filters for a substring of a text column. If the parameter is set
// but empty, only rows where the column is empty match.
func textFilter(query *gorm.DB, setFields []string, field, column, value string) *gorm.DB {
	if value != "" {
		return query.Where(fmt.Sprintf("%s LIKE ?", column), fmt.Sprintf("%%%s%%", value))
	}

	if slices.Contains(setFields, field) {
		return query.Where(fmt.Sprintf("%s = ''", column))
	}

	return query
}

// searchFilter matches the search string against all of the columns.
func searchFilter(db, query *gorm.DB, search string, columns ...string) *gorm.DB {
	if search == "" || len(columns) == 0 {
		return query
	}

	pattern := fmt.Sprintf("%%%s%%", search)
	condition := db.Where(fmt.Sprintf("%s LIKE ?", columns[0]), pattern)
	for _, column := range columns[1:] {
		condition = condition.Or(fmt.Sprintf("%s LIKE ?", column), pattern)
	}

	return query.Where(condition)
}

// dateFilter restricts the column to the days between from and until, both inclusive.
// Zero dates do not restrict.
func dateFilter(query *gorm.DB, column string, from, until types.Date) *gorm.DB {
	if !from.IsZero() {
		query = query.Where(fmt.Sprintf("%s >= ?", column), from)
	}

	if !until.IsZero() {
		query = query.Where(fmt.Sprintf("%s <= ?", column), until)
	}

	return query
}
