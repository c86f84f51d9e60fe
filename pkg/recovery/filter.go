package recovery

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// StudentFilter restricts the students that debt rows are computed for.
//
// StudentIDs, ClassName and Search restrict the roster. Status is applied
// to the computed rows, so the statistics only cover matching rows.
type StudentFilter struct {
	StudentIDs []uuid.UUID
	ClassName  string
	Search     string // Matched against matricule, first and last name
	Status     []string
}

// apply adds the roster restrictions to a query on students.
func (f StudentFilter) apply(query *gorm.DB) *gorm.DB {
	if len(f.StudentIDs) > 0 {
		query = query.Where("students.id IN ?", f.StudentIDs)
	}

	if f.ClassName != "" {
		query = query.Where("students.class_name = ?", f.ClassName)
	}

	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := fmt.Sprintf("%%%s%%", strings.ToLower(search))
		query = query.Where("LOWER(students.matricule) LIKE ? OR LOWER(students.first_name) LIKE ? OR LOWER(students.last_name) LIKE ?", pattern, pattern, pattern)
	}

	return query
}

// keep reports if a computed row matches the status restriction.
func (f StudentFilter) keep(row DebtRow) bool {
	return len(f.Status) == 0 || slices.Contains(f.Status, row.Status)
}

// filterRows removes the rows not matching the status restriction.
func (f StudentFilter) filterRows(rows []DebtRow) []DebtRow {
	if len(f.Status) == 0 {
		return rows
	}

	filtered := make([]DebtRow, 0, len(rows))
	for _, row := range rows {
		if f.keep(row) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}
