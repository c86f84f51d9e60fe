package recovery

import (
	"github.com/ecole-gestion/backend/internal/types"
	"github.com/ecole-gestion/backend/pkg/models"
	"github.com/google/uuid"
)

// Report is the recovery state of a tranche.
type Report struct {
	Tranche models.Tranche
	Today   types.Date
	Rows    []DebtRow
	Stats   Stats
}

// Unsettled returns the rows that still have an amount to pay.
func (r Report) Unsettled() []DebtRow {
	var rows []DebtRow
	for _, row := range r.Rows {
		if !row.Settled() {
			rows = append(rows, row)
		}
	}
	return rows
}

// Compute builds the debt rows of the students for a tranche.
//
// Only payments for the tranche that are not deleted are counted. Rows are
// returned in the order of the students.
func Compute(tranche models.Tranche, students []models.Student, payments []models.Payment, today types.Date) Report {
	byStudent := map[uuid.UUID][]models.Payment{}
	for _, p := range payments {
		if p.TrancheID == nil || *p.TrancheID != tranche.ID || p.DeletedAt.Valid {
			continue
		}
		byStudent[p.StudentID] = append(byStudent[p.StudentID], p)
	}

	seen := map[uuid.UUID]bool{}
	rows := make([]DebtRow, 0, len(students))
	for _, s := range students {
		if seen[s.ID] {
			continue
		}
		seen[s.ID] = true

		rows = append(rows, newDebtRow(tranche, s, byStudent[s.ID], today))
	}

	return Report{
		Tranche: tranche,
		Today:   today,
		Rows:    rows,
		Stats:   Summarize(rows),
	}
}
