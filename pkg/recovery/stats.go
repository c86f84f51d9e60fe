package recovery

import (
	"github.com/shopspring/decimal"
)

// Stats are the rollups over a set of debt rows.
type Stats struct {
	TotalDue       decimal.Decimal
	TotalPaid      decimal.Decimal
	TotalRemaining decimal.Decimal
	RecoveryRate   decimal.Decimal // Percentage of TotalDue that has been paid
	StudentCount   int
	RowCount       int
	StatusCounts   map[string]int
}

// Summarize computes the rollups for the rows.
//
// StudentCount counts distinct students, so a student with rows for several
// tranches is counted once.
func Summarize(rows []DebtRow) Stats {
	stats := Stats{
		TotalDue:     decimal.Zero,
		TotalPaid:    decimal.Zero,
		RowCount:     len(rows),
		StatusCounts: map[string]int{},
	}

	for _, s := range Statuses() {
		stats.StatusCounts[s] = 0
	}

	students := map[string]struct{}{}
	for _, row := range rows {
		stats.TotalDue = stats.TotalDue.Add(row.TotalDue)
		stats.TotalPaid = stats.TotalPaid.Add(row.TotalPaid)
		stats.StatusCounts[row.Status]++
		students[row.Student.ID.String()] = struct{}{}
	}

	stats.TotalRemaining = stats.TotalDue.Sub(stats.TotalPaid)
	stats.RecoveryRate = Percent(stats.TotalPaid, stats.TotalDue)
	stats.StudentCount = len(students)

	return stats
}
