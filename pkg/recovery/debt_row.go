// Package recovery computes what students still owe on the tranches of
// their fee configurations.
package recovery

import (
	"github.com/ecole-gestion/backend/internal/types"
	"github.com/ecole-gestion/backend/pkg/models"
	"github.com/shopspring/decimal"
)

// Status labels of a debt row. They are shown to staff and guardians as is.
const (
	StatusSettled = "Réglé"
	StatusOverdue = "En retard"
	StatusUrgent  = "Urgent"
	StatusOngoing = "En cours"
)

// UrgentDays is the number of days before the due date from which an
// unsettled tranche is urgent.
const UrgentDays = 7

var hundred = decimal.NewFromInt(100)

// Statuses lists all status labels in order of severity.
func Statuses() []string {
	return []string{StatusOverdue, StatusUrgent, StatusOngoing, StatusSettled}
}

// DebtRow is the recovery state of one student for one tranche.
type DebtRow struct {
	Student         models.Student
	Tranche         models.Tranche
	TotalDue        decimal.Decimal
	TotalPaid       decimal.Decimal
	Remaining       decimal.Decimal // Negative on overpayment
	PercentPaid     decimal.Decimal // Not rounded
	Status          string
	DaysUntilDue    int // Negative once the due date has passed
	LastPaymentDate types.Date
	PaymentCount    int
}

// Settled reports if nothing remains to be paid.
func (r DebtRow) Settled() bool {
	return r.Status == StatusSettled
}

// DisplayPercent is the percentage paid rounded for display.
func (r DebtRow) DisplayPercent() decimal.Decimal {
	return r.PercentPaid.Round(1)
}

// Label derives the status label from the remaining amount and the days
// until the due date. A settled tranche is never overdue.
func Label(remaining decimal.Decimal, daysUntilDue int) string {
	switch {
	case !remaining.IsPositive():
		return StatusSettled
	case daysUntilDue < 0:
		return StatusOverdue
	case daysUntilDue <= UrgentDays:
		return StatusUrgent
	default:
		return StatusOngoing
	}
}

// Percent returns part as a percentage of total, or zero if total is not positive.
func Percent(part, total decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.Zero
	}
	return part.Div(total).Mul(hundred)
}

// newDebtRow computes the row of a student from the payments they made for the tranche.
func newDebtRow(tranche models.Tranche, student models.Student, payments []models.Payment, today types.Date) DebtRow {
	row := DebtRow{
		Student:      student,
		Tranche:      tranche,
		TotalDue:     tranche.Amount,
		TotalPaid:    decimal.Zero,
		DaysUntilDue: today.DaysUntil(tranche.DueDate),
	}

	for _, p := range payments {
		row.TotalPaid = row.TotalPaid.Add(p.Amount)
		row.PaymentCount++

		if p.PaymentDate.After(row.LastPaymentDate) {
			row.LastPaymentDate = p.PaymentDate
		}
	}

	row.Remaining = tranche.Amount.Sub(row.TotalPaid)
	row.PercentPaid = Percent(row.TotalPaid, tranche.Amount)
	row.Status = Label(row.Remaining, row.DaysUntilDue)

	return row
}
