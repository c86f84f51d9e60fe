// Package ledger keeps the spent amount of every budget equal to the sum of
// the amounts of its paid expenses.
//
// Each expense mutation is translated into signed adjustments which are
// applied as atomic increments on the budget rows. The running total is
// therefore never recomputed on the hot path, but Recompute exists to repair
// a budget that drifted, e.g. after manual database edits.
package ledger

import (
	"github.com/ecole-gestion/backend/pkg/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Snapshot is the part of an expense that the ledger depends on.
type Snapshot struct {
	BudgetID uuid.UUID
	Status   models.ExpenseStatus
	Amount   decimal.Decimal
}

// SnapshotOf captures the ledger relevant state of an expense.
func SnapshotOf(e models.Expense) *Snapshot {
	return &Snapshot{
		BudgetID: e.BudgetID,
		Status:   e.Status,
		Amount:   e.Amount,
	}
}

// contribution is what the expense adds to the spent amount of its budget.
func (s *Snapshot) contribution() decimal.Decimal {
	if s == nil || s.Status != models.ExpenseStatusPaid {
		return decimal.Zero
	}
	return s.Amount
}

// Adjustment is a signed change to the spent amount of one budget.
type Adjustment struct {
	BudgetID uuid.UUID
	Delta    decimal.Decimal
}

// Adjustments computes the changes to budget spent amounts caused by an
// expense going from previous to current.
//
// A nil previous snapshot means the expense was created, a nil current
// snapshot means it was deleted. Adjustments with a zero delta are omitted.
//
// When the budget changes, the previous contribution is removed from the old
// budget and the current contribution is added to the new one. This applies
// a simultaneous change of status or amount to the new budget instead of
// moving the old amount over.
func Adjustments(previous, current *Snapshot) []Adjustment {
	var adjustments []Adjustment

	add := func(budgetID uuid.UUID, delta decimal.Decimal) {
		if delta.IsZero() {
			return
		}
		adjustments = append(adjustments, Adjustment{BudgetID: budgetID, Delta: delta})
	}

	switch {
	case previous == nil && current == nil:
		return nil

	case previous == nil:
		add(current.BudgetID, current.contribution())

	case current == nil:
		add(previous.BudgetID, previous.contribution().Neg())

	case previous.BudgetID != current.BudgetID:
		add(previous.BudgetID, previous.contribution().Neg())
		add(current.BudgetID, current.contribution())

	// Covers a status change into or out of paid as well as an
	// amount change while paid. Anything else nets to zero.
	default:
		add(current.BudgetID, current.contribution().Sub(previous.contribution()))
	}

	return adjustments
}
