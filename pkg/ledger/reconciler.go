package ledger

import (
	"errors"
	"fmt"

	"github.com/ecole-gestion/backend/pkg/models"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrMissingReference is logged when an adjustment targets a budget that
// does not exist or has been deleted. The adjustment is skipped.
var ErrMissingReference = errors.New("the budget referenced by the expense does not exist")

// Reconciler applies expense events to the spent amount of budgets.
type Reconciler struct {
	db *gorm.DB
}

func NewReconciler(db *gorm.DB) Reconciler {
	return Reconciler{db: db}
}

// Created reconciles a newly persisted expense.
func (r Reconciler) Created(expense models.Expense) error {
	return r.Apply(Adjustments(nil, SnapshotOf(expense)))
}

// Deleted reconciles an expense that was deleted.
//
// It must only be called once per deleted row.
func (r Reconciler) Deleted(expense models.Expense) error {
	return r.Apply(Adjustments(SnapshotOf(expense), nil))
}

// Apply applies all adjustments in a single transaction.
//
// Adjustments for budgets that do not exist are skipped and logged. An error
// is only returned if the database fails, in which case no adjustment is applied.
func (r Reconciler) Apply(adjustments []Adjustment) error {
	if len(adjustments) == 0 {
		return nil
	}

	var applied, skipped int
	err := r.db.Transaction(func(tx *gorm.DB) error {
		applied, skipped = 0, 0

		for _, a := range adjustments {
			ok, err := increment(tx, a)
			if err != nil {
				return err
			}

			if !ok {
				log.Warn().Err(ErrMissingReference).Str("budget", a.BudgetID.String()).Str("delta", a.Delta.String()).Msg("ledger")
				skipped++
				continue
			}

			log.Debug().Str("budget", a.BudgetID.String()).Str("delta", a.Delta.String()).Msg("ledger")
			applied++
		}

		return nil
	})
	if err != nil {
		adjustmentCount.WithLabelValues(resultFailed).Add(float64(len(adjustments)))
		return fmt.Errorf("could not apply ledger adjustments: %w", err)
	}

	adjustmentCount.WithLabelValues(resultApplied).Add(float64(applied))
	adjustmentCount.WithLabelValues(resultSkipped).Add(float64(skipped))
	return nil
}

// increment atomically adds the delta to the spent amount of the budget.
//
// It reports false if no active budget with the ID exists.
func increment(tx *gorm.DB, a Adjustment) (bool, error) {
	result := tx.
		Session(&gorm.Session{SkipHooks: true}).
		Model(&models.Budget{}).
		Where("id = ? AND deleted_at IS NULL", a.BudgetID).
		Update("spent_amount", gorm.Expr("spent_amount + ?", a.Delta))
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// paidTotal sums the amounts of all active paid expenses of a budget.
func paidTotal(db *gorm.DB, budget models.Budget) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := db.
		Model(&models.Expense{}).
		Select("SUM(amount)").
		Where("budget_id = ? AND status = ? AND deleted_at IS NULL", budget.ID, models.ExpenseStatusPaid).
		Find(&total).
		Error
	if err != nil {
		return decimal.Zero, err
	}

	// Without paid expenses, the value is nil
	if !total.Valid {
		return decimal.Zero, nil
	}

	return total.Decimal, nil
}
