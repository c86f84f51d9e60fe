package ledger

import (
	"errors"

	"github.com/ecole-gestion/backend/pkg/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// The expense write path runs the row change and its adjustments in one
// transaction. The previous state of an expense is always read from the row
// inside that transaction, never from a copy loaded by the caller, so that
// concurrent writers on the same expense each reconcile exactly their change.
//
// Adjustments are applied on a savepoint. If they fail, the error is logged
// and only the adjustments are rolled back, the expense write is kept.

// CreateExpense persists the expense and adds it to its budget.
func (r Reconciler) CreateExpense(expense *models.Expense) error {
	return models.Transaction(r.db, func(tx *gorm.DB) error {
		err := tx.Create(expense).Error
		if err != nil {
			return err
		}

		reconcile(tx, expense.ID, Adjustments(nil, SnapshotOf(*expense)))
		return nil
	})
}

// UpdateExpense updates the selected fields of the expense with the values
// from data and moves the ledger from the previous state to the new one.
//
// On success, expense holds the updated values.
func (r Reconciler) UpdateExpense(expense *models.Expense, data models.Expense, fields ...any) error {
	return models.Transaction(r.db, func(tx *gorm.DB) error {
		current, err := lockExpense(tx, expense.ID)
		if err != nil {
			return err
		}
		previous := SnapshotOf(current)

		err = tx.Model(&current).Select("", fields...).Updates(data).Error
		if err != nil {
			return err
		}

		err = tx.First(&current, "id = ?", current.ID).Error
		if err != nil {
			return err
		}

		reconcile(tx, current.ID, Adjustments(previous, SnapshotOf(current)))
		*expense = current
		return nil
	})
}

// DeleteExpense soft deletes the expense and removes it from its budget.
//
// Deleting an expense that is already deleted is a no-op.
func (r Reconciler) DeleteExpense(expense models.Expense) error {
	return models.Transaction(r.db, func(tx *gorm.DB) error {
		current, err := lockExpense(tx, expense.ID)
		if errors.Is(err, models.ErrResourceNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		// Only delete the row in the state that is reconciled
		result := tx.
			Where("budget_id = ? AND status = ? AND amount = ?", current.BudgetID, current.Status, current.Amount).
			Delete(&current)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return nil
		}

		reconcile(tx, current.ID, Adjustments(SnapshotOf(current), nil))
		return nil
	})
}

// DeleteBudget soft deletes the budget together with all of its expenses.
//
// The expenses are not reconciled since the budget they count towards is
// deleted with them.
func (r Reconciler) DeleteBudget(budget models.Budget) error {
	return models.Transaction(r.db, func(tx *gorm.DB) error {
		err := tx.Where("budget_id = ?", budget.ID).Delete(&models.Expense{}).Error
		if err != nil {
			return err
		}

		return tx.Delete(&budget).Error
	})
}

// lockExpense reads the active expense with the ID. On PostgreSQL, the row
// stays locked until the transaction ends. SQLite serializes writers on its
// single connection.
func lockExpense(tx *gorm.DB, id uuid.UUID) (models.Expense, error) {
	query := tx
	if tx.Dialector.Name() == "postgres" {
		query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var expense models.Expense
	err := query.First(&expense, "id = ?", id).Error
	return expense, err
}

// reconcile applies the adjustments of an expense change inside the
// transaction tx.
func reconcile(tx *gorm.DB, expenseID uuid.UUID, adjustments []Adjustment) {
	if err := NewReconciler(tx).Apply(adjustments); err != nil {
		log.Error().Err(err).Str("expense", expenseID.String()).Msg("ledger")
	}
}
