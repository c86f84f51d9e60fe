package ledger

import (
	"github.com/ecole-gestion/backend/pkg/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// The spent amount column stores 8 decimal places.
const scale = 8

// Drift compares the stored spent amount of a budget with the sum of its
// paid expenses.
type Drift struct {
	BudgetID   uuid.UUID
	Stored     decimal.Decimal
	Computed   decimal.Decimal
	Difference decimal.Decimal
}

// InSync reports if the stored spent amount matches the paid expenses.
func (d Drift) InSync() bool {
	return d.Difference.IsZero()
}

// Drift returns the drift for the budget with the given ID.
func (r Reconciler) Drift(budgetID uuid.UUID) (Drift, error) {
	var budget models.Budget
	err := r.db.First(&budget, "id = ?", budgetID).Error
	if err != nil {
		return Drift{}, err
	}

	computed, err := paidTotal(r.db, budget)
	if err != nil {
		return Drift{}, err
	}

	stored := budget.SpentAmount.Round(scale)
	computed = computed.Round(scale)

	return Drift{
		BudgetID:   budget.ID,
		Stored:     stored,
		Computed:   computed,
		Difference: stored.Sub(computed),
	}, nil
}

// Recompute rebuilds the spent amount of a budget from its paid expenses.
//
// It returns the drift that existed before the repair.
func (r Reconciler) Recompute(budgetID uuid.UUID) (Drift, error) {
	var drift Drift

	err := models.Transaction(r.db, func(tx *gorm.DB) error {
		var err error
		drift, err = NewReconciler(tx).Drift(budgetID)
		if err != nil {
			return err
		}

		return tx.
			Session(&gorm.Session{SkipHooks: true}).
			Model(&models.Budget{}).
			Where("id = ?", budgetID).
			Update("spent_amount", drift.Computed).
			Error
	})
	if err != nil {
		return Drift{}, err
	}

	drifted := "false"
	if !drift.InSync() {
		drifted = "true"
		log.Warn().Str("budget", budgetID.String()).Str("stored", drift.Stored.String()).Str("computed", drift.Computed.String()).Msg("ledger drift repaired")
	}
	recomputeCount.WithLabelValues(drifted).Inc()

	return drift, nil
}
