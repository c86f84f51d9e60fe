package ledger_test

import (
	"sync"

	"github.com/ecole-gestion/backend/pkg/models"
	"github.com/shopspring/decimal"
)

// TestStaleUpdate updates the same expense through two copies loaded before
// either update. The second update must start from the stored state.
func (suite *TestSuiteStandard) TestStaleUpdate() {
	budget := suite.createBudget("Cantine", 10000)
	expense := suite.createExpense(budget.ID, models.ExpenseStatusPending, 200)

	first, second := expense, expense
	suite.Require().Nil(suite.reconciler.UpdateExpense(&first, models.Expense{Status: models.ExpenseStatusPaid}, "Status"))
	suite.Require().Nil(suite.reconciler.UpdateExpense(&second, models.Expense{Status: models.ExpenseStatusPaid}, "Status"))
	suite.assertSpent(budget.ID, 200)

	// The stale copy is refreshed with the stored values
	suite.Assert().Equal(models.ExpenseStatusPaid, second.Status)

	second.Amount = decimal.NewFromInt(9999)
	suite.Require().Nil(suite.reconciler.UpdateExpense(&second, models.Expense{Amount: decimal.NewFromInt(300)}, "Amount"))
	suite.assertSpent(budget.ID, 300)
}

// TestStaleDelete deletes an expense through a copy loaded while it was paid,
// after it has been rejected.
func (suite *TestSuiteStandard) TestStaleDelete() {
	budget := suite.createBudget("Cantine", 10000)
	expense := suite.createExpense(budget.ID, models.ExpenseStatusPaid, 200)
	stale := expense

	suite.Require().Nil(suite.reconciler.UpdateExpense(&expense, models.Expense{Status: models.ExpenseStatusRejected}, "Status"))
	suite.assertSpent(budget.ID, 0)

	suite.Require().Nil(suite.reconciler.DeleteExpense(stale))
	suite.assertSpent(budget.ID, 0)

	err := models.DB.First(&models.Expense{}, "id = ?", expense.ID).Error
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

// TestStaleReassignment moves an expense to another budget, then updates it
// through a copy that still references the first budget.
func (suite *TestSuiteStandard) TestStaleReassignment() {
	a := suite.createBudget("Sport", 5000)
	b := suite.createBudget("Culture", 5000)
	expense := suite.createExpense(a.ID, models.ExpenseStatusPaid, 500)
	stale := expense

	suite.Require().Nil(suite.reconciler.UpdateExpense(&expense, models.Expense{BudgetID: b.ID}, "BudgetID"))
	suite.Require().Nil(suite.reconciler.UpdateExpense(&stale, models.Expense{Status: models.ExpenseStatusRejected}, "Status"))

	suite.assertSpent(a.ID, 0)
	suite.assertSpent(b.ID, 0)
}

// TestConcurrentWriters runs creations and updates of paid expenses on one
// budget from many goroutines at once.
func (suite *TestSuiteStandard) TestConcurrentWriters() {
	budget := suite.createBudget("Fournitures", 100000)

	pending := make([]models.Expense, 5)
	for i := range pending {
		pending[i] = suite.createExpense(budget.ID, models.ExpenseStatusPending, int64(100*(i+1)))
	}
	shared := suite.createExpense(budget.ID, models.ExpenseStatusPending, 1000)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	run := func(f func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := f(); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}()
	}

	// 10 + 20 + ... + 100
	for i := 0; i < 10; i++ {
		amount := int64(10 * (i + 1))
		run(func() error {
			expense := models.Expense{
				BudgetID:   budget.ID,
				CategoryID: suite.category.ID,
				Status:     models.ExpenseStatusPaid,
				Amount:     decimal.NewFromInt(amount),
			}
			return suite.reconciler.CreateExpense(&expense)
		})
	}

	// 100 + 200 + ... + 500
	for i := range pending {
		expense := pending[i]
		run(func() error {
			return suite.reconciler.UpdateExpense(&expense, models.Expense{Status: models.ExpenseStatusPaid}, "Status")
		})
	}

	// All writers race on the same expense, it counts once
	for i := 0; i < 8; i++ {
		expense := shared
		run(func() error {
			return suite.reconciler.UpdateExpense(&expense, models.Expense{Status: models.ExpenseStatusPaid}, "Status")
		})
	}

	wg.Wait()
	suite.Require().Empty(errs)

	suite.assertSpent(budget.ID, 550+1500+1000)

	drift, err := suite.reconciler.Drift(budget.ID)
	suite.Require().Nil(err)
	suite.Assert().True(drift.InSync(), "Stored %s, computed %s", drift.Stored, drift.Computed)
}

// TestConcurrentDeletes deletes the same paid expense from many goroutines.
func (suite *TestSuiteStandard) TestConcurrentDeletes() {
	budget := suite.createBudget("Fournitures", 10000)
	expense := suite.createExpense(budget.ID, models.ExpenseStatusPaid, 700)
	kept := suite.createExpense(budget.ID, models.ExpenseStatusPaid, 300)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = suite.reconciler.DeleteExpense(expense)
		}()
	}
	wg.Wait()

	suite.assertSpent(budget.ID, 300)

	err := models.DB.First(&models.Expense{}, "id = ?", kept.ID).Error
	suite.Assert().Nil(err)
}
