package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/ecole-gestion/backend/internal/test"
	"github.com/ecole-gestion/backend/internal/types"
	v1 "github.com/ecole-gestion/backend/pkg/controllers/v1"
	"github.com/ecole-gestion/backend/pkg/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestExpenseCreateInvalid() {
	budget := suite.createTestBudget(v1.BudgetEditable{Name: "Fournitures", AllocatedAmount: decimal.NewFromInt(1000)}).Data
	category := suite.createTestExpenseCategory(v1.ExpenseCategoryEditable{}).Data

	tests := []struct {
		name    string
		expense v1.ExpenseEditable
		err     error
	}{
		{"Zero amount", v1.ExpenseEditable{BudgetID: budget.ID, CategoryID: category.ID}, models.ErrExpenseAmountNotPositive},
		{"Negative amount", v1.ExpenseEditable{BudgetID: budget.ID, CategoryID: category.ID, Amount: decimal.NewFromInt(-1)}, models.ErrExpenseAmountNotPositive},
		{"Unknown status", v1.ExpenseEditable{BudgetID: budget.ID, CategoryID: category.ID, Amount: decimal.NewFromInt(1), Status: "lost"}, models.ErrExpenseStatusInvalid},
		{"Unknown payment mode", v1.ExpenseEditable{BudgetID: budget.ID, CategoryID: category.ID, Amount: decimal.NewFromInt(1), PaymentMode: "barter"}, models.ErrPaymentModeInvalid},
		{"Unknown budget", v1.ExpenseEditable{BudgetID: uuid.New(), CategoryID: category.ID, Amount: decimal.NewFromInt(1)}, models.ErrReferenceNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/expenses", []v1.ExpenseEditable{tt.expense})
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)

			var response v1.ExpenseCreateResponse
			test.DecodeResponse(t, &r, &response)
			assert.Equal(t, tt.err.Error(), *response.Data[0].Error)
		})
	}

	suite.Assert().True(suite.getBudget(budget.ID).SpentAmount.IsZero(), "Failed creations must not change the spent amount")
}

func (suite *TestSuiteStandard) TestExpenseDefaults() {
	expense := suite.createTestExpense(v1.ExpenseEditable{Amount: decimal.NewFromInt(5), Beneficiary: " Librairie du Centre "}).Data

	suite.Assert().Equal(models.ExpenseStatusDraft, expense.Status)
	suite.Assert().Equal(models.PaymentModeCash, expense.PaymentMode)
	suite.Assert().Equal("Librairie du Centre", expense.Beneficiary)
	suite.Assert().Equal(fmt.Sprintf("http://example.com/v1/budgets/%s", expense.BudgetID), expense.Links.Budget)
}

func (suite *TestSuiteStandard) TestExpensesList() {
	budget := suite.createTestBudget(v1.BudgetEditable{Name: "Fournitures", AllocatedAmount: decimal.NewFromInt(1000)}).Data
	category := suite.createTestExpenseCategory(v1.ExpenseCategoryEditable{}).Data

	_ = suite.createTestExpense(v1.ExpenseEditable{BudgetID: budget.ID, CategoryID: category.ID, Amount: decimal.NewFromInt(10), Status: models.ExpenseStatusPaid, Beneficiary: "Librairie", Date: types.NewDate(2025, 9, 1), Reference: "FAC-1"})
	_ = suite.createTestExpense(v1.ExpenseEditable{BudgetID: budget.ID, CategoryID: category.ID, Amount: decimal.NewFromInt(20), Status: models.ExpenseStatusPending, Beneficiary: "Garage", Date: types.NewDate(2025, 9, 15), PaymentMode: models.PaymentModeTransfer})
	_ = suite.createTestExpense(v1.ExpenseEditable{Amount: decimal.NewFromInt(30), Date: types.NewDate(2025, 10, 2), Note: "Librairie du quartier"})

	tests := []struct {
		name        string
		query       string
		len         int
		firstAmount int64
		status      int
	}{
		{"All, most recent first", "", 3, 30, http.StatusOK},
		{"By budget", fmt.Sprintf("budget=%s", budget.ID), 2, 20, http.StatusOK},
		{"By category", fmt.Sprintf("category=%s", category.ID), 2, 20, http.StatusOK},
		{"By status", "status=paid", 1, 10, http.StatusOK},
		{"By payment mode", "paymentMode=transfer", 1, 20, http.StatusOK},
		{"By beneficiary", "beneficiary=Libr", 1, 10, http.StatusOK},
		{"Empty reference", "reference=", 2, 30, http.StatusOK},
		{"Search", "search=librairie", 2, 30, http.StatusOK},
		{"Date range", "fromDate=2025-09-10&untilDate=2025-09-30", 1, 20, http.StatusOK},
		{"Invalid status", "status=lost", 0, 0, http.StatusBadRequest},
		{"Invalid payment mode", "paymentMode=barter", 0, 0, http.StatusBadRequest},
		{"Invalid date", "fromDate=yesterday", 0, 0, http.StatusBadRequest},
		{"Invalid budget ID", "budget=NotAUUID", 0, 0, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/expenses?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status != http.StatusOK {
				return
			}

			var response v1.ExpenseListResponse
			test.DecodeResponse(t, &r, &response)

			assert.Len(t, response.Data, tt.len)
			assert.Equal(t, int64(tt.len), response.Pagination.Total)
			if tt.len > 0 {
				assert.True(t, decimal.NewFromInt(tt.firstAmount).Equal(response.Data[0].Amount), "First amount is %s, expected %d", response.Data[0].Amount, tt.firstAmount)
			}
		})
	}
}

func (suite *TestSuiteStandard) TestExpenseUpdateInvalid() {
	expense := suite.createTestExpense(v1.ExpenseEditable{Amount: decimal.NewFromInt(5), Status: models.ExpenseStatusPaid}).Data

	r := test.Request(suite.T(), http.MethodPatch, expense.Links.Self, map[string]any{"amount": 0})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	suite.Assert().Equal(models.ErrExpenseAmountNotPositive.Error(), test.DecodeError(suite.T(), r.Body.Bytes()))

	// The ledger is unchanged by the failed update
	suite.Assert().True(decimal.NewFromInt(5).Equal(suite.getBudget(expense.BudgetID).SpentAmount))

	r = test.Request(suite.T(), http.MethodPatch, expense.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	r = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/expenses/%s", uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestExpenseOptions() {
	expense := suite.createTestExpense(v1.ExpenseEditable{Amount: decimal.NewFromInt(5)}).Data

	r := test.Request(suite.T(), http.MethodOptions, expense.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/expenses", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	suite.Assert().Equal("OPTIONS, GET, POST", r.Header().Get("allow"))
}
