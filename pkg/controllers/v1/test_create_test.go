package v1_test

import (
	"context"
	"net/http"
	"sync"

	"github.com/ecole-gestion/backend/internal/test"
	v1 "github.com/ecole-gestion/backend/pkg/controllers/v1"
	"github.com/ecole-gestion/backend/pkg/notify"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type recordingMailer struct {
	sync.Mutex
	messages []notify.Message
}

func (m *recordingMailer) Send(_ context.Context, msg notify.Message) error {
	m.Lock()
	defer m.Unlock()

	m.messages = append(m.messages, msg)
	return nil
}

// expect returns the expected status, defaulting to 201 Created.
func expect(expectedStatus []int) []int {
	if len(expectedStatus) == 0 {
		return []int{http.StatusCreated}
	}
	return expectedStatus
}

func (suite *TestSuiteStandard) createTestBudget(c v1.BudgetEditable, expectedStatus ...int) v1.BudgetResponse {
	if c.Year == 0 {
		c.Year = 2025
	}

	if c.Month == 0 {
		c.Month = 10
	}

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/budgets", []v1.BudgetEditable{c})
	test.AssertHTTPStatus(suite.T(), &r, expect(expectedStatus)...)

	var a v1.BudgetCreateResponse
	test.DecodeResponse(suite.T(), &r, &a)

	if r.Code == http.StatusCreated {
		return a.Data[0]
	}

	return v1.BudgetResponse{}
}

func (suite *TestSuiteStandard) createTestExpenseCategory(c v1.ExpenseCategoryEditable, expectedStatus ...int) v1.ExpenseCategoryResponse {
	if c.Name == "" {
		c.Name = uuid.NewString()
	}

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/expense-categories", []v1.ExpenseCategoryEditable{c})
	test.AssertHTTPStatus(suite.T(), &r, expect(expectedStatus)...)

	var a v1.ExpenseCategoryCreateResponse
	test.DecodeResponse(suite.T(), &r, &a)

	if r.Code == http.StatusCreated {
		return a.Data[0]
	}

	return v1.ExpenseCategoryResponse{}
}

func (suite *TestSuiteStandard) createTestExpense(c v1.ExpenseEditable, expectedStatus ...int) v1.ExpenseResponse {
	if c.BudgetID == uuid.Nil {
		c.BudgetID = suite.createTestBudget(v1.BudgetEditable{Name: uuid.NewString(), AllocatedAmount: decimal.NewFromInt(1000)}).Data.ID
	}

	if c.CategoryID == uuid.Nil {
		c.CategoryID = suite.createTestExpenseCategory(v1.ExpenseCategoryEditable{}).Data.ID
	}

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/expenses", []v1.ExpenseEditable{c})
	test.AssertHTTPStatus(suite.T(), &r, expect(expectedStatus)...)

	var a v1.ExpenseCreateResponse
	test.DecodeResponse(suite.T(), &r, &a)

	if r.Code == http.StatusCreated {
		return a.Data[0]
	}

	return v1.ExpenseResponse{}
}

func (suite *TestSuiteStandard) createTestFeeConfiguration(c v1.FeeConfigurationEditable, expectedStatus ...int) v1.FeeConfigurationResponse {
	if c.SchoolYear == "" {
		c.SchoolYear = "2025-2026"
	}

	if c.Name == "" {
		c.Name = uuid.NewString()
	}

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/fee-configurations", []v1.FeeConfigurationEditable{c})
	test.AssertHTTPStatus(suite.T(), &r, expect(expectedStatus)...)

	var a v1.FeeConfigurationCreateResponse
	test.DecodeResponse(suite.T(), &r, &a)

	if r.Code == http.StatusCreated {
		return a.Data[0]
	}

	return v1.FeeConfigurationResponse{}
}

func (suite *TestSuiteStandard) createTestTranche(c v1.TrancheEditable, expectedStatus ...int) v1.TrancheResponse {
	if c.ConfigurationID == uuid.Nil {
		c.ConfigurationID = suite.createTestFeeConfiguration(v1.FeeConfigurationEditable{Active: true}).Data.ID
	}

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/tranches", []v1.TrancheEditable{c})
	test.AssertHTTPStatus(suite.T(), &r, expect(expectedStatus)...)

	var a v1.TrancheCreateResponse
	test.DecodeResponse(suite.T(), &r, &a)

	if r.Code == http.StatusCreated {
		return a.Data[0]
	}

	return v1.TrancheResponse{}
}

func (suite *TestSuiteStandard) createTestStudent(c v1.StudentEditable, expectedStatus ...int) v1.StudentResponse {
	if c.Matricule == "" {
		c.Matricule = uuid.NewString()[:8]
	}

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/students", []v1.StudentEditable{c})
	test.AssertHTTPStatus(suite.T(), &r, expect(expectedStatus)...)

	var a v1.StudentCreateResponse
	test.DecodeResponse(suite.T(), &r, &a)

	if r.Code == http.StatusCreated {
		return a.Data[0]
	}

	return v1.StudentResponse{}
}

func (suite *TestSuiteStandard) createTestPayment(c v1.PaymentEditable, expectedStatus ...int) v1.PaymentResponse {
	if c.StudentID == uuid.Nil {
		c.StudentID = suite.createTestStudent(v1.StudentEditable{Active: true}).Data.ID
	}

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/payments", []v1.PaymentEditable{c})
	test.AssertHTTPStatus(suite.T(), &r, expect(expectedStatus)...)

	var a v1.PaymentCreateResponse
	test.DecodeResponse(suite.T(), &r, &a)

	if r.Code == http.StatusCreated {
		return a.Data[0]
	}

	return v1.PaymentResponse{}
}
