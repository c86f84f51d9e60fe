package v1_test

import (
	"fmt"
	"net/http"

	"github.com/ecole-gestion/backend/internal/test"
	v1 "github.com/ecole-gestion/backend/pkg/controllers/v1"
	"github.com/ecole-gestion/backend/pkg/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestExpenseCategoryCreate() {
	_ = suite.createTestExpenseCategory(v1.ExpenseCategoryEditable{Name: "Entretien", Note: " Réparations "})

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/expense-categories", []v1.ExpenseCategoryEditable{
		{Name: "Transport"},
		{Name: "Entretien"},
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.ExpenseCategoryCreateResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().Len(response.Data, 2)
	suite.Assert().Equal("Transport", response.Data[0].Data.Name)
	suite.Assert().Equal(models.ErrExpenseCategoryNotUnique.Error(), *response.Data[1].Error)
}

func (suite *TestSuiteStandard) TestExpenseCategoryGetAndList() {
	category := suite.createTestExpenseCategory(v1.ExpenseCategoryEditable{Name: "Entretien", Note: " Réparations "})
	_ = suite.createTestExpenseCategory(v1.ExpenseCategoryEditable{Name: "Cantine"})

	r := test.Request(suite.T(), http.MethodGet, category.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ExpenseCategoryResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("Réparations", response.Data.Note, "Notes are trimmed")
	suite.Assert().Equal(fmt.Sprintf("http://example.com/v1/expenses?category=%s", category.Data.ID), response.Data.Links.Expenses)

	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/expense-categories", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var list v1.ExpenseCategoryListResponse
	test.DecodeResponse(suite.T(), &r, &list)
	suite.Require().Len(list.Data, 2)
	suite.Assert().Equal("Cantine", list.Data[0].Name, "Categories are sorted by name")
	suite.Assert().Equal(int64(2), list.Pagination.Total)

	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/expense-categories?search=parations", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &list)
	suite.Require().Len(list.Data, 1)
	suite.Assert().Equal("Entretien", list.Data[0].Name)
}

func (suite *TestSuiteStandard) TestExpenseCategoryUpdate() {
	category := suite.createTestExpenseCategory(v1.ExpenseCategoryEditable{Name: "Entretien"})
	_ = suite.createTestExpenseCategory(v1.ExpenseCategoryEditable{Name: "Cantine"})

	r := test.Request(suite.T(), http.MethodPatch, category.Data.Links.Self, map[string]any{"note": "Nettoyage"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ExpenseCategoryResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("Entretien", response.Data.Name)
	suite.Assert().Equal("Nettoyage", response.Data.Note)

	r = test.Request(suite.T(), http.MethodPatch, category.Data.Links.Self, map[string]any{"name": "Cantine"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	suite.Assert().Equal(models.ErrExpenseCategoryNotUnique.Error(), test.DecodeError(suite.T(), r.Body.Bytes()))
}

// TestExpenseCategoryDeleteInUse verifies that categories can only be deleted
// when no expense uses them.
func (suite *TestSuiteStandard) TestExpenseCategoryDeleteInUse() {
	category := suite.createTestExpenseCategory(v1.ExpenseCategoryEditable{Name: "Entretien"})
	expense := suite.createTestExpense(v1.ExpenseEditable{CategoryID: category.Data.ID, Amount: decimal.NewFromInt(10)})

	r := test.Request(suite.T(), http.MethodDelete, category.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	suite.Assert().Equal(models.ErrExpenseCategoryHasExpense.Error(), test.DecodeError(suite.T(), r.Body.Bytes()))

	r = test.Request(suite.T(), http.MethodDelete, expense.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodDelete, category.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodDelete, fmt.Sprintf("http://example.com/v1/expense-categories/%s", uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
