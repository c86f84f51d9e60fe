package models_test

import (
	"github.com/ecole-gestion/backend/pkg/models"
)

func (suite *TestSuiteStandard) TestExpenseDefaults() {
	budget := suite.createBudget("Maintenance")
	category := suite.createCategory("Réparations")

	expense := models.Expense{
		BudgetID:    budget.ID,
		CategoryID:  category.ID,
		Amount:      decimalFromString("120.50"),
		Beneficiary: " Atelier Soro ",
	}
	suite.Require().Nil(models.DB.Create(&expense).Error)

	suite.Assert().Equal(models.ExpenseStatusDraft, expense.Status)
	suite.Assert().Equal(models.PaymentModeCash, expense.PaymentMode)
	suite.Assert().Equal("Atelier Soro", expense.Beneficiary)
	suite.Assert().False(expense.Paid())
}

func (suite *TestSuiteStandard) TestExpenseValidation() {
	budget := suite.createBudget("Sport")
	category := suite.createCategory("Équipement")

	tests := []struct {
		name    string
		expense models.Expense
		err     error
	}{
		{"Zero amount", models.Expense{Amount: decimalFromString("0")}, models.ErrExpenseAmountNotPositive},
		{"Negative amount", models.Expense{Amount: decimalFromString("-3")}, models.ErrExpenseAmountNotPositive},
		{"Unknown status", models.Expense{Amount: decimalFromString("3"), Status: "archived"}, models.ErrExpenseStatusInvalid},
		{"Unknown payment mode", models.Expense{Amount: decimalFromString("3"), PaymentMode: "barter"}, models.ErrPaymentModeInvalid},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			tt.expense.BudgetID = budget.ID
			tt.expense.CategoryID = category.ID

			err := models.DB.Create(&tt.expense).Error
			suite.Assert().ErrorIs(err, tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestExpenseStatusValid() {
	for _, s := range []models.ExpenseStatus{"draft", "pending", "approved", "rejected", "paid"} {
		suite.Assert().True(s.Valid(), s)
	}
	suite.Assert().False(models.ExpenseStatus("PAID").Valid())
}

func (suite *TestSuiteStandard) TestExpenseCategoryNameUnique() {
	_ = suite.createCategory("Électricité")

	err := models.DB.Create(&models.ExpenseCategory{Name: "Électricité"}).Error
	suite.Assert().ErrorIs(err, models.ErrExpenseCategoryNotUnique)
}
