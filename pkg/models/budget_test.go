package models_test

import (
	"github.com/ecole-gestion/backend/pkg/models"
	"github.com/shopspring/decimal"
)

func decimalFromString(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (suite *TestSuiteStandard) TestBudgetRemainingAmount() {
	budget := models.Budget{
		AllocatedAmount: decimalFromString("1500"),
		SpentAmount:     decimalFromString("2000"),
	}

	suite.Assert().True(budget.RemainingAmount().Equal(decimalFromString("-500")), "Remaining amount is %s", budget.RemainingAmount())
}

func (suite *TestSuiteStandard) TestBudgetTrimWhitespace() {
	budget := models.Budget{
		Name:  "\t Fournitures ",
		Note:  " Papeterie et craies\n",
		Year:  2025,
		Month: 9,
	}
	suite.Require().Nil(models.DB.Create(&budget).Error)

	suite.Assert().Equal("Fournitures", budget.Name)
	suite.Assert().Equal("Papeterie et craies", budget.Note)
}

func (suite *TestSuiteStandard) TestBudgetValidation() {
	tests := []struct {
		name   string
		budget models.Budget
		err    error
	}{
		{"Negative allocation", models.Budget{Name: "A", Year: 2025, Month: 1, AllocatedAmount: decimalFromString("-1")}, models.ErrBudgetAllocationNegative},
		{"Month zero", models.Budget{Name: "B", Year: 2025, Month: 0}, models.ErrBudgetMonthInvalid},
		{"Month 13", models.Budget{Name: "C", Year: 2025, Month: 13}, models.ErrBudgetMonthInvalid},
		{"Year zero", models.Budget{Name: "D", Year: 0, Month: 1}, models.ErrBudgetYearInvalid},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			err := models.DB.Create(&tt.budget).Error
			suite.Assert().ErrorIs(err, tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestBudgetPeriodNameUnique() {
	_ = suite.createBudget("Cantine")

	duplicate := models.Budget{Name: "Cantine", Year: 2025, Month: 10}
	err := models.DB.Create(&duplicate).Error
	suite.Assert().ErrorIs(err, models.ErrBudgetPeriodNotUnique)

	// Same name in another month is fine
	other := models.Budget{Name: "Cantine", Year: 2025, Month: 11}
	suite.Assert().Nil(models.DB.Create(&other).Error)
}

func (suite *TestSuiteStandard) TestBudgetSoftDelete() {
	budget := suite.createBudget("Transport")
	suite.Require().Nil(models.DB.Delete(&budget).Error)

	var count int64
	suite.Require().Nil(models.DB.Model(&models.Budget{}).Where("id = ?", budget.ID).Count(&count).Error)
	suite.Assert().Equal(int64(0), count)

	suite.Require().Nil(models.DB.Unscoped().Model(&models.Budget{}).Where("id = ?", budget.ID).Count(&count).Error)
	suite.Assert().Equal(int64(1), count)
}
