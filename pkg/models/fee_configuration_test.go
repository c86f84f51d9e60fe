package models_test

import (
	"github.com/ecole-gestion/backend/internal/types"
	"github.com/ecole-gestion/backend/pkg/models"
)

func (suite *TestSuiteStandard) TestFeeConfigurationTrancheTotal() {
	configuration := models.FeeConfiguration{
		SchoolYear:  "2025-2026",
		Name:        "Scolarité 6e",
		TotalAmount: decimalFromString("150000"),
		Tranches: []models.Tranche{
			{Name: "Tranche 1", Amount: decimalFromString("60000"), DueDate: types.NewDate(2025, 10, 15), Position: 1},
			{Name: "Tranche 2", Amount: decimalFromString("50000"), DueDate: types.NewDate(2026, 1, 15), Position: 2},
		},
	}
	suite.Require().Nil(models.DB.Create(&configuration).Error)

	total, err := configuration.TrancheTotal(models.DB)
	suite.Require().Nil(err)
	suite.Assert().True(total.Equal(decimalFromString("110000")), "Tranche total is %s", total)

	// Soft deleted tranches are not counted
	suite.Require().Nil(models.DB.Delete(&configuration.Tranches[1]).Error)
	total, err = configuration.TrancheTotal(models.DB)
	suite.Require().Nil(err)
	suite.Assert().True(total.Equal(decimalFromString("60000")), "Tranche total is %s", total)
}

func (suite *TestSuiteStandard) TestFeeConfigurationTrancheTotalEmpty() {
	configuration := models.FeeConfiguration{SchoolYear: "2025-2026", Name: "Cantine"}
	suite.Require().Nil(models.DB.Create(&configuration).Error)

	total, err := configuration.TrancheTotal(models.DB)
	suite.Require().Nil(err)
	suite.Assert().True(total.IsZero())
}

func (suite *TestSuiteStandard) TestFeeConfigurationUnique() {
	suite.Require().Nil(models.DB.Create(&models.FeeConfiguration{SchoolYear: "2025-2026", Name: "Scolarité"}).Error)

	err := models.DB.Create(&models.FeeConfiguration{SchoolYear: "2025-2026", Name: "Scolarité"}).Error
	suite.Assert().ErrorIs(err, models.ErrFeeConfigurationNotUnique)

	suite.Assert().Nil(models.DB.Create(&models.FeeConfiguration{SchoolYear: "2026-2027", Name: "Scolarité"}).Error)
}

func (suite *TestSuiteStandard) TestTrancheValidation() {
	configuration := models.FeeConfiguration{SchoolYear: "2025-2026", Name: "Scolarité"}
	suite.Require().Nil(models.DB.Create(&configuration).Error)

	err := models.DB.Create(&models.Tranche{ConfigurationID: configuration.ID, Amount: decimalFromString("0"), DueDate: types.NewDate(2025, 10, 1)}).Error
	suite.Assert().ErrorIs(err, models.ErrTrancheAmountNotPositive)

	err = models.DB.Create(&models.Tranche{ConfigurationID: configuration.ID, Amount: decimalFromString("100")}).Error
	suite.Assert().ErrorIs(err, models.ErrTrancheDueDateNotSet)
}
