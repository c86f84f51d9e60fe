package models_test

import (
	"testing"

	"github.com/ecole-gestion/backend/pkg/models"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestStudentTrimWhitespace() {
	student := models.Student{
		Matricule:     " 2025-0001 ",
		LastName:      " Diallo",
		Email:         " awa@example.com ",
		GuardianEmail: "m.diallo@example.com  ",
	}
	suite.Require().Nil(models.DB.Create(&student).Error)

	suite.Assert().Equal("2025-0001", student.Matricule)
	suite.Assert().Equal("Diallo", student.LastName)
	suite.Assert().Equal("awa@example.com", student.Email)
	suite.Assert().Equal("m.diallo@example.com", student.GuardianEmail)
}

func (suite *TestSuiteStandard) TestStudentValidation() {
	tests := []struct {
		name    string
		student models.Student
		err     error
	}{
		{"No matricule", models.Student{Matricule: " "}, models.ErrStudentMatriculeNotSet},
		{"Email without domain", models.Student{Matricule: "A-1", Email: "awa@"}, models.ErrStudentEmailInvalid},
		{"Email with name", models.Student{Matricule: "A-2", Email: "Awa <awa@example.com>"}, models.ErrStudentEmailInvalid},
		{"Guardian email", models.Student{Matricule: "A-3", Email: "awa@example.com", GuardianEmail: "m.diallo example.com"}, models.ErrStudentGuardianEmailInvalid},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			err := models.DB.Create(&tt.student).Error
			assert.ErrorIs(t, err, tt.err)
		})
	}

	// Failed validations are rolled back
	var count int64
	suite.Require().Nil(models.DB.Model(&models.Student{}).Count(&count).Error)
	suite.Assert().Equal(int64(0), count)

	// Addresses are optional
	suite.Assert().Nil(models.DB.Create(&models.Student{Matricule: "A-4"}).Error)
}
