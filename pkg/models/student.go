package models

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

var validate = validator.New()

type Student struct {
	DefaultModel
	Matricule         string `gorm:"uniqueIndex:idx_students_matricule"`
	FirstName         string
	LastName          string
	ClassName         string `gorm:"index"`
	Email             string
	GuardianEmail     string
	Active            bool
	FeeConfigurations []FeeConfiguration `gorm:"many2many:student_fee_configurations"`
}

func (s Student) Self() string {
	return "Student"
}

// FullName returns the name of the student as printed on documents.
func (s Student) FullName() string {
	return strings.TrimSpace(fmt.Sprintf("%s %s", s.LastName, s.FirstName))
}

// Recipient returns the address that mails about the student are sent to.
//
// Guardians are preferred since they are the ones paying the fees.
func (s Student) Recipient() string {
	if s.GuardianEmail != "" {
		return s.GuardianEmail
	}
	return s.Email
}

func (s *Student) BeforeSave(_ *gorm.DB) error {
	s.Matricule = strings.TrimSpace(s.Matricule)
	s.FirstName = strings.TrimSpace(s.FirstName)
	s.LastName = strings.TrimSpace(s.LastName)
	s.ClassName = strings.TrimSpace(s.ClassName)
	s.Email = strings.TrimSpace(s.Email)
	s.GuardianEmail = strings.TrimSpace(s.GuardianEmail)

	return nil
}

func (s *Student) AfterSave(_ *gorm.DB) error {
	return s.Validate()
}

// Validate checks the student for values that can never be persisted.
//
// Addresses must be bare addresses, "Name <address>" is rejected since
// mails are sent to the address as is.
func (s Student) Validate() error {
	if s.Matricule == "" {
		return ErrStudentMatriculeNotSet
	}

	if s.Email != "" && validate.Var(s.Email, "email") != nil {
		return ErrStudentEmailInvalid
	}

	if s.GuardianEmail != "" && validate.Var(s.GuardianEmail, "email") != nil {
		return ErrStudentGuardianEmailInvalid
	}

	return nil
}
