package models

import (
	"strings"

	"github.com/ecole-gestion/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Tranche is an installment of a fee configuration with its own due date.
type Tranche struct {
	DefaultModel
	ConfigurationID uuid.UUID `gorm:"type:uuid;index"`
	Name            string
	Amount          decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	DueDate         types.Date
	Position        int `gorm:"column:position"`
}

func (t Tranche) Self() string {
	return "Tranche"
}

func (t *Tranche) BeforeSave(_ *gorm.DB) error {
	t.Name = strings.TrimSpace(t.Name)

	return nil
}

func (t *Tranche) AfterSave(_ *gorm.DB) error {
	if !t.Amount.IsPositive() {
		return ErrTrancheAmountNotPositive
	}

	if t.DueDate.IsZero() {
		return ErrTrancheDueDateNotSet
	}

	return nil
}
