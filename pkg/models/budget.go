package models

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Budget is the allocation for one named budget line in a calendar month.
//
// SpentAmount is a materialized running total. It is only ever changed by
// the ledger through atomic increments, never through the API.
type Budget struct {
	DefaultModel
	Year            int    `gorm:"uniqueIndex:idx_budget_period_name,priority:1"`
	Month           int    `gorm:"uniqueIndex:idx_budget_period_name,priority:2;check:month_valid,month >= 1 AND month <= 12"`
	Name            string `gorm:"uniqueIndex:idx_budget_period_name,priority:3"`
	Note            string
	AllocatedAmount decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	SpentAmount     decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Active          bool
}

func (b Budget) Self() string {
	return "Budget"
}

// RemainingAmount is the allocated amount that has not been spent yet.
func (b Budget) RemainingAmount() decimal.Decimal {
	return b.AllocatedAmount.Sub(b.SpentAmount)
}

func (b *Budget) BeforeSave(_ *gorm.DB) error {
	b.Name = strings.TrimSpace(b.Name)
	b.Note = strings.TrimSpace(b.Note)

	return nil
}

func (b *Budget) AfterSave(_ *gorm.DB) error {
	if b.AllocatedAmount.IsNegative() {
		return ErrBudgetAllocationNegative
	}

	if b.Month < 1 || b.Month > 12 {
		return ErrBudgetMonthInvalid
	}

	if b.Year < 1900 || b.Year > 9999 {
		return ErrBudgetYearInvalid
	}

	return nil
}
