package models

import (
	"strings"

	"gorm.io/gorm"
)

type ExpenseCategory struct {
	DefaultModel
	Name string `gorm:"uniqueIndex:idx_expense_categories_name"`
	Note string
}

func (e ExpenseCategory) Self() string {
	return "Expense Category"
}

func (e *ExpenseCategory) BeforeSave(_ *gorm.DB) error {
	e.Name = strings.TrimSpace(e.Name)
	e.Note = strings.TrimSpace(e.Note)

	return nil
}
