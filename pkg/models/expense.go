package models

import (
	"strings"

	"github.com/ecole-gestion/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ExpenseStatus string

const (
	ExpenseStatusDraft    ExpenseStatus = "draft"
	ExpenseStatusPending  ExpenseStatus = "pending"
	ExpenseStatusApproved ExpenseStatus = "approved"
	ExpenseStatusRejected ExpenseStatus = "rejected"
	ExpenseStatusPaid     ExpenseStatus = "paid"
)

// Valid reports if the status is one of the known statuses.
func (s ExpenseStatus) Valid() bool {
	switch s {
	case ExpenseStatusDraft, ExpenseStatusPending, ExpenseStatusApproved, ExpenseStatusRejected, ExpenseStatusPaid:
		return true
	}
	return false
}

type PaymentMode string

const (
	PaymentModeCash        PaymentMode = "cash"
	PaymentModeCheck       PaymentMode = "check"
	PaymentModeTransfer    PaymentMode = "transfer"
	PaymentModeMobileMoney PaymentMode = "mobile_money"
	PaymentModeCard        PaymentMode = "card"
)

func (m PaymentMode) Valid() bool {
	switch m {
	case PaymentModeCash, PaymentModeCheck, PaymentModeTransfer, PaymentModeMobileMoney, PaymentModeCard:
		return true
	}
	return false
}

// Expense is a single expenditure charged against a budget.
//
// Only expenses with status paid count towards the spent amount of their budget.
type Expense struct {
	DefaultModel
	Budget      Budget          `gorm:"constraint:OnDelete:CASCADE"`
	BudgetID    uuid.UUID       `gorm:"type:uuid;index"`
	Category    ExpenseCategory `gorm:"constraint:OnDelete:RESTRICT"`
	CategoryID  uuid.UUID       `gorm:"type:uuid;index"`
	Amount      decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Status      ExpenseStatus   `gorm:"index"`
	PaymentMode PaymentMode
	Beneficiary string
	Date        types.Date
	Reference   string
	Note        string
}

func (e Expense) Self() string {
	return "Expense"
}

// Paid reports if the expense counts towards the spent amount of its budget.
func (e Expense) Paid() bool {
	return e.Status == ExpenseStatusPaid
}

func (e *Expense) BeforeSave(_ *gorm.DB) error {
	e.Beneficiary = strings.TrimSpace(e.Beneficiary)
	e.Reference = strings.TrimSpace(e.Reference)
	e.Note = strings.TrimSpace(e.Note)

	if e.Status == "" {
		e.Status = ExpenseStatusDraft
	}

	if e.PaymentMode == "" {
		e.PaymentMode = PaymentModeCash
	}

	return nil
}

func (e *Expense) AfterSave(_ *gorm.DB) error {
	return e.Validate()
}

// Validate checks the expense for values that can never be persisted.
func (e Expense) Validate() error {
	if !e.Amount.IsPositive() {
		return ErrExpenseAmountNotPositive
	}

	if !e.Status.Valid() {
		return ErrExpenseStatusInvalid
	}

	if !e.PaymentMode.Valid() {
		return ErrPaymentModeInvalid
	}

	return nil
}
