package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/ecole-gestion/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment is money received from a student.
//
// A payment without a tranche is recorded but never counted towards any
// tranche's recovery.
type Payment struct {
	DefaultModel
	Student     Student    `gorm:"constraint:OnDelete:CASCADE"`
	StudentID   uuid.UUID  `gorm:"type:uuid;index"`
	Tranche     *Tranche   `gorm:"constraint:OnDelete:SET NULL"`
	TrancheID   *uuid.UUID `gorm:"type:uuid;index"`
	RecordedBy  string
	Amount      decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	PaymentMode PaymentMode
	Reference   string     `gorm:"uniqueIndex:idx_payments_reference"`
	PaymentDate types.Date `gorm:"index"`
	Note        string
}

func (p Payment) Self() string {
	return "Payment"
}

// NewReference generates a payment reference for a payment made on the given day.
func NewReference(day types.Date) string {
	if day.IsZero() {
		day = types.DateOf(time.Now())
	}

	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("PAY-%s-%s", day.Time().Format("20060102"), suffix)
}

func (p *Payment) BeforeSave(_ *gorm.DB) error {
	p.RecordedBy = strings.TrimSpace(p.RecordedBy)
	p.Reference = strings.TrimSpace(p.Reference)
	p.Note = strings.TrimSpace(p.Note)

	if p.TrancheID != nil && *p.TrancheID == uuid.Nil {
		p.TrancheID = nil
	}

	if p.PaymentDate.IsZero() {
		p.PaymentDate = types.DateOf(time.Now())
	}

	if p.PaymentMode == "" {
		p.PaymentMode = PaymentModeCash
	}

	if p.Reference == "" {
		p.Reference = NewReference(p.PaymentDate)
	}

	return nil
}

func (p *Payment) AfterSave(_ *gorm.DB) error {
	if !p.Amount.IsPositive() {
		return ErrPaymentAmountNotPositive
	}

	if !p.PaymentMode.Valid() {
		return ErrPaymentModeInvalid
	}

	return nil
}
