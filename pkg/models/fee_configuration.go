package models

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FeeConfiguration is the fee schedule for one school year.
//
// The amounts of its tranches are expected to add up to TotalAmount,
// but this is not enforced.
type FeeConfiguration struct {
	DefaultModel
	SchoolYear  string `gorm:"uniqueIndex:idx_fee_configuration_year_name,priority:1"`
	Name        string `gorm:"uniqueIndex:idx_fee_configuration_year_name,priority:2"`
	Note        string
	TotalAmount decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Active      bool
	Tranches    []Tranche `gorm:"foreignKey:ConfigurationID;constraint:OnDelete:CASCADE"`
}

func (f FeeConfiguration) Self() string {
	return "Fee Configuration"
}

func (f *FeeConfiguration) BeforeSave(_ *gorm.DB) error {
	f.SchoolYear = strings.TrimSpace(f.SchoolYear)
	f.Name = strings.TrimSpace(f.Name)
	f.Note = strings.TrimSpace(f.Note)

	return nil
}

// TrancheTotal returns the sum of the amounts of all active tranches.
func (f FeeConfiguration) TrancheTotal(db *gorm.DB) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := db.
		Model(&Tranche{}).
		Select("SUM(amount)").
		Where("configuration_id = ?", f.ID).
		Find(&total).
		Error
	if err != nil {
		return decimal.Zero, err
	}

	// Without tranches, the value is nil
	if !total.Valid {
		return decimal.Zero, nil
	}

	return total.Decimal, nil
}
