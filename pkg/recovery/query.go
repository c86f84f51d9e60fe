package recovery

import (
	"github.com/ecole-gestion/backend/internal/types"
	"github.com/ecole-gestion/backend/pkg/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// loadRoster returns the active students bound to the fee configuration.
func loadRoster(db *gorm.DB, configurationID uuid.UUID, filter StudentFilter) ([]models.Student, error) {
	query := db.
		Model(&models.Student{}).
		Joins("JOIN student_fee_configurations ON student_fee_configurations.student_id = students.id").
		Where("student_fee_configurations.fee_configuration_id = ?", configurationID).
		Where("students.active = ?", true)

	var students []models.Student
	err := filter.apply(query).
		Order("students.last_name, students.first_name, students.matricule").
		Find(&students).
		Error
	if err != nil {
		return nil, err
	}

	return students, nil
}

// loadPayments returns the active payments for the tranche made by the students.
func loadPayments(db *gorm.DB, trancheID uuid.UUID, students []models.Student) ([]models.Payment, error) {
	if len(students) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(students))
	for _, s := range students {
		ids = append(ids, s.ID)
	}

	var payments []models.Payment
	err := db.
		Where("tranche_id = ? AND deleted_at IS NULL", trancheID).
		Where("student_id IN ?", ids).
		Order("payment_date").
		Find(&payments).
		Error
	if err != nil {
		return nil, err
	}

	return payments, nil
}

// trancheReport computes the report for a tranche that has already been loaded.
func trancheReport(db *gorm.DB, tranche models.Tranche, filter StudentFilter, today types.Date) (Report, error) {
	students, err := loadRoster(db, tranche.ConfigurationID, filter)
	if err != nil {
		return Report{}, err
	}

	payments, err := loadPayments(db, tranche.ID, students)
	if err != nil {
		return Report{}, err
	}

	report := Compute(tranche, students, payments, today)
	report.Rows = filter.filterRows(report.Rows)
	report.Stats = Summarize(report.Rows)

	return report, nil
}

// ComputeDebtRows computes the debt rows for all students bound to the
// tranche's fee configuration that match the filter.
//
// If the tranche does not exist, models.ErrResourceNotFound is returned.
func ComputeDebtRows(db *gorm.DB, trancheID uuid.UUID, filter StudentFilter, today types.Date) (Report, error) {
	var tranche models.Tranche
	err := db.First(&tranche, "id = ?", trancheID).Error
	if err != nil {
		return Report{}, err
	}

	return trancheReport(db, tranche, filter, today)
}

// ConfigurationReport is the recovery state of all tranches of a fee configuration.
type ConfigurationReport struct {
	Configuration models.FeeConfiguration
	Tranches      []Report
	Stats         Stats
}

// loadTranches returns the active tranches of a configuration in their configured order.
func loadTranches(db *gorm.DB, configurationID uuid.UUID) ([]models.Tranche, error) {
	var tranches []models.Tranche
	err := db.
		Where("configuration_id = ?", configurationID).
		Order("position, due_date").
		Find(&tranches).
		Error
	return tranches, err
}

// ComputeConfiguration computes the reports for every tranche of a fee configuration.
func ComputeConfiguration(db *gorm.DB, configurationID uuid.UUID, filter StudentFilter, today types.Date) (ConfigurationReport, error) {
	var configuration models.FeeConfiguration
	err := db.First(&configuration, "id = ?", configurationID).Error
	if err != nil {
		return ConfigurationReport{}, err
	}

	tranches, err := loadTranches(db, configuration.ID)
	if err != nil {
		return ConfigurationReport{}, err
	}

	result := ConfigurationReport{
		Configuration: configuration,
		Tranches:      make([]Report, 0, len(tranches)),
	}

	var rows []DebtRow
	for _, tranche := range tranches {
		report, err := trancheReport(db, tranche, filter, today)
		if err != nil {
			return ConfigurationReport{}, err
		}

		result.Tranches = append(result.Tranches, report)
		rows = append(rows, report.Rows...)
	}
	result.Stats = Summarize(rows)

	return result, nil
}

// Statement is the recovery state of one student across all tranches of
// the fee configurations they are bound to.
type Statement struct {
	Student models.Student
	Rows    []DebtRow
	Stats   Stats

	// Sum of the payments not assigned to any tranche
	Unassigned decimal.Decimal
}

// StudentStatement computes the statement for a student.
func StudentStatement(db *gorm.DB, studentID uuid.UUID, today types.Date) (Statement, error) {
	var student models.Student
	err := db.Preload("FeeConfigurations").First(&student, "id = ?", studentID).Error
	if err != nil {
		return Statement{}, err
	}

	var studentPayments []models.Payment
	err = db.Where("student_id = ? AND deleted_at IS NULL", student.ID).Find(&studentPayments).Error
	if err != nil {
		return Statement{}, err
	}

	statement := Statement{
		Student:    student,
		Rows:       []DebtRow{},
		Unassigned: decimal.Zero,
	}

	for _, p := range studentPayments {
		if p.TrancheID == nil {
			statement.Unassigned = statement.Unassigned.Add(p.Amount)
		}
	}

	for _, configuration := range student.FeeConfigurations {
		tranches, err := loadTranches(db, configuration.ID)
		if err != nil {
			return Statement{}, err
		}

		for _, tranche := range tranches {
			report := Compute(tranche, []models.Student{student}, studentPayments, today)
			statement.Rows = append(statement.Rows, report.Rows...)
		}
	}
	statement.Stats = Summarize(statement.Rows)

	return statement, nil
}

// TrancheBalance returns how much a student paid for a tranche and how much remains.
func TrancheBalance(db *gorm.DB, studentID, trancheID uuid.UUID) (paid, remaining decimal.Decimal, err error) {
	var tranche models.Tranche
	err = db.First(&tranche, "id = ?", trancheID).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	var total decimal.NullDecimal
	err = db.
		Model(&models.Payment{}).
		Select("SUM(amount)").
		Where("student_id = ? AND tranche_id = ? AND deleted_at IS NULL", studentID, trancheID).
		Find(&total).
		Error
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	paid = decimal.Zero
	if total.Valid {
		paid = total.Decimal
	}

	return paid, tranche.Amount.Sub(paid), nil
}
