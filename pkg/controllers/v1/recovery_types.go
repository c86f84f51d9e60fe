package v1

import (
	"fmt"

	"github.com/ecole-gestion/backend/internal/types"
	"github.com/ecole-gestion/backend/pkg/httputil"
	"github.com/ecole-gestion/backend/pkg/models"
	"github.com/ecole-gestion/backend/pkg/recovery"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// DebtStudent identifies the student of a debt row.
type DebtStudent struct {
	ID        uuid.UUID `json:"id" example:"6a3e1c55-08f4-4a3b-bf2d-6d0d3c1f4e27"` // ID of the student
	Matricule string    `json:"matricule" example:"2025-0142"`                    // Registration number
	FullName  string    `json:"fullName" example:"Diallo Awa"`                    // Last and first name
	ClassName string    `json:"className" example:"6ème A"`                       // Class of the student
	Link      string    `json:"link" example:"https://example.com/api/v1/students/6a3e1c55-08f4-4a3b-bf2d-6d0d3c1f4e27"`
}

// DebtTranche identifies the tranche of a debt row.
type DebtTranche struct {
	ID      uuid.UUID  `json:"id" example:"d2c5a7f1-4b6e-4d89-a0e3-95f1c7b2e864"`    // ID of the tranche
	Name    string     `json:"name" example:"Deuxième tranche"`                      // Name of the tranche
	DueDate types.Date `json:"dueDate" example:"2025-12-15" swaggertype:"string" format:"date"` // Day the tranche is due
	Link    string     `json:"link" example:"https://example.com/api/v1/tranches/d2c5a7f1-4b6e-4d89-a0e3-95f1c7b2e864"`
}

// DebtRow is the recovery state of one student for one tranche.
type DebtRow struct {
	Student         DebtStudent     `json:"student"`
	Tranche         DebtTranche     `json:"tranche"`
	TotalDue        decimal.Decimal `json:"totalDue" example:"100000"`                                               // Amount of the tranche
	TotalPaid       decimal.Decimal `json:"totalPaid" example:"40000"`                                               // Sum of the payments for the tranche
	Remaining       decimal.Decimal `json:"remaining" example:"60000"`                                               // Amount still to pay. Negative on overpayment
	PercentPaid     decimal.Decimal `json:"percentPaid" example:"40"`                                                // Percentage paid, rounded to one decimal
	Status          string          `json:"status" example:"En retard" enums:"En retard,Urgent,En cours,Réglé"`      // Status label
	DaysUntilDue    int             `json:"daysUntilDue" example:"-5"`                                               // Days until the due date. Negative when the due date has passed
	LastPaymentDate *types.Date     `json:"lastPaymentDate" example:"2025-11-02" swaggertype:"string" format:"date"` // Day of the most recent payment, if any
	PaymentCount    int             `json:"paymentCount" example:"2"`                                                // Number of payments for the tranche
}

func newDebtRow(c *gin.Context, row recovery.DebtRow) DebtRow {
	url := c.GetString(string(models.DBContextURL))

	r := DebtRow{
		Student: DebtStudent{
			ID:        row.Student.ID,
			Matricule: row.Student.Matricule,
			FullName:  row.Student.FullName(),
			ClassName: row.Student.ClassName,
			Link:      fmt.Sprintf("%s/v1/students/%s", url, row.Student.ID),
		},
		Tranche: DebtTranche{
			ID:      row.Tranche.ID,
			Name:    row.Tranche.Name,
			DueDate: row.Tranche.DueDate,
			Link:    fmt.Sprintf("%s/v1/tranches/%s", url, row.Tranche.ID),
		},
		TotalDue:     row.TotalDue,
		TotalPaid:    row.TotalPaid,
		Remaining:    row.Remaining,
		PercentPaid:  row.DisplayPercent(),
		Status:       row.Status,
		DaysUntilDue: row.DaysUntilDue,
		PaymentCount: row.PaymentCount,
	}

	if !row.LastPaymentDate.IsZero() {
		d := row.LastPaymentDate
		r.LastPaymentDate = &d
	}

	return r
}

func newDebtRows(c *gin.Context, rows []recovery.DebtRow) []DebtRow {
	data := make([]DebtRow, 0, len(rows))
	for _, row := range rows {
		data = append(data, newDebtRow(c, row))
	}
	return data
}

// RecoveryStats are the rollups over the returned debt rows.
type RecoveryStats struct {
	TotalDue       decimal.Decimal `json:"totalDue" example:"300000"`       // Sum of the amounts due
	TotalPaid      decimal.Decimal `json:"totalPaid" example:"180000"`      // Sum of the amounts paid
	TotalRemaining decimal.Decimal `json:"totalRemaining" example:"120000"` // Due minus paid
	RecoveryRate   decimal.Decimal `json:"recoveryRate" example:"60"`       // Percentage of the amount due that has been paid, rounded to one decimal
	StudentCount   int             `json:"studentCount" example:"3"`        // Number of distinct students
	RowCount       int             `json:"rowCount" example:"3"`            // Number of debt rows
	StatusCounts   map[string]int  `json:"statusCounts"`                    // Number of rows per status label
}

func newRecoveryStats(stats recovery.Stats) RecoveryStats {
	return RecoveryStats{
		TotalDue:       stats.TotalDue,
		TotalPaid:      stats.TotalPaid,
		TotalRemaining: stats.TotalRemaining,
		RecoveryRate:   stats.RecoveryRate.Round(1),
		StudentCount:   stats.StudentCount,
		RowCount:       stats.RowCount,
		StatusCounts:   stats.StatusCounts,
	}
}

// TrancheRecovery is the recovery state of a tranche.
type TrancheRecovery struct {
	Tranche DebtTranche   `json:"tranche"`
	Today   types.Date    `json:"today" example:"2025-12-20" swaggertype:"string" format:"date"` // The day the state was computed for
	Rows    []DebtRow     `json:"rows"`                                                          // One row per student
	Stats   RecoveryStats `json:"stats"`
}

func newTrancheRecovery(c *gin.Context, report recovery.Report) TrancheRecovery {
	url := c.GetString(string(models.DBContextURL))

	return TrancheRecovery{
		Tranche: DebtTranche{
			ID:      report.Tranche.ID,
			Name:    report.Tranche.Name,
			DueDate: report.Tranche.DueDate,
			Link:    fmt.Sprintf("%s/v1/tranches/%s", url, report.Tranche.ID),
		},
		Today: report.Today,
		Rows:  newDebtRows(c, report.Rows),
		Stats: newRecoveryStats(report.Stats),
	}
}

type TrancheRecoveryResponse struct {
	Data TrancheRecovery `json:"data"`
}

// ConfigurationRecovery is the recovery state of all tranches of a fee configuration.
type ConfigurationRecovery struct {
	ConfigurationID uuid.UUID         `json:"configurationId" example:"3b1f7a2e-5c0d-4a8e-9f61-7d2c4b8e1a90"` // ID of the fee configuration
	Tranches        []TrancheRecovery `json:"tranches"`                                                       // In the order of the tranches
	Stats           RecoveryStats     `json:"stats"`                                                          // Rollups over the rows of all tranches
}

type ConfigurationRecoveryResponse struct {
	Data ConfigurationRecovery `json:"data"`
}

func newConfigurationRecovery(c *gin.Context, report recovery.ConfigurationReport) ConfigurationRecovery {
	tranches := make([]TrancheRecovery, 0, len(report.Tranches))
	for _, r := range report.Tranches {
		tranches = append(tranches, newTrancheRecovery(c, r))
	}

	return ConfigurationRecovery{
		ConfigurationID: report.Configuration.ID,
		Tranches:        tranches,
		Stats:           newRecoveryStats(report.Stats),
	}
}

// Statement is the recovery state of a student across all of their tranches.
type Statement struct {
	Student    DebtStudent     `json:"student"`
	Rows       []DebtRow       `json:"rows"`                       // One row per tranche
	Stats      RecoveryStats   `json:"stats"`                      // Rollups over the rows
	Unassigned decimal.Decimal `json:"unassigned" example:"15000"` // Sum of the payments that are not assigned to a tranche
}

type StatementResponse struct {
	Data Statement `json:"data"`
}

func newStatement(c *gin.Context, s recovery.Statement) Statement {
	url := c.GetString(string(models.DBContextURL))

	return Statement{
		Student: DebtStudent{
			ID:        s.Student.ID,
			Matricule: s.Student.Matricule,
			FullName:  s.Student.FullName(),
			ClassName: s.Student.ClassName,
			Link:      fmt.Sprintf("%s/v1/students/%s", url, s.Student.ID),
		},
		Rows:       newDebtRows(c, s.Rows),
		Stats:      newRecoveryStats(s.Stats),
		Unassigned: s.Unassigned,
	}
}

// RecoveryQueryFilter restricts the students of a recovery report.
type RecoveryQueryFilter struct {
	Student []string `form:"student"` // By student ID. Can be repeated
	Class   string   `form:"class"`   // By class name
	Search  string   `form:"search"`  // By string in matricule, first or last name
	Status  []string `form:"status"`  // By status label. Can be repeated
	Today   string   `form:"today"`   // Compute the state for this day instead of the current one, YYYY-MM-DD
}

// parse returns the student filter and the day to compute the report for.
func (f RecoveryQueryFilter) parse() (recovery.StudentFilter, types.Date, error) {
	filter := recovery.StudentFilter{
		ClassName: f.Class,
		Search:    f.Search,
	}

	for _, s := range f.Student {
		id, err := httputil.UUIDFromString(s)
		if err != nil {
			return recovery.StudentFilter{}, types.Date{}, err
		}
		filter.StudentIDs = append(filter.StudentIDs, id)
	}

	for _, s := range f.Status {
		if !slices.Contains(recovery.Statuses(), s) {
			return recovery.StudentFilter{}, types.Date{}, errRecoveryStatusInvalid
		}
		filter.Status = append(filter.Status, s)
	}

	day, err := httputil.DateFromString(f.Today)
	if err != nil {
		return recovery.StudentFilter{}, types.Date{}, err
	}

	if day.IsZero() {
		day = today()
	}

	return filter, day, nil
}
