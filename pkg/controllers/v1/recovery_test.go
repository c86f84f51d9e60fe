package v1_test

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/ecole-gestion/backend/internal/test"
	"github.com/ecole-gestion/backend/internal/types"
	v1 "github.com/ecole-gestion/backend/pkg/controllers/v1"
	"github.com/ecole-gestion/backend/pkg/recovery"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var recoveryDay = types.NewDate(2025, 10, 18)

// recoveryScenario is a fee configuration with three tranches, relative to
// recoveryDay: the first one is overdue, the second one urgent and the third
// one not due for a while.
type recoveryScenario struct {
	configuration *v1.FeeConfiguration
	tranches      []*v1.Tranche
	awa           *v1.Student // Settled the first tranche
	moussa        *v1.Student // Paid a quarter of the first tranche
}

func (suite *TestSuiteStandard) createRecoveryScenario() recoveryScenario {
	var s recoveryScenario

	s.configuration = suite.createTestFeeConfiguration(v1.FeeConfigurationEditable{Name: "6ème", TotalAmount: decimal.NewFromInt(300000), Active: true}).Data

	for i, due := range []types.Date{recoveryDay.AddDays(-8), recoveryDay.AddDays(4), types.NewDate(2025, 12, 15)} {
		s.tranches = append(s.tranches, suite.createTestTranche(v1.TrancheEditable{
			ConfigurationID: s.configuration.ID,
			Name:            fmt.Sprintf("Tranche %d", i+1),
			Amount:          decimal.NewFromInt(100000),
			DueDate:         due,
			Position:        i + 1,
		}).Data)
	}

	ids := []uuid.UUID{s.configuration.ID}
	s.awa = suite.createTestStudent(v1.StudentEditable{Matricule: "2025-0001", FirstName: "Awa", LastName: "Diallo", ClassName: "6ème A", GuardianEmail: "m.diallo@example.com", Active: true, FeeConfigurationIDs: ids}).Data
	s.moussa = suite.createTestStudent(v1.StudentEditable{Matricule: "2025-0002", FirstName: "Moussa", LastName: "Traoré", ClassName: "6ème B", Email: "moussa@example.com", Active: true, FeeConfigurationIDs: ids}).Data

	// Neither of them is part of any report
	_ = suite.createTestStudent(v1.StudentEditable{Matricule: "2025-0003", LastName: "Inactif", Active: false, FeeConfigurationIDs: ids})
	unbound := suite.createTestStudent(v1.StudentEditable{Matricule: "2025-0004", LastName: "Ailleurs", Active: true}).Data

	first := s.tranches[0].ID
	_ = suite.createTestPayment(v1.PaymentEditable{StudentID: s.awa.ID, TrancheID: &first, Amount: decimal.NewFromInt(60000), PaymentDate: types.NewDate(2025, 10, 1)})
	_ = suite.createTestPayment(v1.PaymentEditable{StudentID: s.awa.ID, TrancheID: &first, Amount: decimal.NewFromInt(40000), PaymentDate: types.NewDate(2025, 10, 5)})
	_ = suite.createTestPayment(v1.PaymentEditable{StudentID: s.moussa.ID, TrancheID: &first, Amount: decimal.NewFromInt(25000), PaymentDate: types.NewDate(2025, 10, 3)})
	_ = suite.createTestPayment(v1.PaymentEditable{StudentID: unbound.ID, TrancheID: &first, Amount: decimal.NewFromInt(100000)})

	// Unassigned and deleted payments are never counted
	_ = suite.createTestPayment(v1.PaymentEditable{StudentID: s.moussa.ID, Amount: decimal.NewFromInt(5000), PaymentDate: types.NewDate(2025, 10, 4)})
	deleted := suite.createTestPayment(v1.PaymentEditable{StudentID: s.moussa.ID, TrancheID: &first, Amount: decimal.NewFromInt(50000)}).Data
	r := test.Request(suite.T(), http.MethodDelete, deleted.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	return s
}

func (suite *TestSuiteStandard) trancheRecovery(tranche *v1.Tranche, query string, expectedStatus ...int) v1.TrancheRecovery {
	if len(expectedStatus) == 0 {
		expectedStatus = []int{http.StatusOK}
	}

	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("%s?today=%s&%s", tranche.Links.Recovery, recoveryDay, query), "")
	test.AssertHTTPStatus(suite.T(), &r, expectedStatus...)

	var response v1.TrancheRecoveryResponse
	if r.Code == http.StatusOK {
		test.DecodeResponse(suite.T(), &r, &response)
	}
	return response.Data
}

// TestTrancheRecoveryScenario verifies the debt rows and statistics of a tranche
// with one settled and one overdue student.
func (suite *TestSuiteStandard) TestTrancheRecoveryScenario() {
	s := suite.createRecoveryScenario()

	report := suite.trancheRecovery(s.tranches[0], "")
	suite.Require().Len(report.Rows, 2)
	suite.Assert().Equal(recoveryDay, report.Today)

	awa := report.Rows[0]
	suite.Assert().Equal(s.awa.ID, awa.Student.ID)
	suite.Assert().Equal("Diallo Awa", awa.Student.FullName)
	suite.Assert().Equal(recovery.StatusSettled, awa.Status)
	suite.Assert().True(decimal.NewFromInt(100000).Equal(awa.TotalPaid))
	suite.Assert().True(awa.Remaining.IsZero())
	suite.Assert().True(decimal.NewFromInt(100).Equal(awa.PercentPaid))
	suite.Assert().Equal(-8, awa.DaysUntilDue)
	suite.Assert().Equal(2, awa.PaymentCount)
	suite.Require().NotNil(awa.LastPaymentDate)
	suite.Assert().Equal(types.NewDate(2025, 10, 5), *awa.LastPaymentDate)

	moussa := report.Rows[1]
	suite.Assert().Equal(s.moussa.ID, moussa.Student.ID)
	suite.Assert().Equal(recovery.StatusOverdue, moussa.Status)
	suite.Assert().True(decimal.NewFromInt(25000).Equal(moussa.TotalPaid), "Total paid is %s", moussa.TotalPaid)
	suite.Assert().True(decimal.NewFromInt(75000).Equal(moussa.Remaining))
	suite.Assert().True(decimal.NewFromInt(25).Equal(moussa.PercentPaid))
	suite.Assert().Equal(1, moussa.PaymentCount)

	suite.Assert().True(decimal.NewFromInt(200000).Equal(report.Stats.TotalDue))
	suite.Assert().True(decimal.NewFromInt(125000).Equal(report.Stats.TotalPaid))
	suite.Assert().True(decimal.NewFromInt(75000).Equal(report.Stats.TotalRemaining))
	suite.Assert().True(decimal.RequireFromString("62.5").Equal(report.Stats.RecoveryRate), "Recovery rate is %s", report.Stats.RecoveryRate)
	suite.Assert().Equal(2, report.Stats.StudentCount)
	suite.Assert().Equal(2, report.Stats.RowCount)
	suite.Assert().Equal(1, report.Stats.StatusCounts[recovery.StatusSettled])
	suite.Assert().Equal(1, report.Stats.StatusCounts[recovery.StatusOverdue])
	suite.Assert().Equal(0, report.Stats.StatusCounts[recovery.StatusUrgent])

	// Without any payment, the second tranche is urgent for both
	report = suite.trancheRecovery(s.tranches[1], "")
	suite.Require().Len(report.Rows, 2)
	for _, row := range report.Rows {
		suite.Assert().Equal(recovery.StatusUrgent, row.Status)
		suite.Assert().Equal(4, row.DaysUntilDue)
		suite.Assert().Nil(row.LastPaymentDate)
		suite.Assert().True(row.PercentPaid.IsZero())
	}
	suite.Assert().True(report.Stats.RecoveryRate.IsZero())

	report = suite.trancheRecovery(s.tranches[2], "")
	suite.Assert().Equal(2, report.Stats.StatusCounts[recovery.StatusOngoing])
}

func (suite *TestSuiteStandard) TestTrancheRecoveryFilters() {
	s := suite.createRecoveryScenario()

	tests := []struct {
		name     string
		query    string
		students []uuid.UUID
	}{
		{"No filter", "", []uuid.UUID{s.awa.ID, s.moussa.ID}},
		{"By class", url.Values{"class": {"6ème B"}}.Encode(), []uuid.UUID{s.moussa.ID}},
		{"By search", "search=DIALLO", []uuid.UUID{s.awa.ID}},
		{"By matricule search", "search=0002", []uuid.UUID{s.moussa.ID}},
		{"By student", fmt.Sprintf("student=%s", s.moussa.ID), []uuid.UUID{s.moussa.ID}},
		{"By several students", fmt.Sprintf("student=%s&student=%s", s.moussa.ID, s.awa.ID), []uuid.UUID{s.awa.ID, s.moussa.ID}},
		{"By status", url.Values{"status": {recovery.StatusOverdue}}.Encode(), []uuid.UUID{s.moussa.ID}},
		{"By several statuses", url.Values{"status": {recovery.StatusOverdue, recovery.StatusSettled}}.Encode(), []uuid.UUID{s.awa.ID, s.moussa.ID}},
		{"Nothing matches", url.Values{"status": {recovery.StatusUrgent}}.Encode(), []uuid.UUID{}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			report := suite.trancheRecovery(s.tranches[0], tt.query)

			students := make([]uuid.UUID, 0, len(report.Rows))
			for _, row := range report.Rows {
				students = append(students, row.Student.ID)
			}
			assert.Equal(t, tt.students, students)
			assert.Equal(t, len(tt.students), report.Stats.RowCount, "Statistics only cover the returned rows")
		})
	}
}

func (suite *TestSuiteStandard) TestTrancheRecoveryInvalid() {
	s := suite.createRecoveryScenario()

	_ = suite.trancheRecovery(s.tranches[0], "status=Perdu", http.StatusBadRequest)
	_ = suite.trancheRecovery(s.tranches[0], "student=NotAUUID", http.StatusBadRequest)

	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("%s?today=tomorrow", s.tranches[0].Links.Recovery), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	r = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/tranches/%s/recovery", uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

// TestTrancheRecoveryNoStudents verifies that a tranche without bound students
// has no rows and zero statistics.
func (suite *TestSuiteStandard) TestTrancheRecoveryNoStudents() {
	tranche := suite.createTestTranche(v1.TrancheEditable{Name: "Tranche 1", Amount: decimal.NewFromInt(100), DueDate: recoveryDay}).Data

	report := suite.trancheRecovery(tranche, "")
	suite.Assert().Len(report.Rows, 0)
	suite.Assert().True(report.Stats.TotalDue.IsZero())
	suite.Assert().True(report.Stats.RecoveryRate.IsZero())
	suite.Assert().Equal(0, report.Stats.StudentCount)
}

// TestTrancheRecoveryPercentRounding verifies that percentages are rounded
// to one decimal for display.
func (suite *TestSuiteStandard) TestTrancheRecoveryPercentRounding() {
	tranche := suite.createTestTranche(v1.TrancheEditable{Name: "Tranche 1", Amount: decimal.NewFromInt(30000), DueDate: recoveryDay}).Data
	student := suite.createTestStudent(v1.StudentEditable{Active: true, FeeConfigurationIDs: []uuid.UUID{tranche.ConfigurationID}}).Data
	_ = suite.createTestPayment(v1.PaymentEditable{StudentID: student.ID, TrancheID: &tranche.ID, Amount: decimal.NewFromInt(10000)})

	report := suite.trancheRecovery(tranche, "")
	suite.Require().Len(report.Rows, 1)
	suite.Assert().Equal("33.3", report.Rows[0].PercentPaid.String())
	suite.Assert().Equal("33.3", report.Stats.RecoveryRate.String())
	suite.Assert().Equal(recovery.StatusUrgent, report.Rows[0].Status, "A tranche due today is urgent")
}

func (suite *TestSuiteStandard) TestFeeConfigurationRecovery() {
	s := suite.createRecoveryScenario()

	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("%s?today=%s", s.configuration.Links.Recovery, recoveryDay), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ConfigurationRecoveryResponse
	test.DecodeResponse(suite.T(), &r, &response)

	suite.Assert().Equal(s.configuration.ID, response.Data.ConfigurationID)
	suite.Require().Len(response.Data.Tranches, 3)
	suite.Assert().Equal("Tranche 1", response.Data.Tranches[0].Tranche.Name)
	suite.Assert().Equal("Tranche 3", response.Data.Tranches[2].Tranche.Name)

	stats := response.Data.Stats
	suite.Assert().True(decimal.NewFromInt(600000).Equal(stats.TotalDue))
	suite.Assert().True(decimal.NewFromInt(125000).Equal(stats.TotalPaid))
	suite.Assert().Equal(6, stats.RowCount)
	suite.Assert().Equal(2, stats.StudentCount, "Students are counted once across tranches")
	suite.Assert().Equal(2, stats.StatusCounts[recovery.StatusUrgent])
	suite.Assert().Equal(2, stats.StatusCounts[recovery.StatusOngoing])
}

func (suite *TestSuiteStandard) TestStudentStatement() {
	s := suite.createRecoveryScenario()

	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("%s?today=%s", s.moussa.Links.Statement, recoveryDay), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.StatementResponse
	test.DecodeResponse(suite.T(), &r, &response)

	suite.Assert().Equal("2025-0002", response.Data.Student.Matricule)
	suite.Require().Len(response.Data.Rows, 3)
	suite.Assert().Equal(recovery.StatusOverdue, response.Data.Rows[0].Status)
	suite.Assert().Equal(recovery.StatusUrgent, response.Data.Rows[1].Status)
	suite.Assert().Equal(recovery.StatusOngoing, response.Data.Rows[2].Status)
	suite.Assert().True(decimal.NewFromInt(5000).Equal(response.Data.Unassigned), "Unassigned is %s", response.Data.Unassigned)
	suite.Assert().True(decimal.NewFromInt(275000).Equal(response.Data.Stats.TotalRemaining))

	r = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/students/%s/statement", uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestTrancheRecoveryExport() {
	s := suite.createRecoveryScenario()

	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("%s?today=%s", s.tranches[0].Links.Export, recoveryDay), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	suite.Assert().Equal("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", r.Header().Get("Content-Type"))
	suite.Assert().Contains(r.Header().Get("Content-Disposition"), "2025-10-18")
	suite.Assert().Greater(r.Body.Len(), 0)

	r = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("%s?status=Perdu", s.tranches[0].Links.Export), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

// TestTrancheReminders verifies that only unsettled students are reminded.
func (suite *TestSuiteStandard) TestTrancheReminders() {
	s := suite.createRecoveryScenario()
	_ = suite.createTestStudent(v1.StudentEditable{Matricule: "2025-0005", LastName: "Sans adresse", Active: true, FeeConfigurationIDs: []uuid.UUID{s.configuration.ID}})

	// Forget the payment confirmations
	suite.mailer.messages = nil

	r := test.Request(suite.T(), http.MethodPost, fmt.Sprintf("%s/reminders?today=%s", s.tranches[0].Links.Self, recoveryDay), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ReminderSummaryResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal(v1.ReminderSummary{Sent: 1, Skipped: 1, Failed: 0}, response.Data)

	suite.Require().Len(suite.mailer.messages, 1)
	suite.Assert().Equal([]string{"moussa@example.com"}, suite.mailer.messages[0].To)
	suite.Assert().Contains(suite.mailer.messages[0].Subject, recovery.StatusOverdue)

	r = test.Request(suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/tranches/%s/reminders", uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
