package v1_test

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/ecole-gestion/backend/internal/test"
	v1 "github.com/ecole-gestion/backend/pkg/controllers/v1"
	"github.com/ecole-gestion/backend/pkg/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestStudentCreate() {
	configuration := suite.createTestFeeConfiguration(v1.FeeConfigurationEditable{}).Data

	student := suite.createTestStudent(v1.StudentEditable{
		Matricule:           " 2025-0142 ",
		FirstName:           "Awa",
		LastName:            "Diallo",
		Active:              true,
		FeeConfigurationIDs: []uuid.UUID{configuration.ID, configuration.ID},
	}).Data

	suite.Assert().Equal("2025-0142", student.Matricule)
	suite.Assert().Equal([]uuid.UUID{configuration.ID}, student.FeeConfigurationIDs, "Duplicate IDs are bound once")
	suite.Assert().Equal(fmt.Sprintf("http://example.com/v1/students/%s/statement", student.ID), student.Links.Statement)

	tests := []struct {
		name    string
		student v1.StudentEditable
		err     error
	}{
		{"Duplicate matricule", v1.StudentEditable{Matricule: "2025-0142"}, models.ErrStudentMatriculeNotUnique},
		{"No matricule", v1.StudentEditable{Matricule: "  "}, models.ErrStudentMatriculeNotSet},
		{"Invalid email", v1.StudentEditable{Matricule: "2025-0144", Email: "awa.example.com"}, models.ErrStudentEmailInvalid},
		{"Unknown fee configuration", v1.StudentEditable{Matricule: "2025-0143", FeeConfigurationIDs: []uuid.UUID{uuid.New()}}, models.ErrReferenceNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/students", []v1.StudentEditable{tt.student})
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)

			var response v1.StudentCreateResponse
			test.DecodeResponse(t, &r, &response)
			assert.Equal(t, tt.err.Error(), *response.Data[0].Error)
		})
	}

	// A failed binding does not leave the student behind
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/students?matricule=2025-0143", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var list v1.StudentListResponse
	test.DecodeResponse(suite.T(), &r, &list)
	suite.Assert().Len(list.Data, 0)
}

func (suite *TestSuiteStandard) TestStudentsList() {
	sixth := suite.createTestFeeConfiguration(v1.FeeConfigurationEditable{Name: "6ème"}).Data
	fifth := suite.createTestFeeConfiguration(v1.FeeConfigurationEditable{Name: "5ème"}).Data

	_ = suite.createTestStudent(v1.StudentEditable{Matricule: "A-1", FirstName: "Moussa", LastName: "Traoré", ClassName: "6ème B", Active: true, FeeConfigurationIDs: []uuid.UUID{sixth.ID}})
	_ = suite.createTestStudent(v1.StudentEditable{Matricule: "A-2", FirstName: "Awa", LastName: "Diallo", ClassName: "6ème A", Active: true, FeeConfigurationIDs: []uuid.UUID{sixth.ID}})
	_ = suite.createTestStudent(v1.StudentEditable{Matricule: "B-1", FirstName: "Fatou", LastName: "Camara", ClassName: "5ème A", FeeConfigurationIDs: []uuid.UUID{fifth.ID}})

	tests := []struct {
		name       string
		query      string
		matricules []string
		status     int
	}{
		{"All, by name", "", []string{"B-1", "A-2", "A-1"}, http.StatusOK},
		{"By class", url.Values{"class": {"6ème A"}}.Encode(), []string{"A-2"}, http.StatusOK},
		{"Active", "active=true", []string{"A-2", "A-1"}, http.StatusOK},
		{"Inactive", "active=false", []string{"B-1"}, http.StatusOK},
		{"By fee configuration", fmt.Sprintf("feeConfiguration=%s", sixth.ID), []string{"A-2", "A-1"}, http.StatusOK},
		{"By matricule", "matricule=B-", []string{"B-1"}, http.StatusOK},
		{"Search", "search=fatou", []string{"B-1"}, http.StatusOK},
		{"Limit", "limit=1", []string{"B-1"}, http.StatusOK},
		{"Invalid fee configuration", "feeConfiguration=NotAUUID", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/students?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status != http.StatusOK {
				return
			}

			var response v1.StudentListResponse
			test.DecodeResponse(t, &r, &response)

			matricules := make([]string, 0, len(response.Data))
			for _, student := range response.Data {
				matricules = append(matricules, student.Matricule)
			}
			assert.Equal(t, tt.matricules, matricules)
		})
	}
}

// TestStudentUpdateFeeConfigurations verifies that setting the fee
// configurations replaces the current ones and that other updates keep them.
func (suite *TestSuiteStandard) TestStudentUpdateFeeConfigurations() {
	sixth := suite.createTestFeeConfiguration(v1.FeeConfigurationEditable{Name: "6ème"}).Data
	fifth := suite.createTestFeeConfiguration(v1.FeeConfigurationEditable{Name: "5ème"}).Data
	student := suite.createTestStudent(v1.StudentEditable{Active: true, FeeConfigurationIDs: []uuid.UUID{sixth.ID}}).Data

	r := test.Request(suite.T(), http.MethodPatch, student.Links.Self, map[string]any{"className": "5ème A"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.StudentResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("5ème A", response.Data.ClassName)
	suite.Assert().Equal([]uuid.UUID{sixth.ID}, response.Data.FeeConfigurationIDs)

	r = test.Request(suite.T(), http.MethodPatch, student.Links.Self, map[string]any{"feeConfigurationIds": []uuid.UUID{fifth.ID}})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal([]uuid.UUID{fifth.ID}, response.Data.FeeConfigurationIDs)

	r = test.Request(suite.T(), http.MethodGet, student.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal([]uuid.UUID{fifth.ID}, response.Data.FeeConfigurationIDs)
	suite.Assert().Equal("5ème A", response.Data.ClassName)

	r = test.Request(suite.T(), http.MethodPatch, student.Links.Self, map[string]any{"feeConfigurationIds": []uuid.UUID{uuid.New()}})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	suite.Assert().Equal(models.ErrReferenceNotFound.Error(), test.DecodeError(suite.T(), r.Body.Bytes()))

	r = test.Request(suite.T(), http.MethodPatch, student.Links.Self, map[string]any{"feeConfigurationIds": []uuid.UUID{}})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Len(response.Data.FeeConfigurationIDs, 0)
}

func (suite *TestSuiteStandard) TestStudentDelete() {
	student := suite.createTestStudent(v1.StudentEditable{Active: true}).Data
	payment := suite.createTestPayment(v1.PaymentEditable{StudentID: student.ID, Amount: decimal.NewFromInt(100)}).Data

	r := test.Request(suite.T(), http.MethodDelete, student.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, student.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	r = test.Request(suite.T(), http.MethodGet, payment.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	r = test.Request(suite.T(), http.MethodDelete, fmt.Sprintf("http://example.com/v1/students/%s", uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestStudentOptions() {
	student := suite.createTestStudent(v1.StudentEditable{}).Data

	r := test.Request(suite.T(), http.MethodOptions, student.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	suite.Assert().Equal("OPTIONS, GET, PATCH, DELETE", r.Header().Get("allow"))

	r = test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/students", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	suite.Assert().Equal("OPTIONS, GET, POST", r.Header().Get("allow"))
}
