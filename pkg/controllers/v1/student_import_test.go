package v1_test

import (
	"fmt"
	"net/http"

	"github.com/ecole-gestion/backend/internal/test"
	v1 "github.com/ecole-gestion/backend/pkg/controllers/v1"
	"github.com/ecole-gestion/backend/pkg/importer"
	"github.com/ecole-gestion/backend/pkg/models"
	"github.com/google/uuid"
)

const roster = `matricule;nom;prénom;classe;email;email tuteur
2025-0001;Diallo;Awa;6ème A;;m.diallo@example.com
2025-0002;Traoré;Moussa;6ème B;moussa@example.com
`

func (suite *TestSuiteStandard) TestStudentImport() {
	configuration := suite.createTestFeeConfiguration(v1.FeeConfigurationEditable{Active: true}).Data
	_ = suite.createTestStudent(v1.StudentEditable{Matricule: "2025-0002", LastName: "Traoré"})

	body, headers := test.Upload(suite.T(), "eleves.csv", []byte(roster))
	r := test.Request(suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/students/import?feeConfiguration=%s", configuration.ID), body, headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var response v1.StudentImportResponse
	test.DecodeResponse(suite.T(), &r, &response)

	suite.Require().Len(response.Data.Created, 1)
	created := response.Data.Created[0]
	suite.Assert().Equal("2025-0001", created.Matricule)
	suite.Assert().Equal("6ème A", created.ClassName)
	suite.Assert().True(created.Active)
	suite.Assert().Equal([]uuid.UUID{configuration.ID}, created.FeeConfigurationIDs)
	suite.Assert().Equal([]string{"2025-0002"}, response.Data.Skipped)

	// Importing the same file again creates nothing
	body, headers = test.Upload(suite.T(), "eleves.csv", []byte(roster))
	r = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/students/import", body, headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Len(response.Data.Created, 0)
	suite.Assert().Len(response.Data.Skipped, 2)
}

func (suite *TestSuiteStandard) TestStudentImportInvalid() {
	body, headers := test.Upload(suite.T(), "eleves.csv", []byte(roster))
	r := test.Request(suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/students/import?feeConfiguration=%s", uuid.New()), body, headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	suite.Assert().Equal(models.ErrReferenceNotFound.Error(), test.DecodeError(suite.T(), r.Body.Bytes()))

	r = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/students/import?feeConfiguration=NotAUUID", body, headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	r = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/students/import", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	body, headers = test.Upload(suite.T(), "eleves.pdf", []byte(roster))
	r = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/students/import", body, headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	suite.Assert().Equal(importer.ErrUnsupportedFormat.Error(), test.DecodeError(suite.T(), r.Body.Bytes()))

	r = test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/students/import", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	suite.Assert().Equal("OPTIONS, POST", r.Header().Get("allow"))
}
