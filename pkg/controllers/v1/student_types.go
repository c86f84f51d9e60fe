package v1

import (
	"fmt"

	ez_uuid "github.com/ecole-gestion/backend/internal/uuid"
	"github.com/ecole-gestion/backend/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StudentEditable represents all user configurable parameters
type StudentEditable struct {
	Matricule     string `json:"matricule" example:"2025-0142"`                   // Registration number, unique
	FirstName     string `json:"firstName" example:"Awa"`                         // First name
	LastName      string `json:"lastName" example:"Diallo"`                       // Last name
	ClassName     string `json:"className" example:"6ème A"`                      // Class of the student
	Email         string `json:"email" example:"awa.diallo@example.com"`          // Address of the student
	GuardianEmail string `json:"guardianEmail" example:"m.diallo@example.com"`    // Address of the guardian. Preferred for payment mails
	Active        bool   `json:"active" example:"true"`                           // Only active students appear in recovery reports

	// The fee configurations the student has to pay. Replaces all current configurations when set.
	FeeConfigurationIDs []uuid.UUID `json:"feeConfigurationIds" example:"3b1f7a2e-5c0d-4a8e-9f61-7d2c4b8e1a90"`
}

func (editable StudentEditable) model() models.Student {
	return models.Student{
		Matricule:     editable.Matricule,
		FirstName:     editable.FirstName,
		LastName:      editable.LastName,
		ClassName:     editable.ClassName,
		Email:         editable.Email,
		GuardianEmail: editable.GuardianEmail,
		Active:        editable.Active,
	}
}

type StudentLinks struct {
	Self      string `json:"self" example:"https://example.com/api/v1/students/6a3e1c55-08f4-4a3b-bf2d-6d0d3c1f4e27"`              // The student itself
	Payments  string `json:"payments" example:"https://example.com/api/v1/payments?student=6a3e1c55-08f4-4a3b-bf2d-6d0d3c1f4e27"` // Payments of the student
	Statement string `json:"statement" example:"https://example.com/api/v1/students/6a3e1c55-08f4-4a3b-bf2d-6d0d3c1f4e27/statement"` // Recovery state across all tranches
}

type Student struct {
	models.DefaultModel
	StudentEditable
	Links StudentLinks `json:"links"`
}

// newStudent returns the API representation. The fee configurations of the model must be loaded.
func newStudent(c *gin.Context, model models.Student) Student {
	url := c.GetString(string(models.DBContextURL))

	ids := make([]uuid.UUID, 0, len(model.FeeConfigurations))
	for _, configuration := range model.FeeConfigurations {
		ids = append(ids, configuration.ID)
	}

	return Student{
		DefaultModel: model.DefaultModel,
		StudentEditable: StudentEditable{
			Matricule:           model.Matricule,
			FirstName:           model.FirstName,
			LastName:            model.LastName,
			ClassName:           model.ClassName,
			Email:               model.Email,
			GuardianEmail:       model.GuardianEmail,
			Active:              model.Active,
			FeeConfigurationIDs: ids,
		},
		Links: StudentLinks{
			Self:      fmt.Sprintf("%s/v1/students/%s", url, model.ID),
			Payments:  fmt.Sprintf("%s/v1/payments?student=%s", url, model.ID),
			Statement: fmt.Sprintf("%s/v1/students/%s/statement", url, model.ID),
		},
	}
}

type StudentListResponse struct {
	Data       []Student  `json:"data"`       // List of students
	Pagination Pagination `json:"pagination"` // Pagination information
}

type StudentCreateResponse struct {
	Data []StudentResponse `json:"data"` // List of created students or their respective error
}

func (s *StudentCreateResponse) appendError(err error, currentStatus int) int {
	e := err.Error()
	s.Data = append(s.Data, StudentResponse{Error: &e})

	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type StudentResponse struct {
	Data  *Student `json:"data"`                                        // Data for the student
	Error *string  `json:"error" example:"the matricule must be unique"` // The error, if any occurred for this student
}

type StudentQueryFilter struct {
	Matricule          string       `form:"matricule" filterField:"false"`        // By matricule
	ClassName          string       `form:"class"`                                // By class
	Active             bool         `form:"active"`                               // Is the student active?
	FeeConfigurationID ez_uuid.UUID `form:"feeConfiguration" filterField:"false"` // By ID of a fee configuration the student is bound to
	Search             string       `form:"search" filterField:"false"`           // By string in matricule, first or last name
	Offset             uint         `form:"offset" filterField:"false"`           // The offset of the first student returned. Defaults to 0.
	Limit              int          `form:"limit" filterField:"false"`            // Maximum number of students to return. Defaults to 50.
}

func (f StudentQueryFilter) model() models.Student {
	return models.Student{
		ClassName: f.ClassName,
		Active:    f.Active,
	}
}

// StudentImport lists the result of a roster import.
type StudentImport struct {
	Created []Student `json:"created"`                     // Students that were created
	Skipped []string  `json:"skipped" example:"2025-0142"` // Matricules that already existed
}

type StudentImportResponse struct {
	Data StudentImport `json:"data"`
}
