package v1

import (
	"fmt"

	"github.com/ecole-gestion/backend/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// FeeConfigurationEditable represents all user configurable parameters
type FeeConfigurationEditable struct {
	SchoolYear  string          `json:"schoolYear" example:"2025-2026"`                                 // The school year the fees apply to
	Name        string          `json:"name" example:"Frais de scolarité 6ème"`                       // Name of the configuration
	Note        string          `json:"note" example:"Inscription comprise"`                            // A longer description
	TotalAmount decimal.Decimal `json:"totalAmount" example:"300000" minimum:"0" multipleOf:"0.00000001"` // The total fee for one student
	Active      bool            `json:"active" example:"true"`                                          // Only tranches of active configurations get scheduled reminders
}

func (editable FeeConfigurationEditable) model() models.FeeConfiguration {
	return models.FeeConfiguration{
		SchoolYear:  editable.SchoolYear,
		Name:        editable.Name,
		Note:        editable.Note,
		TotalAmount: editable.TotalAmount,
		Active:      editable.Active,
	}
}

type FeeConfigurationLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/fee-configurations/3b1f7a2e-5c0d-4a8e-9f61-7d2c4b8e1a90"`          // The configuration itself
	Tranches string `json:"tranches" example:"https://example.com/api/v1/tranches?configuration=3b1f7a2e-5c0d-4a8e-9f61-7d2c4b8e1a90"`   // Tranches of the configuration
	Recovery string `json:"recovery" example:"https://example.com/api/v1/fee-configurations/3b1f7a2e-5c0d-4a8e-9f61-7d2c4b8e1a90/recovery"` // Recovery state of all tranches
}

// FeeConfiguration is the API representation of a FeeConfiguration.
type FeeConfiguration struct {
	models.DefaultModel
	FeeConfigurationEditable
	Links FeeConfigurationLinks `json:"links"`

	// These fields are computed
	TrancheTotal decimal.Decimal `json:"trancheTotal" example:"300000"` // Sum of the amounts of all tranches
	Balanced     bool            `json:"balanced" example:"true"`       // Does the sum of the tranches match the total amount?
}

func newFeeConfiguration(c *gin.Context, model models.FeeConfiguration) (FeeConfiguration, error) {
	url := c.GetString(string(models.DBContextURL))

	total, err := model.TrancheTotal(models.DB)
	if err != nil {
		return FeeConfiguration{}, err
	}

	return FeeConfiguration{
		DefaultModel: model.DefaultModel,
		FeeConfigurationEditable: FeeConfigurationEditable{
			SchoolYear:  model.SchoolYear,
			Name:        model.Name,
			Note:        model.Note,
			TotalAmount: model.TotalAmount,
			Active:      model.Active,
		},
		TrancheTotal: total,
		Balanced:     total.Equal(model.TotalAmount),
		Links: FeeConfigurationLinks{
			Self:     fmt.Sprintf("%s/v1/fee-configurations/%s", url, model.ID),
			Tranches: fmt.Sprintf("%s/v1/tranches?configuration=%s", url, model.ID),
			Recovery: fmt.Sprintf("%s/v1/fee-configurations/%s/recovery", url, model.ID),
		},
	}, nil
}

type FeeConfigurationListResponse struct {
	Data       []FeeConfiguration `json:"data"`       // List of fee configurations
	Pagination Pagination         `json:"pagination"` // Pagination information
}

type FeeConfigurationCreateResponse struct {
	Data []FeeConfigurationResponse `json:"data"` // List of created fee configurations or their respective error
}

func (f *FeeConfigurationCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	f.Data = append(f.Data, FeeConfigurationResponse{Error: &s})

	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type FeeConfigurationResponse struct {
	Data  *FeeConfiguration `json:"data"`                                                                                  // Data for the fee configuration
	Error *string           `json:"error" example:"a fee configuration with this name already exists for the school year"` // The error, if any occurred for this fee configuration
}

type FeeConfigurationQueryFilter struct {
	SchoolYear string `form:"schoolYear"`                 // By school year
	Name       string `form:"name" filterField:"false"`   // By name
	Note       string `form:"note" filterField:"false"`   // By note
	Active     bool   `form:"active"`                     // Is the configuration active?
	Search     string `form:"search" filterField:"false"` // By string in name or note
	Offset     uint   `form:"offset" filterField:"false"` // The offset of the first fee configuration returned. Defaults to 0.
	Limit      int    `form:"limit" filterField:"false"`  // Maximum number of fee configurations to return. Defaults to 50.
}

func (f FeeConfigurationQueryFilter) model() models.FeeConfiguration {
	return models.FeeConfiguration{
		SchoolYear: f.SchoolYear,
		Active:     f.Active,
	}
}
