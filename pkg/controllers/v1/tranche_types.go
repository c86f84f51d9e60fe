package v1

import (
	"fmt"

	"github.com/ecole-gestion/backend/internal/types"
	ez_uuid "github.com/ecole-gestion/backend/internal/uuid"
	"github.com/ecole-gestion/backend/pkg/jobs"
	"github.com/ecole-gestion/backend/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TrancheEditable represents all user configurable parameters
type TrancheEditable struct {
	ConfigurationID uuid.UUID       `json:"configurationId" example:"3b1f7a2e-5c0d-4a8e-9f61-7d2c4b8e1a90"`                          // ID of the fee configuration
	Name            string          `json:"name" example:"Première tranche"`                                                         // Name of the tranche
	Amount          decimal.Decimal `json:"amount" example:"100000" minimum:"0.00000001" multipleOf:"0.00000001"`                    // Amount due for the tranche
	DueDate         types.Date      `json:"dueDate" example:"2025-10-15" swaggertype:"string" format:"date"`                         // Day the tranche is due
	Position        int             `json:"position" example:"1"`                                                                    // Order of the tranche within its configuration
}

func (editable TrancheEditable) model() models.Tranche {
	return models.Tranche{
		ConfigurationID: editable.ConfigurationID,
		Name:            editable.Name,
		Amount:          editable.Amount,
		DueDate:         editable.DueDate,
		Position:        editable.Position,
	}
}

type TrancheLinks struct {
	Self          string `json:"self" example:"https://example.com/api/v1/tranches/d2c5a7f1-4b6e-4d89-a0e3-95f1c7b2e864"`                    // The tranche itself
	Configuration string `json:"configuration" example:"https://example.com/api/v1/fee-configurations/3b1f7a2e-5c0d-4a8e-9f61-7d2c4b8e1a90"` // The fee configuration of the tranche
	Payments      string `json:"payments" example:"https://example.com/api/v1/payments?tranche=d2c5a7f1-4b6e-4d89-a0e3-95f1c7b2e864"`       // Payments for the tranche
	Recovery      string `json:"recovery" example:"https://example.com/api/v1/tranches/d2c5a7f1-4b6e-4d89-a0e3-95f1c7b2e864/recovery"`       // Recovery state of the tranche
	Export        string `json:"export" example:"https://example.com/api/v1/tranches/d2c5a7f1-4b6e-4d89-a0e3-95f1c7b2e864/recovery/export"`  // Excel export of the recovery state
}

type Tranche struct {
	models.DefaultModel
	TrancheEditable
	Links TrancheLinks `json:"links"`
}

func newTranche(c *gin.Context, model models.Tranche) Tranche {
	url := c.GetString(string(models.DBContextURL))

	return Tranche{
		DefaultModel: model.DefaultModel,
		TrancheEditable: TrancheEditable{
			ConfigurationID: model.ConfigurationID,
			Name:            model.Name,
			Amount:          model.Amount,
			DueDate:         model.DueDate,
			Position:        model.Position,
		},
		Links: TrancheLinks{
			Self:          fmt.Sprintf("%s/v1/tranches/%s", url, model.ID),
			Configuration: fmt.Sprintf("%s/v1/fee-configurations/%s", url, model.ConfigurationID),
			Payments:      fmt.Sprintf("%s/v1/payments?tranche=%s", url, model.ID),
			Recovery:      fmt.Sprintf("%s/v1/tranches/%s/recovery", url, model.ID),
			Export:        fmt.Sprintf("%s/v1/tranches/%s/recovery/export", url, model.ID),
		},
	}
}

type TrancheListResponse struct {
	Data       []Tranche  `json:"data"`       // List of tranches
	Pagination Pagination `json:"pagination"` // Pagination information
}

type TrancheCreateResponse struct {
	Data []TrancheResponse `json:"data"` // List of created tranches or their respective error
}

func (t *TrancheCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, TrancheResponse{Error: &s})

	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type TrancheResponse struct {
	Data  *Tranche `json:"data"`                                                           // Data for the tranche
	Error *string  `json:"error" example:"the amount of a tranche must be positive"` // The error, if any occurred for this tranche
}

type TrancheQueryFilter struct {
	ConfigurationID ez_uuid.UUID `form:"configuration"`                 // By ID of the fee configuration
	Name            string       `form:"name" filterField:"false"`      // By name
	FromDate        string       `form:"fromDate" filterField:"false"`  // Tranches due on or after this day
	UntilDate       string       `form:"untilDate" filterField:"false"` // Tranches due on or before this day
	Offset          uint         `form:"offset" filterField:"false"`    // The offset of the first tranche returned. Defaults to 0.
	Limit           int          `form:"limit" filterField:"false"`     // Maximum number of tranches to return. Defaults to 50.
}

func (f TrancheQueryFilter) model() models.Tranche {
	return models.Tranche{
		ConfigurationID: f.ConfigurationID.UUID,
	}
}

// ReminderSummary counts the reminders sent for a tranche.
type ReminderSummary struct {
	Sent    int `json:"sent" example:"12"`   // Reminders delivered to the mailer
	Skipped int `json:"skipped" example:"3"` // Rows without a recipient address
	Failed  int `json:"failed" example:"0"`  // Reminders the mailer could not deliver
}

type ReminderSummaryResponse struct {
	Data ReminderSummary `json:"data"`
}

func newReminderSummary(s jobs.Summary) ReminderSummary {
	return ReminderSummary{
		Sent:    s.Sent,
		Skipped: s.Skipped,
		Failed:  s.Failed,
	}
}
