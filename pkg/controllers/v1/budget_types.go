package v1

import (
	"fmt"

	"github.com/ecole-gestion/backend/pkg/ledger"
	"github.com/ecole-gestion/backend/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetEditable represents all user configurable parameters
type BudgetEditable struct {
	Year            int             `json:"year" example:"2024" minimum:"1900" maximum:"9999"`                         // Year of the budget period
	Month           int             `json:"month" example:"10" minimum:"1" maximum:"12"`                               // Month of the budget period
	Name            string          `json:"name" example:"Fournitures scolaires" default:""`                           // Name of the budget line
	Note            string          `json:"note" example:"Cahiers, craies et feutres" default:""`                      // A longer description for the budget
	AllocatedAmount decimal.Decimal `json:"allocatedAmount" example:"150000" minimum:"0" multipleOf:"0.00000001"`      // The amount allocated for the period
	Active          bool            `json:"active" example:"true" default:"false"`                                     // Is the budget in use?
}

func (editable BudgetEditable) model() models.Budget {
	return models.Budget{
		Year:            editable.Year,
		Month:           editable.Month,
		Name:            editable.Name,
		Note:            editable.Note,
		AllocatedAmount: editable.AllocatedAmount,
		Active:          editable.Active,
	}
}

type BudgetLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/budgets/550dc009-cea6-4c12-b2a5-03446eb7b7cf"`                // The budget itself
	Expenses string `json:"expenses" example:"https://example.com/api/v1/expenses?budget=550dc009-cea6-4c12-b2a5-03446eb7b7cf"`   // Expenses charged against the budget
	Ledger   string `json:"ledger" example:"https://example.com/api/v1/budgets/550dc009-cea6-4c12-b2a5-03446eb7b7cf/ledger"`      // Consistency check of the spent amount
	Export   string `json:"export" example:"https://example.com/api/v1/budgets/550dc009-cea6-4c12-b2a5-03446eb7b7cf/export"`      // Excel export of the expenses
}

// Budget is the API representation of a Budget.
type Budget struct {
	models.DefaultModel
	BudgetEditable
	Links BudgetLinks `json:"links"`

	// These fields are computed
	SpentAmount     decimal.Decimal `json:"spentAmount" example:"42000"`      // Sum of all paid expenses
	RemainingAmount decimal.Decimal `json:"remainingAmount" example:"108000"` // Allocated amount minus spent amount. Negative when overspent
}

func newBudget(c *gin.Context, model models.Budget) Budget {
	url := c.GetString(string(models.DBContextURL))

	return Budget{
		DefaultModel: model.DefaultModel,
		BudgetEditable: BudgetEditable{
			Year:            model.Year,
			Month:           model.Month,
			Name:            model.Name,
			Note:            model.Note,
			AllocatedAmount: model.AllocatedAmount,
			Active:          model.Active,
		},
		SpentAmount:     model.SpentAmount,
		RemainingAmount: model.RemainingAmount(),
		Links: BudgetLinks{
			Self:     fmt.Sprintf("%s/v1/budgets/%s", url, model.ID),
			Expenses: fmt.Sprintf("%s/v1/expenses?budget=%s", url, model.ID),
			Ledger:   fmt.Sprintf("%s/v1/budgets/%s/ledger", url, model.ID),
			Export:   fmt.Sprintf("%s/v1/budgets/%s/export", url, model.ID),
		},
	}
}

type BudgetListResponse struct {
	Data       []Budget   `json:"data"`       // List of budgets
	Pagination Pagination `json:"pagination"` // Pagination information
}

type BudgetCreateResponse struct {
	Data []BudgetResponse `json:"data"` // List of created Budgets or their respective error
}

func (b *BudgetCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	b.Data = append(b.Data, BudgetResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type BudgetResponse struct {
	Data  *Budget `json:"data"`                                                          // Data for the budget
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this budget
}

type BudgetQueryFilter struct {
	Year   int    `form:"year"`                       // By year of the period
	Month  int    `form:"month"`                      // By month of the period
	Name   string `form:"name" filterField:"false"`   // By name
	Note   string `form:"note" filterField:"false"`   // By note
	Active bool   `form:"active"`                     // Is the budget active?
	Search string `form:"search" filterField:"false"` // By string in name or note
	Offset uint   `form:"offset" filterField:"false"` // The offset of the first Budget returned. Defaults to 0.
	Limit  int    `form:"limit" filterField:"false"`  // Maximum number of Budgets to return. Defaults to 50.
}

func (f BudgetQueryFilter) model() models.Budget {
	return models.Budget{
		Year:   f.Year,
		Month:  f.Month,
		Active: f.Active,
	}
}

// Ledger is the consistency check of the spent amount of a budget.
type Ledger struct {
	BudgetID   uuid.UUID       `json:"budgetId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"` // ID of the budget
	Stored     decimal.Decimal `json:"stored" example:"42000"`                                  // The spent amount as currently stored
	Computed   decimal.Decimal `json:"computed" example:"42000"`                                // The sum of the paid expenses
	Difference decimal.Decimal `json:"difference" example:"0"`                                  // Stored minus computed
	InSync     bool            `json:"inSync" example:"true"`                                   // Do stored and computed amounts match?
}

func newLedger(drift ledger.Drift) Ledger {
	return Ledger{
		BudgetID:   drift.BudgetID,
		Stored:     drift.Stored,
		Computed:   drift.Computed,
		Difference: drift.Difference,
		InSync:     drift.InSync(),
	}
}

type LedgerResponse struct {
	Data Ledger `json:"data"` // The state of the ledger. For reconciliation, the state before it was corrected
}
