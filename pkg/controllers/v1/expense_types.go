package v1

import (
	"fmt"

	"github.com/ecole-gestion/backend/internal/types"
	ez_uuid "github.com/ecole-gestion/backend/internal/uuid"
	"github.com/ecole-gestion/backend/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseEditable represents all user configurable parameters
type ExpenseEditable struct {
	BudgetID   uuid.UUID `json:"budgetId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"`   // ID of the budget the expense is charged against
	CategoryID uuid.UUID `json:"categoryId" example:"0b8e4a5c-3b1a-4fe2-8f2a-3d1a9f2f6f50"` // ID of the expense category

	// The maximum value is "999999999999.99999999", swagger unfortunately rounds this.
	Amount decimal.Decimal `json:"amount" example:"25000" minimum:"0.00000001" maximum:"999999999999.99999999" multipleOf:"0.00000001"` // The amount of the expense

	Status      models.ExpenseStatus `json:"status" example:"paid" enums:"draft,pending,approved,rejected,paid" default:"draft"`                 // Only paid expenses count towards the spent amount of the budget
	PaymentMode models.PaymentMode   `json:"paymentMode" example:"transfer" enums:"cash,check,transfer,mobile_money,card" default:"cash"` // How the expense is paid
	Beneficiary string               `json:"beneficiary" example:"Librairie du Centre" default:""`                                          // Who receives the money
	Date        types.Date           `json:"date" example:"2024-10-05" swaggertype:"string" format:"date"`                                  // Day of the expense
	Reference   string               `json:"reference" example:"FAC-2024-118" default:""`                                                   // Invoice or receipt number
	Note        string               `json:"note" example:"Cahiers pour la rentrée" default:""`                                          // A note
}

func (editable ExpenseEditable) model() models.Expense {
	return models.Expense{
		BudgetID:    editable.BudgetID,
		CategoryID:  editable.CategoryID,
		Amount:      editable.Amount,
		Status:      editable.Status,
		PaymentMode: editable.PaymentMode,
		Beneficiary: editable.Beneficiary,
		Date:        editable.Date,
		Reference:   editable.Reference,
		Note:        editable.Note,
	}
}

type ExpenseLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/expenses/9f4a6e1b-7a0c-4c1b-9d59-2f6a8f3b1e22"`               // The expense itself
	Budget   string `json:"budget" example:"https://example.com/api/v1/budgets/550dc009-cea6-4c12-b2a5-03446eb7b7cf"`              // The budget the expense is charged against
	Category string `json:"category" example:"https://example.com/api/v1/expense-categories/0b8e4a5c-3b1a-4fe2-8f2a-3d1a9f2f6f50"` // The category of the expense
}

type Expense struct {
	models.DefaultModel
	ExpenseEditable
	Links ExpenseLinks `json:"links"`
}

func newExpense(c *gin.Context, model models.Expense) Expense {
	url := c.GetString(string(models.DBContextURL))

	return Expense{
		DefaultModel: model.DefaultModel,
		ExpenseEditable: ExpenseEditable{
			BudgetID:    model.BudgetID,
			CategoryID:  model.CategoryID,
			Amount:      model.Amount,
			Status:      model.Status,
			PaymentMode: model.PaymentMode,
			Beneficiary: model.Beneficiary,
			Date:        model.Date,
			Reference:   model.Reference,
			Note:        model.Note,
		},
		Links: ExpenseLinks{
			Self:     fmt.Sprintf("%s/v1/expenses/%s", url, model.ID),
			Budget:   fmt.Sprintf("%s/v1/budgets/%s", url, model.BudgetID),
			Category: fmt.Sprintf("%s/v1/expense-categories/%s", url, model.CategoryID),
		},
	}
}

type ExpenseListResponse struct {
	Data       []Expense  `json:"data"`       // List of expenses
	Pagination Pagination `json:"pagination"` // Pagination information
}

type ExpenseCreateResponse struct {
	Data []ExpenseResponse `json:"data"` // List of created expenses or their respective error
}

func (e *ExpenseCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	e.Data = append(e.Data, ExpenseResponse{Error: &s})

	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type ExpenseResponse struct {
	Data  *Expense `json:"data"`                                                              // Data for the expense
	Error *string  `json:"error" example:"the amount of an expense must be positive"` // The error, if any occurred for this expense
}

type ExpenseQueryFilter struct {
	BudgetID    ez_uuid.UUID `form:"budget"`                          // By ID of the budget
	CategoryID  ez_uuid.UUID `form:"category"`                        // By ID of the category
	Status      string       `form:"status"`                          // By status
	PaymentMode string       `form:"paymentMode"`                     // By payment mode
	Beneficiary string       `form:"beneficiary" filterField:"false"` // By beneficiary
	Reference   string       `form:"reference" filterField:"false"`   // By reference
	Note        string       `form:"note" filterField:"false"`        // By note
	FromDate    string       `form:"fromDate" filterField:"false"`    // Expenses on or after this day
	UntilDate   string       `form:"untilDate" filterField:"false"`   // Expenses on or before this day
	Search      string       `form:"search" filterField:"false"`      // By string in beneficiary, reference or note
	Offset      uint         `form:"offset" filterField:"false"`      // The offset of the first expense returned. Defaults to 0.
	Limit       int          `form:"limit" filterField:"false"`       // Maximum number of expenses to return. Defaults to 50.
}

func (f ExpenseQueryFilter) model() (models.Expense, error) {
	status := models.ExpenseStatus(f.Status)
	if status != "" && !status.Valid() {
		return models.Expense{}, errExpenseStatusInvalid
	}

	mode := models.PaymentMode(f.PaymentMode)
	if mode != "" && !mode.Valid() {
		return models.Expense{}, models.ErrPaymentModeInvalid
	}

	return models.Expense{
		BudgetID:    f.BudgetID.UUID,
		CategoryID:  f.CategoryID.UUID,
		Status:      status,
		PaymentMode: mode,
	}, nil
}
