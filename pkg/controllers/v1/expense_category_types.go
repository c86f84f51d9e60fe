package v1

import (
	"fmt"

	"github.com/ecole-gestion/backend/pkg/models"
	"github.com/gin-gonic/gin"
)

// ExpenseCategoryEditable represents all user configurable parameters
type ExpenseCategoryEditable struct {
	Name string `json:"name" example:"Entretien" default:""`                    // Name of the category, unique
	Note string `json:"note" example:"Réparations et nettoyage" default:""` // A longer description
}

func (editable ExpenseCategoryEditable) model() models.ExpenseCategory {
	return models.ExpenseCategory{
		Name: editable.Name,
		Note: editable.Note,
	}
}

type ExpenseCategoryLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/expense-categories/0b8e4a5c-3b1a-4fe2-8f2a-3d1a9f2f6f50"`             // The category itself
	Expenses string `json:"expenses" example:"https://example.com/api/v1/expenses?category=0b8e4a5c-3b1a-4fe2-8f2a-3d1a9f2f6f50"` // Expenses in this category
}

type ExpenseCategory struct {
	models.DefaultModel
	ExpenseCategoryEditable
	Links ExpenseCategoryLinks `json:"links"`
}

func newExpenseCategory(c *gin.Context, model models.ExpenseCategory) ExpenseCategory {
	url := c.GetString(string(models.DBContextURL))

	return ExpenseCategory{
		DefaultModel: model.DefaultModel,
		ExpenseCategoryEditable: ExpenseCategoryEditable{
			Name: model.Name,
			Note: model.Note,
		},
		Links: ExpenseCategoryLinks{
			Self:     fmt.Sprintf("%s/v1/expense-categories/%s", url, model.ID),
			Expenses: fmt.Sprintf("%s/v1/expenses?category=%s", url, model.ID),
		},
	}
}

type ExpenseCategoryListResponse struct {
	Data       []ExpenseCategory `json:"data"`       // List of expense categories
	Pagination Pagination        `json:"pagination"` // Pagination information
}

type ExpenseCategoryCreateResponse struct {
	Data []ExpenseCategoryResponse `json:"data"` // List of created expense categories or their respective error
}

func (e *ExpenseCategoryCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	e.Data = append(e.Data, ExpenseCategoryResponse{Error: &s})

	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type ExpenseCategoryResponse struct {
	Data  *ExpenseCategory `json:"data"`                                                          // Data for the expense category
	Error *string          `json:"error" example:"the expense category name must be unique"` // The error, if any occurred for this category
}

type ExpenseCategoryQueryFilter struct {
	Name   string `form:"name" filterField:"false"`   // By name
	Note   string `form:"note" filterField:"false"`   // By note
	Search string `form:"search" filterField:"false"` // By string in name or note
	Offset uint   `form:"offset" filterField:"false"` // The offset of the first category returned. Defaults to 0.
	Limit  int    `form:"limit" filterField:"false"`  // Maximum number of categories to return. Defaults to 50.
}
