package v1

import (
	"net/http"
	"time"

	"github.com/ecole-gestion/backend/internal/types"
	"github.com/ecole-gestion/backend/pkg/httputil"
	"github.com/ecole-gestion/backend/pkg/models"
	"github.com/ecole-gestion/backend/pkg/notify"
	"github.com/gin-gonic/gin"
)

// Notifier sends the mails triggered by API calls.
var Notifier = notify.Notifier{Mailer: notify.LogMailer{}}

// Location is the time zone that determines the current day for due dates.
var Location = time.UTC

func today() types.Date {
	return types.Today(Location)
}

func RegisterRootRoutes(r *gin.RouterGroup) {
	r.GET("", Get)
	r.OPTIONS("", Options)
}

type Response struct {
	Links Links `json:"links"` // Links for the v1 API
}

type Links struct {
	Budgets           string `json:"budgets" example:"https://example.com/api/v1/budgets"`                       // URL of Budget collection endpoint
	ExpenseCategories string `json:"expenseCategories" example:"https://example.com/api/v1/expense-categories"`  // URL of Expense Category collection endpoint
	Expenses          string `json:"expenses" example:"https://example.com/api/v1/expenses"`                     // URL of Expense collection endpoint
	FeeConfigurations string `json:"feeConfigurations" example:"https://example.com/api/v1/fee-configurations"` // URL of Fee Configuration collection endpoint
	Tranches          string `json:"tranches" example:"https://example.com/api/v1/tranches"`                     // URL of Tranche collection endpoint
	Students          string `json:"students" example:"https://example.com/api/v1/students"`                     // URL of Student collection endpoint
	Payments          string `json:"payments" example:"https://example.com/api/v1/payments"`                     // URL of Payment collection endpoint
}

// Get returns the link list for v1
//
//	@Summary		v1 API
//	@Description	Returns general information about the v1 API
//	@Tags			v1
//	@Success		200	{object}	Response
//	@Router			/v1 [get]
func Get(c *gin.Context) {
	url := c.GetString(string(models.DBContextURL))

	c.JSON(http.StatusOK, Response{
		Links: Links{
			Budgets:           url + "/v1/budgets",
			ExpenseCategories: url + "/v1/expense-categories",
			Expenses:          url + "/v1/expenses",
			FeeConfigurations: url + "/v1/fee-configurations",
			Tranches:          url + "/v1/tranches",
			Students:          url + "/v1/students",
			Payments:          url + "/v1/payments",
		},
	})
}

// Options returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			v1
//	@Success		204
//	@Router			/v1 [options]
func Options(c *gin.Context) {
	httputil.OptionsGet(c)
}
