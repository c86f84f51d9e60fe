package v1

import (
	"net/http"

	"github.com/ecole-gestion/backend/pkg/httperrors"
	"github.com/ecole-gestion/backend/pkg/httputil"
	"github.com/ecole-gestion/backend/pkg/ledger"
	"github.com/ecole-gestion/backend/pkg/models"
	"github.com/gin-gonic/gin"
)

// RegisterExpenseRoutes registers the routes for expenses with
// the RouterGroup that is passed.
func RegisterExpenseRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsExpenseList)
		r.GET("", GetExpenses)
		r.POST("", CreateExpenses)
	}

	// Expense with ID
	{
		r.OPTIONS("/:id", OptionsExpenseDetail)
		r.GET("/:id", GetExpense)
		r.PATCH("/:id", UpdateExpense)
		r.DELETE("/:id", DeleteExpense)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Expenses
// @Success		204
// @Router			/v1/expenses [options]
func OptionsExpenseList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Expenses
// @Success		204
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Failure		500	{object}	httperrors.HTTPError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/expenses/{id} [options]
func OptionsExpenseDetail(c *gin.Context) {
	resourceOptionsDetail[models.Expense](c)
}

// @Summary		Create expenses
// @Description	Creates new expenses. Paid expenses are added to the spent amount of their budget.
// @Tags			Expenses
// @Accept			json
// @Produce		json
// @Success		201			{object}	ExpenseCreateResponse
// @Failure		400			{object}	ExpenseCreateResponse
// @Failure		500			{object}	ExpenseCreateResponse
// @Param			expenses	body		[]ExpenseEditable	true	"Expenses"
// @Router			/v1/expenses [post]
func CreateExpenses(c *gin.Context) {
	var editables []ExpenseEditable

	err := httputil.BindData(c, &editables)
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	status := http.StatusCreated
	r := ExpenseCreateResponse{}
	reconciler := ledger.NewReconciler(models.DB)

	for _, editable := range editables {
		expense := editable.model()

		err = reconciler.CreateExpense(&expense)
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newExpense(c, expense)
		r.Data = append(r.Data, ExpenseResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		List expenses
// @Description	Returns a list of expenses, most recent first
// @Tags			Expenses
// @Produce		json
// @Success		200	{object}	ExpenseListResponse
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		500	{object}	httperrors.HTTPError
// @Router			/v1/expenses [get]
// @Param			budget		query	string	false	"Filter by budget ID"
// @Param			category	query	string	false	"Filter by category ID"
// @Param			status		query	string	false	"Filter by status"
// @Param			paymentMode	query	string	false	"Filter by payment mode"
// @Param			beneficiary	query	string	false	"Filter by beneficiary"
// @Param			reference	query	string	false	"Filter by reference"
// @Param			note		query	string	false	"Filter by note"
// @Param			fromDate	query	string	false	"Expenses on or after this day, YYYY-MM-DD"
// @Param			untilDate	query	string	false	"Expenses on or before this day, YYYY-MM-DD"
// @Param			search		query	string	false	"Search for this text in beneficiary, reference and note"
// @Param			offset		query	uint	false	"The offset of the first expense returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of expenses to return. Defaults to 50."
func GetExpenses(c *gin.Context) {
	var filter ExpenseQueryFilter
	err := c.ShouldBind(&filter)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperrors.New(err))
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel, err := filter.model()
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	from, err := httputil.DateFromString(filter.FromDate)
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	until, err := httputil.DateFromString(filter.UntilDate)
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	q := models.DB.
		Order("date DESC, created_at DESC").
		Where(&filterModel, queryFields...)

	q = textFilter(q, setFields, "Beneficiary", "beneficiary", filter.Beneficiary)
	q = textFilter(q, setFields, "Reference", "reference", filter.Reference)
	q = textFilter(q, setFields, "Note", "note", filter.Note)
	q = searchFilter(models.DB, q, filter.Search, "beneficiary", "reference", "note")
	q = dateFilter(q, "date", from, until)

	q, limit := paginate(q, setFields, filter.Offset, filter.Limit)

	var expenses []models.Expense
	err = q.Find(&expenses).Error
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	data := make([]Expense, 0, len(expenses))
	for _, expense := range expenses {
		data = append(data, newExpense(c, expense))
	}

	c.JSON(http.StatusOK, ExpenseListResponse{
		Data: data,
		Pagination: Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get expense
// @Description	Returns a specific expense
// @Tags			Expenses
// @Produce		json
// @Success		200	{object}	ExpenseResponse
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Failure		500	{object}	httperrors.HTTPError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/expenses/{id} [get]
func GetExpense(c *gin.Context) {
	expense, ok := getResource[models.Expense](c)
	if !ok {
		return
	}

	data := newExpense(c, expense)
	c.JSON(http.StatusOK, ExpenseResponse{Data: &data})
}

// @Summary		Update expense
// @Description	Update an existing expense. Only values to be updated need to be specified. The spent amounts of the affected budgets are adjusted.
// @Tags			Expenses
// @Accept			json
// @Produce		json
// @Success		200		{object}	ExpenseResponse
// @Failure		400		{object}	httperrors.HTTPError
// @Failure		404		{object}	httperrors.HTTPError
// @Failure		500		{object}	httperrors.HTTPError
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			expense	body		ExpenseEditable	true	"Expense"
// @Router			/v1/expenses/{id} [patch]
func UpdateExpense(c *gin.Context) {
	expense, ok := getResource[models.Expense](c)
	if !ok {
		return
	}

	updateFields, err := httputil.GetBodyFields(c, ExpenseEditable{})
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	var data ExpenseEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	err = ledger.NewReconciler(models.DB).UpdateExpense(&expense, data.model(), updateFields...)
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	r := newExpense(c, expense)
	c.JSON(http.StatusOK, ExpenseResponse{Data: &r})
}

// @Summary		Delete expense
// @Description	Deletes an expense. If it was paid, it is removed from the spent amount of its budget.
// @Tags			Expenses
// @Success		204
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Failure		500	{object}	httperrors.HTTPError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/expenses/{id} [delete]
func DeleteExpense(c *gin.Context) {
	expense, ok := getResource[models.Expense](c)
	if !ok {
		return
	}

	err := ledger.NewReconciler(models.DB).DeleteExpense(expense)
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
