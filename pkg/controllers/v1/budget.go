package v1

import (
	"fmt"
	"net/http"

	"github.com/ecole-gestion/backend/pkg/export"
	"github.com/ecole-gestion/backend/pkg/httperrors"
	"github.com/ecole-gestion/backend/pkg/httputil"
	"github.com/ecole-gestion/backend/pkg/ledger"
	"github.com/ecole-gestion/backend/pkg/models"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RegisterBudgetRoutes registers the routes for Budgets with
// the RouterGroup that is passed.
func RegisterBudgetRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsBudgetList)
		r.GET("", GetBudgets)
		r.POST("", CreateBudgets)
	}

	// Budget with ID
	{
		r.OPTIONS("/:id", OptionsBudgetDetail)
		r.GET("/:id", GetBudget)
		r.PATCH("/:id", UpdateBudget)
		r.DELETE("/:id", DeleteBudget)
		r.GET("/:id/ledger", GetBudgetLedger)
		r.POST("/:id/reconcile", ReconcileBudget)
		r.GET("/:id/export", ExportBudget)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Router			/v1/budgets [options]
func OptionsBudgetList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Failure		500	{object}	httperrors.HTTPError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id} [options]
func OptionsBudgetDetail(c *gin.Context) {
	resourceOptionsDetail[models.Budget](c)
}

// @Summary		Create budgets
// @Description	Creates new budgets
// @Tags			Budgets
// @Accept			json
// @Produce		json
// @Success		201		{object}	BudgetCreateResponse
// @Failure		400		{object}	BudgetCreateResponse
// @Failure		500		{object}	BudgetCreateResponse
// @Param			budgets	body		[]BudgetEditable	true	"Budgets"
// @Router			/v1/budgets [post]
func CreateBudgets(c *gin.Context) {
	var editables []BudgetEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := BudgetCreateResponse{}

	for _, editable := range editables {
		budget := editable.model()

		err = models.DB.Create(&budget).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newBudget(c, budget)
		r.Data = append(r.Data, BudgetResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		List budgets
// @Description	Returns a list of budgets, most recent period first
// @Tags			Budgets
// @Produce		json
// @Success		200	{object}	BudgetListResponse
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		500	{object}	httperrors.HTTPError
// @Router			/v1/budgets [get]
// @Param			year	query	int		false	"Filter by year"
// @Param			month	query	int		false	"Filter by month"
// @Param			name	query	string	false	"Filter by name"
// @Param			note	query	string	false	"Filter by note"
// @Param			active	query	bool	false	"Is the budget active?"
// @Param			search	query	string	false	"Search for this text in name and note"
// @Param			offset	query	uint	false	"The offset of the first Budget returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of Budgets to return. Defaults to 50."
func GetBudgets(c *gin.Context) {
	var filter BudgetQueryFilter
	err := c.ShouldBind(&filter)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperrors.New(err))
		return
	}

	// Get the fields that we're filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel := filter.model()
	q := models.DB.
		Order("year DESC, month DESC, name ASC").
		Where(&filterModel, queryFields...)

	q = textFilter(q, setFields, "Name", "name", filter.Name)
	q = textFilter(q, setFields, "Note", "note", filter.Note)
	q = searchFilter(models.DB, q, filter.Search, "name", "note")

	q, limit := paginate(q, setFields, filter.Offset, filter.Limit)

	var budgets []models.Budget
	err = q.Find(&budgets).Error
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

	data := make([]Budget, 0, len(budgets))
	for _, budget := range budgets {
		data = append(data, newBudget(c, budget))
	}

	c.JSON(http.StatusOK, BudgetListResponse{
		Data: data,
		Pagination: Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get budget
// @Description	Returns a specific budget
// @Tags			Budgets
// @Produce		json
// @Success		200	{object}	BudgetResponse
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Failure		500	{object}	httperrors.HTTPError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id} [get]
func GetBudget(c *gin.Context) {
	budget, ok := getResource[models.Budget](c)
	if !ok {
		return
	}

	data := newBudget(c, budget)
	c.JSON(http.StatusOK, BudgetResponse{Data: &data})
}

// @Summary		Update budget
// @Description	Update an existing budget. Only values to be updated need to be specified. The spent amount is maintained by the ledger and can not be updated.
// @Tags			Budgets
// @Accept			json
// @Produce		json
// @Success		200		{object}	BudgetResponse
// @Failure		400		{object}	httperrors.HTTPError
// @Failure		404		{object}	httperrors.HTTPError
// @Failure		500		{object}	httperrors.HTTPError
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			budget	body		BudgetEditable	true	"Budget"
// @Router			/v1/budgets/{id} [patch]
func UpdateBudget(c *gin.Context) {
	budget, ok := getResource[models.Budget](c)
	if !ok {
		return
	}

	updateFields, err := httputil.GetBodyFields(c, BudgetEditable{})
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	var data BudgetEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	err = models.DB.Model(&budget).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	r := newBudget(c, budget)
	c.JSON(http.StatusOK, BudgetResponse{Data: &r})
}

// @Summary		Delete budget
// @Description	Deletes a budget together with all of its expenses
// @Tags			Budgets
// @Success		204
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Failure		500	{object}	httperrors.HTTPError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id} [delete]
func DeleteBudget(c *gin.Context) {
	budget, ok := getResource[models.Budget](c)
	if !ok {
		return
	}

	err := ledger.NewReconciler(models.DB).DeleteBudget(budget)
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Get budget ledger
// @Description	Compares the stored spent amount of the budget with the sum of its paid expenses
// @Tags			Budgets
// @Produce		json
// @Success		200	{object}	LedgerResponse
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Failure		500	{object}	httperrors.HTTPError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id}/ledger [get]
func GetBudgetLedger(c *gin.Context) {
	budget, ok := getResource[models.Budget](c)
	if !ok {
		return
	}

	drift, err := ledger.NewReconciler(models.DB).Drift(budget.ID)
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	c.JSON(http.StatusOK, LedgerResponse{Data: newLedger(drift)})
}

// @Summary		Reconcile budget
// @Description	Recomputes the spent amount of the budget from its paid expenses. Returns the state before the correction.
// @Tags			Budgets
// @Produce		json
// @Success		200	{object}	LedgerResponse
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Failure		500	{object}	httperrors.HTTPError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id}/reconcile [post]
func ReconcileBudget(c *gin.Context) {
	budget, ok := getResource[models.Budget](c)
	if !ok {
		return
	}

	drift, err := ledger.NewReconciler(models.DB).Recompute(budget.ID)
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	if !drift.InSync() {
		log.Warn().Str("request-id", requestid.Get(c)).Str("budget", budget.ID.String()).Str("difference", drift.Difference.String()).Msg("spent amount corrected")
	}

	c.JSON(http.StatusOK, LedgerResponse{Data: newLedger(drift)})
}

// @Summary		Export budget
// @Description	Returns an Excel workbook with all expenses of the budget
// @Tags			Budgets
// @Produce		application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success		200
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Failure		500	{object}	httperrors.HTTPError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id}/export [get]
func ExportBudget(c *gin.Context) {
	budget, ok := getResource[models.Budget](c)
	if !ok {
		return
	}

	var expenses []models.Expense
	err := models.DB.
		Preload("Category").
		Where("budget_id = ?", budget.ID).
		Order("date, created_at").
		Find(&expenses).
		Error
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	buf, err := export.BudgetWorkbook(budget, expenses)
	if err != nil {
		log.Error().Str("request-id", requestid.Get(c)).Err(err).Msg("budget export")
		c.JSON(http.StatusInternalServerError, httperrors.New(models.ErrGeneral))
		return
	}

	name := export.Filename("depenses", budget.Name, fmt.Sprintf("%04d-%02d", budget.Year, budget.Month))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}
