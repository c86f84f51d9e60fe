package v1

import (
	"net/http"

	"github.com/ecole-gestion/backend/pkg/httperrors"
	"github.com/ecole-gestion/backend/pkg/httputil"
	"github.com/ecole-gestion/backend/pkg/models"
	"github.com/gin-gonic/gin"
)

// RegisterExpenseCategoryRoutes registers the routes for expense categories with
// the RouterGroup that is passed.
func RegisterExpenseCategoryRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsExpenseCategoryList)
		r.GET("", GetExpenseCategories)
		r.POST("", CreateExpenseCategories)
	}

	// Expense category with ID
	{
		r.OPTIONS("/:id", OptionsExpenseCategoryDetail)
		r.GET("/:id", GetExpenseCategory)
		r.PATCH("/:id", UpdateExpenseCategory)
		r.DELETE("/:id", DeleteExpenseCategory)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Expense Categories
// @Success		204
// @Router			/v1/expense-categories [options]
func OptionsExpenseCategoryList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Expense Categories
// @Success		204
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Failure		500	{object}	httperrors.HTTPError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/expense-categories/{id} [options]
func OptionsExpenseCategoryDetail(c *gin.Context) {
	resourceOptionsDetail[models.ExpenseCategory](c)
}

// @Summary		Create expense categories
// @Description	Creates new expense categories
// @Tags			Expense Categories
// @Accept			json
// @Produce		json
// @Success		201			{object}	ExpenseCategoryCreateResponse
// @Failure		400			{object}	ExpenseCategoryCreateResponse
// @Failure		500			{object}	ExpenseCategoryCreateResponse
// @Param			categories	body		[]ExpenseCategoryEditable	true	"Expense categories"
// @Router			/v1/expense-categories [post]
func CreateExpenseCategories(c *gin.Context) {
	var editables []ExpenseCategoryEditable

	err := httputil.BindData(c, &editables)
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	status := http.StatusCreated
	r := ExpenseCategoryCreateResponse{}

	for _, editable := range editables {
		category := editable.model()

		err = models.DB.Create(&category).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newExpenseCategory(c, category)
		r.Data = append(r.Data, ExpenseCategoryResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		List expense categories
// @Description	Returns a list of expense categories sorted by name
// @Tags			Expense Categories
// @Produce		json
// @Success		200	{object}	ExpenseCategoryListResponse
// @Failure		500	{object}	httperrors.HTTPError
// @Router			/v1/expense-categories [get]
// @Param			name	query	string	false	"Filter by name"
// @Param			note	query	string	false	"Filter by note"
// @Param			search	query	string	false	"Search for this text in name and note"
// @Param			offset	query	uint	false	"The offset of the first category returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of categories to return. Defaults to 50."
func GetExpenseCategories(c *gin.Context) {
	var filter ExpenseCategoryQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.ShouldBind(&filter)

	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.Order("name ASC")
	q = textFilter(q, setFields, "Name", "name", filter.Name)
	q = textFilter(q, setFields, "Note", "note", filter.Note)
	q = searchFilter(models.DB, q, filter.Search, "name", "note")

	q, limit := paginate(q, setFields, filter.Offset, filter.Limit)

	var categories []models.ExpenseCategory
	err := q.Find(&categories).Error
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

	data := make([]ExpenseCategory, 0, len(categories))
	for _, category := range categories {
		data = append(data, newExpenseCategory(c, category))
	}

	c.JSON(http.StatusOK, ExpenseCategoryListResponse{
		Data: data,
		Pagination: Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get expense category
// @Description	Returns a specific expense category
// @Tags			Expense Categories
// @Produce		json
// @Success		200	{object}	ExpenseCategoryResponse
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Failure		500	{object}	httperrors.HTTPError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/expense-categories/{id} [get]
func GetExpenseCategory(c *gin.Context) {
	category, ok := getResource[models.ExpenseCategory](c)
	if !ok {
		return
	}

	data := newExpenseCategory(c, category)
	c.JSON(http.StatusOK, ExpenseCategoryResponse{Data: &data})
}

// @Summary		Update expense category
// @Description	Update an existing expense category. Only values to be updated need to be specified.
// @Tags			Expense Categories
// @Accept			json
// @Produce		json
// @Success		200			{object}	ExpenseCategoryResponse
// @Failure		400			{object}	httperrors.HTTPError
// @Failure		404			{object}	httperrors.HTTPError
// @Failure		500			{object}	httperrors.HTTPError
// @Param			id			path		URIID					true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			category	body		ExpenseCategoryEditable	true	"Expense category"
// @Router			/v1/expense-categories/{id} [patch]
func UpdateExpenseCategory(c *gin.Context) {
	category, ok := getResource[models.ExpenseCategory](c)
	if !ok {
		return
	}

	updateFields, err := httputil.GetBodyFields(c, ExpenseCategoryEditable{})
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	var data ExpenseCategoryEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	err = models.DB.Model(&category).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	r := newExpenseCategory(c, category)
	c.JSON(http.StatusOK, ExpenseCategoryResponse{Data: &r})
}

// @Summary		Delete expense category
// @Description	Deletes an expense category. Categories that are still used by expenses can not be deleted.
// @Tags			Expense Categories
// @Success		204
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Failure		500	{object}	httperrors.HTTPError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/expense-categories/{id} [delete]
func DeleteExpenseCategory(c *gin.Context) {
	category, ok := getResource[models.ExpenseCategory](c)
	if !ok {
		return
	}

	var used int64
	err := models.DB.Model(&models.Expense{}).Where("category_id = ?", category.ID).Count(&used).Error
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	if used > 0 {
		c.JSON(http.StatusBadRequest, httperrors.New(models.ErrExpenseCategoryHasExpense))
		return
	}

	err = models.DB.Delete(&category).Error
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
