package v1

import (
	"net/http"

	"github.com/ecole-gestion/backend/pkg/httperrors"
	"github.com/ecole-gestion/backend/pkg/httputil"
	"github.com/ecole-gestion/backend/pkg/models"
	"github.com/ecole-gestion/backend/pkg/recovery"
	"github.com/gin-gonic/gin"
)

// RegisterFeeConfigurationRoutes registers the routes for fee configurations with
// the RouterGroup that is passed.
func RegisterFeeConfigurationRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsFeeConfigurationList)
		r.GET("", GetFeeConfigurations)
		r.POST("", CreateFeeConfigurations)
	}

	// Fee configuration with ID
	{
		r.OPTIONS("/:id", OptionsFeeConfigurationDetail)
		r.GET("/:id", GetFeeConfiguration)
		r.PATCH("/:id", UpdateFeeConfiguration)
		r.DELETE("/:id", DeleteFeeConfiguration)
		r.GET("/:id/recovery", GetFeeConfigurationRecovery)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Fee Configurations
// @Success		204
// @Router			/v1/fee-configurations [options]
func OptionsFeeConfigurationList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Fee Configurations
// @Success		204
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Failure		500	{object}	httperrors.HTTPError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/fee-configurations/{id} [options]
func OptionsFeeConfigurationDetail(c *gin.Context) {
	resourceOptionsDetail[models.FeeConfiguration](c)
}

// @Summary		Create fee configurations
// @Description	Creates new fee configurations. Tranches are created separately.
// @Tags			Fee Configurations
// @Accept			json
// @Produce		json
// @Success		201					{object}	FeeConfigurationCreateResponse
// @Failure		400					{object}	FeeConfigurationCreateResponse
// @Failure		500					{object}	FeeConfigurationCreateResponse
// @Param			feeConfigurations	body		[]FeeConfigurationEditable	true	"Fee configurations"
// @Router			/v1/fee-configurations [post]
func CreateFeeConfigurations(c *gin.Context) {
	var editables []FeeConfigurationEditable

	err := httputil.BindData(c, &editables)
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	status := http.StatusCreated
	r := FeeConfigurationCreateResponse{}

	for _, editable := range editables {
		configuration := editable.model()

		err = models.DB.Create(&configuration).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data, err := newFeeConfiguration(c, configuration)
		if err != nil {
			status = r.appendError(err, status)
			continue
		}
		r.Data = append(r.Data, FeeConfigurationResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		List fee configurations
// @Description	Returns a list of fee configurations
// @Tags			Fee Configurations
// @Produce		json
// @Success		200	{object}	FeeConfigurationListResponse
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		500	{object}	httperrors.HTTPError
// @Router			/v1/fee-configurations [get]
// @Param			schoolYear	query	string	false	"Filter by school year"
// @Param			name		query	string	false	"Filter by name"
// @Param			note		query	string	false	"Filter by note"
// @Param			active		query	bool	false	"Is the configuration active?"
// @Param			search		query	string	false	"Search for this text in name and note"
// @Param			offset		query	uint	false	"The offset of the first fee configuration returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of fee configurations to return. Defaults to 50."
func GetFeeConfigurations(c *gin.Context) {
	var filter FeeConfigurationQueryFilter
	err := c.ShouldBind(&filter)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperrors.New(err))
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel := filter.model()
	q := models.DB.
		Order("school_year DESC, name ASC").
		Where(&filterModel, queryFields...)

	q = textFilter(q, setFields, "Name", "name", filter.Name)
	q = textFilter(q, setFields, "Note", "note", filter.Note)
	q = searchFilter(models.DB, q, filter.Search, "name", "note")

	q, limit := paginate(q, setFields, filter.Offset, filter.Limit)

	var configurations []models.FeeConfiguration
	err = q.Find(&configurations).Error
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

	data := make([]FeeConfiguration, 0, len(configurations))
	for _, configuration := range configurations {
		apiResource, err := newFeeConfiguration(c, configuration)
		if err != nil {
			c.JSON(status(err), httperrors.New(err))
			return
		}
		data = append(data, apiResource)
	}

	c.JSON(http.StatusOK, FeeConfigurationListResponse{
		Data: data,
		Pagination: Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get fee configuration
// @Description	Returns a specific fee configuration
// @Tags			Fee Configurations
// @Produce		json
// @Success		200	{object}	FeeConfigurationResponse
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Failure		500	{object}	httperrors.HTTPError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/fee-configurations/{id} [get]
func GetFeeConfiguration(c *gin.Context) {
	configuration, ok := getResource[models.FeeConfiguration](c)
	if !ok {
		return
	}

	data, err := newFeeConfiguration(c, configuration)
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	c.JSON(http.StatusOK, FeeConfigurationResponse{Data: &data})
}

// @Summary		Update fee configuration
// @Description	Update an existing fee configuration. Only values to be updated need to be specified.
// @Tags			Fee Configurations
// @Accept			json
// @Produce		json
// @Success		200					{object}	FeeConfigurationResponse
// @Failure		400					{object}	httperrors.HTTPError
// @Failure		404					{object}	httperrors.HTTPError
// @Failure		500					{object}	httperrors.HTTPError
// @Param			id					path		URIID						true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			feeConfiguration	body		FeeConfigurationEditable	true	"Fee configuration"
// @Router			/v1/fee-configurations/{id} [patch]
func UpdateFeeConfiguration(c *gin.Context) {
	configuration, ok := getResource[models.FeeConfiguration](c)
	if !ok {
		return
	}

	updateFields, err := httputil.GetBodyFields(c, FeeConfigurationEditable{})
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	var data FeeConfigurationEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	err = models.DB.Model(&configuration).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	r, err := newFeeConfiguration(c, configuration)
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	c.JSON(http.StatusOK, FeeConfigurationResponse{Data: &r})
}

// @Summary		Delete fee configuration
// @Description	Deletes a fee configuration together with its tranches
// @Tags			Fee Configurations
// @Success		204
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Failure		500	{object}	httperrors.HTTPError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/fee-configurations/{id} [delete]
func DeleteFeeConfiguration(c *gin.Context) {
	configuration, ok := getResource[models.FeeConfiguration](c)
	if !ok {
		return
	}

	// Soft deletion does not trigger the database cascade
	err := models.DB.Select("Tranches").Delete(&configuration).Error
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Get fee configuration recovery
// @Description	Returns the recovery state of every tranche of the fee configuration for the students bound to it
// @Tags			Fee Configurations
// @Produce		json
// @Success		200		{object}	ConfigurationRecoveryResponse
// @Failure		400		{object}	httperrors.HTTPError
// @Failure		404		{object}	httperrors.HTTPError
// @Failure		500		{object}	httperrors.HTTPError
// @Param			id		path		URIID		true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			student	query		[]string	false	"Filter by student ID"
// @Param			class	query		string		false	"Filter by class name"
// @Param			search	query		string		false	"Search for this text in matricule, first and last name"
// @Param			status	query		[]string	false	"Filter by status label"
// @Param			today	query		string		false	"Compute the state for this day, YYYY-MM-DD. Defaults to the current day."
// @Router			/v1/fee-configurations/{id}/recovery [get]
func GetFeeConfigurationRecovery(c *gin.Context) {
	configuration, ok := getResource[models.FeeConfiguration](c)
	if !ok {
		return
	}

	var query RecoveryQueryFilter
	err := c.ShouldBind(&query)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperrors.New(err))
		return
	}

	filter, day, err := query.parse()
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	report, err := recovery.ComputeConfiguration(models.DB, configuration.ID, filter, day)
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	c.JSON(http.StatusOK, ConfigurationRecoveryResponse{Data: newConfigurationRecovery(c, report)})
}
