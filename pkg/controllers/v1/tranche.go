package v1

import (
	"fmt"
	"net/http"

	"github.com/ecole-gestion/backend/pkg/export"
	"github.com/ecole-gestion/backend/pkg/httperrors"
	"github.com/ecole-gestion/backend/pkg/httputil"
	"github.com/ecole-gestion/backend/pkg/jobs"
	"github.com/ecole-gestion/backend/pkg/models"
	"github.com/ecole-gestion/backend/pkg/recovery"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RegisterTrancheRoutes registers the routes for tranches with
// the RouterGroup that is passed.
func RegisterTrancheRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsTrancheList)
		r.GET("", GetTranches)
		r.POST("", CreateTranches)
	}

	// Tranche with ID
	{
		r.OPTIONS("/:id", OptionsTrancheDetail)
		r.GET("/:id", GetTranche)
		r.PATCH("/:id", UpdateTranche)
		r.DELETE("/:id", DeleteTranche)
		r.GET("/:id/recovery", GetTrancheRecovery)
		r.GET("/:id/recovery/export", ExportTrancheRecovery)
		r.POST("/:id/reminders", SendTrancheReminders)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Tranches
// @Success		204
// @Router			/v1/tranches [options]
func OptionsTrancheList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Tranches
// @Success		204
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Failure		500	{object}	httperrors.HTTPError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/tranches/{id} [options]
func OptionsTrancheDetail(c *gin.Context) {
	resourceOptionsDetail[models.Tranche](c)
}

// @Summary		Create tranches
// @Description	Creates new tranches
// @Tags			Tranches
// @Accept			json
// @Produce		json
// @Success		201			{object}	TrancheCreateResponse
// @Failure		400			{object}	TrancheCreateResponse
// @Failure		500			{object}	TrancheCreateResponse
// @Param			tranches	body		[]TrancheEditable	true	"Tranches"
// @Router			/v1/tranches [post]
func CreateTranches(c *gin.Context) {
	var editables []TrancheEditable

	err := httputil.BindData(c, &editables)
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	status := http.StatusCreated
	r := TrancheCreateResponse{}

	for _, editable := range editables {
		tranche := editable.model()

		err = models.DB.Create(&tranche).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newTranche(c, tranche)
		r.Data = append(r.Data, TrancheResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		List tranches
// @Description	Returns a list of tranches, ordered by their position and due date
// @Tags			Tranches
// @Produce		json
// @Success		200	{object}	TrancheListResponse
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		500	{object}	httperrors.HTTPError
// @Router			/v1/tranches [get]
// @Param			configuration	query	string	false	"Filter by fee configuration ID"
// @Param			name			query	string	false	"Filter by name"
// @Param			fromDate		query	string	false	"Tranches due on or after this day, YYYY-MM-DD"
// @Param			untilDate		query	string	false	"Tranches due on or before this day, YYYY-MM-DD"
// @Param			offset			query	uint	false	"The offset of the first tranche returned. Defaults to 0."
// @Param			limit			query	int		false	"Maximum number of tranches to return. Defaults to 50."
func GetTranches(c *gin.Context) {
	var filter TrancheQueryFilter
	err := c.ShouldBind(&filter)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperrors.New(err))
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

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

	filterModel := filter.model()
	q := models.DB.
		Order("position, due_date").
		Where(&filterModel, queryFields...)

	q = textFilter(q, setFields, "Name", "name", filter.Name)
	q = dateFilter(q, "due_date", from, until)

	q, limit := paginate(q, setFields, filter.Offset, filter.Limit)

	var tranches []models.Tranche
	err = q.Find(&tranches).Error
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

	data := make([]Tranche, 0, len(tranches))
	for _, tranche := range tranches {
		data = append(data, newTranche(c, tranche))
	}

	c.JSON(http.StatusOK, TrancheListResponse{
		Data: data,
		Pagination: Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get tranche
// @Description	Returns a specific tranche
// @Tags			Tranches
// @Produce		json
// @Success		200	{object}	TrancheResponse
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Failure		500	{object}	httperrors.HTTPError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/tranches/{id} [get]
func GetTranche(c *gin.Context) {
	tranche, ok := getResource[models.Tranche](c)
	if !ok {
		return
	}

	data := newTranche(c, tranche)
	c.JSON(http.StatusOK, TrancheResponse{Data: &data})
}

// @Summary		Update tranche
// @Description	Update an existing tranche. Only values to be updated need to be specified.
// @Tags			Tranches
// @Accept			json
// @Produce		json
// @Success		200		{object}	TrancheResponse
// @Failure		400		{object}	httperrors.HTTPError
// @Failure		404		{object}	httperrors.HTTPError
// @Failure		500		{object}	httperrors.HTTPError
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			tranche	body		TrancheEditable	true	"Tranche"
// @Router			/v1/tranches/{id} [patch]
func UpdateTranche(c *gin.Context) {
	tranche, ok := getResource[models.Tranche](c)
	if !ok {
		return
	}

	updateFields, err := httputil.GetBodyFields(c, TrancheEditable{})
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	var data TrancheEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	err = models.DB.Model(&tranche).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	r := newTranche(c, tranche)
	c.JSON(http.StatusOK, TrancheResponse{Data: &r})
}

// @Summary		Delete tranche
// @Description	Deletes a tranche. Payments for it are kept.
// @Tags			Tranches
// @Success		204
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Failure		500	{object}	httperrors.HTTPError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/tranches/{id} [delete]
func DeleteTranche(c *gin.Context) {
	tranche, ok := getResource[models.Tranche](c)
	if !ok {
		return
	}

	err := models.DB.Delete(&tranche).Error
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// trancheReport computes the recovery report for the tranche in the URI.
//
// If it fails, the error response is written and ok is false.
func trancheReport(c *gin.Context) (report recovery.Report, ok bool) {
	tranche, ok := getResource[models.Tranche](c)
	if !ok {
		return recovery.Report{}, false
	}

	var query RecoveryQueryFilter
	err := c.ShouldBind(&query)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperrors.New(err))
		return recovery.Report{}, false
	}

	filter, day, err := query.parse()
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return recovery.Report{}, false
	}

	report, err = recovery.ComputeDebtRows(models.DB, tranche.ID, filter, day)
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return recovery.Report{}, false
	}

	return report, true
}

// @Summary		Get tranche recovery
// @Description	Returns one debt row for every student bound to the fee configuration of the tranche
// @Tags			Tranches
// @Produce		json
// @Success		200		{object}	TrancheRecoveryResponse
// @Failure		400		{object}	httperrors.HTTPError
// @Failure		404		{object}	httperrors.HTTPError
// @Failure		500		{object}	httperrors.HTTPError
// @Param			id		path		URIID		true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			student	query		[]string	false	"Filter by student ID"
// @Param			class	query		string		false	"Filter by class name"
// @Param			search	query		string		false	"Search for this text in matricule, first and last name"
// @Param			status	query		[]string	false	"Filter by status label"
// @Param			today	query		string		false	"Compute the state for this day, YYYY-MM-DD. Defaults to the current day."
// @Router			/v1/tranches/{id}/recovery [get]
func GetTrancheRecovery(c *gin.Context) {
	report, ok := trancheReport(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, TrancheRecoveryResponse{Data: newTrancheRecovery(c, report)})
}

// @Summary		Export tranche recovery
// @Description	Returns an Excel workbook with the debt rows and statistics of the tranche
// @Tags			Tranches
// @Produce		application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success		200
// @Failure		400		{object}	httperrors.HTTPError
// @Failure		404		{object}	httperrors.HTTPError
// @Failure		500		{object}	httperrors.HTTPError
// @Param			id		path		URIID		true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			student	query		[]string	false	"Filter by student ID"
// @Param			class	query		string		false	"Filter by class name"
// @Param			search	query		string		false	"Search for this text in matricule, first and last name"
// @Param			status	query		[]string	false	"Filter by status label"
// @Param			today	query		string		false	"Compute the state for this day, YYYY-MM-DD. Defaults to the current day."
// @Router			/v1/tranches/{id}/recovery/export [get]
func ExportTrancheRecovery(c *gin.Context) {
	report, ok := trancheReport(c)
	if !ok {
		return
	}

	buf, err := export.RecoveryWorkbook(report)
	if err != nil {
		log.Error().Str("request-id", requestid.Get(c)).Err(err).Msg("recovery export")
		c.JSON(http.StatusInternalServerError, httperrors.New(models.ErrGeneral))
		return
	}

	name := export.Filename("recouvrement", report.Tranche.Name, report.Today.String())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

// @Summary		Send tranche reminders
// @Description	Sends a reminder to the guardians of every student that has not settled the tranche
// @Tags			Tranches
// @Produce		json
// @Success		200		{object}	ReminderSummaryResponse
// @Failure		400		{object}	httperrors.HTTPError
// @Failure		404		{object}	httperrors.HTTPError
// @Failure		500		{object}	httperrors.HTTPError
// @Param			id		path		URIID		true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			student	query		[]string	false	"Filter by student ID"
// @Param			class	query		string		false	"Filter by class name"
// @Param			search	query		string		false	"Search for this text in matricule, first and last name"
// @Param			status	query		[]string	false	"Filter by status label"
// @Router			/v1/tranches/{id}/reminders [post]
func SendTrancheReminders(c *gin.Context) {
	tranche, ok := getResource[models.Tranche](c)
	if !ok {
		return
	}

	var query RecoveryQueryFilter
	err := c.ShouldBindQuery(&query)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperrors.New(err))
		return
	}

	filter, day, err := query.parse()
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	summary, err := jobs.TrancheReminders(c.Request.Context(), models.DB, Notifier, tranche.ID, filter, day)
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	log.Info().Str("request-id", requestid.Get(c)).Str("tranche", tranche.ID.String()).Int("sent", summary.Sent).Int("skipped", summary.Skipped).Int("failed", summary.Failed).Msg("reminders sent")
	c.JSON(http.StatusOK, ReminderSummaryResponse{Data: newReminderSummary(summary)})
}
