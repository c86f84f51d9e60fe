package v1

import (
	"errors"
	"net/http"

	"github.com/ecole-gestion/backend/pkg/httperrors"
	"github.com/ecole-gestion/backend/pkg/httputil"
	"github.com/ecole-gestion/backend/pkg/models"
	"github.com/ecole-gestion/backend/pkg/notify"
	"github.com/ecole-gestion/backend/pkg/recovery"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/ryanuber/go-glob"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// RegisterPaymentRoutes registers the routes for payments with
// the RouterGroup that is passed.
func RegisterPaymentRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsPaymentList)
		r.GET("", GetPayments)
		r.POST("", CreatePayments)
	}

	// Payment with ID
	{
		r.OPTIONS("/:id", OptionsPaymentDetail)
		r.GET("/:id", GetPayment)
		r.PATCH("/:id", UpdatePayment)
		r.DELETE("/:id", DeletePayment)
	}
}

// confirmPayment mails the payment confirmation to the student or their guardian.
// Failures are logged, the payment is recorded anyway.
func confirmPayment(c *gin.Context, payment models.Payment) {
	logger := log.With().Str("request-id", requestid.Get(c)).Str("payment", payment.Reference).Logger()

	var student models.Student
	err := models.DB.First(&student, "id = ?", payment.StudentID).Error
	if err != nil {
		logger.Error().Err(err).Msg("could not load student for payment confirmation")
		return
	}

	var tranche *models.Tranche
	paid, remaining := decimal.Zero, decimal.Zero
	if payment.TrancheID != nil {
		var t models.Tranche
		err = models.DB.First(&t, "id = ?", *payment.TrancheID).Error
		if err != nil {
			logger.Error().Err(err).Msg("could not load tranche for payment confirmation")
			return
		}
		tranche = &t

		paid, remaining, err = recovery.TrancheBalance(models.DB, student.ID, t.ID)
		if err != nil {
			logger.Error().Err(err).Msg("could not compute balance for payment confirmation")
			return
		}
	}

	err = Notifier.PaymentConfirmation(c.Request.Context(), payment, student, tranche, paid, remaining)
	if errors.Is(err, notify.ErrNoRecipient) {
		logger.Debug().Str("student", student.Matricule).Msg("no recipient for payment confirmation")
		return
	}

	if err != nil {
		logger.Error().Err(err).Msg("payment confirmation failed")
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Payments
// @Success		204
// @Router			/v1/payments [options]
func OptionsPaymentList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Payments
// @Success		204
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Failure		500	{object}	httperrors.HTTPError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/payments/{id} [options]
func OptionsPaymentDetail(c *gin.Context) {
	resourceOptionsDetail[models.Payment](c)
}

// @Summary		Record payments
// @Description	Records new payments and sends a confirmation for each of them
// @Tags			Payments
// @Accept			json
// @Produce		json
// @Success		201			{object}	PaymentCreateResponse
// @Failure		400			{object}	PaymentCreateResponse
// @Failure		500			{object}	PaymentCreateResponse
// @Param			payments	body		[]PaymentEditable	true	"Payments"
// @Router			/v1/payments [post]
func CreatePayments(c *gin.Context) {
	var editables []PaymentEditable

	err := httputil.BindData(c, &editables)
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	status := http.StatusCreated
	r := PaymentCreateResponse{}

	for _, editable := range editables {
		payment := editable.model()

		err = models.DB.Create(&payment).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		confirmPayment(c, payment)

		data := newPayment(c, payment)
		r.Data = append(r.Data, PaymentResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		List payments
// @Description	Returns a list of payments, most recent first
// @Tags			Payments
// @Produce		json
// @Success		200	{object}	PaymentListResponse
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		500	{object}	httperrors.HTTPError
// @Router			/v1/payments [get]
// @Param			student		query	string	false	"Filter by student ID"
// @Param			tranche		query	string	false	"Filter by tranche ID"
// @Param			unassigned	query	bool	false	"Only payments without a tranche"
// @Param			paymentMode	query	string	false	"Filter by payment mode"
// @Param			recordedBy	query	string	false	"Filter by who recorded the payment"
// @Param			reference	query	string	false	"Filter by reference, * matches any text"
// @Param			note		query	string	false	"Filter by note"
// @Param			fromDate	query	string	false	"Payments on or after this day, YYYY-MM-DD"
// @Param			untilDate	query	string	false	"Payments on or before this day, YYYY-MM-DD"
// @Param			offset		query	uint	false	"The offset of the first payment returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of payments to return. Defaults to 50."
func GetPayments(c *gin.Context) {
	var filter PaymentQueryFilter
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
		Order("payment_date DESC, created_at DESC").
		Where(&filterModel, queryFields...)

	if !filter.TrancheID.IsNil() {
		q = q.Where("tranche_id = ?", filter.TrancheID.UUID)
	} else if filter.Unassigned {
		q = q.Where("tranche_id IS NULL")
	}

	q = textFilter(q, setFields, "RecordedBy", "recorded_by", filter.RecordedBy)
	q = textFilter(q, setFields, "Note", "note", filter.Note)
	q = dateFilter(q, "payment_date", from, until)

	var payments []models.Payment
	var count int64
	var limit int

	if filter.Reference != "" {
		payments, count, limit, err = globReference(q, setFields, filter)
	} else {
		q, limit = paginate(q, setFields, filter.Offset, filter.Limit)

		err = q.Find(&payments).Error
		if err == nil {
			err = q.Limit(-1).Offset(-1).Count(&count).Error
		}
	}
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	data := make([]Payment, 0, len(payments))
	for _, payment := range payments {
		data = append(data, newPayment(c, payment))
	}

	c.JSON(http.StatusOK, PaymentListResponse{
		Data: data,
		Pagination: Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// globReference matches the references of all payments of the query against
// the reference pattern of the filter and paginates the matches.
func globReference(q *gorm.DB, setFields []string, filter PaymentQueryFilter) ([]models.Payment, int64, int, error) {
	var candidates []models.Payment
	err := q.Find(&candidates).Error
	if err != nil {
		return nil, 0, 0, err
	}

	var matches []models.Payment
	for _, payment := range candidates {
		if glob.Glob(filter.Reference, payment.Reference) {
			matches = append(matches, payment)
		}
	}

	limit := filter.Limit
	if !slices.Contains(setFields, "Limit") {
		limit = 50
	}

	start := min(int(filter.Offset), len(matches))
	end := len(matches)
	if limit >= 0 {
		end = min(start+limit, len(matches))
	}

	return matches[start:end], int64(len(matches)), limit, nil
}

// @Summary		Get payment
// @Description	Returns a specific payment
// @Tags			Payments
// @Produce		json
// @Success		200	{object}	PaymentResponse
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Failure		500	{object}	httperrors.HTTPError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/payments/{id} [get]
func GetPayment(c *gin.Context) {
	payment, ok := getResource[models.Payment](c)
	if !ok {
		return
	}

	data := newPayment(c, payment)
	c.JSON(http.StatusOK, PaymentResponse{Data: &data})
}

// @Summary		Correct payment
// @Description	Corrects an existing payment. Only the note, tranche and payment mode can be changed.
// @Tags			Payments
// @Accept			json
// @Produce		json
// @Success		200		{object}	PaymentResponse
// @Failure		400		{object}	httperrors.HTTPError
// @Failure		404		{object}	httperrors.HTTPError
// @Failure		500		{object}	httperrors.HTTPError
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			payment	body		PaymentEditable	true	"Payment"
// @Router			/v1/payments/{id} [patch]
func UpdatePayment(c *gin.Context) {
	payment, ok := getResource[models.Payment](c)
	if !ok {
		return
	}

	updateFields, err := httputil.GetBodyFields(c, PaymentEditable{})
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	for _, field := range updateFields {
		if !slices.Contains(correctableFields, field.(string)) {
			c.JSON(http.StatusBadRequest, httperrors.New(models.ErrPaymentFieldImmutable))
			return
		}
	}

	var data PaymentEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	err = models.DB.Model(&payment).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	r := newPayment(c, payment)
	c.JSON(http.StatusOK, PaymentResponse{Data: &r})
}

// @Summary		Delete payment
// @Description	Deletes a payment. It is no longer counted for recovery.
// @Tags			Payments
// @Success		204
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Failure		500	{object}	httperrors.HTTPError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/payments/{id} [delete]
func DeletePayment(c *gin.Context) {
	payment, ok := getResource[models.Payment](c)
	if !ok {
		return
	}

	err := models.DB.Delete(&payment).Error
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
