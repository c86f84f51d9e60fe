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

// PaymentEditable represents all parameters that can be set when a payment is recorded.
// After that, only the note, tranche and payment mode can be changed.
type PaymentEditable struct {
	StudentID   uuid.UUID          `json:"studentId" example:"6a3e1c55-08f4-4a3b-bf2d-6d0d3c1f4e27"`                               // ID of the paying student
	TrancheID   *uuid.UUID         `json:"trancheId" example:"d2c5a7f1-4b6e-4d89-a0e3-95f1c7b2e864"`                               // ID of the tranche the payment is for. Payments without a tranche are not counted for recovery
	RecordedBy  string             `json:"recordedBy" example:"Secrétariat"`                                                       // Who recorded the payment
	Amount      decimal.Decimal    `json:"amount" example:"50000" minimum:"0.00000001" multipleOf:"0.00000001"`                    // The amount received
	PaymentMode models.PaymentMode `json:"paymentMode" example:"mobile_money" enums:"cash,check,transfer,mobile_money,card" default:"cash"` // How the payment was made
	Reference   string             `json:"reference" example:"PAY-20251003-9F2A61C4"`                                              // Unique reference. Generated when empty
	PaymentDate types.Date         `json:"paymentDate" example:"2025-10-03" swaggertype:"string" format:"date"`                    // Day of the payment. Defaults to the current day
	Note        string             `json:"note" example:"Versement du père"`                                                       // A note
}

func (editable PaymentEditable) model() models.Payment {
	return models.Payment{
		StudentID:   editable.StudentID,
		TrancheID:   editable.TrancheID,
		RecordedBy:  editable.RecordedBy,
		Amount:      editable.Amount,
		PaymentMode: editable.PaymentMode,
		Reference:   editable.Reference,
		PaymentDate: editable.PaymentDate,
		Note:        editable.Note,
	}
}

// correctableFields are the fields of a PaymentEditable that can be updated.
var correctableFields = []string{"TrancheID", "PaymentMode", "Note"}

type PaymentLinks struct {
	Self    string `json:"self" example:"https://example.com/api/v1/payments/f0a4c2e8-1d3b-4b5f-8c7e-2a9d6e4b1c35"` // The payment itself
	Student string `json:"student" example:"https://example.com/api/v1/students/6a3e1c55-08f4-4a3b-bf2d-6d0d3c1f4e27"` // The paying student
	Tranche string `json:"tranche" example:"https://example.com/api/v1/tranches/d2c5a7f1-4b6e-4d89-a0e3-95f1c7b2e864"` // The tranche, empty for unassigned payments
}

type Payment struct {
	models.DefaultModel
	PaymentEditable
	Links PaymentLinks `json:"links"`
}

func newPayment(c *gin.Context, model models.Payment) Payment {
	url := c.GetString(string(models.DBContextURL))

	links := PaymentLinks{
		Self:    fmt.Sprintf("%s/v1/payments/%s", url, model.ID),
		Student: fmt.Sprintf("%s/v1/students/%s", url, model.StudentID),
	}

	if model.TrancheID != nil {
		links.Tranche = fmt.Sprintf("%s/v1/tranches/%s", url, *model.TrancheID)
	}

	return Payment{
		DefaultModel: model.DefaultModel,
		PaymentEditable: PaymentEditable{
			StudentID:   model.StudentID,
			TrancheID:   model.TrancheID,
			RecordedBy:  model.RecordedBy,
			Amount:      model.Amount,
			PaymentMode: model.PaymentMode,
			Reference:   model.Reference,
			PaymentDate: model.PaymentDate,
			Note:        model.Note,
		},
		Links: links,
	}
}

type PaymentListResponse struct {
	Data       []Payment  `json:"data"`       // List of payments
	Pagination Pagination `json:"pagination"` // Pagination information
}

type PaymentCreateResponse struct {
	Data []PaymentResponse `json:"data"` // List of created payments or their respective error
}

func (p *PaymentCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	p.Data = append(p.Data, PaymentResponse{Error: &s})

	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type PaymentResponse struct {
	Data  *Payment `json:"data"`                                                 // Data for the payment
	Error *string  `json:"error" example:"the payment reference must be unique"` // The error, if any occurred for this payment
}

type PaymentQueryFilter struct {
	StudentID   ez_uuid.UUID `form:"student"`                          // By ID of the student
	TrancheID   ez_uuid.UUID `form:"tranche" filterField:"false"`      // By ID of the tranche
	Unassigned  bool         `form:"unassigned" filterField:"false"`   // Only payments without a tranche
	PaymentMode string       `form:"paymentMode"`                      // By payment mode
	RecordedBy  string       `form:"recordedBy" filterField:"false"`   // By who recorded the payment
	Reference   string       `form:"reference" filterField:"false"`    // By reference. Supports * as wildcard
	Note        string       `form:"note" filterField:"false"`         // By note
	FromDate    string       `form:"fromDate" filterField:"false"`     // Payments on or after this day
	UntilDate   string       `form:"untilDate" filterField:"false"`    // Payments on or before this day
	Offset      uint         `form:"offset" filterField:"false"`       // The offset of the first payment returned. Defaults to 0.
	Limit       int          `form:"limit" filterField:"false"`        // Maximum number of payments to return. Defaults to 50.
}

func (f PaymentQueryFilter) model() (models.Payment, error) {
	mode := models.PaymentMode(f.PaymentMode)
	if mode != "" && !mode.Valid() {
		return models.Payment{}, models.ErrPaymentModeInvalid
	}

	return models.Payment{
		StudentID:   f.StudentID.UUID,
		PaymentMode: mode,
	}, nil
}
