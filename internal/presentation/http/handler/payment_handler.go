package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/medilink/hms-api/internal/application/service"
	"github.com/medilink/hms-api/internal/domain/enum"
	"github.com/medilink/hms-api/internal/domain/repository"
	"github.com/medilink/hms-api/internal/presentation/http/dto/request"
	"github.com/medilink/hms-api/internal/presentation/http/dto/response"
)

// PaymentHandler handles payment HTTP requests
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Create handles recording a payment
// @Summary Record payment
// @Tags payments
// @Security BearerAuth
// @Param request body request.RecordPaymentRequest true "Payment data"
// @Success 201 {object} response.APIResponse
// @Router /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	var req request.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	amount, err := ParseRupees(req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	paymentDate, err := ParseDate(req.PaymentDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	var chequeDate *time.Time
	if req.ChequeDate != "" {
		t, err := ParseDate(req.ChequeDate)
		if err != nil {
			response.Error(c, err)
			return
		}
		chequeDate = &t
	}

	payment, err := h.paymentService.RecordPayment(c.Request.Context(), &service.RecordPaymentInput{
		PatientID:    req.PatientID,
		PaymentDate:  paymentDate,
		Mode:         req.Mode,
		Amount:       amount,
		BankName:     req.BankName,
		ChequeNumber: req.ChequeNumber,
		ChequeDate:   chequeDate,
		Reference:    req.Reference,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment recorded successfully", payment)
}

// List handles listing payments
// @Summary List payments
// @Tags payments
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	params := &repository.PaymentFilterParams{
		Pagination: bindPagination(c),
	}
	if p := c.Query("patient_id"); p != "" {
		if patientID, err := ParseIDQuery(p); err == nil {
			params.PatientID = &patientID
		}
	}
	if s := c.Query("status"); s != "" {
		var status enum.PaymentStatus
		if err := status.UnmarshalJSON([]byte(strconv.Quote(s))); err == nil {
			params.Status = &status
		}
	}
	if m := c.Query("mode"); m != "" {
		var mode enum.PaymentMode
		if err := mode.UnmarshalJSON([]byte(strconv.Quote(m))); err == nil {
			params.Mode = &mode
		}
	}

	result, err := h.paymentService.ListPayments(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Payments retrieved successfully", result)
}

// Get handles retrieving a single payment
// @Summary Get payment
// @Tags payments
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} response.APIResponse
// @Router /payments/{id} [get]
func (h *PaymentHandler) Get(c *gin.Context) {
	id, err := ParseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment retrieved successfully", payment)
}

// Allocate handles allocating a payment against an invoice
// @Summary Allocate payment
// @Description Apply part of a payment against one outstanding invoice
// @Tags payments
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Param request body request.AllocatePaymentRequest true "Allocation data"
// @Success 201 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /payments/{id}/allocations [post]
func (h *PaymentHandler) Allocate(c *gin.Context) {
	id, err := ParseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.AllocatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	amount, err := ParseRupees(req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	allocation, err := h.paymentService.Allocate(c.Request.Context(), id, req.InvoiceID, amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment allocated successfully", allocation)
}

// Allocations handles listing a payment's allocations
// @Summary List payment allocations
// @Tags payments
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} response.APIResponse
// @Router /payments/{id}/allocations [get]
func (h *PaymentHandler) Allocations(c *gin.Context) {
	id, err := ParseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	allocations, err := h.paymentService.ListAllocations(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment allocations retrieved successfully", allocations)
}

// Clear handles clearing a pending cheque
// @Summary Clear cheque
// @Tags payments
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} response.APIResponse
// @Router /payments/{id}/clear [post]
func (h *PaymentHandler) Clear(c *gin.Context) {
	id, err := ParseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	payment, err := h.paymentService.ClearCheque(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cheque cleared successfully", payment)
}

// Bounce handles marking a pending cheque as bounced
// @Summary Bounce cheque
// @Tags payments
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} response.APIResponse
// @Router /payments/{id}/bounce [post]
func (h *PaymentHandler) Bounce(c *gin.Context) {
	id, err := ParseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	payment, err := h.paymentService.BounceCheque(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cheque marked as bounced", payment)
}
