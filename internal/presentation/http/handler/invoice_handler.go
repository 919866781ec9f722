package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/medilink/hms-api/internal/application/service"
	"github.com/medilink/hms-api/internal/domain/repository"
	"github.com/medilink/hms-api/internal/presentation/http/dto/request"
	"github.com/medilink/hms-api/internal/presentation/http/dto/response"
)

// InvoiceHandler handles outstanding invoice and receivables aging requests
type InvoiceHandler struct {
	agingService *service.AgingService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(agingService *service.AgingService) *InvoiceHandler {
	return &InvoiceHandler{agingService: agingService}
}

// Create handles registering an outstanding invoice
// @Summary Record invoice
// @Tags invoices
// @Security BearerAuth
// @Param request body request.RecordInvoiceRequest true "Invoice data"
// @Success 201 {object} response.APIResponse
// @Router /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req request.RecordInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	amount, err := ParseRupees(req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	invoiceDate, err := ParseDate(req.InvoiceDate)
	if err != nil {
		response.Error(c, err)
		return
	}
	dueDate, err := ParseDate(req.DueDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	invoice, err := h.agingService.RecordInvoice(c.Request.Context(), &service.RecordInvoiceInput{
		PatientID:     req.PatientID,
		InvoiceNo:     req.InvoiceNo,
		InvoiceDate:   invoiceDate,
		DueDate:       dueDate,
		InvoiceAmount: amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Invoice recorded successfully", invoice)
}

// List handles listing invoices
// @Summary List invoices
// @Tags invoices
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	params := &repository.InvoiceFilterParams{
		Pagination:      bindPagination(c),
		OutstandingOnly: c.Query("outstanding_only") == "true",
	}
	if p := c.Query("patient_id"); p != "" {
		if patientID, err := ParseIDQuery(p); err == nil {
			params.PatientID = &patientID
		}
	}
	if s := c.Query("start_date"); s != "" {
		if t, err := ParseDate(s); err == nil {
			params.StartDate = &t
		}
	}
	if s := c.Query("end_date"); s != "" {
		if t, err := ParseDate(s); err == nil {
			params.EndDate = &t
		}
	}

	result, err := h.agingService.ListInvoices(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Invoices retrieved successfully", result)
}

// Get handles retrieving a single invoice
// @Summary Get invoice
// @Tags invoices
// @Security BearerAuth
// @Param id path string true "Invoice ID"
// @Success 200 {object} response.APIResponse
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, err := ParseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	invoice, err := h.agingService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// Aged handles listing open invoices with derived aging buckets
// @Summary Aged invoices
// @Description Open invoices with their aging bucket derived as of a date
// @Tags aging
// @Security BearerAuth
// @Param patient_id query string false "Patient ID"
// @Param as_of query string false "As-of date (YYYY-MM-DD)"
// @Success 200 {object} response.APIResponse
// @Router /aging/invoices [get]
func (h *InvoiceHandler) Aged(c *gin.Context) {
	asOf := time.Now()
	if s := c.Query("as_of"); s != "" {
		t, err := ParseDate(s)
		if err != nil {
			response.Error(c, err)
			return
		}
		asOf = t
	}

	aged, err := h.agingService.ListAged(c.Request.Context(), queryPatientID(c), asOf)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Aged invoices retrieved successfully", aged)
}

// Snapshot handles taking an aging snapshot run
// @Summary Take aging snapshot
// @Description Roll open invoices into per-patient bucket totals as an immutable run
// @Tags aging
// @Security BearerAuth
// @Param request body request.TakeSnapshotRequest false "Snapshot options"
// @Success 201 {object} response.APIResponse
// @Router /aging/snapshots [post]
func (h *InvoiceHandler) Snapshot(c *gin.Context) {
	var req request.TakeSnapshotRequest
	_ = c.ShouldBindJSON(&req)

	asOf, err := ParseDate(req.AsOf)
	if err != nil {
		response.Error(c, err)
		return
	}

	snapshots, err := h.agingService.TakeSnapshot(c.Request.Context(), asOf)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Aging snapshot taken successfully", snapshots)
}

// Snapshots handles listing recent snapshot runs
// @Summary List aging snapshots
// @Tags aging
// @Security BearerAuth
// @Param runs query int false "Number of recent runs"
// @Success 200 {object} response.APIResponse
// @Router /aging/snapshots [get]
func (h *InvoiceHandler) Snapshots(c *gin.Context) {
	runs := 1
	if n, err := strconv.Atoi(c.Query("runs")); err == nil && n > 0 {
		runs = n
	}

	snapshots, err := h.agingService.ListRecentSnapshots(c.Request.Context(), runs)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Aging snapshots retrieved successfully", snapshots)
}

// SnapshotRun handles listing the rows of one snapshot run
// @Summary Get aging snapshot run
// @Tags aging
// @Security BearerAuth
// @Param id path string true "Run ID"
// @Success 200 {object} response.APIResponse
// @Router /aging/snapshots/{id} [get]
func (h *InvoiceHandler) SnapshotRun(c *gin.Context) {
	id, err := ParseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	snapshots, err := h.agingService.ListSnapshotRun(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Aging snapshot run retrieved successfully", snapshots)
}
