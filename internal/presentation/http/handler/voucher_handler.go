package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/medilink/hms-api/internal/application/service"
	"github.com/medilink/hms-api/internal/domain/enum"
	"github.com/medilink/hms-api/internal/domain/repository"
	"github.com/medilink/hms-api/internal/presentation/http/dto/request"
	"github.com/medilink/hms-api/internal/presentation/http/dto/response"
)

// VoucherHandler handles voucher HTTP requests
type VoucherHandler struct {
	voucherService *service.VoucherService
}

// NewVoucherHandler creates a new voucher handler
func NewVoucherHandler(voucherService *service.VoucherService) *VoucherHandler {
	return &VoucherHandler{voucherService: voucherService}
}

// Create handles voucher creation
// @Summary Create voucher
// @Description Create a balanced voucher; posted immediately unless draft
// @Tags vouchers
// @Security BearerAuth
// @Param request body request.CreateVoucherRequest true "Voucher data"
// @Success 201 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /vouchers [post]
func (h *VoucherHandler) Create(c *gin.Context) {
	var req request.CreateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	date, err := ParseDate(req.Date)
	if err != nil {
		response.Error(c, err)
		return
	}

	input := &service.CreateVoucherInput{
		Type:      req.Type,
		Date:      date,
		Narration: req.Narration,
		PatientID: req.PatientID,
		BillRef:   req.BillRef,
		Draft:     req.Draft,
	}
	for _, e := range req.Entries {
		debit, err := ParseRupees(e.Debit)
		if err != nil {
			response.Error(c, err)
			return
		}
		credit, err := ParseRupees(e.Credit)
		if err != nil {
			response.Error(c, err)
			return
		}
		input.Entries = append(input.Entries, service.VoucherEntryInput{
			AccountID:       e.AccountID,
			PatientLedgerID: e.PatientLedgerID,
			DebitAmount:     debit,
			CreditAmount:    credit,
			Narration:       e.Narration,
		})
	}

	voucher, err := h.voucherService.CreateVoucher(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Voucher created successfully", voucher)
}

// List handles listing vouchers
// @Summary List vouchers
// @Tags vouchers
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /vouchers [get]
func (h *VoucherHandler) List(c *gin.Context) {
	params := &repository.VoucherFilterParams{
		Pagination: bindPagination(c),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}

	if t := c.Query("type"); t != "" {
		var voucherType enum.VoucherType
		if err := voucherType.UnmarshalJSON([]byte(strconv.Quote(t))); err == nil {
			params.Type = &voucherType
		}
	}
	if s := c.Query("status"); s != "" {
		var status enum.VoucherStatus
		if err := status.UnmarshalJSON([]byte(strconv.Quote(s))); err == nil {
			params.Status = &status
		}
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

	result, err := h.voucherService.ListVouchers(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Vouchers retrieved successfully", result)
}

// Get handles retrieving a single voucher with entries
// @Summary Get voucher
// @Tags vouchers
// @Security BearerAuth
// @Param id path string true "Voucher ID"
// @Success 200 {object} response.APIResponse
// @Router /vouchers/{id} [get]
func (h *VoucherHandler) Get(c *gin.Context) {
	id, err := ParseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	voucher, err := h.voucherService.GetVoucher(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Voucher retrieved successfully", voucher)
}

// Post handles promoting a draft voucher to posted
// @Summary Post voucher
// @Tags vouchers
// @Security BearerAuth
// @Param id path string true "Voucher ID"
// @Success 200 {object} response.APIResponse
// @Router /vouchers/{id}/post [post]
func (h *VoucherHandler) Post(c *gin.Context) {
	id, err := ParseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	voucher, err := h.voucherService.PostVoucher(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Voucher posted successfully", voucher)
}

// Cancel handles cancelling a pending voucher
// @Summary Cancel voucher
// @Tags vouchers
// @Security BearerAuth
// @Param id path string true "Voucher ID"
// @Success 200 {object} response.APIResponse
// @Router /vouchers/{id}/cancel [post]
func (h *VoucherHandler) Cancel(c *gin.Context) {
	id, err := ParseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	voucher, err := h.voucherService.CancelVoucher(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Voucher cancelled successfully", voucher)
}

// Reverse handles reversing a posted voucher with a contra-voucher
// @Summary Reverse voucher
// @Tags vouchers
// @Security BearerAuth
// @Param id path string true "Voucher ID"
// @Param request body request.ReverseVoucherRequest false "Reversal narration"
// @Success 201 {object} response.APIResponse
// @Router /vouchers/{id}/reverse [post]
func (h *VoucherHandler) Reverse(c *gin.Context) {
	id, err := ParseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.ReverseVoucherRequest
	_ = c.ShouldBindJSON(&req)

	voucher, err := h.voucherService.ReverseVoucher(c.Request.Context(), id, req.Narration)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Voucher reversed successfully", voucher)
}
