package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/medilink/hms-api/internal/application/service"
	"github.com/medilink/hms-api/internal/presentation/http/dto/request"
	"github.com/medilink/hms-api/internal/presentation/http/dto/response"
)

// LedgerHandler handles patient ledger HTTP requests
type LedgerHandler struct {
	ledgerService *service.PatientLedgerService
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(ledgerService *service.PatientLedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// Create handles explicit ledger creation with an opening balance
// @Summary Create patient ledger
// @Tags ledgers
// @Security BearerAuth
// @Param request body request.CreatePatientLedgerRequest true "Ledger data"
// @Success 201 {object} response.APIResponse
// @Router /ledgers [post]
func (h *LedgerHandler) Create(c *gin.Context) {
	var req request.CreatePatientLedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	opening, err := ParseRupees(req.OpeningBalance)
	if err != nil {
		response.Error(c, err)
		return
	}

	ledger, err := h.ledgerService.CreatePatientLedger(c.Request.Context(), &service.CreatePatientLedgerInput{
		PatientID:          req.PatientID,
		AccountID:          req.AccountID,
		OpeningBalance:     opening,
		OpeningBalanceSide: req.OpeningBalanceSide,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Patient ledger created successfully", ledger)
}

// Get handles retrieving a single ledger
// @Summary Get patient ledger
// @Tags ledgers
// @Security BearerAuth
// @Param id path string true "Ledger ID"
// @Success 200 {object} response.APIResponse
// @Router /ledgers/{id} [get]
func (h *LedgerHandler) Get(c *gin.Context) {
	id, err := ParseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	ledger, err := h.ledgerService.GetLedger(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Patient ledger retrieved successfully", ledger)
}

// Rebuild handles recomputing a ledger balance from its entry history
// @Summary Rebuild patient ledger balance
// @Description Replay the ledger's posted entries and overwrite the cached balance
// @Tags ledgers
// @Security BearerAuth
// @Param id path string true "Ledger ID"
// @Success 200 {object} response.APIResponse
// @Router /ledgers/{id}/rebuild [post]
func (h *LedgerHandler) Rebuild(c *gin.Context) {
	id, err := ParseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.ledgerService.Rebuild(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Ledger balance rebuilt successfully", result)
}
