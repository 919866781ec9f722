package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/medilink/hms-api/internal/application/service"
	"github.com/medilink/hms-api/internal/domain/repository"
	"github.com/medilink/hms-api/internal/presentation/http/dto/request"
	"github.com/medilink/hms-api/internal/presentation/http/dto/response"
)

// PatientHandler handles patient registry HTTP requests
type PatientHandler struct {
	patientService *service.PatientService
	ledgerService  *service.PatientLedgerService
}

// NewPatientHandler creates a new patient handler
func NewPatientHandler(patientService *service.PatientService, ledgerService *service.PatientLedgerService) *PatientHandler {
	return &PatientHandler{
		patientService: patientService,
		ledgerService:  ledgerService,
	}
}

// Create handles patient registration
// @Summary Register patient
// @Tags patients
// @Security BearerAuth
// @Param request body request.CreatePatientRequest true "Patient data"
// @Success 201 {object} response.APIResponse
// @Router /patients [post]
func (h *PatientHandler) Create(c *gin.Context) {
	var req request.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	patient, err := h.patientService.CreatePatient(c.Request.Context(), &service.CreatePatientInput{
		MRN:       req.MRN,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Patient registered successfully", patient)
}

// List handles listing patients
// @Summary List patients
// @Tags patients
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /patients [get]
func (h *PatientHandler) List(c *gin.Context) {
	params := &repository.PatientFilterParams{
		Pagination: bindPagination(c),
		Search:     c.Query("search"),
	}

	result, err := h.patientService.ListPatients(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Patients retrieved successfully", result)
}

// Get handles retrieving a single patient
// @Summary Get patient
// @Tags patients
// @Security BearerAuth
// @Param id path string true "Patient ID"
// @Success 200 {object} response.APIResponse
// @Router /patients/{id} [get]
func (h *PatientHandler) Get(c *gin.Context) {
	id, err := ParseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	patient, err := h.patientService.GetPatient(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Patient retrieved successfully", patient)
}

// Update handles updating a patient
// @Summary Update patient
// @Tags patients
// @Security BearerAuth
// @Param id path string true "Patient ID"
// @Param request body request.UpdatePatientRequest true "Patient data"
// @Success 200 {object} response.APIResponse
// @Router /patients/{id} [put]
func (h *PatientHandler) Update(c *gin.Context) {
	id, err := ParseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	patient, err := h.patientService.UpdatePatient(c.Request.Context(), id, &service.UpdatePatientInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Active:    req.Active,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Patient updated successfully", patient)
}

// Ledgers handles listing a patient's ledgers
// @Summary List patient ledgers
// @Tags patients
// @Security BearerAuth
// @Param id path string true "Patient ID"
// @Success 200 {object} response.APIResponse
// @Router /patients/{id}/ledgers [get]
func (h *PatientHandler) Ledgers(c *gin.Context) {
	id, err := ParseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	// Confirm the patient exists before listing.
	if _, err := h.patientService.GetPatient(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	ledgers, err := h.ledgerService.ListLedgers(c.Request.Context(), &id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Patient ledgers retrieved successfully", ledgers)
}
