package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/medilink/hms-api/internal/domain/entity"
	"github.com/medilink/hms-api/internal/domain/repository"
	"github.com/medilink/hms-api/pkg/apperror"
	"github.com/medilink/hms-api/pkg/pagination"
)

// PatientService manages the minimal patient registry the ledger depends on
type PatientService struct {
	patientRepo repository.PatientRepository
}

// NewPatientService creates a new patient service
func NewPatientService(patientRepo repository.PatientRepository) *PatientService {
	return &PatientService{patientRepo: patientRepo}
}

// CreatePatientInput represents the input for registering a patient
type CreatePatientInput struct {
	MRN       string
	FirstName string
	LastName  string
	Phone     string
}

// CreatePatient registers a patient with a unique medical record number
func (s *PatientService) CreatePatient(ctx context.Context, input *CreatePatientInput) (*entity.Patient, error) {
	mrn := strings.TrimSpace(input.MRN)
	firstName := strings.TrimSpace(input.FirstName)
	if mrn == "" || firstName == "" {
		return nil, apperror.NewBadRequestError("MRN and first name are required")
	}

	existing, err := s.patientRepo.GetByMRN(ctx, mrn)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("MRN already registered")
	}

	patient := &entity.Patient{
		MRN:       mrn,
		FirstName: firstName,
		LastName:  strings.TrimSpace(input.LastName),
		Phone:     strings.TrimSpace(input.Phone),
		Active:    true,
	}
	if err := s.patientRepo.Create(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

// UpdatePatientInput represents the input for updating a patient
type UpdatePatientInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Active    *bool
}

// UpdatePatient updates a patient's registry fields. The MRN is immutable.
func (s *PatientService) UpdatePatient(ctx context.Context, id uuid.UUID, input *UpdatePatientInput) (*entity.Patient, error) {
	patient, err := s.patientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, apperror.NewNotFoundError("Patient")
	}

	if input.FirstName != nil {
		name := strings.TrimSpace(*input.FirstName)
		if name == "" {
			return nil, apperror.NewBadRequestError("First name must not be empty")
		}
		patient.FirstName = name
	}
	if input.LastName != nil {
		patient.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Phone != nil {
		patient.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Active != nil {
		patient.Active = *input.Active
	}

	if err := s.patientRepo.Update(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

// GetPatient retrieves a patient by id
func (s *PatientService) GetPatient(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	patient, err := s.patientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, apperror.NewNotFoundError("Patient")
	}
	return patient, nil
}

// ListPatients lists patients with search and pagination
func (s *PatientService) ListPatients(ctx context.Context, params *repository.PatientFilterParams) (*pagination.PaginatedResult[entity.Patient], error) {
	if params == nil {
		params = &repository.PatientFilterParams{}
	}
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	patients, total, err := s.patientRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	p := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(patients, p), nil
}
