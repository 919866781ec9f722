package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/medilink/hms-api/internal/domain/entity"
	domainRepo "github.com/medilink/hms-api/internal/domain/repository"
	"gorm.io/gorm"
)

type patientRepository struct {
	db *gorm.DB
}

// NewPatientRepository creates a new patient repository
func NewPatientRepository(db *gorm.DB) domainRepo.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *entity.Patient) error {
	return dbFrom(ctx, r.db).Create(patient).Error
}

func (r *patientRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	var patient entity.Patient
	err := dbFrom(ctx, r.db).First(&patient, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &patient, err
}

func (r *patientRepository) GetByMRN(ctx context.Context, mrn string) (*entity.Patient, error) {
	var patient entity.Patient
	err := dbFrom(ctx, r.db).First(&patient, "mrn = ?", mrn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &patient, err
}

func (r *patientRepository) Update(ctx context.Context, patient *entity.Patient) error {
	return dbFrom(ctx, r.db).Save(patient).Error
}

func (r *patientRepository) List(ctx context.Context, params *domainRepo.PatientFilterParams) ([]entity.Patient, int64, error) {
	var patients []entity.Patient
	var total int64

	query := dbFrom(ctx, r.db).Model(&entity.Patient{})

	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("mrn ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?", search, search, search)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("created_at DESC").
		Find(&patients).Error

	return patients, total, err
}
