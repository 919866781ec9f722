package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/medilink/hms-api/internal/domain/entity"
	"github.com/medilink/hms-api/pkg/pagination"
)

// PatientRepository defines the interface for patient registry data operations
type PatientRepository interface {
	Create(ctx context.Context, patient *entity.Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error)
	GetByMRN(ctx context.Context, mrn string) (*entity.Patient, error)
	Update(ctx context.Context, patient *entity.Patient) error
	List(ctx context.Context, params *PatientFilterParams) ([]entity.Patient, int64, error)
}

// PatientFilterParams contains filtering parameters for patient queries
type PatientFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
}
