package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/medilink/hms-api/internal/domain/entity"
	domainRepo "github.com/medilink/hms-api/internal/domain/repository"
	"gorm.io/gorm"
)

type patientLedgerRepository struct {
	db *gorm.DB
}

// NewPatientLedgerRepository creates a new patient ledger repository
func NewPatientLedgerRepository(db *gorm.DB) domainRepo.PatientLedgerRepository {
	return &patientLedgerRepository{db: db}
}

func (r *patientLedgerRepository) Create(ctx context.Context, ledger *entity.PatientLedger) error {
	return dbFrom(ctx, r.db).Create(ledger).Error
}

func (r *patientLedgerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.PatientLedger, error) {
	var ledger entity.PatientLedger
	err := dbFrom(ctx, r.db).
		Preload("Account").
		First(&ledger, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ledger, err
}

func (r *patientLedgerRepository) GetByPatientAndAccount(ctx context.Context, patientID, accountID uuid.UUID) (*entity.PatientLedger, error) {
	var ledger entity.PatientLedger
	err := dbFrom(ctx, r.db).
		First(&ledger, "patient_id = ? AND account_id = ?", patientID, accountID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ledger, err
}

func (r *patientLedgerRepository) Update(ctx context.Context, ledger *entity.PatientLedger) error {
	return dbFrom(ctx, r.db).Save(ledger).Error
}

func (r *patientLedgerRepository) List(ctx context.Context, patientID *uuid.UUID) ([]entity.PatientLedger, error) {
	var ledgers []entity.PatientLedger

	query := dbFrom(ctx, r.db).
		Preload("Account").
		Preload("Patient")
	if patientID != nil {
		query = query.Where("patient_id = ?", *patientID)
	}

	err := query.Order("created_at ASC").Find(&ledgers).Error
	return ledgers, err
}
