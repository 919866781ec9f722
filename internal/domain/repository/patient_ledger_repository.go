package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/medilink/hms-api/internal/domain/entity"
)

// PatientLedgerRepository defines the interface for patient ledger data
// operations. Balances are mutated only by the voucher posting routine.
type PatientLedgerRepository interface {
	Create(ctx context.Context, ledger *entity.PatientLedger) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.PatientLedger, error)
	GetByPatientAndAccount(ctx context.Context, patientID, accountID uuid.UUID) (*entity.PatientLedger, error)
	Update(ctx context.Context, ledger *entity.PatientLedger) error
	List(ctx context.Context, patientID *uuid.UUID) ([]entity.PatientLedger, error)
}
