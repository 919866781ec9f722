package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/medilink/hms-api/internal/domain/entity"
	"github.com/medilink/hms-api/internal/domain/enum"
	"github.com/medilink/hms-api/pkg/pagination"
)

// VoucherRepository defines the interface for voucher data operations
type VoucherRepository interface {
	// Create persists a voucher together with its entries.
	Create(ctx context.Context, voucher *entity.Voucher) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Voucher, error)
	GetByNumber(ctx context.Context, number string) (*entity.Voucher, error)
	GetByExternalKey(ctx context.Context, key string) (*entity.Voucher, error)
	Update(ctx context.Context, voucher *entity.Voucher) error
	List(ctx context.Context, params *VoucherFilterParams) ([]entity.Voucher, int64, error)

	// NextNumber bumps and returns the sequence for a voucher type. Must be
	// called inside the creation transaction so numbers stay monotonic.
	NextNumber(ctx context.Context, voucherType enum.VoucherType) (int64, error)

	// EntriesForPatientLedger returns all entries of posted vouchers that
	// target the given patient ledger, ordered by voucher number.
	EntriesForPatientLedger(ctx context.Context, patientLedgerID uuid.UUID) ([]entity.VoucherEntry, error)

	// EntryTotalsForAccount sums debit and credit amounts of posted-voucher
	// entries against an account, optionally up to a date.
	EntryTotalsForAccount(ctx context.Context, accountID uuid.UUID, asOf *time.Time) (debit int64, credit int64, err error)
}

// VoucherFilterParams contains filtering parameters for voucher queries
type VoucherFilterParams struct {
	Pagination *pagination.PaginationParams
	Type       *enum.VoucherType
	Status     *enum.VoucherStatus
	PatientID  *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}
