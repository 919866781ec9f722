package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/medilink/hms-api/internal/domain/entity"
	"github.com/medilink/hms-api/internal/domain/enum"
	"github.com/medilink/hms-api/internal/domain/repository"
	"github.com/medilink/hms-api/pkg/apperror"
	"github.com/medilink/hms-api/pkg/money"
)

// PatientLedgerService maintains the running balance per (patient, account)
// pair. Balances move only through ApplyEntry, which is called from the
// voucher posting routine — the stored balance is a cache of the posted entry
// history and Rebuild can always recompute it from scratch.
type PatientLedgerService struct {
	ledgerRepo  repository.PatientLedgerRepository
	patientRepo repository.PatientRepository
	accountRepo repository.AccountRepository
	voucherRepo repository.VoucherRepository
	txManager   repository.TxManager
}

// NewPatientLedgerService creates a new patient ledger service
func NewPatientLedgerService(
	ledgerRepo repository.PatientLedgerRepository,
	patientRepo repository.PatientRepository,
	accountRepo repository.AccountRepository,
	voucherRepo repository.VoucherRepository,
	txManager repository.TxManager,
) *PatientLedgerService {
	return &PatientLedgerService{
		ledgerRepo:  ledgerRepo,
		patientRepo: patientRepo,
		accountRepo: accountRepo,
		voucherRepo: voucherRepo,
		txManager:   txManager,
	}
}

// CreatePatientLedgerInput represents the explicit create-ledger input
type CreatePatientLedgerInput struct {
	PatientID          uuid.UUID
	AccountID          uuid.UUID
	OpeningBalance     int64
	OpeningBalanceSide enum.BalanceSide
}

// CreatePatientLedger creates a ledger row explicitly, with an opening
// balance. Most rows are instead created lazily by FindOrCreate on the first
// financial event.
func (s *PatientLedgerService) CreatePatientLedger(ctx context.Context, input *CreatePatientLedgerInput) (*entity.PatientLedger, error) {
	patient, err := s.patientRepo.GetByID(ctx, input.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, apperror.NewNotFoundError("Patient")
	}

	account, err := s.accountRepo.GetByID(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperror.NewNotFoundError("Account")
	}

	existing, err := s.ledgerRepo.GetByPatientAndAccount(ctx, input.PatientID, input.AccountID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Patient ledger already exists for this account")
	}

	ledger := &entity.PatientLedger{
		PatientID:          input.PatientID,
		AccountID:          input.AccountID,
		OpeningBalance:     input.OpeningBalance,
		OpeningBalanceSide: input.OpeningBalanceSide,
	}
	ledger.SetBalance(money.Combine(input.OpeningBalance, input.OpeningBalanceSide))

	if err := s.ledgerRepo.Create(ctx, ledger); err != nil {
		return nil, err
	}
	return ledger, nil
}

// FindOrCreate returns the ledger for a (patient, account) pair, creating it
// lazily with a zero opening balance on the first financial event.
func (s *PatientLedgerService) FindOrCreate(ctx context.Context, patientID, accountID uuid.UUID) (*entity.PatientLedger, error) {
	ledger, err := s.ledgerRepo.GetByPatientAndAccount(ctx, patientID, accountID)
	if err != nil {
		return nil, err
	}
	if ledger != nil {
		return ledger, nil
	}

	ledger = &entity.PatientLedger{
		PatientID: patientID,
		AccountID: accountID,
	}
	if err := s.ledgerRepo.Create(ctx, ledger); err != nil {
		return nil, err
	}
	return ledger, nil
}

// ApplyEntry posts one voucher entry against a patient ledger. It must be
// called inside the voucher-creation transaction so the voucher and the
// balance move together.
func (s *PatientLedgerService) ApplyEntry(ctx context.Context, patientLedgerID uuid.UUID, debitPaise, creditPaise int64) error {
	ledger, err := s.ledgerRepo.GetByID(ctx, patientLedgerID)
	if err != nil {
		return err
	}
	if ledger == nil {
		return apperror.NewNotFoundError("Patient ledger")
	}

	ledger.SetBalance(ledger.Balance().Apply(debitPaise, creditPaise))
	return s.ledgerRepo.Update(ctx, ledger)
}

// RebuildResult reports the before/after of a ledger repair.
type RebuildResult struct {
	Ledger         *entity.PatientLedger `json:"ledger"`
	PreviousAmount int64                 `json:"previous_amount"`
	PreviousSide   enum.BalanceSide      `json:"previous_side"`
	Drifted        bool                  `json:"drifted"`
}

// Rebuild recomputes a ledger's balance by replaying its full posted entry
// history in voucher-number order and overwrites the cached value. It is the
// repair routine for a drifted cache.
func (s *PatientLedgerService) Rebuild(ctx context.Context, patientLedgerID uuid.UUID) (*RebuildResult, error) {
	var result *RebuildResult

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		ledger, err := s.ledgerRepo.GetByID(ctx, patientLedgerID)
		if err != nil {
			return err
		}
		if ledger == nil {
			return apperror.NewNotFoundError("Patient ledger")
		}

		prevAmount, prevSide := ledger.CurrentBalance, ledger.CurrentBalanceSide

		entries, err := s.voucherRepo.EntriesForPatientLedger(ctx, patientLedgerID)
		if err != nil {
			return err
		}

		balance := money.Combine(ledger.OpeningBalance, ledger.OpeningBalanceSide)
		for _, entry := range entries {
			balance = balance.Apply(entry.DebitAmount, entry.CreditAmount)
		}

		ledger.SetBalance(balance)
		if err := s.ledgerRepo.Update(ctx, ledger); err != nil {
			return err
		}

		result = &RebuildResult{
			Ledger:         ledger,
			PreviousAmount: prevAmount,
			PreviousSide:   prevSide,
			Drifted:        prevAmount != ledger.CurrentBalance || prevSide != ledger.CurrentBalanceSide,
		}
		return nil
	})

	return result, err
}

// GetLedger retrieves a patient ledger by id
func (s *PatientLedgerService) GetLedger(ctx context.Context, id uuid.UUID) (*entity.PatientLedger, error) {
	ledger, err := s.ledgerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ledger == nil {
		return nil, apperror.NewNotFoundError("Patient ledger")
	}
	return ledger, nil
}

// ListLedgers lists patient ledgers, optionally for one patient
func (s *PatientLedgerService) ListLedgers(ctx context.Context, patientID *uuid.UUID) ([]entity.PatientLedger, error) {
	return s.ledgerRepo.List(ctx, patientID)
}
