package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/medilink/hms-api/internal/domain/entity"
	"github.com/medilink/hms-api/internal/domain/enum"
	"github.com/medilink/hms-api/internal/domain/repository"
	"github.com/medilink/hms-api/pkg/apperror"
	"github.com/medilink/hms-api/pkg/money"
	"github.com/medilink/hms-api/pkg/pagination"
)

// VoucherService owns the double-entry journal. Every financial movement in
// the system becomes a voucher here; nothing writes entries or ledger
// balances behind its back.
type VoucherService struct {
	voucherRepo   repository.VoucherRepository
	accountRepo   repository.AccountRepository
	patientRepo   repository.PatientRepository
	ledgerService *PatientLedgerService
	txManager     repository.TxManager
}

// NewVoucherService creates a new voucher service
func NewVoucherService(
	voucherRepo repository.VoucherRepository,
	accountRepo repository.AccountRepository,
	patientRepo repository.PatientRepository,
	ledgerService *PatientLedgerService,
	txManager repository.TxManager,
) *VoucherService {
	return &VoucherService{
		voucherRepo:   voucherRepo,
		accountRepo:   accountRepo,
		patientRepo:   patientRepo,
		ledgerService: ledgerService,
		txManager:     txManager,
	}
}

// VoucherEntryInput is one leg of a voucher to be created. Exactly one of
// AccountID and PatientLedgerID must be set, and exactly one of DebitAmount
// and CreditAmount must be non-zero.
type VoucherEntryInput struct {
	AccountID       *uuid.UUID `json:"account_id"`
	PatientLedgerID *uuid.UUID `json:"patient_ledger_id"`
	DebitAmount     int64      `json:"debit_amount"`
	CreditAmount    int64      `json:"credit_amount"`
	Narration       string     `json:"narration"`
}

// CreateVoucherInput represents the input for creating a voucher
type CreateVoucherInput struct {
	Type        enum.VoucherType
	Date        time.Time
	Narration   string
	PatientID   *uuid.UUID
	BillRef     string
	ExternalKey string
	// Draft leaves the voucher in pending state instead of posting it
	// immediately on creation.
	Draft   bool
	Entries []VoucherEntryInput
}

// CreateVoucher validates, numbers and persists a voucher in a single
// transaction. Unless Draft is set the voucher is posted in the same
// transaction, so its patient-ledger balance updates commit with it.
func (s *VoucherService) CreateVoucher(ctx context.Context, input *CreateVoucherInput) (*entity.Voucher, error) {
	debitTotal, creditTotal, err := s.validateEntries(ctx, input.Entries)
	if err != nil {
		return nil, err
	}
	if debitTotal != creditTotal {
		return nil, apperror.NewUnbalancedVoucherError(debitTotal, creditTotal)
	}

	if input.PatientID != nil {
		patient, err := s.patientRepo.GetByID(ctx, *input.PatientID)
		if err != nil {
			return nil, err
		}
		if patient == nil {
			return nil, apperror.NewNotFoundError("Patient")
		}
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	var voucher *entity.Voucher

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		seq, err := s.voucherRepo.NextNumber(ctx, input.Type)
		if err != nil {
			return err
		}

		voucher = &entity.Voucher{
			Number:      fmt.Sprintf("%s-%06d", input.Type.Prefix(), seq),
			Date:        date,
			Type:        input.Type,
			Status:      enum.VoucherStatusPending,
			Narration:   input.Narration,
			PatientID:   input.PatientID,
			BillRef:     input.BillRef,
			TotalAmount: debitTotal,
			ExternalKey: input.ExternalKey,
		}
		for _, e := range input.Entries {
			voucher.Entries = append(voucher.Entries, entity.VoucherEntry{
				AccountID:       e.AccountID,
				PatientLedgerID: e.PatientLedgerID,
				DebitAmount:     e.DebitAmount,
				CreditAmount:    e.CreditAmount,
				Narration:       e.Narration,
			})
		}

		if err := s.voucherRepo.Create(ctx, voucher); err != nil {
			return err
		}

		if !input.Draft {
			return s.post(ctx, voucher)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return voucher, nil
}

// validateEntries checks the per-entry invariants and resolves entry targets.
// Returns the debit and credit totals in paise.
func (s *VoucherService) validateEntries(ctx context.Context, entries []VoucherEntryInput) (int64, int64, error) {
	if len(entries) == 0 {
		return 0, 0, apperror.ErrEmptyVoucher
	}

	var debitTotal, creditTotal int64
	for i, e := range entries {
		if e.DebitAmount < 0 || e.CreditAmount < 0 {
			return 0, 0, apperror.NewUnprocessableError(fmt.Sprintf("Entry %d: amounts must not be negative", i+1))
		}
		if (e.DebitAmount == 0) == (e.CreditAmount == 0) {
			return 0, 0, apperror.NewUnprocessableError(fmt.Sprintf("Entry %d: exactly one of debit and credit must be non-zero", i+1))
		}
		if (e.AccountID == nil) == (e.PatientLedgerID == nil) {
			return 0, 0, apperror.NewUnprocessableError(fmt.Sprintf("Entry %d: exactly one of account and patient ledger must be set", i+1))
		}

		if e.AccountID != nil {
			account, err := s.accountRepo.GetByID(ctx, *e.AccountID)
			if err != nil {
				return 0, 0, err
			}
			if account == nil {
				return 0, 0, apperror.NewNotFoundError("Account")
			}
			if !account.Active {
				return 0, 0, apperror.NewUnprocessableError(fmt.Sprintf("Entry %d: account %s is inactive", i+1, account.Code))
			}
		} else {
			if _, err := s.ledgerService.GetLedger(ctx, *e.PatientLedgerID); err != nil {
				return 0, 0, err
			}
		}

		debitTotal += e.DebitAmount
		creditTotal += e.CreditAmount
	}

	return debitTotal, creditTotal, nil
}

// post applies the voucher's patient-ledger entries and marks it posted. Must
// run inside the surrounding transaction.
func (s *VoucherService) post(ctx context.Context, voucher *entity.Voucher) error {
	for _, entry := range voucher.Entries {
		if entry.PatientLedgerID == nil {
			continue
		}
		if err := s.ledgerService.ApplyEntry(ctx, *entry.PatientLedgerID, entry.DebitAmount, entry.CreditAmount); err != nil {
			return err
		}
	}

	voucher.Status = enum.VoucherStatusPosted
	return s.voucherRepo.Update(ctx, voucher)
}

// PostVoucher promotes a pending (draft) voucher to posted, applying its
// patient-ledger entries atomically.
func (s *VoucherService) PostVoucher(ctx context.Context, id uuid.UUID) (*entity.Voucher, error) {
	var voucher *entity.Voucher

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		voucher, err = s.voucherRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if voucher == nil {
			return apperror.NewNotFoundError("Voucher")
		}
		if voucher.Status != enum.VoucherStatusPending {
			return apperror.NewConflictError(fmt.Sprintf("Voucher %s is %s, only pending vouchers can be posted", voucher.Number, voucher.Status))
		}
		return s.post(ctx, voucher)
	})
	if err != nil {
		return nil, err
	}

	return voucher, nil
}

// CancelVoucher cancels a pending voucher. Posted vouchers cannot be
// cancelled; use ReverseVoucher instead.
func (s *VoucherService) CancelVoucher(ctx context.Context, id uuid.UUID) (*entity.Voucher, error) {
	voucher, err := s.voucherRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, apperror.NewNotFoundError("Voucher")
	}
	if voucher.Status != enum.VoucherStatusPending {
		return nil, apperror.NewConflictError(fmt.Sprintf("Voucher %s is %s, only pending vouchers can be cancelled", voucher.Number, voucher.Status))
	}

	voucher.Status = enum.VoucherStatusCancelled
	if err := s.voucherRepo.Update(ctx, voucher); err != nil {
		return nil, err
	}
	return voucher, nil
}

// ReverseVoucher creates and posts a contra-voucher whose entries mirror the
// source voucher with debit and credit swapped. The source voucher itself is
// never mutated.
func (s *VoucherService) ReverseVoucher(ctx context.Context, id uuid.UUID, narration string) (*entity.Voucher, error) {
	source, err := s.voucherRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, apperror.NewNotFoundError("Voucher")
	}
	if source.Status != enum.VoucherStatusPosted {
		return nil, apperror.NewConflictError(fmt.Sprintf("Voucher %s is %s, only posted vouchers can be reversed", source.Number, source.Status))
	}

	if narration == "" {
		narration = fmt.Sprintf("Reversal of %s", source.Number)
	}

	input := &CreateVoucherInput{
		Type:      enum.VoucherTypeContra,
		Date:      time.Now(),
		Narration: narration,
		PatientID: source.PatientID,
		BillRef:   source.BillRef,
	}
	for _, e := range source.Entries {
		input.Entries = append(input.Entries, VoucherEntryInput{
			AccountID:       e.AccountID,
			PatientLedgerID: e.PatientLedgerID,
			DebitAmount:     e.CreditAmount,
			CreditAmount:    e.DebitAmount,
			Narration:       e.Narration,
		})
	}

	return s.CreateVoucher(ctx, input)
}

// AccountBalance is the derived balance of a chart account at a point in time.
type AccountBalance struct {
	AccountID uuid.UUID        `json:"account_id"`
	Code      string           `json:"code"`
	Name      string           `json:"name"`
	Amount    int64            `json:"amount"`
	Side      enum.BalanceSide `json:"side"`
	AsOf      *time.Time       `json:"as_of,omitempty"`
}

// GetAccountBalance derives an account's balance from its opening balance and
// the posted entries against it. Chart accounts store no balance column; this
// is always computed.
func (s *VoucherService) GetAccountBalance(ctx context.Context, accountID uuid.UUID, asOf *time.Time) (*AccountBalance, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperror.NewNotFoundError("Account")
	}

	debit, credit, err := s.voucherRepo.EntryTotalsForAccount(ctx, accountID, asOf)
	if err != nil {
		return nil, err
	}

	balance := money.Combine(account.OpeningBalance, account.OpeningBalanceSide).Apply(debit, credit)
	amount, side := balance.Split()

	return &AccountBalance{
		AccountID: account.ID,
		Code:      account.Code,
		Name:      account.Name,
		Amount:    amount,
		Side:      side,
		AsOf:      asOf,
	}, nil
}

// GetVoucher retrieves a voucher with its entries
func (s *VoucherService) GetVoucher(ctx context.Context, id uuid.UUID) (*entity.Voucher, error) {
	voucher, err := s.voucherRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, apperror.NewNotFoundError("Voucher")
	}
	return voucher, nil
}

// ListVouchers lists vouchers with filtering and pagination
func (s *VoucherService) ListVouchers(ctx context.Context, params *repository.VoucherFilterParams) (*pagination.PaginatedResult[entity.Voucher], error) {
	if params == nil {
		params = &repository.VoucherFilterParams{}
	}
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	vouchers, total, err := s.voucherRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	p := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(vouchers, p), nil
}
