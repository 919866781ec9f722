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
	"github.com/medilink/hms-api/pkg/pagination"
)

// SettlementAccounts names the chart codes payment vouchers settle against.
// The database seed creates these accounts; codes are configurable so a site
// can remap them without code changes.
type SettlementAccounts struct {
	CashCode       string
	BankCode       string
	ReceivableCode string
}

// PaymentService records patient payments and allocates them against
// outstanding invoices. Every allocation posts a receipt voucher, so
// settlements obey the same double-entry invariant as everything else.
type PaymentService struct {
	paymentRepo    repository.PaymentRepository
	allocationRepo repository.AllocationRepository
	invoiceRepo    repository.InvoiceRepository
	patientRepo    repository.PatientRepository
	accountRepo    repository.AccountRepository
	voucherService *VoucherService
	ledgerService  *PatientLedgerService
	txManager      repository.TxManager
	settlement     SettlementAccounts
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	allocationRepo repository.AllocationRepository,
	invoiceRepo repository.InvoiceRepository,
	patientRepo repository.PatientRepository,
	accountRepo repository.AccountRepository,
	voucherService *VoucherService,
	ledgerService *PatientLedgerService,
	txManager repository.TxManager,
	settlement SettlementAccounts,
) *PaymentService {
	return &PaymentService{
		paymentRepo:    paymentRepo,
		allocationRepo: allocationRepo,
		invoiceRepo:    invoiceRepo,
		patientRepo:    patientRepo,
		accountRepo:    accountRepo,
		voucherService: voucherService,
		ledgerService:  ledgerService,
		txManager:      txManager,
		settlement:     settlement,
	}
}

// RecordPaymentInput represents the input for recording a payment
type RecordPaymentInput struct {
	PatientID    uuid.UUID
	PaymentDate  time.Time
	Mode         enum.PaymentMode
	Amount       int64
	BankName     string
	ChequeNumber string
	ChequeDate   *time.Time
	Reference    string
}

// RecordPayment records money received from a patient. Cheques start Pending
// and must be cleared before allocation; every other mode clears immediately.
func (s *PaymentService) RecordPayment(ctx context.Context, input *RecordPaymentInput) (*entity.PaymentTransaction, error) {
	if input.Amount <= 0 {
		return nil, apperror.NewUnprocessableError("Payment amount must be positive")
	}
	if input.Mode == enum.PaymentModeCheque && input.ChequeNumber == "" {
		return nil, apperror.NewBadRequestError("Cheque number is required for cheque payments")
	}

	patient, err := s.patientRepo.GetByID(ctx, input.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, apperror.NewNotFoundError("Patient")
	}

	status := enum.PaymentStatusCleared
	if input.Mode.RequiresClearance() {
		status = enum.PaymentStatusPending
	}

	date := input.PaymentDate
	if date.IsZero() {
		date = time.Now()
	}

	payment := &entity.PaymentTransaction{
		PatientID:    input.PatientID,
		PaymentDate:  date,
		Mode:         input.Mode,
		Status:       status,
		Amount:       input.Amount,
		BankName:     input.BankName,
		ChequeNumber: input.ChequeNumber,
		ChequeDate:   input.ChequeDate,
		Reference:    input.Reference,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// Allocate applies part of a payment against one outstanding invoice. In a
// single transaction it records the allocation, decrements the invoice's
// outstanding amount and posts the backing receipt voucher: debit the
// settlement account, credit the patient's receivable ledger.
func (s *PaymentService) Allocate(ctx context.Context, paymentID, invoiceID uuid.UUID, amount int64) (*entity.PaymentAllocation, error) {
	if amount <= 0 {
		return nil, apperror.NewUnprocessableError("Allocation amount must be positive")
	}

	var allocation *entity.PaymentAllocation

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		payment, err := s.paymentRepo.GetByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return apperror.NewNotFoundError("Payment")
		}
		if payment.Status != enum.PaymentStatusCleared {
			return apperror.NewConflictError(fmt.Sprintf("Payment is %s, only cleared payments can be allocated", payment.Status))
		}

		invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return apperror.NewNotFoundError("Invoice")
		}
		if invoice.PatientID != payment.PatientID {
			return apperror.NewUnprocessableError("Payment and invoice belong to different patients")
		}

		allocated, err := s.allocationRepo.SumForPayment(ctx, paymentID)
		if err != nil {
			return err
		}
		if unallocated := payment.Amount - allocated; amount > unallocated {
			return apperror.NewOverAllocationError(amount, unallocated, "payment")
		}
		if amount > invoice.OutstandingAmount {
			return apperror.NewOverAllocationError(amount, invoice.OutstandingAmount, "invoice")
		}

		settlementAccount, err := s.settlementAccountFor(ctx, payment.Mode)
		if err != nil {
			return err
		}
		receivableAccount, err := s.accountByCode(ctx, s.settlement.ReceivableCode)
		if err != nil {
			return err
		}
		ledger, err := s.ledgerService.FindOrCreate(ctx, payment.PatientID, receivableAccount.ID)
		if err != nil {
			return err
		}

		voucher, err := s.voucherService.CreateVoucher(ctx, &CreateVoucherInput{
			Type:      enum.VoucherTypeReceipt,
			Date:      payment.PaymentDate,
			Narration: fmt.Sprintf("Payment allocation against invoice %s", invoice.InvoiceNo),
			PatientID: &payment.PatientID,
			BillRef:   invoice.InvoiceNo,
			Entries: []VoucherEntryInput{
				{AccountID: &settlementAccount.ID, DebitAmount: amount},
				{PatientLedgerID: &ledger.ID, CreditAmount: amount},
			},
		})
		if err != nil {
			return err
		}

		allocation = &entity.PaymentAllocation{
			PaymentID:       paymentID,
			InvoiceID:       invoiceID,
			VoucherID:       &voucher.ID,
			AllocatedAmount: amount,
		}
		if err := s.allocationRepo.Create(ctx, allocation); err != nil {
			return err
		}

		invoice.OutstandingAmount -= amount
		return s.invoiceRepo.Update(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	return allocation, nil
}

// ClearCheque marks a pending cheque as cleared at the bank, making the
// payment allocatable.
func (s *PaymentService) ClearCheque(ctx context.Context, paymentID uuid.UUID) (*entity.PaymentTransaction, error) {
	return s.resolveCheque(ctx, paymentID, enum.PaymentStatusCleared)
}

// BounceCheque marks a pending cheque as bounced. Bounced payments can never
// be allocated.
func (s *PaymentService) BounceCheque(ctx context.Context, paymentID uuid.UUID) (*entity.PaymentTransaction, error) {
	return s.resolveCheque(ctx, paymentID, enum.PaymentStatusBounced)
}

func (s *PaymentService) resolveCheque(ctx context.Context, paymentID uuid.UUID, to enum.PaymentStatus) (*entity.PaymentTransaction, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NewNotFoundError("Payment")
	}
	if payment.Status != enum.PaymentStatusPending {
		return nil, apperror.NewConflictError(fmt.Sprintf("Payment is %s, only pending payments can be resolved", payment.Status))
	}

	payment.Status = to
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// GetPayment retrieves a payment with its allocations
func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*entity.PaymentTransaction, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NewNotFoundError("Payment")
	}
	return payment, nil
}

// ListPayments lists payments with filtering and pagination
func (s *PaymentService) ListPayments(ctx context.Context, params *repository.PaymentFilterParams) (*pagination.PaginatedResult[entity.PaymentTransaction], error) {
	if params == nil {
		params = &repository.PaymentFilterParams{}
	}
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	payments, total, err := s.paymentRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	p := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(payments, p), nil
}

// ListAllocations returns the allocations made out of a payment
func (s *PaymentService) ListAllocations(ctx context.Context, paymentID uuid.UUID) ([]entity.PaymentAllocation, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NewNotFoundError("Payment")
	}
	return s.allocationRepo.ListForPayment(ctx, paymentID)
}

// settlementAccountFor maps a payment mode to the chart account the money
// lands in. Cash stays in the cash account; every bank-routed mode debits the
// bank account.
func (s *PaymentService) settlementAccountFor(ctx context.Context, mode enum.PaymentMode) (*entity.Account, error) {
	code := s.settlement.BankCode
	if mode == enum.PaymentModeCash {
		code = s.settlement.CashCode
	}
	return s.accountByCode(ctx, code)
}

func (s *PaymentService) accountByCode(ctx context.Context, code string) (*entity.Account, error) {
	account, err := s.accountRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("Settlement account %s", code))
	}
	return account, nil
}
