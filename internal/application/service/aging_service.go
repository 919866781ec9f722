package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/medilink/hms-api/internal/domain/entity"
	"github.com/medilink/hms-api/internal/domain/enum"
	"github.com/medilink/hms-api/internal/domain/repository"
	"github.com/medilink/hms-api/pkg/apperror"
	"github.com/medilink/hms-api/pkg/pagination"
)

// AgingService tracks outstanding invoices and rolls them up into receivables
// aging reports. Buckets are always derived from due date and as-of date at
// read time; only snapshot rollups are persisted.
type AgingService struct {
	invoiceRepo repository.InvoiceRepository
	patientRepo repository.PatientRepository
	agingRepo   repository.AgingSnapshotRepository
	txManager   repository.TxManager
}

// NewAgingService creates a new aging service
func NewAgingService(
	invoiceRepo repository.InvoiceRepository,
	patientRepo repository.PatientRepository,
	agingRepo repository.AgingSnapshotRepository,
	txManager repository.TxManager,
) *AgingService {
	return &AgingService{
		invoiceRepo: invoiceRepo,
		patientRepo: patientRepo,
		agingRepo:   agingRepo,
		txManager:   txManager,
	}
}

// BucketFor classifies an invoice due date against an as-of date. Invoices
// not yet due report in the 0-30 bucket.
func (s *AgingService) BucketFor(dueDate, asOf time.Time) enum.AgingBucket {
	days := int(asOf.Sub(dueDate).Hours() / 24)
	return enum.BucketForDays(days)
}

// RecordInvoiceInput represents the input for recording an outstanding invoice
type RecordInvoiceInput struct {
	PatientID     uuid.UUID
	InvoiceNo     string
	InvoiceDate   time.Time
	DueDate       time.Time
	InvoiceAmount int64
}

// RecordInvoice registers a bill as outstanding so it participates in aging
// and payment allocation.
func (s *AgingService) RecordInvoice(ctx context.Context, input *RecordInvoiceInput) (*entity.OutstandingInvoice, error) {
	if strings.TrimSpace(input.InvoiceNo) == "" {
		return nil, apperror.NewBadRequestError("Invoice number is required")
	}
	if input.InvoiceAmount <= 0 {
		return nil, apperror.NewUnprocessableError("Invoice amount must be positive")
	}
	if input.DueDate.Before(input.InvoiceDate) {
		return nil, apperror.NewUnprocessableError("Due date must not be before the invoice date")
	}

	patient, err := s.patientRepo.GetByID(ctx, input.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, apperror.NewNotFoundError("Patient")
	}

	invoice := &entity.OutstandingInvoice{
		PatientID:         input.PatientID,
		InvoiceNo:         strings.TrimSpace(input.InvoiceNo),
		InvoiceDate:       input.InvoiceDate,
		DueDate:           input.DueDate,
		InvoiceAmount:     input.InvoiceAmount,
		OutstandingAmount: input.InvoiceAmount,
	}
	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// GetInvoice retrieves an outstanding invoice by id
func (s *AgingService) GetInvoice(ctx context.Context, id uuid.UUID) (*entity.OutstandingInvoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// ListInvoices lists invoices with filtering and pagination
func (s *AgingService) ListInvoices(ctx context.Context, params *repository.InvoiceFilterParams) (*pagination.PaginatedResult[entity.OutstandingInvoice], error) {
	if params == nil {
		params = &repository.InvoiceFilterParams{}
	}
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	invoices, total, err := s.invoiceRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	p := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(invoices, p), nil
}

// AgedInvoice is an open invoice with its derived bucket.
type AgedInvoice struct {
	Invoice entity.OutstandingInvoice `json:"invoice"`
	Bucket  enum.AgingBucket          `json:"bucket"`
	DaysDue int                       `json:"days_past_due"`
}

// ListAged returns every open invoice with its bucket derived as of the given
// date, optionally for one patient.
func (s *AgingService) ListAged(ctx context.Context, patientID *uuid.UUID, asOf time.Time) ([]AgedInvoice, error) {
	if asOf.IsZero() {
		asOf = time.Now()
	}

	invoices, err := s.invoiceRepo.ListOpen(ctx, patientID)
	if err != nil {
		return nil, err
	}

	aged := make([]AgedInvoice, 0, len(invoices))
	for _, inv := range invoices {
		aged = append(aged, AgedInvoice{
			Invoice: inv,
			Bucket:  s.BucketFor(inv.DueDate, asOf),
			DaysDue: int(asOf.Sub(inv.DueDate).Hours() / 24),
		})
	}
	return aged, nil
}

// TakeSnapshot rolls every open invoice into per-patient bucket totals and
// persists them as an immutable reporting run. Patients with nothing
// outstanding get no row.
func (s *AgingService) TakeSnapshot(ctx context.Context, asOf time.Time) ([]entity.AgingSnapshot, error) {
	if asOf.IsZero() {
		asOf = time.Now()
	}

	var snapshots []entity.AgingSnapshot

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		invoices, err := s.invoiceRepo.ListOpen(ctx, nil)
		if err != nil {
			return err
		}

		runID := uuid.New()
		byPatient := make(map[uuid.UUID]*entity.AgingSnapshot)
		for _, inv := range invoices {
			row, ok := byPatient[inv.PatientID]
			if !ok {
				row = &entity.AgingSnapshot{
					RunID:        runID,
					PatientID:    inv.PatientID,
					SnapshotDate: asOf,
				}
				byPatient[inv.PatientID] = row
			}

			switch s.BucketFor(inv.DueDate, asOf) {
			case enum.AgingBucket0To30:
				row.Bucket0To30 += inv.OutstandingAmount
			case enum.AgingBucket31To60:
				row.Bucket31To60 += inv.OutstandingAmount
			case enum.AgingBucket61To90:
				row.Bucket61To90 += inv.OutstandingAmount
			case enum.AgingBucket91To180:
				row.Bucket91To180 += inv.OutstandingAmount
			case enum.AgingBucket181To365:
				row.Bucket181To365 += inv.OutstandingAmount
			case enum.AgingBucket365Plus:
				row.Bucket365Plus += inv.OutstandingAmount
			}
			row.TotalOutstanding += inv.OutstandingAmount
		}

		snapshots = make([]entity.AgingSnapshot, 0, len(byPatient))
		for _, row := range byPatient {
			snapshots = append(snapshots, *row)
		}
		sort.Slice(snapshots, func(i, j int) bool {
			return snapshots[i].PatientID.String() < snapshots[j].PatientID.String()
		})

		return s.agingRepo.CreateBatch(ctx, snapshots)
	})
	if err != nil {
		return nil, err
	}

	return snapshots, nil
}

// ListSnapshotRun returns the snapshot rows of one reporting run
func (s *AgingService) ListSnapshotRun(ctx context.Context, runID uuid.UUID) ([]entity.AgingSnapshot, error) {
	return s.agingRepo.ListByRun(ctx, runID)
}

// ListRecentSnapshots returns the rows of the most recent reporting runs
func (s *AgingService) ListRecentSnapshots(ctx context.Context, runs int) ([]entity.AgingSnapshot, error) {
	if runs < 1 {
		runs = 1
	}
	return s.agingRepo.ListRecent(ctx, runs)
}
