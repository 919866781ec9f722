package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/medilink/hms-api/internal/domain/entity"
	"github.com/medilink/hms-api/pkg/pagination"
)

// InvoiceRepository defines the interface for outstanding invoice data operations
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.OutstandingInvoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.OutstandingInvoice, error)
	Update(ctx context.Context, invoice *entity.OutstandingInvoice) error
	List(ctx context.Context, params *InvoiceFilterParams) ([]entity.OutstandingInvoice, int64, error)

	// ListOpen returns every invoice with a positive outstanding amount,
	// optionally for one patient. Fully paid invoices are excluded.
	ListOpen(ctx context.Context, patientID *uuid.UUID) ([]entity.OutstandingInvoice, error)
}

// InvoiceFilterParams contains filtering parameters for invoice queries
type InvoiceFilterParams struct {
	Pagination      *pagination.PaginationParams
	PatientID       *uuid.UUID
	StartDate       *time.Time
	EndDate         *time.Time
	OutstandingOnly bool
}
