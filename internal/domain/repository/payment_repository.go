package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/medilink/hms-api/internal/domain/entity"
	"github.com/medilink/hms-api/internal/domain/enum"
	"github.com/medilink/hms-api/pkg/pagination"
)

// PaymentRepository defines the interface for payment transaction data operations
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.PaymentTransaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.PaymentTransaction, error)
	Update(ctx context.Context, payment *entity.PaymentTransaction) error
	List(ctx context.Context, params *PaymentFilterParams) ([]entity.PaymentTransaction, int64, error)
}

// PaymentFilterParams contains filtering parameters for payment queries
type PaymentFilterParams struct {
	Pagination *pagination.PaginationParams
	PatientID  *uuid.UUID
	Status     *enum.PaymentStatus
	Mode       *enum.PaymentMode
	StartDate  *time.Time
	EndDate    *time.Time
}

// AllocationRepository defines the interface for payment allocation data operations
type AllocationRepository interface {
	Create(ctx context.Context, allocation *entity.PaymentAllocation) error
	ListForPayment(ctx context.Context, paymentID uuid.UUID) ([]entity.PaymentAllocation, error)
	ListForInvoice(ctx context.Context, invoiceID uuid.UUID) ([]entity.PaymentAllocation, error)

	// SumForPayment returns the total paise already allocated out of a payment.
	SumForPayment(ctx context.Context, paymentID uuid.UUID) (int64, error)
	// SumForInvoice returns the total paise already allocated against an invoice.
	SumForInvoice(ctx context.Context, invoiceID uuid.UUID) (int64, error)
}
