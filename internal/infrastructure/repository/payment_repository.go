package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/medilink/hms-api/internal/domain/entity"
	domainRepo "github.com/medilink/hms-api/internal/domain/repository"
	"gorm.io/gorm"
)

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) domainRepo.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.PaymentTransaction) error {
	return dbFrom(ctx, r.db).Create(payment).Error
}

func (r *paymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.PaymentTransaction, error) {
	var payment entity.PaymentTransaction
	err := dbFrom(ctx, r.db).
		Preload("Allocations").
		First(&payment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &payment, err
}

func (r *paymentRepository) Update(ctx context.Context, payment *entity.PaymentTransaction) error {
	return dbFrom(ctx, r.db).Omit("Allocations").Save(payment).Error
}

func (r *paymentRepository) List(ctx context.Context, params *domainRepo.PaymentFilterParams) ([]entity.PaymentTransaction, int64, error) {
	var payments []entity.PaymentTransaction
	var total int64

	query := dbFrom(ctx, r.db).Model(&entity.PaymentTransaction{})

	if params.PatientID != nil {
		query = query.Where("patient_id = ?", *params.PatientID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Mode != nil {
		query = query.Where("mode = ?", *params.Mode)
	}
	if params.StartDate != nil {
		query = query.Where("payment_date >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("payment_date <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("payment_date DESC").
		Find(&payments).Error

	return payments, total, err
}

type allocationRepository struct {
	db *gorm.DB
}

// NewAllocationRepository creates a new payment allocation repository
func NewAllocationRepository(db *gorm.DB) domainRepo.AllocationRepository {
	return &allocationRepository{db: db}
}

func (r *allocationRepository) Create(ctx context.Context, allocation *entity.PaymentAllocation) error {
	return dbFrom(ctx, r.db).Create(allocation).Error
}

func (r *allocationRepository) ListForPayment(ctx context.Context, paymentID uuid.UUID) ([]entity.PaymentAllocation, error) {
	var allocations []entity.PaymentAllocation
	err := dbFrom(ctx, r.db).
		Preload("Invoice").
		Where("payment_id = ?", paymentID).
		Order("created_at ASC").
		Find(&allocations).Error
	return allocations, err
}

func (r *allocationRepository) ListForInvoice(ctx context.Context, invoiceID uuid.UUID) ([]entity.PaymentAllocation, error) {
	var allocations []entity.PaymentAllocation
	err := dbFrom(ctx, r.db).
		Where("invoice_id = ?", invoiceID).
		Order("created_at ASC").
		Find(&allocations).Error
	return allocations, err
}

func (r *allocationRepository) SumForPayment(ctx context.Context, paymentID uuid.UUID) (int64, error) {
	var total int64
	err := dbFrom(ctx, r.db).Model(&entity.PaymentAllocation{}).
		Where("payment_id = ?", paymentID).
		Select("COALESCE(SUM(allocated_amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *allocationRepository) SumForInvoice(ctx context.Context, invoiceID uuid.UUID) (int64, error) {
	var total int64
	err := dbFrom(ctx, r.db).Model(&entity.PaymentAllocation{}).
		Where("invoice_id = ?", invoiceID).
		Select("COALESCE(SUM(allocated_amount), 0)").
		Scan(&total).Error
	return total, err
}
