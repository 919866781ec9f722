package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/medilink/hms-api/internal/domain/entity"
	domainRepo "github.com/medilink/hms-api/internal/domain/repository"
	"gorm.io/gorm"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.OutstandingInvoice) error {
	return dbFrom(ctx, r.db).Create(invoice).Error
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.OutstandingInvoice, error) {
	var invoice entity.OutstandingInvoice
	err := dbFrom(ctx, r.db).First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *entity.OutstandingInvoice) error {
	return dbFrom(ctx, r.db).Save(invoice).Error
}

func (r *invoiceRepository) List(ctx context.Context, params *domainRepo.InvoiceFilterParams) ([]entity.OutstandingInvoice, int64, error) {
	var invoices []entity.OutstandingInvoice
	var total int64

	query := dbFrom(ctx, r.db).Model(&entity.OutstandingInvoice{})

	if params.PatientID != nil {
		query = query.Where("patient_id = ?", *params.PatientID)
	}
	if params.StartDate != nil {
		query = query.Where("invoice_date >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("invoice_date <= ?", *params.EndDate)
	}
	if params.OutstandingOnly {
		query = query.Where("outstanding_amount > 0")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("due_date ASC").
		Find(&invoices).Error

	return invoices, total, err
}

func (r *invoiceRepository) ListOpen(ctx context.Context, patientID *uuid.UUID) ([]entity.OutstandingInvoice, error) {
	var invoices []entity.OutstandingInvoice

	query := dbFrom(ctx, r.db).Where("outstanding_amount > 0")
	if patientID != nil {
		query = query.Where("patient_id = ?", *patientID)
	}

	err := query.Order("due_date ASC").Find(&invoices).Error
	return invoices, err
}
