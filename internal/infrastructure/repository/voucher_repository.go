package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/medilink/hms-api/internal/domain/entity"
	"github.com/medilink/hms-api/internal/domain/enum"
	domainRepo "github.com/medilink/hms-api/internal/domain/repository"
	"gorm.io/gorm"
)

type voucherRepository struct {
	db *gorm.DB
}

// NewVoucherRepository creates a new voucher repository
func NewVoucherRepository(db *gorm.DB) domainRepo.VoucherRepository {
	return &voucherRepository{db: db}
}

func (r *voucherRepository) Create(ctx context.Context, voucher *entity.Voucher) error {
	// gorm cascades the Entries association in the same insert.
	return dbFrom(ctx, r.db).Create(voucher).Error
}

func (r *voucherRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Voucher, error) {
	var voucher entity.Voucher
	err := dbFrom(ctx, r.db).
		Preload("Entries").
		Preload("Entries.Account").
		Preload("Entries.PatientLedger.Patient").
		Preload("Patient").
		First(&voucher, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &voucher, err
}

func (r *voucherRepository) GetByNumber(ctx context.Context, number string) (*entity.Voucher, error) {
	var voucher entity.Voucher
	err := dbFrom(ctx, r.db).Preload("Entries").First(&voucher, "number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &voucher, err
}

func (r *voucherRepository) GetByExternalKey(ctx context.Context, key string) (*entity.Voucher, error) {
	var voucher entity.Voucher
	err := dbFrom(ctx, r.db).Preload("Entries").First(&voucher, "external_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &voucher, err
}

func (r *voucherRepository) Update(ctx context.Context, voucher *entity.Voucher) error {
	return dbFrom(ctx, r.db).Omit("Entries").Save(voucher).Error
}

func (r *voucherRepository) List(ctx context.Context, params *domainRepo.VoucherFilterParams) ([]entity.Voucher, int64, error) {
	var vouchers []entity.Voucher
	var total int64

	query := dbFrom(ctx, r.db).Model(&entity.Voucher{})

	if params.Type != nil {
		query = query.Where("type = ?", *params.Type)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.PatientID != nil {
		query = query.Where("patient_id = ?", *params.PatientID)
	}
	if params.StartDate != nil {
		query = query.Where("date >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("date <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "number"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Entries").
		Preload("Entries.Account").
		Preload("Entries.PatientLedger.Patient").
		Order(sortBy + " " + sortOrder).
		Find(&vouchers).Error

	return vouchers, total, err
}

func (r *voucherRepository) NextNumber(ctx context.Context, voucherType enum.VoucherType) (int64, error) {
	db := dbFrom(ctx, r.db)

	// Single-statement increment: the UPDATE holds the row lock until the
	// surrounding transaction commits, so concurrent creations of the same
	// type serialize instead of racing a read-then-save.
	res := db.Model(&entity.VoucherSequence{}).
		Where("type = ?", voucherType).
		Update("next_number", gorm.Expr("next_number + 1"))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		seq := entity.VoucherSequence{Type: voucherType, NextNumber: 2}
		if err := db.Create(&seq).Error; err != nil {
			return 0, err
		}
		return 1, nil
	}

	var seq entity.VoucherSequence
	if err := db.First(&seq, "type = ?", voucherType).Error; err != nil {
		return 0, err
	}
	return seq.NextNumber - 1, nil
}

func (r *voucherRepository) EntriesForPatientLedger(ctx context.Context, patientLedgerID uuid.UUID) ([]entity.VoucherEntry, error) {
	var entries []entity.VoucherEntry
	err := dbFrom(ctx, r.db).
		Joins("JOIN vouchers ON vouchers.id = voucher_entries.voucher_id").
		Where("voucher_entries.patient_ledger_id = ? AND vouchers.status = ?", patientLedgerID, enum.VoucherStatusPosted).
		Order("vouchers.number ASC").
		Find(&entries).Error
	return entries, err
}

func (r *voucherRepository) EntryTotalsForAccount(ctx context.Context, accountID uuid.UUID, asOf *time.Time) (int64, int64, error) {
	var totals struct {
		Debit  int64
		Credit int64
	}

	query := dbFrom(ctx, r.db).Model(&entity.VoucherEntry{}).
		Select("COALESCE(SUM(voucher_entries.debit_amount), 0) AS debit, COALESCE(SUM(voucher_entries.credit_amount), 0) AS credit").
		Joins("JOIN vouchers ON vouchers.id = voucher_entries.voucher_id").
		Where("voucher_entries.account_id = ? AND vouchers.status = ?", accountID, enum.VoucherStatusPosted)

	if asOf != nil {
		query = query.Where("vouchers.date <= ?", *asOf)
	}

	err := query.Scan(&totals).Error
	return totals.Debit, totals.Credit, err
}
