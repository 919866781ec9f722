package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/medilink/hms-api/internal/domain/entity"
	domainRepo "github.com/medilink/hms-api/internal/domain/repository"
	"gorm.io/gorm"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) domainRepo.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	return dbFrom(ctx, r.db).Create(account).Error
}

func (r *accountRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	var account entity.Account
	err := dbFrom(ctx, r.db).First(&account, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &account, err
}

func (r *accountRepository) GetByCode(ctx context.Context, code string) (*entity.Account, error) {
	var account entity.Account
	err := dbFrom(ctx, r.db).First(&account, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &account, err
}

func (r *accountRepository) GetByExternalKey(ctx context.Context, key string) (*entity.Account, error) {
	var account entity.Account
	err := dbFrom(ctx, r.db).First(&account, "external_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &account, err
}

func (r *accountRepository) Update(ctx context.Context, account *entity.Account) error {
	return dbFrom(ctx, r.db).Save(account).Error
}

func (r *accountRepository) List(ctx context.Context, params *domainRepo.AccountFilterParams) ([]entity.Account, int64, error) {
	var accounts []entity.Account
	var total int64

	query := dbFrom(ctx, r.db).Model(&entity.Account{})

	if params.Search != "" {
		query = query.Where("name ILIKE ? OR code ILIKE ?", "%"+params.Search+"%", "%"+params.Search+"%")
	}
	if params.Type != nil {
		query = query.Where("type = ?", *params.Type)
	}
	if params.ActiveOnly {
		query = query.Where("active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("code ASC").
		Find(&accounts).Error

	return accounts, total, err
}

func (r *accountRepository) ListAll(ctx context.Context) ([]entity.Account, error) {
	var accounts []entity.Account
	err := dbFrom(ctx, r.db).Order("code ASC").Find(&accounts).Error
	return accounts, err
}
