package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/medilink/hms-api/internal/domain/entity"
	"github.com/medilink/hms-api/internal/domain/enum"
	"github.com/medilink/hms-api/pkg/pagination"
)

// AccountRepository defines the interface for chart-of-accounts data operations.
// Accounts are never deleted, only deactivated.
type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)
	GetByCode(ctx context.Context, code string) (*entity.Account, error)
	GetByExternalKey(ctx context.Context, key string) (*entity.Account, error)
	Update(ctx context.Context, account *entity.Account) error
	List(ctx context.Context, params *AccountFilterParams) ([]entity.Account, int64, error)
	ListAll(ctx context.Context) ([]entity.Account, error)
}

// AccountFilterParams contains filtering parameters for account queries
type AccountFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Type       *enum.AccountType
	ActiveOnly bool
}
