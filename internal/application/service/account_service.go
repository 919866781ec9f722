package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/medilink/hms-api/internal/domain/entity"
	"github.com/medilink/hms-api/internal/domain/enum"
	"github.com/medilink/hms-api/internal/domain/repository"
	"github.com/medilink/hms-api/pkg/apperror"
	"github.com/medilink/hms-api/pkg/pagination"
)

// ChartCache is the chart-of-accounts read cache. Code lookups read through
// it; the service invalidates it on every mutation and the sync engine on
// imports and push notifications.
type ChartCache interface {
	Accounts(ctx context.Context) ([]entity.Account, error)
	Invalidate()
}

// AccountService manages the chart of accounts. Both manual edits and the
// sync importer go through this service, so idempotent matching by external
// key lives here and nowhere else.
type AccountService struct {
	accountRepo repository.AccountRepository
	cache       ChartCache
}

// NewAccountService creates a new account service
func NewAccountService(accountRepo repository.AccountRepository, cache ChartCache) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		cache:       cache,
	}
}

// CreateAccountInput represents the input for creating an account
type CreateAccountInput struct {
	Code               string
	Name               string
	Type               enum.AccountType
	OpeningBalance     int64
	OpeningBalanceSide enum.BalanceSide
	ExternalKey        string
}

// CreateAccount creates a new chart account with a unique code
func (s *AccountService) CreateAccount(ctx context.Context, input *CreateAccountInput) (*entity.Account, error) {
	code := strings.TrimSpace(input.Code)
	name := strings.TrimSpace(input.Name)
	if code == "" || name == "" {
		return nil, apperror.NewBadRequestError("Account code and name are required")
	}
	if input.OpeningBalance < 0 {
		return nil, apperror.NewUnprocessableError("Opening balance must not be negative")
	}

	existing, err := s.accountRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Account code already in use")
	}

	account := &entity.Account{
		Code:               code,
		Name:               name,
		Type:               input.Type,
		OpeningBalance:     input.OpeningBalance,
		OpeningBalanceSide: input.OpeningBalanceSide,
		Active:             true,
		ExternalKey:        input.ExternalKey,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	s.invalidate()
	return account, nil
}

// UpdateAccountInput represents the input for updating an account
type UpdateAccountInput struct {
	Name *string
	Type *enum.AccountType
}

// UpdateAccount updates an account's mutable fields. The code is immutable
// once created; vouchers and external mappings key off it.
func (s *AccountService) UpdateAccount(ctx context.Context, id uuid.UUID, input *UpdateAccountInput) (*entity.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperror.NewNotFoundError("Account")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.NewBadRequestError("Account name must not be empty")
		}
		account.Name = name
	}
	if input.Type != nil {
		account.Type = *input.Type
	}

	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	s.invalidate()
	return account, nil
}

// DeactivateAccount marks an account inactive. Inactive accounts reject new
// voucher entries but keep their history.
func (s *AccountService) DeactivateAccount(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	return s.setActive(ctx, id, false)
}

// ActivateAccount re-enables a deactivated account
func (s *AccountService) ActivateAccount(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	return s.setActive(ctx, id, true)
}

func (s *AccountService) setActive(ctx context.Context, id uuid.UUID, active bool) (*entity.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperror.NewNotFoundError("Account")
	}

	account.Active = active
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	s.invalidate()
	return account, nil
}

// GetAccount retrieves an account by id
func (s *AccountService) GetAccount(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperror.NewNotFoundError("Account")
	}
	return account, nil
}

// GetAccountByCode retrieves an account by its chart code. Lookups are served
// from the chart cache when one is wired; mutations invalidate it, so a hit
// never outlives the chart it was read from.
func (s *AccountService) GetAccountByCode(ctx context.Context, code string) (*entity.Account, error) {
	if s.cache != nil {
		accounts, err := s.cache.Accounts(ctx)
		if err != nil {
			return nil, err
		}
		for i := range accounts {
			if accounts[i].Code == code {
				return &accounts[i], nil
			}
		}
		return nil, apperror.NewNotFoundError("Account")
	}

	account, err := s.accountRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperror.NewNotFoundError("Account")
	}
	return account, nil
}

// ListAccounts lists accounts with filtering and pagination
func (s *AccountService) ListAccounts(ctx context.Context, params *repository.AccountFilterParams) (*pagination.PaginatedResult[entity.Account], error) {
	if params == nil {
		params = &repository.AccountFilterParams{}
	}
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	accounts, total, err := s.accountRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	p := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(accounts, p), nil
}

// UpsertExternalInput is one account record arriving from the external
// bookkeeping system.
type UpsertExternalInput struct {
	ExternalKey        string
	Code               string
	Name               string
	Type               enum.AccountType
	OpeningBalance     int64
	OpeningBalanceSide enum.BalanceSide
	// UpdateExisting controls whether a matched record overwrites local
	// name/type/opening-balance fields or is left untouched.
	UpdateExisting bool
}

// UpsertExternal matches an imported record to a local account by external
// key, falling back to code, and creates or updates it. Re-importing the same
// document is a no-op.
//
// Returns the account and whether a row was created.
func (s *AccountService) UpsertExternal(ctx context.Context, input *UpsertExternalInput) (*entity.Account, bool, error) {
	if input.ExternalKey == "" {
		return nil, false, apperror.NewBadRequestError("External key is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, false, apperror.NewBadRequestError("Account name is required")
	}

	account, err := s.accountRepo.GetByExternalKey(ctx, input.ExternalKey)
	if err != nil {
		return nil, false, err
	}

	if account == nil && input.Code != "" {
		// A locally created account that the external system also knows about:
		// adopt it by code and attach the key.
		account, err = s.accountRepo.GetByCode(ctx, input.Code)
		if err != nil {
			return nil, false, err
		}
	}

	if account == nil {
		account = &entity.Account{
			Code:               input.Code,
			Name:               strings.TrimSpace(input.Name),
			Type:               input.Type,
			OpeningBalance:     input.OpeningBalance,
			OpeningBalanceSide: input.OpeningBalanceSide,
			Active:             true,
			ExternalKey:        input.ExternalKey,
		}
		if err := s.accountRepo.Create(ctx, account); err != nil {
			return nil, false, err
		}
		s.invalidate()
		return account, true, nil
	}

	changed := false
	if account.ExternalKey != input.ExternalKey {
		account.ExternalKey = input.ExternalKey
		changed = true
	}
	if input.UpdateExisting {
		if name := strings.TrimSpace(input.Name); name != "" && account.Name != name {
			account.Name = name
			changed = true
		}
		if account.Type != input.Type {
			account.Type = input.Type
			changed = true
		}
		if account.OpeningBalance != input.OpeningBalance || account.OpeningBalanceSide != input.OpeningBalanceSide {
			account.OpeningBalance = input.OpeningBalance
			account.OpeningBalanceSide = input.OpeningBalanceSide
			changed = true
		}
	}

	if changed {
		if err := s.accountRepo.Update(ctx, account); err != nil {
			return nil, false, err
		}
		s.invalidate()
	}
	return account, false, nil
}

func (s *AccountService) invalidate() {
	if s.cache != nil {
		s.cache.Invalidate()
	}
}
