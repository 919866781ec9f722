package service

import (
	"context"
	"testing"
	"time"

	"github.com/medilink/hms-api/internal/domain/enum"
	"github.com/medilink/hms-api/internal/infrastructure/cache"
	infra "github.com/medilink/hms-api/internal/infrastructure/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAccount(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	t.Run("creates an active account", func(t *testing.T) {
		account, err := stack.Accounts.CreateAccount(ctx, &CreateAccountInput{
			Code: "4050",
			Name: "Radiology Income",
			Type: enum.AccountTypeIncome,
		})
		require.NoError(t, err)
		assert.True(t, account.Active)
		assert.Equal(t, "4050", account.Code)
	})

	t.Run("duplicate code conflicts", func(t *testing.T) {
		_, err := stack.Accounts.CreateAccount(ctx, &CreateAccountInput{
			Code: "4050",
			Name: "Another Income",
			Type: enum.AccountTypeIncome,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already in use")
	})

	t.Run("code and name are required", func(t *testing.T) {
		_, err := stack.Accounts.CreateAccount(ctx, &CreateAccountInput{Code: "  ", Name: "X"})
		require.Error(t, err)
		_, err = stack.Accounts.CreateAccount(ctx, &CreateAccountInput{Code: "9000", Name: " "})
		require.Error(t, err)
	})

	t.Run("negative opening balance is rejected", func(t *testing.T) {
		_, err := stack.Accounts.CreateAccount(ctx, &CreateAccountInput{
			Code:           "9000",
			Name:           "Suspense",
			Type:           enum.AccountTypeAsset,
			OpeningBalance: -1,
		})
		require.Error(t, err)
	})
}

func TestAccountActivation(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	account := stack.seedAccount(t, "5020", "Equipment Expense", enum.AccountTypeExpense)

	deactivated, err := stack.Accounts.DeactivateAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.Active)

	activated, err := stack.Accounts.ActivateAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, activated.Active)
}

func TestUpdateAccount(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	account := stack.seedAccount(t, "4060", "Physio Income", enum.AccountTypeIncome)

	name := "Physiotherapy Income"
	updated, err := stack.Accounts.UpdateAccount(ctx, account.ID, &UpdateAccountInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Physiotherapy Income", updated.Name)
	assert.Equal(t, "4060", updated.Code)

	empty := "  "
	_, err = stack.Accounts.UpdateAccount(ctx, account.ID, &UpdateAccountInput{Name: &empty})
	require.Error(t, err)
}

func TestGetAccountByCodeReadsThroughCache(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	repo := infra.NewAccountRepository(db)
	accounts := NewAccountService(repo, cache.NewChartCache(repo, time.Hour))

	created, err := accounts.CreateAccount(ctx, &CreateAccountInput{
		Code: "1000",
		Name: "Cash in Hand",
		Type: enum.AccountTypeAsset,
	})
	require.NoError(t, err)

	got, err := accounts.GetAccountByCode(ctx, "1000")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	t.Run("serves from the cache until invalidated", func(t *testing.T) {
		// Rename behind the service's back: the cached chart still holds the
		// old name.
		require.NoError(t, db.Model(created).Update("name", "Front Desk Cash").Error)

		stale, err := accounts.GetAccountByCode(ctx, "1000")
		require.NoError(t, err)
		assert.Equal(t, "Cash in Hand", stale.Name)
	})

	t.Run("mutations through the service refresh the next read", func(t *testing.T) {
		name := "Main Cash"
		_, err := accounts.UpdateAccount(ctx, created.ID, &UpdateAccountInput{Name: &name})
		require.NoError(t, err)

		fresh, err := accounts.GetAccountByCode(ctx, "1000")
		require.NoError(t, err)
		assert.Equal(t, "Main Cash", fresh.Name)
	})

	t.Run("unknown code is not found", func(t *testing.T) {
		_, err := accounts.GetAccountByCode(ctx, "9999")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestUpsertExternal(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	t.Run("creates an account for a new external key", func(t *testing.T) {
		account, created, err := stack.Accounts.UpsertExternal(ctx, &UpsertExternalInput{
			ExternalKey:        "guid-cash",
			Code:               "1000",
			Name:               "Cash in Hand",
			Type:               enum.AccountTypeAsset,
			OpeningBalance:     50000,
			OpeningBalanceSide: enum.BalanceSideDebit,
		})
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "guid-cash", account.ExternalKey)
		assert.True(t, account.Active)
	})

	t.Run("re-import of the same key is a no-op", func(t *testing.T) {
		account, created, err := stack.Accounts.UpsertExternal(ctx, &UpsertExternalInput{
			ExternalKey: "guid-cash",
			Code:        "1000",
			Name:        "Cash in Hand",
			Type:        enum.AccountTypeAsset,
		})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, int64(50000), account.OpeningBalance)
	})

	t.Run("matched record updates only when asked", func(t *testing.T) {
		untouched, _, err := stack.Accounts.UpsertExternal(ctx, &UpsertExternalInput{
			ExternalKey: "guid-cash",
			Name:        "Petty Cash",
			Type:        enum.AccountTypeAsset,
		})
		require.NoError(t, err)
		assert.Equal(t, "Cash in Hand", untouched.Name)

		renamed, created, err := stack.Accounts.UpsertExternal(ctx, &UpsertExternalInput{
			ExternalKey:    "guid-cash",
			Name:           "Petty Cash",
			Type:           enum.AccountTypeAsset,
			UpdateExisting: true,
		})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "Petty Cash", renamed.Name)
	})

	t.Run("adopts a locally created account by code", func(t *testing.T) {
		local := stack.seedAccount(t, "4000", "Consultation Income", enum.AccountTypeIncome)

		account, created, err := stack.Accounts.UpsertExternal(ctx, &UpsertExternalInput{
			ExternalKey: "guid-consult",
			Code:        "4000",
			Name:        "Consultation Income",
			Type:        enum.AccountTypeIncome,
		})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, local.ID, account.ID)
		assert.Equal(t, "guid-consult", account.ExternalKey)
	})

	t.Run("requires a key and a name", func(t *testing.T) {
		_, _, err := stack.Accounts.UpsertExternal(ctx, &UpsertExternalInput{Name: "No Key"})
		require.Error(t, err)
		_, _, err = stack.Accounts.UpsertExternal(ctx, &UpsertExternalInput{ExternalKey: "guid-x"})
		require.Error(t, err)
	})
}
