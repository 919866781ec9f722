package cache

import (
	"context"
	"testing"
	"time"

	"github.com/medilink/hms-api/internal/domain/entity"
	"github.com/medilink/hms-api/internal/domain/enum"
	infra "github.com/medilink/hms-api/internal/infrastructure/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupAccounts(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&entity.Account{}))
	return db
}

func addAccount(t *testing.T, db *gorm.DB, code, name string) {
	t.Helper()
	require.NoError(t, db.Create(&entity.Account{
		Code:   code,
		Name:   name,
		Type:   enum.AccountTypeAsset,
		Active: true,
	}).Error)
}

func TestChartCacheServesStaleUntilInvalidated(t *testing.T) {
	db := setupAccounts(t)
	ctx := context.Background()
	addAccount(t, db, "1000", "Cash in Hand")

	cache := NewChartCache(infra.NewAccountRepository(db), time.Hour)

	first, err := cache.Accounts(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// A row added behind the cache is invisible until invalidation.
	addAccount(t, db, "1010", "Bank Account")

	stale, err := cache.Accounts(ctx)
	require.NoError(t, err)
	assert.Len(t, stale, 1)

	cache.Invalidate()

	fresh, err := cache.Accounts(ctx)
	require.NoError(t, err)
	assert.Len(t, fresh, 2)
}

func TestChartCacheTTLExpiry(t *testing.T) {
	db := setupAccounts(t)
	ctx := context.Background()
	addAccount(t, db, "1000", "Cash in Hand")

	cache := NewChartCache(infra.NewAccountRepository(db), 10*time.Millisecond)

	_, err := cache.Accounts(ctx)
	require.NoError(t, err)

	addAccount(t, db, "1010", "Bank Account")
	time.Sleep(20 * time.Millisecond)

	reloaded, err := cache.Accounts(ctx)
	require.NoError(t, err)
	assert.Len(t, reloaded, 2)
}

func TestChartCacheReturnsCopies(t *testing.T) {
	db := setupAccounts(t)
	ctx := context.Background()
	addAccount(t, db, "1000", "Cash in Hand")

	cache := NewChartCache(infra.NewAccountRepository(db), time.Hour)

	first, err := cache.Accounts(ctx)
	require.NoError(t, err)
	first[0].Name = "Mutated"

	second, err := cache.Accounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Cash in Hand", second[0].Name)
}
