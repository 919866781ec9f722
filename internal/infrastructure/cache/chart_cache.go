// Package cache holds small in-process read caches. The chart of accounts is
// read on nearly every ledger operation but changes rarely, so it is worth a
// TTL cache in front of the database.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/medilink/hms-api/internal/domain/entity"
	"github.com/medilink/hms-api/internal/domain/repository"
)

// ChartCache caches the full chart of accounts with a TTL. Invalidate drops
// it immediately; mutations and sync push notifications both call it.
type ChartCache struct {
	accountRepo repository.AccountRepository
	ttl         time.Duration

	mu       sync.RWMutex
	accounts []entity.Account
	loadedAt time.Time
}

// NewChartCache creates a chart-of-accounts cache with the given TTL
func NewChartCache(accountRepo repository.AccountRepository, ttl time.Duration) *ChartCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ChartCache{
		accountRepo: accountRepo,
		ttl:         ttl,
	}
}

// Accounts returns the cached chart, reloading it when missing or expired.
// Callers get a copy; the cached slice is never handed out.
func (c *ChartCache) Accounts(ctx context.Context) ([]entity.Account, error) {
	c.mu.RLock()
	if c.accounts != nil && time.Since(c.loadedAt) < c.ttl {
		out := make([]entity.Account, len(c.accounts))
		copy(out, c.accounts)
		c.mu.RUnlock()
		return out, nil
	}
	c.mu.RUnlock()

	accounts, err := c.accountRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.accounts = accounts
	c.loadedAt = time.Now()
	c.mu.Unlock()

	out := make([]entity.Account, len(accounts))
	copy(out, accounts)
	return out, nil
}

// Invalidate drops the cached chart so the next read hits the database
func (c *ChartCache) Invalidate() {
	c.mu.Lock()
	c.accounts = nil
	c.mu.Unlock()
}
