package tracker

import (
	"context"

	"github.com/LerianStudio/ledger-replay/replay/account"
	"github.com/shopspring/decimal"
)

// Cache is a keyed store of transaction amounts.
type Cache interface {
	Put(ctx context.Context, tx account.TxID, amount decimal.Decimal) error
	// Get reports the amount stored for tx and whether it was present.
	Get(ctx context.Context, tx account.TxID) (decimal.Decimal, bool, error)
	Delete(ctx context.Context, tx account.TxID) error
}

// MemoryCache is a map-backed Cache owned by a single replay run.
// It is not safe for concurrent use.
type MemoryCache struct {
	amounts map[account.TxID]decimal.Decimal
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{amounts: make(map[account.TxID]decimal.Decimal)}
}

// Put stores amount under tx, replacing any previous value.
func (c *MemoryCache) Put(_ context.Context, tx account.TxID, amount decimal.Decimal) error {
	c.amounts[tx] = amount

	return nil
}

// Get returns the amount stored under tx.
func (c *MemoryCache) Get(_ context.Context, tx account.TxID) (decimal.Decimal, bool, error) {
	amount, ok := c.amounts[tx]

	return amount, ok, nil
}

// Delete removes tx. Deleting a missing id is a no-op.
func (c *MemoryCache) Delete(_ context.Context, tx account.TxID) error {
	delete(c.amounts, tx)

	return nil
}

// Len returns the number of stored amounts.
func (c *MemoryCache) Len() int {
	return len(c.amounts)
}
