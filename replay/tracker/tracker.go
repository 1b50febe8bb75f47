package tracker

import (
	"context"

	"github.com/LerianStudio/ledger-replay/replay/account"
	"github.com/shopspring/decimal"
)

// Tracker pairs the applied and disputed amount caches.
type Tracker struct {
	applied  Cache
	disputed Cache
}

// New returns a Tracker over the given caches.
func New(applied, disputed Cache) *Tracker {
	return &Tracker{applied: applied, disputed: disputed}
}

// NewMemory returns a Tracker over two fresh MemoryCaches.
func NewMemory() *Tracker {
	return New(NewMemoryCache(), NewMemoryCache())
}

// RecordApplied remembers the amount of a successful deposit or withdrawal.
func (t *Tracker) RecordApplied(ctx context.Context, tx account.TxID, amount decimal.Decimal) error {
	return t.applied.Put(ctx, tx, amount)
}

// RecordDisputed marks tx as under dispute for amount.
func (t *Tracker) RecordDisputed(ctx context.Context, tx account.TxID, amount decimal.Decimal) error {
	return t.disputed.Put(ctx, tx, amount)
}

// RemoveDisputed closes the dispute on tx.
func (t *Tracker) RemoveDisputed(ctx context.Context, tx account.TxID) error {
	return t.disputed.Delete(ctx, tx)
}

// LookupApplied returns the applied amount of tx.
func (t *Tracker) LookupApplied(ctx context.Context, tx account.TxID) (decimal.Decimal, bool, error) {
	return t.applied.Get(ctx, tx)
}

// LookupDisputed returns the disputed amount of tx.
func (t *Tracker) LookupDisputed(ctx context.Context, tx account.TxID) (decimal.Decimal, bool, error) {
	return t.disputed.Get(ctx, tx)
}
