package engine

import (
	"context"
	"io"

	"github.com/LerianStudio/ledger-replay/replay/account"
	"github.com/shopspring/decimal"
)

// Transaction is one record of the replayed log.
type Transaction struct {
	Kind   Kind
	Client account.ClientID
	Tx     account.TxID
	// Amount is required for deposits and withdrawals and ignored otherwise.
	Amount decimal.NullDecimal
}

// Source yields transactions in log order. Next returns io.EOF once the log
// is exhausted; any other error aborts the run.
type Source interface {
	Next(ctx context.Context) (Transaction, error)
}

// SliceSource is a Source over an in-memory slice.
type SliceSource struct {
	transactions []Transaction
	pos          int
}

// NewSliceSource returns a Source yielding transactions in slice order.
func NewSliceSource(transactions []Transaction) *SliceSource {
	return &SliceSource{transactions: transactions}
}

// Next returns the next transaction or io.EOF.
func (s *SliceSource) Next(ctx context.Context) (Transaction, error) {
	if err := ctx.Err(); err != nil {
		return Transaction{}, err
	}

	if s.pos >= len(s.transactions) {
		return Transaction{}, io.EOF
	}

	tx := s.transactions[s.pos]
	s.pos++

	return tx, nil
}
