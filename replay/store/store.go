package store

import (
	"context"

	"github.com/LerianStudio/ledger-replay/replay/account"
)

// Repository gives the engine access to client accounts.
type Repository interface {
	// GetOrCreate returns the account of client, creating and persisting an
	// empty unlocked one on first reference.
	GetOrCreate(ctx context.Context, client account.ClientID) (*account.Account, error)
	// Save persists the current state of a.
	Save(ctx context.Context, a *account.Account) error
	// All returns a snapshot of every account, in unspecified order.
	All(ctx context.Context) ([]account.Account, error)
}

// Memory is a map-backed Repository. It is not safe for concurrent use.
type Memory struct {
	accounts map[account.ClientID]*account.Account
}

// NewMemory returns an empty Memory repository.
func NewMemory() *Memory {
	return &Memory{accounts: make(map[account.ClientID]*account.Account)}
}

// GetOrCreate returns the stored account for client.
func (m *Memory) GetOrCreate(_ context.Context, client account.ClientID) (*account.Account, error) {
	if a, ok := m.accounts[client]; ok {
		return a, nil
	}

	a := account.New(client)
	m.accounts[client] = a

	return a, nil
}

// Save stores a under its client id.
func (m *Memory) Save(_ context.Context, a *account.Account) error {
	m.accounts[a.Client] = a

	return nil
}

// All returns copies of every stored account.
func (m *Memory) All(_ context.Context) ([]account.Account, error) {
	out := make([]account.Account, 0, len(m.accounts))
	for _, a := range m.accounts {
		out = append(out, *a)
	}

	return out, nil
}
