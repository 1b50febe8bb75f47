package account

import (
	"github.com/shopspring/decimal"
)

// ClientID identifies the owner of an account.
type ClientID uint16

// TxID identifies a transaction in the replayed log.
type TxID uint32

// Account is the balance state of one client.
type Account struct {
	Client    ClientID        `json:"client"`
	Available decimal.Decimal `json:"available"`
	Held      decimal.Decimal `json:"held"`
	Total     decimal.Decimal `json:"total"`
	Locked    bool            `json:"locked"`
}

// New returns an empty, unlocked account.
func New(client ClientID) *Account {
	return NewWithBalances(client, decimal.Zero, decimal.Zero, false)
}

// NewWithBalances returns an account with the given balances. Total is derived.
func NewWithBalances(client ClientID, available, held decimal.Decimal, locked bool) *Account {
	return &Account{
		Client:    client,
		Available: available,
		Held:      held,
		Total:     available.Add(held),
		Locked:    locked,
	}
}

// Deposit credits amount to the available and total balances.
func (a *Account) Deposit(amount decimal.Decimal) error {
	a.Available = a.Available.Add(amount)
	a.Total = a.Total.Add(amount)

	return nil
}

// Withdraw debits amount from the available and total balances.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if amount.GreaterThan(a.Available) {
		return ErrInsufficientAvailableFunds
	}

	a.Available = a.Available.Sub(amount)
	a.Total = a.Total.Sub(amount)

	return nil
}

// Dispute moves amount from available to held.
func (a *Account) Dispute(amount decimal.Decimal) error {
	if amount.GreaterThan(a.Available) {
		return ErrInsufficientAvailableFunds
	}

	a.Available = a.Available.Sub(amount)
	a.Held = a.Held.Add(amount)

	return nil
}

// Resolve moves amount from held back to available.
func (a *Account) Resolve(amount decimal.Decimal) error {
	if amount.GreaterThan(a.Held) {
		return ErrInsufficientHeldFunds
	}

	a.Held = a.Held.Sub(amount)
	a.Available = a.Available.Add(amount)

	return nil
}

// Chargeback removes amount from held and total and locks the account.
// A locked account still accepts every operation.
func (a *Account) Chargeback(amount decimal.Decimal) error {
	if amount.GreaterThan(a.Held) {
		return ErrInsufficientHeldFunds
	}

	a.Held = a.Held.Sub(amount)
	a.Total = a.Total.Sub(amount)
	a.Locked = true

	return nil
}

// Balanced reports whether Total equals Available plus Held.
func (a Account) Balanced() bool {
	return a.Total.Equal(a.Available.Add(a.Held))
}
