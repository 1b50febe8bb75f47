//go:build unit

package account

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func assertBalances(t *testing.T, a *Account, available, held, total string, locked bool) {
	t.Helper()

	assert.True(t, dec(available).Equal(a.Available), "available: want %s, got %s", available, a.Available)
	assert.True(t, dec(held).Equal(a.Held), "held: want %s, got %s", held, a.Held)
	assert.True(t, dec(total).Equal(a.Total), "total: want %s, got %s", total, a.Total)
	assert.Equal(t, locked, a.Locked)
	assert.True(t, a.Balanced())
}

func TestNew(t *testing.T) {
	t.Parallel()

	a := New(123)

	assert.Equal(t, ClientID(123), a.Client)
	assertBalances(t, a, "0", "0", "0", false)
}

func TestNewWithBalances_DerivesTotal(t *testing.T) {
	t.Parallel()

	a := NewWithBalances(7, dec("10.5"), dec("2.25"), true)

	assertBalances(t, a, "10.5", "2.25", "12.75", true)
}

func TestAccountOperations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		start     *Account
		op        func(*Account) error
		wantErr   error
		available string
		held      string
		total     string
		locked    bool
	}{
		{
			name:      "deposit credits available and total",
			start:     New(1),
			op:        func(a *Account) error { return a.Deposit(dec("100")) },
			available: "100", held: "0", total: "100",
		},
		{
			name:      "withdraw debits available and total",
			start:     NewWithBalances(1, dec("100"), decimal.Zero, false),
			op:        func(a *Account) error { return a.Withdraw(dec("50")) },
			available: "50", held: "0", total: "50",
		},
		{
			name:      "withdraw of the exact balance succeeds",
			start:     NewWithBalances(1, dec("1.5"), decimal.Zero, false),
			op:        func(a *Account) error { return a.Withdraw(dec("1.5")) },
			available: "0", held: "0", total: "0",
		},
		{
			name:      "withdraw over available fails",
			start:     New(1),
			op:        func(a *Account) error { return a.Withdraw(dec("50")) },
			wantErr:   ErrInsufficientAvailableFunds,
			available: "0", held: "0", total: "0",
		},
		{
			name:      "dispute moves available to held",
			start:     NewWithBalances(1, dec("100"), decimal.Zero, false),
			op:        func(a *Account) error { return a.Dispute(dec("50")) },
			available: "50", held: "50", total: "100",
		},
		{
			name:      "dispute over available fails",
			start:     New(1),
			op:        func(a *Account) error { return a.Dispute(dec("50")) },
			wantErr:   ErrInsufficientAvailableFunds,
			available: "0", held: "0", total: "0",
		},
		{
			name:      "resolve moves held to available",
			start:     NewWithBalances(1, dec("50"), dec("50"), false),
			op:        func(a *Account) error { return a.Resolve(dec("50")) },
			available: "100", held: "0", total: "100",
		},
		{
			name:      "resolve over held fails",
			start:     New(1),
			op:        func(a *Account) error { return a.Resolve(dec("50")) },
			wantErr:   ErrInsufficientHeldFunds,
			available: "0", held: "0", total: "0",
		},
		{
			name:      "chargeback removes held and locks",
			start:     NewWithBalances(1, dec("50"), dec("50"), false),
			op:        func(a *Account) error { return a.Chargeback(dec("50")) },
			available: "50", held: "0", total: "50", locked: true,
		},
		{
			name:      "chargeback over held fails and does not lock",
			start:     New(1),
			op:        func(a *Account) error { return a.Chargeback(dec("50")) },
			wantErr:   ErrInsufficientHeldFunds,
			available: "0", held: "0", total: "0",
		},
		{
			name:      "locked account still accepts deposits",
			start:     NewWithBalances(1, decimal.Zero, decimal.Zero, true),
			op:        func(a *Account) error { return a.Deposit(dec("5")) },
			available: "5", held: "0", total: "5", locked: true,
		},
		{
			name:      "locked account still accepts withdrawals",
			start:     NewWithBalances(1, dec("5"), decimal.Zero, true),
			op:        func(a *Account) error { return a.Withdraw(dec("5")) },
			available: "0", held: "0", total: "0", locked: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.op(tt.start)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			assertBalances(t, tt.start, tt.available, tt.held, tt.total, tt.locked)
		})
	}
}

func TestAccount_FractionalArithmeticIsExact(t *testing.T) {
	t.Parallel()

	a := New(1)
	for range 10 {
		require.NoError(t, a.Deposit(dec("0.1")))
	}

	require.NoError(t, a.Withdraw(dec("1.0")))
	assertBalances(t, a, "0", "0", "0", false)
}

func TestDomainError_Is(t *testing.T) {
	t.Parallel()

	err := NewDomainError(ErrorInsufficientHeldFunds, "", "other wording")

	assert.ErrorIs(t, err, ErrInsufficientHeldFunds)
	assert.NotErrorIs(t, err, ErrInsufficientAvailableFunds)

	var de DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, ErrorInsufficientHeldFunds, de.Code)
}

func TestDomainError_Error(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0018: Insufficient available funds (available)", ErrInsufficientAvailableFunds.Error())
	assert.Equal(t, "1001: amount is required", NewDomainError(ErrorInvalidInput, "", "amount is required").Error())
}

func TestMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Insufficient held funds", Message(ErrInsufficientHeldFunds))
	assert.Equal(t, "boom", Message(errors.New("boom")))
	assert.Empty(t, Message(nil))
}
