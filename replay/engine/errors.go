package engine

import (
	"errors"
	"fmt"

	"github.com/LerianStudio/ledger-replay/replay/account"
)

var (
	// ErrNilRepository is returned by New when no repository is supplied.
	ErrNilRepository = errors.New("engine: repository is nil")
	// ErrNilTracker is returned by New when no tracker is supplied.
	ErrNilTracker = errors.New("engine: tracker is nil")

	// ErrUnknownTransaction is the cause of a dispute referencing a transaction
	// that was never applied.
	ErrUnknownTransaction = account.DomainError{
		Code:    account.ErrorUnknownTransaction,
		Field:   "tx",
		Message: "applied transaction not found",
	}
	// ErrTransactionNotDisputed is the cause of a resolve or chargeback
	// referencing a transaction that is not under dispute.
	ErrTransactionNotDisputed = account.DomainError{
		Code:    account.ErrorTransactionNotDisputed,
		Field:   "tx",
		Message: "disputed transaction not found",
	}
	// ErrMissingAmount is the cause of a deposit or withdrawal without amount.
	ErrMissingAmount = account.DomainError{
		Code:    account.ErrorInvalidInput,
		Field:   "amount",
		Message: "amount is required",
	}
	// ErrUnsupportedKind is the cause of a record with an unknown type.
	ErrUnsupportedKind = account.DomainError{
		Code:    account.ErrorUnsupportedTransactionType,
		Field:   "type",
		Message: "unsupported transaction type",
	}
)

// RejectionError reports a transaction the engine refused. It is a business
// outcome: the run goes on and the message is collected in Result.Errors.
type RejectionError struct {
	Tx   account.TxID
	Kind Kind
	// Cause is a DomainError from the account or from this package.
	Cause error
	msg   string
}

// Error returns the rejection message reported to the operator.
func (e *RejectionError) Error() string {
	return e.msg
}

// Unwrap returns the cause of the rejection.
func (e *RejectionError) Unwrap() error {
	return e.Cause
}

func rejectHandling(tx Transaction, cause error) *RejectionError {
	return reject(tx, cause, "Error when handling transaction \"%d\": %s", tx.Tx, account.Message(cause))
}

func rejectUnknownKind(tx Transaction) *RejectionError {
	return reject(tx, ErrUnsupportedKind, "Unhandled transaction type: \"%s\"", tx.Kind)
}

func reject(tx Transaction, cause error, format string, args ...any) *RejectionError {
	return &RejectionError{
		Tx:    tx.Tx,
		Kind:  tx.Kind,
		Cause: cause,
		msg:   fmt.Sprintf(format, args...),
	}
}
