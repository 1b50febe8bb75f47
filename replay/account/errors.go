package account

import (
	"errors"
	"fmt"
)

// ErrorCode is a domain error code raised by account operations and by the
// replay engine that drives them.
type ErrorCode string

const (
	// ErrorInsufficientAvailableFunds indicates the available balance cannot cover the amount.
	ErrorInsufficientAvailableFunds ErrorCode = "0018"
	// ErrorInsufficientHeldFunds indicates the held balance cannot cover the amount.
	ErrorInsufficientHeldFunds ErrorCode = "0021"
	// ErrorUnknownTransaction indicates a dispute referenced a transaction that was never applied.
	ErrorUnknownTransaction ErrorCode = "0041"
	// ErrorTransactionNotDisputed indicates a resolve or chargeback referenced a transaction not under dispute.
	ErrorTransactionNotDisputed ErrorCode = "0042"
	// ErrorInvalidInput indicates a transaction is missing a required value.
	ErrorInvalidInput ErrorCode = "1001"
	// ErrorUnsupportedTransactionType indicates the transaction type is outside the known set.
	ErrorUnsupportedTransactionType ErrorCode = "1003"
)

// DomainError represents a structured account domain error.
type DomainError struct {
	Code    ErrorCode
	Field   string
	Message string
}

// Error returns the formatted domain error string.
func (e DomainError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}

	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Field)
}

// Is reports whether target is a DomainError carrying the same code.
func (e DomainError) Is(target error) bool {
	var other DomainError
	if !errors.As(target, &other) {
		return false
	}

	return other.Code == e.Code
}

// NewDomainError creates a domain error with code, field, and message.
func NewDomainError(code ErrorCode, field, message string) error {
	return DomainError{Code: code, Field: field, Message: message}
}

// Message returns the human readable message of err when it is a DomainError,
// and err.Error() otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var de DomainError
	if errors.As(err, &de) {
		return de.Message
	}

	return err.Error()
}

var (
	// ErrInsufficientAvailableFunds is returned by Withdraw and Dispute.
	ErrInsufficientAvailableFunds = DomainError{
		Code:    ErrorInsufficientAvailableFunds,
		Field:   "available",
		Message: "Insufficient available funds",
	}
	// ErrInsufficientHeldFunds is returned by Resolve and Chargeback.
	ErrInsufficientHeldFunds = DomainError{
		Code:    ErrorInsufficientHeldFunds,
		Field:   "held",
		Message: "Insufficient held funds",
	}
)
