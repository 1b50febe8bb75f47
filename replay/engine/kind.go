package engine

import "strings"

// Kind names the type of a transaction record.
type Kind string

// Known transaction kinds.
const (
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
	KindDispute    Kind = "dispute"
	KindResolve    Kind = "resolve"
	KindChargeback Kind = "chargeback"
)

// ParseKind trims s and converts it to a Kind. Unknown values are kept as-is
// so the engine can report them. ok is false for unknown values.
func ParseKind(s string) (kind Kind, ok bool) {
	kind = Kind(strings.TrimSpace(s))

	return kind, kind.Valid()
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindDeposit, KindWithdrawal, KindDispute, KindResolve, KindChargeback:
		return true
	default:
		return false
	}
}

// Monetary reports whether records of kind k carry their own amount.
// Dispute, resolve and chargeback recall the amount of the referenced
// transaction instead.
func (k Kind) Monetary() bool {
	return k == KindDeposit || k == KindWithdrawal
}

// String returns the kind as written in the log.
func (k Kind) String() string {
	return string(k)
}
