// Package account holds the per-client balance state machine.
//
// An Account tracks three balances that always satisfy
// Total == Available + Held. Deposit and Withdraw move funds in and out of
// Available; Dispute, Resolve and Chargeback shuffle funds between Available
// and Held, with Chargeback removing them for good and locking the account.
// Each operation either succeeds and mutates the account or fails with a
// DomainError and leaves it untouched.
package account
