// Package tracker remembers the amounts of applied and disputed transactions
// so later dispute, resolve and chargeback records can recall them by id.
//
// Applied amounts are written once and never removed. Disputed amounts live
// only while a dispute is open. Lookups never mutate either set.
package tracker
