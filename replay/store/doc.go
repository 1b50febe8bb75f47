// Package store keeps the accounts of a replay run, keyed by client id.
//
// Two Repository implementations are provided: Memory, owned by a single
// run, and Redis, which keeps each account in a hash so a run's state can be
// inspected while it is in flight.
package store
