// Package engine replays an ordered transaction log against client accounts.
//
// The Engine consumes transactions one at a time, in order, and applies each
// to the account named by its client id. Business failures such as
// insufficient funds or a dispute of an unknown transaction are collected as
// messages and never stop the run; storage failures do.
//
// Account state and the applied/disputed amount trackers are injected, so the
// same engine runs over in-memory maps or over Redis.
package engine
