// Package assert provides invariant checks that return errors instead of panicking.
//
// The engine uses it to verify that every account keeps total == available + held
// after a transition; a failed assertion is logged with its key/value context and
// surfaced as an *AssertionError that unwraps to ErrAssertionFailed.
package assert
