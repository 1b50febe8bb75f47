package runtime

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/LerianStudio/ledger-replay/replay/log"
)

// PanicPolicy decides what happens after a recovered panic has been logged.
type PanicPolicy int

const (
	// KeepRunning swallows the panic after logging it.
	KeepRunning PanicPolicy = iota
	// CrashProcess re-panics after logging it.
	CrashProcess
)

// String returns the policy name.
func (p PanicPolicy) String() string {
	switch p {
	case KeepRunning:
		return "KeepRunning"
	case CrashProcess:
		return "CrashProcess"
	default:
		return "Unknown"
	}
}

// ErrPanicRecovered wraps every panic converted into an error by RecoverToError.
var ErrPanicRecovered = errors.New("panic recovered")

// RecoverWithPolicy recovers from a panic, logs it with the stack trace and
// applies policy.
//
// Example:
//
//	defer runtime.RecoverWithPolicy(ctx, logger, "replay", runtime.CrashProcess)
func RecoverWithPolicy(ctx context.Context, logger log.Logger, name string, policy PanicPolicy) {
	if recovered := recover(); recovered != nil {
		logPanic(ctx, logger, name, recovered, debug.Stack())

		if policy == CrashProcess {
			panic(recovered)
		}
	}
}

// RecoverToError recovers from a panic, logs it, and stores it in *errp as an
// error wrapping ErrPanicRecovered. The command uses it so a programming error
// inside a run ends with exit status 1 instead of a raw goroutine dump.
//
// Example:
//
//	func run() (err error) {
//	    defer runtime.RecoverToError(ctx, logger, "run", &err)
//	    // ...
//	}
func RecoverToError(ctx context.Context, logger log.Logger, name string, errp *error) {
	if recovered := recover(); recovered != nil {
		logPanic(ctx, logger, name, recovered, debug.Stack())

		if errp != nil {
			*errp = fmt.Errorf("%w: %s: %v", ErrPanicRecovered, name, recovered)
		}
	}
}

func logPanic(ctx context.Context, logger log.Logger, name string, value any, stack []byte) {
	if logger == nil {
		return
	}

	if ctx == nil {
		ctx = context.Background()
	}

	logger.Log(ctx, log.LevelError, "panic recovered",
		log.String("source", name),
		log.String("panic_value", fmt.Sprint(value)),
		log.String("stack_trace", string(stack)),
	)
}
