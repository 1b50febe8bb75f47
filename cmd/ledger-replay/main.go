// Command ledger-replay replays a CSV transaction log and prints the final
// account balances.
//
// Usage:
//
//	ledger-replay <transactions.csv> > accounts.csv
//
// Rejected transactions are reported on stderr, one per line. The exit status
// is 1 only when the run could not complete.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}
