package record

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/LerianStudio/ledger-replay/replay/account"
)

// AccountHeader is the column layout of an account snapshot.
var AccountHeader = []string{"client", "available", "held", "total", "locked"}

// Writer writes account snapshots as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter returns a Writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteAccounts writes the header and one row per account, ordered by client.
func (w *Writer) WriteAccounts(accounts []account.Account) error {
	sorted := slices.Clone(accounts)
	slices.SortFunc(sorted, func(a, b account.Account) int {
		return int(a.Client) - int(b.Client)
	})

	if err := w.csv.Write(AccountHeader); err != nil {
		return fmt.Errorf("record: write header: %w", err)
	}

	for _, a := range sorted {
		if err := w.csv.Write([]string{
			strconv.FormatUint(uint64(a.Client), 10),
			a.Available.String(),
			a.Held.String(),
			a.Total.String(),
			strconv.FormatBool(a.Locked),
		}); err != nil {
			return fmt.Errorf("record: write account %d: %w", a.Client, err)
		}
	}

	w.csv.Flush()

	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("record: flush: %w", err)
	}

	return nil
}
