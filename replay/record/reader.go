package record

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/LerianStudio/ledger-replay/replay/account"
	"github.com/LerianStudio/ledger-replay/replay/engine"
	"github.com/shopspring/decimal"
)

// Header is the column layout of a transaction log.
var Header = []string{"type", "client", "tx", "amount"}

// MalformedRecordError reports a row that could not be turned into a
// transaction. It is fatal to a run.
type MalformedRecordError struct {
	Line int
	Err  error
}

// Error implements error.
func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record on line %d: %v", e.Line, e.Err)
}

// Unwrap returns the underlying cause.
func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// Reader streams transactions from a CSV log. It implements engine.Source.
type Reader struct {
	csv        *csv.Reader
	headerRead bool
}

var _ engine.Source = (*Reader)(nil)

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	c := csv.NewReader(r)
	c.FieldsPerRecord = -1
	c.ReuseRecord = true

	return &Reader{csv: c}
}

// Next returns the next transaction, io.EOF at the end of the log, or a
// *MalformedRecordError.
func (r *Reader) Next(ctx context.Context) (engine.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return engine.Transaction{}, err
	}

	if !r.headerRead {
		if err := r.readHeader(); err != nil {
			return engine.Transaction{}, err
		}

		r.headerRead = true
	}

	fields, err := r.csv.Read()
	if err != nil {
		return engine.Transaction{}, r.wrapReadError(err)
	}

	line, _ := r.csv.FieldPos(0)

	tx, err := parse(fields)
	if err != nil {
		return engine.Transaction{}, &MalformedRecordError{Line: line, Err: err}
	}

	return tx, nil
}

// ReadAll reads the remaining log into memory.
func (r *Reader) ReadAll(ctx context.Context) ([]engine.Transaction, error) {
	var out []engine.Transaction

	for {
		tx, err := r.Next(ctx)
		if errors.Is(err, io.EOF) {
			return out, nil
		}

		if err != nil {
			return nil, err
		}

		out = append(out, tx)
	}
}

func (r *Reader) readHeader() error {
	fields, err := r.csv.Read()
	if err != nil {
		return r.wrapReadError(err)
	}

	line, _ := r.csv.FieldPos(0)

	if len(fields) != len(Header) {
		return &MalformedRecordError{Line: line, Err: fmt.Errorf("%w: want %s", ErrHeader, strings.Join(Header, ","))}
	}

	for i, name := range Header {
		if strings.TrimSpace(fields[i]) != name {
			return &MalformedRecordError{Line: line, Err: fmt.Errorf("%w: want %s", ErrHeader, strings.Join(Header, ","))}
		}
	}

	return nil
}

func (r *Reader) wrapReadError(err error) error {
	if errors.Is(err, io.EOF) {
		return io.EOF
	}

	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return &MalformedRecordError{Line: parseErr.Line, Err: parseErr.Err}
	}

	return fmt.Errorf("record: read: %w", err)
}

func parse(fields []string) (engine.Transaction, error) {
	if len(fields) < 3 || len(fields) > 4 {
		return engine.Transaction{}, fmt.Errorf("%w: got %d", ErrFieldCount, len(fields))
	}

	r := row{
		Type:   strings.TrimSpace(fields[0]),
		Client: strings.TrimSpace(fields[1]),
		Tx:     strings.TrimSpace(fields[2]),
	}

	if len(fields) == 4 {
		r.Amount = strings.TrimSpace(fields[3])
	}

	if err := validateRow(r); err != nil {
		return engine.Transaction{}, err
	}

	client, err := strconv.ParseUint(r.Client, 10, 16)
	if err != nil {
		return engine.Transaction{}, fmt.Errorf("%w: 'client' %s", ErrFieldOutOfRange, r.Client)
	}

	tx, err := strconv.ParseUint(r.Tx, 10, 32)
	if err != nil {
		return engine.Transaction{}, fmt.Errorf("%w: 'tx' %s", ErrFieldOutOfRange, r.Tx)
	}

	kind, _ := engine.ParseKind(r.Type)

	out := engine.Transaction{
		Kind:   kind,
		Client: account.ClientID(client),
		Tx:     account.TxID(tx),
	}

	if r.Amount != "" {
		amount, err := decimal.NewFromString(r.Amount)
		if err != nil {
			return engine.Transaction{}, fmt.Errorf("%w: 'amount'", ErrFieldNotDecimal)
		}

		out.Amount = decimal.NewNullDecimal(amount)
	} else if kind.Monetary() {
		return engine.Transaction{}, ErrAmountRequired
	}

	return out, nil
}
