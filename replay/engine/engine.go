package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/LerianStudio/ledger-replay/replay/account"
	"github.com/LerianStudio/ledger-replay/replay/assert"
	"github.com/LerianStudio/ledger-replay/replay/log"
	"github.com/LerianStudio/ledger-replay/replay/opentelemetry/metrics"
	"github.com/LerianStudio/ledger-replay/replay/store"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracker remembers applied and disputed amounts by transaction id.
// *tracker.Tracker implements it.
type Tracker interface {
	RecordApplied(ctx context.Context, tx account.TxID, amount decimal.Decimal) error
	RecordDisputed(ctx context.Context, tx account.TxID, amount decimal.Decimal) error
	RemoveDisputed(ctx context.Context, tx account.TxID) error
	LookupApplied(ctx context.Context, tx account.TxID) (decimal.Decimal, bool, error)
	LookupDisputed(ctx context.Context, tx account.TxID) (decimal.Decimal, bool, error)
}

// Result is the outcome of a run.
type Result struct {
	// Accounts holds every account referenced by the log, including those only
	// touched by rejected transactions. Order is unspecified.
	Accounts []account.Account
	// Errors holds one message per rejected transaction, in log order.
	Errors []string
}

// Engine applies transactions to accounts. It is not safe for concurrent use;
// a run is strictly sequential.
type Engine struct {
	repo    store.Repository
	tracker Tracker
	logger  log.Logger
	metrics *metrics.MetricsFactory
	runID   string
}

// New returns an Engine over repo and tracker.
func New(repo store.Repository, tracker Tracker, opts ...Option) (*Engine, error) {
	e := &Engine{
		repo:    repo,
		tracker: tracker,
		logger:  log.NewNop(),
		metrics: metrics.NewNopFactory(),
	}

	for _, opt := range opts {
		opt(e)
	}

	ctx := context.Background()
	asserter := assert.New(ctx, e.logger, "engine", "new")

	if err := asserter.NotNil(ctx, repo, "repository is required"); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNilRepository, err)
	}

	if err := asserter.NotNil(ctx, tracker, "tracker is required"); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNilTracker, err)
	}

	if e.runID != "" {
		e.logger = e.logger.With(log.String("run_id", e.runID))
	}

	return e, nil
}

// Analyze runs the engine over an in-memory list of transactions.
func (e *Engine) Analyze(ctx context.Context, transactions []Transaction) (Result, error) {
	return e.Run(ctx, NewSliceSource(transactions))
}

// Run consumes src until io.EOF. Rejected transactions are collected in
// Result.Errors and processing continues. A source, storage or invariant
// failure stops the run and is returned.
func (e *Engine) Run(ctx context.Context, src Source) (Result, error) {
	ctx, span := otel.Tracer("engine").Start(ctx, "engine.run")
	defer span.End()

	started := time.Now()

	var (
		rejections []string
		processed  int
	)

	for {
		tx, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return Result{}, e.fail(ctx, span, "read transaction", fmt.Errorf("engine: read transaction: %w", err))
		}

		processed++

		if err := e.Apply(ctx, tx); err != nil {
			var rejection *RejectionError
			if errors.As(err, &rejection) {
				rejections = append(rejections, rejection.Error())

				continue
			}

			return Result{}, e.fail(ctx, span, "apply transaction", err)
		}
	}

	accounts, err := e.repo.All(ctx)
	if err != nil {
		return Result{}, e.fail(ctx, span, "list accounts", fmt.Errorf("engine: list accounts: %w", err))
	}

	elapsed := time.Since(started)

	e.warnOnMetricError(ctx, e.metrics.RecordAccountsTracked(ctx, len(accounts)))
	e.warnOnMetricError(ctx, e.metrics.RecordRunDuration(ctx, elapsed.Milliseconds()))

	span.SetAttributes(
		attribute.Int("replay.transactions", processed),
		attribute.Int("replay.rejections", len(rejections)),
		attribute.Int("replay.accounts", len(accounts)),
	)

	e.logger.Log(ctx, log.LevelInfo, "replay finished",
		log.Int("transactions", processed),
		log.Int("rejected", len(rejections)),
		log.Int("accounts", len(accounts)),
		log.String("elapsed", elapsed.String()),
	)

	return Result{Accounts: accounts, Errors: rejections}, nil
}

// Apply applies a single transaction. A *RejectionError means the transaction
// was refused and the account left unchanged; any other error is a storage
// or invariant failure.
func (e *Engine) Apply(ctx context.Context, tx Transaction) error {
	acct, err := e.repo.GetOrCreate(ctx, tx.Client)
	if err != nil {
		return fmt.Errorf("engine: load account %d: %w", tx.Client, err)
	}

	if err := e.dispatch(ctx, acct, tx); err != nil {
		var rejection *RejectionError
		if errors.As(err, &rejection) {
			fields := []log.Field{
				log.String("type", tx.Kind.String()),
				log.Uint64("client", uint64(tx.Client)),
				log.Uint64("tx", uint64(tx.Tx)),
				log.String("reason", rejection.Error()),
			}

			if tx.Amount.Valid {
				fields = append(fields, log.Decimal("amount", tx.Amount.Decimal))
			}

			e.logger.Log(ctx, log.LevelDebug, "transaction rejected", fields...)
			e.warnOnMetricError(ctx, e.metrics.RecordTransactionProcessed(ctx, tx.Kind.String(), metrics.OutcomeRejected))
		}

		return err
	}

	if err := e.repo.Save(ctx, acct); err != nil {
		return fmt.Errorf("engine: save account %d: %w", acct.Client, err)
	}

	asserter := assert.New(ctx, e.logger, "engine", "apply")
	if err := asserter.That(ctx, acct.Balanced(), "total must equal available + held",
		"client", acct.Client,
		"tx", tx.Tx,
		"available", acct.Available.String(),
		"held", acct.Held.String(),
		"total", acct.Total.String(),
	); err != nil {
		return fmt.Errorf("engine: account %d after tx %d: %w", acct.Client, tx.Tx, err)
	}

	e.warnOnMetricError(ctx, e.metrics.RecordTransactionProcessed(ctx, tx.Kind.String(), metrics.OutcomeApplied))

	return nil
}

func (e *Engine) dispatch(ctx context.Context, acct *account.Account, tx Transaction) error {
	switch tx.Kind {
	case KindDeposit:
		return e.deposit(ctx, acct, tx)
	case KindWithdrawal:
		return e.withdraw(ctx, acct, tx)
	case KindDispute:
		return e.dispute(ctx, acct, tx)
	case KindResolve:
		return e.resolve(ctx, acct, tx)
	case KindChargeback:
		return e.chargeback(ctx, acct, tx)
	default:
		return rejectUnknownKind(tx)
	}
}

func (e *Engine) deposit(ctx context.Context, acct *account.Account, tx Transaction) error {
	if !tx.Amount.Valid {
		return rejectHandling(tx, ErrMissingAmount)
	}

	if err := acct.Deposit(tx.Amount.Decimal); err != nil {
		return rejectHandling(tx, err)
	}

	return e.recordApplied(ctx, tx)
}

func (e *Engine) withdraw(ctx context.Context, acct *account.Account, tx Transaction) error {
	if !tx.Amount.Valid {
		return rejectHandling(tx, ErrMissingAmount)
	}

	if err := acct.Withdraw(tx.Amount.Decimal); err != nil {
		return rejectHandling(tx, err)
	}

	return e.recordApplied(ctx, tx)
}

func (e *Engine) dispute(ctx context.Context, acct *account.Account, tx Transaction) error {
	amount, ok, err := e.tracker.LookupApplied(ctx, tx.Tx)
	if err != nil {
		return fmt.Errorf("engine: lookup applied %d: %w", tx.Tx, err)
	}

	if !ok {
		return reject(tx, ErrUnknownTransaction, "Could not find applied transaction \"%d\" to dispute", tx.Tx)
	}

	if err := acct.Dispute(amount); err != nil {
		return reject(tx, err, "Could not dispute transaction \"%d\": %s", tx.Tx, account.Message(err))
	}

	if err := e.tracker.RecordDisputed(ctx, tx.Tx, amount); err != nil {
		return fmt.Errorf("engine: record disputed %d: %w", tx.Tx, err)
	}

	return nil
}

func (e *Engine) resolve(ctx context.Context, acct *account.Account, tx Transaction) error {
	amount, ok, err := e.tracker.LookupDisputed(ctx, tx.Tx)
	if err != nil {
		return fmt.Errorf("engine: lookup disputed %d: %w", tx.Tx, err)
	}

	if !ok {
		return reject(tx, ErrTransactionNotDisputed, "Could not find disputed transaction \"%d\" to resolve", tx.Tx)
	}

	if err := acct.Resolve(amount); err != nil {
		return reject(tx, err, "Could not resolve disputed transaction \"%d\": %s", tx.Tx, account.Message(err))
	}

	return e.removeDisputed(ctx, tx)
}

func (e *Engine) chargeback(ctx context.Context, acct *account.Account, tx Transaction) error {
	amount, ok, err := e.tracker.LookupDisputed(ctx, tx.Tx)
	if err != nil {
		return fmt.Errorf("engine: lookup disputed %d: %w", tx.Tx, err)
	}

	if !ok {
		return reject(tx, ErrTransactionNotDisputed, "Could not find disputed transaction \"%d\" to charge", tx.Tx)
	}

	if err := acct.Chargeback(amount); err != nil {
		return reject(tx, err, "Could not charge back disputed transaction \"%d\": %s", tx.Tx, account.Message(err))
	}

	return e.removeDisputed(ctx, tx)
}

func (e *Engine) recordApplied(ctx context.Context, tx Transaction) error {
	if err := e.tracker.RecordApplied(ctx, tx.Tx, tx.Amount.Decimal); err != nil {
		return fmt.Errorf("engine: record applied %d: %w", tx.Tx, err)
	}

	return nil
}

func (e *Engine) removeDisputed(ctx context.Context, tx Transaction) error {
	if err := e.tracker.RemoveDisputed(ctx, tx.Tx); err != nil {
		return fmt.Errorf("engine: remove disputed %d: %w", tx.Tx, err)
	}

	return nil
}

func (e *Engine) fail(ctx context.Context, span trace.Span, stage string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, stage)

	e.logger.Log(ctx, log.LevelError, "replay aborted", log.String("stage", stage), log.Err(err))

	return err
}

func (e *Engine) warnOnMetricError(ctx context.Context, err error) {
	if err != nil {
		e.logger.Log(ctx, log.LevelWarn, "failed to record replay metric", log.Err(err))
	}
}
