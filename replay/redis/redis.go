package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/LerianStudio/ledger-replay/replay/backoff"
	"github.com/LerianStudio/ledger-replay/replay/log"
	"github.com/LerianStudio/ledger-replay/replay/opentelemetry/metrics"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	// ErrNilClient is returned when a redis client receiver is nil.
	ErrNilClient = errors.New("redis client is nil")
	// ErrInvalidConfig indicates the provided redis configuration is invalid.
	ErrInvalidConfig = errors.New("invalid redis config")
)

const (
	defaultConnectBackoff = 100 * time.Millisecond
	clearBatchSize        = 500
)

// Config configures a standalone Redis connection.
type Config struct {
	Address         string
	Password        string
	DB              int
	ConnectAttempts int
	ConnectBackoff  time.Duration
	// KeyPrefix scopes every key the replay writes. FlushOnStart only removes
	// keys matching <KeyPrefix>:*; other keys in the database are left alone.
	KeyPrefix      string
	FlushOnStart   bool
	Options        ConnectionOptions
	Logger         log.Logger
	MetricsFactory *metrics.MetricsFactory
}

// ConnectionOptions configures timeouts and pool size.
type ConnectionOptions struct {
	PoolSize     int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	DialTimeout  time.Duration
}

// connectionFailuresMetric defines the counter for redis connection failures.
var connectionFailuresMetric = metrics.Metric{
	Name:        "redis_connection_failures_total",
	Unit:        "1",
	Description: "Total number of redis connection failures",
}

// Client owns one connected go-redis client.
type Client struct {
	mu             sync.RWMutex
	cfg            Config
	logger         log.Logger
	metricsFactory *metrics.MetricsFactory
	client         *redis.Client
}

// New validates config, connects to Redis, and returns a ready client.
func New(ctx context.Context, cfg Config) (*Client, error) {
	normalized, err := normalizeConfig(cfg)
	if err != nil {
		return nil, err
	}

	c := &Client{
		cfg:            normalized,
		logger:         normalized.Logger,
		metricsFactory: normalized.MetricsFactory,
	}

	if err := c.connect(ctx); err != nil {
		return nil, err
	}

	return c, nil
}

// GetClient returns the underlying go-redis client.
func (c *Client) GetClient() (*redis.Client, error) {
	if c == nil {
		return nil, ErrNilClient
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.client == nil {
		return nil, ErrNilClient
	}

	return c.client, nil
}

// Close releases the connection pool. Closing twice is a no-op.
func (c *Client) Close() error {
	if c == nil {
		return ErrNilClient
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return nil
	}

	err := c.client.Close()
	c.client = nil

	return err
}

func (c *Client) connect(ctx context.Context) error {
	ctx, span := otel.Tracer("redis").Start(ctx, "redis.connect")
	defer span.End()

	span.SetAttributes(attribute.String("db.system", "redis"))

	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Log(ctx, log.LevelInfo, "connecting to Redis",
		log.String("address", c.cfg.Address),
		log.Bool("flush_on_start", c.cfg.FlushOnStart),
	)

	rdb := redis.NewClient(&redis.Options{
		Addr:         c.cfg.Address,
		Password:     c.cfg.Password,
		DB:           c.cfg.DB,
		PoolSize:     c.cfg.Options.PoolSize,
		ReadTimeout:  c.cfg.Options.ReadTimeout,
		WriteTimeout: c.cfg.Options.WriteTimeout,
		DialTimeout:  c.cfg.Options.DialTimeout,
	})

	err := backoff.Retry(ctx, c.cfg.ConnectAttempts, c.cfg.ConnectBackoff, func(ctx context.Context) error {
		if err := rdb.Ping(ctx).Err(); err != nil {
			c.logger.Log(ctx, log.LevelWarn, "redis ping failed", log.Err(err))
			c.recordConnectionFailure(ctx, "ping")

			return err
		}

		return nil
	})
	if err != nil {
		_ = rdb.Close()

		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to connect to redis")

		return fmt.Errorf("redis connect: ping: %w", err)
	}

	if c.cfg.FlushOnStart {
		removed, err := deleteByPrefix(ctx, rdb, c.cfg.KeyPrefix)
		if err != nil {
			_ = rdb.Close()

			c.recordConnectionFailure(ctx, "flush")
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to clear stale replay keys")

			return fmt.Errorf("redis connect: flush: %w", err)
		}

		c.logger.Log(ctx, log.LevelDebug, "stale replay keys removed",
			log.String("key_prefix", c.cfg.KeyPrefix),
			log.Int("keys", removed),
		)
	}

	c.client = rdb

	c.logger.Log(ctx, log.LevelInfo, "connected to Redis in standalone mode")

	return nil
}

// deleteByPrefix removes every key matching <prefix>:* in SCAN batches.
func deleteByPrefix(ctx context.Context, rdb *redis.Client, prefix string) (int, error) {
	iter := rdb.Scan(ctx, 0, escapeGlob(prefix)+":*", clearBatchSize).Iterator()

	var (
		batch   = make([]string, 0, clearBatchSize)
		removed int
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}

		if err := rdb.Del(ctx, batch...).Err(); err != nil {
			return err
		}

		removed += len(batch)
		batch = batch[:0]

		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())

		if len(batch) == clearBatchSize {
			if err := flush(); err != nil {
				return removed, err
			}
		}
	}

	if err := iter.Err(); err != nil {
		return removed, err
	}

	if err := flush(); err != nil {
		return removed, err
	}

	return removed, nil
}

// escapeGlob quotes the characters SCAN MATCH treats as pattern syntax.
func escapeGlob(s string) string {
	var b strings.Builder

	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteRune('\\')
		}

		b.WriteRune(r)
	}

	return b.String()
}

// recordConnectionFailure increments the redis connection failure counter.
// No-op when metricsFactory is nil.
func (c *Client) recordConnectionFailure(ctx context.Context, operation string) {
	if c.metricsFactory == nil {
		return
	}

	counter, err := c.metricsFactory.Counter(connectionFailuresMetric)
	if err != nil {
		c.logger.Log(ctx, log.LevelWarn, "failed to create redis metric counter", log.Err(err))
		return
	}

	err = counter.
		WithAttributes(attribute.String("operation", operation)).
		AddOne(ctx)
	if err != nil {
		c.logger.Log(ctx, log.LevelWarn, "failed to record redis metric", log.Err(err))
	}
}

func normalizeConfig(cfg Config) (Config, error) {
	cfg.Logger = log.OrNop(cfg.Logger)
	cfg.Address = strings.TrimSpace(cfg.Address)
	cfg.KeyPrefix = strings.TrimSpace(cfg.KeyPrefix)

	if cfg.ConnectAttempts == 0 {
		cfg.ConnectAttempts = 1
	}

	if cfg.ConnectBackoff == 0 {
		cfg.ConnectBackoff = defaultConnectBackoff
	}

	normalizeConnectionOptionsDefaults(&cfg.Options)

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func normalizeConnectionOptionsDefaults(options *ConnectionOptions) {
	if options.PoolSize == 0 {
		options.PoolSize = 10
	}

	if options.ReadTimeout == 0 {
		options.ReadTimeout = 3 * time.Second
	}

	if options.WriteTimeout == 0 {
		options.WriteTimeout = 3 * time.Second
	}

	if options.DialTimeout == 0 {
		options.DialTimeout = 5 * time.Second
	}
}

func validateConfig(cfg Config) error {
	if cfg.Address == "" {
		return configError("address is required")
	}

	if cfg.DB < 0 {
		return configError("db cannot be negative")
	}

	if cfg.ConnectAttempts < 0 {
		return configError("connect attempts cannot be negative")
	}

	if cfg.FlushOnStart && cfg.KeyPrefix == "" {
		return configError("key prefix is required when flush on start is enabled")
	}

	return nil
}

func configError(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, msg)
}
