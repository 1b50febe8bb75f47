package tracker

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/LerianStudio/ledger-replay/replay/account"
	"github.com/LerianStudio/ledger-replay/replay/internal/nilcheck"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// ErrNilRedisClient is returned by NewRedisCache when no client is supplied.
var ErrNilRedisClient = errors.New("tracker: redis client is nil")

// RedisCache stores amounts in one Redis hash, keyed by transaction id.
// Amounts are kept as decimal strings so no precision is lost.
type RedisCache struct {
	client redis.Cmdable
	key    string
}

// NewRedisCache returns a Cache backed by the hash at key.
func NewRedisCache(client redis.Cmdable, key string) (*RedisCache, error) {
	if nilcheck.Interface(client) {
		return nil, ErrNilRedisClient
	}

	return &RedisCache{client: client, key: key}, nil
}

// Put stores amount under tx.
func (c *RedisCache) Put(ctx context.Context, tx account.TxID, amount decimal.Decimal) error {
	if err := c.client.HSet(ctx, c.key, field(tx), amount.String()).Err(); err != nil {
		return fmt.Errorf("tracker: put %d in %s: %w", tx, c.key, err)
	}

	return nil
}

// Get returns the amount stored under tx.
func (c *RedisCache) Get(ctx context.Context, tx account.TxID) (decimal.Decimal, bool, error) {
	raw, err := c.client.HGet(ctx, c.key, field(tx)).Result()
	if errors.Is(err, redis.Nil) {
		return decimal.Zero, false, nil
	}

	if err != nil {
		return decimal.Zero, false, fmt.Errorf("tracker: get %d from %s: %w", tx, c.key, err)
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("tracker: corrupt amount for %d in %s: %w", tx, c.key, err)
	}

	return amount, true, nil
}

// Delete removes tx from the hash.
func (c *RedisCache) Delete(ctx context.Context, tx account.TxID) error {
	if err := c.client.HDel(ctx, c.key, field(tx)).Err(); err != nil {
		return fmt.Errorf("tracker: delete %d from %s: %w", tx, c.key, err)
	}

	return nil
}

func field(tx account.TxID) string {
	return strconv.FormatUint(uint64(tx), 10)
}
