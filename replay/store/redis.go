package store

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

// ErrNilRedisClient is returned by NewRedis when no client is supplied.
var ErrNilRedisClient = errors.New("store: redis client is nil")

const (
	fieldAvailable = "available"
	fieldHeld      = "held"
	fieldTotal     = "total"
	fieldLocked    = "locked"
)

// Redis is a Repository keeping each account in the hash
// <prefix>:account:<client> and the known client ids in the set
// <prefix>:clients.
type Redis struct {
	client redis.Cmdable
	prefix string
}

// NewRedis returns a Redis repository using keys under prefix.
func NewRedis(client redis.Cmdable, prefix string) (*Redis, error) {
	if nilcheck.Interface(client) {
		return nil, ErrNilRedisClient
	}

	return &Redis{client: client, prefix: prefix}, nil
}

// GetOrCreate loads the account of client, creating it when absent.
func (r *Redis) GetOrCreate(ctx context.Context, client account.ClientID) (*account.Account, error) {
	values, err := r.client.HGetAll(ctx, r.accountKey(client)).Result()
	if err != nil {
		return nil, fmt.Errorf("store: load account %d: %w", client, err)
	}

	if len(values) == 0 {
		a := account.New(client)
		if err := r.Save(ctx, a); err != nil {
			return nil, err
		}

		return a, nil
	}

	return decodeAccount(client, values)
}

// Save writes every field of a and registers its client id.
func (r *Redis) Save(ctx context.Context, a *account.Account) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, r.accountKey(a.Client),
			fieldAvailable, a.Available.String(),
			fieldHeld, a.Held.String(),
			fieldTotal, a.Total.String(),
			fieldLocked, strconv.FormatBool(a.Locked),
		)
		pipe.SAdd(ctx, r.clientsKey(), clientMember(a.Client))

		return nil
	})
	if err != nil {
		return fmt.Errorf("store: save account %d: %w", a.Client, err)
	}

	return nil
}

// All loads every registered account.
func (r *Redis) All(ctx context.Context) ([]account.Account, error) {
	members, err := r.client.SMembers(ctx, r.clientsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("store: list clients: %w", err)
	}

	out := make([]account.Account, 0, len(members))

	for _, member := range members {
		id, err := strconv.ParseUint(member, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("store: corrupt client id %q: %w", member, err)
		}

		client := account.ClientID(id)

		values, err := r.client.HGetAll(ctx, r.accountKey(client)).Result()
		if err != nil {
			return nil, fmt.Errorf("store: load account %d: %w", client, err)
		}

		a, err := decodeAccount(client, values)
		if err != nil {
			return nil, err
		}

		out = append(out, *a)
	}

	return out, nil
}

func (r *Redis) accountKey(client account.ClientID) string {
	return r.prefix + ":account:" + clientMember(client)
}

func (r *Redis) clientsKey() string {
	return r.prefix + ":clients"
}

func clientMember(client account.ClientID) string {
	return strconv.FormatUint(uint64(client), 10)
}

func decodeAccount(client account.ClientID, values map[string]string) (*account.Account, error) {
	a := &account.Account{Client: client}

	for name, target := range map[string]*decimal.Decimal{
		fieldAvailable: &a.Available,
		fieldHeld:      &a.Held,
		fieldTotal:     &a.Total,
	} {
		v, err := decimal.NewFromString(values[name])
		if err != nil {
			return nil, fmt.Errorf("store: corrupt %s for account %d: %w", name, client, err)
		}

		*target = v
	}

	locked, err := strconv.ParseBool(values[fieldLocked])
	if err != nil {
		return nil, fmt.Errorf("store: corrupt %s for account %d: %w", fieldLocked, client, err)
	}

	a.Locked = locked

	return a, nil
}
