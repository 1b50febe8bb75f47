//go:build unit

package store

import (
	"context"
	"sort"
	"testing"

	"github.com/LerianStudio/ledger-replay/replay/account"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisRepository(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	repo, err := NewRedis(rdb, "test")
	require.NoError(t, err)

	return repo, mr
}

func repositories(t *testing.T) map[string]func(t *testing.T) Repository {
	t.Helper()

	return map[string]func(t *testing.T) Repository{
		"memory": func(*testing.T) Repository { return NewMemory() },
		"redis": func(t *testing.T) Repository {
			repo, _ := newRedisRepository(t)

			return repo
		},
	}
}

func TestRepository_GetOrCreateCreatesEmptyAccount(t *testing.T) {
	for name, build := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := build(t)

			a, err := repo.GetOrCreate(ctx, 3)
			require.NoError(t, err)
			assert.Equal(t, account.ClientID(3), a.Client)
			assert.True(t, a.Total.IsZero())
			assert.False(t, a.Locked)

			all, err := repo.All(ctx)
			require.NoError(t, err)
			require.Len(t, all, 1, "a referenced account is listed even when untouched")
		})
	}
}

func TestRepository_SaveRoundTrip(t *testing.T) {
	for name, build := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := build(t)

			a, err := repo.GetOrCreate(ctx, 1)
			require.NoError(t, err)
			require.NoError(t, a.Deposit(decimal.RequireFromString("100.1234")))
			require.NoError(t, a.Dispute(decimal.RequireFromString("40")))
			require.NoError(t, a.Chargeback(decimal.RequireFromString("40")))
			require.NoError(t, repo.Save(ctx, a))

			got, err := repo.GetOrCreate(ctx, 1)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString("60.1234").Equal(got.Available))
			assert.True(t, got.Held.IsZero())
			assert.True(t, decimal.RequireFromString("60.1234").Equal(got.Total))
			assert.True(t, got.Locked)
		})
	}
}

func TestRepository_AllReturnsEveryClient(t *testing.T) {
	for name, build := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := build(t)

			for _, id := range []account.ClientID{5, 2, 9} {
				_, err := repo.GetOrCreate(ctx, id)
				require.NoError(t, err)
			}

			_, err := repo.GetOrCreate(ctx, 2)
			require.NoError(t, err)

			all, err := repo.All(ctx)
			require.NoError(t, err)

			ids := make([]int, 0, len(all))
			for _, a := range all {
				ids = append(ids, int(a.Client))
			}

			sort.Ints(ids)
			assert.Equal(t, []int{2, 5, 9}, ids)
		})
	}
}

func TestMemory_AllReturnsCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMemory()

	a, err := repo.GetOrCreate(ctx, 1)
	require.NoError(t, err)

	snapshot, err := repo.All(ctx)
	require.NoError(t, err)

	require.NoError(t, a.Deposit(decimal.NewFromInt(10)))
	assert.True(t, snapshot[0].Available.IsZero())
}

func TestRedis_KeyLayout(t *testing.T) {
	ctx := context.Background()
	repo, mr := newRedisRepository(t)

	a, err := repo.GetOrCreate(ctx, 42)
	require.NoError(t, err)
	require.NoError(t, a.Deposit(decimal.RequireFromString("1.50")))
	require.NoError(t, repo.Save(ctx, a))

	assert.Equal(t, "1.5", mr.HGet("test:account:42", "available"))
	assert.Equal(t, "false", mr.HGet("test:account:42", "locked"))

	members, err := mr.Members("test:clients")
	require.NoError(t, err)
	assert.Equal(t, []string{"42"}, members)
}

func TestRedis_CorruptData(t *testing.T) {
	ctx := context.Background()
	repo, mr := newRedisRepository(t)

	mr.HSet("test:account:7", "available", "x", "held", "0", "total", "0", "locked", "false")

	_, err := repo.GetOrCreate(ctx, 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt available")
}

func TestRedis_ServerDown(t *testing.T) {
	ctx := context.Background()
	repo, mr := newRedisRepository(t)
	mr.Close()

	_, err := repo.GetOrCreate(ctx, 1)
	require.Error(t, err)

	_, err = repo.All(ctx)
	require.Error(t, err)
}

func TestNewRedis_NilClient(t *testing.T) {
	t.Parallel()

	_, err := NewRedis(nil, "p")
	assert.ErrorIs(t, err, ErrNilRedisClient)

	var typedNil *redis.Client
	_, err = NewRedis(typedNil, "p")
	assert.ErrorIs(t, err, ErrNilRedisClient)
}
