package main

import (
	"context"
	"fmt"

	"github.com/LerianStudio/ledger-replay/replay"
	"github.com/LerianStudio/ledger-replay/replay/engine"
	"github.com/LerianStudio/ledger-replay/replay/log"
	"github.com/LerianStudio/ledger-replay/replay/opentelemetry/metrics"
	"github.com/LerianStudio/ledger-replay/replay/redis"
	"github.com/LerianStudio/ledger-replay/replay/store"
	"github.com/LerianStudio/ledger-replay/replay/tracker"
)

type backends struct {
	repo    store.Repository
	tracker engine.Tracker
	close   func() error
}

func openBackends(ctx context.Context, cfg replay.Config, logger log.Logger, factory *metrics.MetricsFactory) (backends, error) {
	if cfg.StoreBackend != replay.StoreBackendRedis {
		return backends{
			repo:    store.NewMemory(),
			tracker: tracker.NewMemory(),
			close:   func() error { return nil },
		}, nil
	}

	client, err := redis.New(ctx, redis.Config{
		Address:         cfg.RedisAddress,
		Password:        cfg.RedisPassword,
		DB:              int(cfg.RedisDB),
		ConnectAttempts: int(cfg.RedisConnectAttempts),
		KeyPrefix:       cfg.RedisKeyPrefix,
		FlushOnStart:    cfg.RedisFlushOnStart,
		Logger:          logger,
		MetricsFactory:  factory,
	})
	if err != nil {
		return backends{}, err
	}

	rdb, err := client.GetClient()
	if err != nil {
		_ = client.Close()
		return backends{}, err
	}

	repo, err := store.NewRedis(rdb, cfg.RedisKeyPrefix)
	if err != nil {
		_ = client.Close()
		return backends{}, err
	}

	applied, err := tracker.NewRedisCache(rdb, cfg.RedisKeyPrefix+":applied")
	if err != nil {
		_ = client.Close()
		return backends{}, fmt.Errorf("applied cache: %w", err)
	}

	disputed, err := tracker.NewRedisCache(rdb, cfg.RedisKeyPrefix+":disputed")
	if err != nil {
		_ = client.Close()
		return backends{}, fmt.Errorf("disputed cache: %w", err)
	}

	return backends{
		repo:    repo,
		tracker: tracker.New(applied, disputed),
		close:   client.Close,
	}, nil
}
