// Package app wires configuration into a ready tracker. Both the API server
// and the CLI start from here.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/kanso-tracker/internal/adapters/cache"
	"github.com/comitanigiacomo/kanso-tracker/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-tracker/internal/config"
	"github.com/comitanigiacomo/kanso-tracker/internal/core/domain"
	"github.com/comitanigiacomo/kanso-tracker/internal/core/services"
	"github.com/comitanigiacomo/kanso-tracker/internal/logger"
)

type Backend struct {
	Store   *repository.Store
	Redis   *redis.Client
	Tracker *services.Tracker
}

// Open connects the configured store, optionally fronts the habit listings
// with Redis, and loads the tracker. An unreachable Redis is logged and
// skipped; a store or load failure is returned.
func Open(ctx context.Context, cfg *config.Config, useRedis bool) (*Backend, error) {
	b := &Backend{}

	var (
		habits  domain.HabitRepository
		entries domain.HabitEntryRepository
	)

	switch cfg.Database.Driver {
	case config.DriverMemory:
		habits = repository.NewInMemoryHabitRepository()
		entries = repository.NewInMemoryEntryRepository()
	default:
		dsn := cfg.Database.Path
		if cfg.Database.Driver == config.DriverPostgres {
			dsn = cfg.Database.DSN()
		}

		store, err := repository.Open(ctx, cfg.Database.Driver, dsn)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		b.Store = store
		habits = store.Habits()
		entries = store.Entries()
	}

	if useRedis && cfg.Redis.Enabled() {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, running without cache", "err", err)
		} else {
			b.Redis = rdb
			habits = repository.NewCachedHabitRepository(habits, rdb)
		}
	}

	b.Tracker = services.NewTracker(
		services.NewHabitService(habits, entries),
		services.NewEntryService(entries),
	)
	if loc := cfg.Location; loc != nil {
		b.Tracker.WithClock(func() time.Time { return time.Now().In(loc) })
	}

	if err := b.Tracker.Load(ctx); err != nil {
		b.Close()
		return nil, err
	}

	return b, nil
}

func (b *Backend) Close() {
	if b.Redis != nil {
		if err := b.Redis.Close(); err != nil {
			logger.Warn("Failed to close redis", "err", err)
		}
	}
	if b.Store != nil {
		if err := b.Store.Close(); err != nil {
			logger.Warn("Failed to close store", "err", err)
		}
	}
}
