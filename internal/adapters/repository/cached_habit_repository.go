package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/kanso-tracker/internal/core/domain"
	"github.com/comitanigiacomo/kanso-tracker/internal/logger"
)

var _ domain.HabitRepository = (*CachedHabitRepository)(nil)

const (
	cacheKeyAll    = "kanso:habits:all"
	cacheKeyActive = "kanso:habits:active"
	cacheTTL       = 30 * time.Minute
)

// CachedHabitRepository keeps the two habit listings in Redis and drops both
// keys on any habit write.
type CachedHabitRepository struct {
	next  domain.HabitRepository
	cache *redis.Client
}

func NewCachedHabitRepository(next domain.HabitRepository, cache *redis.Client) *CachedHabitRepository {
	return &CachedHabitRepository{
		next:  next,
		cache: cache,
	}
}

func (r *CachedHabitRepository) invalidate(ctx context.Context) {
	if err := r.cache.Del(ctx, cacheKeyAll, cacheKeyActive).Err(); err != nil {
		logger.Warn("[CACHE] Failed to invalidate habit listings", "err", err)
	}
}

func (r *CachedHabitRepository) cached(ctx context.Context, key string, load func(context.Context) ([]*domain.Habit, error)) ([]*domain.Habit, error) {
	val, err := r.cache.Get(ctx, key).Result()
	if err == nil {
		var habits []*domain.Habit
		if err := json.Unmarshal([]byte(val), &habits); err == nil {
			return habits, nil
		}

		logger.Warn("[CACHE] Corrupted data, cleaning up key", "key", key)
		r.cache.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		logger.Warn("[CACHE] Redis read error", "err", err)
	}

	habits, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(habits); err == nil {
		if setErr := r.cache.Set(ctx, key, data, cacheTTL).Err(); setErr != nil {
			logger.Warn("[CACHE] Redis set error", "err", setErr)
		}
	}

	return habits, nil
}

func (r *CachedHabitRepository) List(ctx context.Context) ([]*domain.Habit, error) {
	return r.cached(ctx, cacheKeyAll, r.next.List)
}

// ListFresh reads every habit from the wrapped store and drops both cached
// listings. Other processes may write the store without going through Redis.
func (r *CachedHabitRepository) ListFresh(ctx context.Context) ([]*domain.Habit, error) {
	habits, err := r.next.List(ctx)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return habits, nil
}

func (r *CachedHabitRepository) ListActive(ctx context.Context) ([]*domain.Habit, error) {
	return r.cached(ctx, cacheKeyActive, r.next.ListActive)
}

func (r *CachedHabitRepository) GetByID(ctx context.Context, id int64) (*domain.Habit, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CachedHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	if err := r.next.Create(ctx, habit); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	if err := r.next.Update(ctx, habit); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedHabitRepository) Delete(ctx context.Context, id int64) error {
	defer r.invalidate(ctx)
	return r.next.Delete(ctx, id)
}
