package catalog

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ravkun27/nftix/internal/domain"
	"github.com/ravkun27/nftix/pkg/logger"
	"github.com/ravkun27/nftix/pkg/redis"
)

const (
	catalogListKey  = "catalog:events"
	defaultCacheTTL = 5 * time.Minute
)

// Cache is the subset of the redis client the catalog cache uses
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// CachedRepository wraps a Reloader with a shared Redis copy of the normalized
// catalog. Cache errors are logged and fall through to the wrapped repository.
type CachedRepository struct {
	repo  Reloader
	cache Cache
	ttl   time.Duration
	log   *logger.Logger
}

// NewCachedRepository creates a CachedRepository
func NewCachedRepository(repo Reloader, cache Cache, ttl time.Duration, log *logger.Logger) *CachedRepository {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CachedRepository{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
		log:   log.Named("catalog-cache"),
	}
}

// List serves the cached catalog, filling the cache on a miss
func (r *CachedRepository) List(ctx context.Context) ([]domain.Event, error) {
	var events []domain.Event
	err := r.cache.GetJSON(ctx, catalogListKey, &events)
	if err == nil {
		return events, nil
	}
	if !errors.Is(err, redis.ErrCacheMiss) {
		r.log.Warn("catalog cache read failed", zap.Error(err))
	}

	events, err = r.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if err := r.cache.SetJSON(ctx, catalogListKey, events, r.ttl); err != nil {
		r.log.Warn("catalog cache write failed", zap.Error(err))
	}
	return events, nil
}

// GetByID looks the event up in the cached catalog
func (r *CachedRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	events, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return findByID(events, id)
}

// Reload re-reads the source and drops the cached copy. A failed
// invalidation is logged only: the new snapshot is already in place and the
// stale copy expires with its TTL.
func (r *CachedRepository) Reload(ctx context.Context) error {
	if err := r.repo.Reload(ctx); err != nil {
		return err
	}
	_ = r.Invalidate(ctx)
	return nil
}

// Invalidate drops the cached catalog
func (r *CachedRepository) Invalidate(ctx context.Context) error {
	if err := r.cache.Delete(ctx, catalogListKey); err != nil {
		r.log.Warn("catalog cache invalidation failed", zap.Error(err))
		return err
	}
	return nil
}
