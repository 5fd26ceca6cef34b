package catalog

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ravkun27/nftix/internal/domain"
	"github.com/ravkun27/nftix/pkg/logger"
	"github.com/ravkun27/nftix/pkg/retry"
)

// Repository serves the normalized catalog
type Repository interface {
	List(ctx context.Context) ([]domain.Event, error)
	GetByID(ctx context.Context, id string) (*domain.Event, error)
}

// Reloader is a repository that can re-read its source
type Reloader interface {
	Repository
	Reload(ctx context.Context) error
}

// SourceRepository keeps the last normalized snapshot of a Source in memory
type SourceRepository struct {
	source Source
	policy retry.Policy
	clock  func() time.Time
	log    *logger.Logger

	mu       sync.RWMutex
	events   []domain.Event
	loadedAt time.Time
}

// NewSourceRepository creates an empty repository; call Reload before use
func NewSourceRepository(source Source, log *logger.Logger) *SourceRepository {
	if log == nil {
		log = logger.Nop()
	}
	return &SourceRepository{
		source: source,
		policy: retry.DefaultPolicy(),
		clock:  time.Now,
		log:    log.Named("catalog"),
	}
}

// WithClock overrides the clock used as the default event date
func (r *SourceRepository) WithClock(clock func() time.Time) *SourceRepository {
	r.clock = clock
	return r
}

// WithRetryPolicy overrides the backoff used when loading the source
func (r *SourceRepository) WithRetryPolicy(p retry.Policy) *SourceRepository {
	r.policy = p
	return r
}

// Reload reads the source again and swaps in the normalized snapshot.
// On failure the previous snapshot stays in place.
func (r *SourceRepository) Reload(ctx context.Context) error {
	var records []RawRecord

	err := retry.Do(ctx, r.policy, func(ctx context.Context) error {
		var err error
		records, err = r.source.Load(ctx)
		return err
	}, func(try int, err error, wait time.Duration) {
		r.log.Warn("catalog load failed, retrying",
			zap.String("source", r.source.Name()),
			zap.Int("attempt", try),
			zap.Duration("backoff", wait),
			zap.Error(err),
		)
	})
	if err != nil {
		return err
	}

	now := r.clock()
	events := Normalize(records, now)

	r.mu.Lock()
	r.events = events
	r.loadedAt = now
	r.mu.Unlock()

	if len(events) == 0 {
		r.log.Warn("catalog is empty", zap.String("source", r.source.Name()))
	}
	r.log.Info("catalog loaded",
		zap.String("source", r.source.Name()),
		zap.Int("events", len(events)),
	)
	return nil
}

// List returns a copy of the current snapshot
func (r *SourceRepository) List(ctx context.Context) ([]domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Event, len(r.events))
	copy(out, r.events)
	return out, nil
}

// GetByID returns the first event carrying id
func (r *SourceRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return findByID(r.events, id)
}

// LoadedAt reports when the current snapshot was taken
func (r *SourceRepository) LoadedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loadedAt
}

func findByID(events []domain.Event, id string) (*domain.Event, error) {
	for i := range events {
		if events[i].ID == id {
			e := events[i]
			e.Tags = append([]string{}, e.Tags...)
			return &e, nil
		}
	}
	return nil, domain.ErrEventNotFound
}
