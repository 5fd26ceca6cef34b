package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ravkun27/nftix/internal/domain"
	"github.com/ravkun27/nftix/pkg/redis"
	"github.com/ravkun27/nftix/pkg/retry"
)

// MockSource is a mock implementation of Source
type MockSource struct {
	mock.Mock
}

func (m *MockSource) Load(ctx context.Context) ([]RawRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]RawRecord), args.Error(1)
}

func (m *MockSource) Name() string {
	return "mock"
}

func fastRetry() retry.Policy {
	return retry.Policy{Attempts: 3, Base: time.Millisecond, Cap: time.Millisecond}
}

func newTestRepo(src Source) *SourceRepository {
	return NewSourceRepository(src, nil).
		WithClock(func() time.Time { return fixedNow }).
		WithRetryPolicy(fastRetry())
}

func TestSourceRepository_ReloadAndLookup(t *testing.T) {
	src := &StaticSource{Records: []RawRecord{
		{"id": "a", "status": "minting"},
		{"id": "b"},
		{"id": "a", "title": "Duplicate"},
	}}
	repo := newTestRepo(src)
	ctx := context.Background()

	require.NoError(t, repo.Reload(ctx))
	assert.Equal(t, fixedNow, repo.LoadedAt())

	events, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 3)

	e, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Untitled Event 1", e.Title)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestSourceRepository_ListReturnsCopy(t *testing.T) {
	repo := newTestRepo(&StaticSource{Records: []RawRecord{{"id": "a"}}})
	require.NoError(t, repo.Reload(context.Background()))

	events, _ := repo.List(context.Background())
	events[0].ID = "mutated"

	again, _ := repo.List(context.Background())
	assert.Equal(t, "a", again[0].ID)
}

func TestSourceRepository_RetriesTransientFailures(t *testing.T) {
	src := new(MockSource)
	src.On("Load", mock.Anything).Return(nil, errors.New("connection reset")).Once()
	src.On("Load", mock.Anything).Return([]RawRecord{{"id": "x"}}, nil).Once()

	repo := newTestRepo(src)
	require.NoError(t, repo.Reload(context.Background()))

	e, err := repo.GetByID(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "x", e.ID)
	src.AssertExpectations(t)
}

func TestSourceRepository_FailedReloadKeepsSnapshot(t *testing.T) {
	src := new(MockSource)
	src.On("Load", mock.Anything).Return([]RawRecord{{"id": "kept"}}, nil).Once()
	src.On("Load", mock.Anything).Return(nil, errors.New("source down"))

	repo := newTestRepo(src)
	ctx := context.Background()
	require.NoError(t, repo.Reload(ctx))

	err := repo.Reload(ctx)
	assert.ErrorIs(t, err, retry.ErrAttemptsExhausted)

	events, _ := repo.List(ctx)
	require.Len(t, events, 1)
	assert.Equal(t, "kept", events[0].ID)
}

// fakeCache is an in-memory Cache storing values as they were set
type fakeCache struct {
	mu      sync.Mutex
	values  map[string][]domain.Event
	sets       int
	failGet    error
	failDelete error
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string][]domain.Event)}
}

func (c *fakeCache) GetJSON(ctx context.Context, key string, dst any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet != nil {
		return c.failGet
	}
	v, ok := c.values[key]
	if !ok {
		return redis.ErrCacheMiss
	}
	*(dst.(*[]domain.Event)) = append([]domain.Event(nil), v...)
	return nil
}

func (c *fakeCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.values[key] = value.([]domain.Event)
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failDelete != nil {
		return c.failDelete
	}
	for _, k := range keys {
		delete(c.values, k)
	}
	return nil
}

func TestCachedRepository_FillsOnMissAndServesHits(t *testing.T) {
	src := new(MockSource)
	src.On("Load", mock.Anything).Return([]RawRecord{{"id": "a"}, {"id": "b"}}, nil).Once()

	base := newTestRepo(src)
	require.NoError(t, base.Reload(context.Background()))

	cache := newFakeCache()
	repo := NewCachedRepository(base, cache, time.Minute, nil)
	ctx := context.Background()

	events, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, 1, cache.sets)

	e, err := repo.GetByID(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "b", e.ID)
	assert.Equal(t, 1, cache.sets, "second read must be served from cache")
}

func TestCachedRepository_ReadErrorFallsThrough(t *testing.T) {
	base := newTestRepo(&StaticSource{Records: []RawRecord{{"id": "a"}}})
	require.NoError(t, base.Reload(context.Background()))

	cache := newFakeCache()
	cache.failGet = errors.New("redis timeout")
	repo := NewCachedRepository(base, cache, 0, nil)

	events, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, defaultCacheTTL, repo.ttl)
}

func TestCachedRepository_ReloadInvalidates(t *testing.T) {
	src := new(MockSource)
	src.On("Load", mock.Anything).Return([]RawRecord{{"id": "old"}}, nil).Once()
	src.On("Load", mock.Anything).Return([]RawRecord{{"id": "new"}}, nil).Once()

	base := newTestRepo(src)
	require.NoError(t, base.Reload(context.Background()))

	cache := newFakeCache()
	repo := NewCachedRepository(base, cache, time.Minute, nil)
	ctx := context.Background()

	_, err := repo.List(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.Reload(ctx))

	_, err = repo.GetByID(ctx, "old")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
	e, err := repo.GetByID(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, "new", e.ID)
}

func TestCachedRepository_ReloadSurvivesInvalidationFailure(t *testing.T) {
	base := newTestRepo(&StaticSource{Records: []RawRecord{{"id": "a"}}})

	cache := newFakeCache()
	cache.failDelete = errors.New("redis down")
	repo := NewCachedRepository(base, cache, time.Minute, nil)

	require.NoError(t, repo.Reload(context.Background()))

	events, err := base.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, events, 1)

	assert.Error(t, repo.Invalidate(context.Background()))
}

func TestRefresher_ReloadsOnSchedule(t *testing.T) {
	src := new(MockSource)
	src.On("Load", mock.Anything).Return([]RawRecord{{"id": "a"}}, nil)

	repo := newTestRepo(src)
	reloaded := make(chan error, 4)
	r := NewRefresher(repo, 20*time.Millisecond, nil, func(err error) {
		select {
		case reloaded <- err:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	select {
	case err := <-reloaded:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("refresh job never ran")
	}

	cancel()
	assert.NoError(t, <-done)

	events, _ := repo.List(context.Background())
	assert.Len(t, events, 1)
}

func TestRefresher_DisabledBlocksUntilCanceled(t *testing.T) {
	r := NewRefresher(newTestRepo(&StaticSource{}), 0, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.NoError(t, r.Run(ctx))
}
