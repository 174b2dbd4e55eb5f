// internal/service/assist/cache_test.go

package assist

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrownBean2017/SpotShare-MVP/internal/domain/assist"
)

// memoryCache is a map-backed Cache
type memoryCache struct {
	mu     sync.Mutex
	values map[string]string
	ttls   map[string]time.Duration
	getErr error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{
		values: make(map[string]string),
		ttls:   make(map[string]time.Duration),
	}
}

func (c *memoryCache) Get(ctx context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.getErr != nil {
		return "", false, c.getErr
	}
	v, ok := c.values[key]
	return v, ok, nil
}

func (c *memoryCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.values[key] = value
	c.ttls[key] = ttl
	return nil
}

func TestCachingGeneratorHitSkipsModel(t *testing.T) {
	gen := &stubGenerator{text: "15"}
	cache := newMemoryCache()
	g := NewCachingGenerator(gen, cache, CachingConfig{TTL: time.Minute})

	first, err := g.Generate(context.Background(), "price for a garage")
	require.NoError(t, err)
	second, err := g.Generate(context.Background(), "price for a garage")
	require.NoError(t, err)

	assert.Equal(t, "15", first)
	assert.Equal(t, "15", second)
	assert.Equal(t, 1, gen.calls())

	key := promptKey("price for a garage")
	assert.Equal(t, time.Minute, cache.ttls[key])
}

func TestCachingGeneratorDoesNotCacheFailures(t *testing.T) {
	cache := newMemoryCache()

	_, err := NewCachingGenerator(&stubGenerator{err: errors.New("boom")}, cache, CachingConfig{TTL: time.Minute}).
		Generate(context.Background(), "p")
	require.Error(t, err)

	_, err = NewCachingGenerator(&stubGenerator{}, cache, CachingConfig{TTL: time.Minute}).
		Generate(context.Background(), "p")
	require.NoError(t, err)

	assert.Empty(t, cache.values)
}

func TestCachingGeneratorBypassesBrokenCache(t *testing.T) {
	gen := &stubGenerator{text: "answer"}
	cache := newMemoryCache()
	cache.getErr = errors.New("connection refused")

	got, err := NewCachingGenerator(gen, cache, CachingConfig{TTL: time.Minute}).Generate(context.Background(), "p")

	require.NoError(t, err)
	assert.Equal(t, "answer", got)
	assert.Equal(t, 1, gen.calls())
}

func TestCachingGeneratorWithoutCache(t *testing.T) {
	gen := &stubGenerator{text: "answer"}
	g := NewCachingGenerator(gen, nil, CachingConfig{TTL: time.Minute})

	for i := 0; i < 2; i++ {
		got, err := g.Generate(context.Background(), "p")
		require.NoError(t, err)
		assert.Equal(t, "answer", got)
	}
	assert.Equal(t, 2, gen.calls())
}

func TestPromptKey(t *testing.T) {
	a := promptKey("hello")
	assert.Equal(t, a, promptKey("hello"))
	assert.NotEqual(t, a, promptKey("hello!"))
	assert.Len(t, a, len("ai:")+64)
}

// gatedGenerator holds its first call until released or cancelled. Later
// calls answer immediately.
type gatedGenerator struct {
	mu      sync.Mutex
	n       int
	text    string
	started chan struct{}
	release chan struct{}
}

func newGatedGenerator(text string) *gatedGenerator {
	return &gatedGenerator{
		text:    text,
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (g *gatedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.n++
	first := g.n == 1
	g.mu.Unlock()

	if first {
		g.started <- struct{}{}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-g.release:
		}
	}
	return g.text, nil
}

func (g *gatedGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.n
}

func TestCachingGeneratorRetryAfterCancelledCall(t *testing.T) {
	gen := newGatedGenerator("fresh")
	g := NewCachingGenerator(gen, newMemoryCache(), CachingConfig{TTL: time.Minute})

	oldCtx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := g.Generate(oldCtx, "quiet garage")
		errCh <- err
	}()

	<-gen.started
	cancel()
	require.ErrorIs(t, <-errCh, context.Canceled)

	got, err := g.Generate(context.Background(), "quiet garage")
	require.NoError(t, err)
	assert.Equal(t, "fresh", got)
	assert.Equal(t, 2, gen.calls())
}

func TestCachingGeneratorCollapsesConcurrentCalls(t *testing.T) {
	const callers = 5

	gen := newGatedGenerator("shared answer")
	g := NewCachingGenerator(gen, nil, CachingConfig{})
	key := promptKey("p")

	var wg sync.WaitGroup
	results := make([]string, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = g.Generate(context.Background(), "p")
		}(i)
	}

	<-gen.started
	assert.Eventually(t, func() bool { return g.waiting(key) == callers }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(gen.release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "shared answer", results[i])
	}
	assert.Equal(t, 1, gen.calls())
	assert.Equal(t, 0, g.waiting(key))
}

func TestCachingGeneratorCancelledCallerKeepsWaiters(t *testing.T) {
	gen := newGatedGenerator("still here")
	g := NewCachingGenerator(gen, newMemoryCache(), CachingConfig{TTL: time.Minute})
	key := promptKey("p")

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := g.Generate(leaderCtx, "p")
		leaderErr <- err
	}()
	<-gen.started

	type result struct {
		text string
		err  error
	}
	waiter := make(chan result, 1)
	go func() {
		text, err := g.Generate(context.Background(), "p")
		waiter <- result{text, err}
	}()

	assert.Eventually(t, func() bool { return g.waiting(key) == 2 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	cancel()
	require.ErrorIs(t, <-leaderErr, context.Canceled)
	assert.Equal(t, 1, g.waiting(key))

	close(gen.release)
	res := <-waiter
	require.NoError(t, res.err)
	assert.Equal(t, "still here", res.text)
	assert.Equal(t, 1, gen.calls())
}

func TestCachingGeneratorCallTimeout(t *testing.T) {
	g := NewCachingGenerator(slowGenerator{}, nil, CachingConfig{CallTimeout: 20 * time.Millisecond})

	_, err := g.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRecommendSpotsRetryAfterCancelledSearch(t *testing.T) {
	gen := newGatedGenerator(`[{"spotId": "1", "reason": "Quiet and covered"}]`)
	svc := NewService(NewCachingGenerator(gen, newMemoryCache(), CachingConfig{TTL: time.Minute}), ServiceConfig{})

	oldCtx, cancel := context.WithCancel(context.Background())
	stale := make(chan []assist.Recommendation, 1)
	go func() {
		stale <- svc.RecommendSpots(oldCtx, "quiet garage", candidates())
	}()

	<-gen.started
	cancel()
	assert.Empty(t, <-stale)

	recs := svc.RecommendSpots(context.Background(), "quiet garage", candidates())
	require.Len(t, recs, 1)
	assert.Equal(t, "1", recs[0].SpotID)
	assert.Equal(t, 2, gen.calls())
}
