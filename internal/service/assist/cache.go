// internal/service/assist/cache.go

package assist

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/BrownBean2017/SpotShare-MVP/internal/domain/assist"
)

// Cache stores model responses by key
type Cache interface {
	// Get returns the cached value and whether it was present
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores a value for the given time to live
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// CachingConfig contains configuration for the caching generator
type CachingConfig struct {
	// TTL of cached responses
	TTL time.Duration

	// CallTimeout bounds one shared model request; zero means no bound
	CallTimeout time.Duration
}

// CachingGenerator decorates a text generator with a response cache and
// collapses concurrent calls for the same prompt into one model request.
//
// The shared request does not run on any single caller's context. It is
// cancelled only once every caller waiting on it has given up, so a caller
// that is cancelled or times out never fails the others, and a retry after
// the only caller left starts a fresh request.
type CachingGenerator struct {
	next   assist.TextGenerator
	cache  Cache
	config CachingConfig
	group  singleflight.Group

	mu    sync.Mutex
	calls map[string]*sharedCall
}

// sharedCall tracks the callers waiting on one prompt
type sharedCall struct {
	ctx     context.Context
	cancel  context.CancelFunc
	callers []context.Context
}

// NewCachingGenerator creates a caching generator. A nil cache only
// de-duplicates in-flight prompts.
func NewCachingGenerator(next assist.TextGenerator, cache Cache, config CachingConfig) *CachingGenerator {
	return &CachingGenerator{
		next:   next,
		cache:  cache,
		config: config,
		calls:  make(map[string]*sharedCall),
	}
}

// Generate returns the cached response for the prompt or asks the model
func (g *CachingGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	key := promptKey(prompt)

	if g.cache != nil {
		cached, ok, err := g.cache.Get(ctx, key)
		if err != nil {
			log.Printf("AI cache GET error for key %s: %v", key, err)
		} else if ok {
			log.Printf("AI cache hit for key: %s", key)
			return cached, nil
		}
	}

	call := g.join(ctx, key)
	defer g.leave(ctx, key, call)

	ch := g.group.DoChan(key, func() (interface{}, error) {
		return g.generate(call.ctx, key, prompt)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// generate runs the shared model request and caches a usable answer
func (g *CachingGenerator) generate(ctx context.Context, key, prompt string) (string, error) {
	if g.config.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.CallTimeout)
		defer cancel()
	}

	text, err := g.next.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	if g.cache != nil && text != "" {
		if err := g.cache.Set(ctx, key, text, g.config.TTL); err != nil {
			log.Printf("Failed to cache AI response for key %s: %v", key, err)
		}
	}
	return text, nil
}

// join registers ctx as a caller of the shared request for key. A request
// whose callers have all been cancelled is abandoned and a new one started.
func (g *CachingGenerator) join(ctx context.Context, key string) *sharedCall {
	g.mu.Lock()
	defer g.mu.Unlock()

	call := g.calls[key]
	if call != nil {
		live := call.callers[:0]
		for _, c := range call.callers {
			if c.Err() == nil {
				live = append(live, c)
			}
		}
		call.callers = live

		if len(live) == 0 {
			g.abandon(key, call)
			call = nil
		}
	}

	if call == nil {
		shared, cancel := context.WithCancel(context.WithoutCancel(ctx))
		call = &sharedCall{ctx: shared, cancel: cancel}
		g.calls[key] = call
	}

	call.callers = append(call.callers, ctx)
	return call
}

// leave removes ctx from the callers and cancels the request once nobody waits on it
func (g *CachingGenerator) leave(ctx context.Context, key string, call *sharedCall) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i, c := range call.callers {
		if c == ctx {
			call.callers = append(call.callers[:i], call.callers[i+1:]...)
			break
		}
	}

	if len(call.callers) == 0 {
		g.abandon(key, call)
	}
}

// abandon cancels the request and forgets it so the next caller starts anew.
// Caller holds g.mu.
func (g *CachingGenerator) abandon(key string, call *sharedCall) {
	call.cancel()
	if g.calls[key] == call {
		delete(g.calls, key)
		g.group.Forget(key)
	}
}

// waiting returns the number of callers registered for key
func (g *CachingGenerator) waiting(key string) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	if call := g.calls[key]; call != nil {
		return len(call.callers)
	}
	return 0
}

func promptKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return "ai:" + hex.EncodeToString(sum[:])
}
