// internal/service/session/manager.go

package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BrownBean2017/SpotShare-MVP/internal/adapter/events"
	"github.com/BrownBean2017/SpotShare-MVP/internal/domain/assist"
	"github.com/BrownBean2017/SpotShare-MVP/internal/service/marketplace"
)

// Dependencies are the services every session is built with
type Dependencies struct {
	Market    *marketplace.Service
	Assistant assist.Assistant
	Emitter   *events.Emitter
}

// ManagerConfig contains configuration for the session manager
type ManagerConfig struct {
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

// Manager keeps the live sessions and evicts idle ones
type Manager struct {
	deps     Dependencies
	config   ManagerConfig
	sessions map[string]*Session
	mu       sync.RWMutex
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewManager creates a session manager and starts its idle sweeper
func NewManager(deps Dependencies, config ManagerConfig) *Manager {
	ctx, cancel := context.WithCancel(context.Background())

	m := &Manager{
		deps:     deps,
		config:   config,
		sessions: make(map[string]*Session),
		ctx:      ctx,
		cancel:   cancel,
	}

	if config.SweepInterval > 0 && config.IdleTTL > 0 {
		m.wg.Add(1)
		go m.sweepIdleSessions()
	}

	return m
}

// Create starts a fresh session seeded with the demo spots
func (m *Manager) Create() *Session {
	s := newSession(uuid.New().String(), m.deps)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	log.Printf("Session %s created", s.ID)
	return s
}

// Get returns a session by ID
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	return s, ok
}

// GetOrCreate returns the session for id, creating a new one when id is unknown
func (m *Manager) GetOrCreate(id string) (s *Session, created bool) {
	if id != "" {
		if s, ok := m.Get(id); ok {
			return s, false
		}
	}
	return m.Create(), true
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions)
}

// Stop ends the sweeper and closes every session
func (m *Manager) Stop(ctx context.Context) error {
	m.cancel()

	c := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(c)
	}()

	select {
	case <-c:
	case <-ctx.Done():
		return ctx.Err()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		s.Close()
		delete(m.sessions, id)
	}
	return nil
}

func (m *Manager) sweepIdleSessions() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case now := <-ticker.C:
			m.evictIdle(now)
		}
	}
}

// evictIdle removes sessions with no activity for longer than the idle TTL
func (m *Manager) evictIdle(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for id, s := range m.sessions {
		if now.Sub(s.idleSince()) > m.config.IdleTTL {
			s.Close()
			delete(m.sessions, id)
			evicted++
		}
	}

	if evicted > 0 {
		log.Printf("Evicted %d idle sessions", evicted)
	}
	return evicted
}
