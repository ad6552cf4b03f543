package persona

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/claireundgeorge/accessible-site/internal/platform/logger"
)

// Manager keeps one resident Store per visitor.
type Manager struct {
	cfg  Config
	deps StoreDeps
	log  *logger.Logger

	mu     sync.Mutex
	stores map[string]*Store
	// loads collapses concurrent first requests for one visitor into a
	// single Load.
	loads singleflight.Group
}

func NewManager(cfg Config, deps StoreDeps) *Manager {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.Clock == nil {
		deps.Clock = SystemClock()
	}
	return &Manager{
		cfg:    cfg,
		deps:   deps,
		log:    deps.Log.With("component", "PersonaManager"),
		stores: map[string]*Store{},
	}
}

// Get returns the visitor's resident store, loading it from storage on
// first use. A store is only published once loaded, so concurrent first
// requests wait for the same load.
func (m *Manager) Get(ctx context.Context, visitorID string) *Store {
	if s, ok := m.Resident(visitorID); ok {
		s.Touch()
		return s
	}
	v, _, _ := m.loads.Do(visitorID, func() (any, error) {
		if s, ok := m.Resident(visitorID); ok {
			return s, nil
		}
		s := NewStore(visitorID, m.cfg, m.deps)
		// Shared by every waiter; one caller going away must not cut the
		// load short for the others.
		s.Load(context.WithoutCancel(ctx))
		m.mu.Lock()
		m.stores[visitorID] = s
		m.mu.Unlock()
		return s, nil
	})
	s := v.(*Store)
	s.Touch()
	return s
}

// Resident reports the store without loading it.
func (m *Manager) Resident(visitorID string) (*Store, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stores[visitorID]
	return s, ok
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stores)
}

// Sweep evicts stores idle for longer than idle. Transitioning stores are
// kept so their commit is not lost.
func (m *Manager) Sweep(idle time.Duration) int {
	if idle <= 0 {
		return 0
	}
	now := m.deps.Clock.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	evicted := 0
	for id, s := range m.stores {
		last, transitioning := s.idleSince()
		if transitioning || now.Sub(last) < idle {
			continue
		}
		delete(m.stores, id)
		evicted++
	}
	return evicted
}

// StartJanitor sweeps on a ticker until ctx is done.
func (m *Manager) StartJanitor(ctx context.Context, every, idle time.Duration) {
	if every <= 0 || idle <= 0 {
		m.log.Info("Persona janitor disabled")
		return
	}
	go func() {
		t := time.NewTicker(every)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if n := m.Sweep(idle); n > 0 {
					m.log.Debug("Evicted idle persona stores", "count", n, "resident", m.Len())
				}
			}
		}
	}()
}
