package kv

import (
	"context"
	"sync"
)

// Memory keeps persona entries in process. Entries do not survive a
// restart.
type Memory struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

func NewMemory() *Memory {
	return &Memory{data: map[string]map[string]string{}}
}

func (m *Memory) Get(_ context.Context, visitorID, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[visitorID][key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, visitorID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ns := m.data[visitorID]
	if ns == nil {
		ns = map[string]string{}
		m.data[visitorID] = ns
	}
	ns[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, visitorID string, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ns := m.data[visitorID]
	for _, k := range keys {
		delete(ns, k)
	}
	if len(ns) == 0 {
		delete(m.data, visitorID)
	}
	return nil
}
