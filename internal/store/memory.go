package store

import (
	"context"
	"sync"
)

// Memory is an in-process Store. It backs tests and the "memory" driver;
// everything marked here is forgotten on restart, so sources with no
// natural cursor rely on startup priming to avoid replaying history.
type Memory struct {
	mu      sync.Mutex
	sent    map[string]struct{}
	cursors map[string]string
}

func NewMemory() *Memory {
	return &Memory{
		sent:    map[string]struct{}{},
		cursors: map[string]string{},
	}
}

func (m *Memory) WasNotified(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sent[key]
	return ok, nil
}

func (m *Memory) MarkNotified(_ context.Context, key string) error {
	if key == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent[key] = struct{}{}
	return nil
}

func (m *Memory) GetCursor(_ context.Context, name, def string) (string, error) {
	if name == "" {
		return def, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.cursors[name]
	if !ok || v == "" {
		m.cursors[name] = def
		return def, nil
	}
	return v, nil
}

func (m *Memory) SetCursor(_ context.Context, name, value string) error {
	if name == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursors[name] = value
	return nil
}

// Len reports the number of marked keys (test helper).
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *Memory) Close() error { return nil }
