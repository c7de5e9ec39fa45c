// Package registry owns the identifier-indexed registries synchronized to
// clients during the Configuration phase, and the numeric-index lookups the
// gameplay packets need afterwards.
package registry

import "sync"

// Manager maps registry name → ordered entry identifiers. Numeric indices
// are implicit from insertion order and stay stable for the process
// lifetime.
type Manager struct {
	mu      sync.Mutex
	entries map[string][]string
	index   map[string]map[string]int32
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{
		entries: make(map[string][]string),
		index:   make(map[string]map[string]int32),
	}
}

// Add appends an identifier to a registry unless it is already present.
func (m *Manager) Add(registry, identifier string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, ok := m.index[registry]
	if !ok {
		idx = make(map[string]int32)
		m.index[registry] = idx
	}
	if _, exists := idx[identifier]; exists {
		return
	}
	idx[identifier] = int32(len(m.entries[registry]))
	m.entries[registry] = append(m.entries[registry], identifier)
}

// ID returns the numeric index of an identifier within a registry.
func (m *Manager) ID(registry, identifier string) (int32, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, ok := m.index[registry]
	if !ok {
		return 0, false
	}
	id, ok := idx[identifier]
	return id, ok
}

// Entries returns a copy of a registry's identifiers in insertion order.
func (m *Manager) Entries(registry string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	src := m.entries[registry]
	out := make([]string, len(src))
	copy(out, src)
	return out
}
