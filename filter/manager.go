package filter

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Manager keeps named filters, typically loaded from the config file
type Manager struct {
	compiler *Compiler
	filters  map[string]*Filter
	mu       sync.RWMutex
}

// NewManager creates a new filter manager
func NewManager(compiler *Compiler) *Manager {
	if compiler == nil {
		compiler = NewCompiler(WithCache(100))
	}
	return &Manager{
		compiler: compiler,
		filters:  make(map[string]*Filter),
	}
}

// RegisterFilters compiles and registers filters. Nothing is registered
// unless every expression compiles.
func (m *Manager) RegisterFilters(filters map[string]string) error {
	compiled := make(map[string]*Filter, len(filters))
	for _, name := range slices.Sorted(maps.Keys(filters)) {
		filter, err := m.compiler.Compile(filters[name])
		if err != nil {
			return fmt.Errorf("failed to compile filter '%s': %w", name, err)
		}
		compiled[name] = filter
	}

	m.mu.Lock()
	maps.Copy(m.filters, compiled)
	m.mu.Unlock()

	return nil
}

// GetFilter returns a compiled filter by name
func (m *Manager) GetFilter(name string) (*Filter, bool) {
	m.mu.RLock()
	filter, exists := m.filters[name]
	m.mu.RUnlock()
	return filter, exists
}

// ListFilters returns all registered filter names, sorted
func (m *Manager) ListFilters() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.filters))
}

// Resolve returns the registered filter called nameOrExpression, or compiles
// it as an expression when no such filter exists.
func (m *Manager) Resolve(nameOrExpression string) (*Filter, error) {
	if filter, ok := m.GetFilter(nameOrExpression); ok {
		return filter, nil
	}
	return m.compiler.Compile(nameOrExpression)
}
