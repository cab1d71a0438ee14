package automation

import (
	"fmt"
	"sort"
	"sync"
)

// Factory builds a driver from an endpoint setting (may be empty).
type Factory func(endpoint string) (Driver, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register makes a driver available by name. It panics on duplicates, the
// same way database/sql drivers do.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("automation: Register factory is nil")
	}
	if _, dup := registry[name]; dup {
		panic("automation: Register called twice for driver " + name)
	}
	registry[name] = factory
}

// Open builds the named driver.
func Open(name, endpoint string) (Driver, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown automation driver %q (available: %v)", name, Drivers())
	}
	return factory(endpoint)
}

// Drivers returns the sorted list of registered driver names.
func Drivers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
