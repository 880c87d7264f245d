package adapter

import (
	"sort"
	"strings"
	"sync"

	"github.com/voxengine/voxengine/internal/voxerr"
)

// Registry manages named backend instances. It is populated at startup and
// read-mostly thereafter.
type Registry struct {
	backends map[string]Adapter
	mu       sync.RWMutex
}

// NewRegistry creates a new backend registry.
func NewRegistry() *Registry {
	return &Registry{
		backends: make(map[string]Adapter),
	}
}

// Register adds a backend to the registry under its descriptor name.
func (r *Registry) Register(a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.backends[a.Describe().Name] = a
}

// Resolve retrieves a backend by name. Unknown names fail with a
// MissingDependency error listing the registered backends.
func (r *Registry) Resolve(name string) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.backends[name]
	if !ok {
		return nil, voxerr.MissingDependency(
			"unknown TTS backend %q. Available: %s", name, strings.Join(r.namesLocked(), ", "))
	}

	return a, nil
}

// List returns every backend's self-report, sorted by name.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	descriptors := make([]Descriptor, 0, len(r.backends))
	for _, name := range r.namesLocked() {
		descriptors = append(descriptors, r.backends[name].Describe())
	}

	return descriptors
}

// Names returns the registered backend names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
