package native

import (
	"fmt"
	"sync"
)

// Registry manages native library instances by provider.
type Registry struct {
	libraries map[Provider]Library
	mu        sync.RWMutex
}

// NewRegistry creates a new native library registry.
func NewRegistry() *Registry {
	return &Registry{
		libraries: make(map[Provider]Library),
	}
}

// Register adds a library to the registry.
func (r *Registry) Register(lib Library) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	provider := lib.Provider()
	if _, exists := r.libraries[provider]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, provider)
	}

	r.libraries[provider] = lib
	return nil
}

// Get retrieves a library by provider.
func (r *Registry) Get(provider Provider) (Library, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lib, ok := r.libraries[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, provider)
	}

	return lib, nil
}

// Providers returns the registered providers.
func (r *Registry) Providers() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providers := make([]Provider, 0, len(r.libraries))
	for p := range r.libraries {
		providers = append(providers, p)
	}

	return providers
}

// DefaultRegistry returns a registry holding the compiled-in library.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	_ = r.Register(Default())
	return r
}
