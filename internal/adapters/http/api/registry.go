package api

import (
	"sync"

	"github.com/go-chi/chi/v5"
)

// Endpoint is one route group that knows how to attach itself to a router.
type Endpoint interface {
	MapEndpoint(r chi.Router)
}

// EndpointFunc adapts a plain function to Endpoint.
type EndpointFunc func(r chi.Router)

// MapEndpoint implements Endpoint.
func (f EndpointFunc) MapEndpoint(r chi.Router) { f(r) }

// Registry is an explicit, ordered list of endpoints. It is mapped onto a
// router exactly once; afterwards it is sealed.
type Registry struct {
	mu        sync.Mutex
	endpoints []Endpoint
	mapped    bool
}

// NewRegistry creates a registry holding the given endpoints. Nil entries
// are dropped.
func NewRegistry(endpoints ...Endpoint) *Registry {
	reg := &Registry{}
	for _, e := range endpoints {
		if e != nil {
			reg.endpoints = append(reg.endpoints, e)
		}
	}
	return reg
}

// Add appends endpoints. It fails with ErrRegistrySealed after Map.
func (reg *Registry) Add(endpoints ...Endpoint) error {
	const op = "api.registry_add"
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if reg.mapped {
		return NewKind(op, ErrRegistrySealed)
	}
	for _, e := range endpoints {
		if e != nil {
			reg.endpoints = append(reg.endpoints, e)
		}
	}
	return nil
}

// Map attaches every endpoint to r in registration order.
// A second call fails with ErrRegistrySealed and leaves r untouched.
func (reg *Registry) Map(r chi.Router) error {
	const op = "api.registry_map"
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if reg.mapped {
		return NewKind(op, ErrRegistrySealed)
	}
	for _, e := range reg.endpoints {
		e.MapEndpoint(r)
	}
	reg.mapped = true
	return nil
}

// Len returns the number of registered endpoints.
func (reg *Registry) Len() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.endpoints)
}

// Mapped reports whether Map has run.
func (reg *Registry) Mapped() bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return reg.mapped
}
