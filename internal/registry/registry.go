// Package registry holds the process-wide mapping from processor id to
// implementation. It is populated once at startup and is safe for
// unsynchronized concurrent reads thereafter.
package registry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/maauso/mediajob-server/internal/processor"
)

// ErrUnknownProcessor is returned by Get when id is not registered.
var ErrUnknownProcessor = errors.New("registry: unknown processor")

// ErrAlreadyRegistered is returned by Register when id is already taken.
var ErrAlreadyRegistered = errors.New("registry: processor already registered")

// Registry is a process-wide, read-after-init map from processor id to
// Processor. register is only ever called during startup wiring; once
// serving begins the registry is read-only, so Get/List need no lock.
type Registry struct {
	entries map[string]processor.Processor
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{entries: make(map[string]processor.Processor)}
}

// Register adds a processor under its own descriptor id. Call only
// during startup wiring, never while serving requests.
func (r *Registry) Register(p processor.Processor) error {
	id := p.Descriptor().ID
	if _, exists := r.entries[id]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, id)
	}
	r.entries[id] = p
	return nil
}

// MustRegister is Register, panicking on error. Intended for startup
// wiring where a duplicate id is a programming error, not a runtime
// condition to recover from.
func (r *Registry) MustRegister(p processor.Processor) {
	if err := r.Register(p); err != nil {
		panic(err)
	}
}

// Get returns the processor registered under id, or ErrUnknownProcessor.
func (r *Registry) Get(id string) (processor.Processor, error) {
	p, ok := r.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProcessor, id)
	}
	return p, nil
}

// List returns every registered descriptor, sorted by id for a stable
// response body.
func (r *Registry) List() []processor.Descriptor {
	out := make([]processor.Descriptor, 0, len(r.entries))
	for _, p := range r.entries {
		out = append(out, p.Descriptor())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
