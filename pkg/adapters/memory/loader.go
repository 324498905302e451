package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/flowbench/pkg/domain"
)

// Loader implements ports.DefinitionLoader using an in-memory map of actor definitions.
type Loader struct {
	mu   sync.RWMutex
	defs map[string]domain.ActorSpec
}

// NewLoader creates a Loader from definitions keyed by reference.
func NewLoader(defs map[string]domain.ActorSpec) *Loader {
	l := &Loader{defs: make(map[string]domain.ActorSpec, len(defs))}
	for ref, spec := range defs {
		l.defs[ref] = spec
	}
	return l
}

// Add registers (or replaces) a definition.
func (l *Loader) Add(ref string, spec domain.ActorSpec) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.defs[ref] = spec
}

// LoadDefinition returns a copy of the definition registered under ref.
func (l *Loader) LoadDefinition(ref string) (*domain.ActorSpec, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	spec, ok := l.defs[ref]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrActorNotFound, ref)
	}
	return &spec, nil
}

// Refs lists the registered references in sorted order.
func (l *Loader) Refs() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	refs := make([]string, 0, len(l.defs))
	for ref := range l.defs {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return refs
}
