// Package registry maps actor type names to factories and builds actors from their specs.
package registry

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/flowbench/pkg/actor"
	"github.com/aretw0/flowbench/pkg/domain"
	"github.com/aretw0/flowbench/pkg/ports"
	"github.com/aretw0/flowbench/pkg/variables"
)

// Factory creates an unconfigured actor with the given name.
type Factory func(name string) actor.Actor

// Registry manages the available actor types.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds an actor type to the registry.
// If a type with the same name exists, it is overwritten.
func (r *Registry) Register(typeName string, fn Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[typeName] = fn
}

// Has reports whether typeName is registered.
func (r *Registry) Has(typeName string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[typeName]
	return ok
}

// Types lists the registered type names in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// New creates an unconfigured actor of typeName.
func (r *Registry) New(typeName, name string) (actor.Actor, error) {
	r.mu.RLock()
	fn, ok := r.factories[typeName]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownActorType, typeName)
	}
	return fn(name), nil
}

// Build creates the actor described by spec and configures it with the options
// expanded through x. A nil x leaves placeholders untouched.
func (r *Registry) Build(spec domain.ActorSpec, x variables.Expander) (actor.Actor, error) {
	a, err := r.New(spec.Type, spec.Name)
	if err != nil {
		return nil, &actor.ActorError{Kind: actor.KindSetUp, Actor: spec.Name, Err: err}
	}

	a.SetOptions(actor.Options{
		Skip:            spec.Skip,
		StopFlowOnError: spec.StopFlowOnError,
		Silent:          spec.Silent,
	})

	opts := spec.Options
	if x != nil {
		opts = variables.ExpandOptions(x, opts)
	}
	if err := a.Configure(opts); err != nil {
		return nil, &actor.ActorError{Kind: actor.KindSetUp, Actor: spec.Name, Err: err}
	}
	return a, nil
}

// Loader resolves external references through a DefinitionLoader and builds them with a Registry.
// It implements actor.Loader.
type Loader struct {
	defs     ports.DefinitionLoader
	registry *Registry
	vars     variables.Expander
}

// NewLoader creates a Loader. vars may be nil.
func NewLoader(defs ports.DefinitionLoader, registry *Registry, vars variables.Expander) *Loader {
	return &Loader{defs: defs, registry: registry, vars: vars}
}

// LoadActor loads the definition of ref and builds it.
// A definition without a name is named after the reference.
func (l *Loader) LoadActor(ref string) (actor.Actor, error) {
	spec, err := l.defs.LoadDefinition(ref)
	if err != nil {
		return nil, err
	}
	if spec.Name == "" {
		spec.Name = strings.TrimSuffix(path.Base(ref), path.Ext(ref))
	}
	return l.registry.Build(*spec, l.vars)
}
