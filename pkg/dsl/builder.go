package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/flowbench/pkg/domain"
)

// Builder manages the flow construction.
type Builder struct {
	spec        domain.FlowSpec
	actors      []*ActorBuilder
	standalones []*ActorBuilder
	index       map[string]*ActorBuilder
}

// New creates a new flow builder.
func New(name string) *Builder {
	return &Builder{
		spec:  domain.FlowSpec{Name: name},
		index: make(map[string]*ActorBuilder),
	}
}

// Describe sets the flow description.
func (b *Builder) Describe(text string) *Builder {
	b.spec.Description = text
	return b
}

// Variable declares a flow variable with its initial value.
func (b *Builder) Variable(name, value string) *Builder {
	if b.spec.Variables == nil {
		b.spec.Variables = make(map[string]string)
	}
	b.spec.Variables[name] = value
	return b
}

// Policy sets the flow error policy.
func (b *Builder) Policy(p domain.ErrorPolicy) *Builder {
	b.spec.ErrorPolicy = p
	return b
}

// Provenance enables lineage stamping on every token.
func (b *Builder) Provenance() *Builder {
	b.spec.Provenance = true
	return b
}

// Parallel runs the downstream branches of a token concurrently.
func (b *Builder) Parallel() *Builder {
	b.spec.ParallelBranches = true
	return b
}

// Add creates a new pipeline actor.
// If an actor with that name already exists, it returns the existing builder.
func (b *Builder) Add(name, actorType string) *ActorBuilder {
	if ab, ok := b.index[name]; ok {
		return ab
	}
	ab := b.newActor(name, actorType)
	b.actors = append(b.actors, ab)
	return ab
}

// Standalone creates a standalone actor, set up before the pipeline and never connected.
// If an actor with that name already exists, it returns the existing builder.
func (b *Builder) Standalone(name, actorType string) *ActorBuilder {
	if ab, ok := b.index[name]; ok {
		return ab
	}
	ab := b.newActor(name, actorType)
	b.standalones = append(b.standalones, ab)
	return ab
}

func (b *Builder) newActor(name, actorType string) *ActorBuilder {
	ab := &ActorBuilder{
		spec:    domain.ActorSpec{Name: name, Type: actorType},
		builder: b,
	}
	b.index[name] = ab
	return ab
}

// Build compiles the flow definition. It reports every missing name, missing type
// and edge to an unknown actor at once. Graph checks happen when the flow is run or validated.
func (b *Builder) Build() (*domain.FlowSpec, error) {
	spec := b.spec
	spec.Actors = make([]domain.ActorSpec, 0, len(b.actors))
	spec.Standalones = nil

	var errs []error
	check := func(ab *ActorBuilder) {
		if ab.spec.Name == "" {
			errs = append(errs, errors.New("actor without name"))
		}
		if ab.spec.Type == "" {
			errs = append(errs, fmt.Errorf("actor '%s' has no type", ab.spec.Name))
		}
	}

	for _, ab := range b.standalones {
		check(ab)
		spec.Standalones = append(spec.Standalones, ab.Build())
	}

	explicit := false
	for _, ab := range b.actors {
		check(ab)
		spec.Actors = append(spec.Actors, ab.Build())
		if len(ab.next) > 0 {
			explicit = true
		}
	}

	if explicit {
		for _, ab := range b.actors {
			for _, target := range ab.next {
				if _, ok := b.index[target]; !ok {
					errs = append(errs, fmt.Errorf("edge from '%s' to unknown actor '%s'", ab.spec.Name, target))
					continue
				}
				spec.Edges = append(spec.Edges, domain.EdgeSpec{From: ab.spec.Name, To: target})
			}
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid flow '%s': %w", spec.Name, errors.Join(errs...))
	}
	return &spec, nil
}
