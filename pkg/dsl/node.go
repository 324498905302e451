package dsl

import (
	"maps"

	"github.com/aretw0/flowbench/pkg/domain"
)

// ActorBuilder provides a fluent API for configuring an actor.
type ActorBuilder struct {
	spec    domain.ActorSpec
	next    []string
	builder *Builder
}

// With sets one option. Values may reference variables as "@{name}".
func (a *ActorBuilder) With(key string, value any) *ActorBuilder {
	if a.spec.Options == nil {
		a.spec.Options = make(map[string]any)
	}
	a.spec.Options[key] = value
	return a
}

// Options merges several options at once.
func (a *ActorBuilder) Options(opts map[string]any) *ActorBuilder {
	if a.spec.Options == nil {
		a.spec.Options = make(map[string]any, len(opts))
	}
	maps.Copy(a.spec.Options, opts)
	return a
}

// Skip turns the actor into a pass-through.
func (a *ActorBuilder) Skip() *ActorBuilder {
	a.spec.Skip = true
	return a
}

// StopFlowOnError makes an activation error of this actor abort the flow.
func (a *ActorBuilder) StopFlowOnError() *ActorBuilder {
	a.spec.StopFlowOnError = true
	return a
}

// Silent suppresses the error log of this actor.
func (a *ActorBuilder) Silent() *ActorBuilder {
	a.spec.Silent = true
	return a
}

// To connects the output of this actor to the given actors.
func (a *ActorBuilder) To(targets ...string) *ActorBuilder {
	a.next = append(a.next, targets...)
	return a
}

// Flow returns the flow builder, to continue the chain.
func (a *ActorBuilder) Flow() *Builder {
	return a.builder
}

// Build returns a copy of the underlying domain.ActorSpec.
// This is primarily used by the Builder, but exposed for advanced usage.
func (a *ActorBuilder) Build() domain.ActorSpec {
	spec := a.spec
	if a.spec.Options != nil {
		spec.Options = maps.Clone(a.spec.Options)
	}
	return spec
}
