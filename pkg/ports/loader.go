package ports

import "github.com/aretw0/flowbench/pkg/domain"

// DefinitionLoader resolves an external actor reference (a file path or a name)
// into the definition of the actor it points to.
type DefinitionLoader interface {
	// LoadDefinition returns domain.ErrActorNotFound if ref does not exist.
	LoadDefinition(ref string) (*domain.ActorSpec, error)
}
