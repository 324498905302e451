// Package middleware wraps storage backends to add behavior, such as encryption at rest.
package middleware

import "github.com/aretw0/flowbench/pkg/ports"

// Middleware allows wrapping a StorageBackend to add behavior.
type Middleware func(ports.StorageBackend) ports.StorageBackend

// Chain applies the middlewares so that the first one is the outermost.
func Chain(backend ports.StorageBackend, mws ...Middleware) ports.StorageBackend {
	for i := len(mws) - 1; i >= 0; i-- {
		backend = mws[i](backend)
	}
	return backend
}
