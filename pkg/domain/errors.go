package domain

import "errors"

// ErrNoDatabase is returned when neither the flow nor the process provides a database connection.
var ErrNoDatabase = errors.New("No database connection available")

// ErrPendingOutput is returned when an actor receives input before its queue was drained.
var ErrPendingOutput = errors.New("pending output has not been drained")

// ErrNoInput is returned when an actor is executed without an input token.
var ErrNoInput = errors.New("no input token")

// ErrNoInnerActor is returned when a delegating actor is executed without a resolved inner actor.
var ErrNoInnerActor = errors.New("no inner actor resolved")

// ErrNotTransformer is returned when a resolved inner actor lacks the transformer capabilities.
var ErrNotTransformer = errors.New("actor does not implement the transformer protocol")

// ErrActorNotFound is returned by loaders when a referenced actor definition does not exist.
var ErrActorNotFound = errors.New("actor definition not found")

// ErrUnknownActorType is returned when no factory is registered for an actor type.
var ErrUnknownActorType = errors.New("unknown actor type")

// ErrValueNotFound is returned by storage backends when a named value does not exist.
var ErrValueNotFound = errors.New("storage value not found")

// ErrKeyNotFound is returned by lookup actors when a key has no entry.
var ErrKeyNotFound = errors.New("key not found")

// ErrFlowStopped is returned when a flow run was aborted.
var ErrFlowStopped = errors.New("flow stopped")

// ErrFlowNotFound is returned when a flow file does not exist.
var ErrFlowNotFound = errors.New("flow not found")
