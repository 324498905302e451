/*
Package domain contains the core domain models of the flowbench engine.

It defines the values that travel between actors and the records the engine keeps about a
run. The package is kept pure and free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - Token: the envelope passed between actors (payload plus provenance chain).
  - Shape: the closed set of payload shapes an actor accepts or generates.
  - Checkpoint: the typed snapshot of an actor's transient state, taken around a reconfiguration.
  - FlowSpec / ActorSpec: the declarative description of a flow.
  - RunResult: the outcome of a flow run.
  - LifecycleHooks: callbacks for observability.
*/
package domain
