/*
Package ports defines the driven ports (interfaces) for the flowbench engine.

These interfaces decouple the actor runtime from external implementations, allowing
flows to work with various variable sources, storage backends and database providers.

# Key Interfaces

  - VariableProvider: Resolves "@{name}" placeholders and notifies listeners on change.
  - StorageBackend: Persists named values shared between actors of a flow.
  - ConnectionProvider: Hands out the database handle used by database-bound actors.
  - DefinitionLoader: Resolves an external actor reference into its definition.
  - ProvenanceSink: Receives the final tokens of a run together with their lineage.
  - DistributedLocker: Provides distributed locking for storage read-modify-write cycles.
*/
package ports
