/*
Package actor defines the execution contract every flowbench actor obeys, and the reusable
building blocks leaf actors are assembled from.

# Lifecycle

	Configure -> SetUp -> (Input -> Execute -> Output*)* -> WrapUp

SetUp validates the configuration and resets transient state. Execute performs one activation.
Producers are drained with HasPendingOutput/Output before the next Input is accepted. WrapUp
releases per-run resources but keeps the configuration, so the same actor can run again.

When a variable used by an actor changes mid-run, the runtime takes a Backup, reconfigures and
sets the actor up again, then hands the checkpoint back with Restore.

# Building blocks

  - Single: one input, at most one output per activation.
  - Queue: one input, many outputs (optionally chunked).
  - Source: no input, many outputs.
  - Sink: one input, no output.
  - Standalone: no input, no output; runs once at flow start.
  - DBTransformer: a Single whose work function receives a lazily resolved *sql.DB.
  - External: delegates the whole protocol to an actor loaded by reference.
*/
package actor
