// Package runtime executes flows: it builds the actor graph from a FlowSpec, validates it,
// and drives every actor through its lifecycle.
//
// Execution is cooperative and depth-first. A token emitted by an actor is pushed all the way
// down its successors before the actor is asked for the next one. Before each activation and
// each drain step the runtime checks for cancellation and reconfigures actors whose variables
// changed.
package runtime
