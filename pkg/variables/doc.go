// Package variables implements the in-memory VariableProvider used by flows.
//
// Option values reference variables with "@{name}" placeholders. Names starting with "env."
// are read from the process environment. Listeners registered with Subscribe are told about
// every effective change, which is how the runtime learns that an actor must be reconfigured.
package variables
