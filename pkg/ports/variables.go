package ports

// VariableProvider resolves flow variables.
type VariableProvider interface {
	// Get returns the value of a variable. Names with the "env." prefix read the process environment.
	Get(name string) (string, bool)

	// Set assigns a value and notifies subscribers when the value actually changed.
	Set(name, value string)

	// Expand replaces every "@{name}" placeholder in s. Unknown variables are left untouched.
	Expand(s string) string

	// Subscribe registers a change listener and returns a function that removes it.
	Subscribe(fn func(name string)) (unsubscribe func())
}
