package domain

// Placeholder delimiters for variables inside actor options, e.g. "@{threshold}".
const (
	VariableStart = "@{"
	VariableEnd   = "}"

	// EnvironmentPrefix marks variables resolved from the process environment ("@{env.HOME}").
	EnvironmentPrefix = "env."
)

// FullNameSeparator joins a flow name and actor names into a full actor path.
const FullNameSeparator = "."
