package domain

// ErrorPolicy decides whether an activation error aborts the flow.
type ErrorPolicy string

const (
	// ActorsDecide lets each actor's StopFlowOnError option decide.
	ActorsDecide ErrorPolicy = "actors-decide"
	// AlwaysStop aborts the flow on the first activation error.
	AlwaysStop ErrorPolicy = "always-stop"
)

// ShouldStop applies the policy to an actor's own preference.
func (p ErrorPolicy) ShouldStop(stopFlowOnError bool) bool {
	if p == AlwaysStop {
		return true
	}
	return stopFlowOnError
}

// FlowSpec is the declarative description of a flow, as read from a flow file.
type FlowSpec struct {
	Name             string            `yaml:"name" json:"name" mapstructure:"name"`
	Description      string            `yaml:"description,omitempty" json:"description,omitempty" mapstructure:"description"`
	ErrorPolicy      ErrorPolicy       `yaml:"error_policy,omitempty" json:"error_policy,omitempty" mapstructure:"error_policy"`
	Provenance       bool              `yaml:"provenance,omitempty" json:"provenance,omitempty" mapstructure:"provenance"`
	ParallelBranches bool              `yaml:"parallel_branches,omitempty" json:"parallel_branches,omitempty" mapstructure:"parallel_branches"`
	Variables        map[string]string `yaml:"variables,omitempty" json:"variables,omitempty" mapstructure:"variables"`
	Standalones      []ActorSpec       `yaml:"standalones,omitempty" json:"standalones,omitempty" mapstructure:"standalones"`
	Actors           []ActorSpec       `yaml:"actors" json:"actors" mapstructure:"actors"`

	// Edges connect actors by name. When empty the actors form a linear chain in declaration order.
	Edges []EdgeSpec `yaml:"edges,omitempty" json:"edges,omitempty" mapstructure:"edges"`
}

// Policy returns the effective error policy.
func (f *FlowSpec) Policy() ErrorPolicy {
	if f.ErrorPolicy == "" {
		return ActorsDecide
	}
	return f.ErrorPolicy
}

// ActorSpec describes one actor of a flow.
type ActorSpec struct {
	Name            string         `yaml:"name" json:"name" mapstructure:"name"`
	Type            string         `yaml:"type" json:"type" mapstructure:"type"`
	Skip            bool           `yaml:"skip,omitempty" json:"skip,omitempty" mapstructure:"skip"`
	StopFlowOnError bool           `yaml:"stop_flow_on_error,omitempty" json:"stop_flow_on_error,omitempty" mapstructure:"stop_flow_on_error"`
	Silent          bool           `yaml:"silent,omitempty" json:"silent,omitempty" mapstructure:"silent"`
	Options         map[string]any `yaml:"options,omitempty" json:"options,omitempty" mapstructure:"options"`
}

// EdgeSpec connects the output of From to the input of To.
type EdgeSpec struct {
	From string `yaml:"from" json:"from" mapstructure:"from"`
	To   string `yaml:"to" json:"to" mapstructure:"to"`
}
