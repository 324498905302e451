package domain

import "errors"

// RunResult is the outcome of one flow run.
type RunResult struct {
	RunID string `json:"run_id"`
	Flow  string `json:"flow"`

	// Outputs are the tokens emitted by the leaf actors, in emission order.
	Outputs []Token `json:"outputs"`

	// Errors are the activation errors that did not abort the flow.
	Errors []error `json:"-"`

	Stopped     bool   `json:"stopped"`
	StopMessage string `json:"stop_message,omitempty"`
	Activations int    `json:"activations"`
}

// Err joins the collected non-fatal errors, or returns nil.
func (r *RunResult) Err() error {
	if r == nil {
		return nil
	}
	return errors.Join(r.Errors...)
}

// Payloads returns the payloads of the outputs.
func (r *RunResult) Payloads() []any {
	out := make([]any, len(r.Outputs))
	for i, t := range r.Outputs {
		out[i] = t.Payload
	}
	return out
}

// ErrorMessages renders the non-fatal errors as strings, for JSON responses.
func (r *RunResult) ErrorMessages() []string {
	msgs := make([]string, len(r.Errors))
	for i, err := range r.Errors {
		msgs[i] = err.Error()
	}
	return msgs
}
