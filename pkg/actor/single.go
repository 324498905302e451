package actor

import (
	"context"
	"fmt"

	"github.com/aretw0/flowbench/pkg/domain"
)

// WorkFunc computes the output payload of one activation. A nil payload means no output.
type WorkFunc func(ctx context.Context, in domain.Token) (any, error)

// Single is a transformer that emits at most one token per input.
type Single struct {
	Base

	accepts   domain.Shapes
	generates domain.Shapes
	work      WorkFunc

	input  *domain.Token
	output *domain.Token
}

// Init assigns the name, declared shapes and work function.
func (s *Single) Init(name string, accepts, generates domain.Shapes, work WorkFunc) {
	s.Base.Init(name)
	s.accepts = accepts
	s.generates = generates
	s.work = work
}

func (s *Single) Accepts() domain.Shapes   { return s.accepts }
func (s *Single) Generates() domain.Shapes { return s.generates }

// SetUp stores the environment and clears transient state.
func (s *Single) SetUp(env *Env) error {
	if err := s.Base.SetUp(env); err != nil {
		return err
	}
	s.Reset()
	if s.work == nil {
		return s.Invalid(fmt.Errorf("no work function"))
	}
	return nil
}

// Reset clears input and output.
func (s *Single) Reset() {
	s.input = nil
	s.output = nil
}

// Input stores the token for the next activation, discarding any undelivered output.
func (s *Single) Input(t domain.Token) error {
	s.output = nil
	if !s.accepts.Accepts(t.Payload) {
		return s.Fail(&t, fmt.Errorf("payload of shape %s not accepted (accepts %s)", domain.ShapeOf(t.Payload), s.accepts))
	}
	s.input = &t
	return nil
}

// Execute runs the work function on the current input.
func (s *Single) Execute(ctx context.Context) error {
	s.output = nil
	if s.IsStopped() {
		return nil
	}
	if s.input == nil {
		return s.Fail(nil, domain.ErrNoInput)
	}
	in := *s.input

	if s.opts.Skip {
		s.output = &in
		return nil
	}

	payload, err := recovered(func() (any, error) { return s.work(ctx, in) })
	if err != nil {
		return s.Fail(&in, err)
	}
	if payload != nil {
		out := in.Derive(payload)
		s.output = &out
	}
	return nil
}

func (s *Single) HasPendingOutput() bool {
	return s.output != nil && !s.IsStopped()
}

// Output returns the pending token once; further calls return nil until the next Input.
func (s *Single) Output() *domain.Token {
	out := s.output
	s.output = nil
	if s.IsStopped() {
		return nil
	}
	return out
}

// CurrentInput returns the token being processed, for work functions that need it.
func (s *Single) CurrentInput() *domain.Token {
	return s.input
}

// WrapUp drops the tokens.
func (s *Single) WrapUp() {
	s.Reset()
}

func (s *Single) Backup() domain.Checkpoint {
	return domain.Checkpoint{Input: copyToken(s.input), Output: copyToken(s.output)}
}

func (s *Single) Restore(cp domain.Checkpoint) {
	if cp.Input != nil {
		s.input = copyToken(cp.Input)
	}
	if cp.Output != nil {
		s.output = copyToken(cp.Output)
	}
}

func copyToken(t *domain.Token) *domain.Token {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
