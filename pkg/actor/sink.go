package actor

import (
	"context"
	"fmt"

	"github.com/aretw0/flowbench/pkg/domain"
)

// ConsumeFunc handles one token that leaves the flow.
type ConsumeFunc func(ctx context.Context, in domain.Token) error

// Sink consumes tokens without emitting any.
type Sink struct {
	Base

	accepts domain.Shapes
	consume ConsumeFunc
	input   *domain.Token
}

// Init assigns the name, accepted shapes and consume function.
func (s *Sink) Init(name string, accepts domain.Shapes, consume ConsumeFunc) {
	s.Base.Init(name)
	s.accepts = accepts
	s.consume = consume
}

func (s *Sink) Accepts() domain.Shapes { return s.accepts }

func (s *Sink) SetUp(env *Env) error {
	if err := s.Base.SetUp(env); err != nil {
		return err
	}
	s.Reset()
	if s.consume == nil {
		return s.Invalid(fmt.Errorf("no consume function"))
	}
	return nil
}

func (s *Sink) Reset() {
	s.input = nil
}

func (s *Sink) Input(t domain.Token) error {
	if !s.accepts.Accepts(t.Payload) {
		return s.Fail(&t, fmt.Errorf("payload of shape %s not accepted (accepts %s)", domain.ShapeOf(t.Payload), s.accepts))
	}
	s.input = &t
	return nil
}

// Execute consumes the current input. Skipped or stopped sinks drop it.
func (s *Sink) Execute(ctx context.Context) error {
	if s.IsStopped() {
		s.input = nil
		return nil
	}
	if s.input == nil {
		return s.Fail(nil, domain.ErrNoInput)
	}
	in := *s.input
	s.input = nil
	if s.opts.Skip {
		return nil
	}
	_, err := recovered(func() (struct{}, error) { return struct{}{}, s.consume(ctx, in) })
	if err != nil {
		return s.Fail(&in, err)
	}
	return nil
}

func (s *Sink) WrapUp() {
	s.Reset()
}

func (s *Sink) Backup() domain.Checkpoint {
	return domain.Checkpoint{Input: copyToken(s.input)}
}

func (s *Sink) Restore(cp domain.Checkpoint) {
	if cp.Input != nil {
		s.input = copyToken(cp.Input)
	}
}
