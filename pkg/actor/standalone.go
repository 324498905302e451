package actor

import (
	"context"
	"fmt"
)

// RunFunc is the body of a standalone actor.
type RunFunc func(ctx context.Context) error

// Standalone has neither input nor output. The runtime executes it once, before the pipeline.
type Standalone struct {
	Base
	run RunFunc
}

// Init assigns the name and body.
func (s *Standalone) Init(name string, run RunFunc) {
	s.Base.Init(name)
	s.run = run
}

func (s *Standalone) SetUp(env *Env) error {
	if err := s.Base.SetUp(env); err != nil {
		return err
	}
	if s.run == nil {
		return s.Invalid(fmt.Errorf("no run function"))
	}
	return nil
}

func (s *Standalone) Reset() {}

func (s *Standalone) Execute(ctx context.Context) error {
	if s.IsStopped() || s.opts.Skip {
		return nil
	}
	_, err := recovered(func() (struct{}, error) { return struct{}{}, s.run(ctx) })
	if err != nil {
		return s.Fail(nil, err)
	}
	return nil
}

func (s *Standalone) WrapUp() {}
