package actor

import (
	"context"
	"fmt"

	"github.com/aretw0/flowbench/pkg/domain"
)

// ProduceFunc generates the items a source emits during one activation.
type ProduceFunc func(ctx context.Context) ([]any, error)

// Source emits tokens without consuming any.
type Source struct {
	Base

	generates domain.Shapes
	produce   ProduceFunc
	buf       buffer
}

// Init assigns the name, declared shape and produce function.
func (s *Source) Init(name string, generates domain.Shapes, produce ProduceFunc) {
	s.Base.Init(name)
	s.generates = generates
	s.produce = produce
}

// SetChunkSize makes Output emit slices of up to n items.
func (s *Source) SetChunkSize(n int) { s.buf.chunk = n }

// SetOutputArray makes Output emit all items as one slice.
func (s *Source) SetOutputArray(on bool) { s.buf.asArray = on }

func (s *Source) Generates() domain.Shapes { return s.generates }

func (s *Source) SetUp(env *Env) error {
	if err := s.Base.SetUp(env); err != nil {
		return err
	}
	s.Reset()
	if s.produce == nil {
		return s.Invalid(fmt.Errorf("no produce function"))
	}
	return nil
}

func (s *Source) Reset() {
	s.buf.clear()
}

// Execute fills the queue. A skipped source emits nothing.
func (s *Source) Execute(ctx context.Context) error {
	s.buf.clear()
	if s.IsStopped() || s.opts.Skip {
		return nil
	}
	items, err := recovered(func() ([]any, error) { return s.produce(ctx) })
	if err != nil {
		return s.Fail(nil, err)
	}
	s.buf.seed(items)
	return nil
}

func (s *Source) HasPendingOutput() bool {
	return s.buf.pending() && !s.IsStopped()
}

func (s *Source) Output() *domain.Token {
	if s.IsStopped() {
		s.buf.clear()
		return nil
	}
	payload, ok := s.buf.next(false)
	if !ok {
		return nil
	}
	out := domain.NewToken(payload)
	return &out
}

func (s *Source) WrapUp() {
	s.Reset()
}

func (s *Source) Backup() domain.Checkpoint {
	return domain.Checkpoint{Queue: s.buf.snapshot()}
}

func (s *Source) Restore(cp domain.Checkpoint) {
	s.buf.restore(cp.Queue)
}
