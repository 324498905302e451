package actors

import (
	"context"

	"github.com/aretw0/flowbench/pkg/actor"
	"github.com/aretw0/flowbench/pkg/domain"
)

// StringConstantsConfig configures StringConstants.
type StringConstantsConfig struct {
	Strings     []string `mapstructure:"strings"`
	OutputArray bool     `mapstructure:"output_array"`
}

// StringConstants emits a fixed list of strings.
type StringConstants struct {
	actor.Source
	cfg StringConstantsConfig
}

func NewStringConstants(name string) *StringConstants {
	s := &StringConstants{}
	s.Init(name, domain.Of(domain.ShapeString), s.produce)
	return s
}

func (s *StringConstants) Configure(opts map[string]any) error {
	s.cfg = StringConstantsConfig{}
	return actor.DecodeOptions(opts, &s.cfg)
}

func (s *StringConstants) SetUp(env *actor.Env) error {
	if err := s.Source.SetUp(env); err != nil {
		return err
	}
	s.SetOutputArray(s.cfg.OutputArray)
	return nil
}

func (s *StringConstants) Generates() domain.Shapes {
	if s.cfg.OutputArray {
		return domain.Of(domain.ShapeArray)
	}
	return domain.Of(domain.ShapeString)
}

func (s *StringConstants) produce(ctx context.Context) ([]any, error) {
	items := make([]any, len(s.cfg.Strings))
	for i, v := range s.cfg.Strings {
		items[i] = v
	}
	return items, nil
}

// ForLoopConfig configures ForLoop.
type ForLoopConfig struct {
	Start int `mapstructure:"start"`
	End   int `mapstructure:"end"`
	Step  int `mapstructure:"step"`
}

// ForLoop emits the integers from Start to End (inclusive) by Step.
type ForLoop struct {
	actor.Source
	cfg ForLoopConfig
}

func NewForLoop(name string) *ForLoop {
	f := &ForLoop{cfg: ForLoopConfig{Start: 1, End: 10, Step: 1}}
	f.Init(name, domain.Of(domain.ShapeInt), f.produce)
	return f
}

func (f *ForLoop) Configure(opts map[string]any) error {
	f.cfg = ForLoopConfig{Start: 1, End: 10, Step: 1}
	return actor.DecodeOptions(opts, &f.cfg)
}

func (f *ForLoop) SetUp(env *actor.Env) error {
	if err := f.Source.SetUp(env); err != nil {
		return err
	}
	if f.cfg.Step == 0 {
		return f.Invalidf("step must not be zero")
	}
	if (f.cfg.Step > 0 && f.cfg.Start > f.cfg.End) || (f.cfg.Step < 0 && f.cfg.Start < f.cfg.End) {
		return f.Invalidf("step %d never reaches %d from %d", f.cfg.Step, f.cfg.End, f.cfg.Start)
	}
	return nil
}

func (f *ForLoop) produce(ctx context.Context) ([]any, error) {
	start, end, step := f.cfg.Start, f.cfg.End, f.cfg.Step
	// Distances are computed unsigned so ranges near the int limits cannot wrap around.
	stride := uint64(step)
	if step < 0 {
		stride = -uint64(step)
	}

	var items []any
	for i := start; ; i += step {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		items = append(items, i)

		remaining := uint64(end) - uint64(i)
		if step < 0 {
			remaining = uint64(i) - uint64(end)
		}
		if remaining < stride {
			break
		}
	}
	return items, nil
}
