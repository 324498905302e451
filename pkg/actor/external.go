package actor

import (
	"context"
	"fmt"

	"github.com/aretw0/flowbench/pkg/domain"
)

// ExternalConfig is the configuration of External.
type ExternalConfig struct {
	// Ref identifies the actor definition to load (a file path or a name).
	Ref string `mapstructure:"ref"`
}

// External delegates the transformer protocol to an actor loaded by reference.
// Without a resolved inner actor it accepts and generates anything, sets up fine,
// and fails every activation.
type External struct {
	Base

	cfg   ExternalConfig
	inner Transformer
	fixed Transformer
}

// NewExternal creates an unconfigured delegation wrapper.
func NewExternal(name string) *External {
	e := &External{}
	e.Init(name)
	return e
}

// Configure decodes ExternalConfig.
func (e *External) Configure(opts map[string]any) error {
	e.cfg = ExternalConfig{}
	return DecodeOptions(opts, &e.cfg)
}

// SetInner uses a instead of loading the reference. Mostly useful for embedding and tests.
func (e *External) SetInner(a Transformer) {
	e.fixed = a
}

// Inner returns the resolved inner actor, or nil.
func (e *External) Inner() Transformer {
	return e.inner
}

func (e *External) SetParent(path string) {
	e.Base.SetParent(path)
	if e.inner != nil {
		e.inner.SetParent(e.FullName())
	}
}

// SetUp resolves and sets up the inner actor.
func (e *External) SetUp(env *Env) error {
	if err := e.Base.SetUp(env); err != nil {
		return err
	}
	// A refresh replaces the inner actor; the previous one is wrapped up first.
	if e.inner != nil {
		e.inner.WrapUp()
		e.inner = nil
	}

	candidate, err := e.resolve()
	if err != nil {
		return e.Invalid(err)
	}
	if candidate == nil {
		return nil
	}

	inner, ok := candidate.(Transformer)
	if !ok {
		return e.Invalidf("%w: %q resolved to %T", domain.ErrNotTransformer, e.cfg.Ref, candidate)
	}

	innerOpts := inner.Options()
	innerOpts.Skip = innerOpts.Skip || e.opts.Skip
	inner.SetOptions(innerOpts)
	inner.SetParent(e.FullName())
	if err := inner.SetUp(env); err != nil {
		return err
	}
	e.inner = inner
	return nil
}

func (e *External) resolve() (Actor, error) {
	if e.fixed != nil {
		return e.fixed, nil
	}
	if e.cfg.Ref == "" {
		return nil, nil
	}
	loader := e.Env().Loader
	if loader == nil {
		return nil, fmt.Errorf("cannot resolve %q: no actor loader configured", e.cfg.Ref)
	}
	a, err := loader.LoadActor(e.cfg.Ref)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve %q: %w", e.cfg.Ref, err)
	}
	return a, nil
}

func (e *External) Accepts() domain.Shapes {
	if e.inner == nil {
		return domain.Any()
	}
	return e.inner.Accepts()
}

func (e *External) Generates() domain.Shapes {
	if e.inner == nil {
		return domain.Any()
	}
	return e.inner.Generates()
}

func (e *External) Input(t domain.Token) error {
	if e.inner == nil {
		return e.Fail(&t, domain.ErrNoInnerActor)
	}
	return e.inner.Input(t)
}

func (e *External) Execute(ctx context.Context) error {
	if e.inner == nil {
		return e.Fail(nil, domain.ErrNoInnerActor)
	}
	if e.IsStopped() {
		return nil
	}
	return e.inner.Execute(ctx)
}

func (e *External) HasPendingOutput() bool {
	return e.inner != nil && e.inner.HasPendingOutput()
}

func (e *External) Output() *domain.Token {
	if e.inner == nil {
		return nil
	}
	return e.inner.Output()
}

func (e *External) Reset() {
	if e.inner != nil {
		e.inner.Reset()
	}
}

func (e *External) Backup() domain.Checkpoint {
	if cp, ok := e.inner.(Checkpointer); ok {
		return cp.Backup()
	}
	return domain.Checkpoint{}
}

func (e *External) Restore(c domain.Checkpoint) {
	if cp, ok := e.inner.(Checkpointer); ok {
		cp.Restore(c)
	}
}

// StopExecution stops the wrapper and the inner actor.
func (e *External) StopExecution(reason string) {
	e.Base.StopExecution(reason)
	if e.inner != nil {
		e.inner.StopExecution(reason)
	}
}

// WrapUp wraps up and drops the inner actor.
func (e *External) WrapUp() {
	if e.inner != nil {
		e.inner.WrapUp()
	}
	e.inner = nil
}
