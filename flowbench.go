package flowbench

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/flowbench/internal/logging"
	"github.com/aretw0/flowbench/internal/runtime"
	"github.com/aretw0/flowbench/pkg/actors"
	"github.com/aretw0/flowbench/pkg/adapters/file"
	"github.com/aretw0/flowbench/pkg/domain"
	"github.com/aretw0/flowbench/pkg/ports"
	"github.com/aretw0/flowbench/pkg/registry"
	"github.com/aretw0/flowbench/pkg/storage"
)

// ActorInfo describes one actor of a flow, as returned by Inspect.
type ActorInfo = runtime.ActorInfo

// Engine is the high-level entry point of the library.
// It wraps the internal runtime and resolves flows from a directory.
type Engine struct {
	runtime    *runtime.Engine
	registry   *registry.Registry
	dir        *file.Dir
	defs       ports.DefinitionLoader
	storage    *storage.Manager
	provenance ports.ProvenanceSink
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	output     io.Writer
	Name       string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithRegistry replaces the built-in actor types.
func WithRegistry(r *registry.Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// WithStorage shares a storage manager (memory, file or Redis backed) between runs.
func WithStorage(m *storage.Manager) Option {
	return func(e *Engine) {
		e.storage = m
	}
}

// WithDefinitionLoader overrides where External actors are resolved.
// By default they are resolved relative to the flow directory.
func WithDefinitionLoader(l ports.DefinitionLoader) Option {
	return func(e *Engine) {
		e.defs = l
	}
}

// WithProvenanceSink receives every flow output.
func WithProvenanceSink(s ports.ProvenanceSink) Option {
	return func(e *Engine) {
		e.provenance = s
	}
}

// WithOutput sets where Display actors write.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) {
		e.output = w
	}
}

// New creates an Engine reading flows from dir. An empty dir means the working directory.
func New(dir string, opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if dir == "" {
		dir = "."
	}
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	eng.dir = file.NewDir(absPath)
	eng.Name = filepath.Base(absPath)

	if eng.registry == nil {
		eng.registry = actors.NewRegistry()
	}
	if eng.defs == nil {
		eng.defs = eng.dir
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	runtimeOpts := []runtime.Option{
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
		runtime.WithDefinitionLoader(eng.defs),
	}
	if eng.storage != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithStorage(eng.storage))
	}
	if eng.provenance != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithProvenanceSink(eng.provenance))
	}
	if eng.output != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithOutput(eng.output))
	}
	eng.runtime = runtime.NewEngine(eng.registry, runtimeOpts...)
	return eng, nil
}

// Registry returns the actor types known to the engine.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// Storage returns the storage manager shared by all runs.
func (e *Engine) Storage() *storage.Manager {
	return e.runtime.Storage()
}

// Dir returns the flow directory.
func (e *Engine) Dir() *file.Dir {
	return e.dir
}

// Run executes a flow definition. vars override the flow variables.
func (e *Engine) Run(ctx context.Context, spec *domain.FlowSpec, vars map[string]string) (*domain.RunResult, error) {
	return e.runtime.Run(ctx, spec, vars)
}

// RunFile loads and executes a flow file.
func (e *Engine) RunFile(ctx context.Context, path string, vars map[string]string) (*domain.RunResult, error) {
	spec, err := file.LoadFlow(path)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, spec, vars)
}

// Flows lists the flows of the directory.
func (e *Engine) Flows() ([]string, error) {
	return e.dir.Flows()
}

// Flow loads a flow of the directory by name.
func (e *Engine) Flow(name string) (*domain.FlowSpec, error) {
	return e.dir.Flow(name)
}

// RunFlow executes a flow of the directory by name.
func (e *Engine) RunFlow(ctx context.Context, name string, vars map[string]string) (*domain.RunResult, error) {
	spec, err := e.dir.Flow(name)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, spec, vars)
}

// Validate checks a flow without activating any actor: the graph is built and every
// actor is set up and wrapped up again.
func (e *Engine) Validate(ctx context.Context, spec *domain.FlowSpec) error {
	return e.runtime.Validate(ctx, spec)
}

// ValidateFlow validates a flow of the directory by name.
func (e *Engine) ValidateFlow(ctx context.Context, name string) error {
	spec, err := e.dir.Flow(name)
	if err != nil {
		return err
	}
	return e.Validate(ctx, spec)
}

// Inspect describes every actor of a flow.
func (e *Engine) Inspect(ctx context.Context, spec *domain.FlowSpec) ([]ActorInfo, error) {
	return e.runtime.Inspect(ctx, spec)
}
