package runtime

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/aretw0/flowbench/internal/logging"
	"github.com/aretw0/flowbench/pkg/actor"
	"github.com/aretw0/flowbench/pkg/adapters/memory"
	"github.com/aretw0/flowbench/pkg/domain"
	"github.com/aretw0/flowbench/pkg/ports"
	"github.com/aretw0/flowbench/pkg/registry"
	"github.com/aretw0/flowbench/pkg/storage"
	"github.com/aretw0/flowbench/pkg/variables"
	"github.com/google/uuid"
)

// Engine runs flows built from a registry of actor types.
// It holds no per-run state and can run several flows concurrently.
type Engine struct {
	registry   *registry.Registry
	storage    *storage.Manager
	defs       ports.DefinitionLoader
	provenance ports.ProvenanceSink
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	output     io.Writer
	now        func() time.Time
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithStorage shares a storage manager between runs. Defaults to an in-memory one.
func WithStorage(m *storage.Manager) Option {
	return func(e *Engine) {
		e.storage = m
	}
}

// WithDefinitionLoader enables External actors to resolve their references.
func WithDefinitionLoader(defs ports.DefinitionLoader) Option {
	return func(e *Engine) {
		e.defs = defs
	}
}

// WithProvenanceSink receives every token emitted by a leaf actor.
func WithProvenanceSink(sink ports.ProvenanceSink) Option {
	return func(e *Engine) {
		e.provenance = sink
	}
}

// WithOutput sets where display actors write. Defaults to os.Stdout.
// Writes are serialized by the engine, so w needs no locking of its own.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) {
		e.output = w
	}
}

// WithClock overrides time.Now for provenance stamps and events.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an engine that builds actors from reg.
func NewEngine(reg *registry.Registry, opts ...Option) *Engine {
	e := &Engine{
		registry: reg,
		logger:   logging.NewNop(),
		output:   os.Stdout,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.storage == nil {
		e.storage = storage.NewManager(memory.NewStorage(), storage.WithLogger(e.logger))
	}
	if e.output != nil {
		e.output = &syncWriter{w: e.output}
	}
	return e
}

// syncWriter serializes writes from parallel branches and concurrent runs.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// Storage returns the storage manager shared by runs.
func (e *Engine) Storage() *storage.Manager {
	return e.storage
}

// prepare builds the graph and the environment of one run.
func (e *Engine) prepare(spec *domain.FlowSpec, vars map[string]string) (*run, error) {
	runID := uuid.NewString()
	store := variables.New(spec.Variables)
	for k, v := range vars {
		store.Set(k, v)
	}

	g, err := buildGraph(spec, e.registry, store)
	if err != nil {
		return nil, err
	}

	logger := e.logger.With("flow", spec.Name, "run", runID)
	env := &actor.Env{
		Flow:      spec.Name,
		RunID:     runID,
		Logger:    logger,
		Variables: store,
		Storage:   e.storage,
		Output:    e.output,
	}
	if e.defs != nil {
		env.Loader = registry.NewLoader(e.defs, e.registry, store)
	}

	return &run{
		engine: e,
		graph:  g,
		env:    env,
		vars:   store,
		logger: logger,
		policy: spec.Policy(),
		result: &domain.RunResult{RunID: runID, Flow: spec.Name},
	}, nil
}

// Run executes the flow once. vars override the flow's own variables.
//
// A configuration error, a stop requested by the error policy or a canceled context
// is returned as error; the result is returned in every case once the flow was built.
func (e *Engine) Run(ctx context.Context, spec *domain.FlowSpec, vars map[string]string) (*domain.RunResult, error) {
	r, err := e.prepare(spec, vars)
	if err != nil {
		return nil, err
	}
	err = r.execute(ctx)
	return r.result, err
}

// Validate builds the flow and sets every actor up and down again, without activating anything.
func (e *Engine) Validate(ctx context.Context, spec *domain.FlowSpec) error {
	r, err := e.prepare(spec, nil)
	if err != nil {
		return err
	}
	defer r.wrapUp(ctx)
	return r.setUp(ctx)
}

// ActorInfo describes one actor of a flow, as reported by Inspect.
type ActorInfo struct {
	Name      string
	FullName  string
	Type      string
	Kind      string
	Accepts   domain.Shapes
	Generates domain.Shapes
	Variables []string
	Skip      bool
	Next      []string
}

// Kinds reported by Inspect.
const (
	KindSource      = "source"
	KindTransformer = "transformer"
	KindSink        = "sink"
	KindStandalone  = "standalone"
)

// Inspect describes every actor of the flow: standalones first, then in topological order.
func (e *Engine) Inspect(ctx context.Context, spec *domain.FlowSpec) ([]ActorInfo, error) {
	r, err := e.prepare(spec, nil)
	if err != nil {
		return nil, err
	}
	defer r.wrapUp(ctx)
	if err := r.setUp(ctx); err != nil {
		return nil, err
	}

	var infos []ActorInfo
	for _, n := range r.graph.all() {
		info := ActorInfo{
			Name:      n.name(),
			FullName:  n.actor.FullName(),
			Type:      n.spec.Type,
			Variables: n.vars,
			Skip:      n.spec.Skip,
		}
		switch {
		case n.in != nil && n.out != nil:
			info.Kind = KindTransformer
		case n.out != nil:
			info.Kind = KindSource
		case n.in != nil:
			info.Kind = KindSink
		default:
			info.Kind = KindStandalone
		}
		if n.in != nil {
			info.Accepts = n.in.Accepts()
		}
		if n.out != nil {
			info.Generates = n.out.Generates()
		}
		for _, m := range n.next {
			info.Next = append(info.Next, m.name())
		}
		infos = append(infos, info)
	}
	return infos, nil
}
