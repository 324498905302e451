package actor

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/flowbench/pkg/domain"
	"github.com/aretw0/flowbench/pkg/ports"
	"github.com/aretw0/flowbench/pkg/storage"
)

// Env is the per-flow collaborator bundle handed to every actor at SetUp.
// Fields may be nil; actors that need one fail their SetUp when it is missing.
type Env struct {
	Flow   string
	RunID  string
	Logger *slog.Logger

	Variables   ports.VariableProvider
	Storage     *storage.Manager
	Connections ports.ConnectionProvider
	Loader      Loader

	// Output is where display sinks write. Defaults to os.Stdout in the runtime.
	Output io.Writer
}

// Loader resolves external actor references into ready-to-configure actors.
type Loader interface {
	LoadActor(ref string) (Actor, error)
}

// Options are the flags every actor carries regardless of its type.
type Options struct {
	// Skip turns the actor into a pass-through.
	Skip bool
	// StopFlowOnError asks the runtime to abort the flow when an activation fails.
	StopFlowOnError bool
	// Silent suppresses the error log line for failed activations.
	Silent bool
}

// Actor is the lifecycle every node of a flow implements.
type Actor interface {
	Name() string
	FullName() string
	SetParent(path string)

	Options() Options
	SetOptions(Options)

	// Configure decodes the (already variable-expanded) options of the actor.
	Configure(opts map[string]any) error

	SetUp(env *Env) error
	Reset()
	Execute(ctx context.Context) error
	WrapUp()

	StopExecution(reason string)
	IsStopped() bool
}

// InputConsumer is implemented by actors that accept tokens.
type InputConsumer interface {
	Accepts() domain.Shapes
	Input(domain.Token) error
}

// OutputProducer is implemented by actors that emit tokens.
type OutputProducer interface {
	Generates() domain.Shapes
	HasPendingOutput() bool
	// Output returns the next token, or nil when nothing is pending.
	Output() *domain.Token
}

// Checkpointer is implemented by actors whose transient state survives a reconfiguration.
type Checkpointer interface {
	Backup() domain.Checkpoint
	Restore(domain.Checkpoint)
}

// DatabaseBound is implemented by actors that need a database handle.
type DatabaseBound interface {
	ResolveConnection(ctx context.Context) error
}

// Transformer consumes and produces tokens.
type Transformer interface {
	Actor
	InputConsumer
	OutputProducer
}

// SourceActor produces tokens without input.
type SourceActor interface {
	Actor
	OutputProducer
}

// SinkActor consumes tokens without producing any.
type SinkActor interface {
	Actor
	InputConsumer
}

// IsStandalone reports whether a neither consumes nor produces tokens.
func IsStandalone(a Actor) bool {
	_, in := a.(InputConsumer)
	_, out := a.(OutputProducer)
	return !in && !out
}
