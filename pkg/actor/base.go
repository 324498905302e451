package actor

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/aretw0/flowbench/internal/logging"
	"github.com/aretw0/flowbench/pkg/domain"
)

// Base carries the identity, flags and stop state shared by all actors.
// It is meant to be embedded; call Init before use.
type Base struct {
	name     string
	fullName string
	opts     Options

	env    *Env
	logger *slog.Logger

	stopped atomic.Bool
	stopMu  sync.Mutex
	stopMsg string
}

// Init assigns the actor name.
func (b *Base) Init(name string) {
	b.name = name
	b.fullName = name
}

func (b *Base) Name() string     { return b.name }
func (b *Base) FullName() string { return b.fullName }

// SetParent nests the actor under path (a flow name or an enclosing actor).
func (b *Base) SetParent(path string) {
	if path == "" {
		b.fullName = b.name
		return
	}
	b.fullName = path + domain.FullNameSeparator + b.name
}

func (b *Base) Options() Options     { return b.opts }
func (b *Base) SetOptions(o Options) { b.opts = o }

// Configure rejects any option; actors with options override it.
func (b *Base) Configure(opts map[string]any) error {
	return DecodeOptions(opts, &struct{}{})
}

// SetUp stores the environment and clears the stop state.
func (b *Base) SetUp(env *Env) error {
	b.env = env
	b.logger = logging.NewNop()
	if env != nil && env.Logger != nil {
		b.logger = env.Logger.With("actor", b.fullName)
	}
	b.stopped.Store(false)
	b.stopMu.Lock()
	b.stopMsg = ""
	b.stopMu.Unlock()
	return nil
}

// Env returns the environment received at SetUp, never nil.
func (b *Base) Env() *Env {
	if b.env == nil {
		return &Env{}
	}
	return b.env
}

// Logger returns the actor logger.
func (b *Base) Logger() *slog.Logger {
	if b.logger == nil {
		return logging.NewNop()
	}
	return b.logger
}

// StopExecution flags the actor as stopped. It is safe to call from any goroutine.
func (b *Base) StopExecution(reason string) {
	b.stopMu.Lock()
	if b.stopMsg == "" {
		b.stopMsg = reason
	}
	b.stopMu.Unlock()
	b.stopped.Store(true)
}

func (b *Base) IsStopped() bool { return b.stopped.Load() }

// StopMessage returns the reason given to the first StopExecution call.
func (b *Base) StopMessage() string {
	b.stopMu.Lock()
	defer b.stopMu.Unlock()
	return b.stopMsg
}

// Fail wraps err into an activation error of this actor.
func (b *Base) Fail(input *domain.Token, err error) error {
	return &ActorError{Kind: KindActivation, Actor: b.fullName, Input: input, Err: err}
}

// Invalid wraps err into a set-up error of this actor.
func (b *Base) Invalid(err error) error {
	return &ActorError{Kind: KindSetUp, Actor: b.fullName, Err: err}
}

// Invalidf is Invalid with formatting.
func (b *Base) Invalidf(format string, args ...any) error {
	return b.Invalid(fmt.Errorf(format, args...))
}
