package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/flowbench/pkg/actor"
	"github.com/aretw0/flowbench/pkg/domain"
	"github.com/aretw0/flowbench/pkg/ports"
	"github.com/aretw0/flowbench/pkg/variables"
	"golang.org/x/sync/errgroup"
)

// run is the state of one flow execution.
type run struct {
	engine *Engine
	graph  *graph
	env    *actor.Env
	vars   *variables.Store
	logger *slog.Logger
	policy domain.ErrorPolicy

	setUpDone []*node

	mu      sync.Mutex
	result  *domain.RunResult
	stopped bool
}

func (r *run) event(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: r.engine.now(), Type: t, RunID: r.env.RunID, Flow: r.env.Flow}
}

func (r *run) actorEvent(t domain.EventType, n *node, err error) *domain.ActorEvent {
	return &domain.ActorEvent{EventBase: r.event(t), Actor: n.actor.FullName(), ActorType: n.spec.Type, Err: err}
}

// setUp sets standalones up first, then the pipeline in topological order.
// The first standalone that provides connections becomes the flow's designated provider.
func (r *run) setUp(ctx context.Context) error {
	hooks := r.engine.hooks
	for _, n := range r.graph.all() {
		if err := n.actor.SetUp(r.env); err != nil {
			err = asSetUpError(n, err)
			if hooks.OnError != nil {
				hooks.OnError(ctx, r.actorEvent(domain.EventError, n, err))
			}
			return err
		}
		r.setUpDone = append(r.setUpDone, n)
		if hooks.OnSetUp != nil {
			hooks.OnSetUp(ctx, r.actorEvent(domain.EventSetUp, n, nil))
		}

		if p, ok := n.actor.(ports.ConnectionProvider); ok && r.env.Connections == nil {
			r.env.Connections = p
		}
	}
	return r.checkShapes()
}

func (r *run) checkShapes() error {
	p := &problems{flow: r.graph.spec.Name}
	for _, e := range r.graph.edges {
		gen, acc := e[0].out.Generates(), e[1].in.Accepts()
		if !gen.CompatibleWith(acc) {
			p.addf("'%s' generates %s but '%s' accepts %s", e[0].name(), gen, e[1].name(), acc)
		}
	}
	return p.err()
}

func asSetUpError(n *node, err error) error {
	var ae *actor.ActorError
	if errors.As(err, &ae) {
		return err
	}
	return &actor.ActorError{Kind: actor.KindSetUp, Actor: n.actor.FullName(), Err: err}
}

// wrapUp releases the actors in reverse set-up order, so standalones go last.
func (r *run) wrapUp(ctx context.Context) {
	for i := len(r.setUpDone) - 1; i >= 0; i-- {
		n := r.setUpDone[i]
		n.actor.WrapUp()
		if r.engine.hooks.OnWrapUp != nil {
			r.engine.hooks.OnWrapUp(ctx, r.actorEvent(domain.EventWrapUp, n, nil))
		}
	}
	r.setUpDone = nil
}

func (r *run) execute(ctx context.Context) error {
	start := r.engine.now()
	r.logger.Info("Flow started", "actors", len(r.graph.nodes), "standalones", len(r.graph.standalones))

	defer r.wrapUp(ctx)
	if err := r.setUp(ctx); err != nil {
		r.logger.Error("Flow set-up failed", "err", err)
		return err
	}

	unsubscribe := r.vars.Subscribe(r.variableChanged)
	defer unsubscribe()

	err := r.pipeline(ctx)

	r.logger.Info("Flow finished",
		"activations", r.result.Activations,
		"outputs", len(r.result.Outputs),
		"errors", len(r.result.Errors),
		"stopped", r.result.Stopped,
		"duration", r.engine.now().Sub(start),
	)
	return err
}

func (r *run) pipeline(ctx context.Context) error {
	for _, n := range r.graph.standalones {
		if err := r.fire(ctx, n, nil); err != nil {
			return err
		}
	}
	for _, root := range r.graph.roots {
		if err := r.fire(ctx, root, nil); err != nil {
			return err
		}
	}
	return nil
}

// variableChanged marks every actor that references name for reconfiguration.
func (r *run) variableChanged(name string) {
	for _, n := range r.graph.nodes {
		if n.uses(name) {
			n.dirty.Store(true)
		}
	}
}

// suspend is checked before every activation and every drain step.
func (r *run) suspend(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		r.stop(fmt.Sprintf("context: %v", err))
		return fmt.Errorf("%w: %w", domain.ErrFlowStopped, err)
	}
	r.mu.Lock()
	stopped := r.stopped
	r.mu.Unlock()
	if stopped {
		return domain.ErrFlowStopped
	}
	return nil
}

// refresh reconfigures a dirty actor: backup, re-expand, configure, set up, restore.
// The checkpoint only lives for the duration of this call.
func (r *run) refresh(ctx context.Context, n *node) error {
	if !n.dirty.Swap(false) {
		return nil
	}

	var cp domain.Checkpoint
	ckpt, canRestore := n.actor.(actor.Checkpointer)
	if canRestore {
		cp = ckpt.Backup()
	}

	opts := variables.ExpandOptions(r.vars, n.spec.Options)
	if err := n.actor.Configure(opts); err != nil {
		return r.fatal(ctx, n, asSetUpError(n, err))
	}
	if err := n.actor.SetUp(r.env); err != nil {
		return r.fatal(ctx, n, asSetUpError(n, err))
	}
	if canRestore {
		ckpt.Restore(cp)
	}

	r.logger.Debug("Actor reconfigured", "actor", n.actor.FullName())
	if r.engine.hooks.OnReconfigure != nil {
		r.engine.hooks.OnReconfigure(ctx, r.actorEvent(domain.EventReconfigure, n, nil))
	}
	return nil
}

// fire activates n with an optional input, then drains its output into the successors.
// Only errors that end the flow are returned.
func (r *run) fire(ctx context.Context, n *node, in *domain.Token) error {
	if err := r.suspend(ctx); err != nil {
		return err
	}
	if err := r.refresh(ctx, n); err != nil {
		return err
	}

	if in != nil {
		if err := n.in.Input(*in); err != nil {
			return r.failed(ctx, n, in, 0, err)
		}
	}

	start := r.engine.now()
	err := n.actor.Execute(ctx)
	elapsed := r.engine.now().Sub(start)
	r.mu.Lock()
	r.result.Activations++
	r.mu.Unlock()
	if err != nil {
		return r.failed(ctx, n, in, elapsed, err)
	}

	outputs := 0
	if n.out != nil {
		for {
			if err := r.suspend(ctx); err != nil {
				return err
			}
			if err := r.refresh(ctx, n); err != nil {
				return err
			}
			if !n.out.HasPendingOutput() {
				break
			}
			tok := n.out.Output()
			if tok == nil {
				break
			}
			outputs++
			if err := r.forward(ctx, n, r.stamp(n, *tok)); err != nil {
				return err
			}
		}
	}

	if r.engine.hooks.OnActivation != nil {
		r.engine.hooks.OnActivation(ctx, &domain.ActivationEvent{
			EventBase: r.event(domain.EventActivation),
			Actor:     n.actor.FullName(),
			ActorType: n.spec.Type,
			Input:     in,
			Outputs:   outputs,
			Duration:  elapsed,
		})
	}
	return nil
}

func (r *run) stamp(n *node, tok domain.Token) domain.Token {
	if !r.graph.spec.Provenance {
		return tok
	}
	return tok.WithProvenance(n.actor.FullName(), r.engine.now())
}

// forward hands tok to every successor of n, or records it as a flow output.
func (r *run) forward(ctx context.Context, n *node, tok domain.Token) error {
	switch {
	case len(n.next) == 0:
		return r.collect(ctx, tok)
	case len(n.next) == 1 || !r.graph.spec.ParallelBranches:
		for _, m := range n.next {
			if err := r.fire(ctx, m, &tok); err != nil {
				return err
			}
		}
		return nil
	default:
		g, gctx := errgroup.WithContext(ctx)
		for _, m := range n.next {
			g.Go(func() error {
				return r.fire(gctx, m, &tok)
			})
		}
		return g.Wait()
	}
}

func (r *run) collect(ctx context.Context, tok domain.Token) error {
	r.mu.Lock()
	r.result.Outputs = append(r.result.Outputs, tok)
	r.mu.Unlock()

	if sink := r.engine.provenance; sink != nil {
		if err := sink.Record(ctx, r.env.RunID, tok); err != nil {
			r.logger.Warn("Failed to record output", "err", err)
		}
	}
	return nil
}

// failed applies the error policy to an activation error.
func (r *run) failed(ctx context.Context, n *node, in *domain.Token, elapsed time.Duration, err error) error {
	hooks := r.engine.hooks
	if hooks.OnActivation != nil {
		hooks.OnActivation(ctx, &domain.ActivationEvent{
			EventBase: r.event(domain.EventActivation),
			Actor:     n.actor.FullName(),
			ActorType: n.spec.Type,
			Input:     in,
			Duration:  elapsed,
			Err:       err,
		})
	}

	opts := n.actor.Options()
	if r.policy.ShouldStop(opts.StopFlowOnError) {
		return r.fatal(ctx, n, err)
	}

	if hooks.OnError != nil {
		hooks.OnError(ctx, r.actorEvent(domain.EventError, n, err))
	}
	if !opts.Silent {
		r.logger.Error("Activation failed", "actor", n.actor.FullName(), "err", err)
	}
	r.mu.Lock()
	r.result.Errors = append(r.result.Errors, err)
	r.mu.Unlock()
	return nil
}

// fatal stops the flow because of err and returns it.
func (r *run) fatal(ctx context.Context, n *node, err error) error {
	if r.engine.hooks.OnError != nil {
		r.engine.hooks.OnError(ctx, r.actorEvent(domain.EventError, n, err))
	}
	r.logger.Error("Flow stopped", "actor", n.actor.FullName(), "err", err)
	r.stop(err.Error())
	return err
}

// stop flags the run and every actor as stopped. Only the first reason is kept.
func (r *run) stop(reason string) {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	r.result.Stopped = true
	r.result.StopMessage = reason
	r.mu.Unlock()

	for _, n := range r.graph.all() {
		n.actor.StopExecution(reason)
	}
}
