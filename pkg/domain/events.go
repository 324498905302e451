package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventSetUp       EventType = "setup"
	EventActivation  EventType = "activation"
	EventError       EventType = "error"
	EventReconfigure EventType = "reconfigure"
	EventWrapUp      EventType = "wrapup"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
	Flow      string    `json:"flow"`
}

// ActorEvent reports a lifecycle step of one actor.
type ActorEvent struct {
	EventBase
	Actor     string `json:"actor"`
	ActorType string `json:"actor_type"`
	Err       error  `json:"-"`
}

// ActivationEvent reports one Execute call and the tokens it emitted.
type ActivationEvent struct {
	EventBase
	Actor     string        `json:"actor"`
	ActorType string        `json:"actor_type"`
	Input     *Token        `json:"input,omitempty"`
	Outputs   int           `json:"outputs"`
	Duration  time.Duration `json:"duration"`
	Err       error         `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
// Every field is optional.
type LifecycleHooks struct {
	OnSetUp       func(context.Context, *ActorEvent)
	OnActivation  func(context.Context, *ActivationEvent)
	OnError       func(context.Context, *ActorEvent)
	OnReconfigure func(context.Context, *ActorEvent)
	OnWrapUp      func(context.Context, *ActorEvent)
}

// MergeHooks chains several hook sets; each callback runs in order.
func MergeHooks(all ...LifecycleHooks) LifecycleHooks {
	var merged LifecycleHooks
	for _, h := range all {
		merged.OnSetUp = chain(merged.OnSetUp, h.OnSetUp)
		merged.OnActivation = chain(merged.OnActivation, h.OnActivation)
		merged.OnError = chain(merged.OnError, h.OnError)
		merged.OnReconfigure = chain(merged.OnReconfigure, h.OnReconfigure)
		merged.OnWrapUp = chain(merged.OnWrapUp, h.OnWrapUp)
	}
	return merged
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
