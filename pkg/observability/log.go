package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/flowbench/pkg/domain"
)

// LogHooks returns lifecycle hooks that write every event to logger at debug level.
// Errors are left to the runtime, which already logs them.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSetUp: func(ctx context.Context, e *domain.ActorEvent) {
			logger.DebugContext(ctx, "actor_setup", "run", e.RunID, "actor", e.Actor, "type", e.ActorType)
		},
		OnActivation: func(ctx context.Context, e *domain.ActivationEvent) {
			attrs := []any{
				"run", e.RunID,
				"actor", e.Actor,
				"type", e.ActorType,
				"outputs", e.Outputs,
				"duration", e.Duration,
			}
			if e.Err != nil {
				attrs = append(attrs, "err", e.Err)
			}
			logger.DebugContext(ctx, "actor_activation", attrs...)
		},
		OnReconfigure: func(ctx context.Context, e *domain.ActorEvent) {
			logger.DebugContext(ctx, "actor_reconfigure", "run", e.RunID, "actor", e.Actor)
		},
		OnWrapUp: func(ctx context.Context, e *domain.ActorEvent) {
			logger.DebugContext(ctx, "actor_wrapup", "run", e.RunID, "actor", e.Actor)
		},
	}
}
