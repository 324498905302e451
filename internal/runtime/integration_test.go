package runtime_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/flowbench/internal/runtime"
	"github.com/aretw0/flowbench/pkg/actors"
	"github.com/aretw0/flowbench/pkg/adapters/memory"
	"github.com/aretw0/flowbench/pkg/domain"
	"github.com/aretw0/flowbench/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_LifecycleHooks(t *testing.T) {
	var (
		mu          sync.Mutex
		setUps      []string
		wrapUps     []string
		activations []*domain.ActivationEvent
		errs        []string
	)
	hooks := domain.LifecycleHooks{
		OnSetUp: func(ctx context.Context, e *domain.ActorEvent) {
			mu.Lock()
			defer mu.Unlock()
			setUps = append(setUps, e.Actor)
		},
		OnWrapUp: func(ctx context.Context, e *domain.ActorEvent) {
			mu.Lock()
			defer mu.Unlock()
			wrapUps = append(wrapUps, e.Actor)
		},
		OnActivation: func(ctx context.Context, e *domain.ActivationEvent) {
			mu.Lock()
			defer mu.Unlock()
			activations = append(activations, e)
		},
		OnError: func(ctx context.Context, e *domain.ActorEvent) {
			mu.Lock()
			defer mu.Unlock()
			errs = append(errs, e.Actor)
		},
	}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	engine, _ := newEngine(t, runtime.WithLifecycleHooks(hooks), runtime.WithClock(func() time.Time { return now }))

	flow := &domain.FlowSpec{
		Name:   "hooks",
		Actors: []domain.ActorSpec{constants("ok", "bad"), {Name: "check", Type: typeFail}},
	}
	result, err := engine.Run(context.Background(), flow, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"hooks.src", "hooks.check"}, setUps)
	assert.Equal(t, []string{"hooks.check", "hooks.src"}, wrapUps)
	assert.Equal(t, []string{"hooks.check"}, errs)

	require.Len(t, activations, 3)
	// Activations are reported once the actor is drained, so the source comes last.
	assert.Equal(t, "hooks.check", activations[0].Actor)
	assert.Equal(t, 1, activations[0].Outputs)
	assert.NoError(t, activations[0].Err)
	assert.Error(t, activations[1].Err)
	assert.Equal(t, "hooks.src", activations[2].Actor)
	assert.Equal(t, 2, activations[2].Outputs)
	assert.Equal(t, result.RunID, activations[2].RunID)
	assert.Equal(t, now, activations[2].Timestamp)
}

type recordingSink struct {
	mu     sync.Mutex
	runs   []string
	tokens []domain.Token
}

func (s *recordingSink) Record(ctx context.Context, runID string, tok domain.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, runID)
	s.tokens = append(s.tokens, tok)
	return nil
}

func TestEngine_ProvenanceSinkReceivesOutputs(t *testing.T) {
	sink := &recordingSink{}
	engine, _ := newEngine(t, runtime.WithProvenanceSink(sink))

	flow := &domain.FlowSpec{
		Name:       "recorded",
		Provenance: true,
		Actors:     []domain.ActorSpec{constants("a", "b")},
	}
	result, err := engine.Run(context.Background(), flow, nil)
	require.NoError(t, err)

	require.Len(t, sink.tokens, 2)
	assert.Equal(t, []string{result.RunID, result.RunID}, sink.runs)
	assert.Equal(t, []string{"recorded.src"}, sink.tokens[1].Lineage())
}

func TestEngine_DatabaseFlow(t *testing.T) {
	engine, _ := newEngine(t)
	flow := &domain.FlowSpec{
		Name: "db",
		Standalones: []domain.ActorSpec{
			{Name: "conn", Type: actors.TypeDatabaseConnection, Options: map[string]any{
				"path": ":memory:",
				"init": []any{"CREATE TABLE items (name TEXT NOT NULL)"},
			}},
		},
		Actors: []domain.ActorSpec{
			constants("x", "y"),
			{Name: "insert", Type: actors.TypeDBExecute, Options: map[string]any{
				"sql": "INSERT INTO items (name) VALUES (?)",
			}},
			{Name: "count", Type: actors.TypeDBQuery, Options: map[string]any{
				"sql": "SELECT count(*) AS n FROM items",
			}},
		},
	}

	result, err := engine.Run(context.Background(), flow, nil)
	require.NoError(t, err)
	require.Empty(t, result.Errors)
	assert.Equal(t, []any{
		[]map[string]any{{"n": int64(1)}},
		[]map[string]any{{"n": int64(2)}},
	}, result.Payloads())
}

func TestEngine_DatabaseFlowWithoutConnection(t *testing.T) {
	engine, _ := newEngine(t)
	flow := &domain.FlowSpec{
		Name: "nodb",
		Actors: []domain.ActorSpec{
			constants("x"),
			{Name: "insert", Type: actors.TypeDBExecute, Options: map[string]any{"sql": "SELECT 1"}},
		},
	}

	result, err := engine.Run(context.Background(), flow, nil)
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.ErrorIs(t, result.Errors[0], domain.ErrNoDatabase)
}

func TestEngine_ExternalActor(t *testing.T) {
	defs := memory.NewLoader(map[string]domain.ActorSpec{
		"shout": {Type: actors.TypeConvert, Options: map[string]any{"mode": "@{mode}"}},
	})
	engine, _ := newEngine(t, runtime.WithDefinitionLoader(defs))

	flow := &domain.FlowSpec{
		Name:      "ext",
		Variables: map[string]string{"mode": "upper"},
		Actors: []domain.ActorSpec{
			constants("hey"),
			{Name: "delegate", Type: actors.TypeExternal, Options: map[string]any{"ref": "shout"}},
		},
	}

	result, err := engine.Run(context.Background(), flow, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{"HEY"}, result.Payloads())
}

func TestEngine_ExternalActorUnknownRef(t *testing.T) {
	engine, _ := newEngine(t, runtime.WithDefinitionLoader(memory.NewLoader(nil)))
	flow := &domain.FlowSpec{
		Name: "ext",
		Actors: []domain.ActorSpec{
			constants("hey"),
			{Name: "delegate", Type: actors.TypeExternal, Options: map[string]any{"ref": "missing"}},
		},
	}

	_, err := engine.Run(context.Background(), flow, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrActorNotFound)
}

func TestEngine_SharedStorage(t *testing.T) {
	mgr := storage.NewManager(memory.NewStorage())
	engine, _ := newEngine(t, runtime.WithStorage(mgr))

	flow := &domain.FlowSpec{
		Name: "store",
		Actors: []domain.ActorSpec{
			constants("a", "b"),
			{Name: "append", Type: actors.TypeAppendStorageValue, Options: map[string]any{"storage_name": "seen"}},
		},
	}
	_, err := engine.Run(context.Background(), flow, nil)
	require.NoError(t, err)

	got, err := mgr.Get(context.Background(), "seen")
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, got)
	assert.Same(t, mgr, engine.Storage())
}
