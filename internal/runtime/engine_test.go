package runtime_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/aretw0/flowbench/internal/runtime"
	"github.com/aretw0/flowbench/pkg/actor"
	"github.com/aretw0/flowbench/pkg/actors"
	"github.com/aretw0/flowbench/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const typeFail = "Fail"

// newFail builds a transformer that rejects the payload "bad".
func newFail(name string) actor.Actor {
	s := &actor.Single{}
	s.Init(name, domain.Any(), domain.Any(), func(ctx context.Context, in domain.Token) (any, error) {
		if in.Payload == "bad" {
			return nil, errors.New("bad payload")
		}
		return in.Payload, nil
	})
	return s
}

func newEngine(t *testing.T, opts ...runtime.Option) (*runtime.Engine, *bytes.Buffer) {
	t.Helper()
	reg := actors.NewRegistry()
	reg.Register(typeFail, newFail)

	out := &bytes.Buffer{}
	opts = append([]runtime.Option{runtime.WithOutput(out)}, opts...)
	return runtime.NewEngine(reg, opts...), out
}

func constants(values ...any) domain.ActorSpec {
	return domain.ActorSpec{Name: "src", Type: actors.TypeStringConstants, Options: map[string]any{"strings": values}}
}

func TestEngine_LinearChain(t *testing.T) {
	engine, _ := newEngine(t)
	flow := &domain.FlowSpec{
		Name: "linear",
		Actors: []domain.ActorSpec{
			constants("a", "b"),
			{Name: "upper", Type: actors.TypeConvert, Options: map[string]any{"mode": "upper"}},
		},
	}

	result, err := engine.Run(context.Background(), flow, nil)
	require.NoError(t, err)

	assert.Equal(t, []any{"A", "B"}, result.Payloads())
	assert.Equal(t, 3, result.Activations)
	assert.NotEmpty(t, result.RunID)
	assert.False(t, result.Stopped)
}

func TestEngine_DepthFirstFanOut(t *testing.T) {
	engine, out := newEngine(t)
	flow := &domain.FlowSpec{
		Name: "chunks",
		Actors: []domain.ActorSpec{
			{Name: "src", Type: actors.TypeStringConstants, Options: map[string]any{
				"strings": []any{"1", "2", "3", "4", "5"}, "output_array": true,
			}},
			{Name: "chunks", Type: actors.TypeArrayToChunks, Options: map[string]any{"chunk_size": 2}},
			{Name: "show", Type: actors.TypeDisplay},
		},
	}

	_, err := engine.Run(context.Background(), flow, nil)
	require.NoError(t, err)
	assert.Equal(t, "[1 2]\n[3 4]\n[5]\n", out.String())
}

func TestEngine_ErrorContainment(t *testing.T) {
	engine, _ := newEngine(t)
	flow := &domain.FlowSpec{
		Name: "contained",
		Actors: []domain.ActorSpec{
			constants("ok", "bad", "fine"),
			{Name: "check", Type: typeFail},
		},
	}

	result, err := engine.Run(context.Background(), flow, nil)
	require.NoError(t, err)

	assert.Equal(t, []any{"ok", "fine"}, result.Payloads())
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "contained.check: bad payload (input: bad)", result.Errors[0].Error())
	assert.Error(t, result.Err())
}

func TestEngine_StopFlowOnError(t *testing.T) {
	engine, _ := newEngine(t)
	flow := &domain.FlowSpec{
		Name: "strict",
		Actors: []domain.ActorSpec{
			constants("ok", "bad", "never"),
			{Name: "check", Type: typeFail, StopFlowOnError: true},
		},
	}

	result, err := engine.Run(context.Background(), flow, nil)
	require.Error(t, err)
	assert.True(t, actor.IsActivationError(err))

	assert.Equal(t, []any{"ok"}, result.Payloads())
	assert.True(t, result.Stopped)
	assert.Contains(t, result.StopMessage, "bad payload")
	assert.Empty(t, result.Errors)
}

func TestEngine_AlwaysStopPolicy(t *testing.T) {
	engine, _ := newEngine(t)
	flow := &domain.FlowSpec{
		Name:        "always",
		ErrorPolicy: domain.AlwaysStop,
		Actors: []domain.ActorSpec{
			constants("bad", "ok"),
			{Name: "check", Type: typeFail},
		},
	}

	result, err := engine.Run(context.Background(), flow, nil)
	require.Error(t, err)
	assert.Empty(t, result.Outputs)
	assert.True(t, result.Stopped)
}

func TestEngine_SetUpErrorPreventsActivation(t *testing.T) {
	engine, _ := newEngine(t)
	flow := &domain.FlowSpec{
		Name: "broken",
		Actors: []domain.ActorSpec{
			constants("a"),
			{Name: "convert", Type: actors.TypeConvert, Options: map[string]any{"mode": "shout"}},
		},
	}

	result, err := engine.Run(context.Background(), flow, nil)
	require.Error(t, err)
	assert.True(t, actor.IsSetUpError(err))
	assert.Zero(t, result.Activations)
}

func TestEngine_Skip(t *testing.T) {
	engine, _ := newEngine(t)
	flow := &domain.FlowSpec{
		Name: "skip",
		Actors: []domain.ActorSpec{
			constants("a"),
			{Name: "upper", Type: actors.TypeConvert, Skip: true, Options: map[string]any{"mode": "upper"}},
		},
	}

	result, err := engine.Run(context.Background(), flow, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, result.Payloads())
}

func TestEngine_ContextCanceled(t *testing.T) {
	engine, _ := newEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := engine.Run(ctx, &domain.FlowSpec{Name: "canceled", Actors: []domain.ActorSpec{constants("a")}}, nil)
	assert.ErrorIs(t, err, domain.ErrFlowStopped)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, result.Stopped)
	assert.Zero(t, result.Activations)
}

func TestEngine_Provenance(t *testing.T) {
	engine, _ := newEngine(t)
	flow := &domain.FlowSpec{
		Name:       "lineage",
		Provenance: true,
		Actors: []domain.ActorSpec{
			constants("a"),
			{Name: "upper", Type: actors.TypeConvert, Options: map[string]any{"mode": "upper"}},
		},
	}

	result, err := engine.Run(context.Background(), flow, nil)
	require.NoError(t, err)
	require.Len(t, result.Outputs, 1)
	assert.Equal(t, []string{"lineage.src", "lineage.upper"}, result.Outputs[0].Lineage())
}

func TestEngine_RunsAreIndependent(t *testing.T) {
	engine, _ := newEngine(t)
	flow := &domain.FlowSpec{
		Name: "ids",
		Actors: []domain.ActorSpec{
			constants("A", "A"),
			{Name: "ids", Type: actors.TypeUniqueID},
		},
	}

	for i := 0; i < 2; i++ {
		result, err := engine.Run(context.Background(), flow, nil)
		require.NoError(t, err)
		assert.Equal(t, []any{"A", "A#2"}, result.Payloads())
	}
}
