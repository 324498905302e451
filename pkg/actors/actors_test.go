package actors_test

import (
	"bytes"
	"context"
	"math"
	"testing"

	"github.com/aretw0/flowbench/pkg/actor"
	"github.com/aretw0/flowbench/pkg/actors"
	"github.com/aretw0/flowbench/pkg/adapters/memory"
	"github.com/aretw0/flowbench/pkg/domain"
	"github.com/aretw0/flowbench/pkg/storage"
	"github.com/aretw0/flowbench/pkg/variables"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnv() *actor.Env {
	return &actor.Env{
		Flow:      "test",
		Variables: variables.New(nil),
		Storage:   storage.NewManager(memory.NewStorage()),
		Output:    &bytes.Buffer{},
	}
}

// feed pushes payloads through a transformer and collects every emitted payload.
func feed(t *testing.T, a actor.Transformer, payloads ...any) []any {
	t.Helper()
	var out []any
	for _, p := range payloads {
		require.NoError(t, a.Input(domain.NewToken(p)))
		require.NoError(t, a.Execute(context.Background()))
		for a.HasPendingOutput() {
			out = append(out, a.Output().Payload)
		}
	}
	return out
}

func configure(t *testing.T, a actor.Actor, opts map[string]any, env *actor.Env) {
	t.Helper()
	require.NoError(t, a.Configure(opts))
	require.NoError(t, a.SetUp(env))
}

func TestArrayToChunks(t *testing.T) {
	a := actors.NewArrayToChunks("chunks")
	configure(t, a, map[string]any{"chunk_size": "2"}, newEnv())

	got := feed(t, a, []int{1, 2, 3, 4, 5})
	assert.Equal(t, []any{[]any{1, 2}, []any{3, 4}, []any{5}}, got)
}

func TestArrayToChunks_InvalidSize(t *testing.T) {
	a := actors.NewArrayToChunks("chunks")
	require.NoError(t, a.Configure(map[string]any{"chunk_size": 0}))

	err := a.SetUp(newEnv())
	assert.True(t, actor.IsSetUpError(err))
}

func TestUniqueID(t *testing.T) {
	u := actors.NewUniqueID("ids")
	configure(t, u, nil, newEnv())

	assert.Equal(t, []any{"A", "A#2", "B"}, feed(t, u, "A", "A", "B"))
}

func TestUniqueID_CountersSurviveReconfiguration(t *testing.T) {
	env := newEnv()
	u := actors.NewUniqueID("ids")
	configure(t, u, nil, env)
	feed(t, u, "A")

	cp := u.Backup()
	require.NoError(t, u.Configure(map[string]any{"separator": "-"}))
	require.NoError(t, u.SetUp(env))
	u.Restore(cp)

	assert.Equal(t, []any{"A-2"}, feed(t, u, "A"))
}

func TestMapToKeyValuePairs(t *testing.T) {
	m := actors.NewMapToKeyValuePairs("entries")
	configure(t, m, nil, newEnv())

	got := feed(t, m, map[string]any{"b": 2, "a": 1})
	assert.Equal(t, []any{[]any{"a", 1}, []any{"b", 2}}, got)
}

func TestConvert(t *testing.T) {
	tests := []struct {
		mode string
		in   any
		want any
	}{
		{actors.ModeUpper, "abc", "ABC"},
		{actors.ModeLower, "ABC", "abc"},
		{actors.ModeTrim, "  x ", "x"},
		{actors.ModeToInt, " 42", 42},
		{actors.ModeToFloat, "1.5", 1.5},
		{actors.ModeToString, 7, "7"},
		{actors.ModeReverse, "abc", "cba"},
		{actors.ModeReverse, []any{1, 2, 3}, []any{3, 2, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			c := actors.NewConvert("convert")
			configure(t, c, map[string]any{"mode": tt.mode}, newEnv())
			assert.Equal(t, []any{tt.want}, feed(t, c, tt.in))
		})
	}
}

func TestConvert_Errors(t *testing.T) {
	c := actors.NewConvert("convert")
	require.NoError(t, c.Configure(map[string]any{"mode": "shout"}))
	assert.True(t, actor.IsSetUpError(c.SetUp(newEnv())))

	c = actors.NewConvert("convert")
	configure(t, c, map[string]any{"mode": actors.ModeToInt}, newEnv())
	require.NoError(t, c.Input(domain.NewToken("nope")))
	err := c.Execute(context.Background())
	assert.True(t, actor.IsActivationError(err))
}

func TestConvert_ToIntRejectsLossyFloats(t *testing.T) {
	c := actors.NewConvert("convert")
	configure(t, c, map[string]any{"mode": actors.ModeToInt}, newEnv())
	assert.Equal(t, []any{3, -2}, feed(t, c, 3.0, -2.0))

	for _, in := range []float64{3.7, math.NaN(), math.Inf(1), 1e300} {
		require.NoError(t, c.Input(domain.NewToken(in)))
		err := c.Execute(context.Background())
		assert.True(t, actor.IsActivationError(err), "%v", in)
		c.Reset()
	}
}

func TestStringConstantsAndForLoop(t *testing.T) {
	s := actors.NewStringConstants("consts")
	configure(t, s, map[string]any{"strings": []any{"a", "b"}}, newEnv())
	require.NoError(t, s.Execute(context.Background()))
	assert.Equal(t, "a", s.Output().Payload)
	assert.Equal(t, "b", s.Output().Payload)
	assert.False(t, s.HasPendingOutput())

	f := actors.NewForLoop("loop")
	configure(t, f, map[string]any{"start": 5, "end": 1, "step": -2}, newEnv())
	require.NoError(t, f.Execute(context.Background()))
	var got []any
	for f.HasPendingOutput() {
		got = append(got, f.Output().Payload)
	}
	assert.Equal(t, []any{5, 3, 1}, got)
}

func TestForLoop_NearIntLimits(t *testing.T) {
	tests := []struct {
		name string
		opts map[string]any
		want []any
	}{
		{"up to max", map[string]any{"start": math.MaxInt - 2, "end": math.MaxInt, "step": 2}, []any{math.MaxInt - 2, math.MaxInt}},
		{"step past max", map[string]any{"start": math.MaxInt - 1, "end": math.MaxInt, "step": 5}, []any{math.MaxInt - 1}},
		{"down to min", map[string]any{"start": math.MinInt + 2, "end": math.MinInt, "step": -2}, []any{math.MinInt + 2, math.MinInt}},
		{"single value", map[string]any{"start": 3, "end": 3, "step": 1}, []any{3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := actors.NewForLoop("loop")
			configure(t, f, tt.opts, newEnv())
			require.NoError(t, f.Execute(context.Background()))
			var got []any
			for f.HasPendingOutput() {
				got = append(got, f.Output().Payload)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestForLoop_InvalidStep(t *testing.T) {
	f := actors.NewForLoop("loop")
	require.NoError(t, f.Configure(map[string]any{"step": 0}))
	assert.Error(t, f.SetUp(newEnv()))
}

func TestDisplay(t *testing.T) {
	env := newEnv()
	d := actors.NewDisplay("out")
	configure(t, d, map[string]any{"prefix": "> "}, env)

	require.NoError(t, d.Input(domain.NewToken("hello")))
	require.NoError(t, d.Execute(context.Background()))

	assert.Equal(t, "> hello\n", env.Output.(*bytes.Buffer).String())
}

func TestRegistry_HasAllTypes(t *testing.T) {
	r := actors.NewRegistry()
	for _, typ := range []string{actors.TypeArrayToChunks, actors.TypeUniqueID, actors.TypeExternal, actors.TypeDBQuery} {
		assert.True(t, r.Has(typ), typ)
	}
}
