package actor_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/flowbench/pkg/actor"
	"github.com/aretw0/flowbench/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newSplitter() *actor.Queue {
	q := &actor.Queue{}
	q.Init("split", domain.Of(domain.ShapeArray), domain.Any(), func(ctx context.Context, in domain.Token) ([]any, error) {
		return in.Payload.([]any), nil
	})
	return q
}

func drain(p actor.OutputProducer) []any {
	var out []any
	for p.HasPendingOutput() {
		out = append(out, p.Output().Payload)
	}
	return out
}

func TestQueue_Chunks(t *testing.T) {
	q := newSplitter()
	q.SetChunkSize(2)
	require.NoError(t, q.SetUp(&actor.Env{}))

	require.NoError(t, q.Input(domain.NewToken([]any{1, 2, 3, 4, 5})))
	require.NoError(t, q.Execute(context.Background()))

	assert.Equal(t, []any{[]any{1, 2}, []any{3, 4}, []any{5}}, drain(q))
}

func TestQueue_FanOutCompleteness(t *testing.T) {
	for _, chunk := range []int{0, 1, 2, 3, 7, 10} {
		q := newSplitter()
		q.SetChunkSize(chunk)
		require.NoError(t, q.SetUp(&actor.Env{}))

		items := []any{"a", "b", "c", "d", "e", "f", "g"}
		require.NoError(t, q.Input(domain.NewToken(items)))
		require.NoError(t, q.Execute(context.Background()))

		var flat []any
		outputs := drain(q)
		for _, o := range outputs {
			if chunk > 0 {
				flat = append(flat, o.([]any)...)
			} else {
				flat = append(flat, o)
			}
		}
		assert.Equal(t, items, flat, "chunk %d", chunk)
		if chunk > 0 {
			assert.Len(t, outputs, (len(items)+chunk-1)/chunk, "chunk %d", chunk)
		} else {
			assert.Len(t, outputs, len(items))
		}
	}
}

func TestQueue_OutputArray(t *testing.T) {
	q := newSplitter()
	q.SetOutputArray(true)
	require.NoError(t, q.SetUp(&actor.Env{}))

	require.NoError(t, q.Input(domain.NewToken([]any{1, 2, 3})))
	require.NoError(t, q.Execute(context.Background()))

	assert.Equal(t, []any{[]any{1, 2, 3}}, drain(q))
}

func TestQueue_RejectsInputWhilePending(t *testing.T) {
	q := newSplitter()
	require.NoError(t, q.SetUp(&actor.Env{}))
	require.NoError(t, q.Input(domain.NewToken([]any{1, 2})))
	require.NoError(t, q.Execute(context.Background()))

	err := q.Input(domain.NewToken([]any{3}))
	assert.ErrorIs(t, err, domain.ErrPendingOutput)

	drain(q)
	assert.NoError(t, q.Input(domain.NewToken([]any{3})))
}

func TestQueue_SkipEmitsPayloadUnchanged(t *testing.T) {
	q := newSplitter()
	q.SetChunkSize(2)
	q.SetOptions(actor.Options{Skip: true})
	require.NoError(t, q.SetUp(&actor.Env{}))

	require.NoError(t, q.Input(domain.NewToken([]any{1, 2, 3})))
	require.NoError(t, q.Execute(context.Background()))

	assert.Equal(t, []any{[]any{1, 2, 3}}, drain(q))
}

func TestQueue_BackupRestoreMidDrain(t *testing.T) {
	q := newSplitter()
	require.NoError(t, q.SetUp(&actor.Env{}))
	require.NoError(t, q.Input(domain.NewToken([]any{"a", "b", "c"})))
	require.NoError(t, q.Execute(context.Background()))
	assert.Equal(t, "a", q.Output().Payload)

	cp := q.Backup()
	require.NoError(t, q.SetUp(&actor.Env{}))
	assert.False(t, q.HasPendingOutput())

	q.Restore(cp)
	assert.Equal(t, []any{"b", "c"}, drain(q))
}

func TestQueue_DerivesProvenance(t *testing.T) {
	q := newSplitter()
	require.NoError(t, q.SetUp(&actor.Env{}))
	in := domain.NewToken([]any{1, 2}).WithProvenance("src", testTime)
	require.NoError(t, q.Input(in))
	require.NoError(t, q.Execute(context.Background()))

	first := q.Output()
	second := q.Output()
	first.Provenance[0].Actor = "changed"
	assert.Equal(t, "src", second.Provenance[0].Actor)
}

func TestQueue_StopDiscardsPending(t *testing.T) {
	q := newSplitter()
	require.NoError(t, q.SetUp(&actor.Env{}))
	require.NoError(t, q.Input(domain.NewToken([]any{1, 2, 3})))
	require.NoError(t, q.Execute(context.Background()))
	q.Output()

	q.StopExecution("stop")
	assert.False(t, q.HasPendingOutput())
	assert.Nil(t, q.Output())
}

func TestSource_Emits(t *testing.T) {
	s := &actor.Source{}
	s.Init("numbers", domain.Of(domain.ShapeInt), func(ctx context.Context) ([]any, error) {
		return []any{1, 2, 3}, nil
	})
	require.NoError(t, s.SetUp(&actor.Env{}))
	require.NoError(t, s.Execute(context.Background()))
	assert.Equal(t, []any{1, 2, 3}, drain(s))
}
