package actor

import (
	"context"
	"fmt"

	"github.com/aretw0/flowbench/pkg/domain"
)

// ExpandFunc turns one input into the items to emit.
type ExpandFunc func(ctx context.Context, in domain.Token) ([]any, error)

// Queue is a transformer that emits many tokens per input.
// Execute only fills the queue; tokens leave through Output.
type Queue struct {
	Base

	accepts   domain.Shapes
	generates domain.Shapes
	expand    ExpandFunc

	input   *domain.Token
	buf     buffer
	skipped bool
}

// Init assigns the name, declared shapes and expand function.
func (q *Queue) Init(name string, accepts, generates domain.Shapes, expand ExpandFunc) {
	q.Base.Init(name)
	q.accepts = accepts
	q.generates = generates
	q.expand = expand
}

// SetChunkSize makes Output emit slices of up to n items. Zero or less emits items one by one.
func (q *Queue) SetChunkSize(n int) { q.buf.chunk = n }

// SetOutputArray makes Output emit all remaining items as one slice.
func (q *Queue) SetOutputArray(on bool) { q.buf.asArray = on }

func (q *Queue) Accepts() domain.Shapes   { return q.accepts }
func (q *Queue) Generates() domain.Shapes { return q.generates }

func (q *Queue) SetUp(env *Env) error {
	if err := q.Base.SetUp(env); err != nil {
		return err
	}
	q.Reset()
	if q.expand == nil {
		return q.Invalid(fmt.Errorf("no expand function"))
	}
	return nil
}

// Reset clears the input and the queue.
func (q *Queue) Reset() {
	q.input = nil
	q.buf.clear()
	q.skipped = false
}

// Input refuses new tokens until the queue has been drained.
func (q *Queue) Input(t domain.Token) error {
	if q.buf.pending() {
		return q.Fail(&t, domain.ErrPendingOutput)
	}
	if !q.accepts.Accepts(t.Payload) {
		return q.Fail(&t, fmt.Errorf("payload of shape %s not accepted (accepts %s)", domain.ShapeOf(t.Payload), q.accepts))
	}
	q.buf.clear()
	q.input = &t
	return nil
}

// Execute fills the queue from the current input.
func (q *Queue) Execute(ctx context.Context) error {
	q.buf.clear()
	q.skipped = false
	if q.IsStopped() {
		return nil
	}
	if q.input == nil {
		return q.Fail(nil, domain.ErrNoInput)
	}
	in := *q.input

	if q.opts.Skip {
		q.skipped = true
		q.buf.seed([]any{in.Payload})
		return nil
	}

	items, err := recovered(func() ([]any, error) { return q.expand(ctx, in) })
	if err != nil {
		return q.Fail(&in, err)
	}
	q.buf.seed(items)
	return nil
}

func (q *Queue) HasPendingOutput() bool {
	return q.buf.pending() && !q.IsStopped()
}

// Output emits the next item (or chunk) as a token derived from the input.
func (q *Queue) Output() *domain.Token {
	if q.IsStopped() {
		q.buf.clear()
		return nil
	}
	payload, ok := q.buf.next(q.skipped)
	if !ok {
		return nil
	}
	parent := domain.Token{}
	if q.input != nil {
		parent = *q.input
	}
	out := parent.Derive(payload)
	return &out
}

// WrapUp drops the input and the queue.
func (q *Queue) WrapUp() {
	q.Reset()
}

// Backup saves the input together with the queue items and cursor.
func (q *Queue) Backup() domain.Checkpoint {
	return domain.Checkpoint{Input: copyToken(q.input), Queue: q.buf.snapshot()}
}

func (q *Queue) Restore(cp domain.Checkpoint) {
	if cp.Input != nil {
		q.input = copyToken(cp.Input)
	}
	if cp.Queue != nil {
		q.buf.restore(cp.Queue)
		q.skipped = q.opts.Skip
	}
}
