package actor

import "github.com/aretw0/flowbench/pkg/domain"

// buffer is the FIFO shared by the fan-out building blocks.
type buffer struct {
	items  []any
	cursor int

	// chunk > 0 emits slices of up to chunk items; asArray emits everything left at once.
	chunk   int
	asArray bool
}

func (b *buffer) seed(items []any) {
	b.items = items
	b.cursor = 0
}

func (b *buffer) clear() {
	b.items = nil
	b.cursor = 0
}

func (b *buffer) pending() bool {
	return b.cursor < len(b.items)
}

// next returns the next payload to emit. raw bypasses chunking.
func (b *buffer) next(raw bool) (any, bool) {
	if !b.pending() {
		return nil, false
	}
	rest := len(b.items) - b.cursor

	n := 1
	switch {
	case raw:
	case b.asArray:
		n = rest
	case b.chunk > 0:
		n = min(b.chunk, rest)
	}

	if raw || (!b.asArray && b.chunk <= 0) {
		v := b.items[b.cursor]
		b.cursor++
		return v, true
	}

	out := make([]any, n)
	copy(out, b.items[b.cursor:b.cursor+n])
	b.cursor += n
	return out, true
}

func (b *buffer) snapshot() *domain.QueueSnapshot {
	if b.items == nil {
		return nil
	}
	items := make([]any, len(b.items))
	copy(items, b.items)
	return &domain.QueueSnapshot{Items: items, Cursor: b.cursor}
}

func (b *buffer) restore(q *domain.QueueSnapshot) {
	if q == nil {
		return
	}
	b.items = make([]any, len(q.Items))
	copy(b.items, q.Items)
	b.cursor = min(q.Cursor, len(b.items))
}
