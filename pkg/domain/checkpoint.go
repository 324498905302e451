package domain

// QueueSnapshot captures the pending items of a fan-out actor together with its read cursor.
// Items and Cursor are always saved and restored as a pair.
type QueueSnapshot struct {
	Items  []any
	Cursor int
}

// Pending returns the number of items not yet emitted.
func (q *QueueSnapshot) Pending() int {
	if q == nil || q.Cursor >= len(q.Items) {
		return 0
	}
	return len(q.Items) - q.Cursor
}

// Checkpoint is the transient, non-configuration state of an actor.
// It is taken right before the actor is reconfigured and handed back right after.
// A nil field means there is nothing to restore for it.
type Checkpoint struct {
	Input  *Token
	Output *Token
	Queue  *QueueSnapshot

	// State holds an actor-specific typed snapshot (e.g. counters).
	State any
}

// IsEmpty reports whether the checkpoint carries no state at all.
func (c Checkpoint) IsEmpty() bool {
	return c.Input == nil && c.Output == nil && c.Queue == nil && c.State == nil
}
