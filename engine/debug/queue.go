package debug

import (
	"github.com/spaghettifunk/gizmo/engine/core"
)

// SubmissionQueue collects draw commands between frames. Transient commands
// (lifetime zero) live for exactly one extraction; timed commands age by
// elapsed frame time until their lifetime runs out. Both lists are bounded;
// submissions past the cap are dropped and logged, never blocked on.
type SubmissionQueue struct {
	transient []Command
	timed     []Command

	maxTransient int
	maxTimed     int

	droppedTransient uint64
	droppedTimed     uint64
}

func NewSubmissionQueue(maxTransient, maxTimed int) *SubmissionQueue {
	return &SubmissionQueue{
		transient:    make([]Command, 0, maxTransient),
		timed:        make([]Command, 0, maxTimed),
		maxTransient: maxTransient,
		maxTimed:     maxTimed,
	}
}

// Push enqueues a command into the list matching its lifetime. When the list
// is full the newest command, the one being pushed, is the one dropped.
func (q *SubmissionQueue) Push(cmd Command) {
	if cmd.Lifetime > 0 {
		q.timed = append(q.timed, cmd)
		if len(q.timed) > q.maxTimed {
			q.timed = q.timed[:len(q.timed)-1]
			q.droppedTimed++
			core.LogWarn("debug draw queue full, dropping timed %s command (%d dropped so far)", cmd.Shape.Kind(), q.droppedTimed)
		}
		return
	}
	q.transient = append(q.transient, cmd)
	if len(q.transient) > q.maxTransient {
		q.transient = q.transient[:len(q.transient)-1]
		q.droppedTransient++
		core.LogWarn("debug draw queue full, dropping %s command (%d dropped so far)", cmd.Shape.Kind(), q.droppedTransient)
	}
}

// Update ages every timed command by the elapsed seconds and discards the
// ones whose remaining lifetime reaches zero. Transient commands are
// untouched; they are cleared by extraction instead.
func (q *SubmissionQueue) Update(elapsed float64) {
	dt := float32(elapsed)
	kept := q.timed[:0]
	for _, cmd := range q.timed {
		cmd.Lifetime -= dt
		if cmd.Lifetime > 0 {
			kept = append(kept, cmd)
		}
	}
	q.timed = kept
}

// clearTransient empties the one-frame list after extraction, keeping the
// backing array.
func (q *SubmissionQueue) clearTransient() {
	q.transient = q.transient[:0]
}

// SetCapacities applies new queue bounds. Lists longer than the new bound
// are truncated from the tail, consistent with the newest-dropped policy.
func (q *SubmissionQueue) SetCapacities(maxTransient, maxTimed int) {
	q.maxTransient = maxTransient
	q.maxTimed = maxTimed
	if len(q.transient) > maxTransient {
		q.transient = q.transient[:maxTransient]
	}
	if len(q.timed) > maxTimed {
		q.timed = q.timed[:maxTimed]
	}
}

// TransientCount returns the number of pending one-frame commands.
func (q *SubmissionQueue) TransientCount() int {
	return len(q.transient)
}

// TimedCount returns the number of pending lifetime commands.
func (q *SubmissionQueue) TimedCount() int {
	return len(q.timed)
}

// DroppedCount returns how many commands were rejected since startup.
func (q *SubmissionQueue) DroppedCount() uint64 {
	return q.droppedTransient + q.droppedTimed
}
