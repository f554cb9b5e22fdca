package debug

import (
	"testing"

	"github.com/spaghettifunk/gizmo/engine/math"
)

func colorTag(i int) math.Vec4 {
	return math.NewVec4(float32(i), 0, 0, 1)
}

func TestQueueNewestDropped(t *testing.T) {
	q := NewSubmissionQueue(3, 3)

	for i := 0; i < 5; i++ {
		q.Push(Command{Shape: Sphere{Radius: 1}, Color: colorTag(i)})
	}

	if got := q.TransientCount(); got != 3 {
		t.Fatalf("transient count = %d, want 3", got)
	}
	if got := q.DroppedCount(); got != 2 {
		t.Fatalf("dropped count = %d, want 2", got)
	}

	// The first three submissions survive; the overflow is discarded.
	for i, cmd := range q.transient {
		if cmd.Color != colorTag(i) {
			t.Errorf("slot %d color = %v, want tag %d", i, cmd.Color, i)
		}
	}
}

func TestQueueNewestDroppedTimed(t *testing.T) {
	q := NewSubmissionQueue(2, 2)

	for i := 0; i < 4; i++ {
		q.Push(Command{Shape: Line{}, Color: colorTag(i), Lifetime: 5})
	}

	if got := q.TimedCount(); got != 2 {
		t.Fatalf("timed count = %d, want 2", got)
	}
	for i, cmd := range q.timed {
		if cmd.Color != colorTag(i) {
			t.Errorf("slot %d color = %v, want tag %d", i, cmd.Color, i)
		}
	}
}

func TestQueueLifetimeAging(t *testing.T) {
	q := NewSubmissionQueue(10, 10)

	q.Push(Command{Shape: Sphere{Radius: 1}, Lifetime: 0.5})
	q.Push(Command{Shape: Sphere{Radius: 2}, Lifetime: 2.0})
	q.Push(Command{Shape: Sphere{Radius: 3}}) // transient, never ages

	q.Update(1.0)
	if got := q.TimedCount(); got != 1 {
		t.Fatalf("after 1s: timed count = %d, want 1", got)
	}
	if r := q.timed[0].Shape.(Sphere).Radius; r != 2 {
		t.Fatalf("survivor radius = %f, want 2", r)
	}
	if got := q.TransientCount(); got != 1 {
		t.Fatalf("transient count = %d, want 1", got)
	}

	// Exactly hitting zero discards the command too.
	q.Update(1.0)
	if got := q.TimedCount(); got != 0 {
		t.Fatalf("after 2s: timed count = %d, want 0", got)
	}
}

func TestQueueSetCapacities(t *testing.T) {
	q := NewSubmissionQueue(5, 5)
	for i := 0; i < 5; i++ {
		q.Push(Command{Shape: Line{}, Color: colorTag(i)})
		q.Push(Command{Shape: Line{}, Color: colorTag(i), Lifetime: 1})
	}

	q.SetCapacities(2, 3)
	if got := q.TransientCount(); got != 2 {
		t.Errorf("transient count = %d, want 2", got)
	}
	if got := q.TimedCount(); got != 3 {
		t.Errorf("timed count = %d, want 3", got)
	}

	// The oldest submissions are the ones kept.
	for i, cmd := range q.transient {
		if cmd.Color != colorTag(i) {
			t.Errorf("transient slot %d color = %v, want tag %d", i, cmd.Color, i)
		}
	}
}
