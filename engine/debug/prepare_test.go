package debug

import (
	"testing"

	"github.com/spaghettifunk/gizmo/engine/math"
)

func buildTestBatch(t *testing.T, n int) *FrameBatch {
	t.Helper()
	q := NewSubmissionQueue(n, n)
	for i := 0; i < n; i++ {
		q.Push(Command{
			Shape:     Sphere{Position: math.NewVec3(float32(i), 0, 0), Radius: float32(i%7) + 1},
			Color:     colorTag(i),
			DepthTest: i%2 == 0,
		})
	}
	b := NewFrameBatch()
	b.Extract(q)
	return b
}

func TestPrepareTranslation(t *testing.T) {
	q := NewSubmissionQueue(10, 10)
	q.Push(Command{Shape: Sphere{Position: math.NewVec3(2, 3, 4), Radius: 0.5}})
	b := NewFrameBatch()
	b.Extract(q)

	p := NewPreparedFrame()
	p.Prepare(b, 1)

	if len(p.Transforms) != 1 {
		t.Fatalf("transforms = %d, want 1", len(p.Transforms))
	}
	// Radius 0.5 is the unit mesh, so the matrix reduces to a translation.
	want := math.NewMat4Translation(math.NewVec3(2, 3, 4))
	if p.Transforms[0] != want {
		t.Fatalf("transform = %v, want pure translation %v", p.Transforms[0], want)
	}
}

func TestPrepareParallelMatchesSequential(t *testing.T) {
	const n = 500
	b := buildTestBatch(t, n)

	seq := NewPreparedFrame()
	seq.Prepare(b, 1)

	for _, workers := range []int{2, 4, 8} {
		par := NewPreparedFrame()
		par.Prepare(b, workers)

		if len(par.Transforms) != len(seq.Transforms) {
			t.Fatalf("workers=%d: transform count %d, want %d", workers, len(par.Transforms), len(seq.Transforms))
		}
		for i := range seq.Transforms {
			if par.Transforms[i] != seq.Transforms[i] {
				t.Fatalf("workers=%d: transform %d differs", workers, i)
			}
			if par.Colors[i] != seq.Colors[i] {
				t.Fatalf("workers=%d: color %d differs", workers, i)
			}
		}
	}
}

func TestPrepareBufferReuse(t *testing.T) {
	b := buildTestBatch(t, 100)
	p := NewPreparedFrame()
	p.Prepare(b, 4)

	first := &p.Transforms[0]
	p.Prepare(b, 4)
	if &p.Transforms[0] != first {
		t.Fatal("transform buffer reallocated on same-size frame")
	}

	small := buildTestBatch(t, 10)
	p.Prepare(small, 4)
	if len(p.Transforms) != 10 {
		t.Fatalf("transforms = %d, want 10", len(p.Transforms))
	}
	if &p.Transforms[0] != first {
		t.Fatal("transform buffer reallocated on smaller frame")
	}
}

func TestParallelForCoversRange(t *testing.T) {
	const n = 1000
	hits := make([]int32, n)
	parallelFor(n, 4, func(start, end int) {
		for i := start; i < end; i++ {
			hits[i]++
		}
	})
	for i, h := range hits {
		if h != 1 {
			t.Fatalf("index %d visited %d times", i, h)
		}
	}
}

func TestParallelForSmallRange(t *testing.T) {
	calls := 0
	parallelFor(10, 8, func(start, end int) {
		calls++
		if start != 0 || end != 10 {
			t.Fatalf("small range split into [%d, %d)", start, end)
		}
	})
	if calls != 1 {
		t.Fatalf("small range used %d calls, want 1", calls)
	}
}
