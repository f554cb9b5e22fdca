package debug

import (
	"sync"

	"github.com/spaghettifunk/gizmo/engine/math"
)

// PreparedFrame holds the GPU-ready instance data for one frame: one world
// matrix and one color per instance, indexed identically to the batch
// buckets. Buffers grow to fit and are reused across frames.
type PreparedFrame struct {
	Transforms []math.Mat4
	Colors     []math.Vec4
}

func NewPreparedFrame() *PreparedFrame {
	return &PreparedFrame{}
}

// Prepare resolves every batched instance into its world matrix, optionally
// across worker goroutines. Each worker owns a disjoint index range, so no
// synchronization is needed beyond the final join, and the result is
// identical regardless of worker count.
func (p *PreparedFrame) Prepare(batch *FrameBatch, workers int) {
	instances := batch.Instances()
	n := len(instances)
	p.Transforms = grow(p.Transforms, n)
	p.Colors = grow(p.Colors, n)

	parallelFor(n, workers, func(start, end int) {
		for i := start; i < end; i++ {
			inst := instances[i]
			p.Transforms[i] = math.NewMat4Scale(inst.Scale).
				Mul(inst.Rotation.ToMat4()).
				Mul(math.NewMat4Translation(inst.Position))
			p.Colors[i] = inst.Color
		}
	})
}

// parallelFor splits [0, n) into contiguous chunks and runs fn over each on
// its own goroutine. Small ranges and single-worker calls run inline.
func parallelFor(n, workers int, fn func(start, end int)) {
	const minChunk = 64
	if workers <= 1 || n < minChunk*2 {
		fn(0, n)
		return
	}
	if workers > n/minChunk {
		workers = n / minChunk
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(start, end)
	}
	wg.Wait()
}
