package debug

import (
	"github.com/spaghettifunk/gizmo/engine/math"
)

// groupCount separates depth-tested and depth-ignoring commands. Group 0 is
// depth-tested and always packs first.
const groupCount = 2

func groupIndex(depthTest bool) int {
	if depthTest {
		return 0
	}
	return 1
}

// Instance is one resolved shape occurrence: the decomposed transform of the
// canonical unit mesh plus its color.
type Instance struct {
	Position math.Vec3
	Rotation math.Quaternion
	Scale    math.Vec3
	Color    math.Vec4
}

// LineVertex is one endpoint of a debug line in the flat line stream.
type LineVertex struct {
	Position math.Vec3
	Color    math.Vec4
}

// FrameBatch reorders one frame's commands into contiguous per-kind buckets.
// Instances pack group 0 (depth-tested) first, then group 1, each group in
// canonical kind order, so the renderer can issue one instanced draw per
// non-empty bucket straight from the offsets. Buffers grow to fit and are
// reused across frames.
type FrameBatch struct {
	counts  [groupCount][InstancedKindCount]int
	offsets [groupCount][InstancedKindCount]int

	instances []Instance

	lineCounts  [groupCount]int
	lineOffsets [groupCount]int
	lines       []LineVertex
}

func NewFrameBatch() *FrameBatch {
	return &FrameBatch{}
}

// grow returns s resized to exactly n elements, reallocating only when the
// backing array is too small.
func grow[T any](s []T, n int) []T {
	if cap(s) < n {
		return make([]T, n)
	}
	return s[:n]
}

// Extract drains the queue into packed buckets: a counting pass sizes every
// bucket, a prefix-sum pass assigns offsets, and a fill pass places each
// command at its bucket cursor. Transient commands are consumed; timed
// commands remain queued for future frames.
func (b *FrameBatch) Extract(q *SubmissionQueue) {
	for g := 0; g < groupCount; g++ {
		for k := 0; k < InstancedKindCount; k++ {
			b.counts[g][k] = 0
		}
		b.lineCounts[g] = 0
	}

	count := func(cmd Command) {
		g := groupIndex(cmd.DepthTest)
		if kind := cmd.Shape.Kind(); kind == KindLine {
			b.lineCounts[g] += 2
		} else {
			b.counts[g][kind]++
		}
	}
	for _, cmd := range q.transient {
		count(cmd)
	}
	for _, cmd := range q.timed {
		count(cmd)
	}

	total := 0
	for g := 0; g < groupCount; g++ {
		for k := 0; k < InstancedKindCount; k++ {
			b.offsets[g][k] = total
			total += b.counts[g][k]
		}
	}
	b.instances = grow(b.instances, total)

	lineTotal := 0
	for g := 0; g < groupCount; g++ {
		b.lineOffsets[g] = lineTotal
		lineTotal += b.lineCounts[g]
	}
	b.lines = grow(b.lines, lineTotal)

	// Cursors are per-bucket write positions; array copies, so the stored
	// offsets stay intact for the renderer.
	cursors := b.offsets
	lineCursors := b.lineOffsets
	fill := func(cmd Command) {
		g := groupIndex(cmd.DepthTest)
		if line, ok := cmd.Shape.(Line); ok {
			b.lines[lineCursors[g]] = LineVertex{Position: line.Start, Color: cmd.Color}
			b.lines[lineCursors[g]+1] = LineVertex{Position: line.End, Color: cmd.Color}
			lineCursors[g] += 2
			return
		}
		kind := cmd.Shape.Kind()
		b.instances[cursors[g][kind]] = resolveInstance(cmd)
		cursors[g][kind]++
	}
	for _, cmd := range q.transient {
		fill(cmd)
	}
	for _, cmd := range q.timed {
		fill(cmd)
	}

	q.clearTransient()
}

// resolveInstance derives the unit-mesh transform for a command. Every
// canonical mesh is unit sized (radius 0.5, height 1, edge 1), so radii and
// extents translate directly into scale factors.
func resolveInstance(cmd Command) Instance {
	inst := Instance{Color: cmd.Color}
	switch s := cmd.Shape.(type) {
	case Quad:
		inst.Position = s.Position
		inst.Rotation = s.Rotation
		inst.Scale = math.NewVec3(s.Size.X, 1, s.Size.Y)
	case Circle:
		inst.Position = s.Position
		inst.Rotation = s.Rotation
		inst.Scale = math.NewVec3(s.Radius*2, 0, s.Radius*2)
	case Sphere:
		inst.Position = s.Position
		inst.Rotation = math.NewQuatIdentity()
		inst.Scale = math.NewVec3(s.Radius*2, s.Radius*2, s.Radius*2)
	case Cube:
		inst.Position = s.Start.Add(s.End).MulScalar(0.5)
		inst.Rotation = s.Rotation
		inst.Scale = s.End.Sub(s.Start)
	case Capsule:
		inst.Position = s.Position
		inst.Rotation = s.Rotation
		inst.Scale = math.NewVec3(s.Radius*2, s.Height, s.Radius*2)
	case Cylinder:
		inst.Position = s.Position
		inst.Rotation = s.Rotation
		inst.Scale = math.NewVec3(s.Radius*2, s.Height, s.Radius*2)
	case Cone:
		inst.Position = s.Position
		inst.Rotation = s.Rotation
		inst.Scale = math.NewVec3(s.Radius*2, s.Height, s.Radius*2)
	}
	return inst
}

// InstanceCount returns the number of instances in one bucket.
func (b *FrameBatch) InstanceCount(depthTest bool, kind ShapeKind) int {
	return b.counts[groupIndex(depthTest)][kind]
}

// InstanceOffset returns the first instance index of one bucket.
func (b *FrameBatch) InstanceOffset(depthTest bool, kind ShapeKind) int {
	return b.offsets[groupIndex(depthTest)][kind]
}

// LineCount returns the number of line vertices in one group.
func (b *FrameBatch) LineCount(depthTest bool) int {
	return b.lineCounts[groupIndex(depthTest)]
}

// LineOffset returns the first line-vertex index of one group.
func (b *FrameBatch) LineOffset(depthTest bool) int {
	return b.lineOffsets[groupIndex(depthTest)]
}

// Instances returns the packed instance list for the current frame.
func (b *FrameBatch) Instances() []Instance {
	return b.instances
}

// Lines returns the packed line-vertex list for the current frame.
func (b *FrameBatch) Lines() []LineVertex {
	return b.lines
}

// TotalInstances returns the packed instance count across all buckets.
func (b *FrameBatch) TotalInstances() int {
	return len(b.instances)
}
