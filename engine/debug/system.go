package debug

import (
	"sync/atomic"

	"github.com/spaghettifunk/gizmo/engine/core"
	"github.com/spaghettifunk/gizmo/engine/math"
)

// System is the immediate-mode debug draw frontend. Draw calls enqueue
// commands; each frame Update ages timed commands, Extract packs them into
// buckets and Prepare resolves world matrices. Config reloads are staged in
// an atomic pointer and applied at the Update boundary so a frame never sees
// two configs.
type System struct {
	cfg      *Config
	queue    *SubmissionQueue
	batch    *FrameBatch
	prepared *PreparedFrame
	meshes   *MeshCache

	pending atomic.Pointer[Config]
}

// New builds a debug draw system, generating the canonical mesh set from the
// configured tessellation.
func New(cfg *Config) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	meshes, err := NewMeshCache(cfg)
	if err != nil {
		return nil, err
	}
	return &System{
		cfg:      cfg,
		queue:    NewSubmissionQueue(cfg.MaxPrimitives, cfg.MaxPrimitivesWithLifetime),
		batch:    NewFrameBatch(),
		prepared: NewPreparedFrame(),
		meshes:   meshes,
	}, nil
}

func (s *System) push(shape Shape, color math.Vec4, duration float32, depthTest bool) {
	if color == (math.Vec4{}) {
		color = s.cfg.DefaultColorVec()
	}
	s.queue.Push(Command{
		Shape:     shape,
		Color:     color,
		Lifetime:  duration,
		DepthTest: depthTest,
	})
}

// DrawQuad submits a quad of the given size in the rotated XZ plane.
func (s *System) DrawQuad(position math.Vec3, rotation math.Quaternion, size math.Vec2, color math.Vec4, duration float32, depthTest bool) {
	s.push(Quad{Position: position, Rotation: rotation, Size: size}, color, duration, depthTest)
}

// DrawCircle submits a filled wireframe circle.
func (s *System) DrawCircle(position math.Vec3, rotation math.Quaternion, radius float32, color math.Vec4, duration float32, depthTest bool) {
	s.push(Circle{Position: position, Rotation: rotation, Radius: radius}, color, duration, depthTest)
}

// DrawSphere submits a sphere. Spheres are rotation invariant.
func (s *System) DrawSphere(position math.Vec3, radius float32, color math.Vec4, duration float32, depthTest bool) {
	s.push(Sphere{Position: position, Radius: radius}, color, duration, depthTest)
}

// DrawCube submits the box spanning start to end, rotated about its center.
func (s *System) DrawCube(start, end math.Vec3, rotation math.Quaternion, color math.Vec4, duration float32, depthTest bool) {
	s.push(Cube{Start: start, End: end, Rotation: rotation}, color, duration, depthTest)
}

// DrawCapsule submits a capsule; height measures the cylindrical middle.
func (s *System) DrawCapsule(position math.Vec3, rotation math.Quaternion, radius, height float32, color math.Vec4, duration float32, depthTest bool) {
	s.push(Capsule{Position: position, Rotation: rotation, Radius: radius, Height: height}, color, duration, depthTest)
}

// DrawCylinder submits a cylinder.
func (s *System) DrawCylinder(position math.Vec3, rotation math.Quaternion, radius, height float32, color math.Vec4, duration float32, depthTest bool) {
	s.push(Cylinder{Position: position, Rotation: rotation, Radius: radius, Height: height}, color, duration, depthTest)
}

// DrawCone submits a cone pointing along its rotated +Y axis.
func (s *System) DrawCone(position math.Vec3, rotation math.Quaternion, radius, height float32, color math.Vec4, duration float32, depthTest bool) {
	s.push(Cone{Position: position, Rotation: rotation, Radius: radius, Height: height}, color, duration, depthTest)
}

// DrawLine submits a single line segment.
func (s *System) DrawLine(start, end math.Vec3, color math.Vec4, duration float32, depthTest bool) {
	s.push(Line{Start: start, End: end}, color, duration, depthTest)
}

// DrawRay submits a line from origin along direction for the given length.
func (s *System) DrawRay(origin, direction math.Vec3, length float32, color math.Vec4, duration float32, depthTest bool) {
	end := origin.Add(direction.Normalized().MulScalar(length))
	s.DrawLine(origin, end, color, duration, depthTest)
}

// DrawArrow submits a ray capped with a cone head at the far end. The head
// takes a tenth of the length.
func (s *System) DrawArrow(origin, direction math.Vec3, length float32, color math.Vec4, duration float32, depthTest bool) {
	dir := direction.Normalized()
	headHeight := length * 0.1
	shaftEnd := origin.Add(dir.MulScalar(length - headHeight))
	s.DrawLine(origin, shaftEnd, color, duration, depthTest)

	rotation := math.NewQuatBetweenVec3(math.NewVec3Up(), dir)
	headCenter := origin.Add(dir.MulScalar(length - headHeight*0.5))
	s.DrawCone(headCenter, rotation, headHeight*0.35, headHeight, color, duration, depthTest)
}

// DrawBounds submits the twelve edges of an axis-aligned bounding box.
func (s *System) DrawBounds(extents math.Extents3D, color math.Vec4, duration float32, depthTest bool) {
	mn, mx := extents.Min, extents.Max
	corners := [8]math.Vec3{
		{X: mn.X, Y: mn.Y, Z: mn.Z}, {X: mx.X, Y: mn.Y, Z: mn.Z}, {X: mx.X, Y: mn.Y, Z: mx.Z}, {X: mn.X, Y: mn.Y, Z: mx.Z},
		{X: mn.X, Y: mx.Y, Z: mn.Z}, {X: mx.X, Y: mx.Y, Z: mn.Z}, {X: mx.X, Y: mx.Y, Z: mx.Z}, {X: mn.X, Y: mx.Y, Z: mx.Z},
	}
	edges := [12][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
	for _, e := range edges {
		s.DrawLine(corners[e[0]], corners[e[1]], color, duration, depthTest)
	}
}

// Update applies any staged config and ages timed commands by the elapsed
// frame seconds.
func (s *System) Update(elapsed float64) {
	if cfg := s.pending.Swap(nil); cfg != nil {
		s.applyConfig(cfg)
	}
	s.queue.Update(elapsed)
}

// Extract packs the queued commands into per-kind buckets and consumes the
// one-frame submissions.
func (s *System) Extract() {
	s.batch.Extract(s.queue)
}

// Prepare resolves the batched instances into world matrices using the
// configured worker count.
func (s *System) Prepare() {
	s.prepared.Prepare(s.batch, s.cfg.Workers)
}

// StageConfig schedules a validated config for the next Update. Safe to call
// from the watcher goroutine.
func (s *System) StageConfig(cfg *Config) {
	s.pending.Store(cfg)
}

func (s *System) applyConfig(cfg *Config) {
	s.queue.SetCapacities(cfg.MaxPrimitives, cfg.MaxPrimitivesWithLifetime)
	if cfg.Tessellation != s.cfg.Tessellation || cfg.UVSplits != s.cfg.UVSplits {
		// The mesh cache is generated once and shared with the renderer.
		core.LogWarn("tessellation settings (%d, %d) ignored on reload, mesh cache is immutable", cfg.Tessellation, cfg.UVSplits)
		cfg.Tessellation = s.cfg.Tessellation
		cfg.UVSplits = s.cfg.UVSplits
	}
	s.cfg = cfg
}

// Batch exposes the packed buckets for rendering.
func (s *System) Batch() *FrameBatch {
	return s.batch
}

// Prepared exposes the resolved per-instance GPU data.
func (s *System) Prepared() *PreparedFrame {
	return s.prepared
}

// Meshes exposes the canonical mesh cache.
func (s *System) Meshes() *MeshCache {
	return s.meshes
}

// Queue exposes the submission queue, mainly for stats.
func (s *System) Queue() *SubmissionQueue {
	return s.queue
}

// FrameStats summarizes one extracted frame for logging.
type FrameStats struct {
	Instances    int
	LineVertices int
	TimedPending int
	Dropped      uint64
}

func (s *System) Stats() FrameStats {
	return FrameStats{
		Instances:    s.batch.TotalInstances(),
		LineVertices: len(s.batch.Lines()),
		TimedPending: s.queue.TimedCount(),
		Dropped:      s.queue.DroppedCount(),
	}
}
