package debug

import (
	"testing"

	"github.com/spaghettifunk/gizmo/engine/math"
)

func newTestSystem(t *testing.T) *System {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Tessellation = 8
	cfg.UVSplits = 2
	s, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSystemFrameLifecycle(t *testing.T) {
	s := newTestSystem(t)

	// A one-frame sphere shows up exactly once.
	s.DrawSphere(math.NewVec3(1, 2, 3), 0.5, math.NewVec4One(), 0, true)

	s.Update(0.016)
	s.Extract()
	s.Prepare()

	if got := s.Batch().TotalInstances(); got != 1 {
		t.Fatalf("frame 1 instances = %d, want 1", got)
	}
	inst := s.Batch().Instances()[0]
	if !inst.Scale.Compare(math.NewVec3One(), 1e-6) {
		t.Errorf("scale = %v, want unit", inst.Scale)
	}
	if inst.Rotation != math.NewQuatIdentity() {
		t.Errorf("rotation = %v, want identity", inst.Rotation)
	}

	s.Update(0.016)
	s.Extract()
	if got := s.Batch().TotalInstances(); got != 0 {
		t.Fatalf("frame 2 instances = %d, want 0", got)
	}
}

func TestSystemTimedCommandPersists(t *testing.T) {
	s := newTestSystem(t)
	s.DrawCube(math.NewVec3Zero(), math.NewVec3One(), math.NewQuatIdentity(), math.NewVec4One(), 0.1, true)

	for frame := 0; frame < 3; frame++ {
		s.Update(0.03)
		s.Extract()
		if got := s.Batch().TotalInstances(); got != 1 {
			t.Fatalf("frame %d instances = %d, want 1", frame, got)
		}
	}

	// Fourth update pushes the lifetime past 0.1s.
	s.Update(0.03)
	s.Extract()
	if got := s.Batch().TotalInstances(); got != 0 {
		t.Fatalf("expired command still batched")
	}
}

func TestSystemDefaultColor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultColor = [4]float32{0, 1, 0, 1}
	s, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}

	s.DrawSphere(math.NewVec3Zero(), 1, math.Vec4{}, 0, true)
	s.Extract()

	if got := s.Batch().Instances()[0].Color; got != math.NewVec4(0, 1, 0, 1) {
		t.Fatalf("color = %v, want configured default", got)
	}
}

func TestSystemDrawBounds(t *testing.T) {
	s := newTestSystem(t)
	s.DrawBounds(math.Extents3D{
		Min: math.NewVec3(-1, -1, -1),
		Max: math.NewVec3(1, 1, 1),
	}, math.NewVec4One(), 0, true)
	s.Extract()

	// Twelve edges, two vertices each.
	if got := len(s.Batch().Lines()); got != 24 {
		t.Fatalf("line vertices = %d, want 24", got)
	}
}

func TestSystemDrawArrow(t *testing.T) {
	s := newTestSystem(t)
	s.DrawArrow(math.NewVec3Zero(), math.NewVec3(0, 0, 1), 2, math.NewVec4One(), 0, true)
	s.Extract()

	b := s.Batch()
	if got := len(b.Lines()); got != 2 {
		t.Fatalf("line vertices = %d, want 2", got)
	}
	if got := b.InstanceCount(true, KindCone); got != 1 {
		t.Fatalf("cone head instances = %d, want 1", got)
	}

	// The head points along the arrow direction: the cone's +Y axis is
	// rotated onto +Z, a quarter turn about +X.
	inst := b.Instances()[b.InstanceOffset(true, KindCone)]
	want := math.NewQuatFromAxisAngle(math.NewVec3(1, 0, 0), math.K_HALF_PI, true)
	got := math.NewVec4(inst.Rotation.X, inst.Rotation.Y, inst.Rotation.Z, inst.Rotation.W)
	if !got.Compare(math.NewVec4(want.X, want.Y, want.Z, want.W), 1e-4) {
		t.Errorf("cone rotation = %v, want %v", inst.Rotation, want)
	}
}

func TestSystemStagedConfigAppliesAtUpdate(t *testing.T) {
	s := newTestSystem(t)

	next := DefaultConfig()
	next.MaxPrimitives = 2
	next.MaxPrimitivesWithLifetime = 2
	s.StageConfig(next)

	// Before Update the old capacity still holds.
	for i := 0; i < 5; i++ {
		s.DrawSphere(math.NewVec3Zero(), 1, math.NewVec4One(), 0, true)
	}
	if got := s.Queue().TransientCount(); got != 5 {
		t.Fatalf("pre-update transient count = %d, want 5", got)
	}

	s.Update(0.016)
	if got := s.Queue().TransientCount(); got != 2 {
		t.Fatalf("post-update transient count = %d, want 2", got)
	}

	// Tessellation changes are ignored: the mesh cache stays as built.
	circle := s.Meshes().Mesh(KindCircle)
	reload := DefaultConfig()
	reload.Tessellation = 32
	s.StageConfig(reload)
	s.Update(0.016)
	if s.Meshes().Mesh(KindCircle) != circle {
		t.Fatal("mesh cache changed on reload")
	}
}

func TestSystemStats(t *testing.T) {
	s := newTestSystem(t)
	s.DrawSphere(math.NewVec3Zero(), 1, math.NewVec4One(), 0, true)
	s.DrawLine(math.NewVec3Zero(), math.NewVec3One(), math.NewVec4One(), 5, false)
	s.Update(0.016)
	s.Extract()

	stats := s.Stats()
	if stats.Instances != 1 {
		t.Errorf("stats instances = %d, want 1", stats.Instances)
	}
	if stats.LineVertices != 2 {
		t.Errorf("stats line vertices = %d, want 2", stats.LineVertices)
	}
	if stats.TimedPending != 1 {
		t.Errorf("stats timed pending = %d, want 1", stats.TimedPending)
	}
}
