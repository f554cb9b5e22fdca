package renderer

import (
	"testing"

	"github.com/spaghettifunk/gizmo/engine/debug"
	"github.com/spaghettifunk/gizmo/engine/math"
)

func newTestScene(t *testing.T) (*debug.System, *Headless, *Renderer) {
	t.Helper()
	cfg := debug.DefaultConfig()
	cfg.Tessellation = 8
	cfg.UVSplits = 2
	system, err := debug.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	backend := NewHeadless()
	r, err := New(backend, system.Meshes())
	if err != nil {
		t.Fatal(err)
	}
	return system, backend, r
}

func drawFrame(t *testing.T, s *debug.System, r *Renderer) {
	t.Helper()
	s.Update(0.016)
	s.Extract()
	s.Prepare()
	view := math.NewMat4Identity()
	proj := math.NewMat4Identity()
	if err := r.DrawFrame(s.Batch(), s.Prepared(), view, proj); err != nil {
		t.Fatal(err)
	}
}

func TestRendererUploadsMeshesOnce(t *testing.T) {
	system, backend, _ := newTestScene(t)

	if got, want := len(backend.MeshVertices), len(system.Meshes().Vertices()); got != want {
		t.Fatalf("uploaded vertices = %d, want %d", got, want)
	}
	if got, want := len(backend.MeshIndices), len(system.Meshes().Indices()); got != want {
		t.Fatalf("uploaded indices = %d, want %d", got, want)
	}
}

func TestRendererOneDrawPerBucket(t *testing.T) {
	system, backend, r := newTestScene(t)

	white := math.NewVec4One()
	system.DrawSphere(math.NewVec3Zero(), 1, white, 0, true)
	system.DrawSphere(math.NewVec3One(), 2, white, 0, true)
	system.DrawCube(math.NewVec3Zero(), math.NewVec3One(), math.NewQuatIdentity(), white, 0, true)
	system.DrawSphere(math.NewVec3Zero(), 3, white, 0, false)
	system.DrawLine(math.NewVec3Zero(), math.NewVec3One(), white, 0, false)

	drawFrame(t, system, r)

	// Buckets: depth {sphere x2, cube}, no-depth {sphere}, plus one line
	// draw. Two instanced draws in group 0, one in group 1, one line draw.
	var instanced, lines int
	for _, d := range backend.Draws {
		if d.IsLines {
			lines++
		} else {
			instanced++
		}
	}
	if instanced != 3 {
		t.Errorf("instanced draws = %d, want 3", instanced)
	}
	if lines != 1 {
		t.Errorf("line draws = %d, want 1", lines)
	}

	// Depth-tested draws come first.
	for i, d := range backend.Draws {
		if i < 2 && !d.Pipeline.DepthTest {
			t.Errorf("draw %d should be depth tested", i)
		}
		if i >= 2 && d.Pipeline.DepthTest {
			t.Errorf("draw %d should not be depth tested", i)
		}
	}
}

func TestRendererInstanceOffsets(t *testing.T) {
	system, backend, r := newTestScene(t)

	white := math.NewVec4One()
	system.DrawSphere(math.NewVec3Zero(), 1, white, 0, true)
	system.DrawSphere(math.NewVec3One(), 2, white, 0, true)
	system.DrawCone(math.NewVec3Zero(), math.NewQuatIdentity(), 1, 2, white, 0, false)

	drawFrame(t, system, r)

	batch := system.Batch()
	meshes := system.Meshes()
	for _, d := range backend.Draws {
		if d.IsLines {
			continue
		}
		switch {
		case d.InstanceCount == 2:
			sphere := meshes.Mesh(debug.KindSphere)
			if d.FirstIndex != sphere.IndexOffset || d.VertexOffset != sphere.VertexOffset {
				t.Errorf("sphere draw offsets = (%d, %d), want (%d, %d)",
					d.FirstIndex, d.VertexOffset, sphere.IndexOffset, sphere.VertexOffset)
			}
			if got := int(d.FirstInstance); got != batch.InstanceOffset(true, debug.KindSphere) {
				t.Errorf("sphere first instance = %d, want %d", got, batch.InstanceOffset(true, debug.KindSphere))
			}
		case d.InstanceCount == 1:
			cone := meshes.Mesh(debug.KindCone)
			if got, want := d.IndexCount, uint32(len(cone.Indices)); got != want {
				t.Errorf("cone index count = %d, want %d", got, want)
			}
			if got := int(d.FirstInstance); got != batch.InstanceOffset(false, debug.KindCone) {
				t.Errorf("cone first instance = %d, want %d", got, batch.InstanceOffset(false, debug.KindCone))
			}
		default:
			t.Errorf("unexpected draw with %d instances", d.InstanceCount)
		}
	}
}

func TestRendererEmptyFrame(t *testing.T) {
	system, backend, r := newTestScene(t)
	drawFrame(t, system, r)

	if len(backend.Draws) != 0 {
		t.Fatalf("empty frame produced %d draws", len(backend.Draws))
	}
	if backend.FrameCount != 1 {
		t.Fatalf("frame count = %d, want 1", backend.FrameCount)
	}
}

func TestRendererLinePipeline(t *testing.T) {
	system, backend, r := newTestScene(t)

	system.DrawLine(math.NewVec3Zero(), math.NewVec3One(), math.NewVec4One(), 0, true)
	system.DrawLine(math.NewVec3One(), math.NewVec3Zero(), math.NewVec4One(), 0, false)
	drawFrame(t, system, r)

	if len(backend.Draws) != 2 {
		t.Fatalf("draws = %d, want 2", len(backend.Draws))
	}
	for i, d := range backend.Draws {
		if !d.IsLines || !d.Pipeline.LineList {
			t.Errorf("draw %d is not a line-list draw", i)
		}
		if d.VertexCount != 2 {
			t.Errorf("draw %d vertex count = %d, want 2", i, d.VertexCount)
		}
	}
	if backend.Draws[0].FirstVertex != 0 || backend.Draws[1].FirstVertex != 2 {
		t.Errorf("line offsets = %d, %d; want 0, 2",
			backend.Draws[0].FirstVertex, backend.Draws[1].FirstVertex)
	}
}
