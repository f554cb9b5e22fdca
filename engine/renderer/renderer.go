package renderer

import (
	"fmt"

	"github.com/spaghettifunk/gizmo/engine/debug"
	"github.com/spaghettifunk/gizmo/engine/math"
)

// Renderer turns one prepared debug frame into backend draw calls. The
// canonical meshes are uploaded once; per frame only the instance and line
// streams move. Depth-tested buckets draw first, then the depth-ignoring
// ones, one instanced draw per non-empty bucket.
type Renderer struct {
	backend Backend
	meshes  *debug.MeshCache
}

func New(backend Backend, meshes *debug.MeshCache) (*Renderer, error) {
	if err := backend.UploadMeshes(meshes.Vertices(), meshes.Indices()); err != nil {
		return nil, fmt.Errorf("upload canonical meshes: %w", err)
	}
	return &Renderer{
		backend: backend,
		meshes:  meshes,
	}, nil
}

// DrawFrame uploads the frame data and records both depth groups.
func (r *Renderer) DrawFrame(batch *debug.FrameBatch, prepared *debug.PreparedFrame, view, proj math.Mat4) error {
	if err := r.backend.UploadInstances(prepared.Transforms, prepared.Colors); err != nil {
		return fmt.Errorf("upload instances: %w", err)
	}
	if err := r.backend.UploadLines(batch.Lines()); err != nil {
		return fmt.Errorf("upload lines: %w", err)
	}
	if err := r.backend.BeginFrame(view, proj); err != nil {
		return fmt.Errorf("begin frame: %w", err)
	}

	for _, depthTest := range [2]bool{true, false} {
		if err := r.drawGroup(batch, depthTest); err != nil {
			return err
		}
	}

	if err := r.backend.EndFrame(); err != nil {
		return fmt.Errorf("end frame: %w", err)
	}
	return nil
}

func (r *Renderer) drawGroup(batch *debug.FrameBatch, depthTest bool) error {
	bound := false
	for k := 0; k < debug.InstancedKindCount; k++ {
		kind := debug.ShapeKind(k)
		count := batch.InstanceCount(depthTest, kind)
		if count == 0 {
			continue
		}
		if !bound {
			if err := r.backend.BindPipeline(PipelineConfig{
				FillMode:  FillModeWireframe,
				DepthTest: depthTest,
				CullMode:  CullModeNone,
				Blend:     true,
			}); err != nil {
				return fmt.Errorf("bind instanced pipeline: %w", err)
			}
			bound = true
		}
		mesh := r.meshes.Mesh(kind)
		r.backend.DrawIndexedInstanced(
			uint32(len(mesh.Indices)),
			uint32(count),
			mesh.IndexOffset,
			mesh.VertexOffset,
			uint32(batch.InstanceOffset(depthTest, kind)),
		)
	}

	if lineCount := batch.LineCount(depthTest); lineCount > 0 {
		if err := r.backend.BindPipeline(PipelineConfig{
			FillMode:  FillModeWireframe,
			DepthTest: depthTest,
			CullMode:  CullModeNone,
			Blend:     true,
			LineList:  true,
		}); err != nil {
			return fmt.Errorf("bind line pipeline: %w", err)
		}
		r.backend.DrawLines(uint32(lineCount), uint32(batch.LineOffset(depthTest)))
	}

	return nil
}

// Shutdown releases the backend resources.
func (r *Renderer) Shutdown() error {
	return r.backend.Shutdown()
}
