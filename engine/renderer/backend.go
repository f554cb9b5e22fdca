package renderer

import (
	"github.com/spaghettifunk/gizmo/engine/debug"
	"github.com/spaghettifunk/gizmo/engine/math"
)

// FillMode selects how instanced meshes are rasterized.
type FillMode uint8

const (
	FillModeWireframe FillMode = iota
	FillModeSolid
)

// CullMode mirrors the backend face-culling setting.
type CullMode uint8

const (
	CullModeNone CullMode = iota
	CullModeBack
)

// PipelineConfig is the full pipeline state a draw bucket needs. Backends
// may cache one pipeline per distinct config.
type PipelineConfig struct {
	FillMode  FillMode
	DepthTest bool
	CullMode  CullMode
	Blend     bool
	LineList  bool
}

// Backend is the device-facing half of the renderer. Upload methods hand
// over frame data; draw methods record into the current frame. All methods
// run on the render thread.
type Backend interface {
	// UploadMeshes stores the shared canonical mesh buffers. Called once
	// at startup, before any frame.
	UploadMeshes(vertices []debug.Vertex, indices []uint32) error
	// UploadInstances replaces the per-instance transform and color
	// streams for the coming frame.
	UploadInstances(transforms []math.Mat4, colors []math.Vec4) error
	// UploadLines replaces the line-vertex stream for the coming frame.
	UploadLines(vertices []debug.LineVertex) error

	BeginFrame(view, proj math.Mat4) error
	BindPipeline(cfg PipelineConfig) error
	DrawIndexedInstanced(indexCount, instanceCount, firstIndex, vertexOffset, firstInstance uint32)
	DrawLines(vertexCount, firstVertex uint32)
	EndFrame() error

	Shutdown() error
}
