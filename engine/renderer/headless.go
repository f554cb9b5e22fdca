package renderer

import (
	"github.com/spaghettifunk/gizmo/engine/debug"
	"github.com/spaghettifunk/gizmo/engine/math"
)

// RecordedDraw captures one backend draw call for inspection.
type RecordedDraw struct {
	Pipeline      PipelineConfig
	IndexCount    uint32
	InstanceCount uint32
	FirstIndex    uint32
	VertexOffset  uint32
	FirstInstance uint32
	VertexCount   uint32
	FirstVertex   uint32
	IsLines       bool
}

// Headless is a backend that records calls instead of touching a GPU. It
// backs tests and the demo driver on machines without Vulkan.
type Headless struct {
	MeshVertices []debug.Vertex
	MeshIndices  []uint32
	Transforms   []math.Mat4
	Colors       []math.Vec4
	LineVertices []debug.LineVertex

	Draws      []RecordedDraw
	FrameCount int

	pipeline PipelineConfig
}

func NewHeadless() *Headless {
	return &Headless{}
}

func (h *Headless) UploadMeshes(vertices []debug.Vertex, indices []uint32) error {
	h.MeshVertices = vertices
	h.MeshIndices = indices
	return nil
}

func (h *Headless) UploadInstances(transforms []math.Mat4, colors []math.Vec4) error {
	h.Transforms = transforms
	h.Colors = colors
	return nil
}

func (h *Headless) UploadLines(vertices []debug.LineVertex) error {
	h.LineVertices = vertices
	return nil
}

func (h *Headless) BeginFrame(view, proj math.Mat4) error {
	h.Draws = h.Draws[:0]
	return nil
}

func (h *Headless) BindPipeline(cfg PipelineConfig) error {
	h.pipeline = cfg
	return nil
}

func (h *Headless) DrawIndexedInstanced(indexCount, instanceCount, firstIndex, vertexOffset, firstInstance uint32) {
	h.Draws = append(h.Draws, RecordedDraw{
		Pipeline:      h.pipeline,
		IndexCount:    indexCount,
		InstanceCount: instanceCount,
		FirstIndex:    firstIndex,
		VertexOffset:  vertexOffset,
		FirstInstance: firstInstance,
	})
}

func (h *Headless) DrawLines(vertexCount, firstVertex uint32) {
	h.Draws = append(h.Draws, RecordedDraw{
		Pipeline:    h.pipeline,
		VertexCount: vertexCount,
		FirstVertex: firstVertex,
		IsLines:     true,
	})
}

func (h *Headless) EndFrame() error {
	h.FrameCount++
	return nil
}

func (h *Headless) Shutdown() error {
	return nil
}
