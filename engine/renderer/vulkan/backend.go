package vulkan

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/gizmo/engine/core"
	"github.com/spaghettifunk/gizmo/engine/debug"
	"github.com/spaghettifunk/gizmo/engine/math"
	"github.com/spaghettifunk/gizmo/engine/renderer"
)

// instanceData is the per-instance vertex stream record, binding 1 of the
// mesh pipelines. Layout must match instanceStride.
type instanceData struct {
	Transform math.Mat4
	Color     math.Vec4
}

// Backend records debug draw commands into a host-owned command buffer. One
// pipeline is created lazily per distinct pipeline config and cached for the
// backend's lifetime.
type Backend struct {
	ctx    *Context
	extent vk.Extent2D

	vertShader     vk.ShaderModule
	lineVertShader vk.ShaderModule
	fragShader     vk.ShaderModule
	meshStages     []vk.PipelineShaderStageCreateInfo
	lineStages     []vk.PipelineShaderStageCreateInfo

	pipelines map[renderer.PipelineConfig]*pipeline
	bound     *pipeline

	meshVertices *buffer
	meshIndices  *buffer
	instances    *buffer
	lines        *buffer

	instanceScratch []instanceData
	pushData        [32]float32
	instanceCount   int
	lineCount       int
}

func NewBackend(ctx *Context, width, height uint32) (*Backend, error) {
	if err := ctx.validate(); err != nil {
		return nil, err
	}

	vert, err := createShaderModule(ctx, ctx.VertexShaderCode)
	if err != nil {
		return nil, fmt.Errorf("create vertex shader: %w", err)
	}
	lineVert, err := createShaderModule(ctx, ctx.LineVertexShaderCode)
	if err != nil {
		vk.DestroyShaderModule(ctx.Device, vert, ctx.Allocator)
		return nil, fmt.Errorf("create line vertex shader: %w", err)
	}
	frag, err := createShaderModule(ctx, ctx.FragmentShaderCode)
	if err != nil {
		vk.DestroyShaderModule(ctx.Device, vert, ctx.Allocator)
		vk.DestroyShaderModule(ctx.Device, lineVert, ctx.Allocator)
		return nil, fmt.Errorf("create fragment shader: %w", err)
	}

	makeStages := func(vertModule vk.ShaderModule) []vk.PipelineShaderStageCreateInfo {
		stages := []vk.PipelineShaderStageCreateInfo{
			{
				SType:  vk.StructureTypePipelineShaderStageCreateInfo,
				Stage:  vk.ShaderStageVertexBit,
				Module: vertModule,
				PName:  "main\x00",
			},
			{
				SType:  vk.StructureTypePipelineShaderStageCreateInfo,
				Stage:  vk.ShaderStageFragmentBit,
				Module: frag,
				PName:  "main\x00",
			},
		}
		for i := range stages {
			stages[i].Deref()
		}
		return stages
	}

	return &Backend{
		ctx:            ctx,
		extent:         vk.Extent2D{Width: width, Height: height},
		vertShader:     vert,
		lineVertShader: lineVert,
		fragShader:     frag,
		meshStages:     makeStages(vert),
		lineStages:     makeStages(lineVert),
		pipelines:      make(map[renderer.PipelineConfig]*pipeline),
	}, nil
}

func (b *Backend) UploadMeshes(vertices []debug.Vertex, indices []uint32) error {
	var err error
	b.meshVertices, err = createBuffer(b.ctx,
		vk.DeviceSize(len(vertices)*meshVertexStride),
		vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit))
	if err != nil {
		return fmt.Errorf("create mesh vertex buffer: %w", err)
	}
	if err := b.meshVertices.load(b.ctx, sliceToBytes(vertices)); err != nil {
		return fmt.Errorf("load mesh vertices: %w", err)
	}

	b.meshIndices, err = createBuffer(b.ctx,
		vk.DeviceSize(len(indices)*4),
		vk.BufferUsageFlags(vk.BufferUsageIndexBufferBit))
	if err != nil {
		return fmt.Errorf("create mesh index buffer: %w", err)
	}
	if err := b.meshIndices.load(b.ctx, sliceToBytes(indices)); err != nil {
		return fmt.Errorf("load mesh indices: %w", err)
	}

	core.LogInfo("uploaded %d canonical mesh vertices, %d indices", len(vertices), len(indices))
	return nil
}

func (b *Backend) UploadInstances(transforms []math.Mat4, colors []math.Vec4) error {
	b.instanceCount = len(transforms)
	if b.instanceCount == 0 {
		return nil
	}

	if cap(b.instanceScratch) < b.instanceCount {
		b.instanceScratch = make([]instanceData, b.instanceCount)
	}
	b.instanceScratch = b.instanceScratch[:b.instanceCount]
	for i := range transforms {
		b.instanceScratch[i] = instanceData{Transform: transforms[i], Color: colors[i]}
	}

	if b.instances == nil {
		var err error
		b.instances, err = createBuffer(b.ctx,
			vk.DeviceSize(b.instanceCount*instanceStride),
			vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit))
		if err != nil {
			return fmt.Errorf("create instance buffer: %w", err)
		}
	}
	return b.instances.load(b.ctx, sliceToBytes(b.instanceScratch))
}

func (b *Backend) UploadLines(vertices []debug.LineVertex) error {
	b.lineCount = len(vertices)
	if b.lineCount == 0 {
		return nil
	}
	if b.lines == nil {
		var err error
		b.lines, err = createBuffer(b.ctx,
			vk.DeviceSize(b.lineCount*lineVertexStride),
			vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit))
		if err != nil {
			return fmt.Errorf("create line buffer: %w", err)
		}
	}
	return b.lines.load(b.ctx, sliceToBytes(vertices))
}

// BeginFrame stages the view and projection matrices. The host engine has
// already begun the command buffer and render pass.
func (b *Backend) BeginFrame(view, proj math.Mat4) error {
	copy(b.pushData[:16], view.Data[:])
	copy(b.pushData[16:], proj.Data[:])
	b.bound = nil
	return nil
}

func (b *Backend) BindPipeline(cfg renderer.PipelineConfig) error {
	p, ok := b.pipelines[cfg]
	if !ok {
		stages := b.meshStages
		if cfg.LineList {
			stages = b.lineStages
		}
		var err error
		p, err = newPipeline(b.ctx, cfg, stages, b.extent)
		if err != nil {
			return err
		}
		b.pipelines[cfg] = p
	}

	cmd := b.ctx.CommandBuffer
	vk.CmdBindPipeline(cmd, vk.PipelineBindPointGraphics, p.handle)
	b.bound = p

	viewport := vk.Viewport{
		X: 0, Y: 0,
		Width:    float32(b.extent.Width),
		Height:   float32(b.extent.Height),
		MinDepth: 0, MaxDepth: 1,
	}
	vk.CmdSetViewport(cmd, 0, 1, []vk.Viewport{viewport})
	vk.CmdSetScissor(cmd, 0, 1, []vk.Rect2D{{Offset: vk.Offset2D{X: 0, Y: 0}, Extent: b.extent}})
	vk.CmdSetLineWidth(cmd, 1.0)

	vk.CmdPushConstants(cmd, p.layout,
		vk.ShaderStageFlags(vk.ShaderStageVertexBit),
		0, pushConstantSize, unsafe.Pointer(&b.pushData[0]))

	if cfg.LineList {
		if b.lines != nil {
			vk.CmdBindVertexBuffers(cmd, 0, 1, []vk.Buffer{b.lines.handle}, []vk.DeviceSize{0})
		}
		return nil
	}

	buffers := []vk.Buffer{b.meshVertices.handle}
	offsets := []vk.DeviceSize{0}
	if b.instances != nil {
		buffers = append(buffers, b.instances.handle)
		offsets = append(offsets, 0)
	}
	vk.CmdBindVertexBuffers(cmd, 0, uint32(len(buffers)), buffers, offsets)
	vk.CmdBindIndexBuffer(cmd, b.meshIndices.handle, 0, vk.IndexTypeUint32)
	return nil
}

func (b *Backend) DrawIndexedInstanced(indexCount, instanceCount, firstIndex, vertexOffset, firstInstance uint32) {
	vk.CmdDrawIndexed(b.ctx.CommandBuffer, indexCount, instanceCount, firstIndex, int32(vertexOffset), firstInstance)
}

func (b *Backend) DrawLines(vertexCount, firstVertex uint32) {
	vk.CmdDraw(b.ctx.CommandBuffer, vertexCount, 1, firstVertex, 0)
}

// EndFrame is a no-op; submission belongs to the host engine.
func (b *Backend) EndFrame() error {
	return nil
}

func (b *Backend) Shutdown() error {
	for _, p := range b.pipelines {
		p.destroy(b.ctx)
	}
	b.pipelines = nil

	for _, buf := range []*buffer{b.meshVertices, b.meshIndices, b.instances, b.lines} {
		if buf != nil {
			buf.destroy(b.ctx)
		}
	}

	for _, m := range []vk.ShaderModule{b.vertShader, b.lineVertShader, b.fragShader} {
		if m != vk.NullShaderModule {
			vk.DestroyShaderModule(b.ctx.Device, m, b.ctx.Allocator)
		}
	}
	return nil
}
