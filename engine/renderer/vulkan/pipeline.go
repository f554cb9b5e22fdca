package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/gizmo/engine/core"
	"github.com/spaghettifunk/gizmo/engine/renderer"
)

const (
	meshVertexStride = 5 * 4  // vec3 position + vec2 texcoord
	lineVertexStride = 7 * 4  // vec3 position + vec4 color
	instanceStride   = 20 * 4 // mat4 transform + vec4 color
	// View and projection matrices travel as push constants; 128 bytes is
	// the guaranteed minimum budget and exactly what two mat4s need.
	pushConstantSize = 128
)

/**
 * @brief Holds a Vulkan pipeline and its layout.
 */
type pipeline struct {
	handle vk.Pipeline
	layout vk.PipelineLayout
}

// meshAttributes describes binding 0 (canonical mesh vertex) and binding 1
// (per-instance transform columns plus color).
func meshAttributes() []vk.VertexInputAttributeDescription {
	attrs := []vk.VertexInputAttributeDescription{
		{Location: 0, Binding: 0, Format: vk.FormatR32g32b32Sfloat, Offset: 0},
		{Location: 1, Binding: 0, Format: vk.FormatR32g32Sfloat, Offset: 12},
	}
	// mat4 occupies four consecutive vec4 attribute locations.
	for i := uint32(0); i < 4; i++ {
		attrs = append(attrs, vk.VertexInputAttributeDescription{
			Location: 2 + i, Binding: 1, Format: vk.FormatR32g32b32a32Sfloat, Offset: i * 16,
		})
	}
	attrs = append(attrs, vk.VertexInputAttributeDescription{
		Location: 6, Binding: 1, Format: vk.FormatR32g32b32a32Sfloat, Offset: 64,
	})
	return attrs
}

func lineAttributes() []vk.VertexInputAttributeDescription {
	return []vk.VertexInputAttributeDescription{
		{Location: 0, Binding: 0, Format: vk.FormatR32g32b32Sfloat, Offset: 0},
		{Location: 1, Binding: 0, Format: vk.FormatR32g32b32a32Sfloat, Offset: 12},
	}
}

func newPipeline(ctx *Context, cfg renderer.PipelineConfig, stages []vk.PipelineShaderStageCreateInfo, extent vk.Extent2D) (*pipeline, error) {
	out := &pipeline{}

	viewport := vk.Viewport{
		X: 0, Y: 0,
		Width:    float32(extent.Width),
		Height:   float32(extent.Height),
		MinDepth: 0, MaxDepth: 1,
	}
	scissor := vk.Rect2D{Offset: vk.Offset2D{X: 0, Y: 0}, Extent: extent}

	viewportState := vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		ViewportCount: 1,
		PViewports:    []vk.Viewport{viewport},
		ScissorCount:  1,
		PScissors:     []vk.Rect2D{scissor},
	}
	viewportState.Deref()

	rasterizerCreateInfo := vk.PipelineRasterizationStateCreateInfo{
		SType:                   vk.StructureTypePipelineRasterizationStateCreateInfo,
		DepthClampEnable:        vk.False,
		RasterizerDiscardEnable: vk.False,
		PolygonMode:             vk.PolygonModeLine,
		LineWidth:               1.0,
		FrontFace:               vk.FrontFaceCounterClockwise,
		DepthBiasEnable:         vk.False,
	}
	if cfg.FillMode == renderer.FillModeSolid {
		rasterizerCreateInfo.PolygonMode = vk.PolygonModeFill
	}
	switch cfg.CullMode {
	case renderer.CullModeBack:
		rasterizerCreateInfo.CullMode = vk.CullModeFlags(vk.CullModeBackBit)
	default:
		rasterizerCreateInfo.CullMode = vk.CullModeFlags(vk.CullModeNone)
	}
	rasterizerCreateInfo.Deref()

	multisamplingCreateInfo := vk.PipelineMultisampleStateCreateInfo{
		SType:                 vk.StructureTypePipelineMultisampleStateCreateInfo,
		SampleShadingEnable:   vk.False,
		RasterizationSamples:  vk.SampleCount1Bit,
		MinSampleShading:      1.0,
		AlphaToCoverageEnable: vk.False,
		AlphaToOneEnable:      vk.False,
	}
	multisamplingCreateInfo.Deref()

	depthStencil := vk.PipelineDepthStencilStateCreateInfo{
		SType:             vk.StructureTypePipelineDepthStencilStateCreateInfo,
		DepthTestEnable:   vk.False,
		DepthWriteEnable:  vk.False,
		StencilTestEnable: vk.False,
	}
	if cfg.DepthTest {
		depthStencil.DepthTestEnable = vk.True
		depthStencil.DepthCompareOp = vk.CompareOpLess
		depthStencil.DepthBoundsTestEnable = vk.False
	}
	depthStencil.Deref()

	colorBlendAttachmentState := vk.PipelineColorBlendAttachmentState{
		BlendEnable: vk.False,
		ColorWriteMask: vk.ColorComponentFlags(vk.ColorComponentRBit) | vk.ColorComponentFlags(vk.ColorComponentGBit) |
			vk.ColorComponentFlags(vk.ColorComponentBBit) | vk.ColorComponentFlags(vk.ColorComponentABit),
	}
	if cfg.Blend {
		colorBlendAttachmentState.BlendEnable = vk.True
		colorBlendAttachmentState.SrcColorBlendFactor = vk.BlendFactorSrcAlpha
		colorBlendAttachmentState.DstColorBlendFactor = vk.BlendFactorOneMinusSrcAlpha
		colorBlendAttachmentState.ColorBlendOp = vk.BlendOpAdd
		colorBlendAttachmentState.SrcAlphaBlendFactor = vk.BlendFactorSrcAlpha
		colorBlendAttachmentState.DstAlphaBlendFactor = vk.BlendFactorOneMinusSrcAlpha
		colorBlendAttachmentState.AlphaBlendOp = vk.BlendOpAdd
	}
	colorBlendAttachmentState.Deref()

	colorBlendStateCreateInfo := vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		LogicOpEnable:   vk.False,
		LogicOp:         vk.LogicOpCopy,
		AttachmentCount: 1,
		PAttachments:    []vk.PipelineColorBlendAttachmentState{colorBlendAttachmentState},
	}
	colorBlendStateCreateInfo.Deref()

	dynamicStates := []vk.DynamicState{
		vk.DynamicStateViewport,
		vk.DynamicStateScissor,
		vk.DynamicStateLineWidth,
	}
	dynamicStateCreateInfo := vk.PipelineDynamicStateCreateInfo{
		SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
		DynamicStateCount: uint32(len(dynamicStates)),
		PDynamicStates:    dynamicStates,
	}
	dynamicStateCreateInfo.Deref()

	var bindings []vk.VertexInputBindingDescription
	var attributes []vk.VertexInputAttributeDescription
	if cfg.LineList {
		bindings = []vk.VertexInputBindingDescription{
			{Binding: 0, Stride: lineVertexStride, InputRate: vk.VertexInputRateVertex},
		}
		attributes = lineAttributes()
	} else {
		bindings = []vk.VertexInputBindingDescription{
			{Binding: 0, Stride: meshVertexStride, InputRate: vk.VertexInputRateVertex},
			{Binding: 1, Stride: instanceStride, InputRate: vk.VertexInputRateInstance},
		}
		attributes = meshAttributes()
	}
	for i := range bindings {
		bindings[i].Deref()
	}

	vertexInputInfo := vk.PipelineVertexInputStateCreateInfo{
		SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
		VertexBindingDescriptionCount:   uint32(len(bindings)),
		PVertexBindingDescriptions:      bindings,
		VertexAttributeDescriptionCount: uint32(len(attributes)),
		PVertexAttributeDescriptions:    attributes,
	}
	vertexInputInfo.Deref()

	inputAssembly := vk.PipelineInputAssemblyStateCreateInfo{
		SType:                  vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology:               vk.PrimitiveTopologyTriangleList,
		PrimitiveRestartEnable: vk.False,
	}
	if cfg.LineList {
		inputAssembly.Topology = vk.PrimitiveTopologyLineList
	}
	inputAssembly.Deref()

	pushRange := vk.PushConstantRange{
		StageFlags: vk.ShaderStageFlags(vk.ShaderStageVertexBit),
		Offset:     0,
		Size:       pushConstantSize,
	}
	pushRange.Deref()

	pipelineLayoutCreateInfo := vk.PipelineLayoutCreateInfo{
		SType:                  vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount:         0,
		PushConstantRangeCount: 1,
		PPushConstantRanges:    []vk.PushConstantRange{pushRange},
	}
	pipelineLayoutCreateInfo.Deref()

	var pPipelineLayout vk.PipelineLayout
	result := vk.CreatePipelineLayout(ctx.Device, &pipelineLayoutCreateInfo, ctx.Allocator, &pPipelineLayout)
	if result != vk.Success {
		return nil, fmt.Errorf("vkCreatePipelineLayout failed with %d", result)
	}
	out.layout = pPipelineLayout

	pipelineCreateInfo := vk.GraphicsPipelineCreateInfo{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount:          uint32(len(stages)),
		PStages:             stages,
		PVertexInputState:   &vertexInputInfo,
		PInputAssemblyState: &inputAssembly,
		PViewportState:      &viewportState,
		PRasterizationState: &rasterizerCreateInfo,
		PMultisampleState:   &multisamplingCreateInfo,
		PDepthStencilState:  &depthStencil,
		PColorBlendState:    &colorBlendStateCreateInfo,
		PDynamicState:       &dynamicStateCreateInfo,
		Layout:              out.layout,
		RenderPass:          ctx.RenderPass,
		Subpass:             0,
		BasePipelineHandle:  vk.NullPipeline,
		BasePipelineIndex:   -1,
	}
	pipelineCreateInfo.Deref()

	pPipelines := []vk.Pipeline{out.handle}
	result = vk.CreateGraphicsPipelines(ctx.Device, vk.NullPipelineCache, 1,
		[]vk.GraphicsPipelineCreateInfo{pipelineCreateInfo}, ctx.Allocator, pPipelines)
	if result != vk.Success {
		vk.DestroyPipelineLayout(ctx.Device, out.layout, ctx.Allocator)
		return nil, fmt.Errorf("vkCreateGraphicsPipelines failed with %d", result)
	}
	out.handle = pPipelines[0]

	core.LogDebug("Graphics pipeline created!")
	return out, nil
}

func (p *pipeline) destroy(ctx *Context) {
	if p.handle != vk.NullPipeline {
		vk.DestroyPipeline(ctx.Device, p.handle, ctx.Allocator)
		p.handle = vk.NullPipeline
	}
	if p.layout != vk.NullPipelineLayout {
		vk.DestroyPipelineLayout(ctx.Device, p.layout, ctx.Allocator)
		p.layout = vk.NullPipelineLayout
	}
}
