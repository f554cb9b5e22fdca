package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
)

// Context carries the host engine's Vulkan objects. The debug draw layer
// records into a command buffer the host has already begun inside its render
// pass; it never owns the device, swapchain or synchronization.
type Context struct {
	Device        vk.Device
	GPU           vk.PhysicalDevice
	RenderPass    vk.RenderPass
	CommandBuffer vk.CommandBuffer

	// SPIR-V for the debug draw shaders. The instanced vertex stage
	// consumes the mesh and instance bindings, the line vertex stage a
	// flat position/color stream; view and projection arrive as push
	// constants in both.
	VertexShaderCode     []byte
	LineVertexShaderCode []byte
	FragmentShaderCode   []byte

	Allocator *vk.AllocationCallbacks
}

func (c *Context) validate() error {
	if c.Device == nil {
		return fmt.Errorf("vulkan context: missing logical device")
	}
	if c.GPU == nil {
		return fmt.Errorf("vulkan context: missing physical device")
	}
	if c.RenderPass == nil {
		return fmt.Errorf("vulkan context: missing render pass")
	}
	if len(c.VertexShaderCode) == 0 || len(c.LineVertexShaderCode) == 0 || len(c.FragmentShaderCode) == 0 {
		return fmt.Errorf("vulkan context: missing shader code")
	}
	return nil
}

func createShaderModule(ctx *Context, code []byte) (vk.ShaderModule, error) {
	createInfo := vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint64(len(code)),
		PCode:    sliceUint32(code),
	}

	var shaderModule vk.ShaderModule
	if res := vk.CreateShaderModule(ctx.Device, &createInfo, ctx.Allocator, &shaderModule); res != vk.Success {
		return vk.NullShaderModule, fmt.Errorf("vkCreateShaderModule failed with %d", res)
	}
	return shaderModule, nil
}
