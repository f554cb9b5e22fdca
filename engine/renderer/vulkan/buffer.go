package vulkan

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"
)

// buffer is a host-visible Vulkan buffer. Debug draw data changes every
// frame, so everything stays in host-coherent memory and is rewritten with a
// map/copy/unmap, no staging.
type buffer struct {
	handle vk.Buffer
	memory vk.DeviceMemory
	size   vk.DeviceSize
	usage  vk.BufferUsageFlags
}

func createBuffer(ctx *Context, size vk.DeviceSize, usage vk.BufferUsageFlags) (*buffer, error) {
	bufferInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        size,
		Usage:       usage,
		SharingMode: vk.SharingModeExclusive,
	}

	var handle vk.Buffer
	if res := vk.CreateBuffer(ctx.Device, &bufferInfo, ctx.Allocator, &handle); res != vk.Success {
		return nil, fmt.Errorf("vkCreateBuffer failed with %d", res)
	}

	var memReqs vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(ctx.Device, handle, &memReqs)
	memReqs.Deref()

	memTypeIndex, err := findMemoryType(ctx.GPU, memReqs.MemoryTypeBits,
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		vk.DestroyBuffer(ctx.Device, handle, ctx.Allocator)
		return nil, err
	}

	allocInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  memReqs.Size,
		MemoryTypeIndex: memTypeIndex,
	}

	var memory vk.DeviceMemory
	if res := vk.AllocateMemory(ctx.Device, &allocInfo, ctx.Allocator, &memory); res != vk.Success {
		vk.DestroyBuffer(ctx.Device, handle, ctx.Allocator)
		return nil, fmt.Errorf("vkAllocateMemory failed with %d", res)
	}

	vk.BindBufferMemory(ctx.Device, handle, memory, 0)

	return &buffer{handle: handle, memory: memory, size: size, usage: usage}, nil
}

// load copies data into the buffer, recreating it first when the payload
// outgrew the allocation.
func (b *buffer) load(ctx *Context, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if vk.DeviceSize(len(data)) > b.size {
		grown, err := createBuffer(ctx, vk.DeviceSize(len(data)), b.usage)
		if err != nil {
			return err
		}
		b.destroy(ctx)
		*b = *grown
	}

	var mapped unsafe.Pointer
	if res := vk.MapMemory(ctx.Device, b.memory, 0, vk.DeviceSize(len(data)), 0, &mapped); res != vk.Success {
		return fmt.Errorf("vkMapMemory failed with %d", res)
	}
	vk.Memcopy(mapped, data)
	vk.UnmapMemory(ctx.Device, b.memory)
	return nil
}

func (b *buffer) destroy(ctx *Context) {
	if b.handle != vk.NullBuffer {
		vk.DestroyBuffer(ctx.Device, b.handle, ctx.Allocator)
		b.handle = vk.NullBuffer
	}
	if b.memory != vk.NullDeviceMemory {
		vk.FreeMemory(ctx.Device, b.memory, ctx.Allocator)
		b.memory = vk.NullDeviceMemory
	}
}

func findMemoryType(gpu vk.PhysicalDevice, typeFilter uint32, properties vk.MemoryPropertyFlags) (uint32, error) {
	var memProps vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(gpu, &memProps)
	memProps.Deref()

	for i := uint32(0); i < memProps.MemoryTypeCount; i++ {
		memProps.MemoryTypes[i].Deref()
		if (typeFilter&(1<<i)) != 0 && (memProps.MemoryTypes[i].PropertyFlags&properties) == properties {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no suitable memory type for filter %#x", typeFilter)
}

// sliceToBytes reinterprets a slice of plain structs as its raw bytes.
func sliceToBytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(unsafe.Sizeof(s[0])))
}

// sliceUint32 reinterprets SPIR-V bytes as the word slice Vulkan expects.
func sliceUint32(data []byte) []uint32 {
	return unsafe.Slice((*uint32)(unsafe.Pointer(&data[0])), len(data)/4)
}
