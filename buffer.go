package vkx

import (
	vk "github.com/vulkan-go/vulkan"
)

// Buffer owns a buffer handle. A freshly created buffer carries no memory;
// it must be bound into an AllocationBlock before any pipeline or command
// references it.
type Buffer struct {
	Device   *Device
	VKBuffer vk.Buffer
	Size     uint64
	Usage    vk.BufferUsageFlags

	// Region is the buffer's non-owning back-reference into the
	// AllocationBlock it was bound to, set by Bind.
	Region MemoryRegion
}

// CreateBuffer creates an unbound buffer with exclusive sharing.
func (d *Device) CreateBuffer(sizeInBytes uint64, usage vk.BufferUsageFlags) (*Buffer, error) {
	bufferCreateInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(sizeInBytes),
		Usage:       usage,
		SharingMode: vk.SharingModeExclusive,
	}

	var buffer vk.Buffer
	if res := vk.CreateBuffer(d.VKDevice, &bufferCreateInfo, nil, &buffer); res != vk.Success {
		return nil, vk.Error(res)
	}

	return &Buffer{
		Device:   d,
		VKBuffer: buffer,
		Size:     sizeInBytes,
		Usage:    usage,
	}, nil
}

// CreateStorageBuffer creates an unbound shader storage buffer.
func (d *Device) CreateStorageBuffer(sizeInBytes uint64) (*Buffer, error) {
	return d.CreateBuffer(sizeInBytes, vk.BufferUsageFlags(vk.BufferUsageStorageBufferBit))
}

// MemoryRequirement queries the driver for the buffer's size, alignment and
// compatible memory type bitmask.
func (b *Buffer) MemoryRequirement() MemoryRequirement {
	var memoryRequirements vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(b.Device.VKDevice, b.VKBuffer, &memoryRequirements)
	memoryRequirements.Deref()

	return MemoryRequirement{
		Size:      uint64(memoryRequirements.Size),
		Alignment: uint64(memoryRequirements.Alignment),
		TypeBits:  memoryRequirements.MemoryTypeBits,
	}
}

func (b *Buffer) bindMemory(memory vk.DeviceMemory, region MemoryRegion) vk.Result {
	res := vk.BindBufferMemory(b.Device.VKDevice, b.VKBuffer, memory, vk.DeviceSize(region.Offset))
	if res == vk.Success {
		b.Region = region
	}
	return res
}

func (b *Buffer) Destroy() {
	vk.DestroyBuffer(b.Device.VKDevice, b.VKBuffer, nil)
}
