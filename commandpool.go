package vkx

import (
	vk "github.com/vulkan-go/vulkan"
)

// CommandPool owns a transient, resettable pool of primary command buffers
// for one queue family.
type CommandPool struct {
	Device           *Device
	QueueFamilyIndex int
	VKCommandPool    vk.CommandPool
}

// CreateCommandPool creates a pool for short-lived command buffers on the
// given queue family.
func (d *Device) CreateCommandPool(queueFamilyIndex int) (*CommandPool, error) {
	createInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit | vk.CommandPoolCreateTransientBit),
		QueueFamilyIndex: uint32(queueFamilyIndex),
	}

	var pool vk.CommandPool
	if res := vk.CreateCommandPool(d.VKDevice, &createInfo, nil, &pool); res != vk.Success {
		return nil, &CommandBufferAllocationError{Result: res}
	}

	return &CommandPool{
		Device:           d,
		QueueFamilyIndex: queueFamilyIndex,
		VKCommandPool:    pool,
	}, nil
}

// AllocateBuffers allocates count primary command buffers from the pool.
func (c *CommandPool) AllocateBuffers(count int) ([]*CommandBuffer, error) {
	allocateInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        c.VKCommandPool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: uint32(count),
	}

	buffers := make([]vk.CommandBuffer, count)
	if res := vk.AllocateCommandBuffers(c.Device.VKDevice, &allocateInfo, buffers); res != vk.Success {
		return nil, &CommandBufferAllocationError{Result: res}
	}

	ret := make([]*CommandBuffer, count)
	for i := range ret {
		ret[i] = &CommandBuffer{VKCommandBuffer: buffers[i]}
	}
	return ret, nil
}

func (c *CommandPool) AllocateBuffer() (*CommandBuffer, error) {
	buffers, err := c.AllocateBuffers(1)
	if err != nil {
		return nil, err
	}
	return buffers[0], nil
}

func (c *CommandPool) FreeBuffer(b *CommandBuffer) {
	vk.FreeCommandBuffers(c.Device.VKDevice, c.VKCommandPool, 1, []vk.CommandBuffer{b.VKCommandBuffer})
}

func (c *CommandPool) Destroy() {
	vk.DestroyCommandPool(c.Device.VKDevice, c.VKCommandPool, nil)
}
