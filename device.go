package vkx

import (
	"fmt"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Device owns a logical device handle. It is destroyed after everything
// created from it.
type Device struct {
	PhysicalDevice *PhysicalDevice
	VKDevice       vk.Device
}

func (d *Device) Destroy() {
	vk.DestroyDevice(d.VKDevice, nil)
}

func (d *Device) String() string {
	return fmt.Sprintf("{ PhysicalDevice: %s }", d.PhysicalDevice)
}

// WaitIdle blocks until every queue on the device has drained.
func (d *Device) WaitIdle() {
	vk.DeviceWaitIdle(d.VKDevice)
}

// GetQueue resolves the queue created alongside the device for the given
// family. Exactly one queue per family is requested at device creation, so
// the queue index is always 0.
func (d *Device) GetQueue(queueFamilyIndex int) *Queue {
	var vkq vk.Queue
	vk.GetDeviceQueue(d.VKDevice, uint32(queueFamilyIndex), 0, &vkq)

	return &Queue{
		Device:           d,
		QueueFamilyIndex: queueFamilyIndex,
		VKQueue:          vkq,
	}
}

// AllocateMemory allocates one device memory block of the given size from the
// given memory type. Type selection happens upstream in PlanAllocation, which
// applies the exact property match policy.
func (d *Device) AllocateMemory(sizeInBytes uint64, memoryTypeIndex int) (*DeviceMemory, error) {
	allocateInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  vk.DeviceSize(sizeInBytes),
		MemoryTypeIndex: uint32(memoryTypeIndex),
	}

	var deviceMemory vk.DeviceMemory
	if res := vk.AllocateMemory(d.VKDevice, &allocateInfo, nil, &deviceMemory); res != vk.Success {
		return nil, errors.Wrap(vk.Error(res), "allocating device memory")
	}

	return &DeviceMemory{
		Device:         d,
		VKDeviceMemory: deviceMemory,
		Size:           sizeInBytes,
	}, nil
}
