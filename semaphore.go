package vkx

import (
	vk "github.com/vulkan-go/vulkan"
)

// VKCreateSemaphore creates a native semaphore. The core submission path is
// semaphore-free; this exists for window-system glue like swapchain image
// acquisition.
func (d *Device) VKCreateSemaphore() (vk.Semaphore, error) {
	createInfo := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}

	var semaphore vk.Semaphore
	if res := vk.CreateSemaphore(d.VKDevice, &createInfo, nil, &semaphore); res != vk.Success {
		return vk.NullSemaphore, vk.Error(res)
	}
	return semaphore, nil
}

func (d *Device) VKDestroySemaphore(s vk.Semaphore) {
	vk.DestroySemaphore(d.VKDevice, s, nil)
}
