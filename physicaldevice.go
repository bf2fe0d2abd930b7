package vkx

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// PhysicalDevice wraps a physical device handle together with its cached
// properties.
type PhysicalDevice struct {
	DeviceName                 string
	VKPhysicalDevice           vk.PhysicalDevice
	VKPhysicalDeviceProperties vk.PhysicalDeviceProperties
}

func (p *PhysicalDevice) String() string {
	return p.DeviceName
}

// QueueFamilies returns the device's queue families in index order.
func (p *PhysicalDevice) QueueFamilies() (QueueFamilySlice, error) {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(p.VKPhysicalDevice, &count, nil)
	if count == 0 {
		return nil, nil
	}

	props := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(p.VKPhysicalDevice, &count, props)

	ret := make(QueueFamilySlice, count)
	for i, prop := range props {
		ret[i] = &QueueFamily{Index: i, PhysicalDevice: p, VKQueueFamilyProperties: prop}
		ret[i].VKQueueFamilyProperties.Deref()
	}
	return ret, nil
}

type MemoryTypeSlice []vk.MemoryType

func (m MemoryTypeSlice) Filter(f func(properties vk.MemoryPropertyFlagBits) bool) MemoryTypeSlice {
	res := make(MemoryTypeSlice, 0)
	for i := 0; i < len(m); i++ {
		if f(vk.MemoryPropertyFlagBits(m[i].PropertyFlags)) {
			res = append(res, m[i])
		}
	}
	return res
}

// MemoryTypes returns the device's memory type table with every entry
// dereferenced, suitable for the pure memory type selection in
// FindExactMemoryType.
func (p *PhysicalDevice) MemoryTypes() MemoryTypeSlice {
	mp := p.VKPhysicalDeviceMemoryProperties()
	mp.Deref()

	ret := make(MemoryTypeSlice, 0, mp.MemoryTypeCount)
	var i uint32
	for i = 0; i < mp.MemoryTypeCount; i++ {
		mt := mp.MemoryTypes[i]
		mt.Deref()
		ret = append(ret, mt)
	}
	return ret
}

func (p *PhysicalDevice) VKPhysicalDeviceMemoryProperties() vk.PhysicalDeviceMemoryProperties {
	var memoryProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(p.VKPhysicalDevice, &memoryProperties)
	return memoryProperties
}

func (p *PhysicalDevice) VKPhysicalDeviceFeatures() vk.PhysicalDeviceFeatures {
	var deviceFeatures vk.PhysicalDeviceFeatures
	vk.GetPhysicalDeviceFeatures(p.VKPhysicalDevice, &deviceFeatures)
	return deviceFeatures
}

// SupportedExtensions returns the device extensions the driver supports.
func (p *PhysicalDevice) SupportedExtensions() ([]string, error) {
	var count uint32
	if res := vk.EnumerateDeviceExtensionProperties(p.VKPhysicalDevice, "", &count, nil); res != vk.Success {
		return nil, errors.Wrap(vk.Error(res), "enumerating device extensions")
	}
	props := make([]vk.ExtensionProperties, count)
	if res := vk.EnumerateDeviceExtensionProperties(p.VKPhysicalDevice, "", &count, props); res != vk.Success {
		return nil, errors.Wrap(vk.Error(res), "enumerating device extensions")
	}
	names := make([]string, 0, count)
	for _, p := range props {
		p.Deref()
		names = append(names, vk.ToString(p.ExtensionName[:]))
	}
	return names, nil
}

type VKPresentModes []vk.PresentMode

func (v VKPresentModes) Filter(f vk.PresentMode) VKPresentModes {
	ret := make(VKPresentModes, 0)
	for _, s := range v {
		if f == s {
			ret = append(ret, s)
		}
	}
	return ret
}

type VKSurfaceFormats []vk.SurfaceFormat

func (v VKSurfaceFormats) Filter(f func(f vk.SurfaceFormat) bool) VKSurfaceFormats {
	ret := make(VKSurfaceFormats, 0)
	for _, s := range v {
		s.Deref()
		if f(s) {
			ret = append(ret, s)
		}
	}
	return ret
}

// GetSurfacePresentModes queries the present modes the window surface
// supports. Graphics path only.
func (p *PhysicalDevice) GetSurfacePresentModes(surface vk.Surface) (VKPresentModes, error) {
	var count uint32
	if res := vk.GetPhysicalDeviceSurfacePresentModes(p.VKPhysicalDevice, surface, &count, nil); res != vk.Success {
		return nil, errors.Wrap(vk.Error(res), "querying surface present modes")
	}
	modes := make([]vk.PresentMode, count)
	if res := vk.GetPhysicalDeviceSurfacePresentModes(p.VKPhysicalDevice, surface, &count, modes); res != vk.Success {
		return nil, errors.Wrap(vk.Error(res), "querying surface present modes")
	}
	return modes, nil
}

// GetSurfaceFormats queries the color formats the window surface supports.
func (p *PhysicalDevice) GetSurfaceFormats(surface vk.Surface) (VKSurfaceFormats, error) {
	var count uint32
	if res := vk.GetPhysicalDeviceSurfaceFormats(p.VKPhysicalDevice, surface, &count, nil); res != vk.Success {
		return nil, errors.Wrap(vk.Error(res), "querying surface formats")
	}
	formats := make([]vk.SurfaceFormat, count)
	if res := vk.GetPhysicalDeviceSurfaceFormats(p.VKPhysicalDevice, surface, &count, formats); res != vk.Success {
		return nil, errors.Wrap(vk.Error(res), "querying surface formats")
	}
	return formats, nil
}

// GetSurfaceCapabilities queries image count limits, extents and the current
// transform of the window surface.
func (p *PhysicalDevice) GetSurfaceCapabilities(surface vk.Surface) (*vk.SurfaceCapabilities, error) {
	var caps vk.SurfaceCapabilities
	if res := vk.GetPhysicalDeviceSurfaceCapabilities(p.VKPhysicalDevice, surface, &caps); res != vk.Success {
		return nil, errors.Wrap(vk.Error(res), "querying surface capabilities")
	}
	return &caps, nil
}
