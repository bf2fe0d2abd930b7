package vkx

import (
	vk "github.com/vulkan-go/vulkan"
)

// Image owns a 2D image handle. Like Buffer it is created unbound and must
// be bound into an AllocationBlock before use; images and buffers can share
// one block when a compatible memory type exists.
type Image struct {
	Device   *Device
	VKImage  vk.Image
	VKFormat vk.Format
	Extent   vk.Extent2D

	// Region is the image's back-reference into its AllocationBlock,
	// set by Bind. Swapchain images are never bound by this package and
	// keep a zero Region.
	Region MemoryRegion

	owned bool
}

// CreateImage creates an unbound single-sample 2D image with one mip level.
func (d *Device) CreateImage(extent vk.Extent2D, format vk.Format, tiling vk.ImageTiling, usage vk.ImageUsageFlags) (*Image, error) {
	imageInfo := vk.ImageCreateInfo{
		SType:         vk.StructureTypeImageCreateInfo,
		ImageType:     vk.ImageType2d,
		Extent:        vk.Extent3D{Width: extent.Width, Height: extent.Height, Depth: 1},
		MipLevels:     1,
		ArrayLayers:   1,
		Format:        format,
		Tiling:        tiling,
		InitialLayout: vk.ImageLayoutUndefined,
		Usage:         usage,
		Samples:       vk.SampleCount1Bit,
		SharingMode:   vk.SharingModeExclusive,
	}

	var image vk.Image
	if res := vk.CreateImage(d.VKDevice, &imageInfo, nil, &image); res != vk.Success {
		return nil, vk.Error(res)
	}

	return &Image{
		Device:   d,
		VKImage:  image,
		VKFormat: format,
		Extent:   extent,
		owned:    true,
	}, nil
}

// CreateDepthImage creates the unbound depth attachment for a render target.
func (d *Device) CreateDepthImage(extent vk.Extent2D, format vk.Format) (*Image, error) {
	return d.CreateImage(extent, format, vk.ImageTilingOptimal,
		vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit))
}

// MemoryRequirement queries the driver for the image's size, alignment and
// compatible memory type bitmask.
func (i *Image) MemoryRequirement() MemoryRequirement {
	var memoryRequirements vk.MemoryRequirements
	vk.GetImageMemoryRequirements(i.Device.VKDevice, i.VKImage, &memoryRequirements)
	memoryRequirements.Deref()

	return MemoryRequirement{
		Size:      uint64(memoryRequirements.Size),
		Alignment: uint64(memoryRequirements.Alignment),
		TypeBits:  memoryRequirements.MemoryTypeBits,
	}
}

func (i *Image) bindMemory(memory vk.DeviceMemory, region MemoryRegion) vk.Result {
	res := vk.BindImageMemory(i.Device.VKDevice, i.VKImage, memory, vk.DeviceSize(region.Offset))
	if res == vk.Success {
		i.Region = region
	}
	return res
}

// Destroy releases the image handle. Swapchain images are owned by the
// swapchain and destroying them here is a no-op.
func (i *Image) Destroy() {
	if i.owned {
		vk.DestroyImage(i.Device.VKDevice, i.VKImage, nil)
	}
}
