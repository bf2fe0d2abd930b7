package vkx

import (
	vk "github.com/vulkan-go/vulkan"
)

// Swapchain is the window-system collaborator for presentable render
// targets. The core pipeline never drives it; examples acquire an image,
// render one batch into it and present.
type Swapchain struct {
	Extent      vk.Extent2D
	Format      vk.Format
	Device      *Device
	VKSwapchain vk.Swapchain
}

type CreateSwapchainOptions struct {
	OldSwapchain              *Swapchain
	ActualSize                vk.Extent2D
	DesiredNumSwapchainImages int
}

func (d *Device) defaultNumSwapchainImages(surface vk.Surface) (int, error) {
	caps, err := d.PhysicalDevice.GetSurfaceCapabilities(surface)
	if err != nil {
		return 0, err
	}
	caps.Deref()
	return int(caps.MinImageCount) + 1, nil
}

// CreateSwapchain creates a swapchain over the surface, preferring mailbox
// presentation and a B8G8R8A8 unorm format.
func (d *Device) CreateSwapchain(surface vk.Surface, graphicsQueue, presentQueue *Queue, options *CreateSwapchainOptions) (*Swapchain, error) {
	modes, err := d.PhysicalDevice.GetSurfacePresentModes(surface)
	if err != nil {
		return nil, err
	}

	presentMode := vk.PresentModeFifo
	if m := modes.Filter(vk.PresentModeMailbox); len(m) > 0 {
		presentMode = m[0]
	}

	formats, err := d.PhysicalDevice.GetSurfaceFormats(surface)
	if err != nil {
		return nil, err
	}

	var format vk.SurfaceFormat
	formats.Filter(func(f vk.SurfaceFormat) bool {
		f.Deref()
		if f.Format == vk.FormatB8g8r8a8Unorm {
			format = f
			return true
		}
		return false
	})

	caps, err := d.PhysicalDevice.GetSurfaceCapabilities(surface)
	if err != nil {
		return nil, err
	}
	caps.Deref()

	var swapchainSize vk.Extent2D
	caps.CurrentExtent.Deref()
	if caps.CurrentExtent.Width == vk.MaxUint32 {
		if options != nil {
			swapchainSize = options.ActualSize
		} else {
			swapchainSize = caps.MinImageExtent
		}
	} else {
		swapchainSize = caps.CurrentExtent
	}

	desiredImages := 0
	if options != nil {
		desiredImages = options.DesiredNumSwapchainImages
	}
	if desiredImages == 0 {
		desiredImages, err = d.defaultNumSwapchainImages(surface)
		if err != nil {
			return nil, err
		}
	}

	createInfo := &vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          surface,
		MinImageCount:    uint32(desiredImages),
		ImageFormat:      format.Format,
		ImageColorSpace:  format.ColorSpace,
		ImageExtent:      swapchainSize,
		PresentMode:      presentMode,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageArrayLayers: 1,
		Clipped:          vk.True,
		PreTransform:     caps.CurrentTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		OldSwapchain:     vk.NullSwapchain,
	}

	if options != nil && options.OldSwapchain != nil {
		createInfo.OldSwapchain = options.OldSwapchain.VKSwapchain
	}

	if graphicsQueue.QueueFamilyIndex != presentQueue.QueueFamilyIndex {
		createInfo.QueueFamilyIndexCount = 2
		createInfo.PQueueFamilyIndices = []uint32{
			uint32(graphicsQueue.QueueFamilyIndex),
			uint32(presentQueue.QueueFamilyIndex),
		}
		createInfo.ImageSharingMode = vk.SharingModeConcurrent
	} else {
		createInfo.ImageSharingMode = vk.SharingModeExclusive
	}

	var swapchain vk.Swapchain
	if res := vk.CreateSwapchain(d.VKDevice, createInfo, nil, &swapchain); res != vk.Success {
		return nil, vk.Error(res)
	}

	return &Swapchain{
		Extent:      swapchainSize,
		Format:      format.Format,
		Device:      d,
		VKSwapchain: swapchain,
	}, nil
}

// GetImages returns the swapchain's images. They are owned by the swapchain;
// Destroy on them is a no-op.
func (s *Swapchain) GetImages() ([]*Image, error) {
	var imageCount uint32
	if res := vk.GetSwapchainImages(s.Device.VKDevice, s.VKSwapchain, &imageCount, nil); res != vk.Success {
		return nil, vk.Error(res)
	}

	swapchainImages := make([]vk.Image, imageCount)
	if res := vk.GetSwapchainImages(s.Device.VKDevice, s.VKSwapchain, &imageCount, swapchainImages); res != vk.Success {
		return nil, vk.Error(res)
	}

	images := make([]*Image, imageCount)
	for i := range swapchainImages {
		images[i] = &Image{
			Device:   s.Device,
			VKImage:  swapchainImages[i],
			VKFormat: s.Format,
			Extent:   s.Extent,
		}
	}
	return images, nil
}

// AcquireNextImage blocks until a swapchain image is available, signalling
// the semaphore when the image is ready to render into.
func (s *Swapchain) AcquireNextImage(semaphore vk.Semaphore) (int, error) {
	var index uint32
	res := vk.AcquireNextImage(s.Device.VKDevice, s.VKSwapchain, vk.MaxUint64, semaphore, vk.NullFence, &index)
	if res != vk.Success && res != vk.Suboptimal {
		return 0, vk.Error(res)
	}
	return int(index), nil
}

// Present queues the image for presentation.
func (s *Swapchain) Present(queue *Queue, imageIndex int, wait vk.Semaphore) error {
	presentInfo := vk.PresentInfo{
		SType:          vk.StructureTypePresentInfo,
		SwapchainCount: 1,
		PSwapchains:    []vk.Swapchain{s.VKSwapchain},
		PImageIndices:  []uint32{uint32(imageIndex)},
	}
	if wait != vk.NullSemaphore {
		presentInfo.WaitSemaphoreCount = 1
		presentInfo.PWaitSemaphores = []vk.Semaphore{wait}
	}

	res := vk.QueuePresent(queue.VKQueue, &presentInfo)
	if res != vk.Success && res != vk.Suboptimal {
		return &SubmissionError{Result: res}
	}
	return nil
}

func (s *Swapchain) Destroy() {
	vk.DestroySwapchain(s.Device.VKDevice, s.VKSwapchain, nil)
}
