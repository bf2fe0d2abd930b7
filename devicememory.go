package vkx

import (
	"sync/atomic"
	"unsafe"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// DeviceMemory owns one device memory handle. When the backing memory type is
// host visible the whole block can be mapped into the host address space.
//
// Mapping is mutually exclusive with GPU execution over the block: unmap
// before submitting work which references it, and wait for completion before
// mapping again. The package cannot detect violations; IsMapped exists so
// callers can assert the discipline at their submission boundary.
type DeviceMemory struct {
	Device         *Device
	VKDeviceMemory vk.DeviceMemory
	Size           uint64
	MapCount       int32
	Ptr            unsafe.Pointer
}

// IsMapped reports whether the memory is currently mapped.
func (d *DeviceMemory) IsMapped() bool {
	return atomic.LoadInt32(&d.MapCount) > 0
}

func (d *DeviceMemory) Destroy() {
	vk.FreeMemory(d.Device.VKDevice, d.VKDeviceMemory, nil)
}

// Map maps the entirety of the memory and retains the pointer for slicing by
// bound resources.
func (d *DeviceMemory) Map() (unsafe.Pointer, error) {
	var res unsafe.Pointer
	if r := vk.MapMemory(d.Device.VKDevice, d.VKDeviceMemory, 0, vk.DeviceSize(d.Size), 0, &res); r != vk.Success {
		return nil, errors.Wrap(vk.Error(r), "mapping device memory")
	}
	atomic.AddInt32(&d.MapCount, 1)
	d.Ptr = res
	return res, nil
}

// MapRegion maps a sub-range of the memory.
func (d *DeviceMemory) MapRegion(offset, size uint64) (unsafe.Pointer, error) {
	var res unsafe.Pointer
	if r := vk.MapMemory(d.Device.VKDevice, d.VKDeviceMemory, vk.DeviceSize(offset), vk.DeviceSize(size), 0, &res); r != vk.Success {
		return nil, errors.Wrap(vk.Error(r), "mapping device memory region")
	}
	atomic.AddInt32(&d.MapCount, 1)
	return res, nil
}

// MapCopyUnmap maps the memory, copies data to its start and unmaps. Suitable
// for one-off uploads outside the two-window map discipline of a batch.
func (d *DeviceMemory) MapCopyUnmap(data []byte) error {
	pm, err := d.MapRegion(0, uint64(len(data)))
	if err != nil {
		return err
	}
	copy(ToBytes(pm, len(data)), data)
	d.Unmap()
	return nil
}

// Unmap releases the current mapping.
func (d *DeviceMemory) Unmap() {
	d.Ptr = nil
	vk.UnmapMemory(d.Device.VKDevice, d.VKDeviceMemory)
	atomic.AddInt32(&d.MapCount, -1)
}
