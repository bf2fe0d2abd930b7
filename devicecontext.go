package vkx

import (
	vk "github.com/vulkan-go/vulkan"
)

// QueueCapability is the class of work a queue family must accept.
type QueueCapability int

const (
	QueueCapabilityCompute QueueCapability = iota
	QueueCapabilityGraphics
)

func (c QueueCapability) String() string {
	if c == QueueCapabilityGraphics {
		return "graphics"
	}
	return "compute"
}

// QueueFamilyCapability is the capability snapshot of one queue family.
type QueueFamilyCapability struct {
	Index            int
	SupportsCompute  bool
	SupportsGraphics bool
}

// Supports reports whether the family accepts the given capability class.
func (q QueueFamilyCapability) Supports(c QueueCapability) bool {
	if c == QueueCapabilityGraphics {
		return q.SupportsGraphics
	}
	return q.SupportsCompute
}

// DeviceCapability is an immutable snapshot of what one physical device
// offers: its queue families in index order and its memory type table.
// Selection logic operates on these snapshots so it can be tested without a
// device.
type DeviceCapability struct {
	QueueFamilies []QueueFamilyCapability
	MemoryTypes   MemoryTypeSlice
}

// SelectDevice scans the capability list in enumeration order and returns the
// index of the first device owning a queue family with the required
// capability, along with that family's index. First match wins; no scoring of
// candidates, so the result is deterministic but not necessarily optimal.
func SelectDevice(caps []DeviceCapability, required QueueCapability) (deviceIndex, queueFamilyIndex int, err error) {
	for di, dev := range caps {
		for _, family := range dev.QueueFamilies {
			if family.Supports(required) {
				return di, family.Index, nil
			}
		}
	}
	return 0, 0, &NoCapableDeviceError{Required: required}
}

// SnapshotCapabilities queries every physical device on the instance and
// builds the immutable capability list SelectDevice consumes. The returned
// device slice is index aligned with the capability slice.
func SnapshotCapabilities(instance *Instance) ([]*PhysicalDevice, []DeviceCapability, error) {
	devices, err := instance.PhysicalDevices()
	if err != nil {
		return nil, nil, err
	}

	caps := make([]DeviceCapability, len(devices))
	for i, device := range devices {
		families, err := device.QueueFamilies()
		if err != nil {
			return nil, nil, err
		}
		snapshot := make([]QueueFamilyCapability, len(families))
		for fi, family := range families {
			snapshot[fi] = QueueFamilyCapability{
				Index:            family.Index,
				SupportsCompute:  family.IsCompute(),
				SupportsGraphics: family.IsGraphics(),
			}
		}
		caps[i] = DeviceCapability{
			QueueFamilies: snapshot,
			MemoryTypes:   device.MemoryTypes(),
		}
	}
	return devices, caps, nil
}

// DeviceOptions carries the extensions and layers to enable on the logical
// device. Nil means none.
type DeviceOptions struct {
	EnabledExtensions []string
	EnabledLayers     []string
}

// CreateLogicalDevice creates a logical device requesting exactly one queue
// of priority 1.0 from the given family and returns the device with that
// queue resolved.
func (p *PhysicalDevice) CreateLogicalDevice(queueFamilyIndex int, options *DeviceOptions) (*Device, *Queue, error) {
	queueCreateInfo := vk.DeviceQueueCreateInfo{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: uint32(queueFamilyIndex),
		QueueCount:       1,
		PQueuePriorities: []float32{1.0},
	}

	deviceFeatures := p.VKPhysicalDeviceFeatures()

	deviceCreateInfo := vk.DeviceCreateInfo{
		SType:                vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount: 1,
		PQueueCreateInfos:    []vk.DeviceQueueCreateInfo{queueCreateInfo},
		PEnabledFeatures:     []vk.PhysicalDeviceFeatures{deviceFeatures},
	}
	if options != nil {
		if options.EnabledExtensions != nil {
			deviceCreateInfo.EnabledExtensionCount = uint32(len(options.EnabledExtensions))
			deviceCreateInfo.PpEnabledExtensionNames = safeStrings(options.EnabledExtensions)
		}
		if options.EnabledLayers != nil {
			deviceCreateInfo.EnabledLayerCount = uint32(len(options.EnabledLayers))
			deviceCreateInfo.PpEnabledLayerNames = safeStrings(options.EnabledLayers)
		}
	}

	var ldevice vk.Device
	if res := vk.CreateDevice(p.VKPhysicalDevice, &deviceCreateInfo, nil, &ldevice); res != vk.Success {
		return nil, nil, &DeviceCreationError{Result: res}
	}

	device := &Device{PhysicalDevice: p, VKDevice: ldevice}
	queue := device.GetQueue(queueFamilyIndex)
	return device, queue, nil
}

// DeviceContext ties together the device/queue selection result: the chosen
// physical device, its capability snapshot, the logical device and the single
// queue all work is submitted to.
type DeviceContext struct {
	PhysicalDevice   *PhysicalDevice
	Capability       DeviceCapability
	QueueFamilyIndex int
	Device           *Device
	Queue            *Queue
}

// NewDeviceContext selects the first capable device/queue pair on the
// instance and creates the logical device. The two steps are available
// separately through SelectDevice and CreateLogicalDevice.
func NewDeviceContext(instance *Instance, required QueueCapability, options *DeviceOptions) (*DeviceContext, error) {
	devices, caps, err := SnapshotCapabilities(instance)
	if err != nil {
		return nil, err
	}

	deviceIndex, familyIndex, err := SelectDevice(caps, required)
	if err != nil {
		return nil, err
	}

	device, queue, err := devices[deviceIndex].CreateLogicalDevice(familyIndex, options)
	if err != nil {
		return nil, err
	}

	return &DeviceContext{
		PhysicalDevice:   devices[deviceIndex],
		Capability:       caps[deviceIndex],
		QueueFamilyIndex: familyIndex,
		Device:           device,
		Queue:            queue,
	}, nil
}

func (c *DeviceContext) Destroy() {
	c.Device.Destroy()
}
