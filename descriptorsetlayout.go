package vkx

import (
	vk "github.com/vulkan-go/vulkan"
)

// BindingSlot declares one numbered slot of a descriptor set: which kind of
// resource lives there and which shader stages can see it.
type BindingSlot struct {
	Slot   int
	Kind   vk.DescriptorType
	Stages vk.ShaderStageFlags
}

// BindingSlots is the single source of truth for a set's shape. Both the
// layout bindings and the descriptor pool sizes are derived from it, so the
// two can never disagree on a count.
type BindingSlots []BindingSlot

// StorageBufferSlot declares a compute-visible storage buffer slot.
func StorageBufferSlot(slot int) BindingSlot {
	return BindingSlot{
		Slot:   slot,
		Kind:   vk.DescriptorTypeStorageBuffer,
		Stages: vk.ShaderStageFlags(vk.ShaderStageComputeBit),
	}
}

// UniformBufferSlot declares a uniform buffer slot visible to the given
// stages.
func UniformBufferSlot(slot int, stages vk.ShaderStageFlags) BindingSlot {
	return BindingSlot{
		Slot:   slot,
		Kind:   vk.DescriptorTypeUniformBuffer,
		Stages: stages,
	}
}

// LayoutBindings renders the slots as driver layout bindings.
func (s BindingSlots) LayoutBindings() []vk.DescriptorSetLayoutBinding {
	bindings := make([]vk.DescriptorSetLayoutBinding, len(s))
	for i, slot := range s {
		bindings[i] = vk.DescriptorSetLayoutBinding{
			Binding:         uint32(slot.Slot),
			DescriptorType:  slot.Kind,
			DescriptorCount: 1,
			StageFlags:      slot.Stages,
		}
	}
	return bindings
}

// PoolSizes computes the per-kind descriptor counts a pool needs to hold one
// set of this shape.
func (s BindingSlots) PoolSizes() []vk.DescriptorPoolSize {
	counts := make(map[vk.DescriptorType]uint32)
	order := make([]vk.DescriptorType, 0)
	for _, slot := range s {
		if _, seen := counts[slot.Kind]; !seen {
			order = append(order, slot.Kind)
		}
		counts[slot.Kind]++
	}

	sizes := make([]vk.DescriptorPoolSize, 0, len(order))
	for _, kind := range order {
		sizes = append(sizes, vk.DescriptorPoolSize{
			Type:            kind,
			DescriptorCount: counts[kind],
		})
	}
	return sizes
}

// find returns the position of a slot number in the declaration, or -1.
func (s BindingSlots) find(slot int) int {
	for i, b := range s {
		if b.Slot == slot {
			return i
		}
	}
	return -1
}

// DescriptorSetLayout owns a layout handle together with the slot
// declaration it was built from.
type DescriptorSetLayout struct {
	Device                *Device
	Slots                 BindingSlots
	VKDescriptorSetLayout vk.DescriptorSetLayout
}

// DeclareLayout creates a descriptor set layout from the slot declaration.
// Pure metadata; no resource references are involved yet.
func (d *Device) DeclareLayout(slots BindingSlots) (*DescriptorSetLayout, error) {
	bindings := slots.LayoutBindings()
	createInfo := &vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(bindings)),
		PBindings:    bindings,
	}

	var layout vk.DescriptorSetLayout
	if res := vk.CreateDescriptorSetLayout(d.VKDevice, createInfo, nil, &layout); res != vk.Success {
		return nil, vk.Error(res)
	}

	return &DescriptorSetLayout{
		Device:                d,
		Slots:                 slots,
		VKDescriptorSetLayout: layout,
	}, nil
}

func (l *DescriptorSetLayout) Destroy() {
	vk.DestroyDescriptorSetLayout(l.Device.VKDevice, l.VKDescriptorSetLayout, nil)
}
