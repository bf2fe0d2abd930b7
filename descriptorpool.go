package vkx

import (
	vk "github.com/vulkan-go/vulkan"
)

// DescriptorPool owns a pool handle and mirrors its remaining capacity, so
// undersized pools are reported as DescriptorPoolExhaustedError before the
// driver ever sees the allocation.
type DescriptorPool struct {
	Device           *Device
	VKDescriptorPool vk.DescriptorPool

	setsRemaining int
	remaining     map[vk.DescriptorType]int
}

// CreateDescriptorPoolForLayout creates a pool sized to hold exactly maxSets
// sets of the layout's shape. The sizes are derived from the same slot
// declaration the layout was built from; there is no second count to keep in
// sync.
func (d *Device) CreateDescriptorPoolForLayout(layout *DescriptorSetLayout, maxSets int) (*DescriptorPool, error) {
	sizes := layout.Slots.PoolSizes()

	remaining := make(map[vk.DescriptorType]int, len(sizes))
	for i := range sizes {
		sizes[i].DescriptorCount *= uint32(maxSets)
		remaining[sizes[i].Type] = int(sizes[i].DescriptorCount)
	}

	createInfo := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		MaxSets:       uint32(maxSets),
		Flags:         vk.DescriptorPoolCreateFlags(vk.DescriptorPoolCreateFreeDescriptorSetBit),
		PoolSizeCount: uint32(len(sizes)),
		PPoolSizes:    sizes,
	}

	var pool vk.DescriptorPool
	if res := vk.CreateDescriptorPool(d.VKDevice, &createInfo, nil, &pool); res != vk.Success {
		return nil, vk.Error(res)
	}

	return &DescriptorPool{
		Device:           d,
		VKDescriptorPool: pool,
		setsRemaining:    maxSets,
		remaining:        remaining,
	}, nil
}

// checkCapacity reports whether one set of the given shape still fits.
func (p *DescriptorPool) checkCapacity(slots BindingSlots) error {
	if p.setsRemaining < 1 {
		return &DescriptorPoolExhaustedError{Requested: 1, Remaining: 0}
	}
	for _, size := range slots.PoolSizes() {
		if have := p.remaining[size.Type]; have < int(size.DescriptorCount) {
			return &DescriptorPoolExhaustedError{
				Type:      size.Type,
				Requested: int(size.DescriptorCount),
				Remaining: have,
			}
		}
	}
	return nil
}

func (p *DescriptorPool) consume(slots BindingSlots) {
	p.setsRemaining--
	for _, size := range slots.PoolSizes() {
		p.remaining[size.Type] -= int(size.DescriptorCount)
	}
}

// AllocateSet allocates one descriptor set of the layout's shape from the
// pool. All declared slots start unwritten; the set cannot be used by a
// command until every slot has been written.
func (p *DescriptorPool) AllocateSet(layout *DescriptorSetLayout) (*DescriptorSet, error) {
	if err := p.checkCapacity(layout.Slots); err != nil {
		return nil, err
	}

	allocateInfo := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     p.VKDescriptorPool,
		DescriptorSetCount: 1,
		PSetLayouts:        []vk.DescriptorSetLayout{layout.VKDescriptorSetLayout},
	}

	var set vk.DescriptorSet
	if res := vk.AllocateDescriptorSets(p.Device.VKDevice, &allocateInfo, &set); res != vk.Success {
		return nil, &DescriptorPoolExhaustedError{Result: res}
	}
	p.consume(layout.Slots)

	return &DescriptorSet{
		Device:          p.Device,
		DescriptorPool:  p,
		Layout:          layout,
		VKDescriptorSet: set,
		written:         make(map[int]bool, len(layout.Slots)),
	}, nil
}

// Free returns a set's descriptors to the pool.
func (p *DescriptorPool) Free(set *DescriptorSet) error {
	vkSet := set.VKDescriptorSet
	if res := vk.FreeDescriptorSets(p.Device.VKDevice, p.VKDescriptorPool, 1, &vkSet); res != vk.Success {
		return vk.Error(res)
	}
	p.setsRemaining++
	for _, size := range set.Layout.Slots.PoolSizes() {
		p.remaining[size.Type] += int(size.DescriptorCount)
	}
	return nil
}

func (p *DescriptorPool) Destroy() {
	vk.DestroyDescriptorPool(p.Device.VKDevice, p.VKDescriptorPool, nil)
}
