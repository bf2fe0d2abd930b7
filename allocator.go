package vkx

import (
	vk "github.com/vulkan-go/vulkan"
)

// MemoryRequirement is a resource's driver-reported memory needs: its size,
// its alignment and the bitmask of memory types it can live in.
type MemoryRequirement struct {
	Size      uint64
	Alignment uint64
	TypeBits  uint32
}

// MemoryRegion is one resource's slice of an AllocationBlock. Regions for
// distinct resources in a block never overlap and every offset is a multiple
// of its resource's required alignment.
type MemoryRegion struct {
	Offset    uint64
	Size      uint64
	Alignment uint64
}

// End returns the first byte past the region.
func (r MemoryRegion) End() uint64 {
	return r.Offset + r.Size
}

func makeAlignUp(a uint64, align uint64) uint64 {
	if align == 0 {
		return a
	}
	m := a % align
	if m == 0 {
		return a
	}
	return (a - m) + align
}

// PlanRegions lays requirements out sequentially: each region starts at the
// previous region's end rounded up to its own alignment, and spans the
// requirement's size rounded up to that alignment. Returns the regions and
// the total allocation size, which is exactly the end of the final region.
// Pure; identical inputs always produce identical offsets.
func PlanRegions(reqs []MemoryRequirement) ([]MemoryRegion, uint64) {
	regions := make([]MemoryRegion, len(reqs))
	var cursor uint64
	for i, req := range reqs {
		offset := makeAlignUp(cursor, req.Alignment)
		size := makeAlignUp(req.Size, req.Alignment)
		regions[i] = MemoryRegion{
			Offset:    offset,
			Size:      size,
			Alignment: req.Alignment,
		}
		cursor = offset + size
	}
	return regions, cursor
}

// IntersectTypeBits returns the memory types compatible with every
// requirement at once.
func IntersectTypeBits(reqs []MemoryRequirement) uint32 {
	bits := ^uint32(0)
	for _, req := range reqs {
		bits &= req.TypeBits
	}
	return bits
}

// FindExactMemoryType returns the index of the first memory type present in
// typeBits whose property flags EQUAL want. Matching is exact, not superset:
// a type exposing additional properties is rejected. Relaxing this would
// silently change which memory types get selected, so the strictness is kept.
func FindExactMemoryType(types MemoryTypeSlice, typeBits uint32, want vk.MemoryPropertyFlags) (int, error) {
	for i, t := range types {
		if typeBits&(1<<uint(i)) != 0 && t.PropertyFlags == want {
			return i, nil
		}
	}
	return 0, &NoCompatibleMemoryTypeError{Required: want, TypeBits: typeBits}
}

// BindableResource is a buffer or image which can be sub-allocated from an
// AllocationBlock.
type BindableResource interface {
	IDestructable
	MemoryRequirement() MemoryRequirement
	bindMemory(memory vk.DeviceMemory, region MemoryRegion) vk.Result
}

// MemoryPlan is the computed layout for one allocation: per-resource regions
// in input order, the total block size and the single memory type every
// resource will share.
type MemoryPlan struct {
	Regions         []MemoryRegion
	Total           uint64
	MemoryTypeIndex int
	Properties      vk.MemoryPropertyFlags
}

// PlanAllocationFromRequirements computes a MemoryPlan from already-queried
// requirements. Pure; split out so layout and type selection are testable
// without a device.
func PlanAllocationFromRequirements(types MemoryTypeSlice, reqs []MemoryRequirement, props vk.MemoryPropertyFlags) (*MemoryPlan, error) {
	typeIndex, err := FindExactMemoryType(types, IntersectTypeBits(reqs), props)
	if err != nil {
		return nil, err
	}

	regions, total := PlanRegions(reqs)
	return &MemoryPlan{
		Regions:         regions,
		Total:           total,
		MemoryTypeIndex: typeIndex,
		Properties:      props,
	}, nil
}

// PlanAllocation queries each resource's memory requirements and computes the
// layout of one backing allocation holding all of them. Buffers and images
// can be planned together when a memory type compatible with both exists.
func PlanAllocation(types MemoryTypeSlice, resources []BindableResource, props vk.MemoryPropertyFlags) (*MemoryPlan, error) {
	reqs := make([]MemoryRequirement, len(resources))
	for i, r := range resources {
		reqs[i] = r.MemoryRequirement()
	}
	return PlanAllocationFromRequirements(types, reqs, props)
}

// AllocationBlock owns the single device memory allocation a set of planned
// resources is bound into. Bound resources keep non-owning region references;
// the block must outlive every resource bound to it and is destroyed only
// after all of them are.
type AllocationBlock struct {
	Memory *DeviceMemory
	Plan   *MemoryPlan
}

// AllocateBlock allocates the device memory a plan calls for.
func (d *Device) AllocateBlock(plan *MemoryPlan) (*AllocationBlock, error) {
	memory, err := d.AllocateMemory(plan.Total, plan.MemoryTypeIndex)
	if err != nil {
		return nil, err
	}
	return &AllocationBlock{Memory: memory, Plan: plan}, nil
}

// Bind attaches a resource to the block at its planned region. The region's
// offset is re-checked against the resource's own alignment before the driver
// is involved; a failure means the region was not planned for this resource.
func (b *AllocationBlock) Bind(resource BindableResource, region MemoryRegion) error {
	req := resource.MemoryRequirement()
	if req.Alignment != 0 && region.Offset%req.Alignment != 0 {
		return &BindConflictError{Offset: region.Offset, Alignment: req.Alignment}
	}
	if res := resource.bindMemory(b.Memory.VKDeviceMemory, region); res != vk.Success {
		return &BindConflictError{Offset: region.Offset, Result: res}
	}
	return nil
}

// BindAll binds every resource at its planned region, in plan order. The
// resource list must be the one the plan was computed from.
func (b *AllocationBlock) BindAll(resources []BindableResource) error {
	for i, resource := range resources {
		if err := b.Bind(resource, b.Plan.Regions[i]); err != nil {
			return err
		}
	}
	return nil
}

// Map exposes the whole block as host memory. Callers follow the two-window
// discipline: map and write inputs before submission, unmap before Submit,
// and only map again to read outputs after AwaitCompletion.
func (b *AllocationBlock) Map() error {
	_, err := b.Memory.Map()
	return err
}

// Unmap releases the mapping. Must happen before any work referencing the
// block is submitted.
func (b *AllocationBlock) Unmap() {
	b.Memory.Unmap()
}

// RegionBytes returns the mapped bytes of one region, or nil while the block
// is unmapped. The slice aliases device memory and dies with the mapping.
func (b *AllocationBlock) RegionBytes(region MemoryRegion) []byte {
	if b.Memory.Ptr == nil {
		return nil
	}
	return ToBytes(b.Memory.Ptr, int(b.Plan.Total))[region.Offset:region.End()]
}

func (b *AllocationBlock) Destroy() {
	b.Memory.Destroy()
}

// PlanAndAllocate is the whole MemoryAllocator flow in one call: query, plan,
// allocate and bind every resource.
func (d *Device) PlanAndAllocate(resources []BindableResource, props vk.MemoryPropertyFlags) (*AllocationBlock, error) {
	plan, err := PlanAllocation(d.PhysicalDevice.MemoryTypes(), resources, props)
	if err != nil {
		return nil, err
	}
	block, err := d.AllocateBlock(plan)
	if err != nil {
		return nil, err
	}
	if err := block.BindAll(resources); err != nil {
		block.Destroy()
		return nil, err
	}
	return block, nil
}
