package vkx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestAlignUp(t *testing.T) {
	if makeAlignUp(12, 3) != 12 {
		t.Fail()
	}
	if makeAlignUp(10, 3) != 12 {
		t.Fail()
	}
	if makeAlignUp(0, 256) != 0 {
		t.Fail()
	}
	if makeAlignUp(7, 0) != 7 {
		t.Fail()
	}
}

func TestPlanRegionsSequentialLayout(t *testing.T) {
	reqs := []MemoryRequirement{
		{Size: 4096, Alignment: 256},
		{Size: 4096, Alignment: 256},
		{Size: 4096, Alignment: 256},
	}

	regions, total := PlanRegions(reqs)
	require.Len(t, regions, 3)

	assert.Equal(t, uint64(0), regions[0].Offset)
	assert.Equal(t, uint64(4096), regions[1].Offset)
	assert.Equal(t, uint64(8192), regions[2].Offset)
	assert.Equal(t, uint64(12288), total)
	assert.Equal(t, regions[2].End(), total)
}

func TestPlanRegionsAlignment(t *testing.T) {
	reqs := []MemoryRequirement{
		{Size: 10, Alignment: 4},
		{Size: 100, Alignment: 256},
		{Size: 3, Alignment: 16},
	}

	regions, total := PlanRegions(reqs)

	for i, r := range regions {
		assert.Zerof(t, r.Offset%reqs[i].Alignment, "region %d offset %d not aligned to %d", i, r.Offset, reqs[i].Alignment)
	}

	// Regions must not overlap and must stay in input order.
	for i := 1; i < len(regions); i++ {
		assert.GreaterOrEqual(t, regions[i].Offset, regions[i-1].End())
	}
	assert.Equal(t, regions[len(regions)-1].End(), total)
}

func TestPlanRegionsIdempotent(t *testing.T) {
	reqs := []MemoryRequirement{
		{Size: 17, Alignment: 64},
		{Size: 4000, Alignment: 256},
	}

	first, firstTotal := PlanRegions(reqs)
	second, secondTotal := PlanRegions(reqs)

	assert.Equal(t, first, second)
	assert.Equal(t, firstTotal, secondTotal)
}

func TestPlanRegionsEmpty(t *testing.T) {
	regions, total := PlanRegions(nil)
	assert.Empty(t, regions)
	assert.Zero(t, total)
}

func TestIntersectTypeBits(t *testing.T) {
	reqs := []MemoryRequirement{
		{TypeBits: 0b1011},
		{TypeBits: 0b1110},
		{TypeBits: 0b1111},
	}
	assert.Equal(t, uint32(0b1010), IntersectTypeBits(reqs))
}

func hostVisibleCoherent() vk.MemoryPropertyFlags {
	return vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit)
}

func TestFindExactMemoryTypeExactMatch(t *testing.T) {
	types := MemoryTypeSlice{
		{PropertyFlags: vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit)},
		{PropertyFlags: hostVisibleCoherent()},
	}

	index, err := FindExactMemoryType(types, 0b11, hostVisibleCoherent())
	require.NoError(t, err)
	assert.Equal(t, 1, index)
}

func TestFindExactMemoryTypeRejectsSuperset(t *testing.T) {
	// The only candidate exposes an extra property; exact matching must
	// reject it.
	types := MemoryTypeSlice{
		{PropertyFlags: hostVisibleCoherent() | vk.MemoryPropertyFlags(vk.MemoryPropertyHostCachedBit)},
	}

	_, err := FindExactMemoryType(types, 0b1, hostVisibleCoherent())
	require.Error(t, err)

	var noType *NoCompatibleMemoryTypeError
	require.ErrorAs(t, err, &noType)
	assert.Equal(t, hostVisibleCoherent(), noType.Required)
}

func TestFindExactMemoryTypeHonorsTypeBits(t *testing.T) {
	// Type 0 matches the properties but is excluded by the bitmask; type 1
	// is the first permitted exact match.
	types := MemoryTypeSlice{
		{PropertyFlags: hostVisibleCoherent()},
		{PropertyFlags: hostVisibleCoherent()},
	}

	index, err := FindExactMemoryType(types, 0b10, hostVisibleCoherent())
	require.NoError(t, err)
	assert.Equal(t, 1, index)
}

func TestPlanAllocationFromRequirements(t *testing.T) {
	types := MemoryTypeSlice{
		{PropertyFlags: vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit)},
		{PropertyFlags: hostVisibleCoherent()},
	}
	reqs := []MemoryRequirement{
		{Size: 4096, Alignment: 256, TypeBits: 0b11},
		{Size: 4096, Alignment: 256, TypeBits: 0b10},
	}

	plan, err := PlanAllocationFromRequirements(types, reqs, hostVisibleCoherent())
	require.NoError(t, err)

	assert.Equal(t, 1, plan.MemoryTypeIndex)
	assert.Equal(t, uint64(8192), plan.Total)
	assert.Len(t, plan.Regions, 2)
}

func TestPlanAllocationNoCommonType(t *testing.T) {
	types := MemoryTypeSlice{
		{PropertyFlags: hostVisibleCoherent()},
		{PropertyFlags: hostVisibleCoherent()},
	}
	// The requirements share no memory type.
	reqs := []MemoryRequirement{
		{Size: 16, Alignment: 4, TypeBits: 0b01},
		{Size: 16, Alignment: 4, TypeBits: 0b10},
	}

	_, err := PlanAllocationFromRequirements(types, reqs, hostVisibleCoherent())
	var noType *NoCompatibleMemoryTypeError
	require.ErrorAs(t, err, &noType)
	assert.Zero(t, noType.TypeBits)
}
