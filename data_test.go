package vkx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestInt32SliceBytes(t *testing.T) {
	s := Int32Slice{1, -2, 42}
	b := s.Bytes()
	require.Len(t, b, 12)

	round := Int32SliceFromBytes(b)
	assert.Equal(t, s, round)
}

func TestInt32SliceFromBytesAliases(t *testing.T) {
	s := Int32Slice{0, 0}
	view := Int32SliceFromBytes(s.Bytes())

	view[1] = 7
	assert.Equal(t, int32(7), s[1])
}

func TestFloat32SliceBytes(t *testing.T) {
	s := Float32Slice{0.5, -1.5}
	assert.Len(t, s.Bytes(), 8)
}

// fakeResource stands in for a buffer so bind pre-checks can run without a
// driver.
type fakeResource struct {
	req   MemoryRequirement
	bound bool
}

func (f *fakeResource) Destroy() {}

func (f *fakeResource) MemoryRequirement() MemoryRequirement { return f.req }
func (f *fakeResource) bindMemory(memory vk.DeviceMemory, region MemoryRegion) vk.Result {
	f.bound = true
	return vk.Success
}

func TestBlockBindRejectsMisalignedRegion(t *testing.T) {
	block := &AllocationBlock{Memory: &DeviceMemory{}}
	resource := &fakeResource{req: MemoryRequirement{Size: 64, Alignment: 64}}

	err := block.Bind(resource, MemoryRegion{Offset: 48, Size: 64, Alignment: 64})
	require.Error(t, err)

	var conflict *BindConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, uint64(48), conflict.Offset)
	assert.False(t, resource.bound, "driver bind must not be attempted")
}

func TestBlockBindAllUsesPlanOrder(t *testing.T) {
	reqs := []MemoryRequirement{
		{Size: 64, Alignment: 64},
		{Size: 64, Alignment: 64},
	}
	regions, total := PlanRegions(reqs)
	block := &AllocationBlock{
		Memory: &DeviceMemory{},
		Plan:   &MemoryPlan{Regions: regions, Total: total},
	}

	resources := []BindableResource{
		&fakeResource{req: reqs[0]},
		&fakeResource{req: reqs[1]},
	}
	require.NoError(t, block.BindAll(resources))

	for i, r := range resources {
		assert.Truef(t, r.(*fakeResource).bound, "resource %d not bound", i)
	}
}

func TestRegionBytesNilWhileUnmapped(t *testing.T) {
	block := &AllocationBlock{
		Memory: &DeviceMemory{},
		Plan:   &MemoryPlan{Total: 128},
	}
	assert.Nil(t, block.RegionBytes(MemoryRegion{Offset: 0, Size: 64}))
}
