package vkx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func threeStorageSlots() BindingSlots {
	return BindingSlots{
		StorageBufferSlot(0),
		StorageBufferSlot(1),
		StorageBufferSlot(2),
	}
}

func TestLayoutBindingsMirrorSlots(t *testing.T) {
	slots := threeStorageSlots()
	bindings := slots.LayoutBindings()
	require.Len(t, bindings, 3)

	for i, b := range bindings {
		assert.Equal(t, uint32(slots[i].Slot), b.Binding)
		assert.Equal(t, vk.DescriptorTypeStorageBuffer, b.DescriptorType)
		assert.Equal(t, uint32(1), b.DescriptorCount)
	}
}

func TestPoolSizesDerivedFromSlots(t *testing.T) {
	slots := BindingSlots{
		StorageBufferSlot(0),
		StorageBufferSlot(1),
		UniformBufferSlot(2, vk.ShaderStageFlags(vk.ShaderStageVertexBit)),
	}

	sizes := slots.PoolSizes()
	require.Len(t, sizes, 2)

	// First-seen order: storage buffers then the uniform buffer.
	assert.Equal(t, vk.DescriptorTypeStorageBuffer, sizes[0].Type)
	assert.Equal(t, uint32(2), sizes[0].DescriptorCount)
	assert.Equal(t, vk.DescriptorTypeUniformBuffer, sizes[1].Type)
	assert.Equal(t, uint32(1), sizes[1].DescriptorCount)
}

func TestBindingSlotsFind(t *testing.T) {
	slots := BindingSlots{
		StorageBufferSlot(4),
		StorageBufferSlot(7),
	}

	assert.Equal(t, 0, slots.find(4))
	assert.Equal(t, 1, slots.find(7))
	assert.Equal(t, -1, slots.find(0))
}

func poolWithCapacity(sets int, slots BindingSlots) *DescriptorPool {
	remaining := make(map[vk.DescriptorType]int)
	for _, size := range slots.PoolSizes() {
		remaining[size.Type] = int(size.DescriptorCount) * sets
	}
	return &DescriptorPool{setsRemaining: sets, remaining: remaining}
}

func TestPoolCapacityCheckPasses(t *testing.T) {
	slots := threeStorageSlots()
	pool := poolWithCapacity(1, slots)

	require.NoError(t, pool.checkCapacity(slots))
}

func TestPoolCapacityCheckExhaustedDescriptors(t *testing.T) {
	// Pool sized for two storage buffers cannot hold a three-slot set.
	pool := poolWithCapacity(1, BindingSlots{
		StorageBufferSlot(0),
		StorageBufferSlot(1),
	})

	err := pool.checkCapacity(threeStorageSlots())
	require.Error(t, err)

	var exhausted *DescriptorPoolExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, vk.DescriptorTypeStorageBuffer, exhausted.Type)
	assert.Equal(t, 3, exhausted.Requested)
	assert.Equal(t, 2, exhausted.Remaining)
}

func TestPoolCapacityCheckExhaustedSets(t *testing.T) {
	slots := threeStorageSlots()
	pool := poolWithCapacity(1, slots)
	pool.consume(slots)

	err := pool.checkCapacity(slots)
	var exhausted *DescriptorPoolExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Zero(t, exhausted.Remaining)
}

func TestPoolConsumeTracksRemaining(t *testing.T) {
	slots := threeStorageSlots()
	pool := poolWithCapacity(2, slots)

	pool.consume(slots)
	require.NoError(t, pool.checkCapacity(slots))

	pool.consume(slots)
	require.Error(t, pool.checkCapacity(slots))
}

func setWithSlots(slots BindingSlots) *DescriptorSet {
	return &DescriptorSet{
		Layout:  &DescriptorSetLayout{Slots: slots},
		written: make(map[int]bool, len(slots)),
	}
}

func TestDescriptorSetMissingSlots(t *testing.T) {
	set := setWithSlots(threeStorageSlots())

	assert.Equal(t, []int{0, 1, 2}, set.MissingSlots())
	assert.False(t, set.IsComplete())

	set.written[1] = true
	assert.Equal(t, []int{0, 2}, set.MissingSlots())
}

func TestDescriptorSetRequireComplete(t *testing.T) {
	set := setWithSlots(threeStorageSlots())
	set.written[0] = true

	err := set.RequireComplete()
	require.Error(t, err)

	var incomplete *IncompleteDescriptorSetError
	require.ErrorAs(t, err, &incomplete)
	assert.ElementsMatch(t, []int{1, 2}, incomplete.Missing)

	set.written[1] = true
	set.written[2] = true
	require.NoError(t, set.RequireComplete())
	assert.True(t, set.IsComplete())
}

func TestDescriptorSetWriteUnknownSlot(t *testing.T) {
	set := setWithSlots(threeStorageSlots())

	err := set.WriteBuffer(9, &Buffer{Size: 16})
	require.Error(t, err)

	// A rejected write must not change completeness tracking.
	assert.Equal(t, []int{0, 1, 2}, set.MissingSlots())
}
