package vkx

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// DescriptorSet owns one allocated set and tracks which of its declared slots
// have been written. A set is complete once every slot has a resource; work
// referencing an incomplete set is refused at record time rather than left to
// the driver.
type DescriptorSet struct {
	Device          *Device
	DescriptorPool  *DescriptorPool
	Layout          *DescriptorSetLayout
	VKDescriptorSet vk.DescriptorSet

	written map[int]bool
	pending []vk.WriteDescriptorSet

	// retained until Flush so the buffer/image info the driver reads from
	// stays reachable
	pendingBuffers [][]vk.DescriptorBufferInfo
	pendingImages  [][]vk.DescriptorImageInfo
}

// WriteBuffer points a slot at a buffer's full range. The write is staged;
// call Flush to hand the batch to the driver.
func (s *DescriptorSet) WriteBuffer(slot int, buffer *Buffer) error {
	i := s.Layout.Slots.find(slot)
	if i < 0 {
		return errors.Errorf("descriptor set layout declares no slot %d", slot)
	}

	bufferInfo := []vk.DescriptorBufferInfo{{
		Buffer: buffer.VKBuffer,
		Offset: 0,
		Range:  vk.DeviceSize(buffer.Size),
	}}
	s.pendingBuffers = append(s.pendingBuffers, bufferInfo)

	s.pending = append(s.pending, vk.WriteDescriptorSet{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          s.VKDescriptorSet,
		DstBinding:      uint32(slot),
		DescriptorCount: 1,
		DescriptorType:  s.Layout.Slots[i].Kind,
		PBufferInfo:     bufferInfo,
	})
	s.written[slot] = true
	return nil
}

// WriteImage points a slot at a sampled image view.
func (s *DescriptorSet) WriteImage(slot int, view *ImageView, sampler vk.Sampler, layout vk.ImageLayout) error {
	i := s.Layout.Slots.find(slot)
	if i < 0 {
		return errors.Errorf("descriptor set layout declares no slot %d", slot)
	}

	imageInfo := []vk.DescriptorImageInfo{{
		Sampler:     sampler,
		ImageView:   view.VKImageView,
		ImageLayout: layout,
	}}
	s.pendingImages = append(s.pendingImages, imageInfo)

	s.pending = append(s.pending, vk.WriteDescriptorSet{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          s.VKDescriptorSet,
		DstBinding:      uint32(slot),
		DescriptorCount: 1,
		DescriptorType:  s.Layout.Slots[i].Kind,
		PImageInfo:      imageInfo,
	})
	s.written[slot] = true
	return nil
}

// Flush pushes every staged write to the driver in one update.
func (s *DescriptorSet) Flush() {
	if len(s.pending) == 0 {
		return
	}
	vk.UpdateDescriptorSets(s.Device.VKDevice, uint32(len(s.pending)), s.pending, 0, nil)
	s.pending = nil
	s.pendingBuffers = nil
	s.pendingImages = nil
}

// MissingSlots returns the declared slot numbers not yet written, in
// declaration order.
func (s *DescriptorSet) MissingSlots() []int {
	var missing []int
	for _, b := range s.Layout.Slots {
		if !s.written[b.Slot] {
			missing = append(missing, b.Slot)
		}
	}
	return missing
}

// IsComplete reports whether every declared slot has been written.
func (s *DescriptorSet) IsComplete() bool {
	return len(s.MissingSlots()) == 0
}

// RequireComplete returns an IncompleteDescriptorSetError naming the unwritten
// slots, or nil when the set is usable.
func (s *DescriptorSet) RequireComplete() error {
	if missing := s.MissingSlots(); len(missing) > 0 {
		return &IncompleteDescriptorSetError{Missing: missing}
	}
	return nil
}

// Destroy returns the set to its pool.
func (s *DescriptorSet) Destroy() {
	s.DescriptorPool.Free(s)
}
