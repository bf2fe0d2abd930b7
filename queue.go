package vkx

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// Queue is the single work submission channel resolved at device creation.
type Queue struct {
	Device           *Device
	QueueFamilyIndex int
	VKQueue          vk.Queue
}

// Submit hands recorded command buffers to the queue with no wait or signal
// semaphores; ordering against completion is established solely through
// WaitIdle.
func (q *Queue) Submit(buffers ...*CommandBuffer) error {
	b := make([]vk.CommandBuffer, len(buffers))
	for i := range buffers {
		b[i] = buffers[i].VKCommandBuffer
	}

	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: uint32(len(buffers)),
		PCommandBuffers:    b,
	}

	if res := vk.QueueSubmit(q.VKQueue, 1, []vk.SubmitInfo{submitInfo}, vk.NullFence); res != vk.Success {
		return &SubmissionError{Result: res}
	}
	return nil
}

// SubmitWithSemaphores is the window-system variant of Submit: it waits on
// the acquire semaphore before the color attachment output stage and signals
// the present semaphore on completion. The core batch path never uses this.
func (q *Queue) SubmitWithSemaphores(wait, signal vk.Semaphore, buffers ...*CommandBuffer) error {
	b := make([]vk.CommandBuffer, len(buffers))
	for i := range buffers {
		b[i] = buffers[i].VKCommandBuffer
	}

	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: uint32(len(buffers)),
		PCommandBuffers:    b,
	}
	if wait != vk.NullSemaphore {
		submitInfo.WaitSemaphoreCount = 1
		submitInfo.PWaitSemaphores = []vk.Semaphore{wait}
		submitInfo.PWaitDstStageMask = []vk.PipelineStageFlags{
			vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		}
	}
	if signal != vk.NullSemaphore {
		submitInfo.SignalSemaphoreCount = 1
		submitInfo.PSignalSemaphores = []vk.Semaphore{signal}
	}

	if res := vk.QueueSubmit(q.VKQueue, 1, []vk.SubmitInfo{submitInfo}, vk.NullFence); res != vk.Success {
		return &SubmissionError{Result: res}
	}
	return nil
}

// WaitIdle blocks the calling thread until the queue has drained every
// submitted batch. This serializes the whole queue; it is the only
// synchronization primitive this package uses.
func (q *Queue) WaitIdle() error {
	if res := vk.QueueWaitIdle(q.VKQueue); res != vk.Success {
		return &SubmissionError{Result: res}
	}
	return nil
}

func (q *Queue) String() string {
	return fmt.Sprintf("{Device: %s QueueFamilyIndex: %d}", q.Device.String(), q.QueueFamilyIndex)
}
