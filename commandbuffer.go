package vkx

import (
	vk "github.com/vulkan-go/vulkan"
)

// CommandBuffer is a thin wrapper over one primary command buffer. Not every
// command is wrapped; callers needing more reach for the native handle via
// VK().
type CommandBuffer struct {
	VKCommandBuffer vk.CommandBuffer
}

// VK exposes the native handle for commands this package does not wrap.
func (c *CommandBuffer) VK() vk.CommandBuffer {
	return c.VKCommandBuffer
}

// BeginOneTime starts recording for a buffer that will be submitted once and
// then discarded.
func (c *CommandBuffer) BeginOneTime() error {
	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}
	if res := vk.BeginCommandBuffer(c.VKCommandBuffer, &beginInfo); res != vk.Success {
		return &RecordingError{Result: res}
	}
	return nil
}

// End finishes recording.
func (c *CommandBuffer) End() error {
	if res := vk.EndCommandBuffer(c.VKCommandBuffer); res != vk.Success {
		return &RecordingError{Result: res}
	}
	return nil
}

// Reset returns the buffer to its initial state.
func (c *CommandBuffer) Reset() error {
	if res := vk.ResetCommandBuffer(c.VKCommandBuffer, 0); res != vk.Success {
		return &RecordingError{Result: res}
	}
	return nil
}

func (c *CommandBuffer) CmdBindComputePipeline(p *ComputePipeline) {
	vk.CmdBindPipeline(c.VKCommandBuffer, vk.PipelineBindPointCompute, p.VKPipeline)
}

func (c *CommandBuffer) CmdBindGraphicsPipeline(p *GraphicsPipeline) {
	vk.CmdBindPipeline(c.VKCommandBuffer, vk.PipelineBindPointGraphics, p.VKPipeline)
}

func (c *CommandBuffer) CmdBindDescriptorSets(bindPoint vk.PipelineBindPoint, layout *PipelineLayout, firstSet int, descriptorSets ...*DescriptorSet) {
	sets := make([]vk.DescriptorSet, len(descriptorSets))
	for i := range descriptorSets {
		sets[i] = descriptorSets[i].VKDescriptorSet
	}
	vk.CmdBindDescriptorSets(c.VKCommandBuffer, bindPoint,
		layout.VKPipelineLayout, uint32(firstSet), uint32(len(sets)), sets, 0, nil)
}

func (c *CommandBuffer) CmdDispatch(x, y, z int) {
	vk.CmdDispatch(c.VKCommandBuffer, uint32(x), uint32(y), uint32(z))
}

func (c *CommandBuffer) CmdSetViewport(extent vk.Extent2D) {
	vk.CmdSetViewport(c.VKCommandBuffer, 0, 1, []vk.Viewport{{
		Width:    float32(extent.Width),
		Height:   float32(extent.Height),
		MinDepth: 0.0,
		MaxDepth: 1.0,
	}})
}

func (c *CommandBuffer) CmdSetScissor(extent vk.Extent2D) {
	vk.CmdSetScissor(c.VKCommandBuffer, 0, 1, []vk.Rect2D{{Extent: extent}})
}

// CmdBindVertexBuffers binds the buffers to consecutive vertex input
// bindings starting at zero, each at offset zero.
func (c *CommandBuffer) CmdBindVertexBuffers(buffers ...*Buffer) {
	vkBuffers := make([]vk.Buffer, len(buffers))
	offsets := make([]vk.DeviceSize, len(buffers))
	for i, b := range buffers {
		vkBuffers[i] = b.VKBuffer
	}
	vk.CmdBindVertexBuffers(c.VKCommandBuffer, 0, uint32(len(vkBuffers)), vkBuffers, offsets)
}

func (c *CommandBuffer) CmdDraw(vertexCount, instanceCount, firstVertex, firstInstance int) {
	vk.CmdDraw(c.VKCommandBuffer, uint32(vertexCount), uint32(instanceCount), uint32(firstVertex), uint32(firstInstance))
}

// CmdBeginRenderPass starts the render pass over the framebuffer, clearing
// the color attachment to the given color and the depth attachment, when
// present, to the far plane.
func (c *CommandBuffer) CmdBeginRenderPass(renderPass *RenderPass, framebuffer *Framebuffer, clearColor [4]float32) {
	clearValues := []vk.ClearValue{
		vk.NewClearValue(clearColor[:]),
	}
	if renderPass.Target.HasDepth() {
		clearValues = append(clearValues, vk.NewClearDepthStencil(1.0, 0))
	}

	beginInfo := vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  renderPass.VKRenderPass,
		Framebuffer: framebuffer.VKFramebuffer,
		RenderArea: vk.Rect2D{
			Extent: framebuffer.Extent,
		},
		ClearValueCount: uint32(len(clearValues)),
		PClearValues:    clearValues,
	}
	vk.CmdBeginRenderPass(c.VKCommandBuffer, &beginInfo, vk.SubpassContentsInline)
}

func (c *CommandBuffer) CmdEndRenderPass() {
	vk.CmdEndRenderPass(c.VKCommandBuffer)
}
