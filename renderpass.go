package vkx

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// RenderTarget describes the attachments a render pass renders into and a
// graphics pipeline is built against. Pipelines declare the target they
// expect and the declaration is checked against the render pass at build
// time, so a mismatch surfaces as an error instead of a driver fault at draw
// time.
type RenderTarget struct {
	ColorFormat vk.Format

	// DepthFormat is FormatUndefined when the target has no depth
	// attachment.
	DepthFormat vk.Format

	Samples vk.SampleCountFlagBits

	// Presentable targets transition their color attachment to the
	// present layout at the end of the pass.
	Presentable bool
}

// HasDepth reports whether the target carries a depth attachment.
func (t RenderTarget) HasDepth() bool {
	return t.DepthFormat != vk.FormatUndefined
}

func formatName(f vk.Format) string {
	return fmt.Sprintf("format(%d)", int32(f))
}

// checkRenderTargetCompatibility compares the target a pipeline was
// configured for against the target of the render pass it is being built
// with. Pure; the first mismatching field is reported.
func checkRenderTargetCompatibility(want, got RenderTarget) error {
	if want.ColorFormat != got.ColorFormat {
		return &IncompatibleRenderTargetError{
			Field: "ColorFormat",
			Want:  formatName(want.ColorFormat),
			Got:   formatName(got.ColorFormat),
		}
	}
	if want.DepthFormat != got.DepthFormat {
		return &IncompatibleRenderTargetError{
			Field: "DepthFormat",
			Want:  formatName(want.DepthFormat),
			Got:   formatName(got.DepthFormat),
		}
	}
	if want.Samples != got.Samples {
		return &IncompatibleRenderTargetError{
			Field: "Samples",
			Want:  fmt.Sprintf("%d", want.Samples),
			Got:   fmt.Sprintf("%d", got.Samples),
		}
	}
	return nil
}

// RenderPass owns a render pass handle together with the target it was built
// from.
type RenderPass struct {
	Device       *Device
	Target       RenderTarget
	VKRenderPass vk.RenderPass
}

// CreateRenderPass builds a single-subpass render pass for the target: one
// cleared color attachment and, when the target declares one, one cleared
// depth attachment.
func (d *Device) CreateRenderPass(target RenderTarget) (*RenderPass, error) {
	samples := target.Samples
	if samples == 0 {
		samples = vk.SampleCount1Bit
	}

	finalLayout := vk.ImageLayoutColorAttachmentOptimal
	if target.Presentable {
		finalLayout = vk.ImageLayoutPresentSrc
	}

	attachments := []vk.AttachmentDescription{{
		Format:         target.ColorFormat,
		Samples:        samples,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    finalLayout,
	}}

	colorRef := []vk.AttachmentReference{{
		Attachment: 0,
		Layout:     vk.ImageLayoutColorAttachmentOptimal,
	}}

	subpass := vk.SubpassDescription{
		PipelineBindPoint:    vk.PipelineBindPointGraphics,
		ColorAttachmentCount: 1,
		PColorAttachments:    colorRef,
	}

	if target.HasDepth() {
		attachments = append(attachments, vk.AttachmentDescription{
			Format:         target.DepthFormat,
			Samples:        samples,
			LoadOp:         vk.AttachmentLoadOpClear,
			StoreOp:        vk.AttachmentStoreOpDontCare,
			StencilLoadOp:  vk.AttachmentLoadOpDontCare,
			StencilStoreOp: vk.AttachmentStoreOpDontCare,
			InitialLayout:  vk.ImageLayoutUndefined,
			FinalLayout:    vk.ImageLayoutDepthStencilAttachmentOptimal,
		})
		subpass.PDepthStencilAttachment = &vk.AttachmentReference{
			Attachment: 1,
			Layout:     vk.ImageLayoutDepthStencilAttachmentOptimal,
		}
	}

	createInfo := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
	}

	var renderPass vk.RenderPass
	if res := vk.CreateRenderPass(d.VKDevice, &createInfo, nil, &renderPass); res != vk.Success {
		return nil, vk.Error(res)
	}

	target.Samples = samples
	return &RenderPass{Device: d, Target: target, VKRenderPass: renderPass}, nil
}

func (r *RenderPass) Destroy() {
	vk.DestroyRenderPass(r.Device.VKDevice, r.VKRenderPass, nil)
}

// Framebuffer binds concrete image views to a render pass's attachments.
type Framebuffer struct {
	Device        *Device
	Extent        vk.Extent2D
	VKFramebuffer vk.Framebuffer
}

// CreateFramebuffer creates a framebuffer over the given views, which must
// appear in the render pass's attachment order.
func (r *RenderPass) CreateFramebuffer(extent vk.Extent2D, views ...*ImageView) (*Framebuffer, error) {
	attachments := make([]vk.ImageView, len(views))
	for i, v := range views {
		attachments[i] = v.VKImageView
	}

	createInfo := vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      r.VKRenderPass,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		Width:           extent.Width,
		Height:          extent.Height,
		Layers:          1,
	}

	var framebuffer vk.Framebuffer
	if res := vk.CreateFramebuffer(r.Device.VKDevice, &createInfo, nil, &framebuffer); res != vk.Success {
		return nil, vk.Error(res)
	}

	return &Framebuffer{Device: r.Device, Extent: extent, VKFramebuffer: framebuffer}, nil
}

func (f *Framebuffer) Destroy() {
	vk.DestroyFramebuffer(f.Device.VKDevice, f.VKFramebuffer, nil)
}
