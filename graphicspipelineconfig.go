package vkx

import (
	vk "github.com/vulkan-go/vulkan"
)

// GraphicsPipelineConfig accumulates the state a graphics pipeline build
// needs. Zero values take sensible defaults; Build validates the config
// against the render pass's target before the driver sees anything.
type GraphicsPipelineConfig struct {
	Device       *Device
	ShaderStages []vk.PipelineShaderStageCreateInfo

	PipelineLayout *PipelineLayout

	// Target declares the attachments this pipeline expects to render
	// into. It is checked against the render pass at build time.
	Target RenderTarget

	// PrimitiveTopology defaults to triangle list.
	PrimitiveTopology      vk.PrimitiveTopology
	PrimitiveRestartEnable vk.Bool32

	// PolygonMode defaults to fill.
	PolygonMode vk.PolygonMode

	// LineWidth defaults to 1.0.
	LineWidth float32

	// CullMode defaults to back-face culling.
	CullMode vk.CullModeFlagBits

	// FrontFace defaults to counter-clockwise.
	FrontFace vk.FrontFace

	// DynamicState lists the pipeline state the command stream may change,
	// e.g. viewport and scissor. Defaults to none.
	DynamicState []vk.DynamicState

	// BlendAttachments defaults to a single no-blend attachment writing
	// all color components.
	BlendAttachments []vk.PipelineColorBlendAttachmentState

	// DepthTestEnable and DepthWriteEnable default to the presence of a
	// depth attachment in Target.
	DepthTestEnable  bool
	DepthWriteEnable bool

	VertexInputBindingDescriptions   []vk.VertexInputBindingDescription
	VertexInputAttributeDescriptions []vk.VertexInputAttributeDescription

	toDestroy []IDestructable
}

// CreateGraphicsPipelineConfig returns a config with defaults filled in for
// rendering into the target.
func (d *Device) CreateGraphicsPipelineConfig(target RenderTarget) *GraphicsPipelineConfig {
	if target.Samples == 0 {
		target.Samples = vk.SampleCount1Bit
	}
	return &GraphicsPipelineConfig{
		Device:                 d,
		Target:                 target,
		PrimitiveTopology:      vk.PrimitiveTopologyTriangleList,
		PrimitiveRestartEnable: vk.False,
		PolygonMode:            vk.PolygonModeFill,
		LineWidth:              1.0,
		CullMode:               vk.CullModeBackBit,
		FrontFace:              vk.FrontFaceCounterClockwise,
		DepthTestEnable:        target.HasDepth(),
		DepthWriteEnable:       target.HasDepth(),
	}
}

func (g *GraphicsPipelineConfig) manageDestroy(d IDestructable) {
	g.toDestroy = append(g.toDestroy, d)
}

// Destroy releases resources the config created on the caller's behalf, e.g.
// shader modules loaded from file.
func (g *GraphicsPipelineConfig) Destroy() {
	for _, d := range g.toDestroy {
		d.Destroy()
	}
}

// AddShaderStageFromFile loads a SPIR-V file and appends it as a stage. The
// module is owned by the config and released by Destroy.
func (g *GraphicsPipelineConfig) AddShaderStageFromFile(file, entryPoint string, stageType vk.ShaderStageFlagBits) error {
	shader, err := g.Device.LoadShaderModuleFromFile(file)
	if err != nil {
		return err
	}
	g.ShaderStages = append(g.ShaderStages, shader.VKPipelineShaderStageCreateInfo(stageType, entryPoint))
	g.manageDestroy(shader)
	return nil
}

// SetShaderStages sets the shader stages directly.
func (g *GraphicsPipelineConfig) SetShaderStages(shaderStages []vk.PipelineShaderStageCreateInfo) *GraphicsPipelineConfig {
	g.ShaderStages = shaderStages
	return g
}

// SetPipelineLayout sets the pipeline layout.
func (g *GraphicsPipelineConfig) SetPipelineLayout(layout *PipelineLayout) *GraphicsPipelineConfig {
	g.PipelineLayout = layout
	return g
}

// SetCullMode sets the cull mode.
func (g *GraphicsPipelineConfig) SetCullMode(mode vk.CullModeFlagBits) *GraphicsPipelineConfig {
	g.CullMode = mode
	return g
}

// SetDynamicState declares which pipeline state the command stream may set.
func (g *GraphicsPipelineConfig) SetDynamicState(states ...vk.DynamicState) *GraphicsPipelineConfig {
	g.DynamicState = states
	return g
}

// AddBlendAttachment appends a color blend attachment state.
func (g *GraphicsPipelineConfig) AddBlendAttachment(ba vk.PipelineColorBlendAttachmentState) *GraphicsPipelineConfig {
	g.BlendAttachments = append(g.BlendAttachments, ba)
	return g
}

// AddVertexDescriptor appends the binding and attribute descriptions a
// vertex source declares.
func (g *GraphicsPipelineConfig) AddVertexDescriptor(v VertexDescriptor) *GraphicsPipelineConfig {
	g.VertexInputBindingDescriptions = append(g.VertexInputBindingDescriptions, v.GetBindingDescription())
	g.VertexInputAttributeDescriptions = append(g.VertexInputAttributeDescriptions, v.GetAttributeDescriptions()...)
	return g
}

// GraphicsPipeline is a built graphics pipeline, valid only for render
// passes whose target matches the one it was built for.
type GraphicsPipeline struct {
	Device     *Device
	Target     RenderTarget
	VKPipeline vk.Pipeline
}

func (p *GraphicsPipeline) Destroy() {
	vk.DestroyPipeline(p.Device.VKDevice, p.VKPipeline, nil)
}

// Build validates the config's declared target against the render pass and
// creates the pipeline. An incompatible target fails here with
// IncompatibleRenderTargetError rather than at draw time.
func (g *GraphicsPipelineConfig) Build(cache *PipelineCache, renderPass *RenderPass, extent vk.Extent2D) (*GraphicsPipeline, error) {
	if err := checkRenderTargetCompatibility(g.Target, renderPass.Target); err != nil {
		return nil, err
	}
	if len(g.ShaderStages) == 0 || g.PipelineLayout == nil {
		return nil, &PipelineCreationError{Result: vk.ErrorInitializationFailed}
	}

	createInfo := g.vkGraphicsPipelineCreateInfo(extent)
	createInfo.RenderPass = renderPass.VKRenderPass

	pipelines := make([]vk.Pipeline, 1)
	res := vk.CreateGraphicsPipelines(g.Device.VKDevice, cache.VKPipelineCache, 1,
		[]vk.GraphicsPipelineCreateInfo{createInfo}, nil, pipelines)
	if res != vk.Success {
		return nil, &PipelineCreationError{Result: res}
	}

	return &GraphicsPipeline{
		Device:     g.Device,
		Target:     g.Target,
		VKPipeline: pipelines[0],
	}, nil
}

func (g *GraphicsPipelineConfig) vkGraphicsPipelineCreateInfo(extent vk.Extent2D) vk.GraphicsPipelineCreateInfo {
	vertexInputState := vk.PipelineVertexInputStateCreateInfo{
		SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
		VertexBindingDescriptionCount:   uint32(len(g.VertexInputBindingDescriptions)),
		PVertexBindingDescriptions:      g.VertexInputBindingDescriptions,
		VertexAttributeDescriptionCount: uint32(len(g.VertexInputAttributeDescriptions)),
		PVertexAttributeDescriptions:    g.VertexInputAttributeDescriptions,
	}

	inputAssemblyState := vk.PipelineInputAssemblyStateCreateInfo{
		SType:                  vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology:               g.PrimitiveTopology,
		PrimitiveRestartEnable: g.PrimitiveRestartEnable,
	}

	viewport := vk.Viewport{
		Width:    float32(extent.Width),
		Height:   float32(extent.Height),
		MinDepth: 0.0,
		MaxDepth: 1.0,
	}
	scissor := vk.Rect2D{Extent: extent}

	viewportState := vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		ViewportCount: 1,
		PViewports:    []vk.Viewport{viewport},
		ScissorCount:  1,
		PScissors:     []vk.Rect2D{scissor},
	}

	rasterState := vk.PipelineRasterizationStateCreateInfo{
		SType:       vk.StructureTypePipelineRasterizationStateCreateInfo,
		PolygonMode: g.PolygonMode,
		LineWidth:   g.LineWidth,
		CullMode:    vk.CullModeFlags(g.CullMode),
		FrontFace:   g.FrontFace,
	}

	multisampleState := vk.PipelineMultisampleStateCreateInfo{
		SType:                vk.StructureTypePipelineMultisampleStateCreateInfo,
		RasterizationSamples: g.Target.Samples,
	}

	blendAttachments := g.BlendAttachments
	if blendAttachments == nil {
		blendAttachments = []vk.PipelineColorBlendAttachmentState{{
			ColorWriteMask: vk.ColorComponentFlags(vk.ColorComponentRBit | vk.ColorComponentGBit | vk.ColorComponentBBit | vk.ColorComponentABit),
			BlendEnable:    vk.False,
		}}
	}

	colorBlendState := vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		AttachmentCount: uint32(len(blendAttachments)),
		PAttachments:    blendAttachments,
	}

	dynamicState := vk.PipelineDynamicStateCreateInfo{
		SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
		DynamicStateCount: uint32(len(g.DynamicState)),
		PDynamicStates:    g.DynamicState,
	}

	dte := vk.Bool32(vk.False)
	if g.DepthTestEnable {
		dte = vk.Bool32(vk.True)
	}
	dwe := vk.Bool32(vk.False)
	if g.DepthWriteEnable {
		dwe = vk.Bool32(vk.True)
	}

	depthStencil := vk.PipelineDepthStencilStateCreateInfo{
		SType:            vk.StructureTypePipelineDepthStencilStateCreateInfo,
		DepthTestEnable:  dte,
		DepthWriteEnable: dwe,
		DepthCompareOp:   vk.CompareOpLess,
		MaxDepthBounds:   1.0,
	}

	return vk.GraphicsPipelineCreateInfo{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount:          uint32(len(g.ShaderStages)),
		PStages:             g.ShaderStages,
		PVertexInputState:   &vertexInputState,
		PInputAssemblyState: &inputAssemblyState,
		PDepthStencilState:  &depthStencil,
		PViewportState:      &viewportState,
		PRasterizationState: &rasterState,
		PMultisampleState:   &multisampleState,
		PColorBlendState:    &colorBlendState,
		PDynamicState:       &dynamicState,
		Layout:              g.PipelineLayout.VKPipelineLayout,
		Subpass:             0,
	}
}
