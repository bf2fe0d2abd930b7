package vkx

import (
	vk "github.com/vulkan-go/vulkan"
)

// PipelineCache is shared across pipeline builds so repeated builds of the
// same stages are cheap.
type PipelineCache struct {
	Device          *Device
	VKPipelineCache vk.PipelineCache
}

func (d *Device) CreatePipelineCache() (*PipelineCache, error) {
	createInfo := vk.PipelineCacheCreateInfo{
		SType: vk.StructureTypePipelineCacheCreateInfo,
	}

	var cache vk.PipelineCache
	if res := vk.CreatePipelineCache(d.VKDevice, &createInfo, nil, &cache); res != vk.Success {
		return nil, vk.Error(res)
	}

	return &PipelineCache{Device: d, VKPipelineCache: cache}, nil
}

func (c *PipelineCache) Destroy() {
	vk.DestroyPipelineCache(c.Device.VKDevice, c.VKPipelineCache, nil)
}

// ComputePipeline pairs one compute shader stage with a pipeline layout.
// Configure the stage and layout, then build; the pipeline handle stays zero
// until BuildComputePipeline succeeds.
type ComputePipeline struct {
	Device     *Device
	VKPipeline vk.Pipeline

	shaderStage      vk.PipelineShaderStageCreateInfo
	hasShaderStage   bool
	VKPipelineLayout vk.PipelineLayout
}

func (d *Device) NewComputePipeline() *ComputePipeline {
	return &ComputePipeline{Device: d}
}

func (c *ComputePipeline) SetPipelineLayout(layout *PipelineLayout) {
	c.VKPipelineLayout = layout.VKPipelineLayout
}

func (c *ComputePipeline) SetShaderStage(entryPoint string, shaderModule *ShaderModule) {
	c.shaderStage = shaderModule.VKPipelineShaderStageCreateInfo(vk.ShaderStageComputeBit, entryPoint)
	c.hasShaderStage = true
}

// BuildComputePipeline creates the pipeline from the configured stage and
// layout. An unset stage or layout is refused before the driver is called.
func (c *ComputePipeline) BuildComputePipeline(cache *PipelineCache) error {
	if !c.hasShaderStage || c.VKPipelineLayout == vk.NullPipelineLayout {
		return &PipelineCreationError{Result: vk.ErrorInitializationFailed}
	}

	createInfo := []vk.ComputePipelineCreateInfo{{
		SType:  vk.StructureTypeComputePipelineCreateInfo,
		Stage:  c.shaderStage,
		Layout: c.VKPipelineLayout,
	}}

	pipelines := make([]vk.Pipeline, 1)
	res := vk.CreateComputePipelines(c.Device.VKDevice, cache.VKPipelineCache, 1, createInfo, nil, pipelines)
	if res != vk.Success {
		return &PipelineCreationError{Result: res}
	}

	c.VKPipeline = pipelines[0]
	return nil
}

func (c *ComputePipeline) Destroy() {
	vk.DestroyPipeline(c.Device.VKDevice, c.VKPipeline, nil)
}
