package vkx

import (
	"os"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// DefaultEntryPoint is the shader entry point used when none is given.
const DefaultEntryPoint = "main"

type ShaderModule struct {
	Device         *Device
	Description    string
	VKShaderModule vk.ShaderModule
}

// LoadShaderModuleFromFile reads a SPIR-V binary and wraps it in a shader
// module.
func (d *Device) LoadShaderModuleFromFile(file string) (*ShaderModule, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrapf(err, "reading shader %q", file)
	}
	module, err := d.CreateShaderModule(data)
	if err != nil {
		return nil, err
	}
	module.Description = file
	return module, nil
}

// CreateShaderModule wraps an in-memory SPIR-V binary.
func (d *Device) CreateShaderModule(code []byte) (*ShaderModule, error) {
	var module vk.ShaderModule
	res := vk.CreateShaderModule(d.VKDevice, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code)),
		PCode:    sliceUint32(code),
	}, nil, &module)
	if res != vk.Success {
		return nil, vk.Error(res)
	}

	return &ShaderModule{Device: d, VKShaderModule: module}, nil
}

func (s *ShaderModule) VKPipelineShaderStageCreateInfo(stage vk.ShaderStageFlagBits, entryPoint string) vk.PipelineShaderStageCreateInfo {
	if entryPoint == "" {
		entryPoint = DefaultEntryPoint
	}
	return vk.PipelineShaderStageCreateInfo{
		SType:  vk.StructureTypePipelineShaderStageCreateInfo,
		Stage:  stage,
		Module: s.VKShaderModule,
		PName:  safeString(entryPoint),
	}
}

func (s *ShaderModule) Destroy() {
	vk.DestroyShaderModule(s.Device.VKDevice, s.VKShaderModule, nil)
}
