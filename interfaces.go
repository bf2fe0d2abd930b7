package vkx

import (
	vk "github.com/vulkan-go/vulkan"
)

// IDestructable is implemented by every owned wrapper in this package whose
// underlying Vulkan handle must be explicitly released.
type IDestructable interface {
	Destroy()
}

// BufferObject is host data which can be copied into mapped device memory.
type BufferObject interface {
	Bytes() []byte
}

// VertexDescriptor describes how vertex data in a buffer is laid out for the
// vertex input stage of a graphics pipeline.
type VertexDescriptor interface {
	GetBindingDescription() vk.VertexInputBindingDescription
	GetAttributeDescriptions() []vk.VertexInputAttributeDescription
}

// VertexSource is vertex data together with its layout description.
type VertexSource interface {
	BufferObject
	VertexDescriptor
}
