package vkx

import (
	"errors"
	"fmt"
	"sort"

	vk "github.com/vulkan-go/vulkan"
)

// MissingCapabilityExitCode is the process exit code reported when a required
// capability (a capable device or an exactly matching memory type) cannot be
// found, as opposed to the driver rejecting a call.
const MissingCapabilityExitCode = -43

// resultString renders a vk.Result for error messages. vk.Error returns nil
// for vk.Success so it cannot be used directly.
func resultString(r vk.Result) string {
	if err := vk.Error(r); err != nil {
		return err.Error()
	}
	return "success"
}

// resultCarrier is implemented by every error kind which carries an
// underlying driver result code.
type resultCarrier interface {
	resultCode() vk.Result
}

// NoCapableDeviceError indicates that no enumerated physical device exposes a
// queue family with the required capability.
type NoCapableDeviceError struct {
	Required QueueCapability
}

func (e *NoCapableDeviceError) Error() string {
	return fmt.Sprintf("no physical device exposes a %s capable queue family", e.Required)
}

// DeviceCreationError indicates that the driver rejected logical device
// creation.
type DeviceCreationError struct {
	Result vk.Result
}

func (e *DeviceCreationError) Error() string {
	return fmt.Sprintf("creating logical device: %s", resultString(e.Result))
}

func (e *DeviceCreationError) resultCode() vk.Result { return e.Result }

// NoCompatibleMemoryTypeError indicates that no memory type is compatible
// with every resource and exposes exactly the requested property flags.
// Matching is exact equality, not superset containment.
type NoCompatibleMemoryTypeError struct {
	Required vk.MemoryPropertyFlags
	TypeBits uint32
}

func (e *NoCompatibleMemoryTypeError) Error() string {
	return fmt.Sprintf("no memory type in bitmask %#x with property flags exactly %#x", e.TypeBits, e.Required)
}

// BindConflictError indicates that a planned region does not satisfy the
// alignment a resource reported, or that the driver rejected the bind. A
// failing alignment check means the region was not produced by PlanRegions
// for this resource.
type BindConflictError struct {
	Offset    uint64
	Alignment uint64
	Result    vk.Result
}

func (e *BindConflictError) Error() string {
	if e.Alignment != 0 {
		return fmt.Sprintf("binding at offset %d violates required alignment %d", e.Offset, e.Alignment)
	}
	return fmt.Sprintf("binding at offset %d: %s", e.Offset, resultString(e.Result))
}

func (e *BindConflictError) resultCode() vk.Result { return e.Result }

// DescriptorPoolExhaustedError indicates that a descriptor pool cannot
// satisfy a set allocation, either detected against the pool's declared
// capacity before calling the driver or reported by the driver itself.
type DescriptorPoolExhaustedError struct {
	Type      vk.DescriptorType
	Requested int
	Remaining int
	Result    vk.Result
}

func (e *DescriptorPoolExhaustedError) Error() string {
	if e.Requested > 0 {
		return fmt.Sprintf("descriptor pool exhausted: need %d descriptors of type %d, %d remaining", e.Requested, e.Type, e.Remaining)
	}
	return fmt.Sprintf("descriptor pool exhausted: %s", resultString(e.Result))
}

func (e *DescriptorPoolExhaustedError) resultCode() vk.Result { return e.Result }

// IncompleteDescriptorSetError indicates that a descriptor set was about to
// be used by a command while one or more declared slots had not been written.
// Using such a set is undefined behaviour at the driver level, so it is
// rejected before recording.
type IncompleteDescriptorSetError struct {
	Missing []int
}

func (e *IncompleteDescriptorSetError) Error() string {
	m := append([]int(nil), e.Missing...)
	sort.Ints(m)
	return fmt.Sprintf("descriptor set used with unwritten slots %v", m)
}

// PipelineCreationError indicates that the driver rejected pipeline creation.
type PipelineCreationError struct {
	Result vk.Result
}

func (e *PipelineCreationError) Error() string {
	return fmt.Sprintf("creating pipeline: %s", resultString(e.Result))
}

func (e *PipelineCreationError) resultCode() vk.Result { return e.Result }

// IncompatibleRenderTargetError indicates that a graphics pipeline was built
// against a render target description which does not match the render pass it
// will execute in. Detected at build time rather than at draw time.
type IncompatibleRenderTargetError struct {
	Field string
	Want  string
	Got   string
}

func (e *IncompatibleRenderTargetError) Error() string {
	return fmt.Sprintf("render target %s mismatch: pipeline declares %s, render pass has %s", e.Field, e.Want, e.Got)
}

// CommandBufferAllocationError indicates that a command pool or command
// buffer could not be created.
type CommandBufferAllocationError struct {
	Result vk.Result
}

func (e *CommandBufferAllocationError) Error() string {
	return fmt.Sprintf("allocating command buffer: %s", resultString(e.Result))
}

func (e *CommandBufferAllocationError) resultCode() vk.Result { return e.Result }

// RecordingError indicates either a driver failure while recording a command
// buffer or a sequencer operation invoked in the wrong state.
type RecordingError struct {
	Op     string
	State  BatchState
	Result vk.Result
}

func (e *RecordingError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s invoked in state %s", e.Op, e.State)
	}
	return fmt.Sprintf("recording command buffer: %s", resultString(e.Result))
}

func (e *RecordingError) resultCode() vk.Result { return e.Result }

// SubmissionError indicates that the queue rejected a submission or failed to
// drain.
type SubmissionError struct {
	Result vk.Result
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submitting to queue: %s", resultString(e.Result))
}

func (e *SubmissionError) resultCode() vk.Result { return e.Result }

// ExitCode maps an error to a process exit code: 0 for nil, the underlying
// driver result code where one is available, MissingCapabilityExitCode when a
// required capability was absent, and 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var noDevice *NoCapableDeviceError
	var noMemory *NoCompatibleMemoryTypeError
	if errors.As(err, &noDevice) || errors.As(err, &noMemory) {
		return MissingCapabilityExitCode
	}
	var carrier resultCarrier
	if errors.As(err, &carrier) {
		if code := int(carrier.resultCode()); code != 0 {
			return code
		}
	}
	return 1
}
