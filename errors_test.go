package vkx

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	vk "github.com/vulkan-go/vulkan"
)

func TestExitCodeSuccess(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
}

func TestExitCodeMissingCapability(t *testing.T) {
	assert.Equal(t, MissingCapabilityExitCode,
		ExitCode(&NoCapableDeviceError{Required: QueueCapabilityCompute}))
	assert.Equal(t, MissingCapabilityExitCode,
		ExitCode(&NoCompatibleMemoryTypeError{Required: hostVisibleCoherent(), TypeBits: 0b111}))
}

func TestExitCodeMissingCapabilityWrapped(t *testing.T) {
	err := errors.Wrap(&NoCompatibleMemoryTypeError{}, "planning allocation")
	assert.Equal(t, MissingCapabilityExitCode, ExitCode(err))
}

func TestExitCodeDriverResult(t *testing.T) {
	err := &SubmissionError{Result: vk.ErrorDeviceLost}
	assert.Equal(t, int(vk.ErrorDeviceLost), ExitCode(err))

	err2 := &PipelineCreationError{Result: vk.ErrorOutOfDeviceMemory}
	assert.Equal(t, int(vk.ErrorOutOfDeviceMemory), ExitCode(err2))
}

func TestExitCodeGenericError(t *testing.T) {
	assert.Equal(t, 1, ExitCode(errors.New("shader file missing")))
}

func TestExitCodeCarrierWithoutResult(t *testing.T) {
	// A pre-driver rejection carries no result code; fall back to 1.
	err := &RecordingError{Op: "Submit", State: BatchRecording}
	assert.Equal(t, 1, ExitCode(err))
}

func TestErrorMessages(t *testing.T) {
	assert.Contains(t, (&NoCapableDeviceError{Required: QueueCapabilityGraphics}).Error(), "graphics")
	assert.Contains(t, (&IncompleteDescriptorSetError{Missing: []int{2, 0}}).Error(), "[0 2]")
	assert.Contains(t, (&BindConflictError{Offset: 48, Alignment: 64}).Error(), "alignment 64")
	assert.Contains(t, (&RecordingError{Op: "Draw", State: BatchRecorded}).Error(), "Draw invoked in state Recorded")
	assert.Contains(t, (&IncompatibleRenderTargetError{Field: "Samples", Want: "1", Got: "4"}).Error(), "Samples")
}
