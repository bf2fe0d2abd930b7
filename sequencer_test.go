package vkx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func requireRecordingError(t *testing.T, err error, op string, state BatchState) {
	t.Helper()
	require.Error(t, err)

	var recording *RecordingError
	require.ErrorAs(t, err, &recording)
	assert.Equal(t, op, recording.Op)
	assert.Equal(t, state, recording.State)
}

func TestSequencerGuardsInitialState(t *testing.T) {
	s := &CommandSequencer{}

	requireRecordingError(t, s.Dispatch(nil, nil, nil, 1, 1, 1), "Dispatch", BatchInitial)
	requireRecordingError(t, s.End(), "End", BatchInitial)
	requireRecordingError(t, s.Submit(), "Submit", BatchInitial)
	requireRecordingError(t, s.AwaitCompletion(), "AwaitCompletion", BatchInitial)
}

func TestSequencerRejectsDoubleBegin(t *testing.T) {
	s := &CommandSequencer{state: BatchRecording}

	requireRecordingError(t, s.Begin(), "Begin", BatchRecording)
}

func TestSequencerRejectsSubmitWhileRecording(t *testing.T) {
	s := &CommandSequencer{state: BatchRecording}

	requireRecordingError(t, s.Submit(), "Submit", BatchRecording)
}

func TestSequencerRejectsRecordingAfterEnd(t *testing.T) {
	s := &CommandSequencer{state: BatchRecorded}

	requireRecordingError(t, s.Dispatch(nil, nil, nil, 1, 1, 1), "Dispatch", BatchRecorded)
	requireRecordingError(t, s.End(), "End", BatchRecorded)
}

func TestSequencerRejectsReuseAfterCompletion(t *testing.T) {
	s := &CommandSequencer{state: BatchCompleted}

	requireRecordingError(t, s.Submit(), "Submit", BatchCompleted)
	requireRecordingError(t, s.AwaitCompletion(), "AwaitCompletion", BatchCompleted)
}

func TestSequencerDispatchRequiresCompleteSet(t *testing.T) {
	s := &CommandSequencer{state: BatchRecording}
	set := setWithSlots(threeStorageSlots())
	set.written[0] = true

	err := s.Dispatch(&ComputePipeline{}, &PipelineLayout{}, set, 1, 1, 1)
	require.Error(t, err)

	var incomplete *IncompleteDescriptorSetError
	require.ErrorAs(t, err, &incomplete)
	assert.ElementsMatch(t, []int{1, 2}, incomplete.Missing)

	// The incomplete set must not advance or corrupt the batch.
	assert.Equal(t, BatchRecording, s.State())
}

func TestSequencerDrawChecksRenderTarget(t *testing.T) {
	s := &CommandSequencer{state: BatchRecording}

	pipeline := &GraphicsPipeline{Target: RenderTarget{
		ColorFormat: vk.FormatB8g8r8a8Unorm,
		DepthFormat: vk.FormatD16Unorm,
		Samples:     vk.SampleCount1Bit,
	}}
	pass := &RenderPass{Target: RenderTarget{
		ColorFormat: vk.FormatR8g8b8a8Unorm,
		DepthFormat: vk.FormatD16Unorm,
		Samples:     vk.SampleCount1Bit,
	}}

	err := s.Draw(pipeline, &PipelineLayout{}, nil, DrawBatch{RenderPass: pass})
	require.Error(t, err)

	var incompatible *IncompatibleRenderTargetError
	require.ErrorAs(t, err, &incompatible)
	assert.Equal(t, "ColorFormat", incompatible.Field)
	assert.Equal(t, BatchRecording, s.State())
}

func TestSequencerAbortReturnsToInitial(t *testing.T) {
	s := &CommandSequencer{state: BatchRecording}

	require.NoError(t, s.Abort())
	assert.Equal(t, BatchInitial, s.State())
}

func TestBatchStateString(t *testing.T) {
	assert.Equal(t, "Initial", BatchInitial.String())
	assert.Equal(t, "Recording", BatchRecording.String())
	assert.Equal(t, "Recorded", BatchRecorded.String())
	assert.Equal(t, "Submitted", BatchSubmitted.String())
	assert.Equal(t, "Completed", BatchCompleted.String())
}
