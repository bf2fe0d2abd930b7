package vkx

import (
	vk "github.com/vulkan-go/vulkan"
)

// BatchState tracks one batch of work through the sequencer. Transitions are
// linear: Initial → Recording → Recorded → Submitted → Completed. Abort
// abandons the current batch and returns to Initial.
type BatchState int

const (
	BatchInitial BatchState = iota
	BatchRecording
	BatchRecorded
	BatchSubmitted
	BatchCompleted
)

func (s BatchState) String() string {
	switch s {
	case BatchInitial:
		return "Initial"
	case BatchRecording:
		return "Recording"
	case BatchRecorded:
		return "Recorded"
	case BatchSubmitted:
		return "Submitted"
	case BatchCompleted:
		return "Completed"
	}
	return "Unknown"
}

// CommandSequencer records and submits one batch of work at a time over a
// transient command pool. Every entry point checks the batch state first, so
// out-of-order use fails as a RecordingError before the driver is involved.
// Completion is coarse: AwaitCompletion drains the whole queue.
type CommandSequencer struct {
	Device *Device
	Queue  *Queue
	Pool   *CommandPool
	Buffer *CommandBuffer

	state BatchState
}

// NewCommandSequencer creates a sequencer with its own transient pool on the
// queue's family.
func (d *Device) NewCommandSequencer(queue *Queue) (*CommandSequencer, error) {
	pool, err := d.CreateCommandPool(queue.QueueFamilyIndex)
	if err != nil {
		return nil, err
	}
	return &CommandSequencer{Device: d, Queue: queue, Pool: pool}, nil
}

// State returns the current batch state.
func (s *CommandSequencer) State() BatchState {
	return s.state
}

func (s *CommandSequencer) guard(op string, want BatchState) error {
	if s.state != want {
		return &RecordingError{Op: op, State: s.state}
	}
	return nil
}

// Begin allocates a one-time command buffer and starts recording.
func (s *CommandSequencer) Begin() error {
	if err := s.guard("Begin", BatchInitial); err != nil {
		return err
	}

	buffer, err := s.Pool.AllocateBuffer()
	if err != nil {
		return err
	}
	if err := buffer.BeginOneTime(); err != nil {
		s.Pool.FreeBuffer(buffer)
		return err
	}

	s.Buffer = buffer
	s.state = BatchRecording
	return nil
}

// Dispatch records a compute dispatch. The descriptor set must be complete;
// an unwritten slot fails here rather than as driver-level undefined
// behaviour.
func (s *CommandSequencer) Dispatch(pipeline *ComputePipeline, layout *PipelineLayout, set *DescriptorSet, x, y, z int) error {
	if err := s.guard("Dispatch", BatchRecording); err != nil {
		return err
	}
	if err := set.RequireComplete(); err != nil {
		return err
	}

	s.Buffer.CmdBindComputePipeline(pipeline)
	s.Buffer.CmdBindDescriptorSets(vk.PipelineBindPointCompute, layout, 0, set)
	s.Buffer.CmdDispatch(x, y, z)
	return nil
}

// DrawBatch is everything one recorded draw needs: the pass and framebuffer
// to render into, the vertex buffers in binding order and the vertex count.
type DrawBatch struct {
	RenderPass    *RenderPass
	Framebuffer   *Framebuffer
	ClearColor    [4]float32
	VertexBuffers []*Buffer
	VertexCount   int
	InstanceCount int
}

// Draw records one render pass containing a single draw, with viewport and
// scissor set dynamically from the framebuffer extent. The pipeline's
// declared render target is re-checked against the pass; set may be nil for
// pipelines with no descriptor bindings.
func (s *CommandSequencer) Draw(pipeline *GraphicsPipeline, layout *PipelineLayout, set *DescriptorSet, batch DrawBatch) error {
	if err := s.guard("Draw", BatchRecording); err != nil {
		return err
	}
	if err := checkRenderTargetCompatibility(pipeline.Target, batch.RenderPass.Target); err != nil {
		return err
	}
	if set != nil {
		if err := set.RequireComplete(); err != nil {
			return err
		}
	}

	instances := batch.InstanceCount
	if instances == 0 {
		instances = 1
	}

	s.Buffer.CmdBeginRenderPass(batch.RenderPass, batch.Framebuffer, batch.ClearColor)
	s.Buffer.CmdBindGraphicsPipeline(pipeline)
	s.Buffer.CmdSetViewport(batch.Framebuffer.Extent)
	s.Buffer.CmdSetScissor(batch.Framebuffer.Extent)
	if len(batch.VertexBuffers) > 0 {
		s.Buffer.CmdBindVertexBuffers(batch.VertexBuffers...)
	}
	if set != nil {
		s.Buffer.CmdBindDescriptorSets(vk.PipelineBindPointGraphics, layout, 0, set)
	}
	s.Buffer.CmdDraw(batch.VertexCount, instances, 0, 0)
	s.Buffer.CmdEndRenderPass()
	return nil
}

// End finishes recording the batch.
func (s *CommandSequencer) End() error {
	if err := s.guard("End", BatchRecording); err != nil {
		return err
	}
	if err := s.Buffer.End(); err != nil {
		return err
	}
	s.state = BatchRecorded
	return nil
}

// Submit hands the recorded batch to the queue. No semaphores are involved;
// ordering against other work is by queue order and AwaitCompletion.
func (s *CommandSequencer) Submit() error {
	if err := s.guard("Submit", BatchRecorded); err != nil {
		return err
	}
	if err := s.Queue.Submit(s.Buffer); err != nil {
		return err
	}
	s.state = BatchSubmitted
	return nil
}

// AwaitCompletion blocks until the queue drains, completing the batch. The
// batch's outputs are safe to map and read afterwards.
func (s *CommandSequencer) AwaitCompletion() error {
	if err := s.guard("AwaitCompletion", BatchSubmitted); err != nil {
		return err
	}
	if err := s.Queue.WaitIdle(); err != nil {
		return err
	}
	s.state = BatchCompleted
	return nil
}

// Run records nothing further: it submits and waits in one call.
func (s *CommandSequencer) Run() error {
	if err := s.Submit(); err != nil {
		return err
	}
	return s.AwaitCompletion()
}

// Abort abandons the current batch, releasing its command buffer, and
// returns the sequencer to Initial so a new batch can begin. If the batch
// was already submitted the queue is drained first.
func (s *CommandSequencer) Abort() error {
	if s.state == BatchSubmitted {
		if err := s.Queue.WaitIdle(); err != nil {
			return err
		}
	}
	if s.Buffer != nil {
		s.Pool.FreeBuffer(s.Buffer)
		s.Buffer = nil
	}
	s.state = BatchInitial
	return nil
}

// Reset releases the completed batch's buffer and readies the sequencer for
// the next one.
func (s *CommandSequencer) Reset() error {
	if err := s.guard("Reset", BatchCompleted); err != nil {
		return err
	}
	s.Pool.FreeBuffer(s.Buffer)
	s.Buffer = nil
	s.state = BatchInitial
	return nil
}

// Destroy releases the pool and any in-flight buffer. A submitted batch is
// drained first.
func (s *CommandSequencer) Destroy() {
	if s.state == BatchSubmitted {
		s.Queue.WaitIdle()
	}
	s.Pool.Destroy()
}
