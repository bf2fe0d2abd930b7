/*
Package vkx is a minimal layer for driving a GPU through Vulkan with fully
explicit resource and command management. It covers the four pieces every
one-shot Vulkan workload needs: picking a capable device and queue, manually
sub-allocating one device memory block across several buffers and images,
binding those resources to shader stages through descriptor sets, and
recording and submitting a single batch of work (a compute dispatch or a
draw).

Vulkan provides no runtime safety net for any of this. A wrong offset, a
descriptor slot left unwritten, or memory mapped while the GPU still reads it
produces silent corruption rather than an error. The point of this package is
to turn those undocumented conventions into checked preconditions: region
layout is computed by a pure planner whose invariants are testable without a
device, descriptor pools are sized from the same slot declaration as the
layout they serve, every slot must be written before a set may be used by a
command, and teardown runs in strict reverse creation order.

The flow of a typical program:

An Instance is created from an App description, a DeviceContext selects the
first device exposing a queue family with the required capability and creates
a logical device with a single queue. Buffers and images are created unbound,
handed to PlanAllocation which lays them out in one AllocationBlock, and
bound at their planned offsets. A DescriptorSetLayout is declared from
BindingSlots, a pool sized from those same slots hands out a DescriptorSet,
and concrete buffers are written into each slot. A pipeline is built from a
shader module and the layout, and a CommandSequencer records, submits and
awaits the batch. Host visible memory is mapped in exactly two windows: once
before submission to write inputs, once after completion to read results.

All synchronisation is deliberately coarse. One batch is in flight at a time
and AwaitCompletion drains the whole queue. That is correct for the single
fixed batch this package targets and wrong for pipelined or streaming
workloads, which are out of scope.

The examples directory contains two complete programs: a compute vector
addition and a windowed triangle draw.
*/
package vkx
