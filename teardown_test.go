package vkx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordedHandle logs its destruction order into a shared journal.
type recordedHandle struct {
	name    string
	journal *[]string
}

func (h *recordedHandle) Destroy() {
	*h.journal = append(*h.journal, h.name)
}

func TestTeardownReverseOrder(t *testing.T) {
	var journal []string
	var teardown Teardown

	for _, name := range []string{"instance", "device", "buffer", "memory"} {
		teardown.Add(&recordedHandle{name: name, journal: &journal})
	}
	teardown.Destroy()

	assert.Equal(t, []string{"memory", "buffer", "device", "instance"}, journal)
}

func TestTeardownDestroyIsIdempotent(t *testing.T) {
	var journal []string
	var teardown Teardown

	teardown.Add(&recordedHandle{name: "a", journal: &journal})
	teardown.Destroy()
	teardown.Destroy()

	assert.Equal(t, []string{"a"}, journal)
}

func TestTeardownDefer(t *testing.T) {
	var journal []string
	var teardown Teardown

	teardown.Add(&recordedHandle{name: "handle", journal: &journal})
	teardown.Defer(func() { journal = append(journal, "func") })
	teardown.Destroy()

	assert.Equal(t, []string{"func", "handle"}, journal)
}

func TestTeardownPop(t *testing.T) {
	var journal []string
	var teardown Teardown

	teardown.Add(&recordedHandle{name: "first", journal: &journal})
	teardown.Add(&recordedHandle{name: "second", journal: &journal})

	teardown.Pop()
	assert.Equal(t, []string{"second"}, journal)
	assert.Equal(t, 1, teardown.Len())
}

func TestTeardownRemoveOnlyMostRecent(t *testing.T) {
	var journal []string
	var teardown Teardown

	first := &recordedHandle{name: "first", journal: &journal}
	second := &recordedHandle{name: "second", journal: &journal}
	teardown.Add(first)
	teardown.Add(second)

	// Detaching anything but the top of the stack breaks reverse order.
	require.Error(t, teardown.Remove(first))

	require.NoError(t, teardown.Remove(second))
	teardown.Destroy()

	// The removed resource is the caller's problem now.
	assert.Equal(t, []string{"first"}, journal)
}

func TestTeardownRemoveEmpty(t *testing.T) {
	var teardown Teardown
	require.Error(t, teardown.Remove(&recordedHandle{}))
}
