package vkx

import (
	"github.com/pkg/errors"
)

// destructorFunc adapts a plain function to IDestructable.
type destructorFunc func()

func (f destructorFunc) Destroy() { f() }

// Teardown records resources in creation order and destroys them strictly in
// reverse, so nothing is released while something created after it still
// holds a reference. A zero Teardown is ready to use.
type Teardown struct {
	items []IDestructable
}

// Add registers a resource for destruction. Resources are destroyed in the
// reverse of the order they were added.
func (t *Teardown) Add(d IDestructable) {
	t.items = append(t.items, d)
}

// Defer registers a plain cleanup function.
func (t *Teardown) Defer(f func()) {
	t.items = append(t.items, destructorFunc(f))
}

// Len returns the number of registered resources.
func (t *Teardown) Len() int {
	return len(t.items)
}

// Pop destroys and unregisters the most recently added resource.
func (t *Teardown) Pop() {
	if len(t.items) == 0 {
		return
	}
	last := len(t.items) - 1
	t.items[last].Destroy()
	t.items = t.items[:last]
}

// Remove unregisters a resource without destroying it, handing ownership
// back to the caller. Only the most recently added resource may be removed;
// detaching anything else would let it outlive resources created before it.
func (t *Teardown) Remove(d IDestructable) error {
	if len(t.items) == 0 {
		return errors.New("teardown: nothing registered")
	}
	last := len(t.items) - 1
	if t.items[last] != d {
		return errors.New("teardown: resource is not the most recently registered")
	}
	t.items = t.items[:last]
	return nil
}

// Destroy releases every registered resource in reverse creation order and
// empties the stack. Safe to call more than once.
func (t *Teardown) Destroy() {
	for i := len(t.items) - 1; i >= 0; i-- {
		t.items[i].Destroy()
	}
	t.items = nil
}
