package evaluator

import (
	"errors"
	"io"

	"github.com/funvibe/objrepl/internal/catalog"
)

type slot struct {
	instance any
	class    *catalog.Class
	gen      uint64
	live     bool
}

// Arena owns every host instance created during one session. Handles are
// slot indices plus a generation, so a handle outliving its slot is detected
// instead of aliasing whatever reuses the index.
type Arena struct {
	slots []slot
	free  []int
	gen   uint64
}

func NewArena() *Arena {
	return &Arena{}
}

// Alloc stores instance and returns a fresh handle to it.
func (a *Arena) Alloc(class *catalog.Class, instance any) *HostObject {
	a.gen++
	var idx int
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.slots = append(a.slots, slot{})
		idx = len(a.slots) - 1
	}
	a.slots[idx] = slot{instance: instance, class: class, gen: a.gen, live: true}
	return &HostObject{Handle: idx, Class: class, arena: a, gen: a.gen}
}

func (a *Arena) valid(h *HostObject) bool {
	if h == nil || h.arena != a || h.Handle < 0 || h.Handle >= len(a.slots) {
		return false
	}
	s := a.slots[h.Handle]
	return s.live && s.gen == h.gen
}

// Instance returns the instance behind h.
func (a *Arena) Instance(h *HostObject) (any, bool) {
	if !a.valid(h) {
		return nil, false
	}
	return a.slots[h.Handle].instance, true
}

// Release frees the slot behind h. When no other live slot refers to the
// same instance and the instance is an io.Closer, it is closed. Releasing a
// stale handle is a no-op.
func (a *Arena) Release(h *HostObject) error {
	if !a.valid(h) {
		return nil
	}
	inst := a.slots[h.Handle].instance
	a.slots[h.Handle] = slot{}
	a.free = append(a.free, h.Handle)

	closer, ok := inst.(io.Closer)
	if !ok || a.holds(inst) {
		return nil
	}
	return closer.Close()
}

func (a *Arena) holds(inst any) bool {
	for _, s := range a.slots {
		if s.live && catalog.Equal(s.instance, inst) {
			return true
		}
	}
	return false
}

// Live reports the number of occupied slots.
func (a *Arena) Live() int {
	n := 0
	for _, s := range a.slots {
		if s.live {
			n++
		}
	}
	return n
}

// Close releases every live slot.
func (a *Arena) Close() error {
	var errs []error
	for idx, s := range a.slots {
		if !s.live {
			continue
		}
		if err := a.Release(&HostObject{Handle: idx, Class: s.class, arena: a, gen: s.gen}); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
