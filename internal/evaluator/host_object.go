package evaluator

import (
	"fmt"

	"github.com/funvibe/objrepl/internal/catalog"
)

// HostObject is an opaque handle to an instance living in an Arena.
// It never holds the instance itself; the arena slot does.
type HostObject struct {
	Handle int
	Class  *catalog.Class
	arena  *Arena
	gen    uint64
}

func (h *HostObject) Type() ObjectType { return HOST_OBJ }

func (h *HostObject) Inspect() string {
	inst, ok := h.Instance()
	if !ok {
		return fmt.Sprintf("<released %s#%d>", h.Class.Name, h.Handle)
	}
	return catalog.Display(inst)
}

// Instance returns the instance behind the handle, or false once released.
func (h *HostObject) Instance() (any, bool) {
	if h.arena == nil {
		return nil, false
	}
	return h.arena.Instance(h)
}

// Arena returns the arena that owns the handle.
func (h *HostObject) Arena() *Arena { return h.arena }

// Same reports whether h and other name the same arena slot.
func (h *HostObject) Same(other *HostObject) bool {
	return other != nil && h.arena == other.arena && h.Handle == other.Handle && h.gen == other.gen
}
