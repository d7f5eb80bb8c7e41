// Package symbols holds the session symbol table: user-chosen names bound
// to runtime values.
package symbols

import (
	"errors"
	"sort"
	"strings"

	"github.com/funvibe/objrepl/internal/evaluator"
)

// SymbolTable maps case-sensitive names to values. A name holds exactly one
// value at a time. Handles that stop being reachable from the table are
// released back to the arena.
type SymbolTable struct {
	store map[string]evaluator.Object
	arena *evaluator.Arena
}

// NewSymbolTable creates an empty table releasing handles into arena.
// A nil arena disables releasing.
func NewSymbolTable(arena *evaluator.Arena) *SymbolTable {
	return &SymbolTable{
		store: make(map[string]evaluator.Object),
		arena: arena,
	}
}

// Define binds name to value, replacing any previous binding. The previous
// value's handle is released unless it is the same handle or still bound
// under another name. The returned error comes from releasing only; the new
// binding is in place either way.
func (s *SymbolTable) Define(name string, value evaluator.Object) error {
	old, existed := s.store[name]
	s.store[name] = value
	if !existed {
		return nil
	}
	return s.release(old)
}

func (s *SymbolTable) release(old evaluator.Object) error {
	h, ok := old.(*evaluator.HostObject)
	if !ok || s.arena == nil {
		return nil
	}
	for _, v := range s.store {
		if other, ok := v.(*evaluator.HostObject); ok && h.Same(other) {
			return nil
		}
	}
	return s.arena.Release(h)
}

// Find looks a name up without side effects.
func (s *SymbolTable) Find(name string) (evaluator.Object, bool) {
	v, ok := s.store[name]
	return v, ok
}

// IsDefined reports whether name is bound.
func (s *SymbolTable) IsDefined(name string) bool {
	_, ok := s.store[name]
	return ok
}

// Names returns the bound names in sorted order.
func (s *SymbolTable) Names() []string {
	names := make([]string, 0, len(s.store))
	for name := range s.store {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *SymbolTable) Len() int { return len(s.store) }

// String renders the table as {a=1, s=hello}.
func (s *SymbolTable) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, name := range s.Names() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(name)
		sb.WriteByte('=')
		sb.WriteString(s.store[name].Inspect())
	}
	sb.WriteByte('}')
	return sb.String()
}

// Close drops every binding and releases the handles they held.
func (s *SymbolTable) Close() error {
	var errs []error
	for _, name := range s.Names() {
		v := s.store[name]
		delete(s.store, name)
		if err := s.release(v); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
