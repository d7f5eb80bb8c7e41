package catalog

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// Registry maps class names and Go types to classes.
//
// Thread-safe: registration happens once while a session is configured;
// lookups may come from several sessions sharing one registry.
type Registry struct {
	mu       sync.RWMutex
	classes  map[string]*Class
	byGoType map[reflect.Type]*Class
	aliases  map[string]string
	disabled map[string]bool
	imports  []string
}

// NewRegistry returns an empty registry with no imports.
func NewRegistry() *Registry {
	return &Registry{
		classes:  make(map[string]*Class),
		byGoType: make(map[reflect.Type]*Class),
		aliases:  make(map[string]string),
		disabled: make(map[string]bool),
	}
}

// Register adds c under its fully qualified name and binds the given Go types
// to it so that results of those types are recognised as instances of c.
func (r *Registry) Register(c *Class, goTypes ...reflect.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classes[c.Name] = c
	for _, t := range goTypes {
		r.byGoType[t] = c
	}
}

// SetImports replaces the package prefixes used to resolve simple names.
func (r *Registry) SetImports(imports []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.imports = append([]string(nil), imports...)
}

// Alias makes alias resolve to the class named target.
func (r *Registry) Alias(alias, target string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.classes[target]; !ok {
		return fmt.Errorf("alias %s: unknown class %s", alias, target)
	}
	if prev, ok := r.aliases[alias]; ok && prev != target {
		return fmt.Errorf("alias %s already refers to %s", alias, prev)
	}
	r.aliases[alias] = target
	return nil
}

// Disable hides a class from Lookup. Existing instances keep their class.
func (r *Registry) Disable(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.classes[name]; !ok {
		return fmt.Errorf("disable: unknown class %s", name)
	}
	r.disabled[name] = true
	return nil
}

// Lookup resolves a class name: fully qualified names first, then aliases,
// then each import prefix in order.
func (r *Registry) Lookup(name string) (*Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.visible(name); ok {
		return c, true
	}
	if target, ok := r.aliases[name]; ok {
		return r.visible(target)
	}
	if strings.Contains(name, ".") {
		return nil, false
	}
	for _, prefix := range r.imports {
		if c, ok := r.visible(prefix + "." + name); ok {
			return c, true
		}
	}
	return nil, false
}

func (r *Registry) visible(name string) (*Class, bool) {
	c, ok := r.classes[name]
	if !ok || r.disabled[name] || c.Interface {
		return nil, false
	}
	return c, true
}

// Class returns a registered class by fully qualified name, ignoring
// aliases and the disabled set.
func (r *Registry) Class(name string) (*Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.classes[name]
	return c, ok
}

// ClassOf returns the class bound to the dynamic Go type of instance.
func (r *Registry) ClassOf(instance any) (*Class, bool) {
	if instance == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byGoType[reflect.TypeOf(instance)]
	return c, ok
}

// Classes lists the visible, constructible classes sorted by name.
func (r *Registry) Classes() []*Class {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Class, 0, len(r.classes))
	for name, c := range r.classes {
		if r.disabled[name] || c.Interface {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Aliases returns alias → class name pairs.
func (r *Registry) Aliases() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.aliases))
	for k, v := range r.aliases {
		out[k] = v
	}
	return out
}
