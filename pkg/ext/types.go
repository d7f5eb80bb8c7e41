// Package ext lets host programs add their own classes to a session's
// catalog.
//
//	counter := ext.NewClass("demo.Counter", reg.Object())
//	counter.Ctor(func([]any) (any, error) { return &Counter{}, nil })
//	counter.Method("incr", ext.Int, incr)
//	ext.Register[*Counter](reg, counter)
package ext

import (
	"fmt"
	"reflect"

	"github.com/funvibe/objrepl/internal/catalog"
)

// Catalog types aliases
type Class = catalog.Class
type ConstructorFunc = catalog.ConstructorFunc
type MethodFunc = catalog.MethodFunc

// Int is the primitive integer parameter shape.
var Int = catalog.Int

// NewClass creates a class extending super.
func NewClass(name string, super *Class, interfaces ...*Class) *Class {
	return catalog.NewClass(name, super, interfaces...)
}

// NewInterface creates an interface shape.
func NewInterface(name string, extends ...*Class) *Class {
	return catalog.NewInterface(name, extends...)
}

// Registry is the view of a session catalog handed to registrars.
type Registry struct {
	reg *catalog.Registry
}

func Wrap(reg *catalog.Registry) *Registry { return &Registry{reg: reg} }

// Class returns a registered class by fully qualified name, for use as a
// superclass or parameter shape.
func (r *Registry) Class(name string) (*Class, error) {
	c, ok := r.reg.Class(name)
	if !ok {
		return nil, fmt.Errorf("class %s is not registered", name)
	}
	return c, nil
}

// Object returns java.lang.Object.
func (r *Registry) Object() *Class {
	c, _ := r.reg.Class("java.lang.Object")
	return c
}

// String returns java.lang.String.
func (r *Registry) String() *Class {
	c, _ := r.reg.Class("java.lang.String")
	return c
}

// Register adds c and binds the Go type T to it, so values of type T
// returned from members are recognised as instances of c.
func Register[T any](r *Registry, c *Class) error {
	if _, exists := r.reg.Class(c.Name); exists {
		return fmt.Errorf("class %s is already registered", c.Name)
	}
	r.reg.Register(c, reflect.TypeOf((*T)(nil)).Elem())
	return nil
}
