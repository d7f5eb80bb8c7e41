// Package catalog is the capability table of host-representable types.
//
// Every class exposes its constructors and methods as uniform function
// objects together with their declared parameter shapes. The dispatch engine
// never inspects Go types directly; it only walks what a Registry hands out.
package catalog

import (
	"strings"
)

// ConstructorFunc builds a new host instance from marshalled arguments.
// Arguments arrive as int64, string, nil, or a host instance.
type ConstructorFunc func(args []any) (any, error)

// MethodFunc calls a member on recv with marshalled arguments.
// A nil result with a nil error means "no value" (void).
type MethodFunc func(recv any, args []any) (any, error)

// Class describes one type exposed to the interpreter.
type Class struct {
	Name       string // fully qualified, e.g. java.lang.String
	Super      *Class
	Interfaces []*Class
	Primitive  bool
	Interface  bool

	Constructors []*Constructor
	Methods      []*Method
}

// Constructor is a construction candidate.
type Constructor struct {
	Class  *Class
	Params []*Class
	New    ConstructorFunc
}

// Method is an invocation candidate.
type Method struct {
	Name    string
	Owner   *Class
	Params  []*Class
	Returns *Class // nil for void
	Call    MethodFunc
}

// Int is the primitive integer shape. Only Integer values satisfy it.
var Int = &Class{Name: "int", Primitive: true}

// Void is used for display only; methods without a result have a nil Returns.
var Void = &Class{Name: "void", Primitive: true}

// NewClass creates a class extending super (nil for a root class).
func NewClass(name string, super *Class, interfaces ...*Class) *Class {
	return &Class{Name: name, Super: super, Interfaces: interfaces}
}

// NewInterface creates an interface type. Interfaces have no constructors.
func NewInterface(name string, extends ...*Class) *Class {
	return &Class{Name: name, Interface: true, Interfaces: extends}
}

// Ctor appends a constructor. Declaration order is dispatch order.
func (c *Class) Ctor(fn ConstructorFunc, params ...*Class) *Class {
	c.Constructors = append(c.Constructors, &Constructor{Class: c, Params: params, New: fn})
	return c
}

// Method appends a method. Declaration order is dispatch order.
func (c *Class) Method(name string, returns *Class, fn MethodFunc, params ...*Class) *Class {
	c.Methods = append(c.Methods, &Method{Name: name, Owner: c, Params: params, Returns: returns, Call: fn})
	return c
}

// IsPrimitiveInt reports whether c is the primitive integer shape.
func (c *Class) IsPrimitiveInt() bool {
	return c == Int
}

// SimpleName returns the last dotted segment of the class name.
func (c *Class) SimpleName() string {
	if i := strings.LastIndexByte(c.Name, '.'); i >= 0 {
		return c.Name[i+1:]
	}
	return c.Name
}

// AssignableTo reports whether an instance of c is also an instance of target:
// c equals target, or target is reachable through superclasses or interfaces.
func (c *Class) AssignableTo(target *Class) bool {
	if c == nil || target == nil {
		return false
	}
	if c == target {
		return true
	}
	if c.Primitive || target.Primitive {
		return false
	}
	for _, iface := range c.Interfaces {
		if iface.AssignableTo(target) {
			return true
		}
	}
	return c.Super.AssignableTo(target)
}

// MethodsNamed returns every method called name visible on c: the class's own
// methods first in declaration order, then inherited ones up the superclass chain.
func (c *Class) MethodsNamed(name string) []*Method {
	var out []*Method
	for cls := c; cls != nil; cls = cls.Super {
		for _, m := range cls.Methods {
			if m.Name == name {
				out = append(out, m)
			}
		}
	}
	return out
}

// AllMethods returns the visible methods of c, own first then inherited.
func (c *Class) AllMethods() []*Method {
	var out []*Method
	for cls := c; cls != nil; cls = cls.Super {
		out = append(out, cls.Methods...)
	}
	return out
}

// Signature renders a parameter shape as "(int, java.lang.String)".
func Signature(params []*Class) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Name)
	}
	sb.WriteByte(')')
	return sb.String()
}

func (m *Method) String() string {
	ret := Void
	if m.Returns != nil {
		ret = m.Returns
	}
	return ret.Name + " " + m.Owner.Name + "." + m.Name + Signature(m.Params)
}

func (k *Constructor) String() string {
	return k.Class.Name + Signature(k.Params)
}
