// Package dispatch selects and runs constructors and methods from the
// catalog against runtime values.
//
// Selection is first-match: candidates are walked in catalog order and the
// first one whose declared shape accepts the arguments is called. There is
// no scoring and no ambiguity error.
package dispatch

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/funvibe/objrepl/internal/catalog"
	"github.com/funvibe/objrepl/internal/evaluator"
)

// ConstructorMember is the member name reported for constructor faults.
const ConstructorMember = "<init>"

// Engine dispatches against one registry, allocating results in one arena.
type Engine struct {
	registry *catalog.Registry
	arena    *evaluator.Arena
	log      *slog.Logger
}

// New creates an engine. A nil logger falls back to slog.Default().
func New(registry *catalog.Registry, arena *evaluator.Arena, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{registry: registry, arena: arena, log: log}
}

func (e *Engine) Registry() *catalog.Registry { return e.registry }
func (e *Engine) Arena() *evaluator.Arena     { return e.arena }

// ClassOf returns the runtime class of a value. Integers box to the class
// bound to int64 and text to the class bound to string. Nil and released
// handles have no class.
func (e *Engine) ClassOf(v evaluator.Object) (*catalog.Class, bool) {
	switch o := v.(type) {
	case *evaluator.Integer:
		return e.registry.ClassOf(o.Value)
	case *evaluator.Text:
		return e.registry.ClassOf(o.Value)
	case *evaluator.HostObject:
		if _, ok := o.Instance(); !ok {
			return nil, false
		}
		return o.Class, true
	}
	return nil, false
}

// Matches reports whether values fit the declared shapes position by
// position. Nil fits any shape and checking continues with the next
// position. The primitive int shape only takes Integer values; every other
// shape takes values whose runtime class is the shape or a subtype of it.
func (e *Engine) Matches(shapes []*catalog.Class, values []evaluator.Object) bool {
	if len(shapes) != len(values) {
		return false
	}
	for i, shape := range shapes {
		v := values[i]
		if evaluator.IsNil(v) {
			continue
		}
		if shape.IsPrimitiveInt() {
			if _, ok := v.(*evaluator.Integer); !ok {
				return false
			}
			continue
		}
		cls, ok := e.ClassOf(v)
		if !ok || !cls.AssignableTo(shape) {
			return false
		}
	}
	return true
}

// Construct resolves className and calls the first constructor whose shape
// accepts args.
func (e *Engine) Construct(className string, args []evaluator.Object) (evaluator.Object, error) {
	cls, ok := e.registry.Lookup(className)
	if !ok {
		return nil, &DispatchError{Kind: ClassNotFound, Target: className}
	}
	for _, ctor := range cls.Constructors {
		if !e.Matches(ctor.Params, args) {
			continue
		}
		e.log.Debug("constructor selected", "class", cls.Name, "signature", catalog.Signature(ctor.Params))
		out, err := e.call(cls.Name, ConstructorMember, func() (any, error) {
			return ctor.New(e.unwrapAll(args))
		})
		if err != nil {
			return nil, err
		}
		if isNilResult(out) {
			return nil, &InvocationError{Target: cls.Name, Member: ConstructorMember, Err: errors.New("constructor produced no instance")}
		}
		return e.wrap(out, nil), nil
	}
	return nil, &DispatchError{Kind: NoMatchingConstructor, Target: cls.Name, Args: e.DescribeArgs(args)}
}

// Invoke calls the first method named methodName on the receiver's runtime
// class whose shape accepts args. A void or nil result is returned as NIL.
func (e *Engine) Invoke(receiver evaluator.Object, methodName string, args []evaluator.Object) (evaluator.Object, error) {
	if evaluator.IsNil(receiver) {
		return nil, &DispatchError{Kind: ReceiverNotFound, Target: "null", Member: methodName}
	}
	cls, ok := e.ClassOf(receiver)
	if !ok {
		return nil, &DispatchError{Kind: ReceiverNotFound, Target: receiver.Inspect(), Member: methodName}
	}
	recv := e.unwrap(receiver)
	host, _ := receiver.(*evaluator.HostObject)

	for _, m := range cls.MethodsNamed(methodName) {
		if !e.Matches(m.Params, args) {
			continue
		}
		e.log.Debug("method selected", "method", m.String())
		out, err := e.call(cls.Name, methodName, func() (any, error) {
			return m.Call(recv, e.unwrapAll(args))
		})
		if err != nil {
			return nil, err
		}
		return e.wrap(out, host), nil
	}
	return nil, &DispatchError{Kind: NoMatchingMethod, Target: cls.Name, Member: methodName, Args: e.DescribeArgs(args)}
}

// call runs member code, converting both returned errors and panics into
// an InvocationError.
func (e *Engine) call(target, member string, fn func() (any, error)) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Debug("member panicked", "target", target, "member", member, "panic", r)
			out = nil
			err = &InvocationError{Target: target, Member: member, Err: fmt.Errorf("%v", r)}
		}
	}()
	out, err = fn()
	if err != nil {
		return nil, &InvocationError{Target: target, Member: member, Err: err}
	}
	return out, nil
}

func (e *Engine) unwrap(v evaluator.Object) any {
	switch o := v.(type) {
	case *evaluator.Integer:
		return o.Value
	case *evaluator.Text:
		return o.Value
	case *evaluator.HostObject:
		inst, _ := o.Instance()
		return inst
	}
	return nil
}

func (e *Engine) unwrapAll(args []evaluator.Object) []any {
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = e.unwrap(a)
	}
	return out
}

func isNilResult(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// wrap converts a host result back into a value. A result that is the
// receiver's own instance keeps the receiver's handle.
func (e *Engine) wrap(result any, receiver *evaluator.HostObject) evaluator.Object {
	switch v := result.(type) {
	case int64:
		return &evaluator.Integer{Value: v}
	case int:
		return &evaluator.Integer{Value: int64(v)}
	case int32:
		return &evaluator.Integer{Value: int64(v)}
	case string:
		return &evaluator.Text{Value: v}
	}
	if isNilResult(result) {
		return evaluator.NIL
	}
	if receiver != nil {
		if inst, ok := receiver.Instance(); ok && catalog.Equal(inst, result) {
			return receiver
		}
	}
	cls, ok := e.registry.ClassOf(result)
	if !ok {
		cls = e.fallbackClass(result)
	}
	return e.arena.Alloc(cls, result)
}

// Wrap converts a Go value into a session value. Instances of registered
// classes get a fresh handle; unregistered types are rejected.
func (e *Engine) Wrap(v any) (evaluator.Object, error) {
	switch v.(type) {
	case int64, int, int32, string:
		return e.wrap(v, nil), nil
	}
	if isNilResult(v) {
		return evaluator.NIL, nil
	}
	if _, ok := e.registry.ClassOf(v); !ok {
		return nil, fmt.Errorf("no class registered for %T", v)
	}
	return e.wrap(v, nil), nil
}

// Unwrap returns the Go value behind v; nil for NIL and released handles.
func (e *Engine) Unwrap(v evaluator.Object) any { return e.unwrap(v) }

func (e *Engine) fallbackClass(result any) *catalog.Class {
	if obj, ok := e.registry.Class("java.lang.Object"); ok {
		return obj
	}
	return catalog.NewClass(fmt.Sprintf("%T", result), nil)
}

// DescribeArgs renders the runtime types of args, e.g. "(int, java.lang.String, null)".
func (e *Engine) DescribeArgs(args []evaluator.Object) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = e.TypeName(a)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// TypeName names the runtime type of a value for diagnostics.
func (e *Engine) TypeName(v evaluator.Object) string {
	if _, ok := v.(*evaluator.Integer); ok {
		return catalog.Int.Name
	}
	if cls, ok := e.ClassOf(v); ok {
		return cls.Name
	}
	return "null"
}
