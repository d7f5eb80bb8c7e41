package dispatch

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a dispatch attempt did not produce a value.
type ErrorKind int

const (
	ClassNotFound ErrorKind = iota
	NoMatchingConstructor
	ReceiverNotFound
	NoMatchingMethod
	InvocationFailed
	LiteralUnresolvable
)

func (k ErrorKind) String() string {
	switch k {
	case ClassNotFound:
		return "ClassNotFound"
	case NoMatchingConstructor:
		return "NoMatchingConstructor"
	case ReceiverNotFound:
		return "ReceiverNotFound"
	case NoMatchingMethod:
		return "NoMatchingMethod"
	case InvocationFailed:
		return "InvocationFailed"
	case LiteralUnresolvable:
		return "LiteralUnresolvable"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// DispatchError reports an expected, recoverable outcome: nothing suitable
// to call. It never carries a fault from member code; see InvocationError.
type DispatchError struct {
	Kind   ErrorKind
	Target string // class name or receiver name
	Member string // method name, empty for constructors
	Args   string // rendered argument types, e.g. "(int, null)"
}

func (e *DispatchError) Error() string {
	switch e.Kind {
	case ClassNotFound:
		return fmt.Sprintf("class %s not found", e.Target)
	case NoMatchingConstructor:
		return fmt.Sprintf("no constructor of %s accepts %s", e.Target, e.Args)
	case ReceiverNotFound:
		return fmt.Sprintf("%s not found", e.Target)
	case NoMatchingMethod:
		return fmt.Sprintf("no method %s.%s accepts %s", e.Target, e.Member, e.Args)
	case LiteralUnresolvable:
		return fmt.Sprintf("%s is not a variable, quoted text or integer", e.Target)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Target)
}

// Is matches any DispatchError of the same kind, so the sentinels below work
// with errors.Is.
func (e *DispatchError) Is(target error) bool {
	t, ok := target.(*DispatchError)
	return ok && t.Kind == e.Kind
}

var (
	ErrClassNotFound         = &DispatchError{Kind: ClassNotFound}
	ErrNoMatchingConstructor = &DispatchError{Kind: NoMatchingConstructor}
	ErrReceiverNotFound      = &DispatchError{Kind: ReceiverNotFound}
	ErrNoMatchingMethod      = &DispatchError{Kind: NoMatchingMethod}
	ErrLiteralUnresolvable   = &DispatchError{Kind: LiteralUnresolvable}
)

// InvocationError wraps a fault raised by the selected member itself,
// either a returned error or a recovered panic.
type InvocationError struct {
	Target string
	Member string // "<init>" for constructors
	Err    error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Member, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

// Kind is always InvocationFailed.
func (e *InvocationError) Kind() ErrorKind { return InvocationFailed }

// KindOf returns the kind carried by err, if it is a dispatch failure.
func KindOf(err error) (ErrorKind, bool) {
	var ie *InvocationError
	if errors.As(err, &ie) {
		return InvocationFailed, true
	}
	var de *DispatchError
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}
