package evaluator

type ObjectType string

const (
	INTEGER_OBJ = "INTEGER"
	TEXT_OBJ    = "TEXT"
	HOST_OBJ    = "HOST"
	NIL_OBJ     = "NIL"
)

// Object is a runtime value. The set of implementations is closed:
// *Integer, *Text, *HostObject and *Nil.
type Object interface {
	Type() ObjectType
	Inspect() string
}

// NIL is the shared none value. It is also what an unresolvable argument
// token turns into.
var NIL = &Nil{}

// IsNil reports whether obj is absent or the none value.
func IsNil(obj Object) bool {
	if obj == nil {
		return true
	}
	_, ok := obj.(*Nil)
	return ok
}
