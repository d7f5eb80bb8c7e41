package catalog

import (
	"fmt"
	"hash/fnv"
	"math"
	"reflect"
	"strconv"
)

const (
	// maxPrealloc caps capacity hints so a large hint cannot allocate up front.
	maxPrealloc = 1024
	// maxTextLength bounds strings built by repeat and setLength.
	maxTextLength = 1 << 24
)

// DefaultImports are the package prefixes searched for simple class names.
var DefaultImports = []string{"java.lang", "java.util", "java.sql", "java.math", "java.security"}

// Builtins groups the classes registered by NewDefault.
type Builtins struct {
	Object        *Class
	CharSequence  *Class
	Number        *Class
	String        *Class
	Integer       *Class
	Boolean       *Class
	StringBuilder *Class
	ArrayList     *Class
	HashMap       *Class
	UUID          *Class
	Connection    *Class
	Statement     *Class
	BigDecimal    *Class
	MessageDigest *Class
}

// NewDefault returns a registry holding the builtin classes with
// DefaultImports applied.
func NewDefault() *Registry {
	r, _ := NewDefaultWithBuiltins()
	return r
}

// NewDefaultWithBuiltins is NewDefault that also returns the class handles.
func NewDefaultWithBuiltins() (*Registry, *Builtins) {
	r := NewRegistry()
	b := &Builtins{}
	registerLang(r, b)
	registerUtil(r, b)
	registerSQL(r, b)
	registerMath(r, b)
	registerSecurity(r, b)
	r.SetImports(DefaultImports)
	return r, b
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func arg(args []any, i int) (any, error) {
	if i >= len(args) {
		return nil, fmt.Errorf("missing argument %d", i)
	}
	return args[i], nil
}

// argInt reads an int argument. Values outside the 32-bit int range are
// rejected.
func argInt(args []any, i int) (int64, error) {
	v, err := arg(args, i)
	if err != nil {
		return 0, err
	}
	n, ok := v.(int64)
	if !ok {
		return 0, fmt.Errorf("argument %d: expected int, got %s", i, describe(v))
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, fmt.Errorf("IllegalArgumentException: argument %d: %d is out of int range", i, n)
	}
	return n, nil
}

// textLimit rejects results longer than maxTextLength.
func textLimit(n int64) error {
	if n > maxTextLength {
		return fmt.Errorf("OutOfMemoryError: requested length %d exceeds %d", n, maxTextLength)
	}
	return nil
}

func argString(args []any, i int) (string, error) {
	v, err := arg(args, i)
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", fmt.Errorf("NullPointerException: argument %d is null", i)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %d: expected java.lang.String, got %s", i, describe(v))
	}
	return s, nil
}

// argChars accepts any CharSequence: a string or a *StringBuilder.
func argChars(args []any, i int) (string, error) {
	v, err := arg(args, i)
	if err != nil {
		return "", err
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case *StringBuilder:
		return s.String(), nil
	case nil:
		return "", fmt.Errorf("NullPointerException: argument %d is null", i)
	}
	return "", fmt.Errorf("argument %d: expected java.lang.CharSequence, got %s", i, describe(v))
}

func describe(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%T", v)
}

// Display renders a host value the way toString would.
func Display(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

// equaler is implemented by value types whose == is not value equality.
type equaler interface {
	Equals(other any) bool
}

// Equal compares two host values: same dynamic type and ==, so pointer
// types compare by identity.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if e, ok := a.(equaler); ok {
		return e.Equals(b)
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}

// HashCode follows the String and Integer hash rules and falls back to an
// FNV hash of the displayed form.
func HashCode(v any) int64 {
	switch x := v.(type) {
	case nil:
		return 0
	case string:
		var h int32
		for _, r := range x {
			h = 31*h + int32(r)
		}
		return int64(h)
	case int64:
		return int64(int32(x ^ (x >> 32)))
	case bool:
		if x {
			return 1231
		}
		return 1237
	}
	h := fnv.New32a()
	h.Write([]byte(Display(v)))
	return int64(int32(h.Sum32()))
}

func indexError(index int64, length int) error {
	return fmt.Errorf("IndexOutOfBoundsException: index %d out of bounds for length %d", index, length)
}

func typeComparable(v any) bool {
	return reflect.TypeOf(v).Comparable()
}
