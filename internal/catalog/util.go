package catalog

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ArrayList is an ordered, growable list of host values.
type ArrayList struct {
	items []any
}

func (l *ArrayList) String() string {
	parts := make([]string, len(l.items))
	for i, it := range l.items {
		parts[i] = Display(it)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Len reports the number of elements.
func (l *ArrayList) Len() int { return len(l.items) }

func (l *ArrayList) index(v any) int {
	for i, it := range l.items {
		if Equal(it, v) {
			return i
		}
	}
	return -1
}

// HashMap keeps insertion order so that toString is stable. Entries are
// indexed by keyOf; keys holds the first key put for each entry.
type HashMap struct {
	keys    []any
	entries map[any]any
}

// keyed is implemented by values that are equal without being ==.
type keyed interface {
	mapKey() any
}

func keyOf(k any) any {
	if kk, ok := k.(keyed); ok {
		return kk.mapKey()
	}
	return k
}

func newHashMap() *HashMap {
	return &HashMap{entries: make(map[any]any)}
}

func (m *HashMap) String() string {
	parts := make([]string, len(m.keys))
	for i, k := range m.keys {
		parts[i] = Display(k) + "=" + Display(m.entries[keyOf(k)])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func hashable(k any) error {
	if k == nil {
		return nil
	}
	if !typeComparable(k) {
		return fmt.Errorf("IllegalArgumentException: %s cannot be used as a key", describe(k))
	}
	return nil
}

func (m *HashMap) remove(k any) (any, bool) {
	old, ok := m.entries[keyOf(k)]
	if !ok {
		return nil, false
	}
	delete(m.entries, keyOf(k))
	for i, key := range m.keys {
		if Equal(key, k) {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return old, true
}

func registerUtil(r *Registry, b *Builtins) {
	b.ArrayList = NewClass("java.util.ArrayList", b.Object)
	b.HashMap = NewClass("java.util.HashMap", b.Object)
	b.UUID = NewClass("java.util.UUID", b.Object)

	listMembers(b)
	mapMembers(b)
	uuidMembers(b)

	r.Register(b.ArrayList, typeOf[*ArrayList]())
	r.Register(b.HashMap, typeOf[*HashMap]())
	r.Register(b.UUID, typeOf[uuid.UUID]())
}

func listMembers(b *Builtins) {
	l := b.ArrayList
	l.Ctor(func([]any) (any, error) { return &ArrayList{}, nil })
	l.Ctor(func(args []any) (any, error) {
		capacity, err := argInt(args, 0)
		if err != nil {
			return nil, err
		}
		if capacity < 0 {
			return nil, fmt.Errorf("IllegalArgumentException: Illegal Capacity: %d", capacity)
		}
		return &ArrayList{items: make([]any, 0, min(capacity, maxPrealloc))}, nil
	}, Int)

	l.Method("add", b.Boolean, func(recv any, args []any) (any, error) {
		self := recv.(*ArrayList)
		self.items = append(self.items, args[0])
		return true, nil
	}, b.Object)
	l.Method("add", nil, func(recv any, args []any) (any, error) {
		self := recv.(*ArrayList)
		i, err := argInt(args, 0)
		if err != nil {
			return nil, err
		}
		if i < 0 || i > int64(len(self.items)) {
			return nil, indexError(i, len(self.items))
		}
		self.items = append(self.items, nil)
		copy(self.items[i+1:], self.items[i:])
		self.items[i] = args[1]
		return nil, nil
	}, Int, b.Object)
	l.Method("get", b.Object, func(recv any, args []any) (any, error) {
		self := recv.(*ArrayList)
		i, err := argInt(args, 0)
		if err != nil {
			return nil, err
		}
		if i < 0 || i >= int64(len(self.items)) {
			return nil, indexError(i, len(self.items))
		}
		return self.items[i], nil
	}, Int)
	l.Method("set", b.Object, func(recv any, args []any) (any, error) {
		self := recv.(*ArrayList)
		i, err := argInt(args, 0)
		if err != nil {
			return nil, err
		}
		if i < 0 || i >= int64(len(self.items)) {
			return nil, indexError(i, len(self.items))
		}
		old := self.items[i]
		self.items[i] = args[1]
		return old, nil
	}, Int, b.Object)
	l.Method("remove", b.Object, func(recv any, args []any) (any, error) {
		self := recv.(*ArrayList)
		i, err := argInt(args, 0)
		if err != nil {
			return nil, err
		}
		if i < 0 || i >= int64(len(self.items)) {
			return nil, indexError(i, len(self.items))
		}
		old := self.items[i]
		self.items = append(self.items[:i], self.items[i+1:]...)
		return old, nil
	}, Int)
	l.Method("size", Int, func(recv any, _ []any) (any, error) {
		return int64(len(recv.(*ArrayList).items)), nil
	})
	l.Method("isEmpty", b.Boolean, func(recv any, _ []any) (any, error) {
		return len(recv.(*ArrayList).items) == 0, nil
	})
	l.Method("contains", b.Boolean, func(recv any, args []any) (any, error) {
		return recv.(*ArrayList).index(args[0]) >= 0, nil
	}, b.Object)
	l.Method("indexOf", Int, func(recv any, args []any) (any, error) {
		return int64(recv.(*ArrayList).index(args[0])), nil
	}, b.Object)
	l.Method("clear", nil, func(recv any, _ []any) (any, error) {
		recv.(*ArrayList).items = nil
		return nil, nil
	})
}

func mapMembers(b *Builtins) {
	m := b.HashMap
	m.Ctor(func([]any) (any, error) { return newHashMap(), nil })

	m.Method("put", b.Object, func(recv any, args []any) (any, error) {
		self := recv.(*HashMap)
		if err := hashable(args[0]); err != nil {
			return nil, err
		}
		key := keyOf(args[0])
		old, ok := self.entries[key]
		if !ok {
			self.keys = append(self.keys, args[0])
		}
		self.entries[key] = args[1]
		return old, nil
	}, b.Object, b.Object)
	m.Method("get", b.Object, func(recv any, args []any) (any, error) {
		if err := hashable(args[0]); err != nil {
			return nil, err
		}
		return recv.(*HashMap).entries[keyOf(args[0])], nil
	}, b.Object)
	m.Method("containsKey", b.Boolean, func(recv any, args []any) (any, error) {
		if err := hashable(args[0]); err != nil {
			return nil, err
		}
		_, ok := recv.(*HashMap).entries[keyOf(args[0])]
		return ok, nil
	}, b.Object)
	m.Method("remove", b.Object, func(recv any, args []any) (any, error) {
		if err := hashable(args[0]); err != nil {
			return nil, err
		}
		old, _ := recv.(*HashMap).remove(args[0])
		return old, nil
	}, b.Object)
	m.Method("size", Int, func(recv any, _ []any) (any, error) {
		return int64(len(recv.(*HashMap).keys)), nil
	})
	m.Method("isEmpty", b.Boolean, func(recv any, _ []any) (any, error) {
		return len(recv.(*HashMap).keys) == 0, nil
	})
}

func uuidMembers(b *Builtins) {
	u := b.UUID
	u.Ctor(func([]any) (any, error) {
		return uuid.NewRandom()
	})
	u.Ctor(func(args []any) (any, error) {
		s, err := argString(args, 0)
		if err != nil {
			return nil, err
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("IllegalArgumentException: Invalid UUID string: %s", s)
		}
		return id, nil
	}, b.String)

	u.Method("toString", b.String, func(recv any, _ []any) (any, error) {
		return recv.(uuid.UUID).String(), nil
	})
	u.Method("version", Int, func(recv any, _ []any) (any, error) {
		return int64(recv.(uuid.UUID).Version()), nil
	})
	u.Method("variant", Int, func(recv any, _ []any) (any, error) {
		return int64(recv.(uuid.UUID).Variant()), nil
	})
}
