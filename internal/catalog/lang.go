package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
)

var objectSerial atomic.Uint64

// BaseObject is the instance created by new java.lang.Object().
type BaseObject struct {
	serial uint64
}

func (o *BaseObject) String() string {
	return fmt.Sprintf("java.lang.Object@%x", o.serial)
}

// StringBuilder is a mutable rune sequence.
type StringBuilder struct {
	runes []rune
}

func (sb *StringBuilder) String() string { return string(sb.runes) }

func registerLang(r *Registry, b *Builtins) {
	b.Object = NewClass("java.lang.Object", nil)
	b.CharSequence = NewInterface("java.lang.CharSequence")
	b.Number = NewClass("java.lang.Number", b.Object)
	b.String = NewClass("java.lang.String", b.Object, b.CharSequence)
	b.Integer = NewClass("java.lang.Integer", b.Number)
	b.Boolean = NewClass("java.lang.Boolean", b.Object)
	b.StringBuilder = NewClass("java.lang.StringBuilder", b.Object, b.CharSequence)

	objectMembers(b)
	stringMembers(b)
	integerMembers(b)
	booleanMembers(b)
	builderMembers(b)

	r.Register(b.Object, typeOf[*BaseObject]())
	r.Register(b.CharSequence)
	r.Register(b.Number)
	r.Register(b.String, typeOf[string]())
	r.Register(b.Integer, typeOf[int64]())
	r.Register(b.Boolean, typeOf[bool]())
	r.Register(b.StringBuilder, typeOf[*StringBuilder]())
}

func objectMembers(b *Builtins) {
	b.Object.
		Ctor(func([]any) (any, error) {
			return &BaseObject{serial: objectSerial.Add(1)}, nil
		}).
		Method("toString", b.String, func(recv any, _ []any) (any, error) {
			return Display(recv), nil
		}).
		Method("hashCode", Int, func(recv any, _ []any) (any, error) {
			return HashCode(recv), nil
		}).
		Method("equals", b.Boolean, func(recv any, args []any) (any, error) {
			return Equal(recv, args[0]), nil
		}, b.Object)
}

func runeIndex(runes []rune, i int64) error {
	if i < 0 || i >= int64(len(runes)) {
		return indexError(i, len(runes))
	}
	return nil
}

func stringMembers(b *Builtins) {
	s := b.String
	s.Ctor(func([]any) (any, error) { return "", nil })
	s.Ctor(func(args []any) (any, error) { return argString(args, 0) }, s)
	s.Ctor(func(args []any) (any, error) { return argChars(args, 0) }, b.StringBuilder)

	s.Method("length", Int, func(recv any, _ []any) (any, error) {
		return int64(len([]rune(recv.(string)))), nil
	})
	s.Method("charAt", s, func(recv any, args []any) (any, error) {
		i, err := argInt(args, 0)
		if err != nil {
			return nil, err
		}
		runes := []rune(recv.(string))
		if err := runeIndex(runes, i); err != nil {
			return nil, err
		}
		return string(runes[i]), nil
	}, Int)
	s.Method("isEmpty", b.Boolean, func(recv any, _ []any) (any, error) {
		return recv.(string) == "", nil
	})
	s.Method("toUpperCase", s, func(recv any, _ []any) (any, error) {
		return strings.ToUpper(recv.(string)), nil
	})
	s.Method("toLowerCase", s, func(recv any, _ []any) (any, error) {
		return strings.ToLower(recv.(string)), nil
	})
	s.Method("trim", s, func(recv any, _ []any) (any, error) {
		return strings.TrimSpace(recv.(string)), nil
	})
	s.Method("substring", s, func(recv any, args []any) (any, error) {
		begin, err := argInt(args, 0)
		if err != nil {
			return nil, err
		}
		runes := []rune(recv.(string))
		return substring(runes, begin, int64(len(runes)))
	}, Int)
	s.Method("substring", s, func(recv any, args []any) (any, error) {
		begin, err := argInt(args, 0)
		if err != nil {
			return nil, err
		}
		end, err := argInt(args, 1)
		if err != nil {
			return nil, err
		}
		return substring([]rune(recv.(string)), begin, end)
	}, Int, Int)
	s.Method("concat", s, func(recv any, args []any) (any, error) {
		other, err := argString(args, 0)
		if err != nil {
			return nil, err
		}
		if err := textLimit(int64(len(recv.(string)) + len(other))); err != nil {
			return nil, err
		}
		return recv.(string) + other, nil
	}, s)
	s.Method("indexOf", Int, func(recv any, args []any) (any, error) {
		needle, err := argString(args, 0)
		if err != nil {
			return nil, err
		}
		idx := strings.Index(recv.(string), needle)
		if idx < 0 {
			return int64(-1), nil
		}
		return int64(len([]rune(recv.(string)[:idx]))), nil
	}, s)
	s.Method("contains", b.Boolean, func(recv any, args []any) (any, error) {
		needle, err := argChars(args, 0)
		if err != nil {
			return nil, err
		}
		return strings.Contains(recv.(string), needle), nil
	}, b.CharSequence)
	s.Method("startsWith", b.Boolean, func(recv any, args []any) (any, error) {
		prefix, err := argString(args, 0)
		if err != nil {
			return nil, err
		}
		return strings.HasPrefix(recv.(string), prefix), nil
	}, s)
	s.Method("endsWith", b.Boolean, func(recv any, args []any) (any, error) {
		suffix, err := argString(args, 0)
		if err != nil {
			return nil, err
		}
		return strings.HasSuffix(recv.(string), suffix), nil
	}, s)
	s.Method("replace", s, func(recv any, args []any) (any, error) {
		old, err := argChars(args, 0)
		if err != nil {
			return nil, err
		}
		repl, err := argChars(args, 1)
		if err != nil {
			return nil, err
		}
		return strings.ReplaceAll(recv.(string), old, repl), nil
	}, b.CharSequence, b.CharSequence)
	s.Method("repeat", s, func(recv any, args []any) (any, error) {
		n, err := argInt(args, 0)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("IllegalArgumentException: count is negative: %d", n)
		}
		if err := textLimit(int64(len(recv.(string))) * n); err != nil {
			return nil, err
		}
		return strings.Repeat(recv.(string), int(n)), nil
	}, Int)
	s.Method("compareTo", Int, func(recv any, args []any) (any, error) {
		other, err := argString(args, 0)
		if err != nil {
			return nil, err
		}
		return int64(strings.Compare(recv.(string), other)), nil
	}, s)
	s.Method("equals", b.Boolean, func(recv any, args []any) (any, error) {
		return Equal(recv, args[0]), nil
	}, b.Object)
	s.Method("toString", s, func(recv any, _ []any) (any, error) {
		return recv, nil
	})
}

func substring(runes []rune, begin, end int64) (any, error) {
	if begin < 0 || end > int64(len(runes)) || begin > end {
		return nil, fmt.Errorf("StringIndexOutOfBoundsException: begin %d, end %d, length %d", begin, end, len(runes))
	}
	return string(runes[begin:end]), nil
}

func integerMembers(b *Builtins) {
	n := b.Integer
	n.Ctor(func(args []any) (any, error) { return argInt(args, 0) }, Int)
	n.Ctor(func(args []any) (any, error) {
		s, err := argString(args, 0)
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("NumberFormatException: For input string: %q", s)
		}
		return v, nil
	}, b.String)

	n.Method("intValue", Int, func(recv any, _ []any) (any, error) {
		return recv, nil
	})
	n.Method("compareTo", Int, func(recv any, args []any) (any, error) {
		other, err := argInt(args, 0)
		if err != nil {
			return nil, err
		}
		self := recv.(int64)
		switch {
		case self < other:
			return int64(-1), nil
		case self > other:
			return int64(1), nil
		}
		return int64(0), nil
	}, b.Integer)
	n.Method("toString", b.String, func(recv any, _ []any) (any, error) {
		return Display(recv), nil
	})
}

func booleanMembers(b *Builtins) {
	b.Boolean.Ctor(func(args []any) (any, error) {
		s, err := argString(args, 0)
		if err != nil {
			// new Boolean(null) is false
			return false, nil
		}
		return strings.EqualFold(s, "true"), nil
	}, b.String)
	b.Boolean.Method("booleanValue", b.Boolean, func(recv any, _ []any) (any, error) {
		return recv, nil
	})
	b.Boolean.Method("toString", b.String, func(recv any, _ []any) (any, error) {
		return Display(recv), nil
	})
}

func builderMembers(b *Builtins) {
	sb := b.StringBuilder
	sb.Ctor(func([]any) (any, error) { return &StringBuilder{}, nil })
	sb.Ctor(func(args []any) (any, error) {
		s, err := argString(args, 0)
		if err != nil {
			return nil, err
		}
		return &StringBuilder{runes: []rune(s)}, nil
	}, b.String)
	sb.Ctor(func(args []any) (any, error) {
		capacity, err := argInt(args, 0)
		if err != nil {
			return nil, err
		}
		if capacity < 0 {
			return nil, fmt.Errorf("NegativeArraySizeException: %d", capacity)
		}
		return &StringBuilder{runes: make([]rune, 0, min(capacity, maxPrealloc))}, nil
	}, Int)

	appendFn := func(recv any, args []any) (any, error) {
		self := recv.(*StringBuilder)
		add := []rune(Display(args[0]))
		if err := textLimit(int64(len(self.runes) + len(add))); err != nil {
			return nil, err
		}
		self.runes = append(self.runes, add...)
		return self, nil
	}
	sb.Method("append", sb, appendFn, b.String)
	sb.Method("append", sb, appendFn, Int)
	sb.Method("append", sb, appendFn, b.Object)

	sb.Method("insert", sb, func(recv any, args []any) (any, error) {
		self := recv.(*StringBuilder)
		offset, err := argInt(args, 0)
		if err != nil {
			return nil, err
		}
		if offset < 0 || offset > int64(len(self.runes)) {
			return nil, indexError(offset, len(self.runes))
		}
		ins := []rune(Display(args[1]))
		out := make([]rune, 0, len(self.runes)+len(ins))
		out = append(out, self.runes[:offset]...)
		out = append(out, ins...)
		self.runes = append(out, self.runes[offset:]...)
		return self, nil
	}, Int, b.String)
	sb.Method("reverse", sb, func(recv any, _ []any) (any, error) {
		self := recv.(*StringBuilder)
		for i, j := 0, len(self.runes)-1; i < j; i, j = i+1, j-1 {
			self.runes[i], self.runes[j] = self.runes[j], self.runes[i]
		}
		return self, nil
	})
	sb.Method("deleteCharAt", sb, func(recv any, args []any) (any, error) {
		self := recv.(*StringBuilder)
		i, err := argInt(args, 0)
		if err != nil {
			return nil, err
		}
		if err := runeIndex(self.runes, i); err != nil {
			return nil, err
		}
		self.runes = append(self.runes[:i], self.runes[i+1:]...)
		return self, nil
	}, Int)
	sb.Method("length", Int, func(recv any, _ []any) (any, error) {
		return int64(len(recv.(*StringBuilder).runes)), nil
	})
	sb.Method("charAt", b.String, func(recv any, args []any) (any, error) {
		self := recv.(*StringBuilder)
		i, err := argInt(args, 0)
		if err != nil {
			return nil, err
		}
		if err := runeIndex(self.runes, i); err != nil {
			return nil, err
		}
		return string(self.runes[i]), nil
	}, Int)
	sb.Method("setLength", nil, func(recv any, args []any) (any, error) {
		self := recv.(*StringBuilder)
		n, err := argInt(args, 0)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, indexError(n, len(self.runes))
		}
		if err := textLimit(n); err != nil {
			return nil, err
		}
		for int64(len(self.runes)) < n {
			self.runes = append(self.runes, 0)
		}
		self.runes = self.runes[:n]
		return nil, nil
	}, Int)
	sb.Method("toString", b.String, func(recv any, _ []any) (any, error) {
		return recv.(*StringBuilder).String(), nil
	})
}
