package objrepl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/objrepl/internal/catalog"
	"github.com/funvibe/objrepl/internal/config"
	"github.com/funvibe/objrepl/pkg/ext"
)

func newSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	s, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSetExecGet(t *testing.T) {
	s := newSession(t)

	require.NoError(t, s.Set("greeting", "hello"))
	status, err := s.Exec("greeting.toUpperCase()")
	require.NoError(t, err)
	assert.Equal(t, "Method toUpperCase called successfully on greeting. Result was: HELLO", status)

	v, err := s.Get("greeting")
	require.NoError(t, err)
	assert.Equal(t, "HELLO", v)

	require.NoError(t, s.Set("n", int32(7)))
	v, err = s.Get("n")
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)

	_, err = s.Get("missing")
	assert.ErrorContains(t, err, "not found")
}

func TestSet_HostInstances(t *testing.T) {
	s := newSession(t)

	require.NoError(t, s.Set("list", &catalog.ArrayList{}))
	status, err := s.Exec(`list.add(0, "x")`)
	require.NoError(t, err)
	assert.Contains(t, status, "Result was: null")

	v, err := s.Get("list")
	require.NoError(t, err)
	assert.Equal(t, "[x]", v.(*catalog.ArrayList).String())

	require.NoError(t, s.Set("nothing", nil))
	v, err = s.Get("nothing")
	require.NoError(t, err)
	assert.Nil(t, v)

	err = s.Set("bad", struct{}{})
	assert.ErrorContains(t, err, "no class registered")
}

func TestExec_Errors(t *testing.T) {
	s := newSession(t)

	_, err := s.Exec("s = new")
	assert.Error(t, err)

	_, err = s.Exec(":vars")
	assert.ErrorContains(t, err, "meta commands")

	status, err := s.Exec("ghost.run()")
	require.NoError(t, err)
	assert.Equal(t, "Error: ghost not found.", status)
}

func TestEval_StopsAtQuit(t *testing.T) {
	s := newSession(t)

	out, err := s.Eval("sb = new StringBuilder()\nsb.append(\"a\")\n\nq\nsb.append(\"b\")")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Created StringBuilder instance with name sb",
		"Method append called successfully on sb. Result was: a",
	}, out)

	_, err = s.Eval("x = new Object()\nx.(")
	assert.ErrorContains(t, err, "line 2")
}

func TestLoadFile_WithConfig(t *testing.T) {
	cfg, err := config.ParseConfig([]byte("aliases:\n  - class: java.lang.StringBuilder\n    as: SB\n"), "objrepl.yaml")
	require.NoError(t, err)
	s := newSession(t, WithConfig(cfg))

	path := filepath.Join(t.TempDir(), "script.objrepl")
	require.NoError(t, os.WriteFile(path, []byte("b = new SB(\"x\")\nb.reverse()\n"), 0o644))

	out, err := s.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Created SB instance with name b",
		"Method reverse called successfully on b. Result was: x",
	}, out)
	assert.Equal(t, []string{"b"}, s.Names())

	_, err = s.LoadFile(filepath.Join(t.TempDir(), "none"))
	assert.Error(t, err)
}

func TestClose_Twice(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.Error(t, s.Close())
}

func TestClose_LaterCallsFail(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	require.NoError(t, s.Set("x", "v"))
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Set("y", "v"), errClosed)
	_, err = s.Get("x")
	assert.ErrorIs(t, err, errClosed)
	_, err = s.Exec("x.length()")
	assert.ErrorIs(t, err, errClosed)
	_, err = s.Eval("x.length()")
	assert.ErrorIs(t, err, errClosed)
	_, err = s.LoadFile("script.objrepl")
	assert.ErrorIs(t, err, errClosed)
	assert.Empty(t, s.Names())
}

func TestExec_NullBinding(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Set("x", nil))

	status, err := s.Exec("x.length()")
	require.NoError(t, err)
	assert.Equal(t, "Error: x not found.", status)
}

type counter struct{ n int64 }

func TestWithClasses_CustomClass(t *testing.T) {
	s := newSession(t, WithClasses(func(reg *ext.Registry) error {
		c := ext.NewClass("demo.Counter", reg.Object())
		c.Ctor(func([]any) (any, error) { return &counter{}, nil })
		c.Ctor(func(args []any) (any, error) { return &counter{n: args[0].(int64)}, nil }, ext.Int)
		c.Method("incr", nil, func(recv any, _ []any) (any, error) {
			recv.(*counter).n++
			return nil, nil
		})
		c.Method("value", ext.Int, func(recv any, _ []any) (any, error) {
			return recv.(*counter).n, nil
		})
		return ext.Register[*counter](reg, c)
	}))

	out, err := s.Eval("c = new demo.Counter(40)\nc.incr()\nc.incr()\nc.toString()")
	require.NoError(t, err)
	assert.Equal(t, "Created demo.Counter instance with name c", out[0])
	assert.Equal(t, "Method incr called successfully on c. Result was: null", out[1])

	v, err := s.Get("c")
	require.NoError(t, err)
	assert.Equal(t, "&{42}", v)

	status, err := s.Exec("d = new demo.Counter(1)")
	require.NoError(t, err)
	require.Contains(t, status, "Created")
	status, err = s.Exec("d.value()")
	require.NoError(t, err)
	assert.Equal(t, "Method value called successfully on d. Result was: 1", status)
}

func TestWithClasses_DuplicateFails(t *testing.T) {
	_, err := New(WithClasses(func(reg *ext.Registry) error {
		return ext.Register[*counter](reg, ext.NewClass("java.lang.String", reg.Object()))
	}))
	assert.ErrorContains(t, err, "already registered")
}
