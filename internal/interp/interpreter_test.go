package interp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/objrepl/internal/ast"
	"github.com/funvibe/objrepl/internal/catalog"
	"github.com/funvibe/objrepl/internal/evaluator"
	"github.com/funvibe/objrepl/internal/logger"
	"github.com/funvibe/objrepl/internal/parser"
	"github.com/funvibe/objrepl/internal/pipeline"
)

func newInterp(t *testing.T) *Interpreter {
	t.Helper()
	in := New(Options{Logger: logger.Discard()})
	t.Cleanup(func() { in.Close() })
	return in
}

// run parses and processes one line.
func run(t *testing.T, in *Interpreter, line string) string {
	t.Helper()
	cmd, err := parser.Parse(line)
	require.NoError(t, err, line)
	return in.Process(cmd)
}

func find(t *testing.T, in *Interpreter, name string) evaluator.Object {
	t.Helper()
	v, ok := in.Symbols().Find(name)
	require.True(t, ok, "%s not bound", name)
	return v
}

func TestResolveName_Literals(t *testing.T) {
	in := newInterp(t)

	v, ok := in.ResolveName(`"abc"`)
	require.True(t, ok)
	assert.Equal(t, &evaluator.Text{Value: "abc"}, v)

	v, ok = in.ResolveName(`""`)
	require.True(t, ok)
	assert.Equal(t, &evaluator.Text{Value: ""}, v)

	v, ok = in.ResolveName(`"a \"b"`)
	require.True(t, ok)
	assert.Equal(t, `a \"b`, v.Inspect(), "no escape processing")

	v, ok = in.ResolveName("42")
	require.True(t, ok)
	assert.Equal(t, &evaluator.Integer{Value: 42}, v)

	v, ok = in.ResolveName("-7")
	require.True(t, ok)
	assert.Equal(t, &evaluator.Integer{Value: -7}, v)

	for _, tok := range []string{"abc", `"`, `"open`, "1.5", "99999999999999999999", "0x10"} {
		v, ok = in.ResolveName(tok)
		assert.False(t, ok, tok)
		assert.Same(t, evaluator.NIL, v, tok)
	}
}

func TestResolveName_BoundNameWins(t *testing.T) {
	in := newInterp(t)
	require.NoError(t, in.Symbols().Define("x", &evaluator.Text{Value: "bound"}))

	v, ok := in.ResolveName("x")
	require.True(t, ok)
	assert.Equal(t, "bound", v.Inspect())
	assert.Equal(t, 1, in.Symbols().Len(), "lookup does not mutate")
}

func TestResolveNames_KeepsOrderAndWarns(t *testing.T) {
	var buf bytes.Buffer
	log, err := logger.New(&buf, "warn", "text")
	require.NoError(t, err)
	in := New(Options{Logger: log, SessionID: "s-1"})
	defer in.Close()

	vals := in.ResolveNames([]string{"1", "nope", `"t"`})
	require.Len(t, vals, 3)
	assert.Equal(t, "1", vals[0].Inspect())
	assert.True(t, evaluator.IsNil(vals[1]))
	assert.Equal(t, "t", vals[2].Inspect())

	out := buf.String()
	assert.Contains(t, out, "LiteralUnresolvable")
	assert.Contains(t, out, "session=s-1")
	assert.Contains(t, out, "nope is not a variable")
}

func TestScenario_ConstructLengthAndMissingMethod(t *testing.T) {
	in := newInterp(t)

	// A: construction binds s to the text value
	assert.Equal(t, "Created String instance with name s", run(t, in, `s = new String("hello")`))
	assert.Equal(t, &evaluator.Text{Value: "hello"}, find(t, in, "s"))

	// B: the result replaces the receiver binding
	assert.Equal(t, "Method length called successfully on s. Result was: 5", run(t, in, `s.length()`))
	assert.Equal(t, &evaluator.Integer{Value: 5}, find(t, in, "s"))

	// C: no such method leaves the table alone
	before := in.Symbols().String()
	status := run(t, in, `s.frobnicate()`)
	assert.Equal(t, "Error: no method java.lang.Integer.frobnicate accepts ()", status)
	assert.Equal(t, before, in.Symbols().String())
}

func TestProcess_ConstructionFailure(t *testing.T) {
	in := newInterp(t)

	assert.Equal(t, "Failed to create instance of java.lang.Nope", run(t, in, `x = new java.lang.Nope()`))
	assert.Equal(t, "Failed to create instance of Integer", run(t, in, `x = new Integer("twelve")`))
	assert.Equal(t, "Failed to create instance of ArrayList", run(t, in, `x = new ArrayList("a", "b")`))
	assert.False(t, in.Symbols().IsDefined("x"))
}

func TestProcess_MissingReceiver(t *testing.T) {
	in := newInterp(t)
	live := in.Arena().Live()

	assert.Equal(t, "Error: ghost not found.", run(t, in, `ghost.toString()`))
	assert.Equal(t, 0, in.Symbols().Len())
	assert.Equal(t, live, in.Arena().Live())
}

func TestProcess_NullBindingIsNotAReceiver(t *testing.T) {
	in := newInterp(t)
	require.NoError(t, in.Symbols().Define("x", evaluator.NIL))

	assert.Equal(t, "Error: x not found.", run(t, in, `x.length()`))
	assert.Same(t, evaluator.NIL, find(t, in, "x"))
}

func TestProcess_OversizedIntArgumentsFail(t *testing.T) {
	in := newInterp(t)

	assert.Equal(t, "Failed to create instance of StringBuilder", run(t, in, `sb = new StringBuilder(1099511627776)`))
	assert.Equal(t, "Failed to create instance of ArrayList", run(t, in, `l = new ArrayList(-1099511627776)`))
	assert.Equal(t, "Created StringBuilder instance with name sb", run(t, in, `sb = new StringBuilder(2147483647)`))
	assert.Equal(t, "Created ArrayList instance with name l", run(t, in, `l = new ArrayList(2147483647)`))

	assert.Contains(t, run(t, in, `sb.setLength(2147483647)`), "OutOfMemoryError")
	run(t, in, `s = new String("ab")`)
	assert.Contains(t, run(t, in, `s.repeat(1099511627776)`), "IllegalArgumentException")
	assert.Contains(t, run(t, in, `s.repeat(2147483647)`), "OutOfMemoryError")

	assert.Equal(t, "Method append called successfully on sb. Result was: ok", run(t, in, `sb.append("ok")`))
	assert.Equal(t, "Method repeat called successfully on s. Result was: abab", run(t, in, `s.repeat(2)`))
}

func TestProcess_DecimalEqualityAndLimits(t *testing.T) {
	in := newInterp(t)

	run(t, in, `a = new BigDecimal("1.5")`)
	run(t, in, `b = new BigDecimal("1.5")`)
	run(t, in, `m = new HashMap()`)
	run(t, in, `m.put(a, 1)`)
	assert.Equal(t, "Method containsKey called successfully on m. Result was: true", run(t, in, `m.containsKey(b)`))
	// containsKey rebound m to its result.
	run(t, in, `m = new HashMap()`)
	run(t, in, `m.put(a, 1)`)
	assert.Equal(t, "Method get called successfully on m. Result was: 1", run(t, in, `m.get(b)`))
	assert.Equal(t, "Method equals called successfully on a. Result was: true", run(t, in, `a.equals(b)`))

	assert.Equal(t, "Failed to create instance of BigDecimal", run(t, in, `d = new BigDecimal("1e5000")`))
	run(t, in, `d = new BigDecimal("2")`)
	assert.Contains(t, run(t, in, `d.setScale(100000)`), "ArithmeticException")
	assert.Equal(t, "Method setScale called successfully on d. Result was: 2.00", run(t, in, `d.setScale(2)`))
}

func TestProcess_VoidResultKeepsBinding(t *testing.T) {
	in := newInterp(t)
	run(t, in, `list = new java.util.ArrayList()`)
	handle := find(t, in, "list")

	assert.Equal(t, "Method clear called successfully on list. Result was: null", run(t, in, `list.clear()`))
	assert.Same(t, handle, find(t, in, "list"))
}

func TestProcess_ChainedBuilder(t *testing.T) {
	in := newInterp(t)
	run(t, in, `sb = new StringBuilder("ab")`)
	first := find(t, in, "sb")

	assert.Equal(t, "Method append called successfully on sb. Result was: ab12", run(t, in, `sb.append(12)`))
	assert.Same(t, first, find(t, in, "sb"), "append returns the receiver")

	run(t, in, `sb.append(missing)`)
	assert.Equal(t, "ab12null", find(t, in, "sb").Inspect())

	assert.Equal(t, "Method toString called successfully on sb. Result was: ab12null", run(t, in, `sb.toString()`))
	assert.Equal(t, &evaluator.Text{Value: "ab12null"}, find(t, in, "sb"))
	_, ok := first.(*evaluator.HostObject).Instance()
	assert.False(t, ok, "builder handle released once unbound")
}

func TestProcess_VariablesAsArguments(t *testing.T) {
	in := newInterp(t)
	run(t, in, `m = new HashMap()`)
	run(t, in, `k = new String("key")`)

	assert.Equal(t, "Method put called successfully on m. Result was: null", run(t, in, `m.put(k, 3)`))
	assert.Equal(t, "{key=3}", find(t, in, "m").Inspect())

	assert.Equal(t, "Method get called successfully on m. Result was: 3", run(t, in, `m.get("key")`))
	assert.Equal(t, &evaluator.Integer{Value: 3}, find(t, in, "m"))
}

func TestProcess_InvocationFault(t *testing.T) {
	in := newInterp(t)
	run(t, in, `s = new String("abc")`)

	status := run(t, in, `s.charAt(10)`)
	assert.Contains(t, status, "Error: charAt failed:")
	assert.Contains(t, status, "IndexOutOfBoundsException")
	assert.Equal(t, "abc", find(t, in, "s").Inspect())
}

func TestProcess_ReconstructionIsIndependent(t *testing.T) {
	in := newInterp(t)

	run(t, in, `x = new StringBuilder("a")`)
	first := find(t, in, "x").(*evaluator.HostObject)
	run(t, in, `x = new StringBuilder("a")`)
	second := find(t, in, "x").(*evaluator.HostObject)

	assert.False(t, first.Same(second))
	assert.Equal(t, first.Class, second.Class)
	_, ok := first.Instance()
	assert.False(t, ok)
	assert.Equal(t, 1, in.Symbols().Len())
	assert.Equal(t, 1, in.Arena().Live())
}

func TestProcess_ZeroArgConstructionForEveryClass(t *testing.T) {
	in := newInterp(t)
	for _, cls := range in.Registry().Classes() {
		zero := false
		for _, c := range cls.Constructors {
			zero = zero || len(c.Params) == 0
		}
		if !zero {
			continue
		}
		status := in.Process(&ast.Command{ClassName: cls.Name, ObjectName: "v", Arguments: []string{}})
		assert.Equal(t, "Created "+cls.Name+" instance with name v", status)
	}
}

func TestProcess_ConnectionClosedWhenUnbound(t *testing.T) {
	in := newInterp(t)

	require.Equal(t, "Created java.sql.Connection instance with name db", run(t, in, `db = new java.sql.Connection(":memory:")`))
	inst, ok := find(t, in, "db").(*evaluator.HostObject).Instance()
	require.True(t, ok)
	conn := inst.(*catalog.Connection)

	run(t, in, `st = new java.sql.Statement(db)`)
	assert.Equal(t, "Method executeUpdate called successfully on st. Result was: 0", run(t, in, `st.executeUpdate("CREATE TABLE t (n INTEGER)")`))
	assert.Contains(t, conn.String(), "open", "statement results do not touch db")

	run(t, in, `st = new java.sql.Statement(db)`)
	run(t, in, `st.executeUpdate("INSERT INTO t VALUES (1), (2)")`)
	assert.Equal(t, "Method queryInt called successfully on db. Result was: 3", run(t, in, `db.queryInt("SELECT SUM(n) FROM t")`))
	assert.Contains(t, conn.String(), "closed")
}

func TestCommandProcessor(t *testing.T) {
	in := newInterp(t)
	p := pipeline.New(&parser.ParserProcessor{}, NewCommandProcessor(in))

	ctx := p.RunLine(`s = new String("hi")`, 1)
	assert.Equal(t, []string{"Created String instance with name s"}, ctx.Output)

	ctx = p.RunLine(`s.(`, 2)
	assert.Empty(t, ctx.Output)
	assert.Len(t, ctx.Errors, 1)

	ctx = p.RunLine(`:vars`, 3)
	assert.Empty(t, ctx.Output)
	assert.NotNil(t, ctx.Meta)
}

func TestClose_ReleasesEverything(t *testing.T) {
	in := New(Options{Logger: logger.Discard()})
	run(t, in, `a = new Object()`)
	run(t, in, `b = new ArrayList()`)
	require.Equal(t, 2, in.Arena().Live())

	require.NoError(t, in.Close())
	assert.Equal(t, 0, in.Arena().Live())
	assert.Equal(t, 0, in.Symbols().Len())
}
