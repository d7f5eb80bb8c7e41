package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/objrepl/internal/catalog"
	"github.com/funvibe/objrepl/internal/config"
	"github.com/funvibe/objrepl/internal/interp"
	"github.com/funvibe/objrepl/internal/logger"
)

func newSession(t *testing.T, cfg *config.Config) (*Session, *bytes.Buffer) {
	t.Helper()
	reg := catalog.NewDefault()
	if cfg != nil {
		require.NoError(t, cfg.Apply(reg))
	}
	in := interp.New(interp.Options{Registry: reg, Logger: logger.Discard()})
	t.Cleanup(func() { in.Close() })
	var out bytes.Buffer
	return New(in, cfg, &out), &out
}

func TestRunBatch_Script(t *testing.T) {
	s, out := newSession(t, nil)

	script := strings.Join([]string{
		`# build a greeting`,
		`s = new String("hello")`,
		``,
		`s.toUpperCase()`,
		`s.concat(" WORLD")`,
		`x.length()`,
		`s = new`,
		`QUIT`,
		`s.length()`,
	}, "\n")
	require.NoError(t, s.RunBatch(strings.NewReader(script)))

	want := []string{
		"Created String instance with name s",
		"Method toUpperCase called successfully on s. Result was: HELLO",
		"Method concat called successfully on s. Result was: HELLO WORLD",
		"Error: x not found.",
		"Error: column 8: expected a name, found end of line",
	}
	assert.Equal(t, strings.Join(want, "\n")+"\n", out.String())
}

func TestHandleLine_Quit(t *testing.T) {
	s, _ := newSession(t, nil)
	for _, line := range []string{"q", "quit", "Quit", ":quit"} {
		text, quit := s.HandleLine(line)
		assert.True(t, quit, line)
		assert.Empty(t, text)
	}
	_, quit := s.HandleLine("quitter = new Object()")
	assert.False(t, quit)
}

func TestMeta_Vars(t *testing.T) {
	s, _ := newSession(t, nil)

	text, _ := s.HandleLine(":vars")
	assert.Equal(t, "(no variables)", text)

	s.HandleLine(`n = new Integer(4)`)
	s.HandleLine(`b = new StringBuilder("x")`)
	text, _ = s.HandleLine(":vars")
	assert.Equal(t, "b : java.lang.StringBuilder = x\nn : int = 4", text)

	text, _ = s.HandleLine(":vars json")
	assert.JSONEq(t, `[
		{"name": "b", "type": "java.lang.StringBuilder", "value": "x"},
		{"name": "n", "type": "int", "value": "4"}
	]`, text)
}

func TestMeta_ClassesAndMethods(t *testing.T) {
	cfg, err := config.ParseConfig([]byte("aliases:\n  - class: java.util.ArrayList\n    as: List\n"), "objrepl.yaml")
	require.NoError(t, err)
	s, _ := newSession(t, cfg)

	text, _ := s.HandleLine(":classes")
	assert.Contains(t, text, "java.lang.String\n")
	assert.Contains(t, text, "java.sql.Connection\n")
	assert.NotContains(t, text, "java.lang.CharSequence")
	assert.True(t, strings.HasSuffix(text, "List -> java.util.ArrayList"))

	text, _ = s.HandleLine(":methods List")
	lines := strings.Split(text, "\n")
	assert.Equal(t, "new java.util.ArrayList()", lines[0])
	assert.Equal(t, "new java.util.ArrayList(int)", lines[1])
	assert.Contains(t, text, "void java.util.ArrayList.clear()")
	assert.Contains(t, text, "java.lang.String java.lang.Object.toString()")

	text, _ = s.HandleLine(":methods Nope")
	assert.Equal(t, "Error: class Nope not found", text)

	text, _ = s.HandleLine(":methods")
	assert.Equal(t, "Error: usage: :methods <Class>", text)
}

func TestMeta_HelpAndUnknown(t *testing.T) {
	s, _ := newSession(t, nil)

	text, _ := s.HandleLine(":help")
	assert.Contains(t, text, ":methods Class")

	text, _ = s.HandleLine(":frob")
	assert.Equal(t, "Error: unknown command :frob, type :help for a list", text)
}

func TestEmit_Color(t *testing.T) {
	s, out := newSession(t, nil)
	s.SetColor(true)
	require.NoError(t, s.RunBatch(strings.NewReader("o = new Object()\nghost.x()\n")))

	assert.Equal(t, ansiGreen+"Created Object instance with name o"+ansiReset+"\n"+
		ansiRed+"Error: ghost not found."+ansiReset+"\n", out.String())
}

func TestPrintBanner(t *testing.T) {
	s, out := newSession(t, nil)
	s.PrintBanner()
	assert.Contains(t, out.String(), "simple interpreter")

	off := false
	cfg := config.Default()
	cfg.Banner = &off
	s, out = newSession(t, cfg)
	s.PrintBanner()
	assert.Empty(t, out.String())
}

func TestHistoryPath(t *testing.T) {
	cfg := config.Default()
	cfg.History = "-"
	s, _ := newSession(t, cfg)
	assert.Empty(t, s.historyPath())

	cfg.History = "/tmp/objrepl_history"
	assert.Equal(t, "/tmp/objrepl_history", s.historyPath())

	t.Setenv("HOME", "/home/u")
	cfg.History = ".hist"
	assert.Equal(t, "/home/u/.hist", s.historyPath())
}
