// Package objrepl embeds the command interpreter in Go programs.
//
//	s := objrepl.New()
//	defer s.Close()
//	s.Set("greeting", "hello")
//	status, _ := s.Exec("greeting.toUpperCase()")
//	v, _ := s.Get("greeting") // "HELLO"
package objrepl

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strings"

	"github.com/funvibe/objrepl/internal/catalog"
	"github.com/funvibe/objrepl/internal/config"
	"github.com/funvibe/objrepl/internal/interp"
	"github.com/funvibe/objrepl/internal/logger"
	"github.com/funvibe/objrepl/internal/parser"
	"github.com/funvibe/objrepl/internal/pipeline"
	"github.com/funvibe/objrepl/pkg/ext"
)

var errClosed = errors.New("session already closed")

// Session wraps one interpreter session. Every method fails with an error
// once Close has run.
type Session struct {
	interp *interp.Interpreter
	pipe   *pipeline.Pipeline
}

type Option func(*settings)

type settings struct {
	cfg        *config.Config
	logger     *slog.Logger
	registrars []func(*ext.Registry) error
}

// WithConfig applies imports, aliases and disabled classes from cfg.
func WithConfig(cfg *config.Config) Option {
	return func(s *settings) { s.cfg = cfg }
}

// WithLogger sets the session logger; the default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithClasses runs fn against the catalog before the session starts, so
// host programs can add classes with ext.Register.
func WithClasses(fn func(*ext.Registry) error) Option {
	return func(s *settings) { s.registrars = append(s.registrars, fn) }
}

// New creates a session over the builtin catalog.
func New(opts ...Option) (*Session, error) {
	st := settings{cfg: config.Default(), logger: logger.Discard()}
	for _, o := range opts {
		o(&st)
	}

	reg := catalog.NewDefault()
	for _, fn := range st.registrars {
		if err := fn(ext.Wrap(reg)); err != nil {
			return nil, err
		}
	}
	if err := st.cfg.Apply(reg); err != nil {
		return nil, err
	}
	in := interp.New(interp.Options{Registry: reg, Logger: st.logger})
	return &Session{
		interp: in,
		pipe:   pipeline.New(&parser.ParserProcessor{}, interp.NewCommandProcessor(in)),
	}, nil
}

// Set binds a Go value under name. Integers and strings become plain values;
// other values must be instances of a registered class.
func (s *Session) Set(name string, val any) error {
	if s.interp == nil {
		return errClosed
	}
	val = normalize(val)
	obj, err := s.interp.Engine().Wrap(val)
	if err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}
	return s.interp.Symbols().Define(name, obj)
}

// normalize widens sized integers to int64.
func normalize(val any) any {
	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return int64(v.Uint())
	}
	return val
}

// Get returns the Go value bound to name.
func (s *Session) Get(name string) (any, error) {
	if s.interp == nil {
		return nil, errClosed
	}
	obj, ok := s.interp.Symbols().Find(name)
	if !ok {
		return nil, fmt.Errorf("variable '%s' not found", name)
	}
	return s.interp.Engine().Unwrap(obj), nil
}

// Exec runs one command line and returns its status line. Dispatch failures
// are part of the status; only malformed lines return an error.
func (s *Session) Exec(line string) (string, error) {
	if s.interp == nil {
		return "", errClosed
	}
	ctx := s.pipe.RunLine(line, 0)
	if len(ctx.Errors) > 0 {
		return "", ctx.Errors[0]
	}
	if ctx.Meta != nil {
		return "", fmt.Errorf("meta commands are not supported here: %s", strings.TrimSpace(line))
	}
	return strings.Join(ctx.Output, "\n"), nil
}

// Eval runs a multi-line script and returns the status lines. It stops at
// the first malformed line or quit word.
func (s *Session) Eval(script string) ([]string, error) {
	if s.interp == nil {
		return nil, errClosed
	}
	var out []string
	for i, line := range strings.Split(script, "\n") {
		ctx := s.pipe.RunLine(line, i+1)
		if len(ctx.Errors) > 0 {
			return out, fmt.Errorf("line %d: %w", i+1, ctx.Errors[0])
		}
		if ctx.Quit {
			break
		}
		out = append(out, ctx.Output...)
	}
	return out, nil
}

// LoadFile runs the script at path.
func (s *Session) LoadFile(path string) ([]string, error) {
	if s.interp == nil {
		return nil, errClosed
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return s.Eval(string(data))
}

// Names lists bound variables in sorted order. A closed session has none.
func (s *Session) Names() []string {
	if s.interp == nil {
		return nil
	}
	return s.interp.Symbols().Names()
}

// Close releases every instance the session holds.
func (s *Session) Close() error {
	if s.interp == nil {
		return errClosed
	}
	err := s.interp.Close()
	s.interp = nil
	s.pipe = nil
	return err
}
