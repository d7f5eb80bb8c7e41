// Package interp is the command processor: it resolves argument tokens,
// drives the dispatch engine and commits results to the symbol table.
package interp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"github.com/funvibe/objrepl/internal/ast"
	"github.com/funvibe/objrepl/internal/catalog"
	"github.com/funvibe/objrepl/internal/config"
	"github.com/funvibe/objrepl/internal/dispatch"
	"github.com/funvibe/objrepl/internal/evaluator"
	"github.com/funvibe/objrepl/internal/symbols"
)

type Options struct {
	// Registry defaults to catalog.NewDefault().
	Registry *catalog.Registry
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// SessionID is attached to every log record; generated when empty.
	SessionID string
}

// Interpreter is one session. It owns its arena and symbol table; nothing
// is shared with other sessions except the read-only registry.
type Interpreter struct {
	engine  *dispatch.Engine
	symbols *symbols.SymbolTable
	arena   *evaluator.Arena
	log     *slog.Logger
	session string
}

func New(opts Options) *Interpreter {
	reg := opts.Registry
	if reg == nil {
		reg = catalog.NewDefault()
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	id := opts.SessionID
	if id == "" {
		id = uuid.NewString()
	}
	log = log.With("session", id)

	arena := evaluator.NewArena()
	return &Interpreter{
		engine:  dispatch.New(reg, arena, log),
		symbols: symbols.NewSymbolTable(arena),
		arena:   arena,
		log:     log,
		session: id,
	}
}

func (in *Interpreter) Engine() *dispatch.Engine      { return in.engine }
func (in *Interpreter) Symbols() *symbols.SymbolTable { return in.symbols }
func (in *Interpreter) Registry() *catalog.Registry   { return in.engine.Registry() }
func (in *Interpreter) SessionID() string             { return in.session }
func (in *Interpreter) Logger() *slog.Logger          { return in.log }
func (in *Interpreter) Arena() *evaluator.Arena       { return in.arena }

// ResolveName converts one argument token into a value. A bound name wins,
// then double-quoted text (quotes stripped, no escapes), then a base-10
// integer. Anything else yields NIL and false.
func (in *Interpreter) ResolveName(name string) (evaluator.Object, bool) {
	if v, ok := in.symbols.Find(name); ok {
		in.log.Debug("variable retrieved", "name", name, "value", v.Inspect())
		return v, true
	}
	if len(name) >= 2 && name[0] == '"' && name[len(name)-1] == '"' {
		return &evaluator.Text{Value: name[1 : len(name)-1]}, true
	}
	if n, err := strconv.ParseInt(name, 10, 64); err == nil {
		return &evaluator.Integer{Value: n}, true
	}
	return evaluator.NIL, false
}

// ResolveNames resolves tokens in order. Unresolvable tokens become NIL
// arguments and are reported as warnings, not failures.
func (in *Interpreter) ResolveNames(tokens []string) []evaluator.Object {
	out := make([]evaluator.Object, len(tokens))
	for i, tok := range tokens {
		v, ok := in.ResolveName(tok)
		if !ok {
			err := &dispatch.DispatchError{Kind: dispatch.LiteralUnresolvable, Target: tok}
			in.log.Warn("argument passed as null", "position", i, "kind", err.Kind.String(), "err", err)
		}
		out[i] = v
	}
	return out
}

// Process runs one command and returns its status line. Failures never
// escape as errors; they are folded into the status.
func (in *Interpreter) Process(cmd *ast.Command) string {
	if cmd.IsMethodCall {
		return in.invoke(cmd)
	}
	return in.construct(cmd)
}

func (in *Interpreter) construct(cmd *ast.Command) string {
	args := in.ResolveNames(cmd.Arguments)
	in.logArgs("constructing", cmd.ClassName, args)

	obj, err := in.engine.Construct(cmd.ClassName, args)
	if err != nil {
		in.log.Debug("construction failed", "class", cmd.ClassName, "err", err)
		return fmt.Sprintf(config.StatusCreateFailed, cmd.ClassName)
	}

	in.bind(cmd.ObjectName, obj)
	return fmt.Sprintf(config.StatusCreated, cmd.ClassName, cmd.ObjectName)
}

func (in *Interpreter) invoke(cmd *ast.Command) string {
	receiver, ok := in.symbols.Find(cmd.ObjectName)
	if !ok || evaluator.IsNil(receiver) {
		return fmt.Sprintf(config.StatusNotFound, cmd.ObjectName)
	}
	in.log.Debug("variable retrieved", "name", cmd.ObjectName, "value", receiver.Inspect())

	args := in.ResolveNames(cmd.Arguments)
	in.logArgs("invoking "+cmd.MethodName, cmd.ObjectName, args)

	result, err := in.engine.Invoke(receiver, cmd.MethodName, args)
	if err != nil {
		in.logFailure(cmd, err)
		return fmt.Sprintf(config.StatusError, err.Error())
	}

	if !evaluator.IsNil(result) {
		in.bind(cmd.ObjectName, result)
	}
	return fmt.Sprintf(config.StatusCalled, cmd.MethodName, cmd.ObjectName, result.Inspect())
}

func (in *Interpreter) bind(name string, v evaluator.Object) {
	if err := in.symbols.Define(name, v); err != nil {
		in.log.Warn("releasing previous binding", "name", name, "err", err)
	}
	in.log.Debug("stored", "name", name, "type", in.engine.TypeName(v), "value", v.Inspect())
	if in.log.Enabled(context.Background(), slog.LevelDebug) {
		in.log.Debug("symbol table", "table", in.symbols.String())
	}
}

func (in *Interpreter) logArgs(action, target string, args []evaluator.Object) {
	if !in.log.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	values := make([]string, len(args))
	for i, a := range args {
		values[i] = a.Inspect()
	}
	in.log.Debug(action, "target", target, "args", values, "types", in.engine.DescribeArgs(args))
}

func (in *Interpreter) logFailure(cmd *ast.Command, err error) {
	var inv *dispatch.InvocationError
	if errors.As(err, &inv) {
		in.log.Info("member raised", "target", inv.Target, "member", inv.Member, "err", inv.Err)
		return
	}
	kind, _ := dispatch.KindOf(err)
	in.log.Debug("dispatch failed", "object", cmd.ObjectName, "method", cmd.MethodName, "kind", kind.String())
}

// Close tears the session down, releasing every handle. Closing instances
// such as database connections may fail; those errors are joined.
func (in *Interpreter) Close() error {
	return errors.Join(in.symbols.Close(), in.arena.Close())
}
