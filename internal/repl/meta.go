package repl

import (
	"fmt"
	"sort"

	json "github.com/goccy/go-json"

	"github.com/funvibe/objrepl/internal/config"
	"github.com/funvibe/objrepl/internal/pipeline"
)

const helpText = `Commands:
  name = new Class(arg, ...)    construct and bind
  name.method(arg, ...)         invoke; a non-null result is bound to name
  :vars [json]                  list bound names
  :classes                      list constructible classes and aliases
  :methods Class                show constructors and methods of Class
  :help                         this text
  q, quit, :quit                end the session`

// MetaProcessor answers :commands. Parsed commands pass through untouched.
type MetaProcessor struct {
	Session *Session
}

func (mp *MetaProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Meta == nil || ctx.Done() {
		return ctx
	}
	s := mp.Session

	switch ctx.Meta.Name {
	case config.MetaHelp:
		ctx.Emit(helpText)
	case config.MetaVars:
		if len(ctx.Meta.Args) == 1 && ctx.Meta.Args[0] == "json" {
			line, err := s.varsJSON()
			if err != nil {
				ctx.Errors = append(ctx.Errors, err)
				return ctx
			}
			ctx.Emit(line)
			return ctx
		}
		ctx.Emit(s.vars()...)
	case config.MetaClasses:
		ctx.Emit(s.classes()...)
	case config.MetaMethods:
		if len(ctx.Meta.Args) != 1 {
			ctx.Errors = append(ctx.Errors, fmt.Errorf("usage: %s%s <Class>", config.MetaPrefix, config.MetaMethods))
			return ctx
		}
		lines, err := s.methods(ctx.Meta.Args[0])
		if err != nil {
			ctx.Errors = append(ctx.Errors, err)
			return ctx
		}
		ctx.Emit(lines...)
	case config.MetaQuit:
		ctx.Quit = true
	default:
		ctx.Errors = append(ctx.Errors, fmt.Errorf("unknown command %s%s, type %s%s for a list",
			config.MetaPrefix, ctx.Meta.Name, config.MetaPrefix, config.MetaHelp))
	}
	return ctx
}

func (s *Session) vars() []string {
	table := s.interp.Symbols()
	if table.Len() == 0 {
		return []string{"(no variables)"}
	}
	eng := s.interp.Engine()
	out := make([]string, 0, table.Len())
	for _, name := range table.Names() {
		v, _ := table.Find(name)
		out = append(out, fmt.Sprintf("%s : %s = %s", name, eng.TypeName(v), v.Inspect()))
	}
	return out
}

type varEntry struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

// varsJSON renders the symbol table as one JSON array line.
func (s *Session) varsJSON() (string, error) {
	table := s.interp.Symbols()
	eng := s.interp.Engine()
	entries := make([]varEntry, 0, table.Len())
	for _, name := range table.Names() {
		v, _ := table.Find(name)
		entries = append(entries, varEntry{Name: name, Type: eng.TypeName(v), Value: v.Inspect()})
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("encoding variables: %w", err)
	}
	return string(data), nil
}

func (s *Session) classes() []string {
	reg := s.interp.Registry()
	var out []string
	for _, c := range reg.Classes() {
		out = append(out, c.Name)
	}
	aliases := reg.Aliases()
	names := make([]string, 0, len(aliases))
	for a := range aliases {
		names = append(names, a)
	}
	sort.Strings(names)
	for _, a := range names {
		out = append(out, fmt.Sprintf("%s -> %s", a, aliases[a]))
	}
	return out
}

func (s *Session) methods(className string) ([]string, error) {
	cls, ok := s.interp.Registry().Lookup(className)
	if !ok {
		return nil, fmt.Errorf("class %s not found", className)
	}
	var out []string
	for _, k := range cls.Constructors {
		out = append(out, "new "+k.String())
	}
	for _, m := range cls.AllMethods() {
		out = append(out, m.String())
	}
	return out, nil
}
