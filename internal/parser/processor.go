package parser

import (
	"strings"

	"github.com/funvibe/objrepl/internal/ast"
	"github.com/funvibe/objrepl/internal/config"
	"github.com/funvibe/objrepl/internal/pipeline"
)

// ParserProcessor classifies a raw line and parses commands.
type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	line := strings.TrimSpace(ctx.Line)

	switch {
	case line == "" || strings.HasPrefix(line, config.CommentPrefix):
		ctx.Skip = true
		return ctx
	case IsQuit(line):
		ctx.Quit = true
		return ctx
	case strings.HasPrefix(line, config.MetaPrefix):
		ctx.Meta = ParseMeta(line)
		return ctx
	}

	cmd, err := Parse(line)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Command = cmd
	return ctx
}

// IsQuit reports whether line is one of the session sentinel words.
func IsQuit(line string) bool {
	line = strings.TrimSpace(line)
	for _, w := range config.QuitWords {
		if strings.EqualFold(line, w) {
			return true
		}
	}
	return false
}

// ParseMeta splits ":methods java.util.ArrayList" into name and arguments.
// The name is lower-cased.
func ParseMeta(line string) *ast.MetaCommand {
	fields := strings.Fields(strings.TrimPrefix(strings.TrimSpace(line), config.MetaPrefix))
	if len(fields) == 0 {
		return &ast.MetaCommand{}
	}
	return &ast.MetaCommand{Name: strings.ToLower(fields[0]), Args: fields[1:]}
}
