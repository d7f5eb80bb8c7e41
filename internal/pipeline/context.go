package pipeline

import (
	"github.com/funvibe/objrepl/internal/ast"
)

// Processor is one stage of the line pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext carries one input line through the stages.
type PipelineContext struct {
	Line   string
	LineNo int

	// Exactly one of Command and Meta is set once the line is parsed,
	// unless the line was blank, a comment or a quit word.
	Command *ast.Command
	Meta    *ast.MetaCommand

	// Skip marks blank and comment lines.
	Skip bool
	// Quit is set by the sentinel words and by :quit.
	Quit bool

	Output []string
	Errors []error
}

func NewPipelineContext(line string, lineNo int) *PipelineContext {
	return &PipelineContext{Line: line, LineNo: lineNo}
}

// Done reports whether a stage has already settled the line.
func (ctx *PipelineContext) Done() bool {
	return ctx.Skip || ctx.Quit || len(ctx.Errors) > 0
}

func (ctx *PipelineContext) Emit(lines ...string) {
	ctx.Output = append(ctx.Output, lines...)
}
