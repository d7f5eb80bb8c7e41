package interp

import (
	"github.com/funvibe/objrepl/internal/pipeline"
)

// CommandProcessor is the pipeline stage that executes parsed commands.
type CommandProcessor struct {
	Interp *Interpreter
}

func NewCommandProcessor(in *Interpreter) *CommandProcessor {
	return &CommandProcessor{Interp: in}
}

func (cp *CommandProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Command == nil || ctx.Done() {
		return ctx
	}
	ctx.Emit(cp.Interp.Process(ctx.Command))
	return ctx
}
