package pipeline

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline. Every stage is called; a stage returns the
// context untouched once it is Done, and errors are left in ctx.Errors
// for the caller to print.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	return ctx
}

// RunLine is shorthand for running a fresh context built from one line.
func (p *Pipeline) RunLine(line string, lineNo int) *PipelineContext {
	return p.Run(NewPipelineContext(line, lineNo))
}
