// Package repl reads command lines, runs them through the line pipeline and
// prints status lines. It has an interactive liner front end and a plain
// batch reader for scripts and pipes.
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/funvibe/objrepl/internal/config"
	"github.com/funvibe/objrepl/internal/interp"
	"github.com/funvibe/objrepl/internal/parser"
	"github.com/funvibe/objrepl/internal/pipeline"
	"github.com/funvibe/objrepl/internal/utils"
)

// maxLineSize bounds a single batch line.
const maxLineSize = 1 << 20

type Session struct {
	interp *interp.Interpreter
	cfg    *config.Config
	pipe   *pipeline.Pipeline
	out    io.Writer
	color  bool
	lineNo int
}

// New builds a session around in. A nil cfg uses config.Default().
func New(in *interp.Interpreter, cfg *config.Config, out io.Writer) *Session {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Session{interp: in, cfg: cfg, out: out}
	s.pipe = pipeline.New(
		&parser.ParserProcessor{},
		&MetaProcessor{Session: s},
		interp.NewCommandProcessor(in),
	)
	return s
}

// SetColor toggles ANSI coloring of status lines.
func (s *Session) SetColor(on bool) { s.color = on }

// HandleLine runs one line and returns its output, one status per line,
// and whether the session should end.
func (s *Session) HandleLine(line string) (string, bool) {
	s.lineNo++
	ctx := s.pipe.RunLine(line, s.lineNo)

	out := ctx.Output
	for _, err := range ctx.Errors {
		out = append(out, fmt.Sprintf(config.StatusError, err.Error()))
	}
	return strings.Join(out, "\n"), ctx.Quit
}

func (s *Session) emit(text string) {
	if text == "" {
		return
	}
	if s.color {
		lines := strings.Split(text, "\n")
		for i, l := range lines {
			lines[i] = paint(l)
		}
		text = strings.Join(lines, "\n")
	}
	fmt.Fprintln(s.out, text)
}

// PrintBanner writes the start-up help unless disabled in config.
func (s *Session) PrintBanner() {
	if !s.cfg.ShowBanner() {
		return
	}
	if s.color {
		fmt.Fprintln(s.out, ansiDim+config.Banner+ansiReset)
		return
	}
	fmt.Fprintln(s.out, config.Banner)
}

// RunBatch executes lines from r until EOF or a quit word.
func (s *Session) RunBatch(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		text, quit := s.HandleLine(scanner.Text())
		s.emit(text)
		if quit {
			return nil
		}
	}
	return scanner.Err()
}

// RunInteractive reads lines with liner, keeping history in the configured
// file, until EOF, Ctrl-C or a quit word.
func (s *Session) RunInteractive() error {
	s.PrintBanner()

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := s.historyPath()
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	for {
		line, err := ln.Prompt(s.cfg.Prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(s.out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}

		text, quit := s.HandleLine(line)
		s.emit(text)
		if quit {
			return nil
		}
	}
}

// Run picks the interactive front end when in is a terminal.
func (s *Session) Run(in *os.File) error {
	if IsTerminal(in) {
		s.color = colorSupported(os.Stdout)
		return s.RunInteractive()
	}
	return s.RunBatch(in)
}

// historyPath resolves the history file; relative names live in the home
// directory. Empty when history is disabled or home is unknown.
func (s *Session) historyPath() string {
	h := s.cfg.History
	if h == "" || h == "-" {
		return ""
	}
	if filepath.IsAbs(h) {
		return h
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return utils.ResolveRelative(home, h)
}
