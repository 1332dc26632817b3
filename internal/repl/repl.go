package repl

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"monkey/internal/evaluator"
	"monkey/internal/lexer"
	"monkey/internal/object"
	"monkey/internal/parser"
	"monkey/internal/util"
)

const (
	PROMPT       = ">> "
	CONTINUATION = ".. "

	defaultHistoryFile = ".monkey_history"
)

// Session drives the interactive loop. The evaluator and environment persist
// for its lifetime, so definitions from one input are visible in the next.
type Session struct {
	Config util.Configuration

	out  io.Writer
	eval *evaluator.Evaluator
	env  *object.Environment
	errc *color.Color
}

func NewSession(config util.Configuration, out io.Writer) *Session {
	ev := evaluator.New()
	ev.Out = out

	return &Session{
		Config: config,
		out:    out,
		eval:   ev,
		env:    object.NewEnvironment(),
		errc:   color.New(color.FgRed),
	}
}

func (s *Session) Run() {
	fmt.Fprintf(s.out, "Hello %s! This is the Monkey programming language!\n", userName())
	fmt.Fprintln(s.out, "Feel free to type in commands. Type `exit` or press Ctrl-D to leave.")

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := s.historyPath()
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		code, ok := s.readInput(ln)
		if !ok {
			fmt.Fprintln(s.out)
			break
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if trimmed == "exit" {
			break
		}

		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		s.evalInput(code)
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
}

// readInput collects lines until the parser stops reporting that the input
// ended too early. Ctrl-C abandons the buffer, Ctrl-D ends the session.
func (s *Session) readInput(ln *liner.State) (string, bool) {
	var b strings.Builder

	for {
		prompt := PROMPT
		if b.Len() > 0 {
			prompt = CONTINUATION
		}

		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		p := parser.New(lexer.New(src), src)
		p.ParseProgram()
		if p.IncompleteInput() {
			continue
		}

		return src, true
	}
}

func (s *Session) evalInput(src string) {
	p := parser.New(lexer.New(src), src)
	program := p.ParseProgram()
	if len(p.Errors()) != 0 {
		s.printParserErrors(p.Errors())
		return
	}

	if s.Config.DebugJsonAST {
		if rendered, err := parser.RenderASTAsJSON(program); err == nil {
			fmt.Fprintln(os.Stderr, rendered)
		} else {
			slog.Warn("failed to render AST", slog.Any("error", err))
		}
	}
	if s.Config.DebugTxtAST {
		fmt.Fprintln(os.Stderr, parser.RenderASTAsText(program, 0))
	}

	evaluated := s.eval.Eval(program, s.env)
	if evaluated == nil {
		return
	}
	if errObj, ok := evaluated.(*object.Error); ok {
		s.errc.Fprintln(s.out, errObj.Inspect())
		return
	}

	fmt.Fprintln(s.out, evaluated.Inspect())
}

func (s *Session) printParserErrors(errs []string) {
	s.errc.Fprintln(s.out, "Woops! We ran into some monkey business here!")
	s.errc.Fprintln(s.out, " parser errors:")
	for _, msg := range errs {
		s.errc.Fprintf(s.out, "\t%s\n", msg)
	}
}

// historyPath resolves the configured history file against the home
// directory unless it is already absolute.
func (s *Session) historyPath() string {
	name := s.Config.HistoryFile
	if name == "" {
		name = defaultHistoryFile
	}
	if filepath.IsAbs(name) {
		return name
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, name)
}

func userName() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "friend"
}
