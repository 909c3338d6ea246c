package todo

import (
	"context"
	"errors"
	"fmt"
	"github.com/ValentinKolb/dTodo/lib/cache"
	"github.com/chzyer/readline"
	"github.com/mattn/go-shellwords"
	"io"
	"strings"
)

// errUsage is returned for lines the shell does not understand
var errUsage = errors.New("usage: ADD <quantity> <name> | EDIT <quantity> <name> | DONE <name> | UNDO <name> | LIST | SYNC | EXIT")

// Shell interprets the todo commands against a cache
type Shell struct {
	cache cache.ICache
	in    io.Reader
	out   io.Writer
}

// NewShell creates a shell reading lines from in and writing its output to out.
// A nil in reads from the terminal.
func NewShell(c cache.ICache, in io.Reader, out io.Writer) *Shell {
	return &Shell{cache: c, in: in, out: out}
}

// Execute parses and runs a single line. Words are split like a shell does,
// so quotes keep multi word names together. exit is true after EXIT.
func (s *Shell) Execute(ctx context.Context, line string) (exit bool, err error) {
	words, err := shellwords.Parse(line)
	if err != nil {
		return false, fmt.Errorf("invalid input: %w", err)
	}
	if len(words) == 0 {
		return false, nil
	}
	return s.Exec(ctx, words[0], words[1:])
}

// Exec runs a command with its arguments. Commands are case insensitive.
func (s *Shell) Exec(ctx context.Context, command string, args []string) (exit bool, err error) {
	switch strings.ToUpper(command) {
	case "ADD", "EDIT":
		if len(args) < 2 {
			return false, errUsage
		}
		quantity, name := args[0], strings.Join(args[1:], " ")
		if strings.EqualFold(command, "ADD") {
			err = s.cache.Add(ctx, name, quantity)
		} else {
			err = s.cache.Edit(ctx, name, quantity)
		}
	case "DONE", "UNDO":
		if len(args) < 1 {
			return false, errUsage
		}
		name := strings.Join(args, " ")
		if strings.EqualFold(command, "DONE") {
			err = s.cache.Done(ctx, name)
		} else {
			err = s.cache.Undo(ctx, name)
		}
	case "LIST":
	case "SYNC", "EXIT":
		_, _ = fmt.Fprintln(s.out, "SYNCING TO SERVER...")
		if err := s.cache.Sync(ctx); err != nil {
			return false, err
		}
		_, _ = fmt.Fprintf(s.out, "Synced the list of %s\n", s.cache.Owner())
		return strings.EqualFold(command, "EXIT"), nil
	default:
		return false, errUsage
	}

	if err != nil {
		return false, err
	}
	Render(s.out, s.cache.List())
	return false, nil
}

// RunOnce executes a single command. Commands that change the list sync it
// afterwards, like leaving the interactive shell does.
func (s *Shell) RunOnce(ctx context.Context, command string, args []string) error {
	if _, err := s.Exec(ctx, command, args); err != nil {
		return err
	}
	switch strings.ToUpper(command) {
	case "ADD", "EDIT", "DONE", "UNDO":
		_, err := s.Exec(ctx, "SYNC", nil)
		return err
	}
	return nil
}

// Run starts the interactive loop. EXIT, Ctrl-C and Ctrl-D sync the list before returning.
func (s *Shell) Run(ctx context.Context) error {
	config := &readline.Config{
		Prompt:          "todo> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "EXIT",
		Stdout:          s.out,
	}
	if s.in != nil {
		config.Stdin = io.NopCloser(s.in)
		config.FuncIsTerminal = func() bool { return false }
	}
	rl, err := readline.NewEx(config)
	if err != nil {
		return err
	}
	defer rl.Close()

	_, _ = fmt.Fprintln(s.out, errUsage.Error())
	Render(s.out, s.cache.List())

	for {
		line, err := rl.Readline()
		closed := errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF)
		if closed {
			line = "EXIT"
		} else if err != nil {
			return err
		}

		exit, err := s.Execute(ctx, line)
		if err != nil {
			_, _ = fmt.Fprintf(s.out, "Error: %v\n", err)
			// no more input to retry with
			if closed {
				return err
			}
			continue
		}
		if exit {
			return nil
		}
	}
}
