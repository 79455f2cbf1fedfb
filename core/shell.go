package core

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/mmcdade/smallsh/core/config"
	"github.com/mmcdade/smallsh/core/logger"
	"github.com/mmcdade/smallsh/core/parser"
)

// Prompt is written before every read.
const Prompt = ": "

// Shell is the interactive driver: reap, prompt, read, dispatch.
type Shell struct {
	config *config.Configuration
	parser *parser.Parser
	router *SignalRouter
	reaper *Reaper
	exec   *Executor
	events logger.Recorder

	stdin  *bufio.Reader
	stdout io.Writer
	stderr io.Writer

	status Status
	pid    int
}

// Options configures a Shell. Zero fields get production defaults.
type Options struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Config *config.Configuration
	Events logger.Recorder
	// Fs opens redirection targets.
	Fs afero.Fs
	// Exit replaces os.Exit, for tests.
	Exit func(code int)
}

func NewShell(opts Options) *Shell {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Events == nil {
		opts.Events = logger.NopRecorder{}
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Exit == nil {
		opts.Exit = os.Exit
	}

	shell := &Shell{
		config: opts.Config,
		events: opts.Events,
		stdin:  bufio.NewReader(opts.Stdin),
		stdout: opts.Stdout,
		stderr: opts.Stderr,
		pid:    os.Getpid(),
	}
	shell.parser = parser.New(shell.pid, opts.Config.MaxArgs)
	shell.router = NewSignalRouter(opts.Stdout, opts.Events)
	shell.reaper = NewReaper(opts.Stdout, opts.Events)
	shell.exec = &Executor{
		fs:     opts.Fs,
		router: shell.router,
		reaper: shell.reaper,
		events: opts.Events,
		stdin:  opts.Stdin,
		stdout: opts.Stdout,
		stderr: opts.Stderr,
		exit:   opts.Exit,
	}

	return shell
}

// Run drives the shell until the exit builtin fires or input ends. It
// only returns when the exit seam doesn't stop the process, as in tests.
func (s *Shell) Run() {
	s.router.Install()
	defer s.router.Stop()

	s.events.Record(&logger.SessionStart{Pid: s.pid})

	for {
		s.reaper.Drain()
		fmt.Fprint(s.stdout, Prompt)

		line, err := s.stdin.ReadString('\n')
		if cmd := s.parseLine(line); cmd != nil {
			s.exec.Dispatch(cmd, &s.status)
		}
		if err != nil {
			if err != io.EOF {
				fmt.Fprintf(s.stderr, "smallsh: %v\n", err)
			}
			// Input is gone; leave through the exit sequence.
			Exit(s.exec, []string{"exit"}, &s.status)
			return
		}
	}
}

// Cycle performs one reap-then-execute step for an already parsed
// command. Run is a loop of read-parse-Cycle; tests drive Cycle
// directly.
func (s *Shell) Cycle(cmd *parser.Command, last *Status) {
	s.reaper.Drain()
	if cmd != nil {
		s.exec.Dispatch(cmd, last)
	}
}

// parseLine filters degenerate input before handing the line to the
// parser. A nil result means there is nothing to dispatch.
func (s *Shell) parseLine(line string) *parser.Command {
	line = strings.TrimSuffix(line, "\n")

	if len(line) > s.config.MaxInput {
		fmt.Fprintln(s.stderr, "smallsh: input line too long")
		return nil
	}
	// Blank lines, lines opening with a space and comments are skipped
	// without touching the status.
	if line == "" || line[0] == ' ' || line[0] == '#' {
		return nil
	}

	cmd, err := s.parser.Parse(line)
	if err != nil {
		if !errors.Is(err, parser.ErrEmptyCommand) {
			fmt.Fprintf(s.stderr, "smallsh: %v\n", err)
		}
		return nil
	}
	return cmd
}

// Status returns the last foreground exit status.
func (s *Shell) Status() Status {
	return s.status
}
