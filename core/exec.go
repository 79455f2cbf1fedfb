package core

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"syscall"

	"github.com/spf13/afero"
	"golang.org/x/sys/unix"

	"github.com/mmcdade/smallsh/core/logger"
	"github.com/mmcdade/smallsh/core/parser"
)

// Executor dispatches parsed commands to builtins or OS children and
// maintains the last exit status for foreground commands.
type Executor struct {
	fs     afero.Fs
	router *SignalRouter
	reaper *Reaper
	events logger.Recorder

	// stdin is inherited by foreground children without redirection;
	// stdout carries shell messages and child output; stderr carries
	// diagnostics.
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// exit ends the shell process. os.Exit outside of tests.
	exit func(code int)
}

// Dispatch runs one command. last is updated only by foreground external
// children; builtins read it but never write it.
func (e *Executor) Dispatch(cmd *parser.Command, last *Status) {
	e.router.BeginCommand()
	defer e.flushAnnouncement()

	if builtin, ok := AllBuiltins[cmd.Argv[0]]; ok {
		e.events.Record(&logger.Builtin{Name: cmd.Argv[0], Args: cmd.Argv[1:]})
		builtin.Main(e, cmd.Argv, last)
		return
	}

	e.runExternal(cmd, last)
}

// flushAnnouncement prints a mode change that arrived while the command
// was in flight, before the next prompt goes out.
func (e *Executor) flushAnnouncement() {
	if msg, ok := e.router.FinishCommand(); ok {
		fmt.Fprintf(e.stdout, "\n%s\n", msg)
	}
}

func (e *Executor) runExternal(cmd *parser.Command, last *Status) {
	background := cmd.Background && !e.router.ForegroundOnly()

	// Background commands must not contend for the terminal: default any
	// missing redirection to the null device.
	if background {
		if !cmd.RedirectInput {
			cmd.RedirectInput = true
			cmd.Input = ""
		}
		if !cmd.RedirectOutput {
			cmd.RedirectOutput = true
			cmd.Output = ""
		}
	}

	stdin, stdout, err := e.planRedirects(cmd)
	if err != nil {
		fmt.Fprintln(e.stderr, err)
		e.events.Record(&logger.RunCommand{Command: cmd.Argv, Background: background, Error: err.Error()})
		if !background {
			*last = Exited(1)
		}
		return
	}

	child := exec.Command(cmd.Argv[0], cmd.Argv[1:]...)
	child.Stdin = e.stdin
	child.Stdout = e.stdout
	child.Stderr = e.stderr
	if stdin != nil {
		child.Stdin = stdin
	}
	if stdout != nil {
		child.Stdout = stdout
	}
	if background {
		// Own process group: terminal-generated SIGINT and SIGTSTP never
		// reach background children.
		child.SysProcAttr = &unix.SysProcAttr{Setpgid: true}
	}

	err = child.Start()
	closeParentCopies(stdin, stdout)
	if err != nil {
		if notRunnable(err) {
			fmt.Fprintf(e.stderr, "%s: no such file or directory.\n", cmd.Argv[0])
			if !background {
				*last = Exited(1)
			}
		} else {
			fmt.Fprintf(e.stderr, "smallsh: %v\n", err)
		}
		e.events.Record(&logger.RunCommand{Command: cmd.Argv, Background: background, Error: err.Error()})
		return
	}

	if background {
		fmt.Fprintf(e.stdout, "background pid is %d\n", child.Process.Pid)
		e.reaper.Track(child.Process.Pid)
		e.events.Record(&logger.RunCommand{Command: cmd.Argv, Background: true, Pid: child.Process.Pid})
		return
	}

	e.router.SetForegroundChild(child.Process.Pid)
	waitErr := child.Wait()
	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		fmt.Fprintf(e.stderr, "smallsh: %v\n", waitErr)
	}

	status := childStatus(child.ProcessState)
	*last = status
	if status.Signaled() {
		fmt.Fprintf(e.stdout, "terminated by signal %d\n", status.Value())
	}
	e.events.Record(&logger.RunCommand{Command: cmd.Argv, Pid: child.Process.Pid, Status: status.String()})
}

// notRunnable reports spawn failures the user is told about with the
// classic one-liner: unresolvable names, missing paths, bad permissions.
func notRunnable(err error) bool {
	return errors.Is(err, exec.ErrNotFound) ||
		errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, fs.ErrPermission)
}

// childStatus derives a Status from a reaped child's wait status.
func childStatus(state *os.ProcessState) Status {
	if state == nil {
		return Exited(1)
	}
	if ws, ok := state.Sys().(syscall.WaitStatus); ok {
		if ws.Signaled() {
			return Signaled(int(ws.Signal()))
		}
		return Exited(ws.ExitStatus())
	}
	return Exited(state.ExitCode())
}
