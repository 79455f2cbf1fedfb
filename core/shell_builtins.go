package core

import (
	"fmt"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"

	"github.com/mmcdade/smallsh/core/logger"
)

// AllBuiltins holds a list of all registered shell builtins.
var AllBuiltins = make(map[string]ShellBuiltin)

type ShellBuiltin interface {
	Main(e *Executor, args []string, last *Status)
}

type ShellBuiltinFunc func(e *Executor, args []string, last *Status)

func (f ShellBuiltinFunc) Main(e *Executor, args []string, last *Status) {
	f(e, args, last)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

// Cd is the cd shell builtin. Without an argument it moves to $HOME,
// silently ignoring failure; extra arguments beyond the first are
// ignored.
func Cd(e *Executor, args []string, last *Status) {
	if len(args) < 2 {
		_ = os.Chdir(os.Getenv("HOME"))
		return
	}
	if err := os.Chdir(args[1]); err != nil {
		fmt.Fprintf(e.stderr, "%s: %v\n", args[0], err)
	}
}

// ReportStatus prints how the last foreground command ended.
func ReportStatus(e *Executor, args []string, last *Status) {
	fmt.Fprintln(e.stdout, last)
}

// Exit terminates the shell: reap what's done, TERM every live
// background child, reap again, leave with status 0.
func Exit(e *Executor, args []string, last *Status) {
	e.reaper.Drain()

	// The shell must survive its own broadcast.
	signal.Ignore(unix.SIGTERM)
	for _, pid := range e.reaper.Live() {
		// Background children lead their own process groups.
		_ = unix.Kill(-pid, unix.SIGTERM)
	}
	e.reaper.Drain()

	e.events.Record(&logger.SessionEnd{})
	e.exit(0)
}

func init() {
	AllBuiltins["cd"] = ShellBuiltinFunc(Cd)
	AllBuiltins["status"] = ShellBuiltinFunc(ReportStatus)
	AllBuiltins["exit"] = ShellBuiltinFunc(Exit)
}
