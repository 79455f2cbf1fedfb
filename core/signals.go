package core

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"

	"golang.org/x/sys/unix"

	"github.com/mmcdade/smallsh/core/logger"
)

// Mode-change announcements. The stop signal never suspends the shell;
// it flips between allowing and forbidding background execution.
const (
	enterForegroundOnly = "Entering foreground-only mode (& is now ignored)."
	exitForegroundOnly  = "Exiting foreground-only mode."
)

func modeMessage(foregroundOnly bool) string {
	if foregroundOnly {
		return enterForegroundOnly
	}
	return exitForegroundOnly
}

// SignalRouter owns the shell's signal dispositions. SIGINT is swallowed
// so a terminal interrupt only kills the foreground child; SIGTSTP
// toggles foreground-only mode instead of suspending anything.
//
// The routing goroutine touches nothing beyond the atomic flags, the
// terminal writer and kill(2), the same discipline an async handler
// would be held to.
type SignalRouter struct {
	foregroundOnly atomic.Bool
	pending        atomic.Bool
	active         atomic.Bool
	fgPid          atomic.Int64

	out    io.Writer
	events logger.Recorder

	sigs chan os.Signal
	done chan struct{}
}

func NewSignalRouter(out io.Writer, events logger.Recorder) *SignalRouter {
	return &SignalRouter{
		out:    out,
		events: events,
		sigs:   make(chan os.Signal, 8),
		done:   make(chan struct{}),
	}
}

// Install registers the handlers and starts routing. The runtime installs
// them with SA_RESTART, so the blocking line read resumes after delivery.
func (r *SignalRouter) Install() {
	signal.Notify(r.sigs, unix.SIGINT, unix.SIGTSTP)
	go r.route()
}

// Stop unregisters the handlers and ends the routing goroutine.
func (r *SignalRouter) Stop() {
	signal.Stop(r.sigs)
	close(r.sigs)
	<-r.done
}

func (r *SignalRouter) route() {
	defer close(r.done)
	for sig := range r.sigs {
		// SIGINT is dropped here: the foreground child shares the
		// terminal's process group and dies on its own copy.
		if sig == unix.SIGTSTP {
			r.toggle()
		}
	}
}

// toggle flips foreground-only mode. With no command in flight the
// announcement goes straight to the terminal along with a fresh prompt;
// otherwise it is deferred until the executor finishes its wait.
func (r *SignalRouter) toggle() {
	foregroundOnly := !r.foregroundOnly.Load()
	r.foregroundOnly.Store(foregroundOnly)

	r.events.Record(&logger.ModeChange{ForegroundOnly: foregroundOnly})

	if r.active.Load() {
		r.pending.Store(true)
		// The stop also reached the foreground child; resume it so the
		// toggle never leaves anything suspended.
		if pid := r.fgPid.Load(); pid > 0 {
			_ = unix.Kill(int(pid), unix.SIGCONT)
		}
		return
	}

	fmt.Fprintf(r.out, "\n%s\n%s", modeMessage(foregroundOnly), Prompt)
}

// ForegroundOnly reports whether "&" is currently ignored.
func (r *SignalRouter) ForegroundOnly() bool {
	return r.foregroundOnly.Load()
}

// BeginCommand marks a dispatch in flight so announcements defer.
func (r *SignalRouter) BeginCommand() {
	r.active.Store(true)
}

// SetForegroundChild tells the router which pid to keep running when a
// stop arrives mid-wait.
func (r *SignalRouter) SetForegroundChild(pid int) {
	r.fgPid.Store(int64(pid))
}

// FinishCommand clears the in-flight state and returns the deferred
// announcement to print, if any. The text reflects the mode now in
// effect, not the one when the toggle happened.
func (r *SignalRouter) FinishCommand() (string, bool) {
	r.active.Store(false)
	r.fgPid.Store(0)
	if r.pending.Swap(false) {
		return modeMessage(r.foregroundOnly.Load()), true
	}
	return "", false
}
