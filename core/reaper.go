package core

import (
	"fmt"
	"io"

	"golang.org/x/sys/unix"

	"github.com/mmcdade/smallsh/core/logger"
)

// Reaper tracks background children and collects them without blocking.
// It never waits on the foreground child; the executor owns that wait.
type Reaper struct {
	out    io.Writer
	events logger.Recorder

	// Live background pids in spawn order.
	children []int
}

func NewReaper(out io.Writer, events logger.Recorder) *Reaper {
	return &Reaper{out: out, events: events}
}

// Track registers a spawned background child.
func (r *Reaper) Track(pid int) {
	r.children = append(r.children, pid)
}

// Live returns the pids of tracked children that have not been reaped.
func (r *Reaper) Live() []int {
	out := make([]int, len(r.children))
	copy(out, r.children)
	return out
}

// Drain reaps every tracked child that has already terminated and
// reports each one. Children still running stay tracked.
func (r *Reaper) Drain() {
	var live []int
	for _, pid := range r.children {
		var ws unix.WaitStatus
		wpid, err := unix.Wait4(pid, &ws, unix.WNOHANG, nil)
		switch {
		case err == unix.EINTR:
			live = append(live, pid)
		case err != nil:
			// ECHILD: already collected elsewhere; stop tracking.
		case wpid == 0:
			live = append(live, pid)
		default:
			status := waitStatus(ws)
			fmt.Fprintf(r.out, "background pid %d is done: %s\n", pid, status)
			r.events.Record(&logger.BackgroundDone{Pid: pid, Status: status.String()})
		}
	}
	r.children = live
}

func waitStatus(ws unix.WaitStatus) Status {
	if ws.Signaled() {
		return Signaled(int(ws.Signal()))
	}
	return Exited(ws.ExitStatus())
}
