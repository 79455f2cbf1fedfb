package core

import (
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/mmcdade/smallsh/core/logger"
)

func TestModeMessage(t *testing.T) {
	assert.Equal(t, "Entering foreground-only mode (& is now ignored).", modeMessage(true))
	assert.Equal(t, "Exiting foreground-only mode.", modeMessage(false))
}

func TestToggleIdle(t *testing.T) {
	out := &syncBuffer{}
	events := &recordingRecorder{}
	router := NewSignalRouter(out, events)

	router.toggle()
	assert.True(t, router.ForegroundOnly())
	assert.Equal(t, "\nEntering foreground-only mode (& is now ignored).\n: ", out.String())

	router.toggle()
	assert.False(t, router.ForegroundOnly())
	assert.Equal(t,
		"\nEntering foreground-only mode (& is now ignored).\n: "+
			"\nExiting foreground-only mode.\n: ",
		out.String())

	recorded := events.Events()
	require.Len(t, recorded, 2)
	assert.Equal(t, &logger.ModeChange{ForegroundOnly: true}, recorded[0])
	assert.Equal(t, &logger.ModeChange{ForegroundOnly: false}, recorded[1])
}

func TestToggleDeferred(t *testing.T) {
	out := &syncBuffer{}
	router := NewSignalRouter(out, &recordingRecorder{})

	router.BeginCommand()
	router.toggle()

	// Nothing hits the terminal while the command is in flight.
	assert.True(t, router.ForegroundOnly())
	assert.Empty(t, out.String())

	msg, ok := router.FinishCommand()
	require.True(t, ok)
	assert.Equal(t, "Entering foreground-only mode (& is now ignored).", msg)

	// The announcement fires once.
	_, ok = router.FinishCommand()
	assert.False(t, ok)
}

func TestToggleDeferredReflectsFinalMode(t *testing.T) {
	router := NewSignalRouter(&syncBuffer{}, &recordingRecorder{})

	// Two stops during one foreground wait land back in normal mode; the
	// single flushed announcement reports where we ended up.
	router.BeginCommand()
	router.toggle()
	router.toggle()

	msg, ok := router.FinishCommand()
	require.True(t, ok)
	assert.Equal(t, "Exiting foreground-only mode.", msg)
	assert.False(t, router.ForegroundOnly())
}

func TestToggleResumesStoppedForegroundChild(t *testing.T) {
	router := NewSignalRouter(&syncBuffer{}, &recordingRecorder{})

	child := exec.Command("sleep", "1")
	require.NoError(t, child.Start())
	pid := child.Process.Pid
	t.Cleanup(func() { _ = unix.Kill(pid, unix.SIGKILL) })

	// Simulate the terminal stopping the whole foreground group.
	require.NoError(t, unix.Kill(pid, unix.SIGSTOP))

	router.BeginCommand()
	router.SetForegroundChild(pid)
	router.toggle()

	// Toggling sent SIGCONT, so the wait can finish. A child left
	// stopped would hang here forever.
	done := make(chan struct{})
	go func() {
		_ = child.Wait()
		close(done)
	}()
	require.Eventually(t, func() bool {
		select {
		case <-done:
			return true
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
}

func TestRouterHandlesStopSignal(t *testing.T) {
	out := &syncBuffer{}
	router := NewSignalRouter(out, &recordingRecorder{})
	router.Install()
	defer router.Stop()

	require.NoError(t, unix.Kill(os.Getpid(), unix.SIGTSTP))
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Entering foreground-only mode (& is now ignored).")
	}, 5*time.Second, 10*time.Millisecond)
	assert.True(t, router.ForegroundOnly())

	require.NoError(t, unix.Kill(os.Getpid(), unix.SIGTSTP))
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Exiting foreground-only mode.")
	}, 5*time.Second, 10*time.Millisecond)
	assert.False(t, router.ForegroundOnly())
}

func TestRouterSwallowsInterrupt(t *testing.T) {
	out := &syncBuffer{}
	router := NewSignalRouter(out, &recordingRecorder{})
	router.Install()
	defer router.Stop()

	require.NoError(t, unix.Kill(os.Getpid(), unix.SIGINT))

	// The interrupt must neither kill the process nor produce output.
	// Chase it with a stop toggle to know routing caught up.
	require.NoError(t, unix.Kill(os.Getpid(), unix.SIGTSTP))
	require.Eventually(t, func() bool {
		return router.ForegroundOnly()
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, "\nEntering foreground-only mode (& is now ignored).\n: ", out.String())
}
