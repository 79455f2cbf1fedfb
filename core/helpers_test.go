package core

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/mmcdade/smallsh/core/logger"
)

// syncBuffer guards a bytes.Buffer against the signal routing goroutine
// and the exec package's copy goroutines writing while the test reads.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// recordingRecorder keeps every event in memory for assertions.
type recordingRecorder struct {
	mu     sync.Mutex
	events []logger.LogType
}

var _ logger.Recorder = (*recordingRecorder)(nil)

func (r *recordingRecorder) Record(event logger.LogType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingRecorder) Events() []logger.LogType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]logger.LogType, len(r.events))
	copy(out, r.events)
	return out
}

// shellFixture wires a Shell against buffers, a capturing event recorder
// and a recording exit seam. Options fields that tests leave zero keep
// these test doubles; a caller-supplied Stdin wins over input.
type shellFixture struct {
	shell  *Shell
	stdout *syncBuffer
	stderr *syncBuffer
	events *recordingRecorder
	exits  []int
}

func newShellFixture(t *testing.T, input string, opts Options) *shellFixture {
	t.Helper()

	f := &shellFixture{
		stdout: &syncBuffer{},
		stderr: &syncBuffer{},
		events: &recordingRecorder{},
	}

	if opts.Stdin == nil {
		opts.Stdin = strings.NewReader(input)
	}
	opts.Stdout = f.stdout
	opts.Stderr = f.stderr
	opts.Events = f.events
	opts.Exit = func(code int) {
		f.exits = append(f.exits, code)
	}

	f.shell = NewShell(opts)
	return f
}
