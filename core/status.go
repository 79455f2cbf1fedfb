package core

import "fmt"

// Status records how the most recent foreground command ended, either a
// normal exit or a fatal signal. The zero value reports "exit value 0",
// matching a shell that hasn't run anything yet.
type Status struct {
	signaled bool
	value    int
}

// Exited builds a Status for a child that exited normally.
func Exited(code int) Status {
	return Status{value: code}
}

// Signaled builds a Status for a child killed by a signal.
func Signaled(signum int) Status {
	return Status{signaled: true, value: signum}
}

// Signaled reports whether the child was killed by a signal.
func (s Status) Signaled() bool {
	return s.signaled
}

// Value returns the exit code or signal number, depending on Signaled.
func (s Status) Value() int {
	return s.value
}

func (s Status) String() string {
	if s.signaled {
		return fmt.Sprintf("terminated by signal %d", s.value)
	}
	return fmt.Sprintf("exit value %d", s.value)
}
