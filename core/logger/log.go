package logger

// LogEntry is a single record in the shell's event log. Exactly one of
// the event fields is set.
type LogEntry struct {
	// TimestampMicros is the event time in microseconds since the Unix epoch.
	TimestampMicros int64  `json:"timestamp_micros"`
	SessionID       string `json:"session_id,omitempty"`

	SessionStart   *SessionStart   `json:"session_start,omitempty"`
	RunCommand     *RunCommand     `json:"run_command,omitempty"`
	Builtin        *Builtin        `json:"builtin,omitempty"`
	BackgroundDone *BackgroundDone `json:"background_done,omitempty"`
	ModeChange     *ModeChange     `json:"mode_change,omitempty"`
	SessionEnd     *SessionEnd     `json:"session_end,omitempty"`
}

// Event returns the entry's payload, or nil if none is set.
func (le *LogEntry) Event() LogType {
	switch {
	case le.SessionStart != nil:
		return le.SessionStart
	case le.RunCommand != nil:
		return le.RunCommand
	case le.Builtin != nil:
		return le.Builtin
	case le.BackgroundDone != nil:
		return le.BackgroundDone
	case le.ModeChange != nil:
		return le.ModeChange
	case le.SessionEnd != nil:
		return le.SessionEnd
	}
	return nil
}

// LogType is implemented by every event that can appear in a LogEntry.
type LogType interface {
	attach(le *LogEntry)
}

// SessionStart records a shell starting up.
type SessionStart struct {
	// Pid of the shell process.
	Pid int `json:"pid"`
}

func (e *SessionStart) attach(le *LogEntry) { le.SessionStart = e }

// RunCommand records an external command dispatch.
type RunCommand struct {
	// Command holds the argv of the command.
	Command []string `json:"command"`
	// Background is true when the command ran asynchronously.
	Background bool `json:"background,omitempty"`
	// Pid of the spawned child, zero if the spawn failed.
	Pid int `json:"pid,omitempty"`
	// Status is the rendered exit status of a foreground command.
	Status string `json:"status,omitempty"`
	// Error is set when the child could not be started.
	Error string `json:"error,omitempty"`
}

func (e *RunCommand) attach(le *LogEntry) { le.RunCommand = e }

// Builtin records an in-process builtin invocation.
type Builtin struct {
	Name string   `json:"name"`
	Args []string `json:"args,omitempty"`
}

func (e *Builtin) attach(le *LogEntry) { le.Builtin = e }

// BackgroundDone records the reaping of a background child.
type BackgroundDone struct {
	Pid    int    `json:"pid"`
	Status string `json:"status"`
}

func (e *BackgroundDone) attach(le *LogEntry) { le.BackgroundDone = e }

// ModeChange records a foreground-only mode toggle.
type ModeChange struct {
	ForegroundOnly bool `json:"foreground_only"`
}

func (e *ModeChange) attach(le *LogEntry) { le.ModeChange = e }

// SessionEnd records a shell exiting cleanly.
type SessionEnd struct{}

func (e *SessionEnd) attach(le *LogEntry) { le.SessionEnd = e }
