package logger

import (
	"encoding/json"
	"fmt"
	"io"
)

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var logEntry LogEntry
		if err := decoder.Decode(&logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	Sessions       int        `json:"sessions"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`

	RunCommand  RunCommandReport `json:"run_command_report"`
	Builtin     BuiltinReport    `json:"builtin_report"`
	Background  BackgroundReport `json:"background_report"`
	ModeChanges int              `json:"mode_changes"`
}

func (r *Report) Update(le *LogEntry) {
	r.LogEntries++

	switch event := le.Event().(type) {
	case *SessionStart:
		r.Sessions++
	case *RunCommand:
		r.RunCommand.update(event)
	case *Builtin:
		r.Builtin.update(event)
	case *BackgroundDone:
		r.Background.update(event)
	case *ModeChange:
		r.ModeChanges++
	case *SessionEnd:
		// Ignore
	default:
		r.InvalidEntries.Increment(fmt.Sprintf("%T", event))
	}
}

type RunCommandReport struct {
	// Name of the command and how often it ran.
	CommandNames StrCounter `json:"command_names"`
	// Rendered exit statuses of foreground commands.
	Statuses StrCounter `json:"statuses"`
	// Number of commands that ran in the background.
	BackgroundCount int `json:"background_count"`
	// Spawn errors and how often they occurred.
	Errors StrCounter `json:"errors,omitempty"`
}

func (r *RunCommandReport) update(rc *RunCommand) {
	if len(rc.Command) > 0 {
		r.CommandNames.Increment(rc.Command[0])
	}
	if rc.Status != "" {
		r.Statuses.Increment(rc.Status)
	}
	if rc.Background {
		r.BackgroundCount++
	}
	if rc.Error != "" {
		r.Errors.Increment(rc.Error)
	}
}

type BuiltinReport struct {
	Names StrCounter `json:"names"`
}

func (r *BuiltinReport) update(b *Builtin) {
	r.Names.Increment(b.Name)
}

type BackgroundReport struct {
	Count    int        `json:"count"`
	Statuses StrCounter `json:"statuses"`
}

func (r *BackgroundReport) update(bd *BackgroundDone) {
	r.Count++
	r.Statuses.Increment(bd.Status)
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Count returns the number of times the key was seen.
func (s *StrCounter) Count(key string) int {
	return s.internal[key]
}

// MarshalJSON implements a custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.internal)
}
