// Package parser turns raw input lines into shell commands.
//
// The grammar is deliberately tiny: words separated by single spaces,
// optional "<" and ">" redirections whose operand is the following word,
// and a trailing "&" marking background execution. Quoting, escapes and
// globbing are not part of the language.
package parser

import (
	"errors"
	"strconv"
	"strings"
)

// Errors reported for malformed lines.
var (
	ErrEmptyCommand     = errors.New("empty command")
	ErrNoRedirectTarget = errors.New("no file after redirection operator")
	ErrTooManyArguments = errors.New("too many arguments")
)

// Command is one parsed input line ready for dispatch.
type Command struct {
	// Argv holds the program name followed by its arguments.
	Argv []string
	// Input and Output are redirection targets. An empty path with the
	// corresponding Redirect flag set means the null device.
	Input          string
	Output         string
	RedirectInput  bool
	RedirectOutput bool
	// Background is set when the last word of the line was "&".
	Background bool
}

// Parser splits raw lines into Commands.
type Parser struct {
	// Pid is substituted for every "$$" in the input.
	Pid int
	// MaxArgs caps the Argv length. Zero means unlimited.
	MaxArgs int
}

func New(pid, maxArgs int) *Parser {
	return &Parser{Pid: pid, MaxArgs: maxArgs}
}

// Expand replaces each "$$" in line with the shell's pid.
func (p *Parser) Expand(line string) string {
	return strings.ReplaceAll(line, "$$", strconv.Itoa(p.Pid))
}

// Parse converts one line, already stripped of its trailing newline, into
// a Command. Lines with no words left after "&" handling return
// ErrEmptyCommand.
func (p *Parser) Parse(line string) (*Command, error) {
	line = p.Expand(line)

	// Runs of spaces produce empty fields; drop them. Tabs are not
	// separators and travel inside words.
	var words []string
	for _, word := range strings.Split(line, " ") {
		if word != "" {
			words = append(words, word)
		}
	}

	var out Command
	for i := 0; i < len(words); i++ {
		switch words[i] {
		case "<":
			i++
			if i == len(words) {
				return nil, ErrNoRedirectTarget
			}
			// The last redirection of each kind wins.
			out.Input = words[i]
			out.RedirectInput = true
		case ">":
			i++
			if i == len(words) {
				return nil, ErrNoRedirectTarget
			}
			out.Output = words[i]
			out.RedirectOutput = true
		default:
			out.Argv = append(out.Argv, words[i])
		}
	}

	// "&" backgrounds the command only in final position; anywhere else
	// it is an ordinary argument.
	if n := len(out.Argv); n > 0 && out.Argv[n-1] == "&" {
		out.Background = true
		out.Argv = out.Argv[:n-1]
	}

	switch {
	case len(out.Argv) == 0:
		return nil, ErrEmptyCommand
	case p.MaxArgs > 0 && len(out.Argv) > p.MaxArgs:
		return nil, ErrTooManyArguments
	}

	return &out, nil
}
