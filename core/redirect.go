package core

import (
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/mmcdade/smallsh/core/parser"
)

// planRedirects opens the streams a command's redirections request. A nil
// file means the corresponding stream stays on the terminal. Error text
// is user-facing and printed verbatim.
func (e *Executor) planRedirects(cmd *parser.Command) (stdin, stdout afero.File, err error) {
	if cmd.RedirectInput {
		stdin, err = e.openInput(cmd.Input)
		if err != nil {
			return nil, nil, err
		}
	}
	if cmd.RedirectOutput {
		stdout, err = e.openOutput(cmd.Output)
		if err != nil {
			closeParentCopies(stdin)
			return nil, nil, err
		}
	}
	return stdin, stdout, nil
}

// An empty path is a background default and maps to the null device.
func (e *Executor) openInput(path string) (afero.File, error) {
	if path == "" {
		f, err := e.fs.Open(os.DevNull)
		if err != nil {
			return nil, fmt.Errorf("smallsh: cannot open /dev/null input: %v", err)
		}
		return f, nil
	}

	f, err := e.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Unable to open input file: %s.", path)
	}
	return f, nil
}

func (e *Executor) openOutput(path string) (afero.File, error) {
	target := path
	if target == "" {
		target = os.DevNull
	}

	f, err := e.fs.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		if path == "" {
			return nil, fmt.Errorf("smallsh: cannot open /dev/null output: %v", err)
		}
		return nil, fmt.Errorf("Unable to open output file: %s.", path)
	}
	return f, nil
}

// closeParentCopies drops the shell's descriptors once the child holds
// its own duplicates. In-memory files used by tests are left open for
// the exec package's copy goroutines.
func closeParentCopies(files ...afero.File) {
	for _, f := range files {
		if osFile, ok := f.(*os.File); ok {
			osFile.Close()
		}
	}
}
