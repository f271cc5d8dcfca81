package pipeline

import (
	"fmt"
)

// MissingExecutableError reports a required external tool that could not be
// located, either at its configured path or on the execution PATH. It is
// raised before any stage runs.
type MissingExecutableError struct {
	Tool string
	Path string
}

func (e *MissingExecutableError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("executable for '%s' not found at '%s'", e.Tool, e.Path)
	}
	return fmt.Sprintf("executable for '%s' not found on PATH", e.Tool)
}

// StageError reports a required stage whose external invocation exited
// non-zero. The failed command line is carried verbatim; nothing is retried
// and partially-written output is left in place.
type StageError struct {
	Stage    string
	Command  string
	ExitCode int
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed with code %d: %s", e.Stage, e.ExitCode, e.Command)
}
