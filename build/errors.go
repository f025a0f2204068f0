package build

import (
	"fmt"
	"strings"
)

// maxErrorOutput limits how much compiler output goes in error
// messages. The whole output is kept in ToolchainError.Output.
const maxErrorOutput = 2048

/*
ToolchainError is returned when a compile or link invocation exits
with an error. It carries the stage ("compiling" or "linking"), the
unit being compiled (empty when linking), the command run and its
combined output.
*/
type ToolchainError struct {
	Stage   string
	Unit    string
	Command []string
	Output  string
	Err     error
}

func (e *ToolchainError) Error() string {
	msg := e.Stage
	if e.Unit != "" {
		msg = fmt.Sprintf("%s %s", msg, e.Unit)
	}
	msg = fmt.Sprintf("%s: %s: %v", msg, strings.Join(e.Command, " "), e.Err)
	out := strings.TrimSpace(e.Output)
	if len(out) > maxErrorOutput {
		out = out[:maxErrorOutput] + "..."
	}
	if out != "" {
		msg = fmt.Sprintf("%s\n%s", msg, out)
	}
	return msg
}

func (e *ToolchainError) Unwrap() error {
	return e.Err
}
