package filer

import (
	"fmt"
	"strings"
)

// CommandError means the appliance rejected or failed a command. It carries
// the command line and captured output verbatim for diagnosis and is never
// retried automatically; retry policy belongs to the caller.
type CommandError struct {
	Command string
	Output  string
	Status  int
}

func (e *CommandError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return fmt.Sprintf("command %q failed with status %d", e.Command, e.Status)
	}
	return fmt.Sprintf("command %q failed: %s", e.Command, out)
}

// NotFoundError reports a keyed lookup that matched no record. It is
// distinct from an empty collection result for a list accessor.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}
