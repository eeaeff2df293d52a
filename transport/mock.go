package transport

import (
	"context"
	"sync"
)

// Mock records executed command lines and returns preconfigured responses.
// Use this in tests to avoid real filer sessions.
// Set RunFn for dynamic per-command responses, otherwise Out/Status/Err are
// returned.
type Mock struct {
	mu       sync.Mutex
	Commands []string
	Out      string
	Status   int
	Err      error
	RunFn    func(command string) (Result, error)
}

func (m *Mock) Execute(_ context.Context, command string) (Result, error) {
	m.mu.Lock()
	m.Commands = append(m.Commands, command)
	m.mu.Unlock()
	if m.RunFn != nil {
		return m.RunFn(command)
	}
	return Result{Output: m.Out, Status: m.Status}, m.Err
}

func (m *Mock) Close() error { return nil }

// Calls returns a copy of the recorded command lines.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Commands))
	copy(out, m.Commands)
	return out
}
