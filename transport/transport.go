// Package transport executes single command lines on a remote filer and
// returns their raw output. It knows nothing about the appliance's command
// grammar; classification of appliance-level failures happens above it.
package transport

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Result is the raw outcome of one remote invocation. Status is the remote
// exit code where the transport can observe one (ssh); telnet sessions have
// no exit codes and always report 0.
type Result struct {
	Output  string
	Status  int
	Elapsed time.Duration
}

// Transport executes command lines against one filer.
//
// Implementations are either safe for concurrent use (ssh, one connection
// per call) or internally serialized (telnet, one shared session).
type Transport interface {
	Execute(ctx context.Context, command string) (Result, error)
	Close() error
}

// Error is a transport-level failure: connection, auth, timeout, session
// loss. It is distinct from an appliance rejecting a command.
type Error struct {
	Op   string
	Host string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("transport: %s %s: %v", e.Op, e.Host, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// serialized wraps a transport that tolerates only one in-flight command.
// The filer permits a single root telnet session, so every command queues
// behind the previous one.
type serialized struct {
	mu    sync.Mutex
	inner Transport
}

// NewSerialized returns a transport that executes commands one at a time.
func NewSerialized(inner Transport) Transport {
	return &serialized{inner: inner}
}

func (s *serialized) Execute(ctx context.Context, command string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Execute(ctx, command)
}

func (s *serialized) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Close()
}
