package transport

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
)

func TestSerializedOneCommandAtATime(t *testing.T) {
	var inFlight, maxInFlight int32
	mock := &Mock{
		RunFn: func(command string) (Result, error) {
			n := atomic.AddInt32(&inFlight, 1)
			for {
				m := atomic.LoadInt32(&maxInFlight)
				if n <= m || atomic.CompareAndSwapInt32(&maxInFlight, m, n) {
					break
				}
			}
			atomic.AddInt32(&inFlight, -1)
			return Result{Output: "ok"}, nil
		},
	}
	tr := NewSerialized(mock)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := tr.Execute(context.Background(), "version"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&maxInFlight); got != 1 {
		t.Errorf("max concurrent inner executes = %d, want 1", got)
	}
	if got := len(mock.Calls()); got != 16 {
		t.Errorf("recorded %d commands, want 16", got)
	}
}

func TestMockRecordsCommands(t *testing.T) {
	mock := &Mock{Out: "NetApp Release 7.3.7", Status: 0}
	res, err := mock.Execute(context.Background(), "version")
	if err != nil {
		t.Fatal(err)
	}
	if res.Output != "NetApp Release 7.3.7" {
		t.Errorf("output = %q", res.Output)
	}
	calls := mock.Calls()
	if len(calls) != 1 || calls[0] != "version" {
		t.Errorf("calls = %v", calls)
	}
}
