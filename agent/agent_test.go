package agent

import (
	"context"
	"os"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/filerops/filerctl/filer"
	"github.com/filerops/filerctl/model"
	"github.com/filerops/filerctl/transport"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func pollMock() *transport.Mock {
	return &transport.Mock{
		RunFn: func(command string) (transport.Result, error) {
			switch command {
			case "version":
				return transport.Result{Output: "NetApp Release 7.3.7\n"}, nil
			case "aggr status -v":
				return transport.Result{Output: `           Aggr State           Status            Options
          aggr0 online          raid_dp, aggr     root
          aggr1 offline         raid4, aggr
`}, nil
			case "vol status -v":
				return transport.Result{Output: `         Volume State           Status            Options
           vol0 online          raid_dp, flex     root
                Containing aggregate: 'aggr0'
`}, nil
			case "exportfs":
				return transport.Result{Output: "/vol/vol0\t-rw=h1\n"}, nil
			case "rdfile /etc/exports":
				return transport.Result{Output: "/vol/vol0\t-rw=h1\n/vol/vol1\t-ro\n"}, nil
			case "license":
				return transport.Result{Output: "                 cifs not licensed\n                  nfs site ABCDEFG\n"}, nil
			}
			return transport.Result{}, nil
		},
	}
}

func newTestAgent(mock *transport.Mock) *Agent {
	cfg := model.FilerConfig{
		Host:     "filer1",
		User:     "root",
		Protocol: model.ProtocolSSH,
	}
	f := filer.NewWithTransport(cfg, mock)
	return New(model.AgentConfig{}, f)
}

func TestPollPublishesGauges(t *testing.T) {
	a := newTestAgent(pollMock())
	a.poll(context.Background())

	if got := testutil.ToFloat64(Up.WithLabelValues("filer1")); got != 1 {
		t.Errorf("filer_up = %v, want 1", got)
	}
	if got := testutil.ToFloat64(Aggregates.WithLabelValues("filer1", "online")); got != 1 {
		t.Errorf("aggregates{online} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(Aggregates.WithLabelValues("filer1", "offline")); got != 1 {
		t.Errorf("aggregates{offline} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(Volumes.WithLabelValues("filer1", "online")); got != 1 {
		t.Errorf("volumes{online} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(Exports.WithLabelValues("filer1", "active")); got != 1 {
		t.Errorf("exports{active} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(Exports.WithLabelValues("filer1", "inactive")); got != 1 {
		t.Errorf("exports{inactive} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(Licenses.WithLabelValues("filer1")); got != 1 {
		t.Errorf("licenses = %v, want 1", got)
	}
}

func TestPollMarksUnreachableFilerDown(t *testing.T) {
	mock := &transport.Mock{
		RunFn: func(command string) (transport.Result, error) {
			return transport.Result{}, &transport.Error{Op: "dial", Host: "filer1"}
		},
	}
	a := newTestAgent(mock)
	a.poll(context.Background())

	if got := testutil.ToFloat64(Up.WithLabelValues("filer1")); got != 0 {
		t.Errorf("filer_up = %v, want 0", got)
	}
	// the probe failure short-circuits the poll
	if got := len(mock.Calls()); got != 1 {
		t.Errorf("transport executed %d times, want 1", got)
	}
}
