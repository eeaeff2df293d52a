package filer

import (
	"context"

	"github.com/filerops/filerctl/parse"
)

// Snapmirror is one replication relationship as reported by
// `snapmirror status`.
type Snapmirror struct {
	Source      string
	Destination string
	State       string
	Lag         string
	Status      string
}

func (f *Filer) Snapmirrors(ctx context.Context) ([]*Snapmirror, error) {
	return cached(f, "snapmirror", "all", func() ([]*Snapmirror, error) {
		out, err := f.run(ctx, "snapmirror", "snapmirror status")
		if err != nil {
			return nil, err
		}
		recs, err := parse.Snapmirrors(out)
		if err != nil {
			return nil, err
		}
		mirrors := make([]*Snapmirror, 0, len(recs))
		for _, rec := range recs {
			mirrors = append(mirrors, &Snapmirror{
				Source:      rec.Get("source"),
				Destination: rec.Get("destination"),
				State:       rec.Get("state"),
				Lag:         rec.Get("lag"),
				Status:      rec.Get("status"),
			})
		}
		return mirrors, nil
	})
}

func (f *Filer) Snapmirror(ctx context.Context, destination string) (*Snapmirror, error) {
	mirrors, err := f.Snapmirrors(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range mirrors {
		if m.Destination == destination {
			return m, nil
		}
	}
	return nil, &NotFoundError{Kind: "snapmirror", Name: destination}
}
