package filer

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/filerops/filerctl/parse"
)

// Aggregate is a snapshot of one aggregate's state. It does not stay live;
// call Refresh (or re-fetch) for current data.
type Aggregate struct {
	f *Filer

	Name    string
	State   string
	Status  string
	Options []string
}

type Disk struct {
	Position string
	Device   string
	Pool     string
	Type     string
	Used     string
	Phys     string
}

type RaidGroup struct {
	Name      string
	Plex      string
	Aggregate string
	Disks     []Disk
}

func (f *Filer) Aggregates(ctx context.Context) ([]*Aggregate, error) {
	return cached(f, "aggregate", "all", func() ([]*Aggregate, error) {
		out, err := f.run(ctx, "aggregate", "aggr status -v")
		if err != nil {
			return nil, err
		}
		recs, err := parse.Aggregates(out)
		if err != nil {
			return nil, err
		}
		aggrs := make([]*Aggregate, 0, len(recs))
		for _, rec := range recs {
			aggrs = append(aggrs, &Aggregate{
				f:       f,
				Name:    rec.Get("name"),
				State:   rec.Get("state"),
				Status:  rec.Get("status"),
				Options: rec.List("options", ","),
			})
		}
		return aggrs, nil
	})
}

func (f *Filer) Aggregate(ctx context.Context, name string) (*Aggregate, error) {
	aggrs, err := f.Aggregates(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range aggrs {
		if a.Name == name {
			return a, nil
		}
	}
	return nil, &NotFoundError{Kind: "aggregate", Name: name}
}

// CreateAggregate issues `aggr create` and returns the fresh aggregate.
// Disk sets serialize into the multi-group syntax; the appliance validates
// the layout, not this client.
func (f *Filer) CreateAggregate(ctx context.Context, req AggregateCreateRequest) (*Aggregate, error) {
	if _, err := f.run(ctx, "aggregate", req.command()); err != nil {
		return nil, err
	}
	f.invalidate("aggregate", "raidgroup")
	log.Info().Str("filer", f.cfg.Host).Str("aggregate", req.Name).Msg("aggregate created")
	return f.Aggregate(ctx, req.Name)
}

func (f *Filer) DestroyAggregate(ctx context.Context, name string) error {
	if _, err := f.run(ctx, "aggregate", "aggr destroy "+name); err != nil {
		return err
	}
	f.invalidate("aggregate", "raidgroup")
	log.Info().Str("filer", f.cfg.Host).Str("aggregate", name).Msg("aggregate destroyed")
	return nil
}

func (a *Aggregate) Offline(ctx context.Context) error {
	if _, err := a.f.run(ctx, "aggregate", "aggr offline "+a.Name); err != nil {
		return err
	}
	a.f.invalidate("aggregate")
	return nil
}

func (a *Aggregate) Online(ctx context.Context) error {
	if _, err := a.f.run(ctx, "aggregate", "aggr online "+a.Name); err != nil {
		return err
	}
	a.f.invalidate("aggregate")
	return nil
}

// Refresh re-fetches this aggregate, bypassing any cached copy.
func (a *Aggregate) Refresh(ctx context.Context) (*Aggregate, error) {
	a.f.invalidate("aggregate")
	return a.f.Aggregate(ctx, a.Name)
}

func (a *Aggregate) RaidGroups(ctx context.Context) ([]*RaidGroup, error) {
	return a.f.RaidGroups(ctx, a.Name)
}

// RaidGroups lists the raid layout of one aggregate, one group per plex
// raid group with its member disks in row order.
func (f *Filer) RaidGroups(ctx context.Context, aggregate string) ([]*RaidGroup, error) {
	return cached(f, "raidgroup", aggregate, func() ([]*RaidGroup, error) {
		out, err := f.run(ctx, "raidgroup", "aggr status -r "+aggregate)
		if err != nil {
			return nil, err
		}
		recs, err := parse.RaidGroups(out)
		if err != nil {
			return nil, err
		}

		var groups []*RaidGroup
		byName := map[string]*RaidGroup{}
		for _, rec := range recs {
			name := rec.Get("group")
			g := byName[name]
			if g == nil {
				g = &RaidGroup{
					Name:      name,
					Plex:      rec.Get("plex"),
					Aggregate: rec.Get("aggregate"),
				}
				byName[name] = g
				groups = append(groups, g)
			}
			g.Disks = append(g.Disks, Disk{
				Position: rec.Get("position"),
				Device:   rec.Get("device"),
				Pool:     rec.Get("pool"),
				Type:     rec.Get("type"),
				Used:     rec.Get("used"),
				Phys:     rec.Get("phys"),
			})
		}
		return groups, nil
	})
}
