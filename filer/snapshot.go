package filer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/filerops/filerctl/parse"
)

type Snapshot struct {
	Volume string
	Name   string
	Date   string
	Used   string
	Total  string
}

// Schedule is a volume's automatic snapshot schedule. Hourly keeps the
// appliance's count@hours form (e.g. "6@8,12,16,20").
type Schedule struct {
	Volume string
	Weekly string
	Daily  string
	Hourly string
}

func (f *Filer) Snapshots(ctx context.Context, volume string) ([]*Snapshot, error) {
	return cached(f, "snapshot", volume, func() ([]*Snapshot, error) {
		out, err := f.run(ctx, "snapshot", "snap list "+volume)
		if err != nil {
			return nil, err
		}
		recs, err := parse.Snapshots(out)
		if err != nil {
			return nil, err
		}
		snaps := make([]*Snapshot, 0, len(recs))
		for _, rec := range recs {
			snaps = append(snaps, &Snapshot{
				Volume: rec.Get("volume"),
				Name:   rec.Get("name"),
				Date:   rec.Get("date"),
				Used:   rec.Get("used"),
				Total:  rec.Get("total"),
			})
		}
		return snaps, nil
	})
}

func (f *Filer) Snapshot(ctx context.Context, volume, name string) (*Snapshot, error) {
	snaps, err := f.Snapshots(ctx, volume)
	if err != nil {
		return nil, err
	}
	for _, s := range snaps {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, &NotFoundError{Kind: "snapshot", Name: volume + ":" + name}
}

func (f *Filer) CreateSnapshot(ctx context.Context, volume, name string) (*Snapshot, error) {
	cmd := fmt.Sprintf("snap create %s %s", volume, name)
	if _, err := f.run(ctx, "snapshot", cmd); err != nil {
		return nil, err
	}
	f.invalidate("snapshot")
	log.Info().Str("filer", f.cfg.Host).Str("volume", volume).Str("snapshot", name).Msg("snapshot created")
	return f.Snapshot(ctx, volume, name)
}

func (f *Filer) DeleteSnapshot(ctx context.Context, volume, name string) error {
	cmd := fmt.Sprintf("snap delete %s %s", volume, name)
	if _, err := f.run(ctx, "snapshot", cmd); err != nil {
		return err
	}
	f.invalidate("snapshot")
	log.Info().Str("filer", f.cfg.Host).Str("volume", volume).Str("snapshot", name).Msg("snapshot deleted")
	return nil
}

func (f *Filer) Schedule(ctx context.Context, volume string) (*Schedule, error) {
	return cached(f, "schedule", volume, func() (*Schedule, error) {
		out, err := f.run(ctx, "schedule", "snap sched "+volume)
		if err != nil {
			return nil, err
		}
		recs, err := parse.Schedule(out)
		if err != nil {
			return nil, err
		}
		if len(recs) == 0 {
			// blank output parses cleanly to zero records
			return nil, &NotFoundError{Kind: "schedule", Name: volume}
		}
		rec := recs[0]
		return &Schedule{
			Volume: rec.Get("volume"),
			Weekly: rec.Get("weekly"),
			Daily:  rec.Get("daily"),
			Hourly: rec.Get("hourly"),
		}, nil
	})
}

func (f *Filer) SetSchedule(ctx context.Context, volume, weekly, daily, hourly string) error {
	cmd := fmt.Sprintf("snap sched %s %s %s %s", volume, weekly, daily, hourly)
	if _, err := f.run(ctx, "schedule", cmd); err != nil {
		return err
	}
	f.invalidate("schedule")
	return nil
}
