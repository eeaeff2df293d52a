package filer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/filerops/filerctl/parse"
)

type Volume struct {
	f *Filer

	Name      string
	State     string
	Status    string
	Aggregate string
	Options   []string
}

// Qtree is a sub-volume tree. The volume root appears as a qtree with an
// empty Name.
type Qtree struct {
	Volume  string
	Name    string
	Style   string
	Oplocks string
	Status  string
}

func (f *Filer) Volumes(ctx context.Context) ([]*Volume, error) {
	return cached(f, "volume", "all", func() ([]*Volume, error) {
		out, err := f.run(ctx, "volume", "vol status -v")
		if err != nil {
			return nil, err
		}
		recs, err := parse.Volumes(out)
		if err != nil {
			return nil, err
		}
		vols := make([]*Volume, 0, len(recs))
		for _, rec := range recs {
			vols = append(vols, &Volume{
				f:         f,
				Name:      rec.Get("name"),
				State:     rec.Get("state"),
				Status:    rec.Get("status"),
				Aggregate: rec.Get("aggregate"),
				Options:   rec.List("options", ","),
			})
		}
		return vols, nil
	})
}

func (f *Filer) Volume(ctx context.Context, name string) (*Volume, error) {
	vols, err := f.Volumes(ctx)
	if err != nil {
		return nil, err
	}
	for _, v := range vols {
		if v.Name == name {
			return v, nil
		}
	}
	return nil, &NotFoundError{Kind: "volume", Name: name}
}

// CreateVolume issues `vol create`. Size uses the appliance's own suffix
// syntax (20g, 500m) and is passed through unvalidated.
func (f *Filer) CreateVolume(ctx context.Context, name, aggregate, size string) (*Volume, error) {
	cmd := fmt.Sprintf("vol create %s %s %s", name, aggregate, size)
	if _, err := f.run(ctx, "volume", cmd); err != nil {
		return nil, err
	}
	f.invalidate("volume", "aggregate")
	log.Info().Str("filer", f.cfg.Host).Str("volume", name).Str("aggregate", aggregate).Msg("volume created")
	return f.Volume(ctx, name)
}

func (f *Filer) DestroyVolume(ctx context.Context, name string) error {
	if _, err := f.run(ctx, "volume", "vol destroy "+name); err != nil {
		return err
	}
	f.invalidate("volume", "qtree", "export", "aggregate")
	log.Info().Str("filer", f.cfg.Host).Str("volume", name).Msg("volume destroyed")
	return nil
}

func (v *Volume) Offline(ctx context.Context) error {
	if _, err := v.f.run(ctx, "volume", "vol offline "+v.Name); err != nil {
		return err
	}
	v.f.invalidate("volume")
	return nil
}

func (v *Volume) Online(ctx context.Context) error {
	if _, err := v.f.run(ctx, "volume", "vol online "+v.Name); err != nil {
		return err
	}
	v.f.invalidate("volume")
	return nil
}

func (v *Volume) Refresh(ctx context.Context) (*Volume, error) {
	v.f.invalidate("volume")
	return v.f.Volume(ctx, v.Name)
}

func (v *Volume) Qtrees(ctx context.Context) ([]*Qtree, error) {
	return v.f.Qtrees(ctx, v.Name)
}

func (v *Volume) Snapshots(ctx context.Context) ([]*Snapshot, error) {
	return v.f.Snapshots(ctx, v.Name)
}

func (f *Filer) Qtrees(ctx context.Context, volume string) ([]*Qtree, error) {
	return cached(f, "qtree", volume, func() ([]*Qtree, error) {
		out, err := f.run(ctx, "qtree", "qtree status "+volume)
		if err != nil {
			return nil, err
		}
		recs, err := parse.Qtrees(out)
		if err != nil {
			return nil, err
		}
		qtrees := make([]*Qtree, 0, len(recs))
		for _, rec := range recs {
			qtrees = append(qtrees, &Qtree{
				Volume:  rec.Get("volume"),
				Name:    rec.Get("tree"),
				Style:   rec.Get("style"),
				Oplocks: rec.Get("oplocks"),
				Status:  rec.Get("status"),
			})
		}
		return qtrees, nil
	})
}

func (f *Filer) Qtree(ctx context.Context, volume, name string) (*Qtree, error) {
	qtrees, err := f.Qtrees(ctx, volume)
	if err != nil {
		return nil, err
	}
	for _, q := range qtrees {
		if q.Name == name {
			return q, nil
		}
	}
	return nil, &NotFoundError{Kind: "qtree", Name: volume + "/" + name}
}

func (f *Filer) CreateQtree(ctx context.Context, volume, name string) (*Qtree, error) {
	cmd := fmt.Sprintf("qtree create /vol/%s/%s", volume, name)
	if _, err := f.run(ctx, "qtree", cmd); err != nil {
		return nil, err
	}
	f.invalidate("qtree")
	log.Info().Str("filer", f.cfg.Host).Str("volume", volume).Str("qtree", name).Msg("qtree created")
	return f.Qtree(ctx, volume, name)
}
