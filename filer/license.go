package filer

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/filerops/filerctl/parse"
)

// License is one row of the filer's service license table. Unlicensed
// services still appear, with Licensed false and no code.
type License struct {
	Service  string
	Type     string
	Code     string
	Licensed bool
}

func (f *Filer) Licenses(ctx context.Context) ([]*License, error) {
	return cached(f, "license", "all", func() ([]*License, error) {
		out, err := f.run(ctx, "license", "license")
		if err != nil {
			return nil, err
		}
		recs, err := parse.Licenses(out)
		if err != nil {
			return nil, err
		}
		lics := make([]*License, 0, len(recs))
		for _, rec := range recs {
			lics = append(lics, &License{
				Service:  rec.Get("service"),
				Type:     rec.Get("type"),
				Code:     rec.Get("code"),
				Licensed: rec.Has("code"),
			})
		}
		return lics, nil
	})
}

func (f *Filer) License(ctx context.Context, service string) (*License, error) {
	lics, err := f.Licenses(ctx)
	if err != nil {
		return nil, err
	}
	for _, l := range lics {
		if l.Service == service {
			return l, nil
		}
	}
	return nil, &NotFoundError{Kind: "license", Name: service}
}

func (f *Filer) AddLicense(ctx context.Context, code string) error {
	if _, err := f.run(ctx, "license", "license add "+code); err != nil {
		return err
	}
	f.invalidate("license")
	log.Info().Str("filer", f.cfg.Host).Msg("license added")
	return nil
}

func (f *Filer) DeleteLicense(ctx context.Context, service string) error {
	if _, err := f.run(ctx, "license", "license delete "+service); err != nil {
		return err
	}
	f.invalidate("license")
	log.Info().Str("filer", f.cfg.Host).Str("service", service).Msg("license deleted")
	return nil
}
