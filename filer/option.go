package filer

import (
	"context"
	"fmt"

	"github.com/filerops/filerctl/parse"
)

type Option struct {
	Name  string
	Value string
}

func (f *Filer) Options(ctx context.Context) ([]*Option, error) {
	return cached(f, "option", "all", func() ([]*Option, error) {
		out, err := f.run(ctx, "option", "options")
		if err != nil {
			return nil, err
		}
		recs, err := parse.Options(out)
		if err != nil {
			return nil, err
		}
		opts := make([]*Option, 0, len(recs))
		for _, rec := range recs {
			opts = append(opts, &Option{Name: rec.Get("name"), Value: rec.Get("value")})
		}
		return opts, nil
	})
}

func (f *Filer) Option(ctx context.Context, name string) (*Option, error) {
	opts, err := f.Options(ctx)
	if err != nil {
		return nil, err
	}
	for _, o := range opts {
		if o.Name == name {
			return o, nil
		}
	}
	return nil, &NotFoundError{Kind: "option", Name: name}
}

func (f *Filer) SetOption(ctx context.Context, name, value string) error {
	if _, err := f.run(ctx, "option", fmt.Sprintf("options %s %s", name, value)); err != nil {
		return err
	}
	f.invalidate("option")
	return nil
}
