// Package filer models one managed storage appliance as typed resources
// built from its command-line output. Reads go through a per-filer cache;
// writes go through per-resource update paths that issue the minimal
// corrective commands.
package filer

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/filerops/filerctl/cache"
	"github.com/filerops/filerctl/model"
	"github.com/filerops/filerctl/transport"
)

// Filer drives one appliance. It owns the transport session and the read
// cache; resources hold a non-owning back-reference to it for round-trips.
type Filer struct {
	cfg   model.FilerConfig
	tr    transport.Transport
	cache *cache.Store
}

// New validates the configuration, opens the transport session, and returns
// a ready Filer. Configuration problems (missing host, unreadable identity
// file, failed login) surface here, not on the first accessor call.
func New(cfg model.FilerConfig) (*Filer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var tr transport.Transport
	var err error
	switch cfg.Protocol {
	case model.ProtocolTelnet:
		tr, err = transport.NewTelnet(cfg)
	default:
		tr, err = transport.NewSSH(cfg)
	}
	if err != nil {
		return nil, err
	}

	log.Info().Str("filer", cfg.Host).Str("protocol", cfg.Protocol).Msg("filer session opened")
	return NewWithTransport(cfg, tr), nil
}

// NewWithTransport wires a Filer over an existing transport. Tests use this
// with transport.Mock.
func NewWithTransport(cfg model.FilerConfig, tr transport.Transport) *Filer {
	return &Filer{
		cfg:   cfg,
		tr:    tr,
		cache: cache.New(cfg.CacheEnabled, cfg.CacheTTL),
	}
}

func (f *Filer) Host() string { return f.cfg.Host }

func (f *Filer) Close() error {
	f.cache.Purge()
	return f.tr.Close()
}

// Version runs the filer's version banner command; the agent uses it as a
// liveness probe.
func (f *Filer) Version(ctx context.Context) (string, error) {
	out, err := f.run(ctx, "system", "version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.SplitN(out, "\n", 2)[0]), nil
}

// cached routes a read accessor through the filer's cache under the given
// resource kind and argument key.
func cached[T any](f *Filer, kind, key string, compute func() (T, error)) (T, error) {
	return cache.GetOrCompute(f.cache, kind, key, compute)
}

// invalidate drops cached reads for the given resource kinds after a
// successful mutation, before any caller can re-read.
func (f *Filer) invalidate(kinds ...string) {
	f.cache.Invalidate(kinds...)
}
