package filer

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/filerops/filerctl/parse"
)

const exportsFile = "/etc/exports"

// liveExportRecords lists the live export table (`exportfs`).
func (f *Filer) liveExportRecords(ctx context.Context) ([]*parse.Record, error) {
	return cached(f, "export", "live", func() ([]*parse.Record, error) {
		out, err := f.run(ctx, "export", "exportfs")
		if err != nil {
			return nil, err
		}
		return parse.Exports(out)
	})
}

// permanentExportRecords lists the persisted exports file.
func (f *Filer) permanentExportRecords(ctx context.Context) ([]*parse.Record, error) {
	return cached(f, "export", "permanent", func() ([]*parse.Record, error) {
		out, err := f.run(ctx, "export", "rdfile "+exportsFile)
		if err != nil {
			return nil, err
		}
		return parse.Exports(out)
	})
}

// Exports returns every export the filer knows about, as a pure partition
// over the persisted and live record sets keyed by path:
//
//   - persisted, live entry identical:  one permanent active export
//   - persisted, no live entry:         one permanent inactive export
//   - persisted, live entry diverged:   a permanent inactive instance and a
//     temporary active instance sharing the path
//   - live only:                        one temporary active export
func (f *Filer) Exports(ctx context.Context) ([]*Export, error) {
	perm, err := f.permanentExportRecords(ctx)
	if err != nil {
		return nil, err
	}
	live, err := f.liveExportRecords(ctx)
	if err != nil {
		return nil, err
	}
	return partitionExports(f, perm, live), nil
}

func partitionExports(f *Filer, perm, live []*parse.Record) []*Export {
	liveByPath := map[string]*parse.Record{}
	for _, rec := range live {
		if _, ok := liveByPath[rec.Get("path")]; !ok {
			liveByPath[rec.Get("path")] = rec
		}
	}

	var exports []*Export
	inPerm := map[string]bool{}
	for _, rec := range perm {
		path := rec.Get("path")
		inPerm[path] = true
		attrs := attrsFromRecord(rec)

		l, liveExists := liveByPath[path]
		if liveExists && attrs.Equal(attrsFromRecord(l)) {
			exports = append(exports, newExport(f, path, ExportPermanent, true, attrs))
			continue
		}
		exports = append(exports, newExport(f, path, ExportPermanent, false, attrs))
		if liveExists {
			exports = append(exports, newExport(f, path, ExportTemporary, true, attrsFromRecord(l)))
		}
	}
	for _, rec := range live {
		path := rec.Get("path")
		if inPerm[path] {
			continue
		}
		inPerm[path] = true
		exports = append(exports, newExport(f, path, ExportTemporary, true, attrsFromRecord(rec)))
	}
	return exports
}

// Export returns the export for a path. When a diverged path is represented
// by two instances, the live one wins; the permanent instance remains
// reachable through Exports or InactiveExports.
func (f *Filer) Export(ctx context.Context, path string) (*Export, error) {
	exports, err := f.Exports(ctx)
	if err != nil {
		return nil, err
	}
	var found *Export
	for _, e := range exports {
		if e.path != path {
			continue
		}
		if e.active {
			return e, nil
		}
		found = e
	}
	if found == nil {
		return nil, &NotFoundError{Kind: "export", Name: path}
	}
	return found, nil
}

func (f *Filer) PermanentExports(ctx context.Context) ([]*Export, error) {
	return f.filterExports(ctx, func(e *Export) bool { return e.typ == ExportPermanent })
}

func (f *Filer) TemporaryExports(ctx context.Context) ([]*Export, error) {
	return f.filterExports(ctx, func(e *Export) bool { return e.typ == ExportTemporary })
}

func (f *Filer) ActiveExports(ctx context.Context) ([]*Export, error) {
	return f.filterExports(ctx, func(e *Export) bool { return e.active })
}

// InactiveExports lists persisted exports with no identical live
// counterpart.
func (f *Filer) InactiveExports(ctx context.Context) ([]*Export, error) {
	return f.filterExports(ctx, func(e *Export) bool { return !e.active })
}

func (f *Filer) filterExports(ctx context.Context, keep func(*Export) bool) ([]*Export, error) {
	exports, err := f.Exports(ctx)
	if err != nil {
		return nil, err
	}
	var out []*Export
	for _, e := range exports {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

// CreateExport exports a path with the given options, persisting it when
// persist is set. The returned object carries the applied attrs as both
// desired and last-applied state.
func (f *Filer) CreateExport(ctx context.Context, path string, attrs ExportAttrs, persist bool) (*Export, error) {
	typ := ExportTemporary
	flag := "-io"
	if persist {
		typ = ExportPermanent
		flag = "-p"
	}
	if _, err := f.run(ctx, "export", exportfsCommand(flag, attrs, path)); err != nil {
		return nil, err
	}
	f.invalidate("export")
	log.Info().Str("filer", f.cfg.Host).Str("path", path).Str("type", string(typ)).Msg("export created")
	return newExport(f, path, typ, true, attrs), nil
}

func exportfsCommand(flag string, attrs ExportAttrs, path string) string {
	opts := attrs.options()
	if opts == "" {
		// no options: drop the -o
		if flag == "-io" {
			return "exportfs -i " + path
		}
		return "exportfs " + flag + " " + path
	}
	return "exportfs " + flag + " " + opts + " " + path
}

// Update reconciles the filer's live state for this path against the
// in-memory desired attributes. Equal states issue no command; anything
// else issues one re-export carrying the full option set, since the
// appliance replaces an export's options atomically rather than patching
// individual flags. Update never changes the export's type: materializing a
// temporary export does not persist it, that is Persist's job.
//
// On failure nothing is committed: the last-applied snapshot is unchanged,
// so a retry recomputes the same diff.
func (e *Export) Update(ctx context.Context) error {
	live, err := e.f.liveExportRecords(ctx)
	if err != nil {
		return err
	}
	if _, err := e.f.permanentExportRecords(ctx); err != nil {
		return err
	}

	for _, rec := range live {
		if rec.Get("path") != e.path {
			continue
		}
		if attrsFromRecord(rec).Equal(e.attrs) {
			applied := e.attrs.clone()
			e.applied = &applied
			e.active = true
			return nil
		}
		break
	}

	if _, err := e.f.run(ctx, "export", exportfsCommand("-io", e.attrs, e.path)); err != nil {
		return err
	}

	applied := e.attrs.clone()
	e.applied = &applied
	e.active = true
	e.f.invalidate("export")
	log.Info().Str("filer", e.f.cfg.Host).Str("path", e.path).Msg("export updated")
	return nil
}

// Persist writes the current desired attributes to the persisted exports
// file (and the live table with it). This is the explicit promotion path; a
// temporary export never auto-promotes no matter how closely it matches
// what would be persisted.
func (e *Export) Persist(ctx context.Context) error {
	if _, err := e.f.run(ctx, "export", exportfsCommand("-p", e.attrs, e.path)); err != nil {
		return err
	}
	applied := e.attrs.clone()
	e.applied = &applied
	e.typ = ExportPermanent
	e.active = true
	e.f.invalidate("export")
	log.Info().Str("filer", e.f.cfg.Host).Str("path", e.path).Msg("export persisted")
	return nil
}

// Remove unexports the path: permanent exports are removed from the
// persisted file and the live table, temporary ones from the live table
// only.
func (e *Export) Remove(ctx context.Context) error {
	cmd := "exportfs -u " + e.path
	if e.typ == ExportPermanent {
		cmd = "exportfs -z " + e.path
	}
	if _, err := e.f.run(ctx, "export", cmd); err != nil {
		return err
	}
	e.active = false
	e.applied = nil
	e.f.invalidate("export")
	log.Info().Str("filer", e.f.cfg.Host).Str("path", e.path).Msg("export removed")
	return nil
}
