package parse

import "strings"

// Exports parses export table lines, the shared format of the persisted
// exports file and the live `exportfs` listing:
//
//	/vol/vol0        -sec=sys,rw=host1:host2,root=adm,anon=0,nosuid
//	/vol/vol1/qt     -actual=/vol/vol1/qtree,ro
//
// Fields per record: path, and per present option one of
// actual, anon, nosuid, sec, root, ro/ro_all, rw/rw_all. An option flag
// given without a value (ro, rw) marks the *_all variant; `anon=0` and a
// missing anon stay distinguishable because absent fields are never set.
// Empty output is legal (a filer can have no exports); comment and
// unrecognizable lines are skipped.
func Exports(raw string) ([]*Record, error) {
	var recs []*Record
	for _, ln := range lines(raw) {
		ln = strings.TrimSpace(ln)
		if ln == "" || strings.HasPrefix(ln, "#") || !strings.HasPrefix(ln, "/") {
			continue
		}

		fields := strings.Fields(ln)
		rec := NewRecord()
		rec.Set("path", fields[0])
		if len(fields) > 1 {
			parseExportOpts(rec, strings.TrimPrefix(fields[1], "-"))
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func parseExportOpts(rec *Record, opts string) {
	for _, opt := range strings.Split(opts, ",") {
		name, value, hasValue := strings.Cut(opt, "=")
		switch name {
		case "actual", "anon":
			rec.Set(name, value)
		case "sec", "root":
			rec.Set(name, value)
		case "ro", "rw":
			if hasValue {
				rec.Set(name, value)
			} else {
				rec.Set(name+"_all", "true")
			}
		case "nosuid":
			rec.Set("nosuid", "true")
		}
	}
}
