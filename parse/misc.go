package parse

import "strings"

// Licenses parses `license` output:
//
//	                 cifs not licensed
//	                  nfs site ABCDEFG
//	            snapmirror site HIJKLMN
//
// Licensed services get service, type, and code fields; "not licensed" rows
// get only the service field, so the code stays absent rather than empty.
// Rows matching neither shape are skipped. The filer always reports its full
// service table, so zero records from non-blank output is a parse failure.
func Licenses(raw string) ([]*Record, error) {
	var recs []*Record
	for _, ln := range lines(raw) {
		fields := strings.Fields(ln)
		switch {
		case len(fields) == 3 && fields[1] == "not" && fields[2] == "licensed":
			rec := NewRecord()
			rec.Set("service", fields[0])
			recs = append(recs, rec)
		case len(fields) == 3:
			rec := NewRecord()
			rec.Set("service", fields[0])
			rec.Set("type", fields[1])
			rec.Set("code", fields[2])
			recs = append(recs, rec)
		}
	}
	if len(recs) == 0 && !isBlank(raw) {
		return nil, &Error{Kind: "license", Line: firstContent(raw)}
	}
	return recs, nil
}

// Options parses `options` key/value output:
//
//	autosupport.enable           on
//	nfs.tcp.enable               on         (value might be overwritten in takeover)
//
// The trailing parenthetical note some options carry is dropped.
func Options(raw string) ([]*Record, error) {
	var recs []*Record
	for _, ln := range lines(raw) {
		fields := strings.Fields(ln)
		if len(fields) < 2 || !strings.Contains(fields[0], ".") {
			continue
		}
		rec := NewRecord()
		rec.Set("name", fields[0])
		rec.Set("value", fields[1])
		recs = append(recs, rec)
	}
	if len(recs) == 0 && !isBlank(raw) {
		return nil, &Error{Kind: "option", Line: firstContent(raw)}
	}
	return recs, nil
}
