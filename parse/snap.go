package parse

import (
	"regexp"
	"strings"
)

// snapLine matches one `snap list` row:
//
//	  0% ( 0%)    0% ( 0%)  Jan 19 00:01  hourly.0
var snapLine = regexp.MustCompile(`^\s*(\d+% \(\s*\d+%\))\s+(\d+% \(\s*\d+%\))\s+([A-Z][a-z]{2}\s+\d+\s+\d{2}:\d{2})\s+(\S+)\s*$`)

// Snapshots parses `snap list <vol>` output. The leading `Volume <name>`
// banner names the volume for every row; header and separator lines are
// skipped. A volume with no snapshots is an empty, legal result.
func Snapshots(raw string) ([]*Record, error) {
	var volume string
	var recs []*Record
	for _, ln := range lines(raw) {
		trimmed := strings.TrimSpace(ln)
		if v, ok := strings.CutPrefix(trimmed, "Volume "); ok {
			volume = strings.TrimSpace(v)
			continue
		}
		m := snapLine.FindStringSubmatch(ln)
		if m == nil {
			continue
		}
		rec := NewRecord()
		rec.Set("volume", volume)
		rec.Set("used", m[1])
		rec.Set("total", m[2])
		rec.Set("date", m[3])
		rec.Set("name", m[4])
		recs = append(recs, rec)
	}
	return recs, nil
}

// Schedule parses `snap sched <vol>` output:
//
//	Volume vol0: 0 2 6@8,12,16,20
//
// Fields: volume, weekly, daily, hourly (hourly keeps its @hour list).
func Schedule(raw string) ([]*Record, error) {
	var recs []*Record
	for _, ln := range lines(raw) {
		trimmed := strings.TrimSpace(ln)
		rest, ok := strings.CutPrefix(trimmed, "Volume ")
		if !ok {
			continue
		}
		name, sched, ok := strings.Cut(rest, ":")
		if !ok {
			continue
		}
		fields := strings.Fields(sched)
		if len(fields) < 3 {
			continue
		}
		rec := NewRecord()
		rec.Set("volume", strings.TrimSpace(name))
		rec.Set("weekly", fields[0])
		rec.Set("daily", fields[1])
		rec.Set("hourly", fields[2])
		recs = append(recs, rec)
	}
	if len(recs) == 0 && !isBlank(raw) {
		return nil, &Error{Kind: "schedule", Line: firstContent(raw)}
	}
	return recs, nil
}

// Snapmirrors parses `snapmirror status` output:
//
//	Snapmirror is on.
//	Source                Destination           State          Lag        Status
//	filer1:vol1           filer2:vol1           Snapmirrored   00:05:30   Idle
//
// A filer with no relationships legally yields zero records.
func Snapmirrors(raw string) ([]*Record, error) {
	var recs []*Record
	for _, ln := range lines(raw) {
		fields := strings.Fields(ln)
		if len(fields) < 5 || fields[0] == "Source" || !strings.Contains(fields[0], ":") {
			continue
		}
		rec := NewRecord()
		rec.Set("source", fields[0])
		rec.Set("destination", fields[1])
		rec.Set("state", fields[2])
		rec.Set("lag", fields[3])
		rec.Set("status", fields[4])
		recs = append(recs, rec)
	}
	return recs, nil
}
