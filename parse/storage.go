package parse

import "strings"

// Aggregates parses `aggr status -v` output:
//
//	           Aggr State           Status            Options
//	          aggr0 online          raid_dp, aggr     root, diskroot
//
// Fields per record: name, state, status, options. The name and state are
// single tokens; status and options are column-aligned and may contain
// commas, so they split on the wider gap.
func Aggregates(raw string) ([]*Record, error) {
	recs := statusTable(raw, "Aggr", "name")
	if len(recs) == 0 && !isBlank(raw) {
		return nil, &Error{Kind: "aggregate", Line: firstContent(raw)}
	}
	return recs, nil
}

// Volumes parses `vol status -v` output, which shares the aggregate table
// shape plus `Containing aggregate: 'aggrN'` continuation lines.
func Volumes(raw string) ([]*Record, error) {
	recs := statusTable(raw, "Volume", "name")
	if len(recs) == 0 && !isBlank(raw) {
		return nil, &Error{Kind: "volume", Line: firstContent(raw)}
	}
	return recs, nil
}

func statusTable(raw, header, nameField string) []*Record {
	var recs []*Record
	for _, ln := range lines(raw) {
		trimmed := strings.TrimSpace(ln)
		if trimmed == "" {
			continue
		}

		// continuation line from -v output, attaches to the previous row
		if v, ok := strings.CutPrefix(trimmed, "Containing aggregate:"); ok {
			if len(recs) > 0 {
				recs[len(recs)-1].Set("aggregate", strings.Trim(strings.TrimSpace(v), "'"))
			}
			continue
		}

		fields := strings.Fields(trimmed)
		if len(fields) < 2 || fields[0] == header {
			continue
		}

		name, state := fields[0], fields[1]
		if !validState(state) {
			continue
		}

		rec := NewRecord()
		rec.Set(nameField, name)
		rec.Set("state", state)

		rest := trimmed[strings.Index(trimmed, state)+len(state):]
		cols := splitColumns(rest)
		if len(cols) > 0 {
			rec.Set("status", cols[0])
		}
		if len(cols) > 1 {
			rec.Set("options", strings.ReplaceAll(strings.Join(cols[1:], ", "), ", ", ","))
		}
		recs = append(recs, rec)
	}
	return recs
}

func validState(s string) bool {
	switch s {
	case "online", "offline", "restricted", "creating", "destroying", "failed", "partial":
		return true
	}
	return false
}

// Qtrees parses `qtree status` output:
//
//	Volume   Tree     Style Oplocks  Status
//	-------- -------- ----- -------- ---------
//	vol0              unix  enabled  normal
//	vol0     qt1      unix  enabled  normal
//
// The volume root row has an empty Tree column; its record carries no tree
// field at all, keeping absent distinct from empty.
func Qtrees(raw string) ([]*Record, error) {
	var recs []*Record
	for _, ln := range lines(raw) {
		cols := splitColumns(ln)
		if len(cols) < 4 || cols[0] == "Volume" || strings.HasPrefix(cols[0], "--") {
			continue
		}

		rec := NewRecord()
		rec.Set("volume", cols[0])
		if len(cols) >= 5 {
			rec.Set("tree", cols[1])
			cols = cols[2:]
		} else {
			cols = cols[1:]
		}
		rec.Set("style", cols[0])
		rec.Set("oplocks", cols[1])
		rec.Set("status", strings.Join(cols[2:], ", "))
		recs = append(recs, rec)
	}
	return recs, nil
}

// RaidGroups parses `aggr status -r` output into one record per disk, each
// carrying its enclosing aggregate, plex, and raid group:
//
//	Aggregate aggr0 (online, raid_dp) (block checksums)
//	  Plex /aggr0/plex0 (online, normal, active)
//	    RAID group /aggr0/plex0/rg0 (normal)
//
//	      RAID Disk Device  HA  SHELF BAY CHAN Pool Type  RPM  Used (MB/blks)    Phys (MB/blks)
//	      --------- ------  --- ----- --- ---- ---- ----  ---- ----------------  ----------------
//	      dparity   0a.16   0a  1     0   FC:A 0    FCAL  10000 136000/278528000 137104/280790184
func RaidGroups(raw string) ([]*Record, error) {
	var aggr, plex, group string
	var recs []*Record
	for _, ln := range lines(raw) {
		trimmed := strings.TrimSpace(ln)
		fields := strings.Fields(trimmed)

		switch {
		case strings.HasPrefix(trimmed, "Aggregate ") && len(fields) >= 2:
			aggr = fields[1]
		case strings.HasPrefix(trimmed, "Plex ") && len(fields) >= 2:
			plex = fields[1]
		case strings.HasPrefix(trimmed, "RAID group ") && len(fields) >= 3:
			group = fields[2]
		case isDiskPosition(trimmed) && len(fields) >= 8 && group != "":
			rec := NewRecord()
			rec.Set("aggregate", aggr)
			rec.Set("plex", plex)
			rec.Set("group", group)
			rec.Set("position", fields[0])
			rec.Set("device", fields[1])
			rec.Set("pool", fields[6])
			rec.Set("type", fields[7])
			if len(fields) >= 11 {
				rec.Set("used", fields[9])
				rec.Set("phys", fields[10])
			}
			recs = append(recs, rec)
		}
	}
	if len(recs) == 0 && !isBlank(raw) {
		return nil, &Error{Kind: "raidgroup", Line: firstContent(raw)}
	}
	return recs, nil
}

func isDiskPosition(line string) bool {
	for _, p := range []string{"dparity", "parity", "data", "spare"} {
		if strings.HasPrefix(line, p+" ") {
			return true
		}
	}
	return false
}
