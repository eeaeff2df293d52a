package parse

import "testing"

func TestAggregates(t *testing.T) {
	t.Run("status table", func(t *testing.T) {
		// aggr status -v
		raw := `           Aggr State           Status            Options
          aggr0 online          raid_dp, aggr     root, diskroot, nosnap=off
          aggr1 offline         raid4, aggr       snapshot_autodelete=on
`
		recs, err := Aggregates(raw)
		if err != nil {
			t.Fatalf("Aggregates: %v", err)
		}
		if len(recs) != 2 {
			t.Fatalf("got %d records, want 2", len(recs))
		}

		r := recs[0]
		if r.Get("name") != "aggr0" || r.Get("state") != "online" {
			t.Errorf("name/state = %q/%q", r.Get("name"), r.Get("state"))
		}
		if r.Get("status") != "raid_dp, aggr" {
			t.Errorf("status = %q", r.Get("status"))
		}
		opts := r.List("options", ",")
		if len(opts) != 3 || opts[0] != "root" || opts[2] != "nosnap=off" {
			t.Errorf("options = %v", opts)
		}

		if recs[1].Get("state") != "offline" {
			t.Errorf("state = %q", recs[1].Get("state"))
		}
	})

	t.Run("garbage output fails", func(t *testing.T) {
		if _, err := Aggregates("aggr status: unexpected argument\n"); err == nil {
			t.Fatal("want parse error for recognizable-but-recordless output")
		}
	})

	t.Run("blank output is legal", func(t *testing.T) {
		recs, err := Aggregates("\n\n")
		if err != nil {
			t.Fatalf("Aggregates: %v", err)
		}
		if len(recs) != 0 {
			t.Errorf("got %d records, want 0", len(recs))
		}
	})
}

func TestVolumes(t *testing.T) {
	// vol status -v
	raw := `         Volume State           Status            Options
           vol0 online          raid_dp, flex     root, nosnap=off
                Containing aggregate: 'aggr0'
           vol1 restricted      raid_dp, flex     snapmirrored=on
                Containing aggregate: 'aggr1'
`
	recs, err := Volumes(raw)
	if err != nil {
		t.Fatalf("Volumes: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}

	if recs[0].Get("name") != "vol0" || recs[0].Get("aggregate") != "aggr0" {
		t.Errorf("vol0 record = name %q aggregate %q", recs[0].Get("name"), recs[0].Get("aggregate"))
	}
	if recs[1].Get("state") != "restricted" || recs[1].Get("aggregate") != "aggr1" {
		t.Errorf("vol1 record = state %q aggregate %q", recs[1].Get("state"), recs[1].Get("aggregate"))
	}
}

func TestQtrees(t *testing.T) {
	// qtree status vol0
	raw := `Volume   Tree     Style Oplocks  Status
-------- -------- ----- -------- ---------
vol0              unix  enabled  normal
vol0     qt1      ntfs  disabled normal
`
	recs, err := Qtrees(raw)
	if err != nil {
		t.Fatalf("Qtrees: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}

	root := recs[0]
	if root.Get("volume") != "vol0" || root.Has("tree") {
		t.Errorf("volume root row: volume %q, tree present %v", root.Get("volume"), root.Has("tree"))
	}
	if root.Get("style") != "unix" || root.Get("status") != "normal" {
		t.Errorf("root style/status = %q/%q", root.Get("style"), root.Get("status"))
	}

	qt := recs[1]
	if qt.Get("tree") != "qt1" || qt.Get("style") != "ntfs" || qt.Get("oplocks") != "disabled" {
		t.Errorf("qtree row = %q/%q/%q", qt.Get("tree"), qt.Get("style"), qt.Get("oplocks"))
	}
}

func TestRaidGroups(t *testing.T) {
	// aggr status -r aggr0
	raw := `Aggregate aggr0 (online, raid_dp) (block checksums)
  Plex /aggr0/plex0 (online, normal, active)
    RAID group /aggr0/plex0/rg0 (normal)

      RAID Disk Device  HA  SHELF BAY CHAN Pool Type  RPM   Used (MB/blks)    Phys (MB/blks)
      --------- ------  --- ----- --- ---- ---- ----  ----- ----------------  ----------------
      dparity   0a.16   0a  1     0   FC:A 0    FCAL  10000 136000/278528000  137104/280790184
      parity    0a.17   0a  1     1   FC:A 0    FCAL  10000 136000/278528000  137104/280790184
      data      0a.18   0a  1     2   FC:A 0    FCAL  10000 136000/278528000  137104/280790184
`
	recs, err := RaidGroups(raw)
	if err != nil {
		t.Fatalf("RaidGroups: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("got %d disk records, want 3", len(recs))
	}

	r := recs[0]
	if r.Get("aggregate") != "aggr0" || r.Get("plex") != "/aggr0/plex0" || r.Get("group") != "/aggr0/plex0/rg0" {
		t.Errorf("context = %q/%q/%q", r.Get("aggregate"), r.Get("plex"), r.Get("group"))
	}
	if r.Get("position") != "dparity" || r.Get("device") != "0a.16" {
		t.Errorf("position/device = %q/%q", r.Get("position"), r.Get("device"))
	}
	if r.Get("pool") != "0" || r.Get("type") != "FCAL" {
		t.Errorf("pool/type = %q/%q", r.Get("pool"), r.Get("type"))
	}
	if r.Get("used") != "136000/278528000" || r.Get("phys") != "137104/280790184" {
		t.Errorf("used/phys = %q/%q", r.Get("used"), r.Get("phys"))
	}
	if recs[2].Get("position") != "data" {
		t.Errorf("last position = %q", recs[2].Get("position"))
	}
}
