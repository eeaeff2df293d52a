package parse

import "testing"

func TestExports(t *testing.T) {
	t.Run("full option set", func(t *testing.T) {
		// /etc/exports as written by exportfs -p
		raw := `#Auto-generated by setup Tue Jan 19 10:11:12 GMT 2021
/vol/vol0	-sec=sys,rw=host1:host2,root=admhost,anon=0,nosuid
/vol/vol1	-actual=/vol/vol1/tree,ro
`
		recs, err := Exports(raw)
		if err != nil {
			t.Fatalf("Exports: %v", err)
		}
		if len(recs) != 2 {
			t.Fatalf("got %d records, want 2", len(recs))
		}

		r := recs[0]
		if r.Get("path") != "/vol/vol0" {
			t.Errorf("path = %q", r.Get("path"))
		}
		if got := r.List("rw", ":"); len(got) != 2 || got[0] != "host1" {
			t.Errorf("rw = %v", got)
		}
		if got := r.List("root", ":"); len(got) != 1 || got[0] != "admhost" {
			t.Errorf("root = %v", got)
		}
		if n, ok := r.Int("anon"); !ok || n != 0 {
			t.Errorf("anon = (%d, %v), want (0, true)", n, ok)
		}
		if !r.Has("nosuid") {
			t.Error("nosuid flag missing")
		}
		if r.Has("rw_all") || r.Has("ro_all") {
			t.Error("valued rw/ro must not set the _all variant")
		}

		r = recs[1]
		if r.Get("actual") != "/vol/vol1/tree" {
			t.Errorf("actual = %q", r.Get("actual"))
		}
		if !r.Has("ro_all") {
			t.Error("bare ro should set ro_all")
		}
		if r.Has("ro") {
			t.Error("bare ro must not set a host list")
		}
		if r.Has("anon") {
			t.Error("anon must stay absent when not given")
		}
	})

	t.Run("empty output is legal", func(t *testing.T) {
		recs, err := Exports("")
		if err != nil {
			t.Fatalf("Exports: %v", err)
		}
		if len(recs) != 0 {
			t.Errorf("got %d records, want 0", len(recs))
		}
	})

	t.Run("bare path exports everything", func(t *testing.T) {
		recs, err := Exports("/vol/scratch\n")
		if err != nil {
			t.Fatalf("Exports: %v", err)
		}
		if len(recs) != 1 {
			t.Fatalf("got %d records, want 1", len(recs))
		}
		if recs[0].Get("path") != "/vol/scratch" {
			t.Errorf("path = %q", recs[0].Get("path"))
		}
		if len(recs[0].Names()) != 1 {
			t.Errorf("bare path should carry only the path field, got %v", recs[0].Names())
		}
	})

	t.Run("noise lines skipped", func(t *testing.T) {
		raw := "exportfs: loading /etc/exports\n/vol/vol0\t-rw=h1\n"
		recs, err := Exports(raw)
		if err != nil {
			t.Fatalf("Exports: %v", err)
		}
		if len(recs) != 1 {
			t.Errorf("got %d records, want 1", len(recs))
		}
	})
}
