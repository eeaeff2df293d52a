package parse

import "testing"

func TestRecordAbsentVsEmpty(t *testing.T) {
	rec := NewRecord()
	rec.Set("anon", "")

	if !rec.Has("anon") {
		t.Error("field set to empty string should be present")
	}
	if rec.Has("sec") {
		t.Error("never-set field should be absent")
	}
	if _, ok := rec.Lookup("sec"); ok {
		t.Error("Lookup on absent field should report !ok")
	}
	if v, ok := rec.Lookup("anon"); !ok || v != "" {
		t.Errorf("Lookup(anon) = (%q, %v), want (\"\", true)", v, ok)
	}
}

func TestRecordList(t *testing.T) {
	rec := NewRecord()
	rec.Set("rw", "host1:host2")
	rec.Set("root", "")

	if got := rec.List("rw", ":"); len(got) != 2 || got[0] != "host1" || got[1] != "host2" {
		t.Errorf("List(rw) = %v, want [host1 host2]", got)
	}
	if got := rec.List("root", ":"); got == nil || len(got) != 0 {
		t.Errorf("List on present-empty field = %v, want empty non-nil", got)
	}
	if got := rec.List("ro", ":"); got != nil {
		t.Errorf("List on absent field = %v, want nil", got)
	}
}

func TestRecordNamesOrdered(t *testing.T) {
	rec := NewRecord()
	rec.Set("path", "/vol/vol0")
	rec.Set("sec", "sys")
	rec.Set("anon", "0")
	rec.Set("sec", "krb5") // re-set must not duplicate the name

	want := []string{"path", "sec", "anon"}
	got := rec.Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if rec.Get("sec") != "krb5" {
		t.Errorf("re-set field = %q, want krb5", rec.Get("sec"))
	}
}

func TestRecordInt(t *testing.T) {
	rec := NewRecord()
	rec.Set("anon", "0")
	rec.Set("bad", "x")

	if n, ok := rec.Int("anon"); !ok || n != 0 {
		t.Errorf("Int(anon) = (%d, %v), want (0, true)", n, ok)
	}
	if _, ok := rec.Int("bad"); ok {
		t.Error("Int on non-numeric value should report !ok")
	}
	if _, ok := rec.Int("missing"); ok {
		t.Error("Int on absent field should report !ok")
	}
}
