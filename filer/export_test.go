package filer

import (
	"testing"
)

func anon(uid int) *int { return &uid }

func TestExportAttrsEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b ExportAttrs
		want bool
	}{
		{
			name: "zero values",
			want: true,
		},
		{
			name: "sec order ignored",
			a:    ExportAttrs{Sec: []string{"sys", "krb5"}},
			b:    ExportAttrs{Sec: []string{"krb5", "sys"}},
			want: true,
		},
		{
			name: "host list order matters",
			a:    ExportAttrs{RW: []string{"h1", "h2"}},
			b:    ExportAttrs{RW: []string{"h2", "h1"}},
			want: false,
		},
		{
			name: "anon zero vs unset",
			a:    ExportAttrs{Anon: anon(0)},
			b:    ExportAttrs{},
			want: false,
		},
		{
			name: "anon same value",
			a:    ExportAttrs{Anon: anon(0)},
			b:    ExportAttrs{Anon: anon(0)},
			want: true,
		},
		{
			name: "rw_all subsumes host list",
			a:    ExportAttrs{RWAll: true, RW: []string{"h1"}},
			b:    ExportAttrs{RWAll: true},
			want: true,
		},
		{
			name: "rw_all vs explicit list",
			a:    ExportAttrs{RWAll: true},
			b:    ExportAttrs{RW: []string{"h1"}},
			want: false,
		},
		{
			name: "nosuid differs",
			a:    ExportAttrs{Nosuid: true},
			b:    ExportAttrs{},
			want: false,
		},
		{
			name: "actual differs",
			a:    ExportAttrs{Actual: "/vol/vol1/tree"},
			b:    ExportAttrs{},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
			// symmetric
			if got := tt.b.Equal(tt.a); got != tt.want {
				t.Errorf("reverse Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExportAttrsOptions(t *testing.T) {
	a := ExportAttrs{
		Actual: "/vol/vol1/tree",
		Anon:   anon(0),
		Nosuid: true,
		Sec:    []string{"sys", "krb5"},
		Root:   []string{"adm"},
		RW:     []string{"h1", "h2"},
		ROAll:  true,
	}
	want := "actual=/vol/vol1/tree,anon=0,nosuid,sec=sys:krb5,root=adm,rw=h1:h2,ro"
	if got := a.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	if got := (ExportAttrs{}).String(); got != "" {
		t.Errorf("zero attrs String() = %q, want empty", got)
	}
}

func TestExportMutatorExclusivity(t *testing.T) {
	e := newExport(nil, "/vol/vol0", ExportTemporary, false, ExportAttrs{})

	e.SetReadOnlyHosts([]string{"h1", "h2"})
	e.SetReadOnlyAll(true)
	if hosts := e.ReadOnlyHosts(); len(hosts) != 0 {
		t.Errorf("ReadOnlyHosts after SetReadOnlyAll = %v, want none", hosts)
	}
	if e.HasReadOnlyHost("h1") {
		t.Error("HasReadOnlyHost must be false while ReadOnlyAll is set")
	}

	// adding a host while *_all is set is a no-op
	e.AddReadOnlyHost("h3")
	if !e.ReadOnlyAll() {
		t.Error("ReadOnlyAll dropped by AddReadOnlyHost")
	}
	if len(e.Attrs().RO) != 0 {
		t.Errorf("RO = %v, want empty", e.Attrs().RO)
	}

	// an explicit list turns *_all back off
	e.SetReadOnlyHosts([]string{"h4"})
	if e.ReadOnlyAll() {
		t.Error("ReadOnlyAll must clear when an explicit list is set")
	}
	if !e.HasReadOnlyHost("h4") {
		t.Error("host list lost")
	}

	e.SetReadWriteAll(true).SetReadWriteHosts([]string{"h5"})
	if e.ReadWriteAll() {
		t.Error("ReadWriteAll must clear when an explicit list is set")
	}
}

func TestExportMutatorsAreDesiredStateOnly(t *testing.T) {
	e := newExport(nil, "/vol/vol0", ExportPermanent, true, ExportAttrs{RW: []string{"h1"}})

	e.SetAnon(0).AddRootHost("adm").SetNosuid(true)

	applied, ok := e.LastApplied()
	if !ok {
		t.Fatal("active export should carry a last-applied snapshot")
	}
	if applied.Anon != nil || applied.Nosuid || len(applied.Root) != 0 {
		t.Errorf("mutators leaked into last-applied: %+v", applied)
	}
	if got, set := e.Anon(); !set || got != 0 {
		t.Errorf("Anon() = (%d, %v), want (0, true)", got, set)
	}
}

func TestCompareIgnoresIdentity(t *testing.T) {
	attrs := ExportAttrs{RW: []string{"h1"}, Sec: []string{"sys"}}
	a := newExport(nil, "/vol/vol0", ExportPermanent, false, attrs)
	b := newExport(nil, "/vol/vol1", ExportTemporary, true, attrs)

	if !Compare(a, b) {
		t.Error("Compare must ignore path, type, and active")
	}

	b.SetAnon(0)
	if Compare(a, b) {
		t.Error("Compare must see attr changes")
	}
}
