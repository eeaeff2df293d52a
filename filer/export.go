package filer

import (
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/filerops/filerctl/parse"
)

type ExportType string

const (
	// ExportPermanent lives in the persisted exports file. It may or may
	// not have a live counterpart.
	ExportPermanent ExportType = "permanent"
	// ExportTemporary exists only in the live export table and is always
	// active.
	ExportTemporary ExportType = "temporary"
)

// ExportAttrs is the option set of one export entry. Anon distinguishes
// unset (nil) from anon=0. Root, RO and RW are ordered host lists; Sec is a
// set of security flavors.
type ExportAttrs struct {
	Actual string
	Nosuid bool
	Anon   *int
	Sec    []string
	Root   []string
	ROAll  bool
	RO     []string
	RWAll  bool
	RW     []string
}

// Equal compares the reconciliation field set: actual, nosuid, anon, sec,
// root, ro/ro_all, rw/rw_all. Path, type, and active are deliberately
// outside the comparison.
func (a ExportAttrs) Equal(b ExportAttrs) bool {
	if a.Actual != b.Actual || a.Nosuid != b.Nosuid {
		return false
	}
	if (a.Anon == nil) != (b.Anon == nil) {
		return false
	}
	if a.Anon != nil && *a.Anon != *b.Anon {
		return false
	}
	if !flavorsEqual(a.Sec, b.Sec) {
		return false
	}
	if !slices.Equal(a.Root, b.Root) {
		return false
	}
	if a.ROAll != b.ROAll || a.RWAll != b.RWAll {
		return false
	}
	// *_all subsumes the host list, so lists only matter when it is off
	if !a.ROAll && !slices.Equal(a.RO, b.RO) {
		return false
	}
	if !a.RWAll && !slices.Equal(a.RW, b.RW) {
		return false
	}
	return true
}

// flavorsEqual treats sec as a set: order does not matter.
func flavorsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := slices.Clone(a)
	bs := slices.Clone(b)
	sort.Strings(as)
	sort.Strings(bs)
	return slices.Equal(as, bs)
}

func (a ExportAttrs) clone() ExportAttrs {
	c := a
	if a.Anon != nil {
		v := *a.Anon
		c.Anon = &v
	}
	c.Sec = slices.Clone(a.Sec)
	c.Root = slices.Clone(a.Root)
	c.RO = slices.Clone(a.RO)
	c.RW = slices.Clone(a.RW)
	return c
}

// options serializes the attrs into the appliance's comma option list in a
// fixed order, so identical attrs always produce identical command lines.
func (a ExportAttrs) options() string {
	var opts []string
	if a.Actual != "" {
		opts = append(opts, "actual="+a.Actual)
	}
	if a.Anon != nil {
		opts = append(opts, "anon="+strconv.Itoa(*a.Anon))
	}
	if a.Nosuid {
		opts = append(opts, "nosuid")
	}
	if len(a.Sec) > 0 {
		opts = append(opts, "sec="+strings.Join(a.Sec, ":"))
	}
	if len(a.Root) > 0 {
		opts = append(opts, "root="+strings.Join(a.Root, ":"))
	}
	switch {
	case a.RWAll:
		opts = append(opts, "rw")
	case len(a.RW) > 0:
		opts = append(opts, "rw="+strings.Join(a.RW, ":"))
	}
	switch {
	case a.ROAll:
		opts = append(opts, "ro")
	case len(a.RO) > 0:
		opts = append(opts, "ro="+strings.Join(a.RO, ":"))
	}
	return strings.Join(opts, ",")
}

// String renders the attrs the way the appliance prints them.
func (a ExportAttrs) String() string { return a.options() }

func attrsFromRecord(rec *parse.Record) ExportAttrs {
	a := ExportAttrs{
		Actual: rec.Get("actual"),
		Nosuid: rec.Has("nosuid"),
		Sec:    rec.List("sec", ":"),
		Root:   rec.List("root", ":"),
		ROAll:  rec.Has("ro_all"),
		RO:     rec.List("ro", ":"),
		RWAll:  rec.Has("rw_all"),
		RW:     rec.List("rw", ":"),
	}
	if v, ok := rec.Int("anon"); ok {
		a.Anon = &v
	}
	return a
}

// Export is one export entry. A path can be represented by two coexisting
// instances when its persisted and live forms have diverged: one
// permanent/inactive and one temporary/active. Mutators touch only the
// in-memory desired state; Update is the single write path.
type Export struct {
	f *Filer

	path    string
	typ     ExportType
	active  bool
	attrs   ExportAttrs
	applied *ExportAttrs
}

func newExport(f *Filer, path string, typ ExportType, active bool, attrs ExportAttrs) *Export {
	e := &Export{f: f, path: path, typ: typ, active: active, attrs: attrs.clone()}
	if active {
		applied := attrs.clone()
		e.applied = &applied
	}
	return e
}

func (e *Export) Path() string     { return e.path }
func (e *Export) Type() ExportType { return e.typ }
func (e *Export) Active() bool     { return e.active }
func (e *Export) Actual() string   { return e.attrs.Actual }
func (e *Export) Nosuid() bool     { return e.attrs.Nosuid }

// Anon returns the anonymous uid mapping and whether it is set at all;
// anon=0 and anon unset are different terminal values.
func (e *Export) Anon() (int, bool) {
	if e.attrs.Anon == nil {
		return 0, false
	}
	return *e.attrs.Anon, true
}

func (e *Export) SecFlavors() []string { return slices.Clone(e.attrs.Sec) }
func (e *Export) RootHosts() []string  { return slices.Clone(e.attrs.Root) }
func (e *Export) ReadOnlyAll() bool    { return e.attrs.ROAll }
func (e *Export) ReadWriteAll() bool   { return e.attrs.RWAll }

// ReadOnlyHosts yields an empty sequence whenever ReadOnlyAll is set.
func (e *Export) ReadOnlyHosts() []string {
	if e.attrs.ROAll {
		return nil
	}
	return slices.Clone(e.attrs.RO)
}

func (e *Export) ReadWriteHosts() []string {
	if e.attrs.RWAll {
		return nil
	}
	return slices.Clone(e.attrs.RW)
}

// Attrs returns a copy of the desired attribute state.
func (e *Export) Attrs() ExportAttrs { return e.attrs.clone() }

// LastApplied returns the last attribute set known to be applied on the
// filer, if any.
func (e *Export) LastApplied() (ExportAttrs, bool) {
	if e.applied == nil {
		return ExportAttrs{}, false
	}
	return e.applied.clone(), true
}

// Compare reports whether two exports are equal over the reconciliation
// field set, ignoring path, type, and active.
func Compare(a, b *Export) bool { return a.attrs.Equal(b.attrs) }

// --- Mutators: desired state only, never a filer round-trip ---

func (e *Export) SetActual(path string) *Export {
	e.attrs.Actual = path
	return e
}

func (e *Export) SetNosuid(v bool) *Export {
	e.attrs.Nosuid = v
	return e
}

func (e *Export) SetAnon(uid int) *Export {
	e.attrs.Anon = &uid
	return e
}

func (e *Export) ClearAnon() *Export {
	e.attrs.Anon = nil
	return e
}

func (e *Export) SetSecFlavors(flavors []string) *Export {
	e.attrs.Sec = slices.Clone(flavors)
	return e
}

func (e *Export) AddSecFlavor(flavor string) *Export {
	if !slices.Contains(e.attrs.Sec, flavor) {
		e.attrs.Sec = append(e.attrs.Sec, flavor)
	}
	return e
}

func (e *Export) RemoveSecFlavor(flavor string) *Export {
	e.attrs.Sec = slices.DeleteFunc(e.attrs.Sec, func(s string) bool { return s == flavor })
	return e
}

func (e *Export) HasSecFlavor(flavor string) bool {
	return slices.Contains(e.attrs.Sec, flavor)
}

func (e *Export) SetRootHosts(hosts []string) *Export {
	e.attrs.Root = slices.Clone(hosts)
	return e
}

func (e *Export) AddRootHost(host string) *Export {
	if !slices.Contains(e.attrs.Root, host) {
		e.attrs.Root = append(e.attrs.Root, host)
	}
	return e
}

func (e *Export) RemoveRootHost(host string) *Export {
	e.attrs.Root = slices.DeleteFunc(e.attrs.Root, func(s string) bool { return s == host })
	return e
}

func (e *Export) HasRootHost(host string) bool {
	return slices.Contains(e.attrs.Root, host)
}

// SetReadOnlyAll(true) forces the read-only host list empty; turning it
// back off does not restore the list.
func (e *Export) SetReadOnlyAll(v bool) *Export {
	e.attrs.ROAll = v
	if v {
		e.attrs.RO = nil
	}
	return e
}

// SetReadOnlyHosts sets an explicit host list and therefore clears
// ReadOnlyAll.
func (e *Export) SetReadOnlyHosts(hosts []string) *Export {
	e.attrs.ROAll = false
	e.attrs.RO = slices.Clone(hosts)
	return e
}

// AddReadOnlyHost is a no-op while ReadOnlyAll is set.
func (e *Export) AddReadOnlyHost(host string) *Export {
	if e.attrs.ROAll {
		return e
	}
	if !slices.Contains(e.attrs.RO, host) {
		e.attrs.RO = append(e.attrs.RO, host)
	}
	return e
}

func (e *Export) RemoveReadOnlyHost(host string) *Export {
	if e.attrs.ROAll {
		return e
	}
	e.attrs.RO = slices.DeleteFunc(e.attrs.RO, func(s string) bool { return s == host })
	return e
}

func (e *Export) HasReadOnlyHost(host string) bool {
	if e.attrs.ROAll {
		return false
	}
	return slices.Contains(e.attrs.RO, host)
}

func (e *Export) SetReadWriteAll(v bool) *Export {
	e.attrs.RWAll = v
	if v {
		e.attrs.RW = nil
	}
	return e
}

func (e *Export) SetReadWriteHosts(hosts []string) *Export {
	e.attrs.RWAll = false
	e.attrs.RW = slices.Clone(hosts)
	return e
}

func (e *Export) AddReadWriteHost(host string) *Export {
	if e.attrs.RWAll {
		return e
	}
	if !slices.Contains(e.attrs.RW, host) {
		e.attrs.RW = append(e.attrs.RW, host)
	}
	return e
}

func (e *Export) RemoveReadWriteHost(host string) *Export {
	if e.attrs.RWAll {
		return e
	}
	e.attrs.RW = slices.DeleteFunc(e.attrs.RW, func(s string) bool { return s == host })
	return e
}

func (e *Export) HasReadWriteHost(host string) bool {
	if e.attrs.RWAll {
		return false
	}
	return slices.Contains(e.attrs.RW, host)
}
