// Package parse turns raw filer command output into ordered field records.
// Each resource kind has its own grammar, but every grammar reduces to the
// same Record shape: one record per disk, export line, license row, and so
// on. Unrecognized lines are skipped; a grammar only fails when output that
// must contain at least one record yields none.
package parse

import (
	"fmt"
	"strconv"
	"strings"
)

// Record is an ordered mapping from field name to string value for one row
// of appliance output. Absent fields and empty values are distinct: a field
// set to "" is present (Has returns true) while a never-set field is not.
type Record struct {
	names  []string
	values map[string]string
}

func NewRecord() *Record {
	return &Record{values: map[string]string{}}
}

func (r *Record) Set(name, value string) {
	if _, ok := r.values[name]; !ok {
		r.names = append(r.names, name)
	}
	r.values[name] = value
}

// Get returns the field value, or "" when absent. Use Lookup when the
// empty-vs-absent distinction matters (anon=0 vs anon unset).
func (r *Record) Get(name string) string { return r.values[name] }

func (r *Record) Lookup(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

func (r *Record) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// Names returns the field names in the order they were first set.
func (r *Record) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

func (r *Record) Int(name string) (int, bool) {
	v, ok := r.values[name]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (r *Record) Bool(name string) bool {
	v, ok := r.values[name]
	if !ok {
		return false
	}
	switch strings.ToLower(v) {
	case "", "true", "on", "yes", "enabled":
		return true
	}
	return false
}

// List splits a list-valued field on sep into an ordered sequence.
// An absent field yields nil; a present-but-empty field yields an empty
// non-nil slice.
func (r *Record) List(name, sep string) []string {
	v, ok := r.values[name]
	if !ok {
		return nil
	}
	if v == "" {
		return []string{}
	}
	return strings.Split(v, sep)
}

// Error reports output that did not match the expected grammar for a
// resource kind when at least one record was expected.
type Error struct {
	Kind string
	Line string
}

func (e *Error) Error() string {
	if e.Line == "" {
		return fmt.Sprintf("parse %s: no records in output", e.Kind)
	}
	return fmt.Sprintf("parse %s: no records in output, first unparseable line: %q", e.Kind, e.Line)
}

// splitColumns splits a column-aligned line on runs of two or more spaces
// (or tabs), which keeps values like "raid_dp, aggr" in one piece.
func splitColumns(line string) []string {
	var cols []string
	for _, part := range strings.Split(strings.ReplaceAll(line, "\t", "  "), "  ") {
		part = strings.TrimSpace(part)
		if part != "" {
			cols = append(cols, part)
		}
	}
	return cols
}

// lines splits raw output, dropping trailing carriage returns.
func lines(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	return strings.Split(raw, "\n")
}

// firstContent returns the first non-blank line, for ParseError reporting.
func firstContent(raw string) string {
	for _, ln := range lines(raw) {
		if strings.TrimSpace(ln) != "" {
			return ln
		}
	}
	return ""
}

// isBlank reports output with no content lines at all (a legal result for
// list commands on an empty filer).
func isBlank(raw string) bool {
	return firstContent(raw) == ""
}
