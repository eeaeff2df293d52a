package filer

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// run executes one appliance command line and classifies the outcome.
// Success with empty output is valid for many verbs; a non-zero status or a
// recognized error banner becomes a CommandError carrying the command line
// and the raw output verbatim. Option legality is never validated here: an
// invalid combination surfaces only when the appliance rejects it.
func (f *Filer) run(ctx context.Context, kind, command string) (string, error) {
	CommandsTotal.WithLabelValues(f.cfg.Host, kind).Inc()

	res, err := f.tr.Execute(ctx, command)
	if err != nil {
		CommandErrorsTotal.WithLabelValues(f.cfg.Host, kind).Inc()
		return "", err
	}
	CommandSeconds.WithLabelValues(f.cfg.Host).Observe(res.Elapsed.Seconds())

	if res.Status != 0 || hasErrorBanner(command, res.Output) {
		CommandErrorsTotal.WithLabelValues(f.cfg.Host, kind).Inc()
		log.Debug().Str("filer", f.cfg.Host).Str("command", command).Int("status", res.Status).Msg("command rejected")
		return "", &CommandError{Command: command, Output: res.Output, Status: res.Status}
	}
	return res.Output, nil
}

// hasErrorBanner recognizes appliance failures that exit 0 but print an
// error line, e.g. "aggr create: aggregate aggr1 already exists" or a usage
// dump after a malformed command.
func hasErrorBanner(command, output string) bool {
	var first string
	for _, ln := range strings.Split(output, "\n") {
		if strings.TrimSpace(ln) != "" {
			first = strings.TrimSpace(ln)
			break
		}
	}
	if first == "" {
		return false
	}
	if strings.HasPrefix(strings.ToLower(first), "usage:") {
		return true
	}
	fields := strings.Fields(command)
	if len(fields) >= 2 && strings.HasPrefix(first, fields[0]+" "+fields[1]+":") {
		return true
	}
	if len(fields) >= 1 && strings.HasPrefix(first, fields[0]+":") {
		// listing verbs print informational "<verb>:" lines before their
		// records ("exportfs: loading /etc/exports"); a bare banner is a
		// rejection only when nothing follows it
		return nonBlankLines(output) == 1
	}
	return false
}

func nonBlankLines(output string) int {
	n := 0
	for _, ln := range strings.Split(output, "\n") {
		if strings.TrimSpace(ln) != "" {
			n++
		}
	}
	return n
}

// DiskSet is one group of disks. A plain aggregate takes a single set; a
// mirrored aggregate takes one set per plex.
type DiskSet []string

// Disks wraps a flat disk list into the single-set shape.
func Disks(names ...string) []DiskSet {
	return []DiskSet{names}
}

// AggregateCreateRequest describes `aggr create`. Zero values mean the
// filer's defaults.
type AggregateCreateRequest struct {
	Name     string
	RaidType string // raid4 or raid_dp
	RaidSize int
	Mirrored bool
	Disks    []DiskSet
}

// command serializes the request into the appliance's multi-group disk
// syntax: each set becomes its own -d group.
func (r AggregateCreateRequest) command() string {
	parts := []string{"aggr create", r.Name}
	if r.RaidType != "" {
		parts = append(parts, "-t", r.RaidType)
	}
	if r.RaidSize > 0 {
		parts = append(parts, "-r", strconv.Itoa(r.RaidSize))
	}
	if r.Mirrored {
		parts = append(parts, "-m")
	}
	for _, set := range r.Disks {
		if len(set) == 0 {
			continue
		}
		parts = append(parts, "-d")
		parts = append(parts, set...)
	}
	return strings.Join(parts, " ")
}
