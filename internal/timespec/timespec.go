// Package timespec turns operator supplied date strings into times.
//
// "@<seconds>", RFC 3339 and the "YYYY-MM-DD[ HH:MM:SS]" layouts are parsed
// directly. Anything else is handed to date(1), which understands relative
// forms such as "yesterday 10:00" or "2 hours ago". Bare digits go to date(1)
// as well: it reads "20240301" as a calendar date, not as Unix seconds.
package timespec

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/xtxerr/sfsquery/internal/errors"
	"github.com/xtxerr/sfsquery/internal/logging"
)

// DefaultDateCommand is the external command used for free-form dates.
const DefaultDateCommand = "date"

var layouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Resolver converts date strings to UTC times.
type Resolver struct {
	// DateCommand is run as `<cmd> -u -d <value> +%s` for free-form dates.
	// Empty disables the fallback.
	DateCommand string
}

// NewResolver returns a Resolver that falls back to date(1).
func NewResolver() *Resolver {
	return &Resolver{DateCommand: DefaultDateCommand}
}

// Resolve parses s with the default resolver.
func Resolve(ctx context.Context, s string) (time.Time, error) {
	return NewResolver().Resolve(ctx, s)
}

// Resolve parses s. Layouts without a zone are read as UTC.
func (r *Resolver) Resolve(ctx context.Context, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.NewInvalidDate(s, "empty value")
	}

	if secs, ok := parseEpoch(s); ok {
		return time.Unix(secs, 0).UTC(), nil
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}

	if r.DateCommand == "" {
		return time.Time{}, errors.NewInvalidDate(s, "unrecognized format")
	}
	return r.external(ctx, s)
}

// parseEpoch accepts only the "@<seconds>" form.
func parseEpoch(s string) (int64, bool) {
	digits, ok := strings.CutPrefix(s, "@")
	if !ok {
		return 0, false
	}
	secs, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return secs, true
}

func (r *Resolver) external(ctx context.Context, s string) (time.Time, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.DateCommand, "-u", "-d", s, "+%s")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		reason := strings.TrimSpace(stderr.String())
		if reason == "" {
			reason = err.Error()
		}
		return time.Time{}, errors.NewInvalidDate(s, reason)
	}

	secs, err := strconv.ParseInt(strings.TrimSpace(stdout.String()), 10, 64)
	if err != nil {
		return time.Time{}, errors.NewInvalidDate(s, "unexpected output from "+r.DateCommand)
	}

	logging.Component("timespec").Debug("date resolved externally", "value", s, "unix", secs)
	return time.Unix(secs, 0).UTC(), nil
}
