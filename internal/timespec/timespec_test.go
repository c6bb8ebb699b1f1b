package timespec

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/xtxerr/sfsquery/internal/errors"
)

func TestResolveLayouts(t *testing.T) {
	r := &Resolver{}
	ctx := context.Background()

	tests := []struct {
		in   string
		want int64
	}{
		{"@1710181842", 1710181842},
		{"@0", 0},
		{"@-86400", -86400},
		{"2024-03-11T18:30:42Z", 1710181842},
		{"2024-03-11T19:30:42+01:00", 1710181842},
		{"2024-03-11 18:30:42", 1710181842},
		{"2024-03-11T18:30:42", 1710181842},
		{"2024-03-11", 1710115200},
		{"  2024-03-11  ", 1710115200},
	}

	for _, tt := range tests {
		got, err := r.Resolve(ctx, tt.in)
		if err != nil {
			t.Errorf("Resolve(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got.Unix() != tt.want {
			t.Errorf("Resolve(%q): expected %d, got %d", tt.in, tt.want, got.Unix())
		}
		if got.Location() != time.UTC {
			t.Errorf("Resolve(%q): expected UTC, got %v", tt.in, got.Location())
		}
	}
}

func TestResolveInvalid(t *testing.T) {
	r := &Resolver{}
	ctx := context.Background()

	for _, in := range []string{"", "   ", "next tuesday", "2024-13-40", "1710181842", "20240301", "@", "@12x"} {
		_, err := r.Resolve(ctx, in)
		if err == nil {
			t.Errorf("Resolve(%q): expected error", in)
			continue
		}
		if !errors.IsDate(err) {
			t.Errorf("Resolve(%q): expected date error, got %v", in, err)
		}
		if errors.ExitCode(err) != errors.ExitInvalidDate {
			t.Errorf("Resolve(%q): expected exit %d, got %d", in, errors.ExitInvalidDate, errors.ExitCode(err))
		}
	}
}

func TestResolveMissingCommand(t *testing.T) {
	r := &Resolver{DateCommand: "sfsquery-no-such-date-command"}

	_, err := r.Resolve(context.Background(), "yesterday")
	if !errors.IsDate(err) {
		t.Fatalf("expected date error, got %v", err)
	}
}

func TestResolveExternal(t *testing.T) {
	if _, err := exec.LookPath(DefaultDateCommand); err != nil {
		t.Skip("date command not available")
	}

	got, err := NewResolver().Resolve(context.Background(), "1970-01-02 00:00:00 UTC")
	if err != nil {
		t.Skipf("date does not understand -d: %v", err)
	}
	if got.Unix() != 86400 {
		t.Errorf("expected 86400, got %d", got.Unix())
	}
}

func TestResolveCompactDate(t *testing.T) {
	if _, err := exec.LookPath(DefaultDateCommand); err != nil {
		t.Skip("date command not available")
	}

	got, err := NewResolver().Resolve(context.Background(), "20240301")
	if err != nil {
		t.Skipf("date does not understand -d: %v", err)
	}
	if got.Unix() != 1709251200 {
		t.Errorf("expected 1709251200 (2024-03-01), got %d (%v)", got.Unix(), got)
	}
}

func TestResolveDigitsUseDateCommand(t *testing.T) {
	r := &Resolver{DateCommand: "sfsquery-no-such-date-command"}

	_, err := r.Resolve(context.Background(), "20240301")
	if !errors.IsDate(err) {
		t.Fatalf("expected date error from the external command, got %v", err)
	}
}
