package errors

import (
	"errors"
	"io/fs"
	"testing"
)

func TestFormatSentinelsWrapRoot(t *testing.T) {
	for _, err := range []error{
		ErrMissingSeparator,
		ErrBadID,
		ErrBadTimestamp,
		ErrMissingDelimiter,
		ErrMissingParenthesis,
		ErrMissingComma,
		ErrBadInode,
		ErrBadLength,
	} {
		if !IsFormat(err) {
			t.Errorf("%v should be a format error", err)
		}
		if IsIO(err) || IsDate(err) {
			t.Errorf("%v should only be a format error", err)
		}
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"format", Wrap(ErrBadLength, "record"), ExitFormat},
		{"line", &LineError{File: "changelog.sfs", Line: 3, Err: ErrBadTimestamp}, ExitFormat},
		{"date", NewInvalidDate("yesterdayish", "unparseable"), ExitInvalidDate},
		{"io", NewIO("open", "/nope", fs.ErrNotExist), ExitIO},
		{"config", NewValidation("log.level", "unknown"), ExitInvalidConfig},
		{"no input", ErrNoInput, ExitInvalidConfig},
		{"other", errors.New("boom"), ExitUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("expected exit=%s, got %s", ExitName(tt.want), ExitName(got))
			}
		})
	}
}

func TestNewIOKeepsCause(t *testing.T) {
	err := NewIO("open", "/var/lib/sfs/changelog.sfs.1", fs.ErrNotExist)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("expected underlying cause to be preserved")
	}
	if !IsIO(err) {
		t.Error("expected io error")
	}
}

func TestLineError(t *testing.T) {
	err := &LineError{File: "changelog.sfs.2", Line: 17, Text: "garbage", Err: ErrMissingSeparator}

	want := "error parsing line at 17 in file changelog.sfs.2: " + ErrMissingSeparator.Error()
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}

	var le *LineError
	if !As(Wrap(err, "scan"), &le) {
		t.Fatal("expected LineError to be recoverable with As")
	}
	if le.Line != 17 {
		t.Errorf("expected line=17, got %d", le.Line)
	}
	if !Is(err, ErrMissingSeparator) {
		t.Error("expected wrapped sentinel")
	}
}

func TestValidationErrors(t *testing.T) {
	v := NewValidationErrors()
	if v.Err() != nil {
		t.Error("empty collector should return nil")
	}

	v.AddField("segments.order", "unknown order")
	v.Add(nil)
	v.AddField("report.format", "unknown format")

	if !v.HasErrors() {
		t.Fatal("expected errors")
	}
	if len(v.Errors) != 2 {
		t.Errorf("expected 2 errors, got %d", len(v.Errors))
	}
	if !IsConfig(v.Err()) {
		t.Error("expected config error through Unwrap")
	}
}
