package journal

import (
	"testing"

	"github.com/xtxerr/sfsquery/internal/errors"
)

func TestParseCreate(t *testing.T) {
	r, err := Parse("5: 1710181938|CREATE(1,configuration.h,f,420,1000,1000,0):2")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if r.ID != 5 {
		t.Errorf("expected id=5, got %d", r.ID)
	}
	if r.Timestamp != 1710181938 {
		t.Errorf("expected timestamp=1710181938, got %d", r.Timestamp)
	}
	if r.Operation != OpCreate {
		t.Errorf("expected operation=CREATE, got %s", r.Operation)
	}
	if !r.HasInode || r.Inode != 2 {
		t.Errorf("expected inode=2, got %d (ok=%v)", r.Inode, r.HasInode)
	}
	if r.Kind() != KindFile {
		t.Errorf("expected kind=file, got %s", r.Kind())
	}
	if got := r.Time().Format("2006-01-02 15:04:05"); got != "2024-03-11 18:32:18" {
		t.Errorf("expected UTC time 2024-03-11 18:32:18, got %s", got)
	}
}

func TestParseInode(t *testing.T) {
	tests := []struct {
		line   string
		op     string
		want   uint64
		wantOK bool
	}{
		{"5: 1710181938|CREATE(1,configuration.h,f,420,1000,1000,0):2", OpCreate, 2, true},
		{"4: 1710181842|SESSION():1", OpSession, 1, true},
		{"33: 1710182099|WRITE(3,0,1,3033285594):15", OpWrite, 0, false},
		{"72: 1710183175|TRUNC(4,0,0):16", OpTrunc, 0, false},
		{"59: 1710183125|UNLINK(1,configuration.h):3", OpUnlink, 3, true},
		{"60: 1710183125|LENGTH(3,100)", OpLength, 0, false},
		{"61: 1710183125|ACCESS(3):  7 ", "ACCESS", 7, true},
		{"62: 1710183125|RENAME(1,a):b,c):9", "RENAME", 9, true},
		{"63: 1710183125|ATTR(3):x", "ATTR", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := parseInode(tt.line, tt.op)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("expected (%d, %v), got (%d, %v)", tt.want, tt.wantOK, got, ok)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
		want error
	}{
		{"empty", "", errors.ErrMissingSeparator},
		{"no separator", "5 1710181938|CREATE(1):2", errors.ErrMissingSeparator},
		{"bad id", "x5: 1710181938|SESSION():1", errors.ErrBadID},
		{"bad timestamp", "5: 17101a1938|SESSION():1", errors.ErrBadTimestamp},
		{"missing timestamp", "5: |SESSION():1", errors.ErrBadTimestamp},
		{"no delimiter", "5: 1710181938", errors.ErrMissingDelimiter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.line)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if !errors.IsFormat(err) {
				t.Errorf("expected a format error, got %v", err)
			}
		})
	}
}

func TestParseOperationMissingDelimiter(t *testing.T) {
	if _, err := parseOperation("5: 1710181938 SESSION():1"); !errors.Is(err, errors.ErrMissingDelimiter) {
		t.Errorf("expected missing delimiter, got %v", err)
	}
}

func TestParseOperationWithoutArgs(t *testing.T) {
	r, err := Parse("8: 1710181938|FREEINODES")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if r.Operation != "FREEINODES" {
		t.Errorf("expected operation=FREEINODES, got %s", r.Operation)
	}
	if r.HasInode {
		t.Error("expected no inode")
	}
}

func TestLength(t *testing.T) {
	r, err := Parse("12: 1710181950|LENGTH(2,31000)")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	inode, length, err := r.Length()
	if err != nil {
		t.Fatalf("Length: %v", err)
	}
	if inode != 2 || length != 31000 {
		t.Errorf("expected (2, 31000), got (%d, %d)", inode, length)
	}
}

func TestLengthErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
		want error
	}{
		{"no open paren", "12: 1710181950|LENGTH 2,31000)", errors.ErrMissingParenthesis},
		{"no close paren", "12: 1710181950|LENGTH(2,31000", errors.ErrMissingParenthesis},
		{"reversed parens", "12: 1710181950|LENGTH)2,31000(", errors.ErrMissingParenthesis},
		{"no comma", "12: 1710181950|LENGTH(231000)", errors.ErrMissingComma},
		{"bad inode", "12: 1710181950|LENGTH(x,31000)", errors.ErrBadInode},
		{"bad length", "12: 1710181950|LENGTH(2,-1)", errors.ErrBadLength},
		{"extra field", "12: 1710181950|LENGTH(2,31000,1)", errors.ErrBadLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Record{Operation: OpLength, Line: tt.line}
			if _, _, err := r.Length(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		line string
		want NodeKind
	}{
		{"1: 1|CREATE(1,src,d,493,0,0,0):3", KindDir},
		{"2: 1|CREATE(3,main.c,f,420,0,0,0):4", KindFile},
		{"3: 1|CREATE(3,link,l,511,0,0,0):5", KindOther},
	}
	for _, tt := range tests {
		r := Record{Line: tt.line}
		if got := r.Kind(); got != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.line, tt.want, got)
		}
	}
}
