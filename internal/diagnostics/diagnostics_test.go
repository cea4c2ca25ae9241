package diagnostics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cmr/meta/internal/metagrammar"
)

func TestStdErrPrintsOffendingLineAndCaret(t *testing.T) {
	src := "first line\nsecond oops line\nthird"
	var buf bytes.Buffer
	h := NewStdErr(src).WithWriter(&buf)

	perr := &metagrammar.ParseError{Kind: metagrammar.ExpectedToken, Text: "x", DebugID: 7}
	h.Error(metagrammar.NewRange(18, 1), perr)

	out := buf.String()
	if !strings.Contains(out, "expected") {
		t.Errorf("expected the error message in output, got %q", out)
	}
	if !strings.Contains(out, "2: second oops line") {
		t.Errorf("expected the offending line annotated, got %q", out)
	}
	if !strings.Contains(out, "^") {
		t.Errorf("expected a caret marker, got %q", out)
	}
}

func TestCollectorAccumulatesErrors(t *testing.T) {
	var c Collector
	perr := &metagrammar.ParseError{Kind: metagrammar.ExpectedNumber}
	c.Error(metagrammar.NewRange(0, 0), perr)
	c.Error(metagrammar.NewRange(5, 2), perr)

	if len(c.Errors) != 2 {
		t.Fatalf("expected 2 collected errors, got %d", len(c.Errors))
	}
}
