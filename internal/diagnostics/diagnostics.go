// Package diagnostics formats metagrammar parse errors against a
// precomputed source line table (spec §6, "Error handler contract").
package diagnostics

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cmr/meta/internal/metagrammar"
)

// Handler receives a failed parse's range and error. It is the engine's
// one external collaborator for error reporting; the engine itself never
// formats or prints.
type Handler interface {
	Error(rng metagrammar.Range, err *metagrammar.ParseError)
}

type line struct {
	rng  metagrammar.Range
	text string
}

// StdErr reports errors to an io.Writer (os.Stderr by default), annotating
// each with the source line(s) its range intersects and, where the
// intersection starts after the first character of a line, a caret pointing
// at that offset within the line.
type StdErr struct {
	w     io.Writer
	lines []line
}

// NewStdErr builds a StdErr handler over text, splitting it into lines the
// same way the source does: by '\n', each line's range spanning its
// characters (runes) exclusive of the separator.
func NewStdErr(text string) *StdErr {
	return &StdErr{w: os.Stderr, lines: splitLines(text)}
}

// WithWriter overrides the destination writer (tests use this to capture
// output instead of writing to the real stderr).
func (s *StdErr) WithWriter(w io.Writer) *StdErr {
	s.w = w
	return s
}

func splitLines(text string) []line {
	var lines []line
	start := 0
	for _, raw := range strings.Split(text, "\n") {
		chars := []rune(raw)
		lines = append(lines, line{rng: metagrammar.NewRange(start, len(chars)), text: raw})
		start += len(chars) + 1
	}
	return lines
}

func (s *StdErr) Error(rng metagrammar.Range, err *metagrammar.ParseError) {
	fmt.Fprintf(s.w, "error: %s\n", err.Error())
	for i, l := range s.lines {
		intersect, ok := rng.EndsIntersect(l.rng)
		if !ok {
			continue
		}
		fmt.Fprintf(s.w, "%d: %s\n", i+1, l.text)
		if intersect.Offset > l.rng.Offset {
			fmt.Fprintf(s.w, "%d: %s^\n", i+1, strings.Repeat(" ", intersect.Offset-l.rng.Offset))
		}
	}
}

// Collector accumulates errors in memory instead of printing them,
// grounded the same way tests exercise other handlers in this codebase:
// plain struct, no mocking framework needed for something this small.
type Collector struct {
	Errors []CollectedError
}

// CollectedError pairs a reported range with the error it was reported for.
type CollectedError struct {
	Range metagrammar.Range
	Err   *metagrammar.ParseError
}

func (c *Collector) Error(rng metagrammar.Range, err *metagrammar.ParseError) {
	c.Errors = append(c.Errors, CollectedError{Range: rng, Err: err})
}
