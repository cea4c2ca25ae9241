// Package metagrammar implements the data-driven parser combinator engine:
// rule trees that match a character stream and emit a flat meta-event
// stream (start/end-node, bool/number/string property sets) annotated with
// source ranges.
package metagrammar

import "fmt"

// Range is a half-open [Offset, Offset+Length) span over the input, counted
// in Unicode scalar values from the start of the input.
type Range struct {
	Offset int
	Length int
}

// NewRange builds a Range from an offset and length.
func NewRange(offset, length int) Range {
	return Range{Offset: offset, Length: length}
}

// NextOffset returns the offset immediately after the range.
func (r Range) NextOffset() int {
	return r.Offset + r.Length
}

// Union returns the smallest range covering both r and other. Both ranges
// must describe the same input; the result starts at the smaller offset and
// ends at the larger next-offset.
func (r Range) Union(other Range) Range {
	start := r.Offset
	if other.Offset < start {
		start = other.Offset
	}
	end := r.NextOffset()
	if other.NextOffset() > end {
		end = other.NextOffset()
	}
	return NewRange(start, end-start)
}

// EndsIntersect reports whether r's span overlaps or touches other's,
// returning the intersection when it does (zero-length when the two spans
// only share an endpoint). Used by diagnostics to map an error range back
// onto a source line.
func (r Range) EndsIntersect(other Range) (Range, bool) {
	start := r.Offset
	if other.Offset > start {
		start = other.Offset
	}
	end := r.NextOffset()
	if other.NextOffset() < end {
		end = other.NextOffset()
	}
	if start > end {
		return Range{}, false
	}
	return NewRange(start, end-start), true
}

func (r Range) String() string {
	return fmt.Sprintf("%d..%d", r.Offset, r.NextOffset())
}
