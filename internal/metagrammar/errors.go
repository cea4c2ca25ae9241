package metagrammar

import "fmt"

// ErrorKind is the closed set of parse failure kinds (spec §7).
type ErrorKind int

const (
	ExpectedToken ErrorKind = iota
	ExpectedInvertedToken
	ExpectedWhitespace
	ExpectedNumber
	InvalidNumber
	ExpectedText
	ExpectedNonEmpty
	ExpectedNewline
	InvalidRule
	ExpectedNode
)

func (k ErrorKind) String() string {
	switch k {
	case ExpectedToken:
		return "ExpectedToken"
	case ExpectedInvertedToken:
		return "ExpectedInvertedToken"
	case ExpectedWhitespace:
		return "ExpectedWhitespace"
	case ExpectedNumber:
		return "ExpectedNumber"
	case InvalidNumber:
		return "InvalidNumber"
	case ExpectedText:
		return "ExpectedText"
	case ExpectedNonEmpty:
		return "ExpectedNonEmpty"
	case ExpectedNewline:
		return "ExpectedNewline"
	case InvalidRule:
		return "InvalidRule"
	case ExpectedNode:
		return "ExpectedNode"
	default:
		return "Unknown"
	}
}

// ParseError is the error type produced by a failed rule match. Text carries
// the literal/name/static message relevant to Kind; DebugID identifies the
// rule node that produced it.
type ParseError struct {
	Kind    ErrorKind
	Text    string
	DebugID int
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case ExpectedToken:
		return fmt.Sprintf("expected %q (rule %d)", e.Text, e.DebugID)
	case ExpectedInvertedToken:
		return fmt.Sprintf("expected anything but %q (rule %d)", e.Text, e.DebugID)
	case ExpectedWhitespace:
		return fmt.Sprintf("expected whitespace (rule %d)", e.DebugID)
	case ExpectedNumber:
		return fmt.Sprintf("expected a number (rule %d)", e.DebugID)
	case InvalidNumber:
		return fmt.Sprintf("invalid number: %s (rule %d)", e.Text, e.DebugID)
	case ExpectedText:
		return fmt.Sprintf("expected a quoted string (rule %d)", e.DebugID)
	case ExpectedNonEmpty:
		return fmt.Sprintf("expected a non-empty match (rule %d)", e.DebugID)
	case ExpectedNewline:
		return fmt.Sprintf("expected a newline (rule %d)", e.DebugID)
	case InvalidRule:
		return fmt.Sprintf("invalid rule: %s (rule %d)", e.Text, e.DebugID)
	case ExpectedNode:
		return fmt.Sprintf("reference to undefined node %q (rule %d)", e.Text, e.DebugID)
	default:
		return fmt.Sprintf("parse error (rule %d)", e.DebugID)
	}
}

// located pairs an error with the range it was produced at, so the deepest-
// error aggregator (spec §4.4) can compare candidates by how far into the
// input they reach.
type located struct {
	Range Range
	Err   *ParseError
}

// updateDeepest keeps whichever of cur and cand reaches furthest into the
// input, preferring cur on a tie (it was produced first - spec §4.1
// "Tie-breaking for deepest error").
func updateDeepest(cur, cand *located) *located {
	if cur == nil {
		return cand
	}
	if cand == nil {
		return cur
	}
	if cand.Range.NextOffset() > cur.Range.NextOffset() {
		return cand
	}
	return cur
}
