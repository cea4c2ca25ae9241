package metagrammar

import "testing"

func mustParse(t *testing.T, table *Table, root, input string) []Event {
	t.Helper()
	events, err := Parse(table, root, []rune(input))
	if err != nil {
		t.Fatalf("Parse(%q) against %q: unexpected error: %v", root, input, err)
	}
	return events
}

// S1: Select tries Text first, falls through to Number.
func TestSelectFallsThroughToSecondBranch(t *testing.T) {
	nProp := Intern("n")
	table := NewTable(NamedRule{"root", NewSelect(1,
		NewText(2, true, Symbol{}),
		NewNumber(3, false, nProp),
	)})
	if err := table.Resolve(); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	events := mustParse(t, table, "root", "2")
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d: %+v", len(events), events)
	}
	ev := events[0]
	if ev.Kind != F64Prop || ev.Property != nProp || ev.F64 != 2.0 {
		t.Errorf("unexpected event %+v", ev)
	}
}

// S2: required whitespace fails on "a", succeeds consuming 3 chars on "   b".
func TestRequiredWhitespace(t *testing.T) {
	table := NewTable(NamedRule{"root", NewWhitespace(1, false)})
	if err := table.Resolve(); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if _, err := Parse(table, "root", []rune("a")); err == nil {
		t.Fatalf("expected ExpectedWhitespace error, got success")
	} else if pe, ok := err.(*ParseError); !ok || pe.Kind != ExpectedWhitespace {
		t.Errorf("expected ExpectedWhitespace, got %v", err)
	}

	table2 := NewTable(NamedRule{"root", NewSequence(1,
		NewWhitespace(2, false),
		NewToken(3, "b", false, Symbol{}),
	)})
	if err := table2.Resolve(); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	mustParse(t, table2, "root", "   b")
}

// S3: Sequence of Token, Text, Token extracts the quoted body as a single event.
func TestSequenceParensAroundText(t *testing.T) {
	textProp := Intern("body")
	table := NewTable(NamedRule{"root", NewSequence(1,
		NewToken(2, "(", false, Symbol{}),
		NewText(3, false, textProp),
		NewToken(4, ")", false, Symbol{}),
	)})
	if err := table.Resolve(); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	events := mustParse(t, table, "root", `("hi")`)
	if len(events) != 1 || events[0].Kind != StringProp || events[0].Str != "hi" {
		t.Fatalf("unexpected events: %+v", events)
	}
	if events[0].Range != NewRange(1, 4) {
		t.Errorf("expected the quoted literal's range (1,4), got %v", events[0].Range)
	}
}

// S4: SeparatedBy with a trailing separator allowed.
func TestSeparatedByAllowsTrailingSeparator(t *testing.T) {
	kProp := Intern("k")
	build := func() *Table {
		t2 := NewTable(NamedRule{"root", NewSeparatedBy(1,
			NewToken(2, ",", false, Symbol{}),
			NewNumber(3, false, kProp),
			false, true,
		)})
		return t2
	}

	for _, input := range []string{"1,2,3,", "1,2,3"} {
		table := build()
		if err := table.Resolve(); err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		events := mustParse(t, table, "root", input)
		if len(events) != 3 {
			t.Fatalf("input %q: expected 3 events, got %d: %+v", input, len(events), events)
		}
		for i, want := range []float64{1, 2, 3} {
			if events[i].F64 != want {
				t.Errorf("input %q: event %d = %v, want %v", input, i, events[i].F64, want)
			}
		}
	}

	table := build()
	if err := table.Resolve(); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, err := Parse(table, "root", []rune("")); err == nil {
		t.Fatalf("expected error parsing empty input")
	} else if pe, ok := err.(*ParseError); !ok || pe.Kind != ExpectedNumber {
		t.Errorf("expected ExpectedNumber, got %v", err)
	}
}

// S5: Select with no branches is a grammar-compile-time condition surfaced
// at parse time.
func TestEmptySelectIsInvalidRule(t *testing.T) {
	table := NewTable(NamedRule{"root", NewSelect(42)})
	if err := table.Resolve(); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	_, err := Parse(table, "root", []rune(""))
	pe, ok := err.(*ParseError)
	if !ok || pe.Kind != InvalidRule {
		t.Fatalf("expected InvalidRule, got %v", err)
	}
}

// S6: a Reference round-trips StartNode/EndNode around a named sub-rule.
func TestReferenceRoundTrip(t *testing.T) {
	aProp, bProp := Intern("a"), Intern("b")
	table := NewTable(
		NamedRule{"pair", NewSequence(1,
			NewNumber(2, false, aProp),
			NewWhitespace(3, false),
			NewNumber(4, false, bProp),
		)},
		NamedRule{"root", NewReference(5, "pair", Intern("p"))},
	)
	if err := table.Resolve(); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	events := mustParse(t, table, "root", "3 4")
	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d: %+v", len(events), events)
	}
	if events[0].Kind != StartNode || events[0].Name != Intern("pair") {
		t.Errorf("expected StartNode(pair) first, got %+v", events[0])
	}
	if events[1].Kind != F64Prop || events[1].F64 != 3 {
		t.Errorf("expected F64(a,3), got %+v", events[1])
	}
	if events[2].Kind != F64Prop || events[2].F64 != 4 {
		t.Errorf("expected F64(b,4), got %+v", events[2])
	}
	if events[3].Kind != EndNode {
		t.Errorf("expected EndNode last, got %+v", events[3])
	}
}

// Property: a rolled-back Select branch leaves the tokenizer exactly as it
// found it.
func TestSelectRollbackIsExact(t *testing.T) {
	table := NewTable(NamedRule{"root", NewSequence(1,
		NewSelect(2,
			NewSequence(3, NewToken(4, "a", false, Intern("hit")), NewToken(5, "z", false, Symbol{})),
			NewToken(6, "a", false, Intern("hit")),
		),
	)})
	if err := table.Resolve(); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	events := mustParse(t, table, "root", "a")
	if len(events) != 1 {
		t.Fatalf("expected exactly 1 surviving event after rollback, got %d: %+v", len(events), events)
	}
}

// Property: deepest-error preference across Select branches that fail at
// different offsets.
func TestDeepestErrorWins(t *testing.T) {
	table := NewTable(NamedRule{"root", NewSelect(1,
		NewSequence(2, NewToken(3, "ab", false, Symbol{}), NewToken(4, "X", false, Symbol{})),
		NewToken(5, "zz", false, Symbol{}),
	)})
	if err := table.Resolve(); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	_, err := Parse(table, "root", []rune("abq"))
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Kind != ExpectedToken || pe.Text != "X" {
		t.Errorf("expected the deeper branch's ExpectedToken(X) error, got %+v", pe)
	}
}
