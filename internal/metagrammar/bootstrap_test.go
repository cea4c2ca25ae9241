package metagrammar

import "testing"

func TestBootstrapResolvesCleanly(t *testing.T) {
	table := Bootstrap()
	for _, e := range table.Entries {
		if _, ok := table.Lookup(e.Name); !ok {
			t.Fatalf("entry %q missing from its own table index", e.Name)
		}
	}
}

func TestBootstrapParsesASequenceDocument(t *testing.T) {
	table := Bootstrap()
	src := `1 "greeting" [t"word" w t"punct"]
`
	events, err := Parse(table, "document", []rune(src))
	if err != nil {
		t.Fatalf("Parse(document): %v", err)
	}

	var names []string
	for _, e := range events {
		if e.Kind == StartNode {
			names = append(names, e.Name.String())
		}
	}
	if len(names) == 0 || names[0] != "node" {
		t.Fatalf("expected the first start-node to be %q, got %v", "node", names)
	}
	wantSomewhere := []string{"rule", "sequence", "text", "whitespace"}
	for _, w := range wantSomewhere {
		found := false
		for _, n := range names {
			if n == w {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected a %q start-node somewhere in %v", w, names)
		}
	}
}

// Self-description (spec §8 property 6): compiling a textual grammar with
// the bootstrap table produces a Table that itself parses the inputs it was
// written to accept.
func TestCompileTextSelfDescribesAWorkingGrammar(t *testing.T) {
	src := `1 "pair" [$"a" w $"b"]
`
	compiled, err := CompileText(src)
	if err != nil {
		t.Fatalf("CompileText: %v", err)
	}

	events, err := Parse(compiled, "pair", []rune("3 4"))
	if err != nil {
		t.Fatalf("Parse with compiled grammar: %v", err)
	}
	if len(events) != 2 || events[0].F64 != 3 || events[1].F64 != 4 {
		t.Fatalf("unexpected events from compiled grammar: %+v", events)
	}
}
