package metagrammar

import "fmt"

// Resolve walks every rule in the table once and, for each Reference,
// caches the integer index of the entry its Name resolves to (spec §4.2).
// It is idempotent: a rule tree already resolved against this table is left
// untouched. An unresolved reference rejects the whole table.
func (t *Table) Resolve() error {
	for _, e := range t.Entries {
		if err := resolveRule(t, e.Rule); err != nil {
			return fmt.Errorf("metagrammar: resolving rule %q: %w", e.Name, err)
		}
	}
	return nil
}

func resolveRule(t *Table, r Rule) error {
	switch ru := r.(type) {
	case *ReferenceRule:
		if ru.resolved {
			return nil
		}
		idx, ok := t.Lookup(ru.Name)
		if !ok {
			return fmt.Errorf("unresolved reference %q (rule %d)", ru.Name, ru.DebugID())
		}
		ru.index = idx
		ru.resolved = true
		return nil
	case *SequenceRule:
		return resolveAll(t, ru.Args)
	case *SelectRule:
		return resolveAll(t, ru.Args)
	case *OptionalRule:
		return resolveRule(t, ru.Rule)
	case *SeparatedByRule:
		if err := resolveRule(t, ru.By); err != nil {
			return err
		}
		return resolveRule(t, ru.Rule)
	case *LinesRule:
		return resolveRule(t, ru.Rule)
	case *RepeatRule:
		return resolveRule(t, ru.Rule)
	default:
		// Token, Whitespace, Number, Text, UntilAny: leaves, nothing to resolve.
		return nil
	}
}

func resolveAll(t *Table, rules []Rule) error {
	for _, r := range rules {
		if err := resolveRule(t, r); err != nil {
			return err
		}
	}
	return nil
}
