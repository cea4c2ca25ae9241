package metagrammar

// NamedRule is one (name, Rule) entry of a rule table (spec §3.4).
type NamedRule struct {
	Name string
	Rule Rule
}

// Table is an ordered list of named rules. Order is irrelevant to matching
// semantics except that Reference resolves by name; the name->index lookup
// is cached once in idx.
type Table struct {
	Entries []NamedRule
	idx     map[string]int
}

// NewTable builds a Table from entries. Duplicate names resolve to the
// first occurrence.
func NewTable(entries ...NamedRule) *Table {
	idx := make(map[string]int, len(entries))
	for i, e := range entries {
		if _, exists := idx[e.Name]; !exists {
			idx[e.Name] = i
		}
	}
	return &Table{Entries: entries, idx: idx}
}

// Lookup returns the index of the entry named name.
func (t *Table) Lookup(name string) (int, bool) {
	i, ok := t.idx[name]
	return i, ok
}

// Root returns the rule registered under name, or nil if absent.
func (t *Table) Root(name string) (Rule, bool) {
	i, ok := t.idx[name]
	if !ok {
		return nil, false
	}
	return t.Entries[i].Rule, true
}
