package metagrammar

import "fmt"

// CompileText parses source using the bootstrap grammar's "document" root
// and reconstructs the rule table it describes (spec §4.3, §6): this is
// what makes the engine self-describing, turning a text file into the same
// kind of Table that Bootstrap() returns for its own grammar.
func CompileText(source string) (*Table, error) {
	events, err := Parse(Bootstrap(), "document", []rune(source))
	if err != nil {
		return nil, fmt.Errorf("metagrammar: compiling grammar text: %w", err)
	}

	b := &builder{cur: &eventCursor{events: events}, strings: map[string]string{}}
	if err := b.document(); err != nil {
		return nil, err
	}

	table := NewTable(b.entries...)
	if err := table.Resolve(); err != nil {
		return nil, err
	}
	return table, nil
}

// eventCursor walks a flat event slice left to right; every builder method
// below consumes exactly the events its corresponding bootstrap rule would
// have produced, in the order that rule produces them.
type eventCursor struct {
	events []Event
	pos    int
}

func (c *eventCursor) done() bool { return c.pos >= len(c.events) }

func (c *eventCursor) peek() (Event, bool) {
	if c.done() {
		return Event{}, false
	}
	return c.events[c.pos], true
}

func (c *eventCursor) next() (Event, error) {
	if c.done() {
		return Event{}, fmt.Errorf("metagrammar: unexpected end of event stream")
	}
	e := c.events[c.pos]
	c.pos++
	return e, nil
}

func (c *eventCursor) expectStart(name Symbol) error {
	e, err := c.next()
	if err != nil {
		return err
	}
	if e.Kind != StartNode || e.Name != name {
		return fmt.Errorf("metagrammar: expected start of %q, got %v", name, e.Kind)
	}
	return nil
}

func (c *eventCursor) expectEnd() error {
	e, err := c.next()
	if err != nil {
		return err
	}
	if e.Kind != EndNode {
		return fmt.Errorf("metagrammar: expected end node, got %v", e.Kind)
	}
	return nil
}

// peekStartName reports the Name of the next event iff it is a StartNode.
func (c *eventCursor) peekStartName() (Symbol, bool) {
	e, ok := c.peek()
	if !ok || e.Kind != StartNode {
		return Symbol{}, false
	}
	return e.Name, true
}

type builder struct {
	cur     *eventCursor
	strings map[string]string
	entries []NamedRule
	nextID  int
}

func (b *builder) freshID() int {
	b.nextID++
	return b.nextID
}

// document: l(@"string""string") l(@"node""node") w?
func (b *builder) document() error {
	nameSym := Intern("string")
	for {
		name, ok := b.cur.peekStartName()
		if !ok || name != nameSym {
			break
		}
		if err := b.stringDef(); err != nil {
			return err
		}
	}

	nodeSym := Intern("node")
	for {
		name, ok := b.cur.peekStartName()
		if !ok || name != nodeSym {
			break
		}
		if err := b.nodeDef(); err != nil {
			return err
		}
	}
	return nil
}

// string: [..seps!"name" ":" w? t?"text"]
func (b *builder) stringDef() error {
	if err := b.cur.expectStart(Intern("string")); err != nil {
		return err
	}
	nameEv, err := b.cur.next()
	if err != nil {
		return err
	}
	textEv, err := b.cur.next()
	if err != nil {
		return err
	}
	if err := b.cur.expectEnd(); err != nil {
		return err
	}
	b.strings[nameEv.Str] = textEv.Str
	return nil
}

// node: [$"id" w! t!"name" w! @"rule""rule"]
func (b *builder) nodeDef() error {
	if err := b.cur.expectStart(Intern("node")); err != nil {
		return err
	}
	if _, err := b.cur.next(); err != nil { // id (F64), discarded
		return err
	}
	nameEv, err := b.cur.next() // name (String)
	if err != nil {
		return err
	}
	rule, err := b.rule()
	if err != nil {
		return err
	}
	if err := b.cur.expectEnd(); err != nil {
		return err
	}
	b.entries = append(b.entries, NamedRule{Name: nameEv.Str, Rule: rule})
	return nil
}

// opt: {"?"opt "!"!opt} — always emits exactly one Bool(optional-flag) event.
func (b *builder) opt() (bool, error) {
	if err := b.cur.expectStart(Intern("opt")); err != nil {
		return false, err
	}
	ev, err := b.cur.next()
	if err != nil {
		return false, err
	}
	if err := b.cur.expectEnd(); err != nil {
		return false, err
	}
	return ev.Bool, nil
}

// set: {t!"value" ..seps!"ref"} — a literal string, either typed inline or
// looked up by name against the document's string-definition block.
func (b *builder) set() (string, error) {
	if err := b.cur.expectStart(Intern("set")); err != nil {
		return "", err
	}
	ev, err := b.cur.next()
	if err != nil {
		return "", err
	}
	if err := b.cur.expectEnd(); err != nil {
		return "", err
	}
	if ev.Property == Intern("ref") {
		if text, ok := b.strings[ev.Str]; ok {
			return text, nil
		}
	}
	return ev.Str, nil
}

// rule: dispatches to whichever alternative matched, per the debug-id
// comment block in the bootstrap source (spec §4.3's sigil table, one case
// per row).
func (b *builder) rule() (Rule, error) {
	if err := b.cur.expectStart(Intern("rule")); err != nil {
		return nil, err
	}
	name, ok := b.cur.peekStartName()
	if !ok {
		return nil, fmt.Errorf("metagrammar: expected a rule alternative")
	}

	var (
		r   Rule
		err error
	)
	switch name {
	case Intern("whitespace"):
		r, err = b.whitespace()
	case Intern("until_any_or_whitespace"):
		r, err = b.untilAny(true)
	case Intern("until_any"):
		r, err = b.untilAny(false)
	case Intern("lines"):
		r, err = b.lines()
	case Intern("repeat"):
		r, err = b.repeat()
	case Intern("number"):
		r, err = b.number()
	case Intern("text"):
		r, err = b.text()
	case Intern("reference"):
		r, err = b.reference()
	case Intern("sequence"):
		r, err = b.sequence()
	case Intern("select"):
		r, err = b.selectRule()
	case Intern("separated_by"):
		r, err = b.separatedBy()
	case Intern("token"):
		r, err = b.token()
	case Intern("optional"):
		r, err = b.optional()
	default:
		return nil, fmt.Errorf("metagrammar: unrecognized rule alternative %q", name)
	}
	if err != nil {
		return nil, err
	}
	if err := b.cur.expectEnd(); err != nil {
		return nil, err
	}
	return r, nil
}

func (b *builder) whitespace() (Rule, error) {
	if err := b.cur.expectStart(Intern("whitespace")); err != nil {
		return nil, err
	}
	optional, err := b.opt()
	if err != nil {
		return nil, err
	}
	if err := b.cur.expectEnd(); err != nil {
		return nil, err
	}
	return NewWhitespace(b.freshID(), optional), nil
}

func (b *builder) number() (Rule, error) {
	if err := b.cur.expectStart(Intern("number")); err != nil {
		return nil, err
	}
	allowUnderscore := false
	if ev, ok := b.cur.peek(); ok && ev.Kind == BoolProp && ev.Property == Intern("underscore") {
		allowUnderscore = ev.Bool
		b.cur.pos++
	}
	prop := Symbol{}
	if _, ok := b.cur.peekStartName(); ok {
		text, err := b.set()
		if err != nil {
			return nil, err
		}
		prop = Intern(text)
	}
	if err := b.cur.expectEnd(); err != nil {
		return nil, err
	}
	return NewNumber(b.freshID(), allowUnderscore, prop), nil
}

func (b *builder) text() (Rule, error) {
	if err := b.cur.expectStart(Intern("text")); err != nil {
		return nil, err
	}
	allowEmptyEv, err := b.cur.next()
	if err != nil {
		return nil, err
	}
	prop := Symbol{}
	if _, ok := b.cur.peekStartName(); ok {
		pText, err := b.set()
		if err != nil {
			return nil, err
		}
		prop = Intern(pText)
	}
	if err := b.cur.expectEnd(); err != nil {
		return nil, err
	}
	return NewText(b.freshID(), allowEmptyEv.Bool, prop), nil
}

func (b *builder) reference() (Rule, error) {
	if err := b.cur.expectStart(Intern("reference")); err != nil {
		return nil, err
	}
	nameEv, err := b.cur.next()
	if err != nil {
		return nil, err
	}
	prop := Symbol{}
	if _, ok := b.cur.peekStartName(); ok {
		pText, err := b.set()
		if err != nil {
			return nil, err
		}
		prop = Intern(pText)
	}
	if err := b.cur.expectEnd(); err != nil {
		return nil, err
	}
	return NewReference(b.freshID(), nameEv.Str, prop), nil
}

func (b *builder) sequence() (Rule, error) {
	args, err := b.ruleList(Intern("sequence"))
	if err != nil {
		return nil, err
	}
	return NewSequence(b.freshID(), args...), nil
}

func (b *builder) selectRule() (Rule, error) {
	args, err := b.ruleList(Intern("select"))
	if err != nil {
		return nil, err
	}
	return NewSelect(b.freshID(), args...), nil
}

func (b *builder) ruleList(name Symbol) ([]Rule, error) {
	if err := b.cur.expectStart(name); err != nil {
		return nil, err
	}
	ruleSym := Intern("rule")
	var args []Rule
	for {
		n, ok := b.cur.peekStartName()
		if !ok || n != ruleSym {
			break
		}
		r, err := b.rule()
		if err != nil {
			return nil, err
		}
		args = append(args, r)
	}
	if err := b.cur.expectEnd(); err != nil {
		return nil, err
	}
	return args, nil
}

func (b *builder) optional() (Rule, error) {
	if err := b.cur.expectStart(Intern("optional")); err != nil {
		return nil, err
	}
	inner, err := b.rule()
	if err != nil {
		return nil, err
	}
	if err := b.cur.expectEnd(); err != nil {
		return nil, err
	}
	return NewOptional(b.freshID(), inner), nil
}

func (b *builder) separatedBy() (Rule, error) {
	if err := b.cur.expectStart(Intern("separated_by")); err != nil {
		return nil, err
	}
	optional, err := b.opt()
	if err != nil {
		return nil, err
	}
	allowTrail := false
	if ev, ok := b.cur.peek(); ok && ev.Kind == BoolProp && ev.Property == Intern("allow_trail") {
		allowTrail = ev.Bool
		b.cur.pos++
	}
	by, err := b.rule()
	if err != nil {
		return nil, err
	}
	inner, err := b.rule()
	if err != nil {
		return nil, err
	}
	if err := b.cur.expectEnd(); err != nil {
		return nil, err
	}
	return NewSeparatedBy(b.freshID(), by, inner, optional, allowTrail), nil
}

func (b *builder) token() (Rule, error) {
	if err := b.cur.expectStart(Intern("token")); err != nil {
		return nil, err
	}
	text, err := b.set()
	if err != nil {
		return nil, err
	}
	inverted := false
	prop := Symbol{}
	if ev, ok := b.cur.peek(); ok && ev.Kind == BoolProp && ev.Property == Intern("inverted") {
		inverted = ev.Bool
		b.cur.pos++
	}
	if _, ok := b.cur.peekStartName(); ok {
		pText, err := b.set()
		if err != nil {
			return nil, err
		}
		prop = Intern(pText)
	}
	if err := b.cur.expectEnd(); err != nil {
		return nil, err
	}
	return NewToken(b.freshID(), text, inverted, prop), nil
}

func (b *builder) untilAny(stopAtWhitespace bool) (Rule, error) {
	name := Intern("until_any")
	if stopAtWhitespace {
		name = Intern("until_any_or_whitespace")
	}
	if err := b.cur.expectStart(name); err != nil {
		return nil, err
	}
	any, err := b.set()
	if err != nil {
		return nil, err
	}
	optional, err := b.opt()
	if err != nil {
		return nil, err
	}
	prop := Symbol{}
	if _, ok := b.cur.peekStartName(); ok {
		pText, err := b.set()
		if err != nil {
			return nil, err
		}
		prop = Intern(pText)
	}
	if err := b.cur.expectEnd(); err != nil {
		return nil, err
	}
	return NewUntilAny(b.freshID(), any, stopAtWhitespace, optional, prop), nil
}

func (b *builder) repeat() (Rule, error) {
	if err := b.cur.expectStart(Intern("repeat")); err != nil {
		return nil, err
	}
	optional, err := b.opt()
	if err != nil {
		return nil, err
	}
	inner, err := b.rule()
	if err != nil {
		return nil, err
	}
	if err := b.cur.expectEnd(); err != nil {
		return nil, err
	}
	return NewRepeat(b.freshID(), optional, inner), nil
}

func (b *builder) lines() (Rule, error) {
	if err := b.cur.expectStart(Intern("lines")); err != nil {
		return nil, err
	}
	inner, err := b.rule()
	if err != nil {
		return nil, err
	}
	if err := b.cur.expectEnd(); err != nil {
		return nil, err
	}
	return NewLines(b.freshID(), inner), nil
}
