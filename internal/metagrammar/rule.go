package metagrammar

// Rule is the sealed sum type of the rule algebra (spec §3.1). Every variant
// is a pointer type so Reference's resolved-index cache (the only mutable
// slot in a rule tree) can be written exactly once, in place, during name
// resolution, and shared by every parse that follows.
type Rule interface {
	// DebugID returns the opaque id used to identify the rule in error
	// messages. It carries no parsing semantics.
	DebugID() int

	isRule()
}

type base struct {
	debugID int
}

func (b *base) DebugID() int { return b.debugID }
func (*base) isRule()        {}

// TokenRule matches a literal (or its absence, when Inverted).
type TokenRule struct {
	base
	Text     string
	Inverted bool
	Property Symbol
}

// NewToken builds a TokenRule.
func NewToken(debugID int, text string, inverted bool, property Symbol) *TokenRule {
	return &TokenRule{base{debugID}, text, inverted, property}
}

// WhitespaceRule consumes a maximal whitespace run.
type WhitespaceRule struct {
	base
	Optional bool
}

// NewWhitespace builds a WhitespaceRule.
func NewWhitespace(debugID int, optional bool) *WhitespaceRule {
	return &WhitespaceRule{base{debugID}, optional}
}

// NumberRule consumes a decimal number.
type NumberRule struct {
	base
	AllowUnderscore bool
	Property        Symbol
}

// NewNumber builds a NumberRule.
func NewNumber(debugID int, allowUnderscore bool, property Symbol) *NumberRule {
	return &NumberRule{base{debugID}, allowUnderscore, property}
}

// TextRule consumes a double-quoted string literal.
type TextRule struct {
	base
	AllowEmpty bool
	Property   Symbol
}

// NewText builds a TextRule.
func NewText(debugID int, allowEmpty bool, property Symbol) *TextRule {
	return &TextRule{base{debugID}, allowEmpty, property}
}

// UntilAnyRule consumes characters until it meets any of AnyCharacters (and,
// if StopAtWhitespace, any whitespace too). It implements both
// UntilAnyOrWhitespace (StopAtWhitespace=true) and UntilAny
// (StopAtWhitespace=false) from spec §3.1.
type UntilAnyRule struct {
	base
	AnyCharacters    string
	StopAtWhitespace bool
	Optional         bool
	Property         Symbol
}

// NewUntilAny builds an UntilAnyRule.
func NewUntilAny(debugID int, anyCharacters string, stopAtWhitespace, optional bool, property Symbol) *UntilAnyRule {
	return &UntilAnyRule{base{debugID}, anyCharacters, stopAtWhitespace, optional, property}
}

// SequenceRule matches every sub-rule in order.
type SequenceRule struct {
	base
	Args []Rule
}

// NewSequence builds a SequenceRule.
func NewSequence(debugID int, args ...Rule) *SequenceRule {
	return &SequenceRule{base{debugID}, args}
}

// SelectRule matches the first sub-rule that succeeds.
type SelectRule struct {
	base
	Args []Rule
}

// NewSelect builds a SelectRule.
func NewSelect(debugID int, args ...Rule) *SelectRule {
	return &SelectRule{base{debugID}, args}
}

// OptionalRule tries Rule, succeeding empty on failure.
type OptionalRule struct {
	base
	Rule Rule
}

// NewOptional builds an OptionalRule.
func NewOptional(debugID int, rule Rule) *OptionalRule {
	return &OptionalRule{base{debugID}, rule}
}

// SeparatedByRule matches one-or-more (zero-or-more iff Optional)
// applications of Rule, separated by By.
type SeparatedByRule struct {
	base
	By         Rule
	Rule       Rule
	Optional   bool
	AllowTrail bool
}

// NewSeparatedBy builds a SeparatedByRule.
func NewSeparatedBy(debugID int, by, rule Rule, optional, allowTrail bool) *SeparatedByRule {
	return &SeparatedByRule{base{debugID}, by, rule, optional, allowTrail}
}

// LinesRule matches zero-or-more lines, each containing one application of
// Rule within the bounds of that line.
type LinesRule struct {
	base
	Rule Rule
}

// NewLines builds a LinesRule.
func NewLines(debugID int, rule Rule) *LinesRule {
	return &LinesRule{base{debugID}, rule}
}

// RepeatRule matches one-or-more (zero-or-more iff Optional) greedy
// applications of Rule.
type RepeatRule struct {
	base
	Optional bool
	Rule     Rule
}

// NewRepeat builds a RepeatRule.
func NewRepeat(debugID int, optional bool, rule Rule) *RepeatRule {
	return &RepeatRule{base{debugID}, optional, rule}
}

// ReferenceRule re-enters the driver at a named rule table entry, wrapping
// the sub-parse in StartNode/EndNode. Index/resolved are written exactly
// once, by Resolve, before any parse begins.
type ReferenceRule struct {
	base
	Name     string
	Property Symbol

	index    int
	resolved bool
}

// NewReference builds an unresolved ReferenceRule; call (*Table).Resolve
// before parsing with it.
func NewReference(debugID int, name string, property Symbol) *ReferenceRule {
	return &ReferenceRule{base: base{debugID}, Name: name, Property: property}
}
