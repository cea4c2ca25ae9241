package metagrammar

// Parse matches root (looked up by name in table) against chars from
// offset 0, appending meta-events to a fresh Tokenizer. It succeeds only if
// the match covers the whole input, plus optional trailing whitespace
// (spec §7, "a parse either succeeds... or fails with a single best error").
func Parse(table *Table, root string, chars []rune) ([]Event, error) {
	rule, ok := table.Root(root)
	if !ok {
		return nil, &ParseError{Kind: ExpectedNode, Text: root}
	}

	tk := NewTokenizer()
	rng, deepest, err := parseRule(table, rule, tk, chars, 0)
	if err != nil {
		return nil, err
	}

	end := rng.NextOffset()
	trailing := ScanWhitespace(chars, end)
	end = trailing.NextOffset()

	if end != len(chars) {
		if deepest != nil {
			return nil, deepest.Err
		}
		return nil, &ParseError{Kind: ExpectedNewline, Text: "unconsumed input remains"}
	}

	return tk.Events(), nil
}

// parseRule dispatches on the dynamic type of rule (spec §4.1). It returns
// the matched range and, on success, the deepest sub-error observed along
// the way (so an enclosing Select/Optional can still report it if the
// overall parse goes on to fail); on failure it returns a non-nil
// *ParseError directly.
func parseRule(table *Table, rule Rule, tk *Tokenizer, chars []rune, offset int) (Range, *located, *ParseError) {
	switch ru := rule.(type) {

	case *TokenRule:
		return parseToken(ru, tk, chars, offset)

	case *WhitespaceRule:
		rng := ScanWhitespace(chars, offset)
		if rng.Length == 0 && !ru.Optional {
			return rng, nil, &ParseError{Kind: ExpectedWhitespace, DebugID: ru.DebugID()}
		}
		return rng, nil, nil

	case *NumberRule:
		rng, val, perr := ScanNumber(chars, offset, ru.AllowUnderscore)
		if perr != nil {
			perr.DebugID = ru.DebugID()
			return rng, nil, perr
		}
		if !ru.Property.IsZero() {
			tk.Append(Event{Kind: F64Prop, Range: rng, Property: ru.Property, F64: val})
		}
		return rng, nil, nil

	case *TextRule:
		rng, s, perr := ScanText(chars, offset)
		if perr != nil {
			perr.DebugID = ru.DebugID()
			return rng, nil, perr
		}
		if len(s) == 0 && !ru.AllowEmpty {
			return rng, nil, &ParseError{Kind: ExpectedNonEmpty, DebugID: ru.DebugID()}
		}
		if !ru.Property.IsZero() {
			tk.Append(Event{Kind: StringProp, Range: rng, Property: ru.Property, Str: s})
		}
		return rng, nil, nil

	case *UntilAnyRule:
		rng, s := ScanUntilAny(chars, offset, ru.AnyCharacters, ru.StopAtWhitespace)
		if rng.Length == 0 && !ru.Optional {
			return rng, nil, &ParseError{Kind: ExpectedNonEmpty, DebugID: ru.DebugID()}
		}
		if !ru.Property.IsZero() {
			tk.Append(Event{Kind: StringProp, Range: rng, Property: ru.Property, Str: s})
		}
		return rng, nil, nil

	case *SequenceRule:
		return parseSequence(table, ru, tk, chars, offset)

	case *SelectRule:
		return parseSelect(table, ru, tk, chars, offset)

	case *OptionalRule:
		return parseOptional(table, ru, tk, chars, offset)

	case *SeparatedByRule:
		return parseSeparatedBy(table, ru, tk, chars, offset)

	case *LinesRule:
		return parseLines(table, ru, tk, chars, offset)

	case *RepeatRule:
		return parseRepeat(table, ru, tk, chars, offset)

	case *ReferenceRule:
		return parseReference(table, ru, tk, chars, offset)

	default:
		return NewRange(offset, 0), nil, &ParseError{Kind: InvalidRule, Text: "unknown rule variant"}
	}
}

func parseToken(ru *TokenRule, tk *Tokenizer, chars []rune, offset int) (Range, *located, *ParseError) {
	matched := MatchLiteral(chars, offset, ru.Text)
	if !ru.Inverted {
		if !matched {
			return NewRange(offset, 0), nil, &ParseError{Kind: ExpectedToken, Text: ru.Text, DebugID: ru.DebugID()}
		}
		rng := NewRange(offset, len([]rune(ru.Text)))
		if !ru.Property.IsZero() {
			tk.Append(Event{Kind: BoolProp, Range: rng, Property: ru.Property, Bool: true})
		}
		return rng, nil, nil
	}

	// Inverted: succeeds, with zero-length range, iff the literal is absent.
	if matched {
		return NewRange(offset, 0), nil, &ParseError{Kind: ExpectedInvertedToken, Text: ru.Text, DebugID: ru.DebugID()}
	}
	rng := NewRange(offset, 0)
	if !ru.Property.IsZero() {
		tk.Append(Event{Kind: BoolProp, Range: rng, Property: ru.Property, Bool: false})
	}
	return rng, nil, nil
}

func parseSequence(table *Table, ru *SequenceRule, tk *Tokenizer, chars []rune, offset int) (Range, *located, *ParseError) {
	start := offset
	var deepest *located
	for _, sub := range ru.Args {
		rng, d, perr := parseRule(table, sub, tk, chars, offset)
		deepest = updateDeepest(deepest, d)
		if perr != nil {
			deepest = updateDeepest(deepest, &located{rng, perr})
			return NewRange(start, offset-start), deepest, perr
		}
		offset = rng.NextOffset()
	}
	return NewRange(start, offset-start), deepest, nil
}

func parseSelect(table *Table, ru *SelectRule, tk *Tokenizer, chars []rune, offset int) (Range, *located, *ParseError) {
	if len(ru.Args) == 0 {
		return NewRange(offset, 0), nil, &ParseError{
			Kind: InvalidRule, Text: "Select requires at least one sub rule", DebugID: ru.DebugID(),
		}
	}
	cp := tk.Mark()
	var deepest *located
	for _, sub := range ru.Args {
		rng, d, perr := parseRule(table, sub, tk, chars, offset)
		if perr == nil {
			deepest = updateDeepest(deepest, d)
			return rng, deepest, nil
		}
		tk.Rollback(cp)
		deepest = updateDeepest(deepest, d)
		deepest = updateDeepest(deepest, &located{rng, perr})
	}
	return deepest.Range, nil, deepest.Err
}

func parseOptional(table *Table, ru *OptionalRule, tk *Tokenizer, chars []rune, offset int) (Range, *located, *ParseError) {
	cp := tk.Mark()
	rng, d, perr := parseRule(table, ru.Rule, tk, chars, offset)
	if perr != nil {
		tk.Rollback(cp)
		d = updateDeepest(d, &located{rng, perr})
		return NewRange(offset, 0), d, nil
	}
	return rng, d, nil
}

func parseSeparatedBy(table *Table, ru *SeparatedByRule, tk *Tokenizer, chars []rune, offset int) (Range, *located, *ParseError) {
	start := offset
	cpInitial := tk.Mark()

	rng, deepest, perr := parseRule(table, ru.Rule, tk, chars, offset)
	if perr != nil {
		if ru.Optional {
			tk.Rollback(cpInitial)
			deepest = updateDeepest(deepest, &located{rng, perr})
			return NewRange(start, 0), deepest, nil
		}
		deepest = updateDeepest(deepest, &located{rng, perr})
		return rng, deepest, perr
	}
	offset = rng.NextOffset()

	for {
		cpBeforeBy := tk.Mark()
		byRng, byDeepest, byErr := parseRule(table, ru.By, tk, chars, offset)
		deepest = updateDeepest(deepest, byDeepest)
		if byErr != nil {
			tk.Rollback(cpBeforeBy)
			deepest = updateDeepest(deepest, &located{byRng, byErr})
			break
		}
		afterBy := byRng.NextOffset()
		cpAfterBy := tk.Mark()

		ruleRng, ruleDeepest, ruleErr := parseRule(table, ru.Rule, tk, chars, afterBy)
		deepest = updateDeepest(deepest, ruleDeepest)
		if ruleErr != nil {
			deepest = updateDeepest(deepest, &located{ruleRng, ruleErr})
			if ru.AllowTrail {
				tk.Rollback(cpAfterBy)
				offset = afterBy
				break
			}
			return ruleRng, deepest, ruleErr
		}
		offset = ruleRng.NextOffset()
	}

	return NewRange(start, offset-start), deepest, nil
}

// indexOfNewline returns the index of the first '\n' in chars at or after
// from, or -1 if there is none.
func indexOfNewline(chars []rune, from int) int {
	for i := from; i < len(chars); i++ {
		if chars[i] == '\n' {
			return i
		}
	}
	return -1
}

func parseLines(table *Table, ru *LinesRule, tk *Tokenizer, chars []rune, offset int) (Range, *located, *ParseError) {
	start := offset
	var deepest *located
	for offset < len(chars) {
		lineCp := tk.Mark()
		lineStart := offset

		ws := ScanWhitespace(chars, offset)
		cursor := ws.NextOffset()
		if cursor >= len(chars) {
			break
		}

		nl := indexOfNewline(chars, cursor)
		end := len(chars)
		if nl != -1 {
			end = nl
		}
		window := chars[:end]

		rng, d, perr := parseRule(table, ru.Rule, tk, window, cursor)
		if perr != nil {
			tk.Rollback(lineCp)
			deepest = updateDeepest(deepest, &located{rng, perr})
			offset = lineStart
			break
		}
		deepest = updateDeepest(deepest, d)

		after := rng.NextOffset()
		if nl != -1 {
			after = nl + 1
		}
		offset = after
	}
	return NewRange(start, offset-start), deepest, nil
}

func parseRepeat(table *Table, ru *RepeatRule, tk *Tokenizer, chars []rune, offset int) (Range, *located, *ParseError) {
	start := offset
	count := 0
	var deepest *located
	for {
		cp := tk.Mark()
		rng, d, perr := parseRule(table, ru.Rule, tk, chars, offset)
		if perr != nil {
			tk.Rollback(cp)
			deepest = updateDeepest(deepest, d)
			deepest = updateDeepest(deepest, &located{rng, perr})
			break
		}
		deepest = updateDeepest(deepest, d)
		count++
		next := rng.NextOffset()
		if next == offset {
			// Zero-length match: stop after counting it once, else loop forever.
			offset = next
			break
		}
		offset = next
	}

	if count == 0 && !ru.Optional {
		return deepest.Range, deepest, deepest.Err
	}
	return NewRange(start, offset-start), deepest, nil
}

func parseReference(table *Table, ru *ReferenceRule, tk *Tokenizer, chars []rune, offset int) (Range, *located, *ParseError) {
	if !ru.resolved {
		return NewRange(offset, 0), nil, &ParseError{Kind: ExpectedNode, Text: ru.Name, DebugID: ru.DebugID()}
	}
	cp := tk.Mark()
	nameSym := Intern(ru.Name)
	tk.Append(Event{Kind: StartNode, Range: NewRange(offset, 0), Name: nameSym})

	target := table.Entries[ru.index].Rule
	rng, d, perr := parseRule(table, target, tk, chars, offset)
	if perr != nil {
		tk.Rollback(cp)
		return rng, d, perr
	}
	tk.Append(Event{Kind: EndNode, Range: rng})
	return rng, d, nil
}
