package metagrammar

// Bootstrap returns the fixed rule table that parses the textual grammar
// notation (spec §6): a grammar for grammars. Every debug id and structural
// choice here mirrors the reference bootstrap table; it is the one part of
// the engine that cannot be derived from anything else, since it is what
// lets the engine parse its own grammar documents.
func Bootstrap() *Table {
	opt := Intern("optional")
	inv := Intern("inverted")
	prop := Intern("property")
	any := Intern("any_characters")
	const seps = "[]{}():.!?\""

	// string: [..seps!"name" ":" w? t?"text"]
	stringRule := NewSequence(1000,
		NewUntilAny(1001, seps, true, false, Intern("name")),
		NewToken(1002, ":", false, Symbol{}),
		NewWhitespace(1003, true),
		NewText(1004, true, Intern("text")),
	)

	// node: [$"id" w! t!"name" w! @"rule""rule"]
	nodeRule := NewSequence(2000,
		NewNumber(2001, false, Intern("id")),
		NewWhitespace(2002, false),
		NewText(2003, false, Intern("name")),
		NewWhitespace(2004, false),
		NewReference(2005, "rule", Intern("rule")),
	)

	// set: {t!"value" ..seps!"ref"}
	setRule := NewSelect(3003,
		NewText(3004, false, Intern("value")),
		NewUntilAny(3005, seps, true, false, Intern("ref")),
	)

	// opt: {"?"opt "!"!opt}
	optRule := NewSelect(4000,
		NewToken(4001, "?", false, opt),
		NewToken(4002, "!", true, opt),
	)

	// number: ["$" ?"_""underscore" ?@"set"prop]
	numberRule := NewSequence(5000,
		NewToken(5001, "$", false, Symbol{}),
		NewOptional(5002, NewToken(5003, "_", false, Intern("underscore"))),
		NewOptional(5004, NewReference(5005, "set", Intern("property"))),
	)

	// text: ["t" {"?""allow_empty" "!"!"allow_empty"} ?@"set"prop]
	textRule := NewSequence(6000,
		NewToken(6001, "t", false, Symbol{}),
		NewSelect(6002,
			NewToken(6003, "?", false, Intern("allow_empty")),
			NewToken(6004, "!", true, Intern("allow_empty")),
		),
		NewOptional(6005, NewReference(6006, "set", prop)),
	)

	// reference: ["@" t!"name" ?@"set"prop]
	referenceRule := NewSequence(7000,
		NewToken(7001, "@", false, Symbol{}),
		NewText(7002, false, Intern("name")),
		NewOptional(7003, NewReference(7004, "set", prop)),
	)

	// sequence: ["[" w? s!.(w!) {@"rule""rule"} "]"]
	sequenceRule := NewSequence(8000,
		NewToken(8001, "[", false, Symbol{}),
		NewWhitespace(8002, true),
		NewSeparatedBy(8003,
			NewWhitespace(8004, false),
			NewReference(8005, "rule", Intern("rule")),
			false, true),
		NewToken(8006, "]", false, Symbol{}),
	)

	// select: ["{" w? s!.(w!) {@"rule""rule"} "}"]
	selectRule := NewSequence(9000,
		NewToken(9001, "{", false, Symbol{}),
		NewWhitespace(9002, true),
		NewSeparatedBy(9003,
			NewWhitespace(9004, false),
			NewReference(9005, "rule", Intern("rule")),
			false, true),
		NewToken(9006, "}", false, Symbol{}),
	)

	// separated_by: ["s" @"opt" ?".""allow_trail"
	//  "(" w? @"rule""by" w? ")" w? "{" w? @"rule""rule" w? "}"]
	separatedByRule := NewSequence(10000,
		NewToken(10001, "s", false, Symbol{}),
		NewReference(10002, "opt", Symbol{}),
		NewOptional(10003, NewToken(10004, ".", false, Intern("allow_trail"))),
		NewToken(10004, "(", false, Symbol{}),
		NewWhitespace(10005, true),
		NewReference(10006, "rule", Intern("by")),
		NewWhitespace(10007, true),
		NewToken(10008, ")", false, Symbol{}),
		NewWhitespace(10009, true),
		NewToken(10010, "{", false, Symbol{}),
		NewWhitespace(10011, true),
		NewReference(10012, "rule", Intern("rule")),
		NewWhitespace(10013, true),
		NewToken(10014, "}", false, Symbol{}),
	)

	// token: [@"set""text" ?[?"!"inv @"set"prop]]
	tokenRule := NewSequence(11000,
		NewReference(11001, "set", Intern("text")),
		NewOptional(11002, NewSequence(11003,
			NewOptional(11006, NewToken(11007, "!", false, inv)),
			NewReference(11009, "set", prop),
		)),
	)

	// optional: ["?" @"rule""rule"]
	optionalRule := NewSequence(12001,
		NewToken(12002, "?", false, Symbol{}),
		NewReference(12004, "rule", Intern("rule")),
	)

	// whitespace: ["w" @"opt"]
	whitespaceRule := NewSequence(13000,
		NewToken(13001, "w", false, Symbol{}),
		NewReference(13002, "opt", Symbol{}),
	)

	// until_any_or_whitespace: [".." @"set"any @"opt" ?@"set"prop]
	untilAnyOrWhitespaceRule := NewSequence(14001,
		NewToken(14002, "..", false, Symbol{}),
		NewReference(14003, "set", any),
		NewReference(14004, "opt", Symbol{}),
		NewOptional(14005, NewReference(14006, "set", prop)),
	)

	// until_any: ["..." @"set"any @"opt" ?@"set"prop]
	untilAnyRule := NewSequence(15000,
		NewToken(15001, "...", false, Symbol{}),
		NewReference(15002, "set", any),
		NewReference(15003, "opt", Symbol{}),
		NewOptional(15004, NewReference(15005, "set", prop)),
	)

	// repeat: ["r" @"opt" "(" @"rule""rule" ")"]
	repeatRule := NewSequence(16000,
		NewToken(16001, "r", false, Symbol{}),
		NewReference(16002, "opt", Symbol{}),
		NewToken(16003, "(", false, Symbol{}),
		NewReference(16004, "rule", Intern("rule")),
		NewToken(16005, ")", false, Symbol{}),
	)

	// lines: ["l(" w? @"rule""rule" w? ")"]
	linesRule := NewSequence(17000,
		NewToken(17001, "l(", false, Symbol{}),
		NewWhitespace(17002, true),
		NewReference(17003, "rule", Intern("rule")),
		NewWhitespace(17004, true),
		NewToken(17005, ")", false, Symbol{}),
	)

	// rule: selects among every rule-form keyword above, tried in an order
	// that keeps "..." from being shadowed by ".." and keeps the compound
	// forms (sequence/select/separated_by) ahead of the bare token form.
	ruleRule := NewSelect(18000,
		NewReference(18009, "whitespace", Intern("whitespace")),
		NewReference(18010, "until_any", Intern("until_any")),
		NewReference(18009, "until_any_or_whitespace", Intern("until_any_or_whitespace")),
		NewReference(18012, "lines", Intern("lines")),
		NewReference(18011, "repeat", Intern("repeat")),
		NewReference(18001, "number", Intern("number")),
		NewReference(18002, "text", Intern("text")),
		NewReference(18003, "reference", Intern("reference")),
		NewReference(18004, "sequence", Intern("sequence")),
		NewReference(18005, "select", Intern("select")),
		NewReference(18006, "separated_by", Intern("separated_by")),
		NewReference(18007, "token", Intern("token")),
		NewReference(18008, "optional", Intern("optional")),
	)

	// document: [l(@"string""string") l(@"node""node") w?]
	documentRule := NewSequence(19000,
		NewLines(19001, NewReference(19002, "string", Intern("string"))),
		NewLines(19002, NewReference(19003, "node", Intern("node"))),
		NewWhitespace(19004, true),
	)

	table := NewTable(
		NamedRule{"string", stringRule},
		NamedRule{"node", nodeRule},
		NamedRule{"set", setRule},
		NamedRule{"opt", optRule},
		NamedRule{"number", numberRule},
		NamedRule{"text", textRule},
		NamedRule{"reference", referenceRule},
		NamedRule{"sequence", sequenceRule},
		NamedRule{"select", selectRule},
		NamedRule{"separated_by", separatedByRule},
		NamedRule{"token", tokenRule},
		NamedRule{"optional", optionalRule},
		NamedRule{"whitespace", whitespaceRule},
		NamedRule{"until_any_or_whitespace", untilAnyOrWhitespaceRule},
		NamedRule{"until_any", untilAnyRule},
		NamedRule{"repeat", repeatRule},
		NamedRule{"lines", linesRule},
		NamedRule{"rule", ruleRule},
		NamedRule{"document", documentRule},
	)
	if err := table.Resolve(); err != nil {
		// The bootstrap table is fixed at compile time; a resolution
		// failure here is a programming error, not a runtime condition.
		panic(err)
	}
	return table
}
