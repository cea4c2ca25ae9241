// Package binder projects a metagrammar event stream onto a fixed set of
// named fields (spec §6, "Consumer contract"): StartNode opens a scope,
// Bool/F64/String events populate it, EndNode closes it, and a struct
// declares which of its fields are required versus optional.
package binder

import (
	"fmt"
	"strings"

	"github.com/cmr/meta/internal/metagrammar"
)

// Kind identifies which Go type a Field binds to.
type Kind int

const (
	KindBool Kind = iota
	KindF64
	KindString
	KindNode
)

// Field describes one slot a Reader should fill from the event stream.
// Required fields missing at the closing EndNode produce a *BindingError;
// optional ("Maybe") fields are simply left at their zero value.
type Field struct {
	Name     string
	Required bool
	Kind     Kind

	boolDst   *bool
	f64Dst    *float64
	stringDst *string

	seen  bool
	inner []metagrammar.Event // populated for KindNode fields
}

// BoolField declares a required bool property.
func BoolField(name string, dst *bool) Field {
	return Field{Name: name, Required: true, Kind: KindBool, boolDst: dst}
}

// MaybeBoolField declares an optional bool property.
func MaybeBoolField(name string, dst *bool) Field {
	return Field{Name: name, Required: false, Kind: KindBool, boolDst: dst}
}

// F64Field declares a required numeric property.
func F64Field(name string, dst *float64) Field {
	return Field{Name: name, Required: true, Kind: KindF64, f64Dst: dst}
}

// MaybeF64Field declares an optional numeric property.
func MaybeF64Field(name string, dst *float64) Field {
	return Field{Name: name, Required: false, Kind: KindF64, f64Dst: dst}
}

// StringField declares a required string property.
func StringField(name string, dst *string) Field {
	return Field{Name: name, Required: true, Kind: KindString, stringDst: dst}
}

// MaybeStringField declares an optional string property.
func MaybeStringField(name string, dst *string) Field {
	return Field{Name: name, Required: false, Kind: KindString, stringDst: dst}
}

// NodeField declares a required child node; its inner events are
// retrieved with Sub after Bind returns so the caller can recursively bind
// into a nested struct.
func NodeField(name string) Field {
	return Field{Name: name, Required: true, Kind: KindNode}
}

// MaybeNodeField declares an optional child node.
func MaybeNodeField(name string) Field {
	return Field{Name: name, Required: false, Kind: KindNode}
}

// BindingError reports required fields that were never populated. Unlike a
// *metagrammar.ParseError, this is raised after a successful parse, against
// a specific consumer's field layout (spec §6).
type BindingError struct {
	Missing []string
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("binder: missing required field(s): %s", strings.Join(e.Missing, ", "))
}

// Bind populates fields from a flat run of events (no enclosing
// StartNode/EndNode of its own - callers typically pass the result of
// metagrammar.Parse directly, or the inner slice of a NodeField via Sub).
// Events belonging to a nested node are skipped over rather than
// misattributed to the current scope, except when that node matches a
// declared NodeField/MaybeNodeField, whose inner slice is captured for a
// later call to Sub.
func Bind(events []metagrammar.Event, fields []Field) error {
	byName := make(map[string]*Field, len(fields))
	for i := range fields {
		byName[fields[i].Name] = &fields[i]
	}

	for i := 0; i < len(events); i++ {
		ev := events[i]
		switch ev.Kind {
		case metagrammar.BoolProp:
			if f, ok := byName[ev.Property.String()]; ok && f.Kind == KindBool {
				*f.boolDst = ev.Bool
				f.seen = true
			}
		case metagrammar.F64Prop:
			if f, ok := byName[ev.Property.String()]; ok && f.Kind == KindF64 {
				*f.f64Dst = ev.F64
				f.seen = true
			}
		case metagrammar.StringProp:
			if f, ok := byName[ev.Property.String()]; ok && f.Kind == KindString {
				*f.stringDst = ev.Str
				f.seen = true
			}
		case metagrammar.StartNode:
			end := matchingEnd(events, i)
			if f, ok := byName[ev.Name.String()]; ok && f.Kind == KindNode {
				f.seen = true
				f.inner = events[i+1 : end]
			}
			i = end
		}
	}

	var missing []string
	for i := range fields {
		if fields[i].Required && !fields[i].seen {
			missing = append(missing, fields[i].Name)
		}
	}
	if len(missing) > 0 {
		return &BindingError{Missing: missing}
	}
	return nil
}

// Sub returns the inner event slice captured for a bound NodeField /
// MaybeNodeField, or nil if it was optional and absent.
func Sub(fields []Field, name string) []metagrammar.Event {
	for i := range fields {
		if fields[i].Name == name && fields[i].Kind == KindNode {
			return fields[i].inner
		}
	}
	return nil
}

// matchingEnd returns the index of the EndNode balancing the StartNode at
// start, tracking nesting depth (spec's "balanced nodes" property).
func matchingEnd(events []metagrammar.Event, start int) int {
	depth := 0
	for i := start; i < len(events); i++ {
		switch events[i].Kind {
		case metagrammar.StartNode:
			depth++
		case metagrammar.EndNode:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(events) - 1
}
