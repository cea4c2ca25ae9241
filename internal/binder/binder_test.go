package binder

import (
	"testing"

	"github.com/cmr/meta/internal/metagrammar"
)

func TestBindPopulatesRequiredAndOptionalFields(t *testing.T) {
	a := metagrammar.Intern("a")
	b := metagrammar.Intern("b")

	events := []metagrammar.Event{
		{Kind: metagrammar.F64Prop, Property: a, F64: 3},
		{Kind: metagrammar.StringProp, Property: b, Str: "hello"},
	}

	var aVal float64
	var bVal string
	var cVal bool
	fields := []Field{
		F64Field("a", &aVal),
		StringField("b", &bVal),
		MaybeBoolField("c", &cVal),
	}

	if err := Bind(events, fields); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if aVal != 3 {
		t.Errorf("a = %v, want 3", aVal)
	}
	if bVal != "hello" {
		t.Errorf("b = %q, want %q", bVal, "hello")
	}
	if cVal != false {
		t.Errorf("c = %v, want zero value for an absent optional field", cVal)
	}
}

func TestBindReportsMissingRequiredField(t *testing.T) {
	var aVal float64
	fields := []Field{F64Field("a", &aVal)}

	err := Bind(nil, fields)
	if err == nil {
		t.Fatal("expected a BindingError, got nil")
	}
	be, ok := err.(*BindingError)
	if !ok {
		t.Fatalf("expected *BindingError, got %T", err)
	}
	if len(be.Missing) != 1 || be.Missing[0] != "a" {
		t.Errorf("unexpected Missing: %v", be.Missing)
	}
}

func TestBindCapturesNodeFieldForRecursiveBinding(t *testing.T) {
	outer := metagrammar.Intern("outer")
	x := metagrammar.Intern("x")

	events := []metagrammar.Event{
		{Kind: metagrammar.StartNode, Name: outer},
		{Kind: metagrammar.F64Prop, Property: x, F64: 9},
		{Kind: metagrammar.EndNode},
	}

	fields := []Field{NodeField("outer"), MaybeNodeField("inner")}
	if err := Bind(events, fields); err != nil {
		t.Fatalf("Bind: %v", err)
	}

	sub := Sub(fields, "outer")
	if len(sub) != 1 || sub[0].F64 != 9 {
		t.Fatalf("unexpected sub-events for outer: %+v", sub)
	}
	if got := Sub(fields, "inner"); got != nil {
		t.Errorf("expected nil sub-events for absent optional node, got %+v", got)
	}
}
