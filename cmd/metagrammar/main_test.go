package main

import "testing"

func TestRootCommandWiresAllSubcommands(t *testing.T) {
	root := rootCommand()

	want := map[string]bool{"parse": false, "validate": false, "registry": false}
	for _, c := range root.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("expected a %q subcommand", name)
		}
	}
}

func TestRegistryCommandWiresSaveListGet(t *testing.T) {
	reg := registryCommand()

	want := map[string]bool{"save": false, "list": false, "get": false}
	for _, c := range reg.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("expected a %q registry subcommand", name)
		}
	}
}
