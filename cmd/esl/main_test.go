package main

import (
	"sort"
	"testing"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCmd()
	var got []string
	for _, c := range root.Commands() {
		got = append(got, c.Name())
	}
	sort.Strings(got)

	want := []string{"build-catalog", "publish-catalog", "resolve", "translate"}
	if len(got) != len(want) {
		t.Fatalf("subcommands = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("subcommands = %v, want %v", got, want)
			break
		}
	}
}

func TestTranslateRequiresSentence(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"translate"})
	if err := root.Execute(); err == nil {
		t.Fatal("expected argument error")
	}
}
