package main

import (
	"bufio"
	"strings"
	"testing"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "empty defaults to yes", input: "\n", want: true},
		{name: "y", input: "y\n", want: true},
		{name: "yes", input: "yes\n", want: true},
		{name: "uppercase Y", input: "Y\n", want: true},
		{name: "n", input: "n\n", want: false},
		{name: "no", input: "no\n", want: false},
		{name: "gibberish", input: "maybe\n", want: false},
		{name: "EOF reads as no", input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := confirm(bufio.NewReader(strings.NewReader(tt.input)), "question")
			if got != tt.want {
				t.Errorf("confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{
		"init", "status", "lock", "unlock", "enable", "disable",
		"check", "check-push", "why", "inject", "remove", "version",
	}

	have := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		have[c.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("command %q is not registered", name)
		}
	}
}

func TestIgnoreGitFlagIsGlobal(t *testing.T) {
	if rootCmd.PersistentFlags().Lookup("ignoregit") == nil {
		t.Error("--ignoregit persistent flag is missing")
	}
}
