package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dhamidi/megac/grammar"
	"github.com/dhamidi/megac/parse"
)

func newTestRepl(t *testing.T) (*repl, *bytes.Buffer) {
	t.Helper()
	g, err := grammar.Default()
	if err != nil {
		t.Fatalf("grammar.Default() error: %v", err)
	}
	var out bytes.Buffer
	return &repl{parser: parse.New(g), g: g, format: "text", out: &out}, &out
}

func TestIncomplete(t *testing.T) {
	tests := []struct {
		name  string
		start string
		src   string
		want  bool
	}{
		{"complete", "", "int x = 1;", false},
		{"open brace", "", "void f() {", true},
		{"missing semicolon", "", "int x = 1", true},
		{"open comment", "", "int x; /* note", true},
		{"bad token", "", "int x = ;", false},
		{"trailing input", "", "int x; }", false},
		{"empty", "", "", false},
		{"dangling operator after a complete prefix", "expression", "a +", true},
		{"stray token after a complete prefix", "expression", "a b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRepl(t)
			if tt.start != "" {
				r.command(":start " + tt.start)
			}
			_, err := r.parse(tt.src)
			if got := incomplete(err); got != tt.want {
				t.Errorf("incomplete(%v) = %v, want %v", err, got, tt.want)
			}
		})
	}
}

func TestReplCommands(t *testing.T) {
	r, out := newTestRepl(t)

	if r.command(":format json") {
		t.Fatal(":format quit the repl")
	}
	if r.format != "json" {
		t.Errorf("format = %q, want json", r.format)
	}

	r.command(":format yaml")
	if r.format != "json" {
		t.Errorf("format changed to %q by an unknown name", r.format)
	}

	r.command(":start expression")
	if r.parser.Start() != "expression" {
		t.Errorf("start = %q, want expression", r.parser.Start())
	}
	r.command(":start nope")
	if !strings.Contains(out.String(), `unknown symbol "nope"`) {
		t.Errorf("output = %q", out.String())
	}

	if !r.command(":quit") {
		t.Error(":quit did not quit")
	}
}

func TestReplEval(t *testing.T) {
	r, out := newTestRepl(t)
	r.command(":start expression")

	r.eval("a + b")
	want := "- additive_expression\n  |\n  |- IDENTIFIER: a\n  |\n  |- TOKEN: +\n  |\n   - IDENTIFIER: b\n"
	if out.String() != want {
		t.Errorf("eval output =\n%s\nwant\n%s", out.String(), want)
	}

	out.Reset()
	r.eval(")")
	if !strings.HasPrefix(out.String(), "Parser failed in line 1.") {
		t.Errorf("eval error output = %q", out.String())
	}

	out.Reset()
	r.eval("a +")
	if !strings.HasPrefix(out.String(), "Not all tokens used.") {
		t.Errorf("eval trailing output = %q", out.String())
	}
}

func TestReplStartKeepsOptions(t *testing.T) {
	r, _ := newTestRepl(t)
	applied := 0
	r.opts = []parse.Option{func(*parse.Parser) { applied++ }}

	r.command(":start expression")
	if applied != 1 {
		t.Errorf("option applied %d times, want 1", applied)
	}
	if r.parser.Start() != "expression" {
		t.Errorf("start = %q, want expression", r.parser.Start())
	}
}
