package format

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/dhamidi/megac/ast"
	"github.com/dhamidi/megac/grammar"
	"github.com/dhamidi/megac/lex"
	"github.com/dhamidi/megac/parse"
)

func parseSum(t *testing.T, src string) *ast.Tree {
	t.Helper()
	g, err := grammar.ParseString("sum.y", "start : IDENTIFIER %keep '+' IDENTIFIER ;")
	if err != nil {
		t.Fatal(err)
	}
	tree, err := parse.File(g, lex.NewFile("sum.mc", []byte(src)))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return tree
}

func TestNew(t *testing.T) {
	for _, name := range []string{"", "text", "json", "line"} {
		if _, err := New(name, &bytes.Buffer{}); err != nil {
			t.Errorf("New(%q) error: %v", name, err)
		}
	}
	if _, err := New("yaml", &bytes.Buffer{}); err == nil {
		t.Errorf("New(yaml) should fail")
	}
}

func TestTreeEncoder(t *testing.T) {
	tree := parseSum(t, "a + b")
	var buf bytes.Buffer
	if err := NewTreeEncoder(&buf).Encode(tree); err != nil {
		t.Fatal(err)
	}
	if buf.String() != tree.String() {
		t.Errorf("Encode() =\n%s\nwant\n%s", buf.String(), tree.String())
	}
}

func TestASTJSONEncoder(t *testing.T) {
	tree := parseSum(t, "a + b")
	var buf bytes.Buffer
	if err := NewASTJSONEncoder(&buf).Encode(tree); err != nil {
		t.Fatal(err)
	}

	var got astJSONNode
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if got.Kind != "start" || len(got.Children) != 3 {
		t.Fatalf("root = %+v", got)
	}
	if got.Span == nil || got.Span.Start.Column != 1 || got.Span.End.Column != 6 {
		t.Errorf("root span = %+v", got.Span)
	}

	op := got.Children[1]
	if op.Kind != "+" || !op.Kept || op.Token != "+" {
		t.Errorf("operator = %+v", op)
	}
	if got.Children[2].Token != "b" {
		t.Errorf("last child token = %q, want b", got.Children[2].Token)
	}
}

func TestLineEncoder(t *testing.T) {
	tree := parseSum(t, "a + b")
	var buf bytes.Buffer
	if err := NewLineEncoder(&buf).Encode(tree); err != nil {
		t.Fatal(err)
	}

	want := "0\tstart\t1:1\t1:6\n" +
		"1\tIDENTIFIER\t1:1\t1:2\ta\n" +
		"1\t+\t1:3\t1:4\t+\n" +
		"1\tIDENTIFIER\t1:5\t1:6\tb\n"
	if buf.String() != want {
		t.Errorf("Encode() =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestWriteTokens(t *testing.T) {
	tokens, err := lex.Tokenize(lex.NewFile("t.mc", []byte("a +\nb 42")))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteTokens(&buf, tokens); err != nil {
		t.Fatal(err)
	}
	want := "    1 | I[a] P[+]\n" +
		"    2 | I[b] N[42]\n"
	if buf.String() != want {
		t.Errorf("WriteTokens() =\n%q\nwant\n%q", buf.String(), want)
	}
}
