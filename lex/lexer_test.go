package lex

import (
	"errors"
	"strings"
	"testing"
)

func tokenize(t *testing.T, input string, opts ...Option) []Token {
	t.Helper()
	tokens, err := Tokenize(NewFile("test.mc", []byte(input)), opts...)
	if err != nil {
		t.Fatalf("Tokenize(%q) error: %v", input, err)
	}
	return tokens
}

func TestLexerIdentifiers(t *testing.T) {
	tests := []string{
		"foo",
		"Bar",
		"_private",
		"with123Numbers",
		"SCREAMING_CASE",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			tokens := tokenize(t, input)
			if len(tokens) != 1 {
				t.Fatalf("got %d tokens, want 1", len(tokens))
			}
			if tokens[0].Kind != Identifier {
				t.Errorf("Kind = %v, want %v", tokens[0].Kind, Identifier)
			}
			if tokens[0].Literal != input {
				t.Errorf("Literal = %q, want %q", tokens[0].Literal, input)
			}
		})
	}
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input string
		value uint64
	}{
		{"0", 0},
		{"42", 42},
		{"0x1F", 31},
		{"0xa2", 162},
		{"0b101", 5},
		{"'a'", 'a'},
		{`'\n'`, '\n'},
		{`'\x41'`, 'A'},
		{`'\101'`, 'A'},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := tokenize(t, tt.input)
			if len(tokens) != 1 {
				t.Fatalf("got %d tokens, want 1", len(tokens))
			}
			if tokens[0].Kind != Numeric {
				t.Errorf("Kind = %v, want %v", tokens[0].Kind, Numeric)
			}
			if tokens[0].Value != tt.value {
				t.Errorf("Value = %d, want %d", tokens[0].Value, tt.value)
			}
			if tokens[0].Literal != tt.input {
				t.Errorf("Literal = %q, want %q", tokens[0].Literal, tt.input)
			}
		})
	}
}

func TestLexerStrings(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"hello"`, "hello"},
		{`""`, ""},
		{`"a\tb"`, "a\tb"},
		{`"quote \" inside"`, `quote " inside`},
		{`"\x48i"`, "Hi"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := tokenize(t, tt.input)
			if len(tokens) != 1 {
				t.Fatalf("got %d tokens, want 1", len(tokens))
			}
			if tokens[0].Kind != StringLiteral {
				t.Errorf("Kind = %v, want %v", tokens[0].Kind, StringLiteral)
			}
			if tokens[0].Literal != tt.want {
				t.Errorf("Literal = %q, want %q", tokens[0].Literal, tt.want)
			}
		})
	}
}

func TestLexerPunctuators(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"<<=", []string{"<<="}},
		{"a->b", []string{"a", "->", "b"}},
		{"x+++y", []string{"x", "++", "+", "y"}},
		{"::", []string{"::"}},
		{"a.b", []string{"a", ".", "b"}},
		{"{}();", []string{"{", "}", "(", ")", ";"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := tokenize(t, tt.input)
			var got []string
			for _, tok := range tokens {
				got = append(got, tok.Literal)
			}
			if strings.Join(got, " ") != strings.Join(tt.want, " ") {
				t.Errorf("literals = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLexerMagicTokens(t *testing.T) {
	tokens := tokenize(t, "a <=> b", WithMagicTokens("<=>"))
	if len(tokens) != 3 {
		t.Fatalf("got %d tokens, want 3", len(tokens))
	}
	if tokens[1].Literal != "<=>" {
		t.Errorf("Literal = %q, want %q", tokens[1].Literal, "<=>")
	}

	tokens = tokenize(t, "a <=> b")
	if tokens[1].Literal != "<=" {
		t.Errorf("without magic token Literal = %q, want %q", tokens[1].Literal, "<=")
	}
}

func TestLexerFlags(t *testing.T) {
	tokens := tokenize(t, "int x;\n  y /* c */z")
	want := []struct {
		literal     string
		hasSpace    bool
		startOfLine bool
		line        int
	}{
		{"int", false, true, 1},
		{"x", true, false, 1},
		{";", false, false, 1},
		{"y", true, true, 2},
		{"z", true, false, 2},
	}

	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i, w := range want {
		tok := tokens[i]
		if tok.Literal != w.literal {
			t.Errorf("token %d Literal = %q, want %q", i, tok.Literal, w.literal)
		}
		if tok.HasSpace != w.hasSpace {
			t.Errorf("token %d HasSpace = %v, want %v", i, tok.HasSpace, w.hasSpace)
		}
		if tok.StartOfLine != w.startOfLine {
			t.Errorf("token %d StartOfLine = %v, want %v", i, tok.StartOfLine, w.startOfLine)
		}
		if tok.Line() != w.line {
			t.Errorf("token %d Line = %d, want %d", i, tok.Line(), w.line)
		}
	}
}

func TestLexerComments(t *testing.T) {
	tokens := tokenize(t, "a // line comment\n/* block\ncomment */ b")
	if len(tokens) != 2 {
		t.Fatalf("got %d tokens, want 2", len(tokens))
	}
	if tokens[1].Literal != "b" || tokens[1].Line() != 3 {
		t.Errorf("second token = %q at line %d, want \"b\" at line 3", tokens[1].Literal, tokens[1].Line())
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"0x", "malformed hexadecimal constant"},
		{"0b2", "malformed binary constant"},
		{"0a", "malformed number constant"},
		{`"abc`, "unclosed string literal"},
		{"'a", "unclosed character literal"},
		{"/* never closed", "unclosed block comment"},
		{`"\xZZ"`, "invalid hex escape sequence"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Tokenize(NewFile("test.mc", []byte(tt.input)))
			var lexErr *Error
			if !errors.As(err, &lexErr) {
				t.Fatalf("error = %v, want *lex.Error", err)
			}
			if lexErr.Message != tt.message {
				t.Errorf("Message = %q, want %q", lexErr.Message, tt.message)
			}
		})
	}
}

func TestTokenString(t *testing.T) {
	tokens := tokenize(t, `foo + "s" 7`)
	want := []string{"I[foo]", "P[+]", "S[s]", "N[7]"}
	for i, w := range want {
		if got := tokens[i].String(); got != w {
			t.Errorf("tokens[%d].String() = %q, want %q", i, got, w)
		}
	}
}
