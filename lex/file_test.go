package lex

import "testing"

func TestNewFileNormalizes(t *testing.T) {
	f := NewFile("test.mc", []byte("\xef\xbb\xbfone\r\ntwo\rthree"))

	if got := string(f.Data); got != "one\ntwo\nthree" {
		t.Errorf("Data = %q, want %q", got, "one\ntwo\nthree")
	}
	if f.LineCount() != 3 {
		t.Errorf("LineCount() = %d, want 3", f.LineCount())
	}

	tests := []struct {
		line int
		want string
	}{
		{1, "one"},
		{2, "two"},
		{3, "three"},
		{0, ""},
		{4, ""},
	}
	for _, tt := range tests {
		if got := f.Line(tt.line); got != tt.want {
			t.Errorf("Line(%d) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestFileExcerpt(t *testing.T) {
	f := NewFile("test.mc", []byte("int x;\nfoo(bar;\n"))

	got := f.Excerpt(
		Position{Line: 2, Column: 8},
		Position{Line: 2, Column: 9},
	)
	want := "    2 | foo(bar;\n" +
		"      |        ^"
	if got != want {
		t.Errorf("Excerpt() =\n%s\nwant\n%s", got, want)
	}

	got = f.Excerpt(
		Position{Line: 2, Column: 5},
		Position{Line: 2, Column: 8},
	)
	want = "    2 | foo(bar;\n" +
		"      |     ^^^"
	if got != want {
		t.Errorf("Excerpt() =\n%s\nwant\n%s", got, want)
	}
}

func TestTokenExcerpt(t *testing.T) {
	tokens, err := Tokenize(NewFile("test.mc", []byte("a\n\tb c")))
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	got := tokens[2].Excerpt()
	want := "    2 | \tb c\n" +
		"      | \t  ^"
	if got != want {
		t.Errorf("Excerpt() = %q, want %q", got, want)
	}
}
