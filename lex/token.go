// Package lex turns megac source files into the token sequence consumed by
// the grammar-driven parser.
package lex

import (
	"fmt"
	"strconv"
)

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Span struct {
	Start Position
	End   Position
}

type Kind int

const (
	Identifier Kind = iota
	Punctuator
	StringLiteral
	Numeric
)

var kindNames = map[Kind]string{
	Identifier:    "Identifier",
	Punctuator:    "Punctuator",
	StringLiteral: "StringLiteral",
	Numeric:       "Numeric",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Token is read-only to every consumer once the lexer has produced it.
// Literal holds the decoded text for string literals and the raw spelling
// for every other kind; Value holds the numeric value of Numeric tokens.
type Token struct {
	Kind        Kind
	Literal     string
	Value       uint64
	Span        Span
	HasSpace    bool
	StartOfLine bool
	File        *File
}

func (t Token) Line() int {
	return t.Span.Start.Line
}

// String renders the token the way diagnostics quote it: a kind letter
// followed by the literal or the numeric value in brackets.
func (t Token) String() string {
	switch t.Kind {
	case Numeric:
		return "N[" + strconv.FormatUint(t.Value, 10) + "]"
	case StringLiteral:
		return "S[" + t.Literal + "]"
	case Punctuator:
		return "P[" + t.Literal + "]"
	case Identifier:
		return "I[" + t.Literal + "]"
	}
	return "?[" + t.Literal + "]"
}

// Excerpt returns the source line holding the token with a caret run
// under it. Tokens without a backing file yield an empty string.
func (t Token) Excerpt() string {
	if t.File == nil {
		return ""
	}
	return t.File.Excerpt(t.Span.Start, t.Span.End)
}
