package parse

import (
	"fmt"
	"strings"

	"github.com/dhamidi/megac/ast"
	"github.com/dhamidi/megac/lex"
)

// SyntaxError reports that no alternative of the start symbol matched. It
// points at the furthest token any alternative reached.
type SyntaxError struct {
	Expected []string
	// Found is nil when the input ended before a match.
	Found *lex.Token
	// Last is the final token of the input, if there is one.
	Last *lex.Token
}

func (e *SyntaxError) AtEOF() bool {
	return e.Found == nil
}

func (e *SyntaxError) Line() int {
	switch {
	case e.Found != nil:
		return e.Found.Line()
	case e.Last != nil:
		return e.Last.Line()
	}
	return 1
}

// Position returns where the error should be reported: the start of the
// offending token, or the end of the input.
func (e *SyntaxError) Position() lex.Position {
	switch {
	case e.Found != nil:
		return e.Found.Span.Start
	case e.Last != nil:
		return e.Last.Span.End
	}
	return lex.Position{Line: 1, Column: 1}
}

func (e *SyntaxError) expecting() string {
	quoted := make([]string, len(e.Expected))
	for i, name := range e.Expected {
		quoted[i] = "'" + name + "'"
	}
	return strings.Join(quoted, " ")
}

func (e *SyntaxError) Error() string {
	if e.Found == nil {
		return fmt.Sprintf("Parser failed in line %d. Expecting any of %s but the file ended", e.Line(), e.expecting())
	}
	msg := fmt.Sprintf("Parser failed in line %d. Expecting any of %s but found %s.", e.Line(), e.expecting(), e.Found)
	if excerpt := e.Found.Excerpt(); excerpt != "" {
		msg += "\n" + excerpt
	}
	return msg
}

// TrailingInputError reports a parse that matched the start symbol but
// stopped before the end of the input.
type TrailingInputError struct {
	// Next is the first token no alternative consumed.
	Next lex.Token
	// Partial is the longest tree that was found.
	Partial *ast.Tree
	// Failure is the furthest failed match, nil when nothing failed.
	// Failure.AtEOF reports that more input could extend the parse.
	Failure *SyntaxError
}

func (e *TrailingInputError) Position() lex.Position {
	return e.Next.Span.Start
}

func (e *TrailingInputError) Error() string {
	msg := fmt.Sprintf("Not all tokens used. Parsing stopped in line %d before %s.", e.Next.Line(), e.Next)
	if excerpt := e.Next.Excerpt(); excerpt != "" {
		msg += "\n" + excerpt
	}
	return msg
}

// AmbiguousGrammarError reports several trees consuming the whole input.
// It signals a grammar bug rather than bad input.
type AmbiguousGrammarError struct {
	Trees []*ast.Tree
}

func (e *AmbiguousGrammarError) Position() lex.Position {
	if len(e.Trees) == 0 || len(e.Trees[0].Tokens) == 0 {
		return lex.Position{Line: 1, Column: 1}
	}
	return e.Trees[0].Tokens[0].Span.Start
}

func (e *AmbiguousGrammarError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d ambiguous AST", len(e.Trees))
	for i, t := range e.Trees {
		fmt.Fprintf(&sb, "\n--- alternative %d\n%s", i+1, strings.TrimSuffix(t.String(), "\n"))
	}
	return sb.String()
}
