package grammar

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"text/scanner"

	"golang.org/x/exp/ebnf"
)

// ToEBNF converts g into an x/exp/ebnf grammar. Built-in terminals that are
// referenced get a production of their own so the result verifies.
func ToEBNF(g *Grammar) ebnf.Grammar {
	out := make(ebnf.Grammar, len(g.symbols))

	pos := func(line int) scanner.Position {
		return scanner.Position{Filename: g.name, Line: line, Column: 1}
	}

	var builtins []string
	for _, name := range g.order {
		s := g.symbols[name]
		if len(s.Recipes) == 0 {
			continue
		}

		alts := make(ebnf.Alternative, 0, len(s.Recipes))
		for _, r := range s.Recipes {
			seq := make(ebnf.Sequence, 0, len(r))
			for _, c := range r {
				if c.IsToken() {
					seq = append(seq, &ebnf.Token{StringPos: pos(s.Line), String: c.Name})
					continue
				}
				if IsBuiltin(c.Name) && !contains(builtins, c.Name) {
					builtins = append(builtins, c.Name)
				}
				seq = append(seq, &ebnf.Name{StringPos: pos(s.Line), String: c.Name})
			}
			if len(seq) == 1 {
				alts = append(alts, seq[0])
			} else {
				alts = append(alts, seq)
			}
		}

		var expr ebnf.Expression = alts
		if len(alts) == 1 {
			expr = alts[0]
		}
		out[name] = &ebnf.Production{
			Name: &ebnf.Name{StringPos: pos(s.Line), String: name},
			Expr: expr,
		}
	}

	for _, name := range builtins {
		if _, ok := out[name]; ok {
			continue
		}
		out[name] = &ebnf.Production{
			Name: &ebnf.Name{StringPos: pos(0), String: name},
			Expr: &ebnf.Token{StringPos: pos(0), String: strings.ToLower(name)},
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Verify reports undefined symbols and symbols unreachable from start.
// The EBNF notion of lexical productions does not exist in megac grammars,
// so complaints about it are dropped.
func Verify(g *Grammar, start string) []error {
	err := ebnf.Verify(ToEBNF(g), start)
	if err == nil {
		return nil
	}

	var errs []error
	for _, e := range unwrapList(err) {
		if strings.Contains(e.Error(), "non-lexical production") {
			continue
		}
		errs = append(errs, e)
	}
	sort.Slice(errs, func(i, j int) bool {
		return errs[i].Error() < errs[j].Error()
	})
	return errs
}

// unwrapList flattens the error list returned by ebnf.Verify, which is an
// unexported slice type.
func unwrapList(err error) []error {
	v := reflect.ValueOf(err)
	if v.Kind() != reflect.Slice {
		return []error{err}
	}
	errs := make([]error, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		if e, ok := v.Index(i).Interface().(error); ok {
			errs = append(errs, e)
		}
	}
	return errs
}

// WriteEBNF prints g in EBNF notation, one production per symbol in
// declaration order.
func WriteEBNF(w io.Writer, g *Grammar) error {
	eg := ToEBNF(g)

	names := make([]string, 0, len(eg))
	for _, name := range g.order {
		if _, ok := eg[name]; ok {
			names = append(names, name)
		}
	}
	for _, name := range []string{Identifier, Constant, StringLiteral} {
		if _, ok := eg[name]; ok && !contains(names, name) {
			names = append(names, name)
		}
	}

	for _, name := range names {
		if _, err := fmt.Fprintf(w, "%s = %s .\n", name, exprString(eg[name].Expr)); err != nil {
			return err
		}
	}
	return nil
}

func exprString(expr ebnf.Expression) string {
	switch e := expr.(type) {
	case ebnf.Alternative:
		parts := make([]string, len(e))
		for i, x := range e {
			parts[i] = exprString(x)
		}
		return strings.Join(parts, " | ")
	case ebnf.Sequence:
		parts := make([]string, len(e))
		for i, x := range e {
			s := exprString(x)
			if _, ok := x.(ebnf.Alternative); ok {
				s = "( " + s + " )"
			}
			parts[i] = s
		}
		return strings.Join(parts, " ")
	case *ebnf.Name:
		return e.String
	case *ebnf.Token:
		return strconv.Quote(e.String)
	}
	return ""
}
