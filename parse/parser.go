package parse

import (
	"slices"

	"github.com/dhamidi/megac/ast"
	"github.com/dhamidi/megac/grammar"
	"github.com/dhamidi/megac/lex"
)

// failures remembers the rightmost cursor any leaf failed to match at and
// every target that was tried there.
type failures struct {
	cursor   int
	expected []string
}

func (f *failures) record(cursor int, name string) {
	if cursor > f.cursor {
		f.cursor = cursor
		f.expected = f.expected[:0]
	}
	if cursor == f.cursor {
		f.expected = append(f.expected, name)
	}
}

// state is one run of the generalized parser over a token slice. Every
// node it builds lives in arena; nothing is ever removed from it.
type state struct {
	g      *grammar.Grammar
	tokens []lex.Token
	arena  *ast.Tree
	fail   failures
}

func newState(g *grammar.Grammar, tokens []lex.Token) *state {
	return &state{
		g:      g,
		tokens: tokens,
		arena:  ast.New(tokens),
	}
}

// parse returns every tree matching target that starts exactly at cursor
// and uses only tokens before end. guard holds the symbols entered at
// cursor without consuming a token.
func (s *state) parse(cursor, end int, target grammar.Component, guard []string) []ast.NodeID {
	if cycling(guard) {
		return nil
	}

	if cursor >= end {
		s.fail.record(cursor, target.Name)
		return nil
	}

	tok := s.tokens[cursor]
	if target.IsToken() {
		if tok.Kind == lex.StringLiteral || tok.Literal != target.Name {
			s.fail.record(cursor, target.Name)
			return nil
		}
		id := s.arena.Leaf(target.Name, cursor)
		n := s.arena.Node(id)
		if target.MustKeep {
			n.Kept = true
		} else {
			n.Empty = true
		}
		return []ast.NodeID{id}
	}

	if grammar.IsBuiltin(target.Name) {
		var ok bool
		switch target.Name {
		case grammar.Identifier:
			ok = tok.Kind == lex.Identifier && !s.g.IsReserved(tok.Literal)
		case grammar.Constant:
			ok = tok.Kind == lex.Numeric
		case grammar.StringLiteral:
			ok = tok.Kind == lex.StringLiteral
		}
		if !ok {
			s.fail.record(cursor, target.Name)
			return nil
		}
		return []ast.NodeID{s.arena.Leaf(target.Name, cursor)}
	}

	sym, ok := s.g.Lookup(target.Name)
	if !ok {
		s.fail.record(cursor, target.Name)
		return nil
	}
	guard = append(guard[:len(guard):len(guard)], sym.Name)

	var results []ast.NodeID
	var recursive []grammar.Recipe
	for _, r := range sym.Recipes {
		if r.FrontRecursive(sym.Name) {
			recursive = append(recursive, r)
			continue
		}
		start := s.arena.Interior(sym.Name, cursor)
		// Weak wrappers collapse here, before a candidate seeds the
		// front-recursive pass below.
		for _, id := range s.match([]ast.NodeID{start}, r, cursor, end, guard) {
			results = append(results, s.collapse(sym, id))
		}
	}

	if len(recursive) == 0 {
		return results
	}

	// Grow every accepted tree through the front-recursive recipes until
	// no expansion gets any longer.
	work := slices.Clone(results)
	for len(work) > 0 {
		seed := work[len(work)-1]
		work = work[:len(work)-1]
		reached := s.arena.Node(seed).Last

		for _, r := range recursive {
			fork := s.attach(s.arena.Interior(sym.Name, cursor), r[0], seed)
			for _, id := range s.match([]ast.NodeID{fork}, r[1:], cursor, end, nil) {
				id = s.collapse(sym, id)
				if s.arena.Node(id).Last <= reached {
					continue
				}
				results = append(results, id)
				work = append(work, id)
			}
		}
	}
	return results
}

// cycling reports whether the zero-consumption stack shows the last two
// entries both repeating earlier ones.
func cycling(guard []string) bool {
	n := len(guard)
	if n <= 2 {
		return false
	}
	if !slices.Contains(guard[:n-2], guard[n-2]) {
		return false
	}
	return slices.Contains(guard[:n-1], guard[n-1])
}

// match runs components left to right over every fork, returning the forks
// that matched all of them.
func (s *state) match(forks []ast.NodeID, components []grammar.Component, cursor, end int, guard []string) []ast.NodeID {
	for _, c := range components {
		var next []ast.NodeID
		for _, f := range forks {
			at := s.arena.Node(f).Last
			var g []string
			if at == cursor {
				g = guard
			}
			for _, child := range s.parse(at, end, c, g) {
				next = append(next, s.attach(f, c, child))
			}
		}
		forks = next
		if len(forks) == 0 {
			break
		}
	}
	return forks
}

// attach returns a copy of fork extended by child, which matched c.
func (s *state) attach(fork ast.NodeID, c grammar.Component, child ast.NodeID) ast.NodeID {
	id := s.arena.Clone(fork)
	n := s.arena.Node(id)
	ch := s.arena.Node(child)

	n.Last = ch.Last
	switch {
	case c.ForceRoot:
		n.Name = ch.Name
		n.Token = ch.Token
		n.Kept = ch.Kept
		n.Children = slices.Clone(ch.Children)
	case !ch.Empty:
		n.Children = append(n.Children, child)
	}
	return id
}

// collapse removes a weak wrapper: no children marks it empty, a single
// child takes its place over the wrapper's span.
func (s *state) collapse(sym *grammar.Symbol, id ast.NodeID) ast.NodeID {
	if !sym.Weak {
		return id
	}
	n := s.arena.Node(id)
	if n.Name != sym.Name {
		return id
	}

	switch len(n.Children) {
	case 0:
		n.Empty = true
	case 1:
		first, last := n.First, n.Last
		c := s.arena.Clone(n.Children[0])
		cn := s.arena.Node(c)
		cn.First, cn.Last = first, last
		return c
	}
	return id
}
