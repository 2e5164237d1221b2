// Package parse runs a megac grammar over a token sequence. The parser
// explores every alternative and the driver settles on the single tree that
// consumes the whole input, or reports why there is none.
package parse

import (
	"fmt"
	"slices"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/megac/ast"
	"github.com/dhamidi/megac/grammar"
	"github.com/dhamidi/megac/lex"
)

var log = commonlog.GetLogger("megac.parse")

const DefaultStart = "start"

type Option func(*Parser)

func WithStart(symbol string) Option {
	return func(p *Parser) {
		p.start = symbol
	}
}

func WithLogger(l commonlog.Logger) Option {
	return func(p *Parser) {
		p.log = l
	}
}

// Parser is safe for concurrent use; every Parse call keeps its own state.
type Parser struct {
	g     *grammar.Grammar
	start string
	log   commonlog.Logger
}

func New(g *grammar.Grammar, opts ...Option) *Parser {
	p := &Parser{g: g, start: DefaultStart, log: log}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) Start() string {
	return p.start
}

// Parse parses tokens against the start symbol and returns the one tree
// covering all of them. The error is a *SyntaxError, *TrailingInputError
// or *AmbiguousGrammarError when the tokens do not yield exactly one tree.
func (p *Parser) Parse(tokens []lex.Token) (*ast.Tree, error) {
	if _, ok := p.g.Lookup(p.start); !ok {
		return nil, fmt.Errorf("start symbol %s is not defined in grammar %s", p.start, p.g.Name())
	}

	s := newState(p.g, tokens)
	alts := s.parse(0, len(tokens), grammar.SymbolRef(p.start), nil)
	p.log.Debugf("%s: %d alternatives over %d tokens, %d nodes built", p.start, len(alts), len(tokens), s.arena.Len())

	if len(alts) == 0 {
		return nil, s.syntaxError()
	}

	reached := 0
	for _, id := range alts {
		reached = max(reached, s.arena.Node(id).Last)
	}

	var winners []ast.NodeID
	for _, id := range alts {
		if s.arena.Node(id).Last == reached {
			winners = append(winners, id)
		}
	}

	if reached != len(tokens) {
		err := &TrailingInputError{
			Next:    tokens[reached],
			Partial: s.arena.Commit(winners[len(winners)-1]),
		}
		if len(s.fail.expected) > 0 {
			err.Failure = s.syntaxError()
		}
		return nil, err
	}

	if len(winners) > 1 {
		err := &AmbiguousGrammarError{}
		for _, id := range winners {
			err.Trees = append(err.Trees, s.arena.Commit(id))
		}
		return nil, err
	}

	tree := s.arena.Commit(winners[0])
	if p.log.AllowLevel(commonlog.Debug) {
		p.log.Debugf("accepted tree:\n%s", tree)
	}
	return tree, nil
}

func (s *state) syntaxError() *SyntaxError {
	expected := slices.Clone(s.fail.expected)
	slices.Sort(expected)
	err := &SyntaxError{Expected: slices.Compact(expected)}
	if s.fail.cursor < len(s.tokens) {
		err.Found = &s.tokens[s.fail.cursor]
	}
	if len(s.tokens) > 0 {
		err.Last = &s.tokens[len(s.tokens)-1]
	}
	return err
}

// Parse parses tokens against g.
func Parse(g *grammar.Grammar, tokens []lex.Token, opts ...Option) (*ast.Tree, error) {
	return New(g, opts...).Parse(tokens)
}

// File tokenizes f, treating the grammar's %token names as punctuators,
// and parses the result.
func File(g *grammar.Grammar, f *lex.File, opts ...Option) (*ast.Tree, error) {
	tokens, err := lex.Tokenize(f, lex.WithMagicTokens(g.MagicTokens()...))
	if err != nil {
		return nil, err
	}
	return Parse(g, tokens, opts...)
}
