// Package grammar holds the declarative description of a megac language:
// a table of symbols, each built from one of several recipes.
//
// A Grammar is immutable once loaded and may be shared by any number of
// concurrent parses.
package grammar

import (
	"sort"
	"strings"
)

// Built-in terminal categories matched directly against token kinds.
const (
	Identifier    = "IDENTIFIER"
	Constant      = "CONSTANT"
	StringLiteral = "STRING_LITERAL"
)

func IsBuiltin(name string) bool {
	return name == Identifier || name == Constant || name == StringLiteral
}

type ComponentKind int

const (
	SymbolComponent ComponentKind = iota
	TokenComponent
)

// Component is one element of a recipe: either a reference to a symbol or
// a literal token.
type Component struct {
	Kind      ComponentKind
	Name      string
	ForceRoot bool // %root
	MustKeep  bool // %keep
}

func SymbolRef(name string) Component {
	return Component{Kind: SymbolComponent, Name: name}
}

func Literal(text string) Component {
	return Component{Kind: TokenComponent, Name: text}
}

func (c Component) IsSymbol() bool {
	return c.Kind == SymbolComponent
}

func (c Component) IsToken() bool {
	return c.Kind == TokenComponent
}

// String renders the component in loader notation.
func (c Component) String() string {
	var sb strings.Builder
	if c.ForceRoot {
		sb.WriteString("%root ")
	}
	if c.MustKeep {
		sb.WriteString("%keep ")
	}
	if c.IsToken() {
		quote := "'"
		if strings.Contains(c.Name, "'") {
			quote = `"`
		}
		sb.WriteString(quote + c.Name + quote)
	} else {
		sb.WriteString(c.Name)
	}
	return sb.String()
}

// Recipe is a non-empty ordered list of components.
type Recipe []Component

func (r Recipe) String() string {
	parts := make([]string, len(r))
	for i, c := range r {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// FrontRecursive reports whether the recipe starts with a reference to
// the symbol it belongs to.
func (r Recipe) FrontRecursive(owner string) bool {
	return len(r) > 0 && r[0].IsSymbol() && r[0].Name == owner
}

// Symbol is a named non-terminal. Weak symbols disappear from the tree
// when they wrap fewer than two children.
type Symbol struct {
	Name    string
	Weak    bool
	Recipes []Recipe
	Line    int
}

type Grammar struct {
	name     string
	reserved map[string]bool
	magic    []string
	symbols  map[string]*Symbol
	order    []string
}

func newGrammar(name string) *Grammar {
	return &Grammar{
		name:     name,
		reserved: make(map[string]bool),
		symbols:  make(map[string]*Symbol),
	}
}

// Name is the file name the grammar was loaded from.
func (g *Grammar) Name() string {
	return g.name
}

func (g *Grammar) Lookup(name string) (*Symbol, bool) {
	s, ok := g.symbols[name]
	return s, ok
}

func (g *Grammar) IsReserved(word string) bool {
	return g.reserved[word]
}

func (g *Grammar) ReservedKeywords() []string {
	words := make([]string, 0, len(g.reserved))
	for w := range g.reserved {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// MagicTokens returns the names declared with %token, in declaration order.
func (g *Grammar) MagicTokens() []string {
	return append([]string(nil), g.magic...)
}

// Symbols returns every symbol name, synthetic sub-symbols included, sorted.
func (g *Grammar) Symbols() []string {
	names := make([]string, 0, len(g.symbols))
	for name := range g.symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (g *Grammar) symbol(name string, line int) *Symbol {
	s, ok := g.symbols[name]
	if !ok {
		s = &Symbol{Name: name, Line: line}
		g.symbols[name] = s
		g.order = append(g.order, name)
	}
	return s
}

// String renders the grammar in loader notation. Loading the result again
// yields an equivalent grammar; %label and %opt appear already expanded.
func (g *Grammar) String() string {
	var sb strings.Builder

	if len(g.reserved) > 0 {
		sb.WriteString("%reserved_keywords")
		for _, w := range g.ReservedKeywords() {
			sb.WriteString(" " + w)
		}
		sb.WriteString(" ;\n")
	}
	if len(g.magic) > 0 {
		sb.WriteString("%token")
		for _, m := range g.magic {
			sb.WriteString(" " + Literal(m).String())
		}
		sb.WriteString(" ;\n")
	}
	sb.WriteString("%%\n")

	for _, name := range g.order {
		s := g.symbols[name]
		if len(s.Recipes) == 0 {
			continue
		}
		if s.Weak {
			sb.WriteString("%weak ")
		}
		sb.WriteString(name)
		for i, r := range s.Recipes {
			if i == 0 {
				sb.WriteString("\n\t: ")
			} else {
				sb.WriteString("\n\t| ")
			}
			sb.WriteString(r.String())
		}
		sb.WriteString("\n\t;\n")
	}
	return sb.String()
}
