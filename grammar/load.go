package grammar

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("megac.grammar")

// LoadError reports malformed grammar text.
type LoadError struct {
	File    string
	Line    int
	Message string
}

func (e *LoadError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// LoadFile loads a grammar from a file.
func LoadFile(filename string) (*Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()

	g, err := Parse(filename, f)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	return g, nil
}

// ParseString is Parse over an in-memory grammar text.
func ParseString(name, text string) (*Grammar, error) {
	return Parse(name, strings.NewReader(text))
}

// Parse reads grammar text. The text is split by a "%%" line into a
// declaration section (%reserved_keywords, %token) and a rule section.
// Text without "%%" is read as rules only.
func Parse(name string, r io.Reader) (*Grammar, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read grammar: %w", err)
	}

	l := &loader{g: newGrammar(name)}
	words, err := l.scan(string(data))
	if err != nil {
		return nil, err
	}

	rules := words
	for i, w := range words {
		if !w.quoted && w.text == "%%" {
			if err := l.declarations(words[:i]); err != nil {
				return nil, err
			}
			rules = words[i+1:]
			break
		}
	}
	l.words = rules
	l.pos = 0
	if err := l.rules(); err != nil {
		return nil, err
	}

	log.Debugf("grammar %s: %d symbols, %d reserved keywords", name, len(l.g.symbols), len(l.g.reserved))
	return l.g, nil
}

type word struct {
	text   string
	quoted bool
	line   int
}

func (w word) is(s string) bool {
	return !w.quoted && w.text == s
}

func (w word) directive() bool {
	return !w.quoted && strings.HasPrefix(w.text, "%")
}

// scan splits grammar text into words. ':', '|' and ';' always stand
// alone, quoted literals keep their contents verbatim and "//" starts a
// comment that runs to the end of the line.
func (l *loader) scan(text string) ([]word, error) {
	var words []word
	line := 1
	i := 0
	for i < len(text) {
		ch := text[i]
		switch {
		case ch == '\n':
			line++
			i++
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\f' || ch == '\v':
			i++
		case strings.HasPrefix(text[i:], "//"):
			for i < len(text) && text[i] != '\n' {
				i++
			}
		case ch == ':' || ch == '|' || ch == ';':
			words = append(words, word{text: string(ch), line: line})
			i++
		case ch == '\'' || ch == '"':
			end := strings.IndexByte(text[i+1:], ch)
			if end < 0 || strings.Contains(text[i+1:i+1+end], "\n") {
				return nil, l.errorf(line, "unterminated literal %s", strings.SplitN(text[i:], "\n", 2)[0])
			}
			if end == 0 {
				return nil, l.errorf(line, "empty literal %c%c", ch, ch)
			}
			words = append(words, word{text: text[i+1 : i+1+end], quoted: true, line: line})
			i += end + 2
		default:
			start := i
			for i < len(text) && !strings.ContainsRune(" \t\r\n\f\v:|;'\"", rune(text[i])) {
				i++
			}
			words = append(words, word{text: text[start:i], line: line})
		}
	}
	return words, nil
}

type loader struct {
	g     *Grammar
	words []word
	pos   int
}

func (l *loader) errorf(line int, format string, args ...any) error {
	return &LoadError{File: l.g.name, Line: line, Message: fmt.Sprintf(format, args...)}
}

func (l *loader) declarations(words []word) error {
	for i := 0; i < len(words); {
		w := words[i]
		switch {
		case w.is("%reserved_keywords"), w.is("%token"):
			i++
			for ; i < len(words) && !words[i].is(";"); i++ {
				if words[i].directive() {
					return l.errorf(words[i].line, "malformed directive %s: missing ';'", w.text)
				}
				if w.is("%token") {
					l.g.magic = append(l.g.magic, words[i].text)
				} else {
					l.g.reserved[words[i].text] = true
				}
			}
			if i == len(words) {
				return l.errorf(w.line, "malformed directive %s: missing ';'", w.text)
			}
			i++
		case w.directive():
			return l.errorf(w.line, "unknown directive %s", w.text)
		default:
			return l.errorf(w.line, "unexpected %q before %%%%", w.text)
		}
	}
	return nil
}

func (l *loader) peek() (word, bool) {
	if l.pos >= len(l.words) {
		return word{}, false
	}
	return l.words[l.pos], true
}

func (l *loader) next() (word, bool) {
	w, ok := l.peek()
	if ok {
		l.pos++
	}
	return w, ok
}

func (l *loader) rules() error {
	for {
		w, ok := l.next()
		if !ok {
			return nil
		}

		weak := false
		if w.is("%weak") {
			weak = true
			line := w.line
			if w, ok = l.next(); !ok {
				return l.errorf(line, "malformed directive %%weak: missing symbol name")
			}
		}
		if w.quoted || w.directive() || w.is(":") || w.is("|") || w.is(";") {
			if w.directive() && !isDirective(w.text) {
				return l.errorf(w.line, "unknown directive %s", w.text)
			}
			return l.errorf(w.line, "expected symbol name, got %q", w.text)
		}

		colon, ok := l.next()
		if !ok || !colon.is(":") {
			return l.errorf(w.line, "missing ':' after symbol %s", w.text)
		}

		sym := l.g.symbol(w.text, w.line)
		sym.Weak = sym.Weak || weak
		if err := l.alternatives(sym); err != nil {
			return err
		}
	}
}

func isDirective(text string) bool {
	switch text {
	case "%weak", "%label", "%root", "%keep", "%opt", "%reserved_keywords", "%token":
		return true
	}
	return false
}

// alternatives reads "recipe (| recipe)* ;" into sym.
func (l *loader) alternatives(sym *Symbol) error {
	alt := newAlternative()
	line := 0

	for {
		w, ok := l.next()
		if !ok {
			return l.errorf(sym.Line, "missing ';' at the end of symbol %s", sym.Name)
		}
		if line == 0 {
			line = w.line
		}

		switch {
		case w.is("|"), w.is(";"):
			if err := l.finish(sym, alt, line); err != nil {
				return err
			}
			if w.is(";") {
				return nil
			}
			alt = newAlternative()
			line = 0

		case w.is(":"):
			return l.errorf(w.line, "unexpected ':' in symbol %s, missing ';'?", sym.Name)

		case w.is("%label"):
			name, ok := l.next()
			if !ok || name.quoted || name.directive() || name.is("|") || name.is(";") || name.is(":") {
				return l.errorf(w.line, "malformed directive %%label: missing label name")
			}
			if alt.label != "" {
				return l.errorf(w.line, "malformed directive %%label: alternative already labelled %s", alt.label)
			}
			alt.label = name.text

		case w.is("%root"):
			alt.root = true
		case w.is("%keep"):
			alt.keep = true
		case w.is("%opt"):
			alt.opt = true

		case w.is("%weak"):
			return l.errorf(w.line, "malformed directive %%weak: must precede a symbol name")

		case w.directive():
			return l.errorf(w.line, "unknown directive %s", w.text)

		default:
			c := SymbolRef(w.text)
			if w.quoted {
				c = Literal(w.text)
			}
			alt.add(c)
		}
	}
}

// alternative accumulates the recipes of one "|"-separated alternative.
// Each %opt component doubles the set of variants.
type alternative struct {
	variants []Recipe
	label    string

	root, keep, opt bool
}

func newAlternative() *alternative {
	return &alternative{variants: []Recipe{{}}}
}

func (a *alternative) pending() string {
	switch {
	case a.root:
		return "%root"
	case a.keep:
		return "%keep"
	case a.opt:
		return "%opt"
	}
	return ""
}

func (a *alternative) add(c Component) {
	c.ForceRoot = a.root
	c.MustKeep = a.keep

	if a.opt {
		with := make([]Recipe, len(a.variants))
		for i, r := range a.variants {
			with[i] = append(append(Recipe{}, r...), c)
		}
		a.variants = append(a.variants, with...)
	} else {
		for i := range a.variants {
			a.variants[i] = append(a.variants[i], c)
		}
	}
	a.root, a.keep, a.opt = false, false, false
}

func (l *loader) finish(sym *Symbol, alt *alternative, line int) error {
	if d := alt.pending(); d != "" {
		return l.errorf(line, "malformed directive %s: no component follows it in symbol %s", d, sym.Name)
	}

	target := sym
	if alt.label != "" {
		target = l.g.symbol(sym.Name+"_sub_"+alt.label, line)
	}
	for _, r := range alt.variants {
		if len(r) == 0 {
			return l.errorf(line, "found an empty recipe in symbol %s", target.Name)
		}
		target.Recipes = append(target.Recipes, r)
	}

	if target != sym {
		ref := Recipe{SymbolRef(target.Name)}
		for _, r := range sym.Recipes {
			if len(r) == 1 && r[0] == ref[0] {
				return nil
			}
		}
		sym.Recipes = append(sym.Recipes, ref)
	}
	return nil
}
