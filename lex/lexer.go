package lex

import (
	"fmt"
	"sort"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("megac.lex")

// punctuators lists every multi-character punctuator the lexer knows
// about before falling back to single punctuation characters.
var punctuators = []string{
	"<<=", ">>=", "...",
	":=", "==", "!=", "<=", ">=", "->", "+=", "-=", "*=", "/=", "++", "--",
	"%=", "&=", "|=", "^=", "&&", "||", "<<", ">>", "##", "::",
}

// Error reports a malformed token.
type Error struct {
	Pos     Position
	Message string
	File    *File
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Pos, e.Message)
	if e.File != nil {
		msg += "\n" + e.File.Excerpt(e.Pos, e.Pos)
	}
	return msg
}

type Option func(*Lexer)

// WithMagicTokens adds punctuators declared by a grammar's %token section.
func WithMagicTokens(tokens ...string) Option {
	return func(l *Lexer) {
		l.extra = append(l.extra, tokens...)
	}
}

type Lexer struct {
	file   *File
	input  []byte
	pos    int
	line   int
	column int
	extra  []string
	puncts []string
}

func NewLexer(file *File, opts ...Option) *Lexer {
	l := &Lexer{
		file:   file,
		input:  file.Data,
		line:   1,
		column: 1,
	}
	for _, opt := range opts {
		opt(l)
	}

	seen := make(map[string]bool)
	for _, p := range append(append([]string{}, punctuators...), l.extra...) {
		if len(p) < 2 || seen[p] {
			continue
		}
		seen[p] = true
		l.puncts = append(l.puncts, p)
	}
	sort.SliceStable(l.puncts, func(i, j int) bool {
		return len(l.puncts[i]) > len(l.puncts[j])
	})
	return l
}

// Tokenize is a convenience for NewLexer(file, opts...).Tokenize().
func Tokenize(file *File, opts ...Option) ([]Token, error) {
	return NewLexer(file, opts...).Tokenize()
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file.Name,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) startsWith(s string) bool {
	if l.pos+len(s) > len(l.input) {
		return false
	}
	return string(l.input[l.pos:l.pos+len(s)]) == s
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) errorf(pos Position, format string, args ...any) *Error {
	return &Error{Pos: pos, Message: fmt.Sprintf(format, args...), File: l.file}
}

func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	startOfLine := true
	hasSpace := false

	for l.pos < len(l.input) {
		switch {
		case l.startsWith("//"):
			for l.peek() != 0 && l.peek() != '\n' {
				l.advance()
			}
			hasSpace = true
			continue

		case l.startsWith("/*"):
			start := l.Position()
			l.advanceN(2)
			for l.pos < len(l.input) && !l.startsWith("*/") {
				if l.startsWith("/*") {
					log.Warningf("%s: \"/*\" within block comment", l.Position())
				}
				l.advance()
			}
			if l.pos >= len(l.input) {
				return tokens, l.errorf(start, "unclosed block comment")
			}
			l.advanceN(2)
			hasSpace = true
			continue

		case l.startsWith("\\\n"):
			l.advanceN(2)
			continue

		case l.peek() == '\n':
			l.advance()
			startOfLine = true
			hasSpace = false
			continue

		case isSpace(l.peek()):
			l.advance()
			hasSpace = true
			continue
		}

		tok, err := l.next()
		if err != nil {
			return tokens, err
		}
		tok.HasSpace = hasSpace
		tok.StartOfLine = startOfLine
		tokens = append(tokens, tok)

		hasSpace = false
		startOfLine = false
	}

	if log.AllowLevel(commonlog.Debug) {
		log.Debugf("%s: %d tokens", l.file.Name, len(tokens))
	}
	return tokens, nil
}

func (l *Lexer) next() (Token, error) {
	start := l.Position()
	ch := l.peek()

	switch {
	case isDigit(ch):
		return l.scanNumber(start)
	case ch == '"':
		return l.scanString(start)
	case ch == '\'':
		return l.scanChar(start)
	case isLetter(ch):
		return l.scanIdentifier(start), nil
	}
	return l.scanPunctuator(start)
}

func (l *Lexer) token(kind Kind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
		File:    l.file,
	}
}

func (l *Lexer) scanIdentifier(start Position) Token {
	for isLetter(l.peek()) || isDigit(l.peek()) {
		l.advance()
	}
	return l.token(Identifier, start)
}

func (l *Lexer) scanNumber(start Position) (Token, error) {
	var n uint64

	switch {
	case l.peek() != '0':
		for isDigit(l.peek()) {
			n = 10*n + uint64(l.advance()-'0')
		}

	case l.peekN(1) == 'x':
		l.advanceN(2)
		if !isHexDigit(l.peek()) {
			return Token{}, l.errorf(start, "malformed hexadecimal constant")
		}
		for isHexDigit(l.peek()) {
			n = 16*n + hexValue(l.advance())
		}

	case l.peekN(1) == 'b':
		l.advanceN(2)
		if l.peek() != '0' && l.peek() != '1' {
			return Token{}, l.errorf(start, "malformed binary constant")
		}
		for l.peek() == '0' || l.peek() == '1' {
			n = 2*n + uint64(l.advance()-'0')
		}

	default:
		l.advance()
		if isHexDigit(l.peek()) {
			return Token{}, l.errorf(start, "malformed number constant")
		}
	}

	tok := l.token(Numeric, start)
	tok.Value = n
	return tok, nil
}

func (l *Lexer) scanString(start Position) (Token, error) {
	l.advance()

	var literal []byte
	for {
		ch := l.peek()
		if ch == '"' {
			break
		}
		if ch == '\n' || l.pos >= len(l.input) {
			return Token{}, l.errorf(start, "unclosed string literal")
		}
		c, err := l.escapedChar()
		if err != nil {
			return Token{}, err
		}
		literal = append(literal, c)
	}
	l.advance()

	tok := l.token(StringLiteral, start)
	tok.Literal = string(literal)
	return tok, nil
}

func (l *Lexer) scanChar(start Position) (Token, error) {
	l.advance()
	if l.pos >= len(l.input) || l.peek() == '\n' {
		return Token{}, l.errorf(start, "unclosed character literal")
	}
	c, err := l.escapedChar()
	if err != nil {
		return Token{}, err
	}
	if l.peek() != '\'' {
		return Token{}, l.errorf(start, "unclosed character literal")
	}
	l.advance()

	tok := l.token(Numeric, start)
	tok.Value = uint64(c)
	return tok, nil
}

// escapedChar consumes one possibly escaped character of a string or
// character literal and returns its decoded byte.
func (l *Lexer) escapedChar() (byte, error) {
	if l.peek() != '\\' {
		return l.advance(), nil
	}
	l.advance()

	if isOctalDigit(l.peek()) {
		c := l.advance() - '0'
		for i := 0; i < 2 && isOctalDigit(l.peek()); i++ {
			c = c<<3 + (l.advance() - '0')
		}
		return c, nil
	}

	if l.peek() == 'x' {
		pos := l.Position()
		l.advance()
		if !isHexDigit(l.peek()) {
			return 0, l.errorf(pos, "invalid hex escape sequence")
		}
		var c uint64
		for isHexDigit(l.peek()) {
			c = c<<4 + hexValue(l.advance())
		}
		return byte(c), nil
	}

	switch c := l.advance(); c {
	case 'a':
		return '\a', nil
	case 'b':
		return '\b', nil
	case 't':
		return '\t', nil
	case 'n':
		return '\n', nil
	case 'v':
		return '\v', nil
	case 'f':
		return '\f', nil
	case 'r':
		return '\r', nil
	default:
		return c, nil
	}
}

func (l *Lexer) scanPunctuator(start Position) (Token, error) {
	for _, p := range l.puncts {
		if l.startsWith(p) {
			l.advanceN(len(p))
			return l.token(Punctuator, start), nil
		}
	}
	if isPunct(l.peek()) {
		l.advance()
		return l.token(Punctuator, start), nil
	}
	return Token{}, l.errorf(start, "invalid token %q", l.peek())
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\v' || ch == '\f'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isOctalDigit(ch byte) bool {
	return ch >= '0' && ch <= '7'
}

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func hexValue(ch byte) uint64 {
	switch {
	case ch >= '0' && ch <= '9':
		return uint64(ch - '0')
	case ch >= 'a' && ch <= 'f':
		return uint64(ch-'a') + 10
	default:
		return uint64(ch-'A') + 10
	}
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isPunct(ch byte) bool {
	return ch > ' ' && ch < 0x7f && !isLetter(ch) && !isDigit(ch)
}
