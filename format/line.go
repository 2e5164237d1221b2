package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/megac/ast"
	"github.com/dhamidi/megac/lex"
)

// LineEncoder writes one tab-separated line per node in pre-order:
//
//	depth	name	start	end	[literal]
type LineEncoder struct {
	w    io.Writer
	tree *ast.Tree
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(tree *ast.Tree) error {
	e.tree = tree
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	if e.tree == nil {
		return nil, nil
	}
	t := e.tree

	t.Walk(func(id ast.NodeID, depth int) bool {
		n := t.Node(id)
		span, _ := nodeSpan(t, id)
		fmt.Fprintf(&sb, "%d\t%s\t%d:%d\t%d:%d",
			depth,
			n.Name,
			span.Start.Line, span.Start.Column,
			span.End.Line, span.End.Column,
		)
		if n.IsLeaf() {
			fmt.Fprintf(&sb, "\t%s", t.Text(id))
		}
		sb.WriteString("\n")
		return true
	})
	return []byte(sb.String()), nil
}

// WriteTokens prints tokens grouped by source line, each line prefixed by
// its number.
func WriteTokens(w io.Writer, tokens []lex.Token) error {
	var sb strings.Builder
	line := 0
	for _, tok := range tokens {
		if tok.Line() != line {
			if line != 0 {
				sb.WriteString("\n")
			}
			line = tok.Line()
			fmt.Fprintf(&sb, "%5d |", line)
		}
		sb.WriteString(" " + tok.String())
	}
	if line != 0 {
		sb.WriteString("\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
