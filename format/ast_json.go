package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/megac/ast"
	"github.com/dhamidi/megac/lex"
)

type ASTJSONEncoder struct {
	w    io.Writer
	tree *ast.Tree
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(tree *ast.Tree) error {
	e.tree = tree
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	if _, err := e.w.Write(text); err != nil {
		return err
	}
	_, err = io.WriteString(e.w, "\n")
	return err
}

func (e *ASTJSONEncoder) MarshalText() ([]byte, error) {
	if e.tree == nil || e.tree.Root == ast.NoNode {
		return []byte("null"), nil
	}
	return json.MarshalIndent(nodeToJSON(e.tree, e.tree.Root), "", "  ")
}

type astJSONNode struct {
	Kind     string         `json:"kind"`
	Span     *astJSONSpan   `json:"span,omitempty"`
	Token    string         `json:"token,omitempty"`
	Kept     bool           `json:"kept,omitempty"`
	Children []*astJSONNode `json:"children,omitempty"`
}

type astJSONSpan struct {
	Start astJSONPosition `json:"start"`
	End   astJSONPosition `json:"end"`
}

type astJSONPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func nodeToJSON(t *ast.Tree, id ast.NodeID) *astJSONNode {
	n := t.Node(id)
	jn := &astJSONNode{
		Kind: n.Name,
		Kept: n.Kept,
	}

	if span, ok := nodeSpan(t, id); ok {
		jn.Span = &astJSONSpan{
			Start: astJSONPosition{Line: span.Start.Line, Column: span.Start.Column},
			End:   astJSONPosition{Line: span.End.Line, Column: span.End.Column},
		}
	}

	if n.IsLeaf() {
		jn.Token = t.Text(id)
	}

	if len(n.Children) > 0 {
		jn.Children = make([]*astJSONNode, len(n.Children))
		for i, child := range n.Children {
			jn.Children[i] = nodeToJSON(t, child)
		}
	}
	return jn
}

// nodeSpan returns the source range covered by id's tokens.
func nodeSpan(t *ast.Tree, id ast.NodeID) (lex.Span, bool) {
	n := t.Node(id)
	if n.First >= n.Last || n.Last > len(t.Tokens) {
		return lex.Span{}, false
	}
	return lex.Span{
		Start: t.Tokens[n.First].Span.Start,
		End:   t.Tokens[n.Last-1].Span.End,
	}, true
}
