// Package format renders megac syntax trees and token streams.
package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/megac/ast"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(tree *ast.Tree) error
}

// New returns the encoder registered under name: "text", "json" or "line".
func New(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "text", "":
		return NewTreeEncoder(w), nil
	case "json":
		return NewASTJSONEncoder(w), nil
	case "line":
		return NewLineEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format %q (want text, json or line)", name)
}

// TreeEncoder writes the indented outline produced by ast.Tree.String.
type TreeEncoder struct {
	w    io.Writer
	tree *ast.Tree
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w}
}

func (e *TreeEncoder) Encode(tree *ast.Tree) error {
	e.tree = tree
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TreeEncoder) MarshalText() ([]byte, error) {
	if e.tree == nil {
		return nil, nil
	}
	return []byte(e.tree.String()), nil
}
