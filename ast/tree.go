// Package ast holds megac syntax trees. Nodes live in an arena owned by a
// Tree and refer to each other by index, so parent and old links never
// form ownership cycles.
package ast

import (
	"sort"
	"strings"

	"github.com/dhamidi/megac/lex"
)

type NodeID int

// NoNode is the null NodeID.
const NoNode NodeID = -1

// Node covers the token range [First, Last) of its tree.
type Node struct {
	Name  string
	First int
	Last  int

	// Token is the index of the matched token for leaves and -1 for
	// interior nodes.
	Token int
	// Kept marks a literal leaf retained by %keep; its Name is the literal.
	Kept  bool
	Empty bool

	Children []NodeID
	Parent   NodeID

	old        NodeID
	symbols    map[string]NodeID
	attributes map[string]any
}

// IsLeaf reports whether the node was built from a single matched token.
func (n *Node) IsLeaf() bool {
	return n.Token >= 0
}

type Tree struct {
	Tokens []lex.Token
	Root   NodeID

	nodes []Node
}

func New(tokens []lex.Token) *Tree {
	return &Tree{Tokens: tokens, Root: NoNode}
}

// Len returns the number of nodes in the arena, reachable or not.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns the node stored under id. The pointer is only valid until
// the next node is added to t.
func (t *Tree) Node(id NodeID) *Node {
	return &t.nodes[id]
}

func (t *Tree) add(n Node) NodeID {
	t.nodes = append(t.nodes, n)
	return NodeID(len(t.nodes) - 1)
}

// Leaf adds a one-token node for the token at index tok.
func (t *Tree) Leaf(name string, tok int) NodeID {
	return t.add(Node{
		Name:   name,
		First:  tok,
		Last:   tok + 1,
		Token:  tok,
		Parent: NoNode,
		old:    NoNode,
	})
}

// Interior adds a childless node starting and ending at first.
func (t *Tree) Interior(name string, first int) NodeID {
	return t.add(Node{
		Name:   name,
		First:  first,
		Last:   first,
		Token:  -1,
		Parent: NoNode,
		old:    NoNode,
	})
}

// Clone adds a copy of id with its own children list. Children themselves
// are shared, not copied.
func (t *Tree) Clone(id NodeID) NodeID {
	n := t.nodes[id]
	n.Children = append([]NodeID(nil), n.Children...)
	n.symbols = nil
	n.attributes = nil
	return t.add(n)
}

// Commit copies the subtree rooted at root into a fresh Tree sharing t's
// tokens. Nodes are renumbered in pre-order, parent links are filled in and
// side tables start empty.
func (t *Tree) Commit(root NodeID) *Tree {
	out := New(t.Tokens)
	out.Root = out.commit(t, root, NoNode)
	return out
}

func (t *Tree) commit(src *Tree, id NodeID, parent NodeID) NodeID {
	n := src.nodes[id]
	children := n.Children
	n.Children = nil
	n.Parent = parent
	n.old = NoNode
	n.symbols = nil
	n.attributes = nil

	self := t.add(n)
	if len(children) == 0 {
		return self
	}
	ids := make([]NodeID, len(children))
	for i, c := range children {
		ids[i] = t.commit(src, c, self)
	}
	t.nodes[self].Children = ids
	return self
}

// Text returns the literal of a leaf, or the space-separated literals of
// every token an interior node covers.
func (t *Tree) Text(id NodeID) string {
	n := &t.nodes[id]
	if n.Token >= 0 {
		return t.Tokens[n.Token].Literal
	}
	toks := t.Tokens[n.First:n.Last]
	parts := make([]string, len(toks))
	for i, tok := range toks {
		parts[i] = tok.Literal
	}
	return strings.Join(parts, " ")
}

func (t *Tree) TokensOf(id NodeID) []lex.Token {
	n := &t.nodes[id]
	return t.Tokens[n.First:n.Last]
}

func (t *Tree) FirstChildNamed(id NodeID, name string) NodeID {
	for _, c := range t.nodes[id].Children {
		if t.nodes[c].Name == name {
			return c
		}
	}
	return NoNode
}

func (t *Tree) ChildrenNamed(id NodeID, name string) []NodeID {
	var result []NodeID
	for _, c := range t.nodes[id].Children {
		if t.nodes[c].Name == name {
			result = append(result, c)
		}
	}
	return result
}

// Walk visits the tree rooted at t.Root in pre-order. Returning false from
// fn skips the children of that node.
func (t *Tree) Walk(fn func(id NodeID, depth int) bool) {
	if t.Root == NoNode {
		return
	}
	t.walk(t.Root, 0, fn)
}

// WalkFrom is Walk over the subtree rooted at id.
func (t *Tree) WalkFrom(id NodeID, fn func(id NodeID, depth int) bool) {
	t.walk(id, 0, fn)
}

func (t *Tree) walk(id NodeID, depth int, fn func(NodeID, int) bool) {
	if !fn(id, depth) {
		return
	}
	for _, c := range t.nodes[id].Children {
		t.walk(c, depth+1, fn)
	}
}

func (t *Tree) SetOld(id, old NodeID) {
	t.nodes[id].old = old
}

// Old returns the node id was derived from by a later pass, or NoNode.
func (t *Tree) Old(id NodeID) NodeID {
	return t.nodes[id].old
}

func (t *Tree) SetSymbol(id NodeID, name string, target NodeID) {
	n := &t.nodes[id]
	if n.symbols == nil {
		n.symbols = make(map[string]NodeID)
	}
	n.symbols[name] = target
}

func (t *Tree) Symbol(id NodeID, name string) (NodeID, bool) {
	target, ok := t.nodes[id].symbols[name]
	if !ok {
		return NoNode, false
	}
	return target, true
}

func (t *Tree) SymbolNames(id NodeID) []string {
	return sortedKeys(t.nodes[id].symbols)
}

func (t *Tree) SetAttribute(id NodeID, name string, value any) {
	n := &t.nodes[id]
	if n.attributes == nil {
		n.attributes = make(map[string]any)
	}
	n.attributes[name] = value
}

func (t *Tree) Attribute(id NodeID, name string) (any, bool) {
	v, ok := t.nodes[id].attributes[name]
	return v, ok
}

func (t *Tree) AttributeNames(id NodeID) []string {
	return sortedKeys(t.nodes[id].attributes)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
