package ast

import (
	"testing"

	"github.com/dhamidi/megac/lex"
)

func tokens(lits ...string) []lex.Token {
	out := make([]lex.Token, len(lits))
	for i, l := range lits {
		kind := lex.Identifier
		if l == "+" || l == "(" || l == ")" {
			kind = lex.Punctuator
		}
		out[i] = lex.Token{Kind: kind, Literal: l}
	}
	return out
}

// sum builds "a + b" as sum[IDENTIFIER, TOKEN +, IDENTIFIER] in a scratch
// arena with an unreachable node mixed in.
func sum(t *testing.T) (*Tree, NodeID) {
	t.Helper()
	tr := New(tokens("a", "+", "b"))

	tr.Interior("garbage", 0)
	root := tr.Interior("sum", 0)
	a := tr.Leaf("IDENTIFIER", 0)
	plus := tr.Leaf("+", 1)
	tr.Node(plus).Kept = true
	b := tr.Leaf("IDENTIFIER", 2)

	n := tr.Node(root)
	n.Children = []NodeID{a, plus, b}
	n.Last = 3
	return tr, root
}

func TestLeafAndInterior(t *testing.T) {
	tr := New(tokens("x"))
	leaf := tr.Leaf("IDENTIFIER", 0)
	inner := tr.Interior("expr", 0)

	l := tr.Node(leaf)
	if l.First != 0 || l.Last != 1 || l.Token != 0 || !l.IsLeaf() {
		t.Errorf("leaf = %+v", *l)
	}
	if l.Parent != NoNode || tr.Old(leaf) != NoNode {
		t.Errorf("leaf links = %d/%d, want NoNode", l.Parent, tr.Old(leaf))
	}

	in := tr.Node(inner)
	if in.First != 0 || in.Last != 0 || in.IsLeaf() {
		t.Errorf("interior = %+v", *in)
	}
	if tr.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tr.Len())
	}
}

func TestCloneHasIndependentChildren(t *testing.T) {
	tr, root := sum(t)
	clone := tr.Clone(root)

	tr.Node(clone).Children = append(tr.Node(clone).Children, root)
	if got := len(tr.Node(root).Children); got != 3 {
		t.Errorf("original children = %d after appending to clone, want 3", got)
	}
	if got := len(tr.Node(clone).Children); got != 4 {
		t.Errorf("clone children = %d, want 4", got)
	}
}

func TestCommit(t *testing.T) {
	tr, root := sum(t)
	tr.SetSymbol(root, "x", root)

	out := tr.Commit(root)
	if out.Root != 0 {
		t.Fatalf("Root = %d, want 0", out.Root)
	}
	if out.Len() != 4 {
		t.Errorf("Len() = %d, want 4 (unreachable nodes dropped)", out.Len())
	}

	r := out.Node(out.Root)
	if r.Name != "sum" || r.Parent != NoNode {
		t.Errorf("root = %+v", *r)
	}
	for i, c := range r.Children {
		if out.Node(c).Parent != out.Root {
			t.Errorf("child %d parent = %d, want %d", i, out.Node(c).Parent, out.Root)
		}
	}
	if names := out.SymbolNames(out.Root); len(names) != 0 {
		t.Errorf("SymbolNames() = %v, want empty after commit", names)
	}
	if names := out.AttributeNames(out.Root); len(names) != 0 {
		t.Errorf("AttributeNames() = %v, want empty after commit", names)
	}
}

func TestText(t *testing.T) {
	tr, root := sum(t)
	out := tr.Commit(root)

	if got := out.Text(out.Root); got != "a + b" {
		t.Errorf("Text(root) = %q, want %q", got, "a + b")
	}
	last := out.Node(out.Root).Children[2]
	if got := out.Text(last); got != "b" {
		t.Errorf("Text(leaf) = %q, want %q", got, "b")
	}
	if got := len(out.TokensOf(out.Root)); got != 3 {
		t.Errorf("TokensOf(root) has %d tokens, want 3", got)
	}
}

func TestWalk(t *testing.T) {
	tr, root := sum(t)
	out := tr.Commit(root)

	var names []string
	var depths []int
	out.Walk(func(id NodeID, depth int) bool {
		names = append(names, out.Node(id).Name)
		depths = append(depths, depth)
		return true
	})

	want := []string{"sum", "IDENTIFIER", "+", "IDENTIFIER"}
	if len(names) != len(want) {
		t.Fatalf("visited %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("visit %d = %s, want %s", i, names[i], want[i])
		}
	}
	if depths[0] != 0 || depths[1] != 1 {
		t.Errorf("depths = %v", depths)
	}

	count := 0
	out.Walk(func(id NodeID, depth int) bool {
		count++
		return false
	})
	if count != 1 {
		t.Errorf("Walk visited %d nodes after returning false, want 1", count)
	}
}

func TestChildrenNamed(t *testing.T) {
	tr, root := sum(t)
	out := tr.Commit(root)

	if got := len(out.ChildrenNamed(out.Root, "IDENTIFIER")); got != 2 {
		t.Errorf("ChildrenNamed(IDENTIFIER) = %d nodes, want 2", got)
	}
	if got := out.FirstChildNamed(out.Root, "+"); got != out.Node(out.Root).Children[1] {
		t.Errorf("FirstChildNamed(+) = %d", got)
	}
	if got := out.FirstChildNamed(out.Root, "missing"); got != NoNode {
		t.Errorf("FirstChildNamed(missing) = %d, want NoNode", got)
	}
}

func TestSideTables(t *testing.T) {
	tr, root := sum(t)
	out := tr.Commit(root)
	id := out.Root
	leaf := out.Node(id).Children[0]

	if _, ok := out.Symbol(id, "a"); ok {
		t.Errorf("Symbol(a) found on a fresh tree")
	}
	out.SetSymbol(id, "a", leaf)
	if got, ok := out.Symbol(id, "a"); !ok || got != leaf {
		t.Errorf("Symbol(a) = %d, %v, want %d, true", got, ok, leaf)
	}

	out.SetAttribute(id, "type", "int")
	if v, ok := out.Attribute(id, "type"); !ok || v != "int" {
		t.Errorf("Attribute(type) = %v, %v", v, ok)
	}
	out.SetAttribute(id, "size", 2)
	if got := out.AttributeNames(id); len(got) != 2 || got[0] != "size" || got[1] != "type" {
		t.Errorf("AttributeNames() = %v, want [size type]", got)
	}

	out.SetOld(id, leaf)
	if out.Old(id) != leaf {
		t.Errorf("Old() = %d, want %d", out.Old(id), leaf)
	}
}

func TestString(t *testing.T) {
	tr, root := sum(t)
	out := tr.Commit(root)

	want := "- sum\n" +
		"  |\n" +
		"  |- IDENTIFIER: a\n" +
		"  |\n" +
		"  |- TOKEN: +\n" +
		"  |\n" +
		"   - IDENTIFIER: b\n"
	if got := out.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}

	if got := New(nil).String(); got != "" {
		t.Errorf("empty tree String() = %q", got)
	}
}
