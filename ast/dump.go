package ast

import "strings"

const maxDumpedString = 40

// String renders the tree rooted at t.Root as an indented outline:
//
//	- start
//	  |
//	  - IDENTIFIER: x
func (t *Tree) String() string {
	if t.Root == NoNode {
		return ""
	}
	return t.Dump(t.Root)
}

// Dump renders the subtree rooted at id the way String does.
func (t *Tree) Dump(id NodeID) string {
	var sb strings.Builder
	t.dump(&sb, id, "")
	return sb.String()
}

func (t *Tree) dump(sb *strings.Builder, id NodeID, prefix string) {
	n := &t.nodes[id]

	sb.WriteString(prefix + "- ")
	switch {
	case n.Kept:
		sb.WriteString("TOKEN: " + n.Name)
	case n.Empty:
		sb.WriteString(n.Name + " (empty)")
	default:
		sb.WriteString(n.Name)
		if n.Token >= 0 {
			tok := t.Tokens[n.Token]
			switch n.Name {
			case "IDENTIFIER", "CONSTANT":
				sb.WriteString(": " + tok.Literal)
			case "STRING_LITERAL":
				if len(tok.Literal) < maxDumpedString {
					sb.WriteString(": " + tok.String())
				}
			}
		}
	}
	sb.WriteString("\n")

	for i, c := range n.Children {
		sb.WriteString(prefix + "  |\n")
		next := prefix + "  |"
		if i == len(n.Children)-1 {
			next = prefix + "   "
		}
		t.dump(sb, c, next)
	}
}
