package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/megac/ast"
	"github.com/dhamidi/megac/grammar"
	"github.com/dhamidi/megac/lex"
	"github.com/dhamidi/megac/workspace"
)

const diagnosticSource = "megac"

// Diagnostics converts the parse result of f into LSP diagnostics. A file
// that parsed cleanly yields an empty, non-nil list so that stale
// diagnostics get cleared.
func Diagnostics(f *workspace.FileInfo) []protocol.Diagnostic {
	diags := []protocol.Diagnostic{}
	if f == nil || f.Err == nil {
		return diags
	}

	d := workspace.DiagnosticFor(f.Path, f.Err)
	start := toPosition(d.Pos)
	end := start
	end.Character++

	severity := protocol.DiagnosticSeverityError
	source := diagnosticSource
	return append(diags, protocol.Diagnostic{
		Range:    protocol.Range{Start: start, End: end},
		Severity: &severity,
		Source:   &source,
		Message:  d.Message,
	})
}

// Outline lists the namespaces, functions, structs and variables declared
// in a tree parsed with the default megac grammar.
func Outline(t *ast.Tree) []protocol.DocumentSymbol {
	if t == nil || t.Root == ast.NoNode {
		return []protocol.DocumentSymbol{}
	}
	out := outline(t, t.Root)
	if out == nil {
		out = []protocol.DocumentSymbol{}
	}
	return out
}

func outline(t *ast.Tree, id ast.NodeID) []protocol.DocumentSymbol {
	var out []protocol.DocumentSymbol
	for _, c := range t.Node(id).Children {
		switch t.Node(c).Name {
		case "namespace":
			sym := documentSymbol(t, c, t.FirstChildNamed(c, grammar.Identifier), protocol.SymbolKindNamespace)
			sym.Children = outline(t, c)
			out = append(out, sym)

		case "struct_definition":
			sym := documentSymbol(t, c, t.FirstChildNamed(c, grammar.Identifier), protocol.SymbolKindStruct)
			sym.Children = outline(t, c)
			out = append(out, sym)

		case "function_definition":
			sym := documentSymbol(t, c, t.FirstChildNamed(c, "function_name"), protocol.SymbolKindFunction)
			detail := t.Text(t.Node(c).Children[0])
			sym.Detail = &detail
			out = append(out, sym)

		case "declaration":
			out = append(out, declarations(t, c)...)

		default:
			out = append(out, outline(t, c)...)
		}
	}
	return out
}

func declarations(t *ast.Tree, decl ast.NodeID) []protocol.DocumentSymbol {
	detail := t.Text(t.Node(decl).Children[0])

	var out []protocol.DocumentSymbol
	t.WalkFrom(decl, func(id ast.NodeID, depth int) bool {
		if t.Node(id).Name != "declarator" {
			return true
		}
		sym := documentSymbol(t, decl, t.FirstChildNamed(id, grammar.Identifier), protocol.SymbolKindVariable)
		sym.Detail = &detail
		out = append(out, sym)
		return false
	})
	return out
}

// documentSymbol names a symbol after the text of nameID and spans it over
// id.
func documentSymbol(t *ast.Tree, id, nameID ast.NodeID, kind protocol.SymbolKind) protocol.DocumentSymbol {
	name := "?"
	selection := nodeRange(t, id)
	if nameID != ast.NoNode {
		name = t.Text(nameID)
		selection = nodeRange(t, nameID)
	}
	return protocol.DocumentSymbol{
		Name:           name,
		Kind:           kind,
		Range:          nodeRange(t, id),
		SelectionRange: selection,
	}
}

func nodeRange(t *ast.Tree, id ast.NodeID) protocol.Range {
	toks := t.TokensOf(id)
	if len(toks) == 0 {
		return protocol.Range{}
	}
	return protocol.Range{
		Start: toPosition(toks[0].Span.Start),
		End:   toPosition(toks[len(toks)-1].Span.End),
	}
}

func toPosition(p lex.Position) protocol.Position {
	var pos protocol.Position
	if p.Line > 0 {
		pos.Line = protocol.UInteger(p.Line - 1)
	}
	if p.Column > 0 {
		pos.Character = protocol.UInteger(p.Column - 1)
	}
	return pos
}
