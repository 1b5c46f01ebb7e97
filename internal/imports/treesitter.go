//go:build cgo

package imports

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Parser wraps a tree-sitter parser configured for Python.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a new tree-sitter Python parser.
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &Parser{parser: p}
}

// IsAvailable reports whether parsing is compiled in.
func IsAvailable() bool {
	return true
}

// Imports parses source and returns every import specifier, walking nested
// blocks in document order. Any ERROR or MISSING node fails the parse.
func (p *Parser) Imports(ctx context.Context, source []byte) ([]string, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, firstSyntaxError(root)
	}
	if err := checkIndentation(root); err != nil {
		return nil, err
	}

	var specs []string
	var walk func(*sitter.Node)
	walk = func(node *sitter.Node) {
		if node == nil {
			return
		}

		switch node.Type() {
		case "import_statement":
			specs = append(specs, importNames(node, source)...)
			return
		case "import_from_statement":
			if spec, ok := fromModule(node, source); ok {
				specs = append(specs, spec)
			}
			return
		case "future_import_statement":
			specs = append(specs, "__future__")
			return
		}

		for i := 0; i < int(node.ChildCount()); i++ {
			walk(node.Child(i))
		}
	}
	walk(root)

	return specs, nil
}

// importNames handles "import a, b.c as d", yielding "a", "b.c".
func importNames(node *sitter.Node, source []byte) []string {
	var names []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "dotted_name":
			names = append(names, dottedName(child, source))
		case "aliased_import":
			if name := child.ChildByFieldName("name"); name != nil {
				names = append(names, dottedName(name, source))
			}
		}
	}
	return names
}

// fromModule handles "from X import ...". Leading dots of a relative import
// are dropped; "from . import y" has no module and yields nothing.
func fromModule(node *sitter.Node, source []byte) (string, bool) {
	module := node.ChildByFieldName("module_name")
	if module == nil {
		return "", false
	}

	switch module.Type() {
	case "dotted_name":
		return dottedName(module, source), true
	case "relative_import":
		for i := 0; i < int(module.NamedChildCount()); i++ {
			if child := module.NamedChild(i); child.Type() == "dotted_name" {
				return dottedName(child, source), true
			}
		}
	}
	return "", false
}

// dottedName joins the identifiers of a dotted_name, dropping any whitespace
// or comments between the parts.
func dottedName(node *sitter.Node, source []byte) string {
	var parts []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "identifier" {
			parts = append(parts, child.Content(source))
		}
	}
	if len(parts) == 0 {
		return strings.TrimSpace(node.Content(source))
	}
	return strings.Join(parts, ".")
}

// firstSyntaxError locates the first ERROR or MISSING node in document order.
func firstSyntaxError(root *sitter.Node) *SyntaxError {
	var found *sitter.Node
	var walk func(*sitter.Node)
	walk = func(node *sitter.Node) {
		if node == nil || found != nil {
			return
		}
		if node.IsError() || node.IsMissing() {
			found = node
			return
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			if child != nil && (child.HasError() || child.IsMissing()) {
				walk(child)
			}
		}
	}
	walk(root)

	if found == nil {
		return &SyntaxError{Line: 1, Column: 1}
	}
	start := found.StartPoint()
	return &SyntaxError{
		Line:    int(start.Row) + 1,
		Column:  int(start.Column) + 1,
		Missing: found.IsMissing(),
	}
}

// checkIndentation rejects layouts the grammar tolerates but Python does not:
// an indented module statement, an empty or unindented block, and a block
// line whose indent differs from the block's first line. Only statements
// that begin a line are checked; "a = 1; b = 2" is a single line.
func checkIndentation(node *sitter.Node) *SyntaxError {
	switch node.Type() {
	case "module":
		if err := checkStatements(node, -1); err != nil {
			return err
		}
	case "block":
		if err := checkStatements(node, int(node.Parent().StartPoint().Column)); err != nil {
			return err
		}
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		if err := checkIndentation(node.NamedChild(i)); err != nil {
			return err
		}
	}
	return nil
}

// checkStatements checks the line-leading statements of a module (header < 0)
// or of a block whose header starts at column header.
func checkStatements(node *sitter.Node, header int) *SyntaxError {
	var (
		indent  = 0
		seen    = false
		inline  = false
		lastRow = -1
	)
	if header >= 0 {
		lastRow = int(node.Parent().StartPoint().Row)
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.IsExtra() || child.Type() == "comment" {
			continue
		}
		start := child.StartPoint()
		row, col := int(start.Row), int(start.Column)

		leading := row > lastRow
		lastRow = int(child.EndPoint().Row)
		if !seen && !leading {
			inline = true
		}
		first := !seen
		seen = true
		if !leading {
			continue
		}

		switch {
		case inline && header >= 0:
			return indentError(start, reasonUnexpectedIndent)
		case first && header >= 0 && col <= header:
			return indentError(start, reasonExpectedIndent)
		case first:
			indent = col
			if header < 0 && indent != 0 {
				return indentError(start, reasonUnexpectedIndent)
			}
		case col > indent:
			return indentError(start, reasonUnexpectedIndent)
		case col < indent:
			return indentError(start, reasonUnindent)
		}
	}

	if !seen && header >= 0 {
		at := node.Parent().StartPoint()
		return &SyntaxError{Line: int(at.Row) + 2, Column: 1, Reason: reasonExpectedIndent}
	}
	return nil
}

func indentError(at sitter.Point, reason string) *SyntaxError {
	return &SyntaxError{Line: int(at.Row) + 1, Column: int(at.Column) + 1, Reason: reason}
}

// Backend describes the parser compiled into this build.
func Backend() string {
	return "tree-sitter python"
}
