// Package pysrc answers the two questions the formatting handlers ask about
// Python source: does it parse, and which top-level statement spans a line.
package pysrc

import (
	"context"
	"errors"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

var (
	ErrSyntax      = errors.New("source contains syntax errors")
	ErrNoStatement = errors.New("no statement found")
)

func parse(ctx context.Context, src []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	return parser.ParseCtx(ctx, nil, src)
}

// HasSyntaxError reports whether src fails to parse as Python.
func HasSyntaxError(ctx context.Context, src []byte) bool {
	tree, err := parse(ctx, src)
	if err != nil {
		return true
	}
	defer tree.Close()
	return tree.RootNode().HasError()
}

// StatementRange returns the 1-based first and last line of the top-level
// statement spanning the given 1-based line. Lines past the last statement
// resolve to the last statement.
func StatementRange(ctx context.Context, src []byte, line uint32) (start, end uint32, err error) {
	tree, err := parse(ctx, src)
	if err != nil {
		return 0, 0, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return 0, 0, ErrSyntax
	}

	count := int(root.NamedChildCount())
	for i := 0; i < count; i++ {
		stmt := root.NamedChild(i)
		if stmt.Type() == "comment" {
			continue
		}
		start = stmt.StartPoint().Row + 1
		end = stmt.EndPoint().Row + 1
		if line >= start && line <= end {
			return start, end, nil
		}
	}
	if start == 0 {
		return 0, 0, ErrNoStatement
	}
	return start, end, nil
}
