package syntax

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
)

// CheckPython parses src with the tree-sitter Python grammar.
func CheckPython(ctx context.Context, src []byte) error {
	return checkTreeSitter(ctx, src, python.GetLanguage(), "python")
}

// CheckJavaScript parses src with the tree-sitter JavaScript grammar.
func CheckJavaScript(ctx context.Context, src []byte) error {
	return checkTreeSitter(ctx, src, javascript.GetLanguage(), "javascript")
}

// checkTreeSitter parses src and reports the first error node's position.
// Tree-sitter always produces a tree; invalid input shows up as error nodes.
func checkTreeSitter(ctx context.Context, src []byte, lang *sitter.Language, name string) error {
	p := sitter.NewParser()
	p.SetLanguage(lang)
	tree, err := p.ParseCtx(ctx, nil, src)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil
	}
	if node := firstErrorNode(root); node != nil {
		return fmt.Errorf("%s syntax error at line %d, column %d",
			name, node.StartPoint().Row+1, node.StartPoint().Column+1)
	}
	return fmt.Errorf("%s syntax error", name)
}

// firstErrorNode walks the tree depth-first for the first ERROR or missing node.
func firstErrorNode(node *sitter.Node) *sitter.Node {
	if node.IsError() || node.IsMissing() {
		return node
	}
	if !node.HasError() {
		return nil
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if found := firstErrorNode(node.Child(i)); found != nil {
			return found
		}
	}
	return nil
}
