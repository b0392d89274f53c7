package scanner

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
)

// Block is a comment, or a run of consecutive line comments, with its 1-based start line
type Block struct {
	Text string
	Line int
}

type comment struct {
	text     string
	startRow uint32
	endRow   uint32
	line     bool
}

// extractComments parses src with the language grammar and returns comment blocks in source order
func extractComments(ctx context.Context, lang *language, src []byte) ([]*Block, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(lang.grammar())
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %v source: %w", lang.name, err)
	}
	var comments []*comment
	collectComments(tree.RootNode(), src, &comments)
	return mergeComments(comments), nil
}

func collectComments(node *sitter.Node, src []byte, comments *[]*comment) {
	if strings.HasSuffix(node.Type(), "comment") {
		text := node.Content(src)
		start, end := node.StartPoint(), node.EndPoint()
		endRow := end.Row
		if end.Column == 0 && endRow > start.Row {
			endRow--
		}
		// leading columns keep token positions aligned with the source
		*comments = append(*comments, &comment{
			text:     strings.Repeat(" ", lineColumn(src, node.StartByte())) + text,
			startRow: start.Row,
			endRow:   endRow,
			line:     strings.HasPrefix(text, "//"),
		})
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		collectComments(node.Child(i), src, comments)
	}
}

// lineColumn returns the rune column of offset within its line, tree-sitter columns count bytes
func lineColumn(src []byte, offset uint32) int {
	prefix := src[:offset]
	return utf8.RuneCount(prefix[bytes.LastIndexByte(prefix, '\n')+1:])
}

func mergeComments(comments []*comment) []*Block {
	var result []*Block
	var previous *comment
	for _, c := range comments {
		if previous != nil && previous.line && c.line && c.startRow == previous.endRow+1 {
			last := result[len(result)-1]
			last.Text += "\n" + c.text
			previous = c
			continue
		}
		result = append(result, &Block{Text: c.text, Line: int(c.startRow) + 1})
		previous = c
	}
	return result
}
