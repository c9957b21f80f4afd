package source

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownReader handles Markdown files using goldmark. Headings and
// block content are flattened to numbered lines in document order, so
// a regulation authored as markdown scans the same as plain text.
type MarkdownReader struct{}

func (p *MarkdownReader) Lines(r io.Reader, filename string) ([]Line, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	var lines []Line
	next := 1

	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch node := c.(type) {
			case *ast.Heading:
				var headingLines []Line
				headingLines, next = numberLines(string(node.Text(src)), next)
				lines = append(lines, headingLines...)
			case *ast.List:
				walk(node)
			case *ast.ListItem:
				walk(node)
			default:
				t := blockText(c, src)
				if t != "" {
					var blockLines []Line
					blockLines, next = numberLines(t, next)
					lines = append(lines, blockLines...)
				}
			}
		}
	}
	walk(doc)

	return lines, nil
}

// blockText gets the text content of a goldmark AST node.
func blockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else if buf.Len() == 0 {
			buf.WriteString(blockText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
