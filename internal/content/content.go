// Package content extracts the nested paragraph/point structure from
// an article body. Extraction is purely line-range driven: every line
// of the body ends up in exactly one leaf node, so the concatenation
// of leaf spans reconstructs the body range with no gaps, overlaps or
// duplication.
package content

import (
	"regexp"
	"strings"

	"github.com/bmcallis/aknetl/internal/akn"
	"github.com/bmcallis/aknetl/internal/source"
)

// MaxDepth bounds nesting: paragraph, point, sub-point, sub-sub-point,
// matching the arabic → letter → lower-roman → doubled-letter
// conventions of EU legal drafting.
const MaxDepth = 4

var (
	paragraphRe = regexp.MustCompile(`^(\d{1,3})\.\s+(.*)$`)
	markerRe    = regexp.MustCompile(`^\(([a-z]{1,4})\)\s*(.*)$`)
	romanChars  = regexp.MustCompile(`^[ivxl]+$`)
)

// Extract parses the body lines of an article (the span after the
// "Article N" header and title) into ordered content nodes. Lines
// matching no numbering pattern join the innermost open node, or open
// an unlabeled leading paragraph when nothing is open yet.
func Extract(lines []source.Line) []*akn.Node {
	if len(lines) == 0 {
		return nil
	}

	p := &parser{end: lines[len(lines)-1].Number}
	for _, ln := range lines {
		text := strings.TrimSpace(ln.Text)

		if m := paragraphRe.FindStringSubmatch(text); m != nil {
			p.open(0, akn.NodeParagraph, m[1], m[2], ln.Number)
			continue
		}
		if m := markerRe.FindStringSubmatch(text); m != nil {
			if depth := p.markerDepth(m[1]); depth > 0 {
				p.open(depth, akn.NodePoint, m[1], m[2], ln.Number)
				continue
			}
		}
		p.text(text, ln.Number)
	}
	p.closeAll()
	return p.roots
}

type openNode struct {
	node    *akn.Node
	ownText []string
}

type parser struct {
	roots []*akn.Node
	stack []openNode
	end   int
}

// markerDepth classifies a bracketed marker token into a nesting
// depth, using the currently open structure to resolve the ambiguity
// between letter lists and roman sub-lists: "(i)" after "(h)"
// continues the letter list, while "(i)" under an open point starts
// roman numbering; "(aa)" follows "(z)" in a long letter list but is a
// doubled-letter sub-point when a roman point is open.
func (p *parser) markerDepth(tok string) int {
	openL1 := len(p.stack) >= 2
	openL2 := len(p.stack) >= 3

	// Doubled letters: (aa), (bb), …
	if len(tok) == 2 && tok[0] == tok[1] && !romanChars.MatchString(tok) {
		if openL2 {
			return 3
		}
		return 1
	}

	if romanChars.MatchString(tok) {
		if openL2 {
			return 2
		}
		if openL1 {
			last := p.stack[1].node.Number
			if tok == "i" && last == "h" {
				return 1
			}
			if tok == "v" && last == "u" {
				return 1
			}
			if tok == "x" && last == "w" {
				return 1
			}
			return 2
		}
		if len(tok) == 1 {
			return 1
		}
		return 0
	}

	if len(tok) == 1 {
		return 1
	}
	if len(tok) == 2 && tok[0] == tok[1] {
		return 1
	}
	return 0
}

// open closes everything at the target depth or deeper, then starts a
// new node there. A marker deeper than the open structure allows is
// clamped to the next available depth so content is never dropped.
func (p *parser) open(depth int, kind akn.NodeKind, number, lead string, line int) {
	if depth > len(p.stack) {
		depth = len(p.stack)
	}
	if depth >= MaxDepth {
		// Too deep to represent; keep the line as text instead.
		p.text(numberedText(kind, number, lead), line)
		return
	}
	p.closeTo(depth, line-1)

	node := &akn.Node{
		Kind:   kind,
		Number: number,
		Span:   akn.Span{Start: line, End: p.end},
	}
	p.attach(node, line)
	p.stack = append(p.stack, openNode{node: node})
	if lead != "" {
		top := &p.stack[len(p.stack)-1]
		top.ownText = append(top.ownText, lead)
	}
}

// text appends a plain line to the innermost open node, opening an
// unlabeled paragraph when the body starts without a marker.
func (p *parser) text(line string, lineNo int) {
	if len(p.stack) == 0 {
		node := &akn.Node{
			Kind: akn.NodeParagraph,
			Span: akn.Span{Start: lineNo, End: p.end},
		}
		p.roots = append(p.roots, node)
		p.stack = append(p.stack, openNode{node: node})
	}
	top := &p.stack[len(p.stack)-1]
	top.ownText = append(top.ownText, line)
}

// attach links a new node under the open node above it. When the
// parent held direct text, that text becomes an explicit text leaf
// covering the lines before the child, keeping leaf spans contiguous.
func (p *parser) attach(node *akn.Node, childStart int) {
	if len(p.stack) == 0 {
		p.roots = append(p.roots, node)
		return
	}
	parent := &p.stack[len(p.stack)-1]
	if len(parent.node.Children) == 0 {
		textLeaf := &akn.Node{
			Kind: akn.NodeText,
			Span: akn.Span{Start: parent.node.Span.Start, End: childStart - 1},
			Text: strings.Join(parent.ownText, "\n"),
		}
		parent.node.Children = append(parent.node.Children, textLeaf)
		parent.ownText = nil
	}
	parent.node.Children = append(parent.node.Children, node)
}

// closeTo closes open nodes at depth and deeper, fixing their end lines.
func (p *parser) closeTo(depth, endLine int) {
	for len(p.stack) > depth {
		top := &p.stack[len(p.stack)-1]
		top.node.Span.End = endLine
		p.flushText(top)
		p.stack = p.stack[:len(p.stack)-1]
	}
}

func (p *parser) closeAll() {
	p.closeTo(0, p.end)
}

// flushText stores a closing node's accumulated direct text.
func (p *parser) flushText(n *openNode) {
	if len(n.ownText) == 0 {
		return
	}
	n.node.Text = strings.Join(n.ownText, "\n")
	n.ownText = nil
}

func numberedText(kind akn.NodeKind, number, lead string) string {
	if kind == akn.NodeParagraph {
		return number + ". " + lead
	}
	return "(" + number + ") " + lead
}

// Leaves returns the leaf nodes of a content tree in document order.
func Leaves(nodes []*akn.Node) []*akn.Node {
	var out []*akn.Node
	var visit func(ns []*akn.Node)
	visit = func(ns []*akn.Node) {
		for _, n := range ns {
			if len(n.Children) == 0 {
				out = append(out, n)
				continue
			}
			visit(n.Children)
		}
	}
	visit(nodes)
	return out
}
