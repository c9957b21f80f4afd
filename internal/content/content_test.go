package content

import (
	"testing"

	"github.com/bmcallis/aknetl/internal/akn"
	"github.com/bmcallis/aknetl/internal/source"
)

func body(texts ...string) []source.Line {
	lines := make([]source.Line, len(texts))
	for i, t := range texts {
		lines[i] = source.Line{Number: i + 1, Text: t}
	}
	return lines
}

func TestExtract_ParagraphsAndPoints(t *testing.T) {
	nodes := Extract(body(
		"1. Intro text",
		"(a) first point",
		"(b) second point",
		"2. Next para",
	))

	if len(nodes) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(nodes))
	}
	p1, p2 := nodes[0], nodes[1]

	if p1.Kind != akn.NodeParagraph || p1.Number != "1" {
		t.Errorf("unexpected first paragraph %+v", p1)
	}
	if len(p1.Children) != 3 {
		t.Fatalf("expected intro leaf plus 2 points, got %d children", len(p1.Children))
	}
	intro := p1.Children[0]
	if intro.Kind != akn.NodeText || intro.Text != "Intro text" {
		t.Errorf("unexpected intro leaf %+v", intro)
	}
	if intro.Span != (akn.Span{Start: 1, End: 1}) {
		t.Errorf("unexpected intro span %v", intro.Span)
	}
	a, b := p1.Children[1], p1.Children[2]
	if a.Kind != akn.NodePoint || a.Number != "a" || a.Text != "first point" {
		t.Errorf("unexpected point (a) %+v", a)
	}
	if b.Number != "b" || b.Span != (akn.Span{Start: 3, End: 3}) {
		t.Errorf("unexpected point (b) %+v", b)
	}

	if p2.Number != "2" || p2.Text != "Next para" {
		t.Errorf("unexpected second paragraph %+v", p2)
	}
	if p2.Span != (akn.Span{Start: 4, End: 4}) {
		t.Errorf("unexpected second paragraph span %v", p2.Span)
	}
}

func TestExtract_ContinuationLinesJoinInnermost(t *testing.T) {
	nodes := Extract(body(
		"1. First sentence",
		"that continues on the next line.",
		"(a) a point",
		"with its own continuation.",
	))
	if len(nodes) != 1 {
		t.Fatalf("expected 1 paragraph, got %d", len(nodes))
	}
	intro := nodes[0].Children[0]
	if intro.Text != "First sentence\nthat continues on the next line." {
		t.Errorf("unexpected intro text %q", intro.Text)
	}
	point := nodes[0].Children[1]
	if point.Text != "a point\nwith its own continuation." {
		t.Errorf("unexpected point text %q", point.Text)
	}
}

func TestExtract_UnlabeledLeadingParagraph(t *testing.T) {
	nodes := Extract(body(
		"This article has no numbered paragraphs.",
		"Just prose across two lines.",
	))
	if len(nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(nodes))
	}
	n := nodes[0]
	if n.Kind != akn.NodeParagraph || n.Number != "" {
		t.Errorf("expected unlabeled paragraph, got %+v", n)
	}
	if n.Text != "This article has no numbered paragraphs.\nJust prose across two lines." {
		t.Errorf("unexpected text %q", n.Text)
	}
	if n.Span != (akn.Span{Start: 1, End: 2}) {
		t.Errorf("unexpected span %v", n.Span)
	}
}

func TestExtract_RomanAfterLetterH_ContinuesLetterList(t *testing.T) {
	nodes := Extract(body(
		"1. Intro",
		"(h) point h",
		"(i) point i, still a letter",
		"(j) point j",
	))
	p := nodes[0]
	// intro leaf + h + i + j, all at the same depth.
	if len(p.Children) != 4 {
		t.Fatalf("expected 4 children, got %d", len(p.Children))
	}
	if p.Children[2].Number != "i" || len(p.Children[2].Children) != 0 {
		t.Errorf("expected (i) as a letter sibling, got %+v", p.Children[2])
	}
}

func TestExtract_RomanUnderPoint_StartsSubList(t *testing.T) {
	nodes := Extract(body(
		"1. Intro",
		"(a) a point",
		"(i) roman sub-point",
		"(ii) second roman",
		"(b) next letter",
	))
	p := nodes[0]
	if len(p.Children) != 3 {
		t.Fatalf("expected intro leaf, (a) and (b), got %d children", len(p.Children))
	}
	a := p.Children[1]
	if a.Number != "a" {
		t.Fatalf("expected point (a), got %+v", a)
	}
	// (a) holds its lead text leaf plus the two roman sub-points.
	if len(a.Children) != 3 {
		t.Fatalf("expected 3 children under (a), got %d", len(a.Children))
	}
	if a.Children[1].Number != "i" || a.Children[2].Number != "ii" {
		t.Errorf("unexpected sub-points %+v", a.Children[1:])
	}
	if p.Children[2].Number != "b" {
		t.Errorf("expected (b) back at point depth, got %+v", p.Children[2])
	}
}

func TestExtract_DoubledLetterDepths(t *testing.T) {
	// (aa) is a sub-sub-point when a roman sub-point is open.
	nodes := Extract(body(
		"1. Intro",
		"(a) point",
		"(i) sub-point",
		"(aa) sub-sub-point",
	))
	a := nodes[0].Children[1]
	sub := a.Children[1]
	if sub.Number != "i" {
		t.Fatalf("expected sub-point (i), got %+v", sub)
	}
	if len(sub.Children) != 2 || sub.Children[1].Number != "aa" {
		t.Errorf("expected (aa) nested under (i), got %+v", sub.Children)
	}

	// Without an open sub-point, (aa) continues a long letter list.
	nodes = Extract(body(
		"1. Intro",
		"(z) last single letter",
		"(aa) continues the letter list",
	))
	p := nodes[0]
	if len(p.Children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(p.Children))
	}
	if p.Children[2].Number != "aa" || len(p.Children[2].Children) != 0 {
		t.Errorf("expected (aa) as a letter sibling, got %+v", p.Children[2])
	}
}

func TestExtract_LeafSpansCoverBody(t *testing.T) {
	lines := body(
		"1. Intro",
		"continuation of intro.",
		"(a) point a",
		"(i) sub one",
		"(ii) sub two",
		"(b) point b",
		"2. Second paragraph",
		"closing prose.",
	)
	nodes := Extract(lines)
	leaves := Leaves(nodes)
	if len(leaves) == 0 {
		t.Fatal("expected leaves")
	}
	next := lines[0].Number
	for _, leaf := range leaves {
		if leaf.Span.Start != next {
			t.Fatalf("leaf spans not contiguous: expected start %d, got %v", next, leaf.Span)
		}
		if leaf.Span.End < leaf.Span.Start {
			t.Fatalf("inverted leaf span %v", leaf.Span)
		}
		next = leaf.Span.End + 1
	}
	if want := lines[len(lines)-1].Number + 1; next != want {
		t.Errorf("leaf spans stop at %d, expected cover through %d", next-1, want-1)
	}
}

func TestExtract_Empty(t *testing.T) {
	if nodes := Extract(nil); nodes != nil {
		t.Errorf("expected nil for empty body, got %+v", nodes)
	}
}
