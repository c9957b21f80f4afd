package ident

import (
	"testing"

	"github.com/bmcallis/aknetl/internal/akn"
)

func sampleDoc() *akn.Document {
	art5 := &akn.Unit{
		Kind:   akn.KindArticle,
		Number: "5",
		Span:   akn.Span{Start: 10, End: 20},
		Body: []*akn.Node{
			{
				Kind:   akn.NodeParagraph,
				Number: "1",
				Span:   akn.Span{Start: 11, End: 15},
				Children: []*akn.Node{
					{Kind: akn.NodeText, Span: akn.Span{Start: 11, End: 12}, Text: "intro"},
					{Kind: akn.NodePoint, Number: "a", Span: akn.Span{Start: 13, End: 15}},
				},
			},
		},
	}
	return &akn.Document{
		TotalLines: 30,
		Recitals: []*akn.Recital{
			{Number: "1", Span: akn.Span{Start: 2, End: 3}},
		},
		Chapters: []*akn.Unit{
			{
				Kind:     akn.KindChapter,
				Number:   "II",
				Span:     akn.Span{Start: 5, End: 30},
				Children: []*akn.Unit{art5},
			},
		},
	}
}

func TestAssign_HierarchicalPaths(t *testing.T) {
	doc := sampleDoc()
	Assign(doc)

	ch := doc.Chapters[0]
	if ch.EID != "chp_ii" {
		t.Errorf("expected chapter eid %q, got %q", "chp_ii", ch.EID)
	}
	art := ch.Children[0]
	if art.EID != "chp_ii__art_5" {
		t.Errorf("expected article eid %q, got %q", "chp_ii__art_5", art.EID)
	}
	para := art.Body[0]
	if para.EID != "chp_ii__art_5__para_1" {
		t.Errorf("expected paragraph eid %q, got %q", "chp_ii__art_5__para_1", para.EID)
	}
	intro := para.Children[0]
	if intro.EID != "chp_ii__art_5__para_1__content_1" {
		t.Errorf("expected intro eid %q, got %q", "chp_ii__art_5__para_1__content_1", intro.EID)
	}
	point := para.Children[1]
	if point.EID != "chp_ii__art_5__para_1__point_a" {
		t.Errorf("expected point eid %q, got %q", "chp_ii__art_5__para_1__point_a", point.EID)
	}
	if doc.Recitals[0].EID != "rec_1" {
		t.Errorf("expected recital eid %q, got %q", "rec_1", doc.Recitals[0].EID)
	}
	if len(doc.Findings) != 0 {
		t.Errorf("expected no findings, got %+v", doc.Findings)
	}
}

func TestAssign_Deterministic(t *testing.T) {
	first := sampleDoc()
	Assign(first)
	second := sampleDoc()
	Assign(second)

	if first.Chapters[0].Children[0].EID != second.Chapters[0].Children[0].EID {
		t.Error("expected identical eids across runs over the same tree")
	}

	// Reassigning over an already-assigned tree is stable too.
	before := first.Chapters[0].Children[0].EID
	Assign(first)
	if first.Chapters[0].Children[0].EID != before {
		t.Errorf("expected stable eid, got %q then %q", before, first.Chapters[0].Children[0].EID)
	}
}

func TestAssign_DuplicateNumberCollision(t *testing.T) {
	doc := &akn.Document{
		TotalLines: 20,
		Articles: []*akn.Unit{
			{Kind: akn.KindArticle, Number: "1", Span: akn.Span{Start: 1, End: 10}},
			{Kind: akn.KindArticle, Number: "1", Span: akn.Span{Start: 11, End: 20}},
		},
	}
	Assign(doc)

	a1, a2 := doc.Articles[0], doc.Articles[1]
	if a1.EID != "art_1" {
		t.Errorf("expected first eid %q, got %q", "art_1", a1.EID)
	}
	if a2.EID != "art_1_2" {
		t.Errorf("expected disambiguated eid %q, got %q", "art_1_2", a2.EID)
	}
	if a1.EID == a2.EID {
		t.Error("expected distinct eids for duplicate numbering")
	}
	if len(doc.Findings) != 1 || doc.Findings[0].Code != akn.FindingIdentifierCollision {
		t.Errorf("expected identifier collision finding, got %+v", doc.Findings)
	}
}

func TestAssign_UnnumberedNodesCountPerKind(t *testing.T) {
	doc := &akn.Document{
		TotalLines: 10,
		Articles: []*akn.Unit{
			{
				Kind:   akn.KindArticle,
				Number: "1",
				Span:   akn.Span{Start: 1, End: 10},
				Body: []*akn.Node{
					{Kind: akn.NodeText, Span: akn.Span{Start: 1, End: 2}, Text: "intro"},
					{Kind: akn.NodeParagraph, Span: akn.Span{Start: 3, End: 6}},
					{Kind: akn.NodeParagraph, Span: akn.Span{Start: 7, End: 10}},
				},
			},
		},
	}
	Assign(doc)

	body := doc.Articles[0].Body
	if body[0].EID != "art_1__content_1" {
		t.Errorf("expected text leaf eid %q, got %q", "art_1__content_1", body[0].EID)
	}
	if body[1].EID != "art_1__para_1" {
		t.Errorf("expected first unlabeled paragraph eid %q, got %q", "art_1__para_1", body[1].EID)
	}
	if body[2].EID != "art_1__para_2" {
		t.Errorf("expected second unlabeled paragraph eid %q, got %q", "art_1__para_2", body[2].EID)
	}
	if len(doc.Findings) != 0 {
		t.Errorf("expected no findings, got %+v", doc.Findings)
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"II", "ii"},
		{"(a)", "a"},
		{"16a", "16a"},
		{"CHAPTER II", "chapterii"},
		{"", ""},
	}
	for _, c := range cases {
		if got := normalize(c.in); got != c.want {
			t.Errorf("normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
