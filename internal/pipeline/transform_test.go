package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/bmcallis/aknetl/internal/akn"
	"github.com/bmcallis/aknetl/internal/confirm"
	"github.com/bmcallis/aknetl/internal/scan"
	"github.com/bmcallis/aknetl/internal/source"
)

func readLines(t *testing.T, text string) []source.Line {
	t.Helper()
	lines, err := (&source.TextReader{}).Lines(strings.NewReader(text), "doc.txt")
	if err != nil {
		t.Fatal(err)
	}
	return lines
}

func patternConfirmer() *confirm.Confirmer {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return confirm.New(nil, log, confirm.DefaultConfig())
}

const sampleRegulation = `REGULATION (EU) 2022/2554 OF THE EUROPEAN PARLIAMENT AND OF THE COUNCIL
Having regard to the Treaty on the Functioning of the European Union,
Whereas:
(1) In the digital age, ICT supports complex systems.
(2) Digitalisation covers the wide range of financial services.
HAVE ADOPTED THIS REGULATION:
CHAPTER I
General provisions
Article 1
Subject matter
1. This Regulation lays down uniform requirements, namely:
(a) requirements applicable to financial entities;
(b) requirements in relation to ICT third-party service providers.
2. In relation to financial entities, this Regulation applies broadly.
Article 2
Scope
1. This Regulation applies to the following entities:
(a) credit institutions;
(b) payment institutions.
CHAPTER II
ICT risk management
Section I
Governance
Article 3
Governance and organisation
1. Financial entities shall have in place an internal governance framework.
2. The management body shall define and approve the framework.
`

func TestTransform_EndToEnd(t *testing.T) {
	lines := readLines(t, sampleRegulation)
	doc, err := Transform(context.Background(), lines, TransformOptions{
		Scanner:   scan.Default(),
		Confirmer: patternConfirmer(),
		Title:     "DORA",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title != "DORA" {
		t.Errorf("expected title carried through, got %q", doc.Title)
	}
	if len(doc.Recitals) != 2 {
		t.Errorf("expected 2 recitals, got %d", len(doc.Recitals))
	}
	if doc.Preface == nil {
		t.Error("expected a preface span")
	} else if !strings.Contains(doc.PrefaceText, "REGULATION (EU) 2022/2554") {
		t.Errorf("unexpected preface text %q", doc.PrefaceText)
	}

	if got := doc.CountByKind(akn.KindChapter); got != 2 {
		t.Fatalf("expected 2 chapters, got %d", got)
	}
	if got := doc.CountByKind(akn.KindSection); got != 1 {
		t.Errorf("expected 1 section, got %d", got)
	}
	if got := doc.CountByKind(akn.KindArticle); got != 3 {
		t.Fatalf("expected 3 articles, got %d", got)
	}

	ch1 := doc.Chapters[0]
	if ch1.Heading != "General provisions" {
		t.Errorf("unexpected chapter heading %q", ch1.Heading)
	}
	if len(ch1.Children) != 2 {
		t.Fatalf("expected 2 articles in chapter I, got %d", len(ch1.Children))
	}

	art1 := ch1.Children[0]
	if art1.Heading != "Subject matter" {
		t.Errorf("unexpected article heading %q", art1.Heading)
	}
	if len(art1.Body) != 2 {
		t.Fatalf("expected 2 paragraphs in article 1, got %d", len(art1.Body))
	}
	p1 := art1.Body[0]
	if p1.Number != "1" || len(p1.Children) != 3 {
		t.Errorf("expected intro leaf plus 2 points in paragraph 1, got %+v", p1)
	}
	if art1.EID != "chp_i__art_1" {
		t.Errorf("unexpected article eid %q", art1.EID)
	}
	if p1.EID != "chp_i__art_1__para_1" {
		t.Errorf("unexpected paragraph eid %q", p1.EID)
	}

	// Chapter II: section holds article 3.
	ch2 := doc.Chapters[1]
	if len(ch2.Children) != 1 || ch2.Children[0].Kind != akn.KindSection {
		t.Fatalf("expected 1 section in chapter II, got %+v", ch2.Children)
	}
	sec := ch2.Children[0]
	if len(sec.Children) != 1 || sec.Children[0].Number != "3" {
		t.Errorf("expected article 3 under the section, got %+v", sec.Children)
	}
	if sec.Children[0].EID != "chp_ii__sec_i__art_3" {
		t.Errorf("unexpected nested eid %q", sec.Children[0].EID)
	}

	if len(doc.Findings) != 0 {
		t.Errorf("expected no findings, got %+v", doc.Findings)
	}
}

func TestTransform_EmptyInput(t *testing.T) {
	_, err := Transform(context.Background(), nil, TransformOptions{
		Scanner:   scan.Default(),
		Confirmer: patternConfirmer(),
	})
	if err == nil {
		t.Fatal("expected fatal error for empty input")
	}
	var fatal *akn.FatalInputError
	if !errors.As(err, &fatal) {
		t.Fatalf("expected fatal input error, got %v", err)
	}
}

func TestTransform_NoBoundaries(t *testing.T) {
	lines := readLines(t, "Just some prose.\nNothing structural here.\n")
	doc, err := Transform(context.Background(), lines, TransformOptions{
		Scanner:   scan.Default(),
		Confirmer: patternConfirmer(),
	})
	if err != nil {
		t.Fatalf("expected findings, not an error: %v", err)
	}
	found := false
	for _, f := range doc.Findings {
		if f.Code == akn.FindingPatternNotFound {
			found = true
		}
	}
	if !found {
		t.Errorf("expected pattern not found finding, got %+v", doc.Findings)
	}
}

func TestTransform_LargeDocumentRegression(t *testing.T) {
	// A synthetic regulation with the shape of a real one: 9 chapters,
	// sections in two of them, 64 articles.
	var sb strings.Builder
	sb.WriteString("Having regard to the Treaty,\n")
	sb.WriteString("Whereas:\n(1) A recital.\n")
	sb.WriteString("HAVE ADOPTED THIS REGULATION:\n")

	romans := []string{"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX"}
	article := 0
	for chIdx, roman := range romans {
		fmt.Fprintf(&sb, "CHAPTER %s\nChapter heading %d\n", roman, chIdx+1)
		sections := 1
		if chIdx == 1 || chIdx == 4 {
			sections = 3
		}
		for s := 0; s < sections; s++ {
			if sections > 1 {
				fmt.Fprintf(&sb, "Section %s\nSection heading\n", romans[s])
			}
			perSection := 7 - chIdx%3
			if article+perSection > 64 {
				perSection = 64 - article
			}
			for a := 0; a < perSection; a++ {
				article++
				fmt.Fprintf(&sb, "Article %d\nArticle heading %d\n", article, article)
				fmt.Fprintf(&sb, "1. First paragraph of article %d.\n", article)
				fmt.Fprintf(&sb, "(a) a point;\n(b) another point.\n")
				fmt.Fprintf(&sb, "2. Second paragraph.\n")
			}
		}
	}
	for article < 64 {
		article++
		fmt.Fprintf(&sb, "Article %d\nFinal provisions %d\n1. Text.\n", article, article)
	}

	lines := readLines(t, sb.String())
	doc, err := Transform(context.Background(), lines, TransformOptions{
		Scanner:   scan.Default(),
		Confirmer: patternConfirmer(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := doc.CountByKind(akn.KindChapter); got != 9 {
		t.Errorf("expected 9 chapters, got %d", got)
	}
	if got := doc.CountByKind(akn.KindSection); got != 6 {
		t.Errorf("expected 6 sections, got %d", got)
	}
	if got := doc.CountByKind(akn.KindArticle); got != 64 {
		t.Errorf("expected 64 articles, got %d", got)
	}

	// Identifier uniqueness over the whole tree.
	seen := make(map[string]bool)
	doc.Walk(func(u *akn.Unit) {
		if u.EID == "" {
			t.Errorf("unit %s %s has no eid", u.Kind, u.Number)
		}
		if seen[u.EID] {
			t.Errorf("duplicate eid %q", u.EID)
		}
		seen[u.EID] = true
	})
}
