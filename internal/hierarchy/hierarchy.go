// Package hierarchy assigns confirmed boundaries into the strict
// containment tree: sections under chapters, articles under the
// innermost section or chapter containing them.
package hierarchy

import (
	"fmt"

	"github.com/bmcallis/aknetl/internal/akn"
	"github.com/bmcallis/aknetl/internal/confirm"
)

// Build freezes the confirmed boundaries into a Document tree. A unit
// whose span fits no single parent is reported as an orphan finding
// and attached at the top level rather than dropped; the content is
// never silently truncated.
func Build(res confirm.Result, totalLines int) (*akn.Document, error) {
	if totalLines < 1 {
		return nil, &akn.FatalInputError{Reason: "document has no lines"}
	}
	for _, bs := range [][]akn.Boundary{res.Chapters, res.Sections, res.Articles} {
		for _, b := range bs {
			if !b.Span.Valid() {
				return nil, &akn.FatalInputError{
					Reason: fmt.Sprintf("%s %s has inverted span %s", b.Kind, b.Number, b.Span),
				}
			}
		}
	}

	doc := &akn.Document{TotalLines: totalLines}
	doc.Findings = append(doc.Findings, res.Findings...)

	chapters := toUnits(res.Chapters)
	sections := toUnits(res.Sections)
	articles := toUnits(res.Articles)

	// Sections attach to the chapter containing their span. An orphan
	// section is reported, kept at the top level, and excluded from
	// article parenting so its articles fall through to the containing
	// chapter instead of disappearing with it.
	var attachedSections, looseSections []*akn.Unit
	for _, s := range sections {
		parent := innermost(chapters, s.Span)
		if parent == nil {
			doc.AddFinding(akn.FindingOrphanUnit, s.Span,
				"section %s is not contained in any chapter", s.Number)
			looseSections = append(looseSections, s)
			continue
		}
		parent.Children = append(parent.Children, s)
		attachedSections = append(attachedSections, s)
	}
	doc.Sections = looseSections

	// Articles attach to the innermost section, else chapter, else top.
	var looseArticles []*akn.Unit
	for _, a := range articles {
		if parent := innermost(attachedSections, a.Span); parent != nil {
			parent.Children = append(parent.Children, a)
			continue
		}
		if parent := innermost(chapters, a.Span); parent != nil {
			parent.Children = append(parent.Children, a)
			continue
		}
		if len(chapters) > 0 {
			doc.AddFinding(akn.FindingOrphanUnit, a.Span,
				"article %s is not contained in any chapter or section", a.Number)
		}
		looseArticles = append(looseArticles, a)
	}

	if len(chapters) > 0 {
		doc.Chapters = chapters
		// Orphan articles still belong to the document; they stay in
		// the top-level article list so nothing is lost.
		doc.Articles = looseArticles
	} else {
		doc.Articles = articles
	}

	sortChildren(doc.Chapters)
	return doc, nil
}

func toUnits(bounds []akn.Boundary) []*akn.Unit {
	var out []*akn.Unit
	for _, b := range bounds {
		out = append(out, &akn.Unit{
			Kind:       b.Kind,
			Number:     b.Number,
			Heading:    b.Heading,
			Span:       b.Span,
			Confidence: b.Confidence,
		})
	}
	return out
}

// innermost returns the unit with the smallest span that contains s,
// or nil when no unit contains it.
func innermost(units []*akn.Unit, s akn.Span) *akn.Unit {
	var best *akn.Unit
	for _, u := range units {
		if !u.Span.Contains(s) {
			continue
		}
		if best == nil || u.Span.Len() < best.Span.Len() {
			best = u
		}
	}
	return best
}

// sortChildren keeps each chapter's sections and articles in document
// order. Construction already appends in span order per kind, but a
// chapter holding both needs its combined child list interleaved.
func sortChildren(chapters []*akn.Unit) {
	for _, ch := range chapters {
		kids := ch.Children
		for i := 1; i < len(kids); i++ {
			for j := i; j > 0 && kids[j].Span.Start < kids[j-1].Span.Start; j-- {
				kids[j], kids[j-1] = kids[j-1], kids[j]
			}
		}
		sortChildren(ch.Children)
	}
}
