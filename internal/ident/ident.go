// Package ident assigns eId-style identifiers to every structural and
// content node of a finished document. Identifiers are hierarchical
// path segments ("chp_II__art_5__para_1"), unique within the document,
// and deterministic: regenerating over an unchanged tree yields
// byte-identical output.
package ident

import (
	"strconv"
	"strings"

	"github.com/bmcallis/aknetl/internal/akn"
)

// Separator joins path segments. Underscores inside a segment separate
// the kind token from the number, so the double underscore can never
// appear in a normalized segment.
const Separator = "__"

var kindTokens = map[akn.Kind]string{
	akn.KindChapter: "chp",
	akn.KindSection: "sec",
	akn.KindArticle: "art",
}

var nodeTokens = map[akn.NodeKind]string{
	akn.NodeParagraph: "para",
	akn.NodePoint:     "point",
	akn.NodeText:      "content",
}

// Assign walks the document and sets EID on every unit, content node
// and recital. Sibling collisions (duplicate numbering in the source)
// get a positional suffix and an identifier_collision finding instead
// of failing the pipeline.
func Assign(doc *akn.Document) {
	seen := make(map[string]bool)

	for _, r := range doc.Recitals {
		r.EID = unique("rec_"+normalize(r.Number), r.Span, seen, doc)
	}

	var visitNodes func(prefix string, nodes []*akn.Node)
	visitNodes = func(prefix string, nodes []*akn.Node) {
		// Unnumbered nodes count per kind, so a text leaf between two
		// unlabeled paragraphs does not shift the paragraph numbering.
		unnumbered := make(map[akn.NodeKind]int)
		for _, n := range nodes {
			seg := nodeTokens[n.Kind]
			if num := normalize(n.Number); num != "" {
				seg += "_" + num
			} else {
				unnumbered[n.Kind]++
				seg += "_" + strconv.Itoa(unnumbered[n.Kind])
			}
			n.EID = unique(prefix+Separator+seg, n.Span, seen, doc)
			visitNodes(n.EID, n.Children)
		}
	}

	var visitUnits func(prefix string, units []*akn.Unit)
	visitUnits = func(prefix string, units []*akn.Unit) {
		for _, u := range units {
			seg := kindTokens[u.Kind] + "_" + normalize(u.Number)
			if prefix != "" {
				seg = prefix + Separator + seg
			}
			u.EID = unique(seg, u.Span, seen, doc)
			visitUnits(u.EID, u.Children)
			visitNodes(u.EID, u.Body)
		}
	}
	visitUnits("", doc.Units())
}

// normalize lower-cases a number token and strips everything that is
// not a letter or digit, so "CHAPTER II", "(a)" and "16a" become
// "ii", "a" and "16a".
func normalize(num string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(num) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// unique reserves an identifier, appending a positional suffix and
// flagging a finding when a sibling already normalized to it.
func unique(eid string, span akn.Span, seen map[string]bool, doc *akn.Document) string {
	if !seen[eid] {
		seen[eid] = true
		return eid
	}
	for i := 2; ; i++ {
		cand := eid + "_" + strconv.Itoa(i)
		if !seen[cand] {
			seen[cand] = true
			doc.Findings = append(doc.Findings, akn.Finding{
				Code:    akn.FindingIdentifierCollision,
				Message: "duplicate numbering normalized to " + eid + ", disambiguated as " + cand,
				Span:    span,
				EID:     cand,
			})
			return cand
		}
	}
}
