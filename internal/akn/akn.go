// Package akn holds the document model shared by every stage of the
// transform pipeline: line spans, structural units, article content
// nodes, and the findings list that carries non-fatal issues alongside
// a successfully built document.
package akn

import "fmt"

// Kind identifies a structural unit in the legal hierarchy.
type Kind string

const (
	KindChapter Kind = "chapter"
	KindSection Kind = "section"
	KindArticle Kind = "article"
)

// Rank orders kinds by containment: lower rank contains higher rank.
func (k Kind) Rank() int {
	switch k {
	case KindChapter:
		return 0
	case KindSection:
		return 1
	case KindArticle:
		return 2
	}
	return 3
}

// Confidence records how a boundary was established.
type Confidence string

const (
	// ConfidencePattern means the boundary came from pattern matching only.
	ConfidencePattern Confidence = "pattern"
	// ConfidenceConfirmed means a semantic suggestion corroborated the match.
	ConfidenceConfirmed Confidence = "confirmed"
	// ConfidenceLow means a suggestion existed nearby but never matched.
	ConfidenceLow Confidence = "low"
)

// Span is an inclusive 1-indexed line range.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Valid reports whether the span is well-formed.
func (s Span) Valid() bool {
	return s.Start >= 1 && s.Start <= s.End
}

// Contains reports whether o lies entirely inside s.
func (s Span) Contains(o Span) bool {
	return s.Start <= o.Start && o.End <= s.End
}

// Overlaps reports whether s and o share at least one line.
func (s Span) Overlaps(o Span) bool {
	return s.Start <= o.End && o.Start <= s.End
}

// Len is the number of lines covered.
func (s Span) Len() int {
	if !s.Valid() {
		return 0
	}
	return s.End - s.Start + 1
}

func (s Span) String() string {
	return fmt.Sprintf("%d-%d", s.Start, s.End)
}

// Boundary is a confirmed structural boundary. It is the currency
// between the confirmer and the hierarchy builder: a free-floating
// candidate that has survived de-duplication and been given a span.
type Boundary struct {
	Kind       Kind
	Number     string
	Heading    string
	Span       Span
	Confidence Confidence
}

// Unit is a structural unit frozen into the hierarchy. Chapters hold
// sections and articles in document order in Children; articles hold
// their extracted body in Body.
type Unit struct {
	Kind       Kind
	Number     string
	Heading    string
	Span       Span
	Confidence Confidence
	EID        string

	Children []*Unit
	Body     []*Node
}

// NodeKind identifies a content node inside an article body.
type NodeKind string

const (
	NodeParagraph NodeKind = "paragraph"
	NodePoint     NodeKind = "point"
	NodeText      NodeKind = "text"
)

// Node is a unit of article body content. Leaf nodes carry text;
// container nodes carry ordered children. Number is empty for an
// unlabeled leading paragraph.
type Node struct {
	Kind     NodeKind
	Number   string
	Span     Span
	Text     string
	EID      string
	Children []*Node
}

// Recital is one numbered recital from the preamble.
type Recital struct {
	Number string
	Span   Span
	Text   string
	EID    string
}

// Document is the root of the transformed tree. A source with no
// chapter headings keeps its articles at the top level; when chapters
// exist, Sections and Articles hold only the orphans that fit no
// chapter.
type Document struct {
	Title string

	// MetaXML is the opaque metadata block, already rendered as inner
	// XML. The pipeline attaches it to the root verbatim.
	MetaXML string

	Preface     *Span
	PrefaceText string
	Recitals    []*Recital

	Chapters []*Unit
	Sections []*Unit
	Articles []*Unit

	// TotalLines is the length of the source in lines.
	TotalLines int

	Findings []Finding
}

// Units returns the top-level structural units. When the document has
// chapters, any orphan sections and articles kept at the top level
// follow them.
func (d *Document) Units() []*Unit {
	if len(d.Chapters) == 0 && len(d.Sections) == 0 {
		return d.Articles
	}
	out := make([]*Unit, 0, len(d.Chapters)+len(d.Sections)+len(d.Articles))
	out = append(out, d.Chapters...)
	out = append(out, d.Sections...)
	out = append(out, d.Articles...)
	return out
}

// Walk visits every structural unit depth-first in document order.
func (d *Document) Walk(fn func(u *Unit)) {
	var visit func(us []*Unit)
	visit = func(us []*Unit) {
		for _, u := range us {
			fn(u)
			visit(u.Children)
		}
	}
	visit(d.Units())
}

// CountByKind tallies structural units of a given kind.
func (d *Document) CountByKind(k Kind) int {
	n := 0
	d.Walk(func(u *Unit) {
		if u.Kind == k {
			n++
		}
	})
	return n
}
