package scan

import (
	"regexp"
	"strings"

	"github.com/bmcallis/aknetl/internal/akn"
	"github.com/bmcallis/aknetl/internal/source"
)

// Preamble detection. EU-style acts open with a preface ("Having
// regard to…" block), a recitals section introduced by "Whereas:" and
// numbered (1)…(n), and an enacting formula ("HAVE ADOPTED THIS
// REGULATION") after which the body begins.

var (
	whereasRe  = regexp.MustCompile(`(?i)^Whereas\s*:?\s*$`)
	enactingRe = regexp.MustCompile(`(?i)^HA(?:VE|S)\s+ADOPTED\s+THIS\s+(?:REGULATION|DIRECTIVE|DECISION|ACT)\s*:?\s*$`)
	recitalRe  = regexp.MustCompile(`^\((\d{1,3})\)\s+(.*)$`)
)

// Preamble is the detected front matter of a document.
type Preamble struct {
	// Preface covers everything before the recitals (or before the
	// enacting formula when there are no recitals). Zero when the
	// document has no front matter.
	Preface akn.Span

	// Recitals are the numbered (1)…(n) paragraphs, each with a span
	// running to the line before the next recital.
	Recitals []*akn.Recital

	// BodyStart is the first line of the enacted body. 0 when no
	// enacting formula was found, in which case the body is the whole
	// document.
	BodyStart int
}

// FindPreamble locates the preface, recitals and enacting formula.
// All three are optional; a plain fragment of body text yields the
// zero Preamble.
func FindPreamble(lines []source.Line) Preamble {
	var p Preamble
	if len(lines) == 0 {
		return p
	}

	whereas := 0
	enacting := 0
	for _, ln := range lines {
		text := strings.TrimSpace(ln.Text)
		if whereas == 0 && whereasRe.MatchString(text) {
			whereas = ln.Number
		}
		if enactingRe.MatchString(text) {
			enacting = ln.Number
			break
		}
	}
	if enacting == 0 {
		return p
	}
	p.BodyStart = enacting + 1

	prefaceEnd := enacting - 1
	if whereas > 0 && whereas <= enacting {
		prefaceEnd = whereas - 1
		p.Recitals = findRecitals(lines, whereas+1, enacting-1)
	}
	if prefaceEnd >= lines[0].Number {
		p.Preface = akn.Span{Start: lines[0].Number, End: prefaceEnd}
	}
	return p
}

// findRecitals collects numbered recitals within [start, end].
func findRecitals(lines []source.Line, start, end int) []*akn.Recital {
	var recitals []*akn.Recital
	var texts []strings.Builder

	for _, ln := range source.Slice(lines, start, end) {
		text := strings.TrimSpace(ln.Text)
		if m := recitalRe.FindStringSubmatch(text); m != nil {
			if n := len(recitals); n > 0 {
				recitals[n-1].Span.End = ln.Number - 1
			}
			recitals = append(recitals, &akn.Recital{
				Number: m[1],
				Span:   akn.Span{Start: ln.Number, End: end},
			})
			texts = append(texts, strings.Builder{})
			texts[len(texts)-1].WriteString(strings.TrimSpace(m[2]))
			continue
		}
		if n := len(recitals); n > 0 {
			sb := &texts[n-1]
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(text)
		}
	}
	for i := range recitals {
		recitals[i].Text = texts[i].String()
	}
	return recitals
}
