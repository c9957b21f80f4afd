package confirm

import (
	"fmt"
	"strings"

	"github.com/bmcallis/aknetl/internal/akn"
	"github.com/bmcallis/aknetl/internal/source"
)

const suggestionPrompt = `You are analyzing a fragment of a legal regulation rendered as numbered lines. Identify every %s heading that appears in the fragment. Return a JSON array; each element must have these fields:

- "line": the exact line number where the heading appears (integer, taken from the line number prefix)
- "heading": the title text that belongs to the heading (string)
- "confidence": how certain you are this is a real heading, 0.0 to 1.0 (float)

Rules:
%s- Use the line numbers exactly as printed; never invent line numbers
- Only report headings that open a new unit, never references inside sentences
- Return an empty array [] if the fragment contains no such headings

Respond with ONLY the JSON array, no other text.`

var kindRules = map[akn.Kind]string{
	akn.KindChapter: `- A chapter heading is a line like "CHAPTER I" or "CHAPTER IV" with a roman numeral, usually followed by a title line
- Ignore articles, sections, and mentions of chapters inside sentences
`,
	akn.KindSection: `- A section heading is a line like "Section I" or "Section 2", usually followed by a title line
- Ignore mentions such as "in accordance with Section I" inside sentences
`,
	akn.KindArticle: `- An article heading is a standalone line "Article N" with a plain integer, followed by a short title line
- "Article 6(4)", "pursuant to Article 12" and similar in-sentence references are NOT headings
- Be conservative: when unsure, leave it out
`,
}

// BuildSuggestionPrompt renders the full prompt for one kind over one
// window of numbered lines.
func BuildSuggestionPrompt(kind akn.Kind, lines []source.Line) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, suggestionPrompt, strings.ToUpper(string(kind)), kindRules[kind])
	sb.WriteString("\n\n---\n")
	for _, ln := range lines {
		fmt.Fprintf(&sb, "%4d: %s\n", ln.Number, ln.Text)
	}
	return sb.String()
}
