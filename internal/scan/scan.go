// Package scan performs deterministic pattern search over line-indexed
// text, producing candidate structural boundaries for the confirmer.
// It never resolves conflicts between kinds; a line may yield a
// candidate for more than one kind.
package scan

import (
	"regexp"
	"strings"

	"github.com/bmcallis/aknetl/internal/akn"
	"github.com/bmcallis/aknetl/internal/source"
)

// Candidate is a raw structural boundary found by pattern matching.
type Candidate struct {
	Kind    akn.Kind
	Line    int
	Number  string
	Heading string
}

// Pattern matches one heading form for a kind. The expression must
// capture the number token as group 1; group 2, when present and
// non-empty, is the heading text. When HeadingNextLine is set and
// group 2 is empty, the heading is taken from the following line.
type Pattern struct {
	Kind            akn.Kind
	Re              *regexp.Regexp
	HeadingNextLine bool
}

// Scanner searches lines against a configured pattern set.
type Scanner struct {
	patterns map[akn.Kind][]Pattern
}

// New creates a scanner over the given pattern set.
func New(patterns []Pattern) *Scanner {
	byKind := make(map[akn.Kind][]Pattern)
	for _, p := range patterns {
		byKind[p.Kind] = append(byKind[p.Kind], p)
	}
	return &Scanner{patterns: byKind}
}

// Default returns a scanner over the built-in pattern set.
func Default() *Scanner {
	return New(DefaultPatterns())
}

// Scan returns, for each requested kind, the ordered candidate list.
// Patterns for a kind are tried in configuration order at each line
// and the first match wins. A kind with no matches yields a nil slice.
func (s *Scanner) Scan(lines []source.Line, kinds ...akn.Kind) map[akn.Kind][]Candidate {
	out := make(map[akn.Kind][]Candidate, len(kinds))
	for i, ln := range lines {
		text := strings.TrimSpace(ln.Text)
		for _, kind := range kinds {
			for _, p := range s.patterns[kind] {
				m := p.Re.FindStringSubmatch(text)
				if m == nil {
					continue
				}
				cand := Candidate{
					Kind:   kind,
					Line:   ln.Number,
					Number: strings.TrimSpace(m[1]),
				}
				if len(m) > 2 {
					cand.Heading = strings.TrimSpace(m[2])
				}
				if cand.Heading == "" && p.HeadingNextLine && i+1 < len(lines) {
					next := strings.TrimSpace(lines[i+1].Text)
					if !s.matchesAny(next) {
						cand.Heading = next
					}
				}
				out[kind] = append(out[kind], cand)
				break
			}
		}
	}
	return out
}

// ScanKind is Scan restricted to a single kind.
func (s *Scanner) ScanKind(lines []source.Line, kind akn.Kind) []Candidate {
	return s.Scan(lines, kind)[kind]
}

// matchesAny reports whether a line matches any configured pattern of
// any kind. Used to avoid swallowing the next boundary as a heading.
func (s *Scanner) matchesAny(text string) bool {
	for _, ps := range s.patterns {
		for _, p := range ps {
			if p.Re.MatchString(text) {
				return true
			}
		}
	}
	return false
}
