// Package confirm reconciles scanner candidates with an optional
// semantic identification capability, producing the confirmed,
// ordered, non-overlapping boundary lists the hierarchy builder
// consumes.
package confirm

import (
	"context"
	"strings"

	"github.com/bmcallis/aknetl/internal/akn"
	"github.com/bmcallis/aknetl/internal/source"
)

// Suggestion is one boundary proposed by the semantic capability:
// a heading near an approximate line, with the model's confidence.
type Suggestion struct {
	Line       int     `json:"line"`
	Heading    string  `json:"heading"`
	Confidence float64 `json:"confidence"`
}

// Suggester is the semantic identification capability. Given a window
// of numbered lines and a structural kind it returns zero or more
// suggested boundaries. It may fail or time out; callers treat any
// error as "no suggestion", never as fatal.
type Suggester interface {
	Suggest(ctx context.Context, kind akn.Kind, lines []source.Line) ([]Suggestion, error)
}

// ValidateSuggestion checks a suggestion against the window it was
// produced for. Returns false for suggestions that cannot possibly
// match a candidate: out-of-range lines, empty headings, nonsense
// confidence.
func ValidateSuggestion(s *Suggestion, window akn.Span) bool {
	if s == nil {
		return false
	}
	if s.Line < window.Start || s.Line > window.End {
		return false
	}
	heading := strings.TrimSpace(s.Heading)
	if heading == "" || len(heading) > 300 {
		return false
	}
	if s.Confidence < 0 || s.Confidence > 1 {
		// Some models answer on a 0-100 scale; rescale once.
		if s.Confidence > 1 && s.Confidence <= 100 {
			s.Confidence = s.Confidence / 100
			return true
		}
		return false
	}
	return true
}
