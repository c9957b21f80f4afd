package scan

import (
	"fmt"
	"os"
	"regexp"

	"github.com/bmcallis/aknetl/internal/akn"
	"gopkg.in/yaml.v3"
)

// Number token forms accepted in headings: roman numerals, arabic
// numerals (with an optional amendment suffix like "16a"), and spelled
// out words ("Chapter One").
const (
	romanToken  = `[IVXLCivxlc]+`
	arabicToken = `\d{1,3}[a-z]?`
	wordToken   = `(?i:one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve|thirteen|fourteen|fifteen|sixteen|seventeen|eighteen|nineteen|twenty)`
)

var numberToken = fmt.Sprintf(`(?:%s|%s|%s)`, romanToken, arabicToken, wordToken)

// DefaultPatterns is the built-in pattern set for EU-style regulations.
// Order within a kind matters: the first match at a line wins.
func DefaultPatterns() []Pattern {
	return []Pattern{
		// "CHAPTER III - Heading" on one line.
		{
			Kind: akn.KindChapter,
			Re:   regexp.MustCompile(fmt.Sprintf(`(?i)^CHAPTER\s+(%s)\s*[-–—:.]\s+(.+)$`, numberToken)),
		},
		// "CHAPTER III" with the heading on the following line.
		{
			Kind:            akn.KindChapter,
			Re:              regexp.MustCompile(fmt.Sprintf(`(?i)^CHAPTER\s+(%s)\s*$`, numberToken)),
			HeadingNextLine: true,
		},
		{
			Kind: akn.KindSection,
			Re:   regexp.MustCompile(fmt.Sprintf(`(?i)^Section\s+(%s)\s*[-–—:.]\s+(.+)$`, numberToken)),
		},
		{
			Kind:            akn.KindSection,
			Re:              regexp.MustCompile(fmt.Sprintf(`(?i)^Section\s+(%s)\s*$`, numberToken)),
			HeadingNextLine: true,
		},
		// Articles use arabic numbers only; a bare "Article 5" line is a
		// header while "Article 5(2)" inside a sentence is a reference.
		{
			Kind: akn.KindArticle,
			Re:   regexp.MustCompile(`(?i)^Article\s+(\d{1,3}[a-z]?)\s*[-–—:.]\s+(.+)$`),
		},
		{
			Kind:            akn.KindArticle,
			Re:              regexp.MustCompile(`(?i)^Article\s+(\d{1,3}[a-z]?)\s*$`),
			HeadingNextLine: true,
		},
	}
}

// patternFile is the YAML shape for an external pattern set.
type patternFile struct {
	Kinds map[string][]patternSpec `yaml:"kinds"`
}

type patternSpec struct {
	Expr            string `yaml:"expr"`
	HeadingNextLine bool   `yaml:"heading_next_line"`
}

// LoadPatterns reads a pattern set from a YAML file. Kinds absent from
// the file keep no patterns, so callers usually merge with defaults
// via LoadPatternsWithDefaults.
func LoadPatterns(path string) ([]Pattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pattern file: %w", err)
	}
	var pf patternFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse pattern file: %w", err)
	}

	var out []Pattern
	for _, kind := range []akn.Kind{akn.KindChapter, akn.KindSection, akn.KindArticle} {
		for _, spec := range pf.Kinds[string(kind)] {
			re, err := regexp.Compile(spec.Expr)
			if err != nil {
				return nil, fmt.Errorf("pattern %q for %s: %w", spec.Expr, kind, err)
			}
			out = append(out, Pattern{Kind: kind, Re: re, HeadingNextLine: spec.HeadingNextLine})
		}
	}
	return out, nil
}

// LoadPatternsWithDefaults loads a YAML pattern set and fills in the
// built-in patterns for any kind the file does not mention.
func LoadPatternsWithDefaults(path string) ([]Pattern, error) {
	loaded, err := LoadPatterns(path)
	if err != nil {
		return nil, err
	}
	have := make(map[akn.Kind]bool)
	for _, p := range loaded {
		have[p.Kind] = true
	}
	for _, p := range DefaultPatterns() {
		if !have[p.Kind] {
			loaded = append(loaded, p)
		}
	}
	return loaded, nil
}
