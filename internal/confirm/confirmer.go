package confirm

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/bmcallis/aknetl/internal/akn"
	"github.com/bmcallis/aknetl/internal/scan"
	"github.com/bmcallis/aknetl/internal/source"
)

// Config controls confirmation behavior.
type Config struct {
	// MatchWindow is the maximum line distance between a suggestion and
	// the scanner candidate it corroborates.
	MatchWindow int
	// CallTimeout bounds each suggester invocation.
	CallTimeout time.Duration
	// MaxConcurrent bounds in-flight suggester calls.
	MaxConcurrent int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MatchWindow:   3,
		CallTimeout:   60 * time.Second,
		MaxConcurrent: 4,
	}
}

// Confirmer reconciles scanner candidates with the semantic capability.
// A nil suggester means pattern-only operation: candidates pass through
// unmodified with confidence "pattern".
type Confirmer struct {
	suggester Suggester
	log       *slog.Logger
	cfg       Config
}

func New(suggester Suggester, log *slog.Logger, cfg Config) *Confirmer {
	if cfg.MatchWindow <= 0 {
		cfg.MatchWindow = 3
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 60 * time.Second
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 4
	}
	return &Confirmer{suggester: suggester, log: log, cfg: cfg}
}

// Result is the confirmed boundary set plus the findings accumulated
// while producing it.
type Result struct {
	Chapters []akn.Boundary
	Sections []akn.Boundary
	Articles []akn.Boundary
	Findings []akn.Finding
}

// Confirm produces the final ordered, de-duplicated, non-overlapping
// boundary list per kind. Empty candidate lists are valid results; a
// document without sections simply has none.
func (c *Confirmer) Confirm(ctx context.Context, lines []source.Line, cands map[akn.Kind][]scan.Candidate) Result {
	var res Result
	if len(lines) == 0 {
		return res
	}
	lastLine := lines[len(lines)-1].Number

	chapters := c.dedupe(cands[akn.KindChapter], &res)
	sections := c.dedupe(cands[akn.KindSection], &res)
	articles := c.dedupe(cands[akn.KindArticle], &res)

	if len(articles) == 0 {
		res.Findings = append(res.Findings, akn.Finding{
			Code:    akn.FindingPatternNotFound,
			Message: "no article boundaries matched any configured pattern",
		})
	}

	if c.suggester != nil {
		c.corroborate(ctx, lines, chapters, sections, articles, &res)
	}

	res.Chapters = computeSpans(chapters, nil, lastLine)
	res.Sections = computeSpans(sections, res.Chapters, lastLine)
	res.Articles = computeSpans(articles, append(append([]akn.Boundary{}, res.Chapters...), res.Sections...), lastLine)

	c.checkSequence(res.Chapters, &res)
	c.checkSequence(res.Articles, &res)
	return res
}

// pending is a candidate with its working confidence.
type pending struct {
	scan.Candidate
	conf akn.Confidence
}

// dedupe sorts candidates by line and resolves same-line conflicts:
// the earlier entry (earlier pattern) wins, the loss is recorded as a
// span conflict finding.
func (c *Confirmer) dedupe(in []scan.Candidate, res *Result) []*pending {
	sorted := make([]scan.Candidate, len(in))
	copy(sorted, in)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Line < sorted[j].Line })

	var out []*pending
	for _, cand := range sorted {
		if n := len(out); n > 0 && out[n-1].Line == cand.Line {
			res.Findings = append(res.Findings, akn.Finding{
				Code:    akn.FindingSpanConflict,
				Message: "multiple " + string(cand.Kind) + " candidates at line, keeping first",
				Span:    akn.Span{Start: cand.Line, End: cand.Line},
			})
			continue
		}
		out = append(out, &pending{Candidate: cand, conf: akn.ConfidencePattern})
	}
	return out
}

// corroborate issues suggester calls per chapter window concurrently
// and upgrades or demotes candidate confidence. Windows derive from
// chapter candidate lines; a document without chapter candidates is a
// single window. Results are merged in window order regardless of
// completion order, and a failed or timed-out call leaves that
// window's candidates at confidence "pattern".
func (c *Confirmer) corroborate(ctx context.Context, lines []source.Line, chapters, sections, articles []*pending, res *Result) {
	windows := chapterWindows(chapters, lines)

	type call struct {
		window akn.Span
		kind   akn.Kind
	}
	var calls []call
	for _, w := range windows {
		for _, kind := range []akn.Kind{akn.KindChapter, akn.KindSection, akn.KindArticle} {
			calls = append(calls, call{window: w, kind: kind})
		}
	}

	type callResult struct {
		suggestions []Suggestion
		err         error
	}
	results := make([]callResult, len(calls))
	sem := make(chan struct{}, c.cfg.MaxConcurrent)
	done := make(chan int, len(calls))

	for i, cl := range calls {
		sem <- struct{}{}
		go func(i int, cl call) {
			defer func() { <-sem }()
			window := source.Slice(lines, cl.window.Start, cl.window.End)

			var suggestions []Suggestion
			var lastErr error
			for attempt := 0; attempt < MaxRetries; attempt++ {
				callCtx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
				suggestions, lastErr = c.suggester.Suggest(callCtx, cl.kind, window)
				cancel()
				if lastErr == nil || !IsRetryable(lastErr) {
					break
				}
				c.log.Warn("retryable suggestion error", "kind", cl.kind, "window", cl.window, "attempt", attempt, "error", lastErr)
				select {
				case <-time.After(Backoff(attempt)):
				case <-ctx.Done():
					lastErr = ctx.Err()
				}
				if ctx.Err() != nil {
					break
				}
			}
			results[i] = callResult{suggestions: suggestions, err: lastErr}
			done <- i
		}(i, cl)
	}
	for range calls {
		<-done
	}

	// Merge deterministically in call (window, kind) order.
	byKind := map[akn.Kind][]*pending{
		akn.KindChapter: chapters,
		akn.KindSection: sections,
		akn.KindArticle: articles,
	}
	for i, cl := range calls {
		r := results[i]
		if r.err != nil {
			c.log.Warn("suggestion call failed, falling back to pattern confidence",
				"kind", cl.kind, "window", cl.window, "error", r.err)
			res.Findings = append(res.Findings, akn.Finding{
				Code:    akn.FindingCapabilityUnavailable,
				Message: "semantic capability failed for " + string(cl.kind) + ": " + r.err.Error(),
				Span:    cl.window,
			})
			continue
		}
		c.applySuggestions(byKind[cl.kind], cl.window, r.suggestions)
	}
}

// applySuggestions matches each suggestion to the nearest candidate
// within the match window and upgrades it to confirmed. Candidates in
// a window the suggester answered for, but that no suggestion matched,
// are demoted to low.
func (c *Confirmer) applySuggestions(cands []*pending, window akn.Span, suggestions []Suggestion) {
	inWindow := func(p *pending) bool {
		return p.Line >= window.Start && p.Line <= window.End
	}

	matched := make(map[*pending]bool)
	for _, s := range suggestions {
		var best *pending
		bestDist := c.cfg.MatchWindow + 1
		for _, p := range cands {
			if !inWindow(p) {
				continue
			}
			dist := p.Line - s.Line
			if dist < 0 {
				dist = -dist
			}
			if dist < bestDist {
				bestDist = dist
				best = p
			}
		}
		if best != nil {
			best.conf = akn.ConfidenceConfirmed
			matched[best] = true
		}
	}

	for _, p := range cands {
		if inWindow(p) && !matched[p] && p.conf != akn.ConfidenceConfirmed {
			p.conf = akn.ConfidenceLow
		}
	}
}

// chapterWindows splits the document into per-chapter line windows.
func chapterWindows(chapters []*pending, lines []source.Line) []akn.Span {
	first := lines[0].Number
	last := lines[len(lines)-1].Number
	if len(chapters) == 0 {
		return []akn.Span{{Start: first, End: last}}
	}
	var windows []akn.Span
	if chapters[0].Line > first {
		windows = append(windows, akn.Span{Start: first, End: chapters[0].Line - 1})
	}
	for i, ch := range chapters {
		end := last
		if i+1 < len(chapters) {
			end = chapters[i+1].Line - 1
		}
		windows = append(windows, akn.Span{Start: ch.Line, End: end})
	}
	return windows
}

// computeSpans turns candidates into boundaries: each span runs to the
// line before the next boundary of the same or a higher kind, or to
// the end of the document for the last one.
func computeSpans(cands []*pending, closers []akn.Boundary, lastLine int) []akn.Boundary {
	var out []akn.Boundary
	for i, p := range cands {
		end := lastLine
		if i+1 < len(cands) {
			end = cands[i+1].Line - 1
		}
		for _, cl := range closers {
			if cl.Span.Start > p.Line && cl.Span.Start-1 < end {
				end = cl.Span.Start - 1
			}
		}
		if end < p.Line {
			end = p.Line
		}
		out = append(out, akn.Boundary{
			Kind:       p.Kind,
			Number:     p.Number,
			Heading:    p.Heading,
			Span:       akn.Span{Start: p.Line, End: end},
			Confidence: p.conf,
		})
	}
	return out
}

// checkSequence flags numbering gaps and duplicates within one kind.
func (c *Confirmer) checkSequence(bounds []akn.Boundary, res *Result) {
	prev := 0
	for _, b := range bounds {
		v, ok := scan.NumberValue(b.Number)
		if !ok {
			continue
		}
		if prev > 0 && v != prev+1 && v != prev {
			res.Findings = append(res.Findings, akn.Finding{
				Code:    akn.FindingSequenceGap,
				Message: string(b.Kind) + " numbering jumps to " + b.Number,
				Span:    b.Span,
			})
		}
		prev = v
	}
}
