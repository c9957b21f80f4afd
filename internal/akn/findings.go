package akn

import "fmt"

// FindingCode classifies a non-fatal structural issue.
type FindingCode string

const (
	// FindingPatternNotFound: a kind produced zero candidates.
	FindingPatternNotFound FindingCode = "pattern_not_found"
	// FindingSpanConflict: two same-kind candidates claimed overlapping lines.
	FindingSpanConflict FindingCode = "span_conflict"
	// FindingOrphanUnit: a unit's span fit no single parent.
	FindingOrphanUnit FindingCode = "orphan_unit"
	// FindingIdentifierCollision: two siblings normalized to the same segment.
	FindingIdentifierCollision FindingCode = "identifier_collision"
	// FindingCapabilityUnavailable: the semantic suggester failed or timed out.
	FindingCapabilityUnavailable FindingCode = "capability_unavailable"
	// FindingSequenceGap: unit numbering is out of sequence.
	FindingSequenceGap FindingCode = "sequence_gap"
)

// Finding is a review item attached to the document instead of an
// error: the pipeline keeps going and callers inspect these afterwards.
type Finding struct {
	Code    FindingCode `json:"code"`
	Message string      `json:"message"`
	Span    Span        `json:"span,omitempty"`
	EID     string      `json:"eid,omitempty"`
}

func (f Finding) String() string {
	if f.EID != "" {
		return fmt.Sprintf("%s [%s]: %s", f.Code, f.EID, f.Message)
	}
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

// AddFinding appends a review item to the document.
func (d *Document) AddFinding(code FindingCode, span Span, format string, args ...any) {
	d.Findings = append(d.Findings, Finding{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Span:    span,
	})
}

// FatalInputError marks a structurally impossible input, the only
// condition that aborts the pipeline.
type FatalInputError struct {
	Reason string
}

func (e *FatalInputError) Error() string {
	return "fatal input: " + e.Reason
}
