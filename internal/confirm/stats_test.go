package confirm

import (
	"strings"
	"testing"
	"time"

	"github.com/bmcallis/aknetl/internal/akn"
	"github.com/bmcallis/aknetl/internal/source"
)

func TestCallStats_EmptySnapshot(t *testing.T) {
	s := NewCallStats(time.Hour)
	snap := s.Snapshot()
	if snap.Count != 0 {
		t.Errorf("expected empty snapshot, got count %d", snap.Count)
	}
}

func TestCallStats_Aggregates(t *testing.T) {
	s := NewCallStats(time.Hour)
	for _, ms := range []int64{100, 200, 300, 400, 500} {
		s.Record(ms)
	}
	snap := s.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected 5 samples, got %d", snap.Count)
	}
	if snap.MinMs != 100 || snap.MaxMs != 500 {
		t.Errorf("expected min 100 max 500, got %d and %d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Errorf("expected avg 300, got %v", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Errorf("expected p50 300, got %v", snap.P50Ms)
	}
}

func TestCallStats_NegativeClamped(t *testing.T) {
	s := NewCallStats(time.Hour)
	s.Record(-50)
	snap := s.Snapshot()
	if snap.MinMs != 0 {
		t.Errorf("expected negative duration clamped to 0, got %d", snap.MinMs)
	}
}

func TestStripCodeBlock(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"[]", "[]"},
		{"```json\n[{\"line\":1}]\n```", `[{"line":1}]`},
		{"```\n[]\n```", "[]"},
		{"  [1, 2]  ", "[1, 2]"},
	}
	for _, c := range cases {
		if got := stripCodeBlock(c.in); got != c.want {
			t.Errorf("stripCodeBlock(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestBuildSuggestionPrompt_NumbersLines(t *testing.T) {
	lines := []source.Line{
		{Number: 41, Text: "CHAPTER II"},
		{Number: 42, Text: "ICT risk management"},
	}
	prompt := BuildSuggestionPrompt(akn.KindChapter, lines)
	if !strings.Contains(prompt, "41: CHAPTER II") {
		t.Errorf("expected numbered line in prompt, got:\n%s", prompt)
	}
	if !strings.Contains(prompt, "42: ICT risk management") {
		t.Errorf("expected numbered line in prompt, got:\n%s", prompt)
	}
	if !strings.Contains(strings.ToLower(prompt), "chapter") {
		t.Errorf("expected kind guidance in prompt")
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(&RetryableError{StatusCode: 429}) {
		t.Error("expected retryable error to be retryable")
	}
	if IsRetryable(nil) {
		t.Error("expected nil to not be retryable")
	}
}

func TestBackoff_Bounded(t *testing.T) {
	for attempt := 0; attempt < 10; attempt++ {
		d := Backoff(attempt)
		if d < time.Second {
			t.Errorf("attempt %d: backoff %v below base", attempt, d)
		}
		if d > 45*time.Second {
			t.Errorf("attempt %d: backoff %v above cap plus jitter", attempt, d)
		}
	}
}
