package highlight

import (
	"strings"
	"testing"

	"github.com/redraftapp/redraft/internal/correction"
)

func sampleSet() *correction.Set {
	return correction.NewSet("I have an apple.", []correction.RawRecord{
		{Original: "has", Suggestion: "have", Explanation: "subject-verb agreement"},
		{Original: "a apple", Suggestion: "an apple", Explanation: "article before vowel"},
	})
}

func joined(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

func TestRenderAllApplied(t *testing.T) {
	set := sampleSet()
	segments := Render(set)

	if got := joined(segments); got != "I have an apple." {
		t.Errorf("joined segments = %q, want base text", got)
	}

	var spans []Segment
	for _, s := range segments {
		if s.IsCorrection() {
			spans = append(spans, s)
		}
	}
	if len(spans) != 2 {
		t.Fatalf("got %d correction spans, want 2", len(spans))
	}
	if spans[0].Text != "have" || spans[0].RecordID != 0 {
		t.Errorf("span 0 = %+v", spans[0])
	}
	if spans[1].Text != "an apple" || spans[1].RecordID != 1 {
		t.Errorf("span 1 = %+v", spans[1])
	}
	if spans[0].Tooltip != "subject-verb agreement" {
		t.Errorf("span 0 tooltip = %q", spans[0].Tooltip)
	}
}

func TestRenderRevertedSpanShowsOriginal(t *testing.T) {
	set := sampleSet()
	set.Revert(0)

	segments := Render(set)
	if got := joined(segments); got != "I has an apple." {
		t.Errorf("joined segments = %q, want %q", got, "I has an apple.")
	}
}

func TestRenderPositionsStableAcrossToggles(t *testing.T) {
	set := sampleSet()
	before := Render(set)

	set.Toggle(1)
	after := Render(set)

	if len(before) != len(after) {
		t.Fatalf("segment count changed: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i].RecordID != after[i].RecordID {
			t.Errorf("segment %d record moved: %d -> %d",
				i, before[i].RecordID, after[i].RecordID)
		}
	}
	// Only the toggled span's text may differ.
	for i := range before {
		if before[i].RecordID == 1 {
			continue
		}
		if before[i].Text != after[i].Text {
			t.Errorf("untoggled segment %d text changed: %q -> %q",
				i, before[i].Text, after[i].Text)
		}
	}
}

func TestRenderMissingAnchor(t *testing.T) {
	// Record 1's suggestion never occurs in the base text: it contributes
	// no span and the rest still renders.
	set := correction.NewSet("I have an apple.", []correction.RawRecord{
		{Original: "has", Suggestion: "have"},
		{Original: "nope", Suggestion: "absent"},
	})
	segments := Render(set)

	if got := joined(segments); got != "I have an apple." {
		t.Errorf("joined segments = %q, want base text", got)
	}
	for _, s := range segments {
		if s.RecordID == 1 {
			t.Error("unfindable record produced a span")
		}
	}
}

func TestRenderDigitSuggestionAnchorsToBaseText(t *testing.T) {
	// A bare-digit suggestion must anchor to the digit in the base text
	// even after an earlier record's span has already been placed.
	set := correction.NewSet("cat 0 dog", []correction.RawRecord{
		{Original: "kat", Suggestion: "cat"},
		{Original: "zero", Suggestion: "0"},
	})
	segments := Render(set)

	if got := joined(segments); got != "cat 0 dog" {
		t.Errorf("joined segments = %q, want base text", got)
	}

	var spans []Segment
	for _, s := range segments {
		if s.IsCorrection() {
			spans = append(spans, s)
		}
	}
	if len(spans) != 2 {
		t.Fatalf("got %d correction spans, want 2", len(spans))
	}
	if spans[0].Text != "cat" || spans[0].RecordID != 0 {
		t.Errorf("span 0 = %+v", spans[0])
	}
	if spans[1].Text != "0" || spans[1].RecordID != 1 {
		t.Errorf("span 1 = %+v", spans[1])
	}

	// Reverting the digit record swaps only its own span.
	set.Revert(1)
	if got := joined(Render(set)); got != "cat zero dog" {
		t.Errorf("joined segments = %q, want %q", got, "cat zero dog")
	}
}

func TestRenderZeroRecords(t *testing.T) {
	set := correction.NewSet("plain text", nil)
	segments := Render(set)

	if len(segments) != 1 {
		t.Fatalf("got %d segments, want 1", len(segments))
	}
	if segments[0].IsCorrection() || segments[0].Text != "plain text" {
		t.Errorf("segment = %+v, want plain text", segments[0])
	}
}
