package highlight

import (
	"strings"

	"github.com/redraftapp/redraft/internal/correction"
)

// Segment is one run of display text. RecordID < 0 marks plain text;
// otherwise the segment is a clickable correction span whose Text is the
// record's suggestion when applied and its original when reverted.
type Segment struct {
	Text     string
	RecordID int
	Tooltip  string
}

// IsCorrection reports whether the segment belongs to a correction record.
func (s Segment) IsCorrection() bool {
	return s.RecordID >= 0
}

// Render splits the set's base text into plain and correction segments.
//
// Spans are carved out of the base text one record at a time, and text
// already claimed by a span is never searched again: neither toggling a
// record nor the content of its suggestion can shift or corrupt another
// record's span. A record whose suggestion cannot be located in the
// remaining plain text contributes no span and its surroundings render as
// plain text.
func Render(set *correction.Set) []Segment {
	parts := []Segment{{Text: set.BaseText(), RecordID: -1}}

	for _, r := range set.Records() {
		for i, p := range parts {
			if p.IsCorrection() {
				continue
			}
			idx := strings.Index(p.Text, r.Suggestion)
			if idx < 0 {
				continue
			}
			carved := []Segment{
				{Text: p.Text[:idx], RecordID: -1},
				{Text: r.Suggestion, RecordID: r.ID},
				{Text: p.Text[idx+len(r.Suggestion):], RecordID: -1},
			}
			next := make([]Segment, 0, len(parts)+2)
			next = append(next, parts[:i]...)
			next = append(next, carved...)
			next = append(next, parts[i+1:]...)
			parts = next
			break
		}
	}

	segments := make([]Segment, 0, len(parts))
	for _, p := range parts {
		if !p.IsCorrection() {
			if p.Text != "" {
				segments = append(segments, p)
			}
			continue
		}
		r, ok := set.Record(p.RecordID)
		if !ok {
			continue
		}
		display := r.Suggestion
		if r.State == correction.StateReverted {
			display = r.Original
		}
		segments = append(segments, Segment{
			Text:     display,
			RecordID: r.ID,
			Tooltip:  r.Explanation,
		})
	}
	return segments
}
