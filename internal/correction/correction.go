package correction

import "strings"

// State is the toggle state of a single correction record.
type State int

const (
	// StateApplied means the suggestion is present in the composed text.
	// Every record starts out applied, since the base text is the fully
	// corrected text returned by the analyzer.
	StateApplied State = iota
	// StateReverted means the record's original text is restored in the
	// composed text.
	StateReverted
)

func (s State) String() string {
	if s == StateReverted {
		return "reverted"
	}
	return "applied"
}

// RawRecord is one proposed edit as received from the analyzer, before
// validation. Explanation is optional display-only rationale.
type RawRecord struct {
	Original    string
	Suggestion  string
	Explanation string
}

// Record is a validated correction with a stable ID and a toggle state.
type Record struct {
	ID          int
	Original    string
	Suggestion  string
	Explanation string
	State       State
}

// Set is an ordered collection of correction records anchored to one base
// text (the corrected text, not the user's raw input). The only mutation a
// Set supports after construction is toggling record states.
type Set struct {
	baseText string
	records  []Record
}

// NewSet builds a Set from the analyzer's raw records. No-op records
// (empty suggestion, or suggestion identical to original) are dropped;
// IDs are assigned from the filtered insertion order. A nil or empty raw
// slice yields a zero-record set over baseText, which renders as plain
// uncorrected text.
func NewSet(baseText string, raw []RawRecord) *Set {
	records := make([]Record, 0, len(raw))
	for _, r := range raw {
		if r.Suggestion == "" || r.Original == r.Suggestion {
			continue
		}
		records = append(records, Record{
			ID:          len(records),
			Original:    r.Original,
			Suggestion:  r.Suggestion,
			Explanation: r.Explanation,
			State:       StateApplied,
		})
	}
	return &Set{baseText: baseText, records: records}
}

// BaseText returns the anchor text the records are matched against.
func (s *Set) BaseText() string {
	return s.baseText
}

// Len returns the number of records in the set.
func (s *Set) Len() int {
	return len(s.records)
}

// Records returns a copy of the records in insertion order.
func (s *Set) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Record returns the record with the given ID.
func (s *Set) Record(id int) (Record, bool) {
	if id < 0 || id >= len(s.records) {
		return Record{}, false
	}
	return s.records[id], true
}

// Toggle flips a record between applied and reverted. Toggling is symmetric
// and never touches any other record. Unknown IDs are ignored.
func (s *Set) Toggle(id int) bool {
	if id < 0 || id >= len(s.records) {
		return false
	}
	if s.records[id].State == StateApplied {
		s.records[id].State = StateReverted
	} else {
		s.records[id].State = StateApplied
	}
	return true
}

// Revert forces a record into the reverted state.
func (s *Set) Revert(id int) bool {
	if id < 0 || id >= len(s.records) {
		return false
	}
	s.records[id].State = StateReverted
	return true
}

// Apply forces a record into the applied state.
func (s *Set) Apply(id int) bool {
	if id < 0 || id >= len(s.records) {
		return false
	}
	s.records[id].State = StateApplied
	return true
}

// Compose reconstructs the output text from the base text and the current
// record states. It is a pure function of (baseText, states): applied
// records need no substitution because the base text already contains their
// suggestions; reverted records have the first remaining occurrence of
// their suggestion swapped back to the original.
//
// Records are processed in descending ID order so that one substitution
// cannot corrupt the match target of an earlier record. This keeps the
// transform deterministic; pathological overlaps between suggestion texts
// are a known best-effort limitation, not something we guess our way
// around. A suggestion that cannot be found in the working string is
// skipped and the text is left unchanged for that record.
func (s *Set) Compose() string {
	text := s.baseText
	for i := len(s.records) - 1; i >= 0; i-- {
		r := s.records[i]
		if r.State != StateReverted {
			continue
		}
		idx := strings.Index(text, r.Suggestion)
		if idx < 0 {
			continue
		}
		text = text[:idx] + r.Original + text[idx+len(r.Suggestion):]
	}
	return text
}
