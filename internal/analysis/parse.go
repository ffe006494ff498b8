package analysis

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/redraftapp/redraft/internal/correction"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// grammarPayload mirrors the JSON shape the model is prompted for. All
// fields are optional at this boundary; validation happens after decoding.
type grammarPayload struct {
	Corrected   string              `json:"corrected"`
	Language    string              `json:"language"`
	Corrections []correctionPayload `json:"corrections"`
	Notes       []string            `json:"notes"`
}

type correctionPayload struct {
	Original    string `json:"original"`
	Suggestion  string `json:"suggestion"`
	Explanation string `json:"explanation"`
}

type translationPayload struct {
	Translation string `json:"translation"`
	Notes       string `json:"notes"`
}

// parseGrammarReply converts a model reply into a GrammarResult. The reply
// is an untyped boundary: a well-formed JSON object is used as-is, anything
// else degrades to treating the whole reply as the corrected text and
// deriving records by diffing it against the input. This function never
// fails; a reply we cannot make sense of simply yields fewer records.
func parseGrammarReply(input, reply string) *GrammarResult {
	var payload grammarPayload
	if raw := extractJSON(reply); raw != "" {
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			payload = grammarPayload{}
		}
	}

	corrected := payload.Corrected
	if corrected == "" {
		corrected = strings.TrimSpace(stripCodeFences(reply))
	}

	records := make([]correction.RawRecord, 0, len(payload.Corrections))
	for _, c := range payload.Corrections {
		records = append(records, correction.RawRecord{
			Original:    c.Original,
			Suggestion:  c.Suggestion,
			Explanation: c.Explanation,
		})
	}
	if len(records) == 0 && corrected != input {
		records = deriveRecords(input, corrected)
	}

	return &GrammarResult{
		Corrected:    corrected,
		Records:      records,
		LanguageInfo: payload.Language,
		Notes:        payload.Notes,
	}
}

// parseTranslationReply converts a model reply into a TranslationResult,
// accepting a bare-text reply as the translation itself.
func parseTranslationReply(reply string) *TranslationResult {
	var payload translationPayload
	if raw := extractJSON(reply); raw != "" {
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			payload = translationPayload{}
		}
	}
	if payload.Translation == "" {
		payload.Translation = strings.TrimSpace(stripCodeFences(reply))
	}
	return &TranslationResult{
		Translation: payload.Translation,
		Notes:       payload.Notes,
	}
}

// parseCountReply extracts the issue count from a reply expected to be a
// bare integer.
func parseCountReply(reply string) (int, error) {
	cleaned := strings.TrimSpace(stripCodeFences(reply))
	fields := strings.Fields(cleaned)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty count reply")
	}
	n, err := strconv.Atoi(strings.TrimRight(fields[0], "."))
	if err != nil {
		return 0, fmt.Errorf("count reply is not an integer: %q", cleaned)
	}
	if n < 0 {
		return 0, fmt.Errorf("count reply is negative: %d", n)
	}
	return n, nil
}

// deriveRecords builds raw correction records by diffing the input against
// the corrected text, pairing each delete run with the insert that follows
// it. Pure deletions carry an empty suggestion and are dropped during set
// construction; that loss of revertibility is accepted over inventing
// anchor text.
func deriveRecords(input, corrected string) []correction.RawRecord {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(input, corrected, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	records := make([]correction.RawRecord, 0)
	for i := 0; i < len(diffs); i++ {
		switch diffs[i].Type {
		case diffmatchpatch.DiffEqual:
			continue
		case diffmatchpatch.DiffDelete:
			if i+1 < len(diffs) && diffs[i+1].Type == diffmatchpatch.DiffInsert {
				records = append(records, correction.RawRecord{
					Original:   diffs[i].Text,
					Suggestion: diffs[i+1].Text,
				})
				i++
			}
			// A lone delete has no corrected-side anchor to toggle on.
		case diffmatchpatch.DiffInsert:
			records = append(records, correction.RawRecord{
				Original:   "",
				Suggestion: diffs[i].Text,
			})
		}
	}
	return records
}

// extractJSON returns the first JSON object embedded in s, tolerating
// markdown code fences and surrounding prose.
func extractJSON(s string) string {
	s = stripCodeFences(s)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return ""
	}
	return s[start : end+1]
}

// stripCodeFences removes a surrounding markdown code fence, if present.
func stripCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return s
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
