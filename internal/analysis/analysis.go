package analysis

import (
	"context"
	"fmt"

	"github.com/redraftapp/redraft/internal/correction"
)

// Analyzer is the external analysis collaborator: it produces correction
// data, translations, and issue counts. The engine only consumes these; it
// never performs its own language analysis.
type Analyzer interface {
	AnalyzeGrammar(ctx context.Context, text string) (*GrammarResult, error)
	AnalyzeTranslation(ctx context.Context, text, targetLanguageCode string) (*TranslationResult, error)
	CountIssues(ctx context.Context, text string) (int, error)
}

// GrammarResult is the raw outcome of one grammar analysis. Corrected is
// the fully corrected text that correction sets are anchored to.
type GrammarResult struct {
	Corrected    string
	Records      []correction.RawRecord
	LanguageInfo string
	Notes        []string
}

// TranslationResult is the raw outcome of one translation.
type TranslationResult struct {
	Translation string
	Notes       string
}

// AnalysisError wraps any network or parse failure from the collaborator.
// Callers surface it as a failed operation and let the user retry; nothing
// in the engine retries automatically.
type AnalysisError struct {
	Op  string
	Err error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis %s: %v", e.Op, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}
