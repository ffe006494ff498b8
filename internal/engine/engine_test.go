package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/redraftapp/redraft/internal/analysis"
	"github.com/redraftapp/redraft/internal/correction"
)

func newTestEngine() (*Engine, *analysis.Mock) {
	mock := analysis.NewMock()
	mock.GrammarResults["I has a apple."] = &analysis.GrammarResult{
		Corrected: "I have an apple.",
		Records: []correction.RawRecord{
			{Original: "has", Suggestion: "have"},
			{Original: "a apple", Suggestion: "an apple"},
		},
		LanguageInfo: "English",
	}
	mock.Translations["Hello|de"] = &analysis.TranslationResult{Translation: "Hallo"}
	return New(mock, nil), mock
}

func TestCheckGrammar(t *testing.T) {
	eng, _ := newTestEngine()

	check, err := eng.CheckGrammar(context.Background(), "I has a apple.")
	if err != nil {
		t.Fatalf("CheckGrammar() error = %v", err)
	}
	if check.Set.Len() != 2 {
		t.Errorf("set has %d records, want 2", check.Set.Len())
	}
	if got := check.Set.Compose(); got != "I have an apple." {
		t.Errorf("Compose() = %q, want corrected text", got)
	}
	if check.Language != "English" {
		t.Errorf("Language = %q", check.Language)
	}
}

func TestCheckGrammarCached(t *testing.T) {
	eng, mock := newTestEngine()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := eng.CheckGrammar(ctx, "I has a apple."); err != nil {
			t.Fatalf("CheckGrammar() call %d error = %v", i, err)
		}
	}

	if mock.GrammarCalls() != 1 {
		t.Errorf("analyzer invoked %d times, want 1", mock.GrammarCalls())
	}
}

func TestCheckGrammarCacheIgnoresToggleState(t *testing.T) {
	eng, _ := newTestEngine()
	ctx := context.Background()

	first, err := eng.CheckGrammar(ctx, "I has a apple.")
	if err != nil {
		t.Fatalf("CheckGrammar() error = %v", err)
	}
	first.Set.Revert(0)
	first.Set.Revert(1)

	// A cache hit must hand back a fresh all-applied set.
	second, err := eng.CheckGrammar(ctx, "I has a apple.")
	if err != nil {
		t.Fatalf("CheckGrammar() error = %v", err)
	}
	if got := second.Set.Compose(); got != "I have an apple." {
		t.Errorf("cached set Compose() = %q, want all-applied text", got)
	}
}

func TestCheckGrammarDistinctInputs(t *testing.T) {
	eng, mock := newTestEngine()
	ctx := context.Background()

	_, _ = eng.CheckGrammar(ctx, "first input text")
	_, _ = eng.CheckGrammar(ctx, "second input text")

	if mock.GrammarCalls() != 2 {
		t.Errorf("analyzer invoked %d times, want 2", mock.GrammarCalls())
	}
}

func TestCheckGrammarError(t *testing.T) {
	mock := analysis.NewMock()
	mock.Err = &analysis.AnalysisError{Op: "grammar", Err: errors.New("boom")}
	eng := New(mock, nil)

	_, err := eng.CheckGrammar(context.Background(), "some text")
	if err == nil {
		t.Fatal("CheckGrammar() expected error")
	}
	var analysisErr *analysis.AnalysisError
	if !errors.As(err, &analysisErr) {
		t.Errorf("error type = %T, want *analysis.AnalysisError", err)
	}

	// Failures are not cached; the next call hits the analyzer again.
	mock.Err = nil
	if _, err := eng.CheckGrammar(context.Background(), "some text"); err != nil {
		t.Fatalf("CheckGrammar() after recovery error = %v", err)
	}
	if mock.GrammarCalls() != 2 {
		t.Errorf("analyzer invoked %d times, want 2", mock.GrammarCalls())
	}
}

func TestCheckGrammarMalformedRecordsDegrade(t *testing.T) {
	mock := analysis.NewMock()
	mock.GrammarResults["text"] = &analysis.GrammarResult{
		Corrected: "text",
		Records: []correction.RawRecord{
			{Original: "same", Suggestion: "same"},
			{Original: "x", Suggestion: ""},
		},
	}
	eng := New(mock, nil)

	check, err := eng.CheckGrammar(context.Background(), "text")
	if err != nil {
		t.Fatalf("CheckGrammar() error = %v", err)
	}
	if check.Set.Len() != 0 {
		t.Errorf("set has %d records, want 0", check.Set.Len())
	}
	if got := check.Set.Compose(); got != "text" {
		t.Errorf("Compose() = %q, want plain text", got)
	}
}

func TestTranslateCached(t *testing.T) {
	eng, mock := newTestEngine()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		result, err := eng.Translate(ctx, "Hello", "de")
		if err != nil {
			t.Fatalf("Translate() error = %v", err)
		}
		if result.Translation != "Hallo" {
			t.Errorf("Translation = %q, want Hallo", result.Translation)
		}
	}
	if mock.TranslateCalls() != 1 {
		t.Errorf("analyzer invoked %d times, want 1", mock.TranslateCalls())
	}

	// Different target language is a different fingerprint.
	if _, err := eng.Translate(ctx, "Hello", "fr"); err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if mock.TranslateCalls() != 2 {
		t.Errorf("analyzer invoked %d times, want 2", mock.TranslateCalls())
	}
}

func TestGrammarAndTranslationCachesDisjoint(t *testing.T) {
	eng, mock := newTestEngine()
	ctx := context.Background()
	mock.Translations["abc|fr"] = &analysis.TranslationResult{Translation: "abc auf franz"}

	// Grammar input crafted to collide with the ("abc", "fr") translation
	// fingerprint must land in a separate cache entry.
	if _, err := eng.CheckGrammar(ctx, "abc\x00fr"); err != nil {
		t.Fatalf("CheckGrammar() error = %v", err)
	}
	result, err := eng.Translate(ctx, "abc", "fr")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if result.Translation != "abc auf franz" {
		t.Errorf("Translation = %q, want abc auf franz", result.Translation)
	}
	if mock.TranslateCalls() != 1 {
		t.Errorf("analyzer invoked %d times, want 1", mock.TranslateCalls())
	}
}

func TestMonitorWiredToAnalyzer(t *testing.T) {
	eng, _ := newTestEngine()
	if eng.Monitor() == nil {
		t.Fatal("Monitor() returned nil")
	}
}
