package analysis

import (
	"context"
	"sync"
)

// Mock is a scriptable Analyzer for tests. Call counters let tests assert
// how often the collaborator was actually invoked (cache correctness).
type Mock struct {
	mu sync.Mutex

	GrammarResults map[string]*GrammarResult
	Translations   map[string]*TranslationResult
	Counts         map[string]int
	Err            error

	grammarCalls   int
	translateCalls int
	countCalls     int
}

// NewMock creates an empty mock analyzer.
func NewMock() *Mock {
	return &Mock{
		GrammarResults: make(map[string]*GrammarResult),
		Translations:   make(map[string]*TranslationResult),
		Counts:         make(map[string]int),
	}
}

func (m *Mock) AnalyzeGrammar(ctx context.Context, text string) (*GrammarResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grammarCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	if r, ok := m.GrammarResults[text]; ok {
		return r, nil
	}
	return &GrammarResult{Corrected: text}, nil
}

func (m *Mock) AnalyzeTranslation(ctx context.Context, text, targetLanguageCode string) (*TranslationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.translateCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	if r, ok := m.Translations[text+"|"+targetLanguageCode]; ok {
		return r, nil
	}
	return &TranslationResult{Translation: text}, nil
}

func (m *Mock) CountIssues(ctx context.Context, text string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.countCalls++
	if m.Err != nil {
		return 0, m.Err
	}
	return m.Counts[text], nil
}

// GrammarCalls returns how many grammar analyses were requested.
func (m *Mock) GrammarCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.grammarCalls
}

// TranslateCalls returns how many translations were requested.
func (m *Mock) TranslateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.translateCalls
}

// CountCalls returns how many issue counts were requested.
func (m *Mock) CountCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.countCalls
}
