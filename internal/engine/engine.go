// Package engine wires the correction reconciliation pieces into one
// session-scoped instance: a fingerprint cache over raw analysis results, a
// suggestion-count monitor, and correction-set construction. All mutable
// state is owned by the Engine value; nothing lives at package level.
package engine

import (
	"context"
	"log/slog"

	"github.com/redraftapp/redraft/internal/analysis"
	"github.com/redraftapp/redraft/internal/correction"
	"github.com/redraftapp/redraft/internal/fingerprint"
	"github.com/redraftapp/redraft/internal/monitor"
)

// GrammarCheck is the outcome of one grammar check: a fresh correction set
// plus display-only metadata from the analyzer.
type GrammarCheck struct {
	Set      *correction.Set
	Language string
	Notes    []string
}

// Engine owns one fingerprint cache and one monitor, constructed per
// session and passed by reference to whoever needs them.
type Engine struct {
	analyzer analysis.Analyzer
	cache    *fingerprint.Cache
	monitor  *monitor.Monitor
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Engine around the given analyzer. monitorOpts are passed
// through to the suggestion-count monitor.
func New(analyzer analysis.Analyzer, monitorOpts []monitor.Option, opts ...Option) *Engine {
	e := &Engine{
		analyzer: analyzer,
		cache:    fingerprint.New(),
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(e)
	}
	mopts := append([]monitor.Option{monitor.WithLogger(e.logger)}, monitorOpts...)
	e.monitor = monitor.New(analyzer.CountIssues, mopts...)
	return e
}

// Monitor returns the engine's suggestion-count monitor.
func (e *Engine) Monitor() *monitor.Monitor {
	return e.monitor
}

// CheckGrammar analyzes text and returns a correction set over the
// corrected output. Identical input is served from the fingerprint cache
// without invoking the analyzer again; the set is rebuilt fresh on every
// call so toggle state never leaks into the cache.
func (e *Engine) CheckGrammar(ctx context.Context, text string) (*GrammarCheck, error) {
	key := fingerprint.GrammarKey(text)

	var result *analysis.GrammarResult
	if v, ok := e.cache.Get(key); ok {
		result = v.(*analysis.GrammarResult)
		e.logger.Debug("grammar result served from cache", "chars", len(text))
	} else {
		var err error
		result, err = e.analyzer.AnalyzeGrammar(ctx, text)
		if err != nil {
			return nil, err
		}
		e.cache.Put(key, result)
	}

	return &GrammarCheck{
		Set:      correction.NewSet(result.Corrected, result.Records),
		Language: result.LanguageInfo,
		Notes:    result.Notes,
	}, nil
}

// Translate translates text into the target language, memoized per
// (text, language) pair.
func (e *Engine) Translate(ctx context.Context, text, targetLanguageCode string) (*analysis.TranslationResult, error) {
	key := fingerprint.TranslationKey(text, targetLanguageCode)

	if v, ok := e.cache.Get(key); ok {
		e.logger.Debug("translation served from cache",
			"chars", len(text), "lang", targetLanguageCode)
		return v.(*analysis.TranslationResult), nil
	}

	result, err := e.analyzer.AnalyzeTranslation(ctx, text, targetLanguageCode)
	if err != nil {
		return nil, err
	}
	e.cache.Put(key, result)
	return result, nil
}
