package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	retry "github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"github.com/redraftapp/redraft/internal/provider"
	"github.com/redraftapp/redraft/internal/ratelimit"
	"github.com/redraftapp/redraft/internal/validation"
)

const (
	defaultAttempts   = 3
	defaultRetryDelay = 500 * time.Millisecond
)

var validModes = map[string]bool{
	"casual":    true,
	"formal":    true,
	"academic":  true,
	"technical": true,
}

// Client implements Analyzer on top of a chat provider.
type Client struct {
	provider provider.Provider
	model    string
	mode     string
	language string
	limiter  *ratelimit.Limiter
	logger   *slog.Logger
	attempts uint
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithRateLimiter spaces out provider calls.
func WithRateLimiter(l *ratelimit.Limiter) ClientOption {
	return func(c *Client) { c.limiter = l }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMode sets the correction register. Invalid modes fall back to casual.
func WithMode(mode string) ClientOption {
	return func(c *Client) {
		if validModes[mode] {
			c.mode = mode
		}
	}
}

// WithLanguage sets the language the input text is written in.
func WithLanguage(language string) ClientOption {
	return func(c *Client) {
		if language != "" {
			c.language = language
		}
	}
}

// WithAttempts bounds the transient-failure retry loop per request.
func WithAttempts(n uint) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.attempts = n
		}
	}
}

// NewClient creates an analysis client using the given provider and model.
func NewClient(p provider.Provider, model string, opts ...ClientOption) (*Client, error) {
	if p == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}
	c := &Client{
		provider: p,
		model:    model,
		mode:     "casual",
		language: "english",
		logger:   slog.Default(),
		attempts: defaultAttempts,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// AnalyzeGrammar asks the model for corrected text plus the individual
// edits it made. Malformed reply payloads degrade to a result the caller
// can still display; only transport failures become errors.
func (c *Client) AnalyzeGrammar(ctx context.Context, text string) (*GrammarResult, error) {
	if err := validation.ValidateText(text); err != nil {
		return nil, &AnalysisError{Op: "grammar", Err: err}
	}
	reply, err := c.chat(ctx, "grammar", grammarPrompt(c.mode, c.language, text))
	if err != nil {
		return nil, &AnalysisError{Op: "grammar", Err: err}
	}
	return parseGrammarReply(text, reply), nil
}

// AnalyzeTranslation translates text into the target language.
func (c *Client) AnalyzeTranslation(ctx context.Context, text, targetLanguageCode string) (*TranslationResult, error) {
	if err := validation.ValidateText(text); err != nil {
		return nil, &AnalysisError{Op: "translate", Err: err}
	}
	if err := validation.ValidateLanguageCode(targetLanguageCode); err != nil {
		return nil, &AnalysisError{Op: "translate", Err: err}
	}
	reply, err := c.chat(ctx, "translate", translationPrompt(targetLanguageCode, text))
	if err != nil {
		return nil, &AnalysisError{Op: "translate", Err: err}
	}
	return parseTranslationReply(reply), nil
}

// CountIssues asks the model how many grammar/spelling issues the text has.
func (c *Client) CountIssues(ctx context.Context, text string) (int, error) {
	if err := validation.ValidateText(text); err != nil {
		return 0, &AnalysisError{Op: "count", Err: err}
	}
	reply, err := c.chat(ctx, "count", countPrompt(c.language, text))
	if err != nil {
		return 0, &AnalysisError{Op: "count", Err: err}
	}
	n, err := parseCountReply(reply)
	if err != nil {
		return 0, &AnalysisError{Op: "count", Err: err}
	}
	return n, nil
}

// chat sends one prompt, retrying transient provider failures a bounded
// number of times. Each request carries a correlation id in the logs.
func (c *Client) chat(ctx context.Context, op, prompt string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit error: %w", err)
		}
	}

	requestID := uuid.NewString()
	c.logger.Debug("analysis request",
		"op", op, "request_id", requestID, "provider", c.provider.Name(), "model", c.model)

	messages := []provider.Message{
		{Role: provider.RoleUser, Content: prompt},
	}

	reply, err := retry.DoWithData(
		func() (string, error) {
			return c.provider.Chat(ctx, c.model, messages)
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(defaultRetryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("analysis retry",
				"op", op, "request_id", requestID, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		c.logger.Warn("analysis failed",
			"op", op, "request_id", requestID, "error", err)
		return "", err
	}
	return reply, nil
}

func grammarPrompt(mode, language, text string) string {
	registers := map[string]string{
		"casual":    "Keep the tone casual and natural.",
		"formal":    "Make it formal and professional.",
		"academic":  "Use academic writing style.",
		"technical": "Maintain technical accuracy.",
	}
	register, ok := registers[mode]
	if !ok {
		register = registers["casual"]
	}

	languageInstruction := ""
	if language != "" && language != "english" {
		languageInstruction = fmt.Sprintf(" The text is in %s; correct it in %s.", language, language)
	}

	return fmt.Sprintf(`Fix grammar, spelling, and punctuation. %s%s
Respond with only a JSON object in this exact shape, no other text:
{"corrected": "<full corrected text>", "language": "<detected language>", "corrections": [{"original": "<text before>", "suggestion": "<text after>", "explanation": "<short reason>"}], "notes": ["<optional language-specific note>"]}
List corrections in the order they appear in the text.

Text to correct:
%s`, register, languageInstruction, text)
}

func translationPrompt(targetLanguageCode, text string) string {
	return fmt.Sprintf(`Translate the following text to the language with code %q.
Respond with only a JSON object, no other text:
{"translation": "<translated text>", "notes": "<optional translation notes>"}

Text to translate:
%s`, targetLanguageCode, text)
}

func countPrompt(language, text string) string {
	languageInstruction := ""
	if language != "" && language != "english" {
		languageInstruction = fmt.Sprintf(" The text is in %s.", language)
	}
	return fmt.Sprintf(`Count the grammar, spelling, and punctuation issues in the following text.%s
Respond with only a single non-negative integer, nothing else.

Text:
%s`, languageInstruction, text)
}
