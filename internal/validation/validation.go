package validation

import (
	"fmt"
	"strings"
)

const (
	// MaxInputLength is the maximum allowed length for input text (100K characters)
	// This prevents excessive API costs and potential memory issues
	MaxInputLength = 100000
)

// ValidateAPIKey validates the format of an API key. OpenAI and Anthropic
// keys both start with "sk-"; we only check shape, never validity.
func ValidateAPIKey(apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("API key is required")
	}
	if len(apiKey) < 20 {
		return fmt.Errorf("API key appears to be invalid (too short)")
	}
	if !strings.HasPrefix(apiKey, "sk-") {
		return fmt.Errorf("API key must start with 'sk-'")
	}
	return nil
}

// ValidateText validates input text for analysis calls.
func ValidateText(text string) error {
	if text == "" {
		return fmt.Errorf("text cannot be empty")
	}
	if len(text) > MaxInputLength {
		return fmt.Errorf("text exceeds maximum length of %d characters (got %d)", MaxInputLength, len(text))
	}
	return nil
}

// ValidateLanguageCode validates a translation target language code.
func ValidateLanguageCode(code string) error {
	if code == "" {
		return fmt.Errorf("target language code is required")
	}
	if strings.ContainsAny(code, " \t\n\r\x00") {
		return fmt.Errorf("language code contains invalid characters")
	}
	return nil
}
