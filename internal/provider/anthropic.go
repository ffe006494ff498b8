package provider

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicProvider implements Provider using Anthropic's API
type AnthropicProvider struct {
	client anthropic.Client
}

// NewAnthropicProvider creates a new Anthropic provider
func NewAnthropicProvider(apiKey string) (*AnthropicProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)
	return &AnthropicProvider{
		client: client,
	}, nil
}

func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

func toAnthropicMessages(messages []Message) ([]anthropic.MessageParam, []anthropic.TextBlockParam) {
	anthropicMessages := make([]anthropic.MessageParam, 0, len(messages))
	systemPrompt := make([]anthropic.TextBlockParam, 0)

	for _, msg := range messages {
		if msg.Role == RoleSystem {
			systemPrompt = append(systemPrompt, anthropic.TextBlockParam{Text: msg.Content})
			continue
		}
		// Anthropic uses "user" and "assistant" roles.
		if msg.Role == RoleUser {
			anthropicMessages = append(anthropicMessages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		} else if msg.Role == RoleAssistant {
			anthropicMessages = append(anthropicMessages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	return anthropicMessages, systemPrompt
}

// Chat performs a non-streaming chat completion
func (p *AnthropicProvider) Chat(ctx context.Context, model string, messages []Message) (string, error) {
	anthropicMessages, systemPrompt := toAnthropicMessages(messages)

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: 4096,
		Messages:  anthropicMessages,
	}

	if len(systemPrompt) > 0 {
		params.System = systemPrompt
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to create completion: %w", err)
	}

	if len(resp.Content) == 0 {
		return "", fmt.Errorf("no response from API")
	}

	// Extract text content from the first content block
	if textBlock, ok := resp.Content[0].AsAny().(anthropic.TextBlock); ok {
		return textBlock.Text, nil
	}

	return "", fmt.Errorf("unexpected response format")
}
