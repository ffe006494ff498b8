package provider

import (
	"context"
	"fmt"
	"strings"
)

// MockProvider is a scriptable provider for testing. Responses are keyed by
// a substring of the prompt, so tests do not have to reproduce full prompt
// text.
type MockProvider struct {
	responses map[string]string
	calls     int
	err       error
}

// NewMockProvider creates a new mock provider
func NewMockProvider() *MockProvider {
	return &MockProvider{
		responses: make(map[string]string),
	}
}

func (m *MockProvider) Name() string {
	return "mock"
}

// Respond registers a reply for any prompt containing the given fragment.
func (m *MockProvider) Respond(fragment, response string) {
	m.responses[fragment] = response
}

// Fail makes every subsequent Chat call return err.
func (m *MockProvider) Fail(err error) {
	m.err = err
}

// Calls returns the number of Chat invocations.
func (m *MockProvider) Calls() int {
	return m.calls
}

// Chat returns the scripted response matching the last user message.
func (m *MockProvider) Chat(ctx context.Context, model string, messages []Message) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages provided")
	}

	var prompt string
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			prompt = messages[i].Content
			break
		}
	}

	for fragment, response := range m.responses {
		if strings.Contains(prompt, fragment) {
			return response, nil
		}
	}
	return "", fmt.Errorf("no scripted response for prompt: %s", prompt)
}
