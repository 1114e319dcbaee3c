package llm

import (
	"context"
	"fmt"
)

// Provider is the interface for hosted generative-model backends.
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
}

// StubProvider is a placeholder backend used when no real provider is
// configured. Every call fails, which the analysis layer turns into its
// four-section fallback payload.
type StubProvider struct{}

func (p *StubProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	return "", fmt.Errorf("llm: no provider configured")
}
