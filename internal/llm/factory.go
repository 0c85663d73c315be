package llm

import (
	"fmt"
	"strings"
)

const (
	ProviderCopilot  = "copilot"
	ProviderOllama   = "ollama"
	ProviderLMStudio = "lmstudio"
)

// Providers lists the accepted provider names.
var Providers = []string{ProviderCopilot, ProviderOllama, ProviderLMStudio}

// NewClient creates an LLM client based on provider configuration.
func NewClient(provider, model, baseURL string) (Client, error) {
	switch NormalizeProvider(provider) {
	case ProviderCopilot:
		return NewCopilotClient(model)
	case ProviderOllama:
		return NewOllamaClient(model, baseURL)
	case ProviderLMStudio:
		return NewLMStudioClient(model, baseURL)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}

// NormalizeProvider maps aliases to a canonical provider name. Unknown
// names are returned lowercased.
func NormalizeProvider(provider string) string {
	p := strings.ToLower(strings.TrimSpace(provider))
	switch p {
	case "":
		return ProviderCopilot
	case "lm-studio", "llmstudio":
		return ProviderLMStudio
	default:
		return p
	}
}
