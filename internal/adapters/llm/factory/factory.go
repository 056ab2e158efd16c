package factory

import (
	"strings"

	httpprov "tsgpt/internal/adapters/llm/httpclient"
	"tsgpt/internal/domain"
	"tsgpt/internal/ports"
)

// FromProvider returns an HTTP-backed translator for the configured provider.
// Hosted providers need an API key; a local ollama does not.
func FromProvider(p domain.Provider, prompts ports.PromptRenderer) (*httpprov.Client, error) {
	switch strings.ToLower(p.Type) {
	case httpprov.ProviderOpenAI, httpprov.ProviderOpenRouter:
		if p.APIKey == "" {
			return nil, domain.ConfigErrorf("provider %s requires an API key (api_key_path or TSGPT_API_KEY)", p.Type)
		}
	case httpprov.ProviderOllama:
	default:
		return nil, domain.ConfigErrorf("unsupported provider: %s", p.Type)
	}
	if p.Model == "" {
		return nil, domain.ConfigErrorf("provider %s: model is required", p.Type)
	}
	return httpprov.New(p, prompts), nil
}
