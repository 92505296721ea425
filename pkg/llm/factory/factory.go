package factory

import (
	"fmt"

	"ai-recipechat-be/pkg/llm"
	"ai-recipechat-be/pkg/llm/ollama"
	"ai-recipechat-be/pkg/llm/openaicompat"
)

// NewProvider selects an LLM backend from config values.
func NewProvider(providerType, modelName, baseURL, apiKey string) (llm.Provider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewProvider(baseURL, modelName), nil
	case "openai", "huggingface":
		return openaicompat.NewProvider(apiKey, baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
