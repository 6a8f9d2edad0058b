package factory

import (
	"fmt"

	"github.com/Divyapahuja31/ASKMYNOTES/pkg/llm"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/llm/gemini"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/llm/ollama"
)

func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "gemini":
		return gemini.NewGeminiProvider(apiKey, modelName), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
