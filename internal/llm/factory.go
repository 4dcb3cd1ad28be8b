package llm

import (
	"fmt"
	"time"
)

// NewFromProvider builds the configured upstream client.
func NewFromProvider(provider, baseURL, apiKey, model string, timeout time.Duration) (Client, error) {
	switch provider {
	case "gemini":
		c := NewGeminiClient(baseURL, apiKey, model)
		if timeout > 0 {
			c.Timeout = timeout
		}
		return c, nil
	case "openai":
		c := NewOpenAIClient(baseURL, apiKey, model)
		if timeout > 0 {
			c.Timeout = timeout
		}
		return c, nil
	case "ollama":
		c := NewOllamaClient(baseURL, model)
		if timeout > 0 {
			c.Timeout = timeout
		}
		return c, nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", provider)
	}
}
