package llm

import (
	"context"
	"strings"
)

// Client sends a prompt to an LLM and returns the reply text.
// Model is provider-specific (e.g. "gpt-4o-mini", "llama-3.3-70b-versatile").
type Client interface {
	Complete(ctx context.Context, model, systemPrompt, userMessage string) (string, error)
}

// Keys holds the credentials and endpoints found in the environment.
type Keys struct {
	OpenAI  string
	Groq    string
	BaseURL string // OpenAI-compatible endpoint override, or an Ollama server
}

// FromKeys builds the client chain: OpenAI (or the BaseURL override), then Groq, with a
// local Ollama server as the last resort.
func FromKeys(k Keys) Client {
	var chain []Client
	base := strings.TrimSpace(k.BaseURL)
	switch {
	case base != "" && k.OpenAI != "":
		chain = append(chain, NewOpenAICompatible("openai", base, k.OpenAI))
	case k.OpenAI != "":
		chain = append(chain, NewOpenAI(k.OpenAI))
	}
	if k.Groq != "" {
		chain = append(chain, NewGroq(k.Groq))
	}
	if base != "" && k.OpenAI == "" {
		chain = append(chain, NewOllama(base))
	} else {
		chain = append(chain, NewOllama(""))
	}
	return Chain(chain...)
}
