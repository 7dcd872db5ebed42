package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const (
	openAIBaseURL = "https://api.openai.com/v1"
	groqBaseURL   = "https://api.groq.com/openai/v1"

	// DefaultOllamaBaseURL is the default base URL for a local Ollama server.
	DefaultOllamaBaseURL = "http://localhost:11434"
	// DefaultOllamaModel is used when the requested model is empty or names a hosted model.
	DefaultOllamaModel = "qwen2.5"
)

// OpenAI implements Client for any OpenAI-compatible Chat Completions API.
type OpenAI struct {
	name    string
	baseURL string
	apiKey  string
	keyless bool                // local servers need no Authorization header
	model   func(string) string // maps the requested model, nil keeps it
	client  *http.Client
}

// NewOpenAI returns a Client that uses the OpenAI API with the given API key.
func NewOpenAI(apiKey string) *OpenAI {
	return NewOpenAICompatible("openai", openAIBaseURL, apiKey)
}

// NewGroq returns a Client that uses Groq's OpenAI-compatible API with the given API key.
func NewGroq(apiKey string) *OpenAI {
	return NewOpenAICompatible("groq", groqBaseURL, apiKey)
}

// NewOllama returns a Client for the OpenAI-compatible endpoint of an Ollama server at
// baseURL (e.g. http://localhost:11434), or DefaultOllamaBaseURL when empty. Hosted model
// names such as "gpt-4o-mini" are replaced with DefaultOllamaModel.
func NewOllama(baseURL string) *OpenAI {
	u := strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if u == "" {
		u = DefaultOllamaBaseURL
	}
	c := NewOpenAICompatible("ollama", u+"/v1", "")
	c.keyless = true
	c.model = func(m string) string {
		if m == "" || strings.HasPrefix(m, "gpt-") {
			return DefaultOllamaModel
		}
		return m
	}
	return c
}

// NewOpenAICompatible returns a Client for the chat completions endpoint under baseURL
// (e.g. "https://api.openai.com/v1"). name prefixes errors.
func NewOpenAICompatible(name, baseURL, apiKey string) *OpenAI {
	return &OpenAI{
		name:    name,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client:  http.DefaultClient,
	}
}

type openAIRequest struct {
	Model          string          `json:"model"`
	Messages       []message       `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// Complete sends system and user messages and returns the assistant reply. Replies are
// requested in JSON mode.
func (c *OpenAI) Complete(ctx context.Context, model, systemPrompt, userMessage string) (string, error) {
	if c.apiKey == "" && !c.keyless {
		return "", fmt.Errorf("%s: API key not set", c.name)
	}
	if c.model != nil {
		model = c.model(model)
	}
	reqBody := openAIRequest{
		Model: model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", c.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: %s", c.name, resp.Status)
	}
	var out openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%s: %w", c.name, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%s: no choices in response", c.name)
	}
	return out.Choices[0].Message.Content, nil
}
