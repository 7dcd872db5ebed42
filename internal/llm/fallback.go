package llm

import (
	"context"
	"errors"
)

// Fallback tries primary first; if it returns an error, tries secondary.
// Use when primary (e.g. a hosted API without a key) may fail but secondary (e.g. local Ollama) can answer.
type Fallback struct {
	Primary   Client
	Secondary Client
}

// Complete calls Primary.Complete; on any error, calls Secondary.Complete. If both fail
// the errors are joined.
func (f *Fallback) Complete(ctx context.Context, model, systemPrompt, userMessage string) (string, error) {
	s, err := f.Primary.Complete(ctx, model, systemPrompt, userMessage)
	if err == nil || f.Secondary == nil || ctx.Err() != nil {
		return s, err
	}
	s, err2 := f.Secondary.Complete(ctx, model, systemPrompt, userMessage)
	if err2 != nil {
		return "", errors.Join(err, err2)
	}
	return s, nil
}

// Chain nests Fallbacks so clients are tried in order.
func Chain(clients ...Client) Client {
	if len(clients) == 0 {
		return nil
	}
	out := clients[len(clients)-1]
	for i := len(clients) - 2; i >= 0; i-- {
		out = &Fallback{Primary: clients[i], Secondary: out}
	}
	return out
}
