package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAICompatible(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		var req openAIRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "pick the red one", req.Messages[1].Content)
		require.NotNil(t, req.ResponseFormat)
		assert.Equal(t, "json_object", req.ResponseFormat.Type)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"actions\":[]}"}}]}`))
	}))
	defer srv.Close()

	c := NewOpenAICompatible("test", srv.URL+"/v1/", "sk-test")
	reply, err := c.Complete(context.Background(), "gpt-4o-mini", "sys", "pick the red one")
	require.NoError(t, err)
	assert.Equal(t, `{"actions":[]}`, reply)
}

func TestOpenAIErrors(t *testing.T) {
	_, err := NewOpenAI("").Complete(context.Background(), "m", "s", "u")
	assert.ErrorContains(t, err, "openai: API key not set")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()
	_, err = NewOpenAICompatible("groq", srv.URL, "k").Complete(context.Background(), "m", "s", "u")
	assert.ErrorContains(t, err, "groq: 429")

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer empty.Close()
	_, err = NewOpenAICompatible("x", empty.URL, "k").Complete(context.Background(), "m", "s", "u")
	assert.ErrorContains(t, err, "no choices")
}

func TestOllama(t *testing.T) {
	var models []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"), "local server takes no key")
		var req openAIRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		models = append(models, req.Model)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer srv.Close()

	c := NewOllama(srv.URL + "/")
	reply, err := c.Complete(context.Background(), "gpt-4o-mini", "s", "u")
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
	_, err = c.Complete(context.Background(), "llama3", "s", "u")
	require.NoError(t, err)
	_, err = c.Complete(context.Background(), "", "s", "u")
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultOllamaModel, "llama3", DefaultOllamaModel}, models)

	assert.Equal(t, DefaultOllamaBaseURL+"/v1", NewOllama("").baseURL)
}

type stubClient struct {
	reply string
	err   error
	calls int
}

func (s *stubClient) Complete(context.Context, string, string, string) (string, error) {
	s.calls++
	return s.reply, s.err
}

func TestFallbackAndChain(t *testing.T) {
	bad := &stubClient{err: errors.New("no key")}
	good := &stubClient{reply: "hi"}

	reply, err := (&Fallback{Primary: bad, Secondary: good}).Complete(context.Background(), "m", "s", "u")
	require.NoError(t, err)
	assert.Equal(t, "hi", reply)

	worse := &stubClient{err: errors.New("offline")}
	_, err = Chain(bad, worse).Complete(context.Background(), "m", "s", "u")
	assert.ErrorContains(t, err, "no key")
	assert.ErrorContains(t, err, "offline")

	first := &stubClient{reply: "first"}
	third := &stubClient{reply: "third"}
	reply, err = Chain(first, bad, third).Complete(context.Background(), "m", "s", "u")
	require.NoError(t, err)
	assert.Equal(t, "first", reply)
	assert.Zero(t, third.calls)

	assert.Nil(t, Chain())
}

func TestFromKeys(t *testing.T) {
	c := FromKeys(Keys{OpenAI: "sk", Groq: "gq"})
	f, ok := c.(*Fallback)
	require.True(t, ok)
	assert.Equal(t, "openai", f.Primary.(*OpenAI).name)
	g := f.Secondary.(*Fallback)
	assert.Equal(t, "groq", g.Primary.(*OpenAI).name)
	assert.Equal(t, "ollama", g.Secondary.(*OpenAI).name)

	c = FromKeys(Keys{BaseURL: "http://gpu-box:11434"})
	o, ok := c.(*OpenAI)
	require.True(t, ok)
	assert.Equal(t, "ollama", o.name)
	assert.Equal(t, "http://gpu-box:11434/v1", o.baseURL)
}
