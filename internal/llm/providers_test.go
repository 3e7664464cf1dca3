package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openaiConfig(endpoint string) LLMConfig {
	cfg := DefaultConfig()
	cfg.Provider = ProviderOpenAI
	cfg.Endpoint = endpoint + "/"
	cfg.APIKey = "test-key"
	cfg.Model = "gpt-test"
	return cfg
}

func chatCompletionJSON(content string) string {
	return `{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-test",` +
		`"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":` +
		jsonString(content) + `}}]}`
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestOpenAIClient_Generate_SendsSingleUserMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-test", body["model"])
		assert.Equal(t, 0.0, body["temperature"])
		assert.Equal(t, 10.0, body["max_tokens"])

		msgs, ok := body["messages"].([]any)
		require.True(t, ok)
		require.Len(t, msgs, 1)
		msg := msgs[0].(map[string]any)
		assert.Equal(t, "user", msg["role"])
		assert.Equal(t, "classify this", msg["content"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatCompletionJSON("S.S")))
	}))
	defer srv.Close()

	client, err := NewOpenAIClient(openaiConfig(srv.URL), NoopObserver{})
	require.NoError(t, err)

	resp, err := client.Generate(context.Background(), GenerateRequest{
		Task:       TaskClassify,
		UserPrompt: "classify this",
	})
	require.NoError(t, err)
	assert.Equal(t, "S.S", resp.Text)
	assert.Equal(t, "gpt-test", resp.Model)
}

func TestOpenAIClient_Generate_ServerErrorNoSDKRetry(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer srv.Close()

	client, err := NewOpenAIClient(openaiConfig(srv.URL), NoopObserver{})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), GenerateRequest{Task: TaskClassify, UserPrompt: "x"})
	assert.ErrorIs(t, err, ErrRetryExhausted)
	assert.Equal(t, int32(1), hits.Load())
}

func TestOpenAIClient_Generate_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"x","object":"chat.completion","created":1,"model":"gpt-test","choices":[]}`))
	}))
	defer srv.Close()

	client, err := NewOpenAIClient(openaiConfig(srv.URL), NoopObserver{})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), GenerateRequest{Task: TaskClassify, UserPrompt: "x"})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGeminiClient_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "gemini-test:generateContent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"R."},{"text":"ES"}]}}],"modelVersion":"gemini-test-001"}`))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.Provider = ProviderGemini
	cfg.Endpoint = srv.URL
	cfg.APIKey = "test-key"
	cfg.Model = "gemini-test"

	client, err := NewGeminiClient(context.Background(), cfg, NoopObserver{})
	require.NoError(t, err)

	resp, err := client.Generate(context.Background(), GenerateRequest{Task: TaskClassify, UserPrompt: "x"})
	require.NoError(t, err)
	assert.Equal(t, "R.ES", resp.Text)
	assert.Equal(t, "gemini-test-001", resp.Model)
}

func TestNewClient_Factory(t *testing.T) {
	ctx := context.Background()

	cfg := DefaultConfig()
	cfg.Provider = ProviderOllama
	c, err := NewClient(ctx, cfg, nil)
	require.NoError(t, err)
	assert.NotNil(t, c)

	cfg.Provider = ProviderOpenAI
	cfg.APIKey = ""
	_, err = NewClient(ctx, cfg, nil)
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	cfg.Provider = ProviderGemini
	_, err = NewClient(ctx, cfg, nil)
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	cfg.Provider = ParseProvider("claude-via-carrier-pigeon")
	_, err = NewClient(ctx, cfg, nil)
	assert.ErrorIs(t, err, ErrUnknownProvider)
}
