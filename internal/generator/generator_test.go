package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllama_Generate(t *testing.T) {
	t.Run("successful completion", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/generate", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var req ollamaRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "llama3.2", req.Model)
			assert.Equal(t, "rewrite this", req.Prompt)
			assert.False(t, req.Stream)

			json.NewEncoder(w).Encode(ollamaResponse{Response: "  Polished text.\n", Done: true})
		}))
		defer server.Close()

		gen := NewOllama(OllamaConfig{Host: server.URL})
		out, err := gen.Generate(context.Background(), "rewrite this")
		require.NoError(t, err)
		assert.Equal(t, "  Polished text.\n", out)
	})

	t.Run("non-OK status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("model not loaded"))
		}))
		defer server.Close()

		gen := NewOllama(OllamaConfig{Host: server.URL})
		_, err := gen.Generate(context.Background(), "p")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 500")
	})

	t.Run("empty response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(ollamaResponse{Done: true})
		}))
		defer server.Close()

		gen := NewOllama(OllamaConfig{Host: server.URL})
		_, err := gen.Generate(context.Background(), "p")
		assert.ErrorIs(t, err, ErrEmptyCompletion)
	})
}

func TestNewOllama(t *testing.T) {
	t.Run("uses default model", func(t *testing.T) {
		gen := NewOllama(OllamaConfig{Host: "http://localhost:11434"})
		assert.Equal(t, defaultOllamaModel, gen.Model())
		assert.Equal(t, "ollama", gen.Name())
	})

	t.Run("uses custom model", func(t *testing.T) {
		gen := NewOllama(OllamaConfig{Model: "mistral:7b"})
		assert.Equal(t, "mistral:7b", gen.model)
	})
}

func TestAnthropic_Generate(t *testing.T) {
	t.Run("successful completion", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "test-api-key", r.Header.Get("x-api-key"))
			assert.Equal(t, anthropicAPIVersion, r.Header.Get("anthropic-version"))

			var req anthropicRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Len(t, req.Messages, 1)
			assert.Equal(t, "user", req.Messages[0].Role)
			assert.Equal(t, "the prompt", req.Messages[0].Content)

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"content":[{"type":"text","text":"Hello, world!"}],"stop_reason":"end_turn"}`))
		}))
		defer server.Close()

		gen := NewAnthropic(AnthropicConfig{APIKey: "test-api-key", APIURL: server.URL})
		out, err := gen.Generate(context.Background(), "the prompt")
		require.NoError(t, err)
		assert.Equal(t, "Hello, world!", out)
	})

	t.Run("error payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error":{"type":"overloaded_error","message":"Overloaded"}}`))
		}))
		defer server.Close()

		gen := NewAnthropic(AnthropicConfig{APIKey: "k", APIURL: server.URL})
		_, err := gen.Generate(context.Background(), "p")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "overloaded_error")
	})

	t.Run("unauthorized", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		gen := NewAnthropic(AnthropicConfig{APIKey: "invalid", APIURL: server.URL})
		_, err := gen.Generate(context.Background(), "p")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 401")
	})
}

func TestNewAnthropic(t *testing.T) {
	gen := NewAnthropic(AnthropicConfig{APIKey: "test"})
	assert.Equal(t, defaultAnthropicModel, gen.Model())
	assert.Equal(t, anthropicAPIURL, gen.apiURL)
	assert.Equal(t, "anthropic", gen.Name())
}

func newTestGemini(t *testing.T, handler http.HandlerFunc) *Gemini {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	gen, err := NewGemini(context.Background(), GeminiConfig{
		APIKey:     "test-key",
		BaseURL:    server.URL + "/",
		HTTPClient: server.Client(),
	})
	require.NoError(t, err)
	return gen
}

func TestGemini_Generate(t *testing.T) {
	t.Run("joins candidate parts", func(t *testing.T) {
		gen := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-2.5-flash:generateContent"), r.URL.Path)
			assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

			var req struct {
				Contents []struct {
					Role  string `json:"role"`
					Parts []struct {
						Text string `json:"text"`
					} `json:"parts"`
				} `json:"contents"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Len(t, req.Contents, 1)
			assert.Equal(t, "user", req.Contents[0].Role)
			require.Len(t, req.Contents[0].Parts, 1)
			assert.Equal(t, "prompt", req.Contents[0].Parts[0].Text)

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Sharper "},{"text":"statement."}]},"finishReason":"STOP"}]}`))
		})

		out, err := gen.Generate(context.Background(), "prompt")
		require.NoError(t, err)
		assert.Equal(t, "Sharper statement.", out)
	})

	t.Run("skips thought parts", func(t *testing.T) {
		gen := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"thinking...","thought":true},{"text":"Answer."}]}}]}`))
		})

		out, err := gen.Generate(context.Background(), "prompt")
		require.NoError(t, err)
		assert.Equal(t, "Answer.", out)
	})

	t.Run("no candidates", func(t *testing.T) {
		gen := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"candidates":[]}`))
		})

		_, err := gen.Generate(context.Background(), "prompt")
		assert.ErrorIs(t, err, ErrEmptyCompletion)
	})

	t.Run("blocked prompt", func(t *testing.T) {
		gen := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
		})

		_, err := gen.Generate(context.Background(), "prompt")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "prompt blocked: SAFETY")
	})

	t.Run("candidate without content", func(t *testing.T) {
		gen := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"candidates":[{"finishReason":"MAX_TOKENS"}]}`))
		})

		_, err := gen.Generate(context.Background(), "prompt")
		assert.ErrorIs(t, err, ErrEmptyCompletion)
		assert.Contains(t, err.Error(), "MAX_TOKENS")
	})

	t.Run("api error", func(t *testing.T) {
		gen := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`))
		})

		_, err := gen.Generate(context.Background(), "prompt")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "generate content")
	})
}

func TestNewGemini(t *testing.T) {
	gen, err := NewGemini(context.Background(), GeminiConfig{APIKey: "test-key"})
	require.NoError(t, err)
	assert.Equal(t, defaultGeminiModel, gen.Model())
	assert.Equal(t, "gemini", gen.Name())

	gen, err = NewGemini(context.Background(), GeminiConfig{APIKey: "test-key", Model: "gemini-2.5-pro"})
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", gen.Model())
}

func TestGenerator_Interface(t *testing.T) {
	var _ Generator = (*Gemini)(nil)
	var _ Generator = (*Ollama)(nil)
	var _ Generator = (*Anthropic)(nil)
}
