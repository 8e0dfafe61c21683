package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateContent(t *testing.T) {
	var gotPath, gotKey string
	var gotBody geminiGenerateReq

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"role": "model", "parts": []map[string]any{
					{"text": "Olá! "},
					{"text": "Como posso ajudar?"},
				}}},
			},
			"usageMetadata": map[string]any{"totalTokenCount": 42},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	p := NewGeminiProvider(srv.URL, "test-key")
	res, err := p.GenerateContent(context.Background(), Request{
		Model:             "gemini-2.5-flash",
		SystemInstruction: "Responda em PT-BR.",
		Temperature:       0.7,
		Prompt:            "Oi",
	})
	require.NoError(t, err)

	assert.Equal(t, "Olá! Como posso ajudar?", res.Text)
	assert.Equal(t, 42, res.TokensUsed)

	assert.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	require.NotNil(t, gotBody.SystemInstruction)
	assert.Equal(t, "Responda em PT-BR.", gotBody.SystemInstruction.Parts[0].Text)
	assert.InDelta(t, 0.7, gotBody.GenerationConfig.Temperature, 0.0001)
	require.Len(t, gotBody.Contents, 1)
	assert.Equal(t, "user", gotBody.Contents[0].Role)
	assert.Equal(t, "Oi", gotBody.Contents[0].Parts[0].Text)
}

func TestGenerateContentAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "API key not valid"},
		})
	}))
	defer srv.Close()

	p := NewGeminiProvider(srv.URL, "bad-key")
	_, err := p.GenerateContent(context.Background(), Request{Model: "gemini-2.5-flash", Prompt: "Oi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestGenerateContentEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer srv.Close()

	p := NewGeminiProvider(srv.URL, "key")
	_, err := p.GenerateContent(context.Background(), Request{Model: "gemini-2.5-flash", Prompt: "Oi"})
	assert.Error(t, err)
}

func TestGenerateContentValidation(t *testing.T) {
	p := NewGeminiProvider("", "")
	_, err := p.GenerateContent(context.Background(), Request{Model: "gemini-2.5-flash", Prompt: "Oi"})
	assert.Error(t, err, "missing api key")

	p = NewGeminiProvider("", "key")
	_, err = p.GenerateContent(context.Background(), Request{Prompt: "Oi"})
	assert.Error(t, err, "missing model")
}
