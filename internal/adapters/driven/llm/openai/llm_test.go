package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusnotice/noticeagent/internal/core/ports/driven"
)

func TestNewLLMService_RequiresKey(t *testing.T) {
	_, err := NewLLMService(LLMConfig{Name: "groq"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "groq")
}

func TestGenerate_SendsZeroTemperature(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gsk", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Exams start on 3 March."}}]}`))
	}))
	defer srv.Close()

	s, err := NewLLMService(LLMConfig{APIKey: "gsk", BaseURL: srv.URL + "/", Model: "llama-3.3-70b-versatile"})
	require.NoError(t, err)

	out, err := s.Generate(context.Background(), "When do exams start?", driven.GenerateOptions{
		Temperature: driven.Float64(0),
	})
	require.NoError(t, err)
	assert.Equal(t, "Exams start on 3 March.", out)

	require.Contains(t, raw, "temperature")
	assert.InDelta(t, 0.0, raw["temperature"], 0)
	assert.Equal(t, "llama-3.3-70b-versatile", raw["model"])
	assert.NotContains(t, raw, "max_tokens")
}

func TestGenerate_OmitsTemperatureWhenNil(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	s, _ := NewLLMService(LLMConfig{APIKey: "k", BaseURL: srv.URL})
	_, err := s.Generate(context.Background(), "hi", driven.GenerateOptions{})
	require.NoError(t, err)
	assert.NotContains(t, raw, "temperature")
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"api error", http.StatusTooManyRequests, `{"error":{"message":"rate limit reached"}}`, "groq error (status 429): rate limit reached"},
		{"no choices", http.StatusOK, `{"choices":[]}`, "no response choices"},
		{"bad status", http.StatusBadGateway, `{}`, "status 502"},
		{"bad json", http.StatusOK, `not json`, "decode response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			s, _ := NewLLMService(LLMConfig{APIKey: "k", BaseURL: srv.URL, Name: "groq"})
			_, err := s.Generate(context.Background(), "q", driven.GenerateOptions{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	s, _ := NewLLMService(LLMConfig{APIKey: "k", BaseURL: srv.URL})
	assert.NoError(t, s.Ping(context.Background()))
	assert.Equal(t, DefaultLLMModel, s.ModelName())
}
