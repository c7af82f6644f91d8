package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusnotice/noticeagent/internal/core/domain"
)

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	s, err := NewServer(ports, Config{Addr: ":0", Engine: "Groq (llama-3.3-70b-versatile)"})
	require.NoError(t, err)
	return s
}

func do(t *testing.T, s *Server, method, path, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestNewServer(t *testing.T) {
	t.Run("nil answer service returns error", func(t *testing.T) {
		s, err := NewServer(&Ports{}, Config{})
		require.Error(t, err)
		assert.Nil(t, s)
		assert.ErrorIs(t, err, ErrMissingAnswerService)
	})

	t.Run("answer only is valid", func(t *testing.T) {
		s, err := NewServer(&Ports{Answer: &mockAnswerService{}}, Config{})
		require.NoError(t, err)
		assert.Equal(t, "*", s.cfg.CORSOrigins)
	})
}

func TestHandleChat(t *testing.T) {
	answers := &mockAnswerService{answer: domain.Answer{
		Text:    "The fee deadline is Feb 28.",
		Outcome: domain.OutcomeAnswered,
	}}
	s := newTestServer(t, &Ports{Answer: answers})

	code, body := do(t, s, http.MethodPost, "/chat", `{"question":"when is the fee deadline"}`)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "The fee deadline is Feb 28.", body["answer"])
	assert.Equal(t, []string{"when is the fee deadline"}, answers.questions)
}

func TestHandleChat_FailureIsStillAnAnswer(t *testing.T) {
	answers := &mockAnswerService{answer: domain.Answer{
		Text:    "Error communicating with Groq: connection refused",
		Outcome: domain.OutcomeError,
		Err:     domain.ErrCompletionService,
	}}
	s := newTestServer(t, &Ports{Answer: answers})

	code, body := do(t, s, http.MethodPost, "/chat", `{"question":"hello"}`)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Error communicating with Groq: connection refused", body["answer"])
}

func TestHandleChat_InvalidBody(t *testing.T) {
	answers := &mockAnswerService{}
	s := newTestServer(t, &Ports{Answer: answers})

	code, body := do(t, s, http.MethodPost, "/chat", `{"question":`)

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid request body", body["error"])
	assert.Empty(t, answers.questions)
}

func TestHandleSync(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPost} {
		t.Run(method, func(t *testing.T) {
			orch := &mockSyncOrchestrator{result: &domain.SyncResult{
				Documents:       3,
				OfficialNotices: 2,
				DynamicUpdates:  1,
				Passages:        42,
			}}
			s := newTestServer(t, &Ports{Answer: &mockAnswerService{}, Sync: orch})

			code, body := do(t, s, method, "/sync", "")

			assert.Equal(t, http.StatusOK, code)
			assert.Equal(t, "success", body["status"])
			assert.InDelta(t, 42, body["count"], 0)
			assert.Contains(t, body["message"], "2 official notices, 1 updates")
			assert.Equal(t, []string{domain.TriggerHTTP}, orch.triggers)
		})
	}
}

func TestHandleSync_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "no documents",
			err:      domain.ErrNoDocumentsFound,
			wantCode: http.StatusOK,
			wantMsg:  "Ensure the data folder contains PDF or text files",
		},
		{
			name:     "in progress",
			err:      domain.ErrSyncInProgress,
			wantCode: http.StatusConflict,
			wantMsg:  "already running",
		},
		{
			name:     "build failed",
			err:      fmt.Errorf("%w: disk full", domain.ErrIndexBuildFailed),
			wantCode: http.StatusInternalServerError,
			wantMsg:  "disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orch := &mockSyncOrchestrator{err: tt.err}
			s := newTestServer(t, &Ports{Answer: &mockAnswerService{}, Sync: orch})

			code, body := do(t, s, http.MethodGet, "/sync", "")

			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, "error", body["status"])
			assert.NotContains(t, body, "count")
			assert.Contains(t, body["message"], tt.wantMsg)
		})
	}
}

func TestHandleSync_NotWired(t *testing.T) {
	s := newTestServer(t, &Ports{Answer: &mockAnswerService{}})

	code, body := do(t, s, http.MethodPost, "/sync", "")

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "error", body["status"])
}

func TestHandleStatus(t *testing.T) {
	status := &mockStatusService{status: &domain.EngineStatus{
		Engine: "Ollama (llama3.2)",
		Index:  domain.IndexInfo{Backend: "memory", Entries: 12, Dimensions: 384},
	}}
	s := newTestServer(t, &Ports{Answer: &mockAnswerService{}, Status: status})

	code, body := do(t, s, http.MethodGet, "/status", "")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "online", body["status"])
	assert.Equal(t, "Ollama (llama3.2)", body["engine"])
	assert.Equal(t, true, body["indexed"])
	assert.InDelta(t, 12, body["passages"], 0)
}

func TestHandleStatus_Fallbacks(t *testing.T) {
	t.Run("no status service", func(t *testing.T) {
		s := newTestServer(t, &Ports{Answer: &mockAnswerService{}})

		code, body := do(t, s, http.MethodGet, "/status", "")

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "online", body["status"])
		assert.Equal(t, "Groq (llama-3.3-70b-versatile)", body["engine"])
		assert.Equal(t, false, body["indexed"])
	})

	t.Run("status error", func(t *testing.T) {
		status := &mockStatusService{err: errors.New("index closed")}
		s := newTestServer(t, &Ports{Answer: &mockAnswerService{}, Status: status})

		code, body := do(t, s, http.MethodGet, "/status", "")

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "online", body["status"])
	})
}

func TestCORS(t *testing.T) {
	s, err := NewServer(&Ports{Answer: &mockAnswerService{}}, Config{CORSOrigins: "http://localhost:5173"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}
