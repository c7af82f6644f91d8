package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/campusnotice/noticeagent/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question about campus notices"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string   `json:"answer"`
	Outcome string   `json:"outcome"`
	Sources []string `json:"sources,omitempty"`
}

// SyncInput is the input schema for the sync tool. It takes no arguments.
type SyncInput struct{}

// SyncOutput is the output schema for the sync tool.
type SyncOutput struct {
	Status  string `json:"status"`
	Count   int    `json:"count,omitempty"`
	Message string `json:"message"`
}

// StatusInput is the input schema for the status tool. It takes no arguments.
type StatusInput struct{}

// StatusOutput is the output schema for the status tool.
type StatusOutput struct {
	Status         string `json:"status"`
	Engine         string `json:"engine"`
	EmbeddingModel string `json:"embedding_model"`
	Indexed        bool   `json:"indexed"`
	Passages       int    `json:"passages"`
	SyncRunning    bool   `json:"sync_running"`
	LastSync       string `json:"last_sync,omitempty"`
	LastError      string `json:"last_error,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "ask",
		Description: "Answer a question about campus notices. Recent updates take " +
			"precedence over official notices when they conflict.",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "sync",
		Description: "Rebuild the notice index from the data directory",
	}, s.handleSync)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "status",
		Description: "Report the completion engine, index size and last sync",
	}, s.handleStatus)
}

// handleAsk handles the ask tool invocation. Failures are reported in
// the answer text rather than as tool errors.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer := s.ports.Answer.Answer(ctx, input.Question)

	output := AskOutput{
		Answer:  answer.Text,
		Outcome: string(answer.Outcome),
	}
	seen := make(map[string]bool, len(answer.Sources))
	for i := range answer.Sources {
		origin := answer.Sources[i].Origin
		if origin == "" || seen[origin] {
			continue
		}
		seen[origin] = true
		output.Sources = append(output.Sources, origin)
	}

	return nil, output, nil
}

// handleSync handles the sync tool invocation.
func (s *Server) handleSync(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ SyncInput,
) (*mcp.CallToolResult, SyncOutput, error) {
	if s.ports.Sync == nil {
		return nil, SyncOutput{}, errSyncNotConfigured
	}

	result, err := s.ports.Sync.Sync(ctx, domain.TriggerMCP)
	switch {
	case err == nil:
		return nil, SyncOutput{
			Status:  "success",
			Count:   result.Passages,
			Message: "Re-indexed data folder successfully.",
		}, nil
	case errors.Is(err, domain.ErrNoDocumentsFound), errors.Is(err, domain.ErrSyncInProgress):
		return nil, SyncOutput{Status: "error", Message: err.Error()}, nil
	default:
		return nil, SyncOutput{}, err
	}
}

// handleStatus handles the status tool invocation.
func (s *Server) handleStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatusInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	output := StatusOutput{Status: "online"}
	if s.ports.Status == nil {
		return nil, output, nil
	}

	status, err := s.ports.Status.Status(ctx)
	if err != nil {
		return nil, StatusOutput{}, err
	}

	output.Engine = status.Engine
	output.EmbeddingModel = status.EmbeddingModel
	output.Indexed = status.Indexed()
	output.Passages = status.Index.Entries
	output.SyncRunning = status.Sync.Running
	output.LastError = status.Sync.LastError
	if !status.Sync.LastSync.IsZero() {
		output.LastSync = status.Sync.LastSync.Format(time.RFC3339)
	}

	return nil, output, nil
}
