package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for resources.
	uriScheme = "noticeagent://"

	// defaultHistoryLimit is how many sync runs the static resource lists.
	defaultHistoryLimit = 20
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "sync/history",
		Name:        "sync-history",
		Description: "Recent index rebuilds, newest first",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "sync/history/{limit}",
		Name:        "sync-history-limited",
		Description: "The given number of recent index rebuilds",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)
}

// historyEntry is the JSON shape of one sync run.
type historyEntry struct {
	ID        string `json:"id"`
	Trigger   string `json:"trigger"`
	StartedAt string `json:"started_at"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	Documents int    `json:"documents"`
	Passages  int    `json:"passages"`
}

// handleHistoryResource returns recent sync runs.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	limit, ok := extractHistoryLimit(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	entries := []historyEntry{}
	if s.ports.Sync != nil {
		runs, err := s.ports.Sync.History(ctx, limit)
		if err != nil {
			return nil, fmt.Errorf("listing sync history: %w", err)
		}
		for i := range runs {
			entries = append(entries, historyEntry{
				ID:        runs[i].ID,
				Trigger:   runs[i].Trigger,
				StartedAt: runs[i].StartedAt.UTC().Format(time.RFC3339),
				Success:   runs[i].Success,
				Error:     runs[i].Error,
				Documents: runs[i].Documents,
				Passages:  runs[i].Passages,
			})
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling sync history: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractHistoryLimit parses URIs like noticeagent://sync/history or
// noticeagent://sync/history/{limit}.
func extractHistoryLimit(uri string) (int, bool) {
	const prefix = uriScheme + "sync/history"

	if !strings.HasPrefix(uri, prefix) {
		return 0, false
	}

	rest := strings.TrimPrefix(uri, prefix)
	if rest == "" {
		return defaultHistoryLimit, true
	}

	n, err := strconv.Atoi(strings.TrimPrefix(rest, "/"))
	if err != nil || n <= 0 || !strings.HasPrefix(rest, "/") {
		return 0, false
	}
	return n, true
}
