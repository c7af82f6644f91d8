// Package mcp provides an MCP (Model Context Protocol) server adapter.
// It lets AI assistants ask questions about campus notices, trigger a
// re-index and inspect the engine status.
package mcp

import "errors"

// ErrMissingAnswerService is returned when the answer service is not provided.
var ErrMissingAnswerService = errors.New("mcp: answer service is required")

// errSyncNotConfigured is returned by the sync tool when no orchestrator is wired.
var errSyncNotConfigured = errors.New("mcp: sync is not configured")
