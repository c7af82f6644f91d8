package httpapi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/campusnotice/noticeagent/internal/core/domain"
	"github.com/campusnotice/noticeagent/internal/logger"
)

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Question string `json:"question"`
}

// ChatResponse is the reply to POST /chat.
type ChatResponse struct {
	Answer string `json:"answer"`
}

// SyncResponse is the reply to /sync.
type SyncResponse struct {
	Status  string `json:"status"`
	Count   *int   `json:"count,omitempty"`
	Message string `json:"message"`
}

// StatusResponse is the reply to GET /status.
type StatusResponse struct {
	Status   string `json:"status"`
	Engine   string `json:"engine"`
	Indexed  bool   `json:"indexed"`
	Passages int    `json:"passages"`
}

// errorResponse is returned for malformed requests.
type errorResponse struct {
	Error string `json:"error"`
}

const (
	statusSuccess = "success"
	statusError   = "error"
	statusOnline  = "online"
)

func (s *Server) handleChat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid request body"})
	}

	answer := s.ports.Answer.Answer(c.UserContext(), req.Question)
	if answer.Outcome == domain.OutcomeError {
		logger.Warn("chat: %v", answer.Err)
	}
	return c.JSON(ChatResponse{Answer: answer.Text})
}

func (s *Server) handleSync(c *fiber.Ctx) error {
	if s.ports.Sync == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(SyncResponse{
			Status:  statusError,
			Message: "Sync is not available.",
		})
	}

	result, err := s.ports.Sync.Sync(c.UserContext(), domain.TriggerHTTP)
	if err != nil {
		return c.Status(syncErrorStatus(err)).JSON(SyncResponse{
			Status:  statusError,
			Message: syncErrorMessage(err),
		})
	}

	count := result.Passages
	return c.JSON(SyncResponse{
		Status: statusSuccess,
		Count:  &count,
		Message: fmt.Sprintf("Re-indexed data folder successfully (%d official notices, %d updates).",
			result.OfficialNotices, result.DynamicUpdates),
	})
}

// syncErrorStatus maps a sync failure to an HTTP status. An empty data
// directory is an expected outcome and is reported in the body only.
func syncErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNoDocumentsFound):
		return fiber.StatusOK
	case errors.Is(err, domain.ErrSyncInProgress):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func syncErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoDocumentsFound):
		return "Failed to sync. Ensure the data folder contains PDF or text files."
	case errors.Is(err, domain.ErrSyncInProgress):
		return "A sync is already running. Try again shortly."
	default:
		return "Failed to sync: " + err.Error()
	}
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	resp := StatusResponse{
		Status: statusOnline,
		Engine: s.cfg.Engine,
	}
	if s.ports.Status == nil {
		return c.JSON(resp)
	}

	status, err := s.ports.Status.Status(c.UserContext())
	if err != nil {
		logger.Warn("status: %v", err)
		return c.JSON(resp)
	}
	if strings.TrimSpace(status.Engine) != "" {
		resp.Engine = status.Engine
	}
	resp.Indexed = status.Indexed()
	resp.Passages = status.Index.Entries
	return c.JSON(resp)
}
