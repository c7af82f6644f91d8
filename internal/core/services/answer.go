package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/campusnotice/noticeagent/internal/core/domain"
	"github.com/campusnotice/noticeagent/internal/core/ports/driven"
	"github.com/campusnotice/noticeagent/internal/core/ports/driving"
	"github.com/campusnotice/noticeagent/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// AnswerConfig configures answer synthesis.
type AnswerConfig struct {
	// Institution and DefaultYear are substituted into the prompt.
	Institution string
	DefaultYear int

	// Service names the completion service in error messages, e.g. "Groq".
	Service string

	// Timeout bounds the completion call. Zero means no bound.
	Timeout time.Duration

	// Unavailable explains why no completion service could be created.
	// Only consulted when the LLM is nil.
	Unavailable error
}

// AnswerService answers questions from retrieved context with one
// completion call. It never returns an error; failures become answer text.
type AnswerService struct {
	retrieval driving.RetrievalService
	llm       driven.LLMService
	prompts   driven.PromptStore
	config    AnswerConfig
}

// NewAnswerService creates an answer service. llm and prompts may be nil.
func NewAnswerService(
	retrieval driving.RetrievalService,
	llm driven.LLMService,
	prompts driven.PromptStore,
	config AnswerConfig,
) *AnswerService {
	if config.Service == "" {
		config.Service = "the completion service"
	}
	return &AnswerService{
		retrieval: retrieval,
		llm:       llm,
		prompts:   prompts,
		config:    config,
	}
}

// promptData holds the fields available to the answer template.
type promptData struct {
	Institution string
	DefaultYear int
	Context     string
	Question    string
}

// Answer retrieves context for question and asks the completion service.
func (s *AnswerService) Answer(ctx context.Context, question string) domain.Answer {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.Answer{
			Text:    domain.EmptyQuestionAnswer,
			Outcome: domain.OutcomeInvalid,
			Err:     domain.ErrInvalidInput,
		}
	}

	assembled, err := s.retrieval.AssembleContext(ctx, question, 0)
	if err != nil {
		if errors.Is(err, domain.ErrNoContext) {
			return domain.Answer{
				Text:    domain.NoContextAnswer,
				Outcome: domain.OutcomeNoContext,
				Err:     err,
			}
		}
		logger.Error("Retrieve context: %v", err)
		return domain.Answer{
			Text:    fmt.Sprintf("Error retrieving context: %v", err),
			Outcome: domain.OutcomeError,
			Err:     err,
		}
	}

	sources := make([]domain.Passage, len(assembled.Hits))
	for i := range assembled.Hits {
		sources[i] = assembled.Hits[i].Passage
	}

	if s.llm == nil {
		err := domain.ErrLLMUnavailable
		if s.config.Unavailable != nil {
			err = s.config.Unavailable
		}
		return s.failure(err, sources)
	}

	prompt, err := s.buildPrompt(question, assembled.Text)
	if err != nil {
		return s.failure(err, sources)
	}

	callCtx := ctx
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	text, err := s.llm.Generate(callCtx, prompt, driven.GenerateOptions{
		Temperature: driven.Float64(0),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %w", domain.ErrAnswerTimeout, err)
		} else {
			err = fmt.Errorf("%w: %w", domain.ErrCompletionService, err)
		}
		return s.failure(err, sources)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		text = domain.FallbackAnswer
	}

	return domain.Answer{
		Text:    text,
		Outcome: domain.OutcomeAnswered,
		Sources: sources,
	}
}

// failure renders err as the answer text.
func (s *AnswerService) failure(err error, sources []domain.Passage) domain.Answer {
	logger.Error("Answer failed: %v", err)
	return domain.Answer{
		Text:    fmt.Sprintf("Error communicating with %s: %v", s.config.Service, err),
		Outcome: domain.OutcomeError,
		Sources: sources,
		Err:     err,
	}
}

// buildPrompt renders the answer template. A stored template that fails
// to parse is replaced by the built-in one.
func (s *AnswerService) buildPrompt(question, contextText string) (string, error) {
	data := promptData{
		Institution: s.config.Institution,
		DefaultYear: s.config.DefaultYear,
		Context:     contextText,
		Question:    question,
	}

	text := s.loadTemplate()
	out, err := renderPrompt(text, data)
	if err != nil && text != domain.DefaultAnswerPrompt {
		logger.Warn("Answer prompt template invalid, using built-in: %v", err)
		out, err = renderPrompt(domain.DefaultAnswerPrompt, data)
	}
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return out, nil
}

func (s *AnswerService) loadTemplate() string {
	if s.prompts == nil {
		return domain.DefaultAnswerPrompt
	}
	text, err := s.prompts.Load(driven.PromptAnswer)
	if err != nil || strings.TrimSpace(text) == "" {
		if err != nil {
			logger.Warn("Load answer prompt: %v", err)
		}
		return domain.DefaultAnswerPrompt
	}
	return text
}

func renderPrompt(text string, data promptData) (string, error) {
	tmpl, err := template.New(driven.PromptAnswer).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
