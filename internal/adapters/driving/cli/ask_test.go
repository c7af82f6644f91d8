package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusnotice/noticeagent/internal/core/domain"
)

func TestAskCmd_NotConfigured(t *testing.T) {
	useServices(t, &Services{})

	_, err := executeCommand(t, "", "ask", "when", "is", "the", "exam?")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "answer service not configured")
}

func TestAskCmd_RequiresQuestion(t *testing.T) {
	useServices(t, &Services{Answer: &mockAnswerService{}})

	_, err := executeCommand(t, "", "ask")

	require.Error(t, err)
}

func TestAskCmd_JoinsArgs(t *testing.T) {
	svc := &mockAnswerService{answer: domain.Answer{
		Text:    "The exam is on 12 March.",
		Outcome: domain.OutcomeAnswered,
	}}
	useServices(t, &Services{Answer: svc})

	out, err := executeCommand(t, "", "ask", "when", "is", "the", "exam?")

	require.NoError(t, err)
	assert.Equal(t, "when is the exam?", svc.question)
	assert.Contains(t, out, "The exam is on 12 March.")
	assert.NotContains(t, out, "Sources:")
}

func TestAskCmd_Sources(t *testing.T) {
	svc := &mockAnswerService{answer: domain.Answer{
		Text:    "Postponed to 14 March.",
		Outcome: domain.OutcomeAnswered,
		Sources: []domain.Passage{
			{Origin: "data/exam.pdf", SourceType: domain.SourceTypeOfficialNotice},
			{Origin: "data/update.txt", SourceType: domain.SourceTypeDynamicUpdate},
			{Origin: "data/exam.pdf", SourceType: domain.SourceTypeOfficialNotice},
		},
	}}
	useServices(t, &Services{Answer: svc})

	out, err := executeCommand(t, "", "ask", "--sources", "exam date")

	require.NoError(t, err)
	assert.Contains(t, out, "[OFFICIAL_NOTICE] data/exam.pdf")
	assert.Contains(t, out, "[DYNAMIC_UPDATE] data/update.txt")
	assert.Equal(t, 1, strings.Count(out, "data/exam.pdf"), "origins are listed once")
}

func TestAskCmd_NoContextIsNotAFailure(t *testing.T) {
	svc := &mockAnswerService{answer: domain.Answer{
		Text:    domain.NoContextAnswer,
		Outcome: domain.OutcomeNoContext,
		Err:     domain.ErrNoContext,
	}}
	useServices(t, &Services{Answer: svc})

	out, err := executeCommand(t, "", "ask", "anything")

	require.NoError(t, err)
	assert.Contains(t, out, domain.NoContextAnswer)
}

func TestAskCmd_ErrorOutcome(t *testing.T) {
	svc := &mockAnswerService{answer: domain.Answer{
		Text:    "Error generating response: timeout",
		Outcome: domain.OutcomeError,
		Err:     errors.New("timeout"),
	}}
	useServices(t, &Services{Answer: svc})

	out, err := executeCommand(t, "", "ask", "anything")

	assert.ErrorIs(t, err, errAnswerFailed)
	assert.Contains(t, out, "Error generating response: timeout")
}
