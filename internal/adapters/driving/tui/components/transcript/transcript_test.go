package transcript

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusnotice/noticeagent/internal/core/domain"
)

func TestTranscript_Empty(t *testing.T) {
	tr := New(nil)

	assert.Empty(t, tr.Entries())
	assert.Contains(t, tr.View(), "Ask a question")
}

func TestTranscript_AddAnswer_DistinctSources(t *testing.T) {
	tr := New(nil)
	tr.SetSize(100, 20)

	tr.AddAnswer(domain.Answer{
		Text:    "Exams start on March 3.",
		Outcome: domain.OutcomeAnswered,
		Sources: []domain.Passage{
			{Origin: "data/exam.pdf", SourceType: domain.SourceTypeOfficialNotice},
			{Origin: "data/exam.pdf", SourceType: domain.SourceTypeOfficialNotice},
			{Origin: "data/exam_update.md", SourceType: domain.SourceTypeDynamicUpdate},
		},
	})

	entries := tr.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, KindAnswer, entries[0].Kind)
	assert.Equal(t, []Source{
		{Origin: "data/exam.pdf", SourceType: domain.SourceTypeOfficialNotice},
		{Origin: "data/exam_update.md", SourceType: domain.SourceTypeDynamicUpdate},
	}, entries[0].Sources)

	view := tr.View()
	assert.Contains(t, view, "Exams start on March 3.")
	assert.Equal(t, 1, strings.Count(view, "data/exam.pdf"))
}

func TestTranscript_ErrorOutcome(t *testing.T) {
	tr := New(nil)

	tr.AddAnswer(domain.Answer{Text: "Error communicating with Groq: boom", Outcome: domain.OutcomeError})

	require.Len(t, tr.Entries(), 1)
	assert.Equal(t, KindError, tr.Entries()[0].Kind)
}

func TestTranscript_Clear(t *testing.T) {
	tr := New(nil)
	tr.Add(Entry{Kind: KindQuestion, Text: "hello"})

	tr.Clear()

	assert.Empty(t, tr.Entries())
	assert.Contains(t, tr.View(), "Ask a question")
}
