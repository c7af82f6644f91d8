package pdf

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusnotice/noticeagent/internal/core/domain"
)

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error
	name   string
	args   []string
}

func (m *mockRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	m.name = name
	m.args = args
	return m.output, m.err
}

func TestSupportedMIMETypes(t *testing.T) {
	normaliser := New()
	assert.Equal(t, []string{"application/pdf"}, normaliser.SupportedMIMETypes())
	assert.Equal(t, 50, normaliser.Priority())
}

func TestNormalise_NilDocument(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_WithMockRunner(t *testing.T) {
	runner := &mockRunner{
		output: []byte("CIRCULAR No. 42   \n\nMid exams start on 10th March.\fPage two text.\n"),
	}
	normaliser := NewWithRunner(runner)

	raw := &domain.RawDocument{
		Origin:     "data/circular_42.pdf",
		MIMEType:   "application/pdf",
		SourceType: domain.SourceTypeOfficialNotice,
		Content:    []byte("%PDF-1.4 fake pdf content"),
		Metadata:   map[string]any{"size": 25},
	}

	result, err := normaliser.Normalise(context.Background(), raw)
	require.NoError(t, err)
	require.NotNil(t, result)

	doc := result.Document
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "data/circular_42.pdf", doc.Origin)
	assert.Equal(t, domain.SourceTypeOfficialNotice, doc.SourceType)
	assert.Equal(t, "CIRCULAR No. 42", doc.Title)
	assert.Equal(t, "CIRCULAR No. 42\n\nMid exams start on 10th March.\n\nPage two text.", doc.Content)
	assert.Equal(t, "application/pdf", doc.Metadata["mime_type"])
	assert.Equal(t, "pdf", doc.Metadata["format"])
	assert.Equal(t, 25, doc.Metadata["size"])

	assert.Equal(t, "pdftotext", runner.name)
	assert.Equal(t, "-", runner.args[len(runner.args)-1])
}

func TestNormalise_StableDocumentID(t *testing.T) {
	raw := &domain.RawDocument{Origin: "data/a.pdf", MIMEType: "application/pdf"}
	n := NewWithRunner(&mockRunner{output: []byte("text")})

	first, err := n.Normalise(context.Background(), raw)
	require.NoError(t, err)
	second, err := n.Normalise(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, first.Document.ID, second.Document.ID)
}

func TestNormalise_RunnerError(t *testing.T) {
	normaliser := NewWithRunner(&mockRunner{err: errors.New("pdftotext crashed")})

	raw := &domain.RawDocument{
		Origin:   "data/broken.pdf",
		MIMEType: "application/pdf",
		Content:  []byte("not a pdf"),
	}

	result, err := normaliser.Normalise(context.Background(), raw)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "pdftotext failed")
	assert.Nil(t, result)
}

func TestNormalise_ToolMissing(t *testing.T) {
	normaliser := NewWithRunner(&mockRunner{err: ErrPDFToolNotFound})

	_, err := normaliser.Normalise(context.Background(), &domain.RawDocument{Origin: "a.pdf"})
	assert.ErrorIs(t, err, ErrPDFToolNotFound)
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		origin   string
		expected string
	}{
		{"first line as title", "Document Title\n\nSome content here.", "/doc.pdf", "Document Title"},
		{"skip empty lines", "\n\n\nActual Title\nContent", "/doc.pdf", "Actual Title"},
		{"fallback to filename", "", "/path/to/exam_time-table.pdf", "exam time table"},
		{"skip very long first line", strings.Repeat("a", 250) + "\nShort Title\nContent", "/doc.pdf", "Short Title"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, extractTitle(tc.content, tc.origin))
		})
	}
}

func TestInstallInstructions(t *testing.T) {
	instructions := InstallInstructions()
	assert.Contains(t, instructions, "brew install poppler")
	assert.Contains(t, instructions, "apt install poppler-utils")
}

func TestErrPDFToolNotFound(t *testing.T) {
	assert.Contains(t, ErrPDFToolNotFound.Error(), "pdftotext")
}

func TestCopyMetadata(t *testing.T) {
	assert.Nil(t, copyMetadata(nil))

	src := map[string]any{"key": "value"}
	dst := copyMetadata(src)
	dst["key"] = "changed"
	assert.Equal(t, "value", src["key"])
}
