// Package markdown normalises markdown updates into plain text.
package markdown

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/campusnotice/noticeagent/internal/core/domain"
	"github.com/campusnotice/noticeagent/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

var (
	codeFence    = regexp.MustCompile("(?s)```.*?```")
	inlineCode   = regexp.MustCompile("`([^`]+)`")
	image        = regexp.MustCompile(`!\[([^\]]*)\]\([^)]+\)`)
	link         = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	heading      = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	emphasis     = regexp.MustCompile(`(\*\*|__|\*|_)([^*_\n]+)(\*\*|__|\*|_)`)
	blockquote   = regexp.MustCompile(`(?m)^>\s?`)
	rule         = regexp.MustCompile(`(?m)^\s*([-*_]\s*){3,}$`)
	bullet       = regexp.MustCompile(`(?m)^(\s*)[-*+]\s+`)
	manyNewlines = regexp.MustCompile(`\n{3,}`)
)

// Normaliser handles Markdown documents.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Higher than plaintext
}

// Normalise converts a markdown document to plain text. Numbered list
// markers are kept because notices often refer to numbered items.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	source := strings.ReplaceAll(string(raw.Content), "\r\n", "\n")

	doc := domain.Document{
		ID:         uuid.NewSHA1(uuid.NameSpaceURL, []byte(raw.Origin)).String(),
		Origin:     raw.Origin,
		SourceType: raw.SourceType,
		Title:      extractTitle(source, raw.Origin),
		Content:    stripMarkdown(source),
		Metadata:   copyMetadata(raw.Metadata),
	}
	if doc.Metadata == nil {
		doc.Metadata = make(map[string]any)
	}
	doc.Metadata["mime_type"] = raw.MIMEType
	doc.Metadata["format"] = "markdown"

	return &driven.NormaliseResult{Document: doc}, nil
}

// extractTitle uses the first H1 heading or falls back to the filename.
func extractTitle(content, origin string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}

	filename := filepath.Base(origin)
	filename = strings.TrimSuffix(filename, filepath.Ext(filename))
	filename = strings.ReplaceAll(filename, "_", " ")
	return strings.ReplaceAll(filename, "-", " ")
}

// stripMarkdown removes markdown syntax, keeping the readable text.
func stripMarkdown(content string) string {
	content = codeFence.ReplaceAllStringFunc(content, func(block string) string {
		return strings.Trim(strings.TrimPrefix(block, "```"), "`\n")
	})
	content = inlineCode.ReplaceAllString(content, "$1")
	content = image.ReplaceAllString(content, "$1")
	content = link.ReplaceAllString(content, "$1")
	content = rule.ReplaceAllString(content, "")
	content = heading.ReplaceAllString(content, "")
	content = emphasis.ReplaceAllString(content, "$2")
	content = blockquote.ReplaceAllString(content, "")
	content = bullet.ReplaceAllString(content, "$1")
	content = manyNewlines.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}

// copyMetadata creates a shallow copy of metadata.
func copyMetadata(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
