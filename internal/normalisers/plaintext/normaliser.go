// Package plaintext normalises plain text updates.
package plaintext

import (
	"context"
	"maps"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/campusnotice/noticeagent/internal/core/domain"
	"github.com/campusnotice/noticeagent/internal/core/ports/driven"
)

var _ driven.Normaliser = (*Normaliser)(nil)

// fallbackPriority puts this normaliser behind any format-specific one.
const fallbackPriority = 5

var (
	lineEndings   = strings.NewReplacer("\r\n", "\n", "\r", "\n")
	nameSeparator = strings.NewReplacer("_", " ", "-", " ")
)

// Normaliser turns .txt updates into documents. It also serves as the
// fallback for markdown when no markdown normaliser is registered.
type Normaliser struct{}

// New returns a plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/plain", "text/markdown"}
}

func (n *Normaliser) Priority() int {
	return fallbackPriority
}

// Normalise decodes raw as UTF-8 text. Invalid byte sequences and a
// leading byte order mark are dropped, and every line ending becomes \n.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	meta := maps.Clone(raw.Metadata)
	if meta == nil {
		meta = map[string]any{}
	}
	meta["mime_type"] = raw.MIMEType

	return &driven.NormaliseResult{Document: domain.Document{
		ID:         uuid.NewSHA1(uuid.NameSpaceURL, []byte(raw.Origin)).String(),
		Origin:     raw.Origin,
		SourceType: raw.SourceType,
		Title:      title(raw),
		Content:    clean(raw.Content),
		Metadata:   meta,
	}}, nil
}

func clean(b []byte) string {
	text := strings.ToValidUTF8(string(b), "")
	text = strings.TrimPrefix(text, "\uFEFF")
	return lineEndings.Replace(text)
}

// title prefers an explicit metadata title, then the file name with
// separators turned into spaces.
func title(raw *domain.RawDocument) string {
	if t, _ := raw.Metadata["title"].(string); t != "" {
		return t
	}
	name := filepath.Base(raw.Origin)
	return nameSeparator.Replace(strings.TrimSuffix(name, filepath.Ext(name)))
}
