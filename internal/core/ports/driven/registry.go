package driven

import (
	"context"

	"github.com/campusnotice/noticeagent/internal/core/domain"
)

// NormaliserRegistry routes each raw notice file to the normaliser that
// claims its MIME type. When several claim it, the highest Priority wins.
type NormaliserRegistry interface {
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
	Register(normaliser Normaliser)

	// SupportedMIMETypes is the union over registered normalisers.
	SupportedMIMETypes() []string
}
