// Package chunker provides a recursive, overlap-preserving text chunking processor.
//
// Content is cut into spans of at most chunkSize runes. Each cut is placed at
// the strongest boundary available in the window: a paragraph break, then a
// line break, then a sentence end, then any whitespace, and finally a raw
// rune offset. Every span after the first starts exactly overlap runes before
// the previous span's end, so concatenating the spans with the overlaps
// removed reproduces the original text.
package chunker

import (
	"context"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/campusnotice/noticeagent/internal/core/domain"
)

// DefaultChunkSize is the default number of runes per chunk.
const DefaultChunkSize = 1000

// Name identifies the chunker in pipeline configuration.
const Name = "chunker"

// DefaultChunkOverlap is the default number of overlapping runes.
const DefaultChunkOverlap = 100

// passageNamespace scopes passage IDs so they are stable across syncs.
var passageNamespace = uuid.MustParse("6f1c2b8e-3d4a-5e6f-8a9b-0c1d2e3f4a5b")

// Processor splits document content into bounded, overlapping passages.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in runes.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in runes.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return Name
}

// ChunkSize returns the configured maximum passage length.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured overlap.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Process splits the document content into passages.
// Input passages are ignored; this processor creates new passages from document content.
func (p *Processor) Process(ctx context.Context, doc *domain.Document, _ []domain.Passage) ([]domain.Passage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if doc.IsEmpty() {
		return nil, nil
	}

	runes := []rune(doc.Content)
	spans := p.split(runes)

	passages := make([]domain.Passage, 0, len(spans))
	for i, s := range spans {
		passages = append(passages, domain.Passage{
			ID:         PassageID(doc.Origin, i),
			DocumentID: doc.ID,
			Origin:     doc.Origin,
			SourceType: doc.SourceType,
			Content:    string(runes[s.start:s.end]),
			Position:   i,
			Start:      s.start,
			End:        s.end,
		})
	}

	return passages, nil
}

// PassageID returns the deterministic ID of the passage at position
// within the document read from origin.
func PassageID(origin string, position int) string {
	return uuid.NewSHA1(passageNamespace, []byte(origin+"#"+strconv.Itoa(position))).String()
}

type span struct {
	start, end int
}

// split computes passage spans over runes.
func (p *Processor) split(runes []rune) []span {
	n := len(runes)
	var spans []span

	start := 0
	for {
		if start+p.chunkSize >= n {
			spans = append(spans, span{start, n})
			return spans
		}

		end := p.cut(runes, start)
		spans = append(spans, span{start, end})
		start = end - p.overlap
	}
}

// cut returns the end offset for the chunk beginning at start. The cut
// lies in (start+overlap, start+chunkSize] so the next chunk, which
// begins overlap runes before it, always makes progress.
func (p *Processor) cut(runes []rune, start int) int {
	lo := start + p.overlap + 1
	hi := start + p.chunkSize

	for _, boundary := range boundaries {
		for e := hi; e >= lo; e-- {
			if boundary(runes, e) {
				return e
			}
		}
	}
	return hi
}

// boundary reports whether a chunk may end at offset e (exclusive).
type boundary func(runes []rune, e int) bool

// boundaries are tried in order of preference.
var boundaries = []boundary{
	paragraphBoundary,
	lineBoundary,
	sentenceBoundary,
	whitespaceBoundary,
}

func paragraphBoundary(runes []rune, e int) bool {
	return e >= 2 && runes[e-1] == '\n' && runes[e-2] == '\n'
}

func lineBoundary(runes []rune, e int) bool {
	return e >= 1 && runes[e-1] == '\n'
}

func sentenceBoundary(runes []rune, e int) bool {
	if e < 1 || e >= len(runes) {
		return false
	}
	return strings.ContainsRune(".!?", runes[e-1]) && unicode.IsSpace(runes[e])
}

func whitespaceBoundary(runes []rune, e int) bool {
	return e >= 1 && unicode.IsSpace(runes[e-1])
}
