// Package pgvector provides a vector index stored in PostgreSQL with the pgvector extension.
package pgvector

import (
	"github.com/pgvector/pgvector-go"

	"github.com/campusnotice/noticeagent/internal/core/domain"
)

// passageRow is one indexed passage. Seq preserves insertion order for tie-breaking.
type passageRow struct {
	Seq         int64           `gorm:"primaryKey;autoIncrement:false"`
	PassageID   string          `gorm:"type:text;not null;index"`
	DocumentID  string          `gorm:"type:text;not null"`
	Origin      string          `gorm:"type:text;not null"`
	SourceType  string          `gorm:"type:text;not null"`
	Position    int             `gorm:"not null"`
	StartOffset int             `gorm:"not null"`
	EndOffset   int             `gorm:"not null"`
	Content     string          `gorm:"type:text;not null"`
	Embedding   pgvector.Vector `gorm:"type:vector;not null"`
}

func (passageRow) TableName() string {
	return "notice_passages"
}

// scoredRow is a search result row.
type scoredRow struct {
	passageRow
	Score float64
}

func toRow(seq int, e domain.IndexEntry) passageRow {
	p := e.Passage
	return passageRow{
		Seq:         int64(seq),
		PassageID:   p.ID,
		DocumentID:  p.DocumentID,
		Origin:      p.Origin,
		SourceType:  string(p.SourceType),
		Position:    p.Position,
		StartOffset: p.Start,
		EndOffset:   p.End,
		Content:     p.Content,
		Embedding:   pgvector.NewVector(e.Vector),
	}
}

func (r passageRow) toPassage() domain.Passage {
	return domain.Passage{
		ID:         r.PassageID,
		DocumentID: r.DocumentID,
		Origin:     r.Origin,
		SourceType: domain.SourceType(r.SourceType),
		Content:    r.Content,
		Position:   r.Position,
		Start:      r.StartOffset,
		End:        r.EndOffset,
	}
}
