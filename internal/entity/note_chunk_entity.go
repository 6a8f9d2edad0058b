package entity

import (
	"time"

	"github.com/google/uuid"
)

// NoteChunk is a retrievable unit of note text with its source metadata.
// Chunks are written by the external ingestion service; this backend only
// reads them.
type NoteChunk struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	SubjectId  uuid.UUID `gorm:"type:uuid;index"`
	FileName   string
	Page       int
	ChunkIndex int
	Text       string
	CreatedAt  time.Time
}

// ScoredChunk pairs a chunk with its similarity score for one query.
// Immutable once produced by the retriever.
type ScoredChunk struct {
	Chunk *NoteChunk
	Score float64
}
