package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type NoteChunk struct {
	Id         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SubjectId  uuid.UUID       `gorm:"type:uuid;not null;index"`
	FileName   string          `gorm:"type:varchar(255);not null"`
	Page       int             `gorm:"default:0"`
	ChunkIndex int             `gorm:"default:0"` // 0-based index for ordering
	Text       string          `gorm:"type:text"`
	Embedding  pgvector.Vector `gorm:"type:vector(768)"` // Gemini text-embedding-004 uses 768 dimensions
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
	DeletedAt  gorm.DeletedAt  `gorm:"index"`
}

func (NoteChunk) TableName() string {
	return "note_chunks"
}
