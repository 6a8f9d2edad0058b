package entity

import (
	"time"

	"github.com/google/uuid"
)

// Subject is a user-defined scope partitioning notes and retrieval.
type Subject struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string
	UserId    uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

// SubjectFile is an aggregate over the chunks of one ingested file.
type SubjectFile struct {
	FileName       string
	ChunkCount     int64
	MaxPage        *int
	LastIngestedAt *time.Time
}
