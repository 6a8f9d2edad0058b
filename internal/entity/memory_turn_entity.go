package entity

import (
	"time"

	"github.com/google/uuid"
)

// MemoryTurn is one question/answer pair in a thread's history.
// Turns are append-only: the pipeline never edits or deletes them.
type MemoryTurn struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ThreadId  string    `gorm:"index"`
	Question  string
	Answer    string
	Evidence  []string
	Citations []Citation
	CreatedAt time.Time
}

// Citation points at the source of a quoted passage.
type Citation struct {
	FileName string `json:"fileName"`
	Page     int    `json:"page"`
}
