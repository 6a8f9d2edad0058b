package entity

import (
	"time"

	"github.com/google/uuid"
)

// UsageRecord is one completed ask, written by the usage consumer.
type UsageRecord struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId     uuid.UUID `gorm:"type:uuid;index"`
	SubjectId  uuid.UUID `gorm:"type:uuid;index"`
	ThreadId   string
	NotFound   bool
	DurationMs int64
	CreatedAt  time.Time
}
