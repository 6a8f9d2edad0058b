package model

import (
	"time"

	"github.com/google/uuid"
)

type UsageRecord struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     uuid.UUID `gorm:"type:uuid;not null;index"`
	SubjectId  uuid.UUID `gorm:"type:uuid;not null;index"`
	ThreadId   string    `gorm:"type:varchar(128)"`
	NotFound   bool      `gorm:"default:false"`
	DurationMs int64     `gorm:"default:0"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (UsageRecord) TableName() string {
	return "usage_records"
}
