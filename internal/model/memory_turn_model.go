package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type MemoryTurn struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ThreadId  string         `gorm:"type:varchar(128);not null;index"`
	Question  string         `gorm:"type:text;not null"`
	Answer    string         `gorm:"type:text;not null"`
	Evidence  datatypes.JSON `gorm:"type:jsonb"`
	Citations datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

func (MemoryTurn) TableName() string {
	return "memory_turns"
}
