package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSubjectRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

type SubjectResponse struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type SubjectFileResponse struct {
	FileName       string     `json:"file_name"`
	ChunkCount     int64      `json:"chunk_count"`
	MaxPage        *int       `json:"max_page,omitempty"`
	LastIngestedAt *time.Time `json:"last_ingested_at,omitempty"`
}
