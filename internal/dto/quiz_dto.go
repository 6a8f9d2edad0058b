package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/Divyapahuja31/ASKMYNOTES/internal/entity"
)

type GenerateQuizRequest struct {
	SubjectId   string `json:"subjectId" validate:"required,uuid"`
	SubjectName string `json:"subjectName" validate:"omitempty,min=1"`
}

type QuizResponse struct {
	Id        uuid.UUID             `json:"id"`
	SubjectId uuid.UUID             `json:"subject_id"`
	Quiz      *entity.GeneratedQuiz `json:"quiz"`
	CreatedAt time.Time             `json:"created_at"`
}
