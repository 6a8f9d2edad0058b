package entity

import (
	"time"

	"github.com/google/uuid"
)

// GeneratedQuiz is the validated output of one quiz generation run.
type GeneratedQuiz struct {
	Mcqs         []QuizMCQ         `json:"mcqs"`
	ShortAnswers []QuizShortAnswer `json:"shortAnswers"`
}

type QuizMCQ struct {
	Id           string   `json:"id"`
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation"`
	Citation     string   `json:"citation"`
}

type QuizShortAnswer struct {
	Id          string `json:"id"`
	Question    string `json:"question"`
	ModelAnswer string `json:"modelAnswer"`
	Citation    string `json:"citation"`
}

// Quiz is a persisted generation run for later review.
type Quiz struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	SubjectId uuid.UUID `gorm:"type:uuid;index"`
	UserId    uuid.UUID `gorm:"type:uuid;index"`
	Payload   *GeneratedQuiz
	CreatedAt time.Time
}
