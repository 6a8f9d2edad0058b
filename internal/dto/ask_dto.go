package dto

import "github.com/Divyapahuja31/ASKMYNOTES/internal/entity"

type AskRequest struct {
	Question    string `json:"question" validate:"required,min=1"`
	SubjectId   string `json:"subjectId" validate:"required,uuid"`
	ThreadId    string `json:"threadId" validate:"required,min=1"`
	SubjectName string `json:"subjectName" validate:"omitempty,min=1"`
}

type AskResponse struct {
	Answer     string            `json:"answer"`
	Confidence string            `json:"confidence"`
	Evidence   []string          `json:"evidence"`
	Citations  []entity.Citation `json:"citations"`
	NotFound   bool              `json:"notFound"`
}

// AskSocketRequest is the ask payload on the websocket channel. The
// optional requestId is echoed back on every event of the stream.
type AskSocketRequest struct {
	Question    string `json:"question" validate:"required,min=1"`
	SubjectId   string `json:"subjectId" validate:"required,uuid"`
	ThreadId    string `json:"threadId" validate:"required,min=1"`
	SubjectName string `json:"subjectName" validate:"omitempty,min=1"`
	RequestId   string `json:"requestId" validate:"omitempty,min=1"`
}
