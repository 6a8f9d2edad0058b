package mapper

import (
	"encoding/json"

	"github.com/Divyapahuja31/ASKMYNOTES/internal/entity"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/model"

	"gorm.io/datatypes"
)

type QuizMapper struct{}

func NewQuizMapper() *QuizMapper {
	return &QuizMapper{}
}

func (m *QuizMapper) ToEntity(q *model.Quiz) *entity.Quiz {
	if q == nil {
		return nil
	}

	var payload *entity.GeneratedQuiz
	if len(q.Payload) > 0 {
		payload = &entity.GeneratedQuiz{}
		_ = json.Unmarshal(q.Payload, payload)
	}

	return &entity.Quiz{
		Id:        q.Id,
		SubjectId: q.SubjectId,
		UserId:    q.UserId,
		Payload:   payload,
		CreatedAt: q.CreatedAt,
	}
}

func (m *QuizMapper) ToModel(q *entity.Quiz) *model.Quiz {
	if q == nil {
		return nil
	}

	payload, _ := json.Marshal(q.Payload)

	return &model.Quiz{
		Id:        q.Id,
		SubjectId: q.SubjectId,
		UserId:    q.UserId,
		Payload:   datatypes.JSON(payload),
		CreatedAt: q.CreatedAt,
	}
}
