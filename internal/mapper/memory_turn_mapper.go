package mapper

import (
	"encoding/json"

	"github.com/Divyapahuja31/ASKMYNOTES/internal/entity"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/model"

	"gorm.io/datatypes"
)

type MemoryTurnMapper struct{}

func NewMemoryTurnMapper() *MemoryTurnMapper {
	return &MemoryTurnMapper{}
}

func (m *MemoryTurnMapper) ToEntity(t *model.MemoryTurn) *entity.MemoryTurn {
	if t == nil {
		return nil
	}

	var evidence []string
	if len(t.Evidence) > 0 {
		_ = json.Unmarshal(t.Evidence, &evidence)
	}

	var citations []entity.Citation
	if len(t.Citations) > 0 {
		_ = json.Unmarshal(t.Citations, &citations)
	}

	return &entity.MemoryTurn{
		Id:        t.Id,
		ThreadId:  t.ThreadId,
		Question:  t.Question,
		Answer:    t.Answer,
		Evidence:  evidence,
		Citations: citations,
		CreatedAt: t.CreatedAt,
	}
}

func (m *MemoryTurnMapper) ToModel(t *entity.MemoryTurn) *model.MemoryTurn {
	if t == nil {
		return nil
	}

	evidence, _ := json.Marshal(t.Evidence)
	citations, _ := json.Marshal(t.Citations)

	return &model.MemoryTurn{
		Id:        t.Id,
		ThreadId:  t.ThreadId,
		Question:  t.Question,
		Answer:    t.Answer,
		Evidence:  datatypes.JSON(evidence),
		Citations: datatypes.JSON(citations),
		CreatedAt: t.CreatedAt,
	}
}

func (m *MemoryTurnMapper) ToEntities(turns []*model.MemoryTurn) []*entity.MemoryTurn {
	entities := make([]*entity.MemoryTurn, len(turns))
	for i, t := range turns {
		entities[i] = m.ToEntity(t)
	}
	return entities
}
