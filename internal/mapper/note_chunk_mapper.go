package mapper

import (
	"github.com/Divyapahuja31/ASKMYNOTES/internal/entity"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/model"
)

type NoteChunkMapper struct{}

func NewNoteChunkMapper() *NoteChunkMapper {
	return &NoteChunkMapper{}
}

func (m *NoteChunkMapper) ToEntity(c *model.NoteChunk) *entity.NoteChunk {
	if c == nil {
		return nil
	}

	return &entity.NoteChunk{
		Id:         c.Id,
		SubjectId:  c.SubjectId,
		FileName:   c.FileName,
		Page:       c.Page,
		ChunkIndex: c.ChunkIndex,
		Text:       c.Text,
		CreatedAt:  c.CreatedAt,
	}
}

func (m *NoteChunkMapper) ToEntities(chunks []*model.NoteChunk) []*entity.NoteChunk {
	entities := make([]*entity.NoteChunk, len(chunks))
	for i, c := range chunks {
		entities[i] = m.ToEntity(c)
	}
	return entities
}
