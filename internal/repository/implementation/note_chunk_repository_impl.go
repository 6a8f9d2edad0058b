package implementation

import (
	"context"

	"github.com/Divyapahuja31/ASKMYNOTES/internal/entity"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/mapper"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/model"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/repository/contract"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type NoteChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NoteChunkMapper
}

func NewNoteChunkRepository(db *gorm.DB) contract.NoteChunkRepository {
	return &NoteChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewNoteChunkMapper(),
	}
}

func (r *NoteChunkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *NoteChunkRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NoteChunk, error) {
	var models []*model.NoteChunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *NoteChunkRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.NoteChunk{}).Count(&count).Error
	return count, err
}

// SearchSimilar orders by pgvector cosine distance and converts to a
// similarity score. The subject filter is applied in SQL so a chunk from
// another subject can never appear in the result set.
func (r *NoteChunkRepositoryImpl) SearchSimilar(ctx context.Context, subjectId uuid.UUID, embedding []float32, limit int) ([]*entity.ScoredChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	// Cosine distance in pgvector is 1 - cosine_similarity,
	// so 1 - (embedding <=> query_vector) = cosine_similarity.
	type result struct {
		model.NoteChunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("note_chunks").
		Select("note_chunks.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Where("subject_id = ?", subjectId).
		Where("deleted_at IS NULL").
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*entity.ScoredChunk, len(results))
	for i, res := range results {
		scored[i] = &entity.ScoredChunk{
			Chunk: r.mapper.ToEntity(&res.NoteChunk),
			Score: res.Similarity,
		}
	}
	return scored, nil
}

func (r *NoteChunkRepositoryImpl) SampleRandom(ctx context.Context, subjectId uuid.UUID, limit int) ([]*entity.NoteChunk, error) {
	if limit <= 0 {
		limit = 15
	}
	var models []*model.NoteChunk
	err := r.db.WithContext(ctx).
		Where("subject_id = ?", subjectId).
		Order("RANDOM()").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
