package contract

import (
	"context"

	"github.com/Divyapahuja31/ASKMYNOTES/internal/entity"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/repository/specification"

	"github.com/google/uuid"
)

type NoteChunkRepository interface {
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NoteChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// SearchSimilar runs a cosine-similarity query over the subject's
	// chunks, best first. Scores are cosine similarities in [0, 1].
	SearchSimilar(ctx context.Context, subjectId uuid.UUID, embedding []float32, limit int) ([]*entity.ScoredChunk, error)

	// SampleRandom returns up to limit chunks of the subject in random
	// order, for quiz generation.
	SampleRandom(ctx context.Context, subjectId uuid.UUID, limit int) ([]*entity.NoteChunk, error)
}
