package retrieval

import (
	"context"

	"github.com/google/uuid"

	"github.com/Divyapahuja31/ASKMYNOTES/internal/entity"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/repository/contract"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag/cragerr"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/embedding"
)

// Retriever performs subject-scoped nearest-neighbor lookup: the question is
// embedded and matched against the vector index, restricted to chunks that
// belong to the requested subject.
type Retriever struct {
	embedder embedding.Provider
	chunks   contract.NoteChunkRepository
	topK     int
}

func NewRetriever(embedder embedding.Provider, chunks contract.NoteChunkRepository, topK int) *Retriever {
	if topK <= 0 {
		topK = 8
	}
	return &Retriever{
		embedder: embedder,
		chunks:   chunks,
		topK:     topK,
	}
}

// Retrieve returns up to topK chunks scored by embedding similarity.
// Index failures propagate as RetrievalFailure with no retry.
func (r *Retriever) Retrieve(ctx context.Context, subjectId uuid.UUID, question string) ([]*entity.ScoredChunk, error) {
	queryVector, err := r.embedder.Embed(ctx, question, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, cragerr.Retrieval(err)
	}

	scored, err := r.chunks.SearchSimilar(ctx, subjectId, queryVector, r.topK)
	if err != nil {
		return nil, cragerr.Retrieval(err)
	}

	return scored, nil
}
