package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Divyapahuja31/ASKMYNOTES/internal/entity"
)

func scored(text string, score float64) *entity.ScoredChunk {
	return &entity.ScoredChunk{
		Chunk: &entity.NoteChunk{Text: text},
		Score: score,
	}
}

func TestRerankTruncatesToTopN(t *testing.T) {
	r := NewReranker(2)
	chunks := []*entity.ScoredChunk{
		scored("alpha", 0.9),
		scored("beta", 0.8),
		scored("gamma", 0.7),
		scored("delta", 0.6),
	}

	got := r.Rerank("unrelated question", chunks)
	require.Len(t, got, 2)
	assert.Equal(t, "alpha", got[0].Chunk.Text)
	assert.Equal(t, "beta", got[1].Chunk.Text)
}

func TestRerankTiesKeepRetrievalOrder(t *testing.T) {
	r := NewReranker(5)
	chunks := []*entity.ScoredChunk{
		scored("first chunk", 0.5),
		scored("second chunk", 0.5),
		scored("third chunk", 0.5),
	}

	got := r.Rerank("zzz", chunks)
	require.Len(t, got, 3)
	assert.Equal(t, "first chunk", got[0].Chunk.Text)
	assert.Equal(t, "second chunk", got[1].Chunk.Text)
	assert.Equal(t, "third chunk", got[2].Chunk.Text)
}

func TestRerankLexicalOverlapPromotesLiteralMatch(t *testing.T) {
	r := NewReranker(5)
	chunks := []*entity.ScoredChunk{
		scored("passive transport of molecules", 0.80),
		scored("osmosis moves water across the membrane", 0.79),
	}

	got := r.Rerank("what is osmosis and how does water move across the membrane", chunks)
	require.Len(t, got, 2)
	assert.Equal(t, "osmosis moves water across the membrane", got[0].Chunk.Text)
}

func TestRerankDoesNotMutateInput(t *testing.T) {
	r := NewReranker(1)
	chunks := []*entity.ScoredChunk{
		scored("one", 0.1),
		scored("two", 0.9),
	}

	_ = r.Rerank("question", chunks)
	assert.Equal(t, "one", chunks[0].Chunk.Text)
	assert.InDelta(t, 0.1, chunks[0].Score, 1e-9)
	assert.Len(t, chunks, 2)
}

func TestRerankEmptyInput(t *testing.T) {
	r := NewReranker(5)
	assert.Nil(t, r.Rerank("anything", nil))
}
