package retrieval

import (
	"sort"
	"strings"

	"github.com/Divyapahuja31/ASKMYNOTES/internal/entity"
)

// Reranker rescores retrieved candidates with a lexical-overlap heuristic
// and truncates to topN. It is a pure function over its inputs: the caller's
// slice is never mutated and ties keep the original retrieval order.
type Reranker struct {
	topN int
}

func NewReranker(topN int) *Reranker {
	if topN <= 0 {
		topN = 5
	}
	return &Reranker{topN: topN}
}

// Rerank blends the retrieval score with term overlap between the question
// and each chunk. The retrieval score dominates; overlap acts as a
// tie-breaking nudge so chunks that literally mention the question's terms
// rise above paraphrases with similar embeddings.
func (r *Reranker) Rerank(question string, chunks []*entity.ScoredChunk) []*entity.ScoredChunk {
	if len(chunks) == 0 {
		return nil
	}

	queryTerms := tokenize(question)

	rescored := make([]*entity.ScoredChunk, len(chunks))
	for i, c := range chunks {
		overlap := termOverlap(queryTerms, c.Chunk.Text)
		rescored[i] = &entity.ScoredChunk{
			Chunk: c.Chunk,
			Score: 0.8*c.Score + 0.2*overlap,
		}
	}

	sort.SliceStable(rescored, func(i, j int) bool {
		return rescored[i].Score > rescored[j].Score
	})

	if len(rescored) > r.topN {
		rescored = rescored[:r.topN]
	}
	return rescored
}

func tokenize(text string) map[string]struct{} {
	terms := make(map[string]struct{})
	for _, f := range strings.Fields(strings.ToLower(text)) {
		f = strings.Trim(f, ".,;:!?\"'()[]{}")
		if len(f) < 3 {
			continue
		}
		terms[f] = struct{}{}
	}
	return terms
}

// termOverlap returns the fraction of query terms that appear in the chunk
// text, in [0, 1]. An empty query contributes nothing.
func termOverlap(queryTerms map[string]struct{}, text string) float64 {
	if len(queryTerms) == 0 {
		return 0
	}
	chunkTerms := tokenize(text)
	matched := 0
	for term := range queryTerms {
		if _, ok := chunkTerms[term]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(queryTerms))
}
