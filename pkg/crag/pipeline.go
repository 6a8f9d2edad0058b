package crag

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Divyapahuja31/ASKMYNOTES/internal/entity"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/pkg/logger"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag/cragerr"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag/interpret"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag/memory"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag/prompt"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag/retrieval"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/llm"
)

type AskRequest struct {
	Question    string
	SubjectId   uuid.UUID
	ThreadId    string
	SubjectName string
}

type AskResponse struct {
	Answer     string            `json:"answer"`
	Confidence string            `json:"confidence"`
	Evidence   []string          `json:"evidence"`
	Citations  []entity.Citation `json:"citations"`
	NotFound   bool              `json:"notFound"`
}

type StreamEventType string

const (
	StreamEventChunk StreamEventType = "chunk"
	StreamEventFinal StreamEventType = "final"
	StreamEventError StreamEventType = "error"
)

// StreamEvent is one element of an askStream sequence: zero or more chunk
// events carrying deltas, then exactly one final event carrying the full
// response. An error event replaces the final event and ends the sequence.
type StreamEvent struct {
	Type     StreamEventType
	Delta    string
	Response *AskResponse
	Err      error
}

// Pipeline sequences retrieve, rerank, memory read, prompt assembly,
// generation and interpretation for one ask, and owns the not-found
// threshold decision.
type Pipeline struct {
	retriever *retrieval.Retriever
	reranker  *retrieval.Reranker
	memory    *memory.Store
	llm       llm.LLMProvider
	builder   *prompt.Builder
	log       logger.ILogger

	notFoundThreshold float64
}

func NewPipeline(
	retriever *retrieval.Retriever,
	reranker *retrieval.Reranker,
	memoryStore *memory.Store,
	provider llm.LLMProvider,
	log logger.ILogger,
	notFoundThreshold float64,
) *Pipeline {
	return &Pipeline{
		retriever:         retriever,
		reranker:          reranker,
		memory:            memoryStore,
		llm:               provider,
		builder:           prompt.NewBuilder(),
		log:               log,
		notFoundThreshold: notFoundThreshold,
	}
}

// prepared holds everything the generation stages need after the retrieval
// half of the pipeline has run.
type prepared struct {
	messages []llm.Message
	reranked []*entity.ScoredChunk
	topScore float64
}

func (p *Pipeline) prepare(ctx context.Context, req AskRequest) (*prepared, error) {
	retrieved, err := p.retriever.Retrieve(ctx, req.SubjectId, req.Question)
	if err != nil {
		return nil, err
	}

	reranked := p.reranker.Rerank(req.Question, retrieved)

	turns, err := p.memory.Read(ctx, req.ThreadId)
	if err != nil {
		return nil, cragerr.Retrieval(err)
	}

	messages := p.builder.Build(prompt.Input{
		SubjectName:  req.SubjectName,
		Question:     req.Question,
		Chunks:       reranked,
		ThreadMemory: turns,
	})

	topScore := 0.0
	if len(reranked) > 0 {
		topScore = reranked[0].Score
	}

	p.log.Debug("crag.pipeline", "prepared ask", map[string]interface{}{
		"subject_id": req.SubjectId.String(),
		"thread_id":  req.ThreadId,
		"retrieved":  len(retrieved),
		"reranked":   len(reranked),
		"top_score":  topScore,
	})

	return &prepared{
		messages: messages,
		reranked: reranked,
		topScore: topScore,
	}, nil
}

// finish interprets the terminal model text, applies the score threshold and
// writes the completed turn to memory. The threshold overrides a well-formed
// found answer when the best reranked score is too weak to trust.
func (p *Pipeline) finish(ctx context.Context, req AskRequest, prep *prepared, rawText string) (*AskResponse, error) {
	result, err := interpret.Interpret(rawText, req.SubjectName)
	if err != nil {
		return nil, err
	}

	notFound := result.NotFound
	if !notFound && prep.topScore < p.notFoundThreshold {
		p.log.Info("crag.pipeline", "score below threshold, overriding to not found", map[string]interface{}{
			"subject_id": req.SubjectId.String(),
			"top_score":  prep.topScore,
			"threshold":  p.notFoundThreshold,
		})
		notFound = true
	}

	var response *AskResponse
	if notFound {
		response = &AskResponse{
			Answer:     prompt.NotFoundSentinel(req.SubjectName),
			Confidence: string(interpret.ConfidenceLow),
			Evidence:   []string{},
			Citations:  []entity.Citation{},
			NotFound:   true,
		}
	} else {
		response = &AskResponse{
			Answer:     result.Answer,
			Confidence: string(result.Confidence),
			Evidence:   result.Evidence,
			Citations:  citationsFrom(prep.reranked),
			NotFound:   false,
		}
	}

	if err := p.memory.Append(ctx, req.ThreadId, req.Question, response.Answer, response.Evidence, response.Citations); err != nil {
		// the answer is already complete; losing one memory turn is
		// not worth failing the request
		p.log.Warn("crag.pipeline", "memory append failed", map[string]interface{}{
			"thread_id": req.ThreadId,
			"error":     err.Error(),
		})
	}

	return response, nil
}

// Ask runs the full pipeline once and returns a single response.
func (p *Pipeline) Ask(ctx context.Context, req AskRequest) (*AskResponse, error) {
	prep, err := p.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	rawText, err := p.llm.Chat(ctx, prep.messages)
	if err != nil {
		return nil, cragerr.Generation(err)
	}

	return p.finish(ctx, req, prep, rawText)
}

// AskStream runs the same stages but streams generation deltas to the caller
// as they arrive, in generation order, followed by exactly one final event.
// The returned channel is closed after the terminal event; the sequence is
// single-pass and not restartable.
func (p *Pipeline) AskStream(ctx context.Context, req AskRequest) <-chan StreamEvent {
	out := make(chan StreamEvent)

	go func() {
		defer close(out)

		prep, err := p.prepare(ctx, req)
		if err != nil {
			out <- StreamEvent{Type: StreamEventError, Err: err}
			return
		}

		deltas, err := p.llm.Stream(ctx, prep.messages)
		if err != nil {
			out <- StreamEvent{Type: StreamEventError, Err: cragerr.Generation(err)}
			return
		}

		var full strings.Builder
		for delta := range deltas {
			if delta.Err != nil {
				out <- StreamEvent{Type: StreamEventError, Err: cragerr.Generation(delta.Err)}
				return
			}
			full.WriteString(delta.Text)
			select {
			case out <- StreamEvent{Type: StreamEventChunk, Delta: delta.Text}:
			case <-ctx.Done():
				return
			}
		}

		response, err := p.finish(ctx, req, prep, full.String())
		if err != nil {
			out <- StreamEvent{Type: StreamEventError, Err: err}
			return
		}
		out <- StreamEvent{Type: StreamEventFinal, Response: response}
	}()

	return out
}

// citationsFrom deduplicates (fileName, page) pairs from the chunks that
// were in the prompt, preserving rank order.
func citationsFrom(chunks []*entity.ScoredChunk) []entity.Citation {
	seen := make(map[entity.Citation]struct{}, len(chunks))
	citations := make([]entity.Citation, 0, len(chunks))
	for _, sc := range chunks {
		c := entity.Citation{FileName: sc.Chunk.FileName, Page: sc.Chunk.Page}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		citations = append(citations, c)
	}
	return citations
}
