package crag

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Divyapahuja31/ASKMYNOTES/internal/entity"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/repository/contract"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/repository/specification"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag/memory"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag/retrieval"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/llm"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	return []float32{0.1, 0.2, 0.3}, nil
}

type fakeChunkRepo struct {
	scored      []*entity.ScoredChunk
	searchedFor uuid.UUID
}

func (f *fakeChunkRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NoteChunk, error) {
	return nil, nil
}

func (f *fakeChunkRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(f.scored)), nil
}

func (f *fakeChunkRepo) SearchSimilar(ctx context.Context, subjectId uuid.UUID, embedding []float32, limit int) ([]*entity.ScoredChunk, error) {
	f.searchedFor = subjectId
	if len(f.scored) > limit {
		return f.scored[:limit], nil
	}
	return f.scored, nil
}

func (f *fakeChunkRepo) SampleRandom(ctx context.Context, subjectId uuid.UUID, limit int) ([]*entity.NoteChunk, error) {
	return nil, nil
}

type fakeMemoryRepo struct {
	turns    []*entity.MemoryTurn
	appended []*entity.MemoryTurn
}

func (f *fakeMemoryRepo) FindByThread(ctx context.Context, threadId string) ([]*entity.MemoryTurn, error) {
	return f.turns, nil
}

func (f *fakeMemoryRepo) Append(ctx context.Context, turn *entity.MemoryTurn) error {
	f.appended = append(f.appended, turn)
	return nil
}

type fakeLLM struct {
	chatResponse string
	chatErr      error
	deltas       []string
	streamErr    error
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return f.chatResponse, f.chatErr
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.chatResponse, f.chatErr
}

func (f *fakeLLM) Stream(ctx context.Context, history []llm.Message, options ...llm.Option) (<-chan llm.StreamDelta, error) {
	if f.streamErr != nil {
		return nil, f.streamErr
	}
	out := make(chan llm.StreamDelta)
	go func() {
		defer close(out)
		for _, d := range f.deltas {
			out <- llm.StreamDelta{Text: d}
		}
	}()
	return out, nil
}

func highScoredChunk(fileName string, page int, score float64) *entity.ScoredChunk {
	return &entity.ScoredChunk{
		Chunk: &entity.NoteChunk{
			Id:       uuid.New(),
			FileName: fileName,
			Page:     page,
			Text:     "Osmosis is the passive transport of water across a membrane.",
		},
		Score: score,
	}
}

func newTestPipeline(chunkRepo contract.NoteChunkRepository, memoryRepo contract.MemoryTurnRepository, provider llm.LLMProvider) *Pipeline {
	return NewPipeline(
		retrieval.NewRetriever(fakeEmbedder{}, chunkRepo, 8),
		retrieval.NewReranker(5),
		memory.NewStore(memoryRepo),
		provider,
		nopLogger{},
		0.5,
	)
}

const foundJSON = `{"answer":"Osmosis is the passive transport of water.","confidence":"High","evidence":["passive transport of water across a membrane"],"found":true}`

func TestAskFoundAnswer(t *testing.T) {
	chunkRepo := &fakeChunkRepo{scored: []*entity.ScoredChunk{highScoredChunk("cells.pdf", 3, 0.92)}}
	memoryRepo := &fakeMemoryRepo{}
	provider := &fakeLLM{chatResponse: foundJSON}

	p := newTestPipeline(chunkRepo, memoryRepo, provider)
	subjectId := uuid.New()
	res, err := p.Ask(context.Background(), AskRequest{
		Question:    "What is osmosis?",
		SubjectId:   subjectId,
		ThreadId:    "t1",
		SubjectName: "Biology",
	})

	require.NoError(t, err)
	assert.False(t, res.NotFound)
	assert.Equal(t, "Osmosis is the passive transport of water.", res.Answer)
	assert.Equal(t, "High", res.Confidence)
	require.Len(t, res.Citations, 1)
	assert.Equal(t, entity.Citation{FileName: "cells.pdf", Page: 3}, res.Citations[0])

	// retrieval stays scoped to the requested subject
	assert.Equal(t, subjectId, chunkRepo.searchedFor)

	// the completed turn lands in thread memory
	require.Len(t, memoryRepo.appended, 1)
	assert.Equal(t, "What is osmosis?", memoryRepo.appended[0].Question)
}

func TestAskThresholdOverridesFoundAnswer(t *testing.T) {
	chunkRepo := &fakeChunkRepo{scored: []*entity.ScoredChunk{highScoredChunk("cells.pdf", 3, 0.05)}}
	memoryRepo := &fakeMemoryRepo{}
	provider := &fakeLLM{chatResponse: foundJSON}

	p := newTestPipeline(chunkRepo, memoryRepo, provider)
	res, err := p.Ask(context.Background(), AskRequest{
		Question:    "What is quantum entanglement?",
		SubjectId:   uuid.New(),
		ThreadId:    "t1",
		SubjectName: "Biology",
	})

	require.NoError(t, err)
	assert.True(t, res.NotFound)
	assert.Equal(t, "Not found in your notes for [Biology]", res.Answer)
	assert.Equal(t, "Low", res.Confidence)
	assert.Empty(t, res.Evidence)
	assert.Empty(t, res.Citations)

	// the refusal is still a completed turn
	require.Len(t, memoryRepo.appended, 1)
}

func TestAskGenerationErrorDoesNotTouchMemory(t *testing.T) {
	chunkRepo := &fakeChunkRepo{scored: []*entity.ScoredChunk{highScoredChunk("cells.pdf", 3, 0.9)}}
	memoryRepo := &fakeMemoryRepo{}
	provider := &fakeLLM{chatErr: errors.New("model unavailable")}

	p := newTestPipeline(chunkRepo, memoryRepo, provider)
	_, err := p.Ask(context.Background(), AskRequest{
		Question:    "What is osmosis?",
		SubjectId:   uuid.New(),
		ThreadId:    "t1",
		SubjectName: "Biology",
	})

	require.Error(t, err)
	assert.Empty(t, memoryRepo.appended)
}

func TestAskStreamOrderedDeltasThenFinal(t *testing.T) {
	chunkRepo := &fakeChunkRepo{scored: []*entity.ScoredChunk{highScoredChunk("cells.pdf", 3, 0.9)}}
	memoryRepo := &fakeMemoryRepo{}
	provider := &fakeLLM{deltas: []string{
		`{"answer":"The cat sat.",`,
		`"confidence":"Medium",`,
		`"evidence":["the cat sat"],"found":true}`,
	}}

	p := newTestPipeline(chunkRepo, memoryRepo, provider)
	events := p.AskStream(context.Background(), AskRequest{
		Question:    "Where did the cat sit?",
		SubjectId:   uuid.New(),
		ThreadId:    "t1",
		SubjectName: "Stories",
	})

	var deltas []string
	var finals []*AskResponse
	for ev := range events {
		switch ev.Type {
		case StreamEventChunk:
			deltas = append(deltas, ev.Delta)
		case StreamEventFinal:
			finals = append(finals, ev.Response)
		case StreamEventError:
			t.Fatalf("unexpected error event: %v", ev.Err)
		}
	}

	assert.Equal(t, provider.deltas, deltas)
	require.Len(t, finals, 1)
	assert.Equal(t, "The cat sat.", finals[0].Answer)
	assert.Equal(t, "Medium", finals[0].Confidence)
}

func TestAskStreamErrorReplacesFinal(t *testing.T) {
	chunkRepo := &fakeChunkRepo{scored: []*entity.ScoredChunk{highScoredChunk("cells.pdf", 3, 0.9)}}
	memoryRepo := &fakeMemoryRepo{}
	provider := &fakeLLM{streamErr: errors.New("connection reset")}

	p := newTestPipeline(chunkRepo, memoryRepo, provider)
	events := p.AskStream(context.Background(), AskRequest{
		Question:    "q",
		SubjectId:   uuid.New(),
		ThreadId:    "t1",
		SubjectName: "Biology",
	})

	var got []StreamEvent
	for ev := range events {
		got = append(got, ev)
	}

	require.Len(t, got, 1)
	assert.Equal(t, StreamEventError, got[0].Type)
	require.Error(t, got[0].Err)
	assert.Empty(t, memoryRepo.appended)
}

func TestCitationsDeduplicatePreservingRank(t *testing.T) {
	chunks := []*entity.ScoredChunk{
		{Chunk: &entity.NoteChunk{FileName: "a.pdf", Page: 1}, Score: 0.9},
		{Chunk: &entity.NoteChunk{FileName: "b.pdf", Page: 2}, Score: 0.8},
		{Chunk: &entity.NoteChunk{FileName: "a.pdf", Page: 1}, Score: 0.7},
	}

	got := citationsFrom(chunks)
	assert.Equal(t, []entity.Citation{
		{FileName: "a.pdf", Page: 1},
		{FileName: "b.pdf", Page: 2},
	}, got)
}
