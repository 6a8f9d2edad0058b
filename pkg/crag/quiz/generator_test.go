package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Divyapahuja31/ASKMYNOTES/internal/entity"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/repository/specification"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag/cragerr"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/llm"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeChunkRepo struct {
	sampled []*entity.NoteChunk
}

func (f *fakeChunkRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NoteChunk, error) {
	return f.sampled, nil
}

func (f *fakeChunkRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(f.sampled)), nil
}

func (f *fakeChunkRepo) SearchSimilar(ctx context.Context, subjectId uuid.UUID, embedding []float32, limit int) ([]*entity.ScoredChunk, error) {
	return nil, nil
}

func (f *fakeChunkRepo) SampleRandom(ctx context.Context, subjectId uuid.UUID, limit int) ([]*entity.NoteChunk, error) {
	if len(f.sampled) > limit {
		return f.sampled[:limit], nil
	}
	return f.sampled, nil
}

type fakeLLM struct {
	response string
	err      error
	gotUser  string
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	for _, m := range history {
		if m.Role == "user" {
			f.gotUser = m.Content
		}
	}
	return f.response, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.response, f.err
}

func (f *fakeLLM) Stream(ctx context.Context, history []llm.Message, options ...llm.Option) (<-chan llm.StreamDelta, error) {
	return nil, errors.New("not streamed")
}

func validQuizJSON() string {
	quiz := entity.GeneratedQuiz{
		ShortAnswers: []entity.QuizShortAnswer{
			{Id: "sa-1", Question: "Define osmosis.", ModelAnswer: "Passive water transport.", Citation: "cells.pdf - Page 3"},
		},
	}
	for i := 0; i < 5; i++ {
		quiz.Mcqs = append(quiz.Mcqs, entity.QuizMCQ{
			Id:           fmt.Sprintf("mcq-%d", i+1),
			Question:     fmt.Sprintf("Question %d?", i+1),
			Options:      []string{"A", "B", "C", "D"},
			CorrectIndex: i % 4,
			Explanation:  "because",
			Citation:     "cells.pdf - Page 3",
		})
	}
	b, _ := json.Marshal(quiz)
	return string(b)
}

func sampleChunks(n int) []*entity.NoteChunk {
	chunks := make([]*entity.NoteChunk, n)
	for i := range chunks {
		chunks[i] = &entity.NoteChunk{
			Id:       uuid.New(),
			FileName: "cells.pdf",
			Page:     i + 1,
			Text:     fmt.Sprintf("Fact number %d about cells.", i+1),
		}
	}
	return chunks
}

func TestGenerateValidQuiz(t *testing.T) {
	provider := &fakeLLM{response: validQuizJSON()}
	g := NewGenerator(&fakeChunkRepo{sampled: sampleChunks(15)}, provider, nopLogger{})

	quiz, err := g.Generate(context.Background(), uuid.New(), "Biology")
	require.NoError(t, err)
	assert.Len(t, quiz.Mcqs, 5)
	assert.Len(t, quiz.ShortAnswers, 1)

	// the sampled chunks show up as cited sources in the prompt
	assert.Contains(t, provider.gotUser, "[Source 1: cells.pdf, Page 1,")
}

func TestGenerateNoChunks(t *testing.T) {
	g := NewGenerator(&fakeChunkRepo{}, &fakeLLM{response: validQuizJSON()}, nopLogger{})

	_, err := g.Generate(context.Background(), uuid.New(), "Biology")
	require.Error(t, err)
	assert.True(t, errors.Is(err, cragerr.ErrValidation))
}

func TestParseQuizShapeViolations(t *testing.T) {
	base := func(mutate func(*entity.GeneratedQuiz)) string {
		var quiz entity.GeneratedQuiz
		require.NoError(t, json.Unmarshal([]byte(validQuizJSON()), &quiz))
		mutate(&quiz)
		b, _ := json.Marshal(quiz)
		return string(b)
	}

	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "four mcqs instead of five",
			raw:  base(func(q *entity.GeneratedQuiz) { q.Mcqs = q.Mcqs[:4] }),
		},
		{
			name: "three options",
			raw:  base(func(q *entity.GeneratedQuiz) { q.Mcqs[0].Options = q.Mcqs[0].Options[:3] }),
		},
		{
			name: "correctIndex out of range",
			raw:  base(func(q *entity.GeneratedQuiz) { q.Mcqs[2].CorrectIndex = 4 }),
		},
		{
			name: "empty citation",
			raw:  base(func(q *entity.GeneratedQuiz) { q.Mcqs[1].Citation = "  " }),
		},
		{
			name: "no short answers",
			raw:  base(func(q *entity.GeneratedQuiz) { q.ShortAnswers = nil }),
		},
		{
			name: "not JSON at all",
			raw:  "Sorry, I cannot do that.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseQuiz(tt.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, cragerr.ErrGenerationParse))
		})
	}
}

func TestParseQuizToleratesFencedOutput(t *testing.T) {
	raw := "```json\n" + validQuizJSON() + "\n```"

	quiz, err := parseQuiz(raw)
	require.NoError(t, err)
	assert.Len(t, quiz.Mcqs, 5)
}
