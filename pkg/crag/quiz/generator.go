package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Divyapahuja31/ASKMYNOTES/internal/entity"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/pkg/logger"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/repository/contract"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag/cragerr"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag/interpret"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/llm"
)

const (
	mcqCount         = 5
	shortAnswerCount = 3
	sampleChunkCount = 15
)

// Generator builds a study quiz from a random sample of the subject's
// chunks. The model is asked for exactly 5 MCQs and 3 short answers; the
// output is validated against that shape before being returned.
type Generator struct {
	chunks   contract.NoteChunkRepository
	provider llm.LLMProvider
	log      logger.ILogger
}

func NewGenerator(chunks contract.NoteChunkRepository, provider llm.LLMProvider, log logger.ILogger) *Generator {
	return &Generator{
		chunks:   chunks,
		provider: provider,
		log:      log,
	}
}

func (g *Generator) Generate(ctx context.Context, subjectId uuid.UUID, subjectName string) (*entity.GeneratedQuiz, error) {
	sampled, err := g.chunks.SampleRandom(ctx, subjectId, sampleChunkCount)
	if err != nil {
		return nil, cragerr.Retrieval(err)
	}
	if len(sampled) == 0 {
		return nil, cragerr.Validation("no notes found for this subject to generate a quiz from")
	}

	contextParts := make([]string, len(sampled))
	for i, c := range sampled {
		contextParts[i] = fmt.Sprintf("[Source %d: %s, Page %d, ID: %s]\n%s", i+1, c.FileName, c.Page, c.Id, c.Text)
	}

	messages := []llm.Message{
		{Role: "system", Content: systemPrompt(subjectName)},
		{Role: "user", Content: fmt.Sprintf("Here are the excerpts from my notes:\n\n%s\n\nPlease generate the quiz now in the specified JSON format.", strings.Join(contextParts, "\n\n"))},
	}

	rawText, err := g.provider.Chat(ctx, messages)
	if err != nil {
		return nil, cragerr.Generation(err)
	}

	generated, err := parseQuiz(rawText)
	if err != nil {
		g.log.Warn("crag.quiz", "quiz output failed validation", map[string]interface{}{
			"subject_id": subjectId.String(),
			"error":      err.Error(),
		})
		return nil, err
	}

	return generated, nil
}

func systemPrompt(subjectName string) string {
	return fmt.Sprintf(`You are an expert tutor creating a helpful study quiz.
You will be provided with random excerpts from a student's notes on the subject: "%s".
Your task is to generate exactly %d Multiple Choice Questions (MCQs) and %d Short Answer questions based ONLY on the provided notes.

For each question, you MUST include a 'citation' field that references the exact Source file, page, and a brief description of where the answer was found (e.g. "lecture_1.pdf - Page 3").

Return the output strictly in the following JSON format without Markdown formatting or code blocks:
{
  "mcqs": [
    {
      "id": "unique-string-id",
      "question": "Question text...",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correctIndex": 0,
      "explanation": "Why this is correct...",
      "citation": "source file / page"
    }
  ],
  "shortAnswers": [
    {
      "id": "unique-string-id",
      "question": "Question text...",
      "modelAnswer": "Expected answer...",
      "citation": "source file / page"
    }
  ]
}`, subjectName, mcqCount, shortAnswerCount)
}

// parseQuiz extracts the first balanced JSON object and validates the quiz
// shape: exactly 5 MCQs with 4 options and an in-range correctIndex, at
// least one short answer, and a non-empty citation on every item.
func parseQuiz(rawText string) (*entity.GeneratedQuiz, error) {
	cleaned := strings.TrimSpace(rawText)
	jsonText, err := interpret.ExtractFirstJSONObject(cleaned)
	if err != nil {
		return nil, cragerr.GenerationParse(err.Error())
	}

	var quiz entity.GeneratedQuiz
	if err := json.Unmarshal([]byte(jsonText), &quiz); err != nil {
		return nil, cragerr.GenerationParse(fmt.Sprintf("invalid quiz JSON: %v", err))
	}

	if len(quiz.Mcqs) != mcqCount {
		return nil, cragerr.GenerationParse(fmt.Sprintf("expected %d MCQs, got %d", mcqCount, len(quiz.Mcqs)))
	}
	for i, mcq := range quiz.Mcqs {
		if len(mcq.Options) != 4 {
			return nil, cragerr.GenerationParse(fmt.Sprintf("mcq %d has %d options, want 4", i, len(mcq.Options)))
		}
		if mcq.CorrectIndex < 0 || mcq.CorrectIndex > 3 {
			return nil, cragerr.GenerationParse(fmt.Sprintf("mcq %d correctIndex %d out of range", i, mcq.CorrectIndex))
		}
		if strings.TrimSpace(mcq.Citation) == "" {
			return nil, cragerr.GenerationParse(fmt.Sprintf("mcq %d has an empty citation", i))
		}
		if strings.TrimSpace(mcq.Question) == "" {
			return nil, cragerr.GenerationParse(fmt.Sprintf("mcq %d has an empty question", i))
		}
	}

	if len(quiz.ShortAnswers) == 0 {
		return nil, cragerr.GenerationParse("quiz has no short answer questions")
	}
	for i, sa := range quiz.ShortAnswers {
		if strings.TrimSpace(sa.Citation) == "" {
			return nil, cragerr.GenerationParse(fmt.Sprintf("short answer %d has an empty citation", i))
		}
		if strings.TrimSpace(sa.Question) == "" {
			return nil, cragerr.GenerationParse(fmt.Sprintf("short answer %d has an empty question", i))
		}
	}

	return &quiz, nil
}
