package prompt

import (
	"fmt"
	"strings"
	"time"

	"github.com/Divyapahuja31/ASKMYNOTES/internal/entity"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/llm"
)

// NotFoundSentinel is the canonical refusal string for a subject. The
// interpreter matches it exactly, so it must never be reformatted.
func NotFoundSentinel(subjectName string) string {
	return fmt.Sprintf("Not found in your notes for [%s]", subjectName)
}

type Input struct {
	SubjectName  string
	Question     string
	Chunks       []*entity.ScoredChunk
	ThreadMemory []*entity.MemoryTurn
}

// Builder assembles the grounded two-block prompt: a system block fixing the
// output contract and a user block carrying the question, thread memory and
// context chunks. It is deterministic and side-effect free: the same input
// always yields byte-identical messages.
type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) Build(input Input) []llm.Message {
	return []llm.Message{
		{Role: "system", Content: b.systemBlock(input.SubjectName)},
		{Role: "user", Content: b.userBlock(input)},
	}
}

func (b *Builder) systemBlock(subjectName string) string {
	lines := []string{
		fmt.Sprintf(`You are a helpful study assistant for the subject "%s". Answer questions using ONLY the provided context from the student's notes.`, subjectName),
		"",
		"RESPONSE FORMAT:",
		"Return EXACTLY one of the following outputs:",
		"",
		"1) A strict JSON object with this schema:",
		"{",
		`  "answer": "<your detailed, well-formatted answer>",`,
		`  "confidence": "High" | "Medium" | "Low",`,
		`  "evidence": ["<exact quote from notes backing claim 1>", "<exact quote 2>", ...],`,
		`  "found": true`,
		"}",
		"",
		fmt.Sprintf(`2) The exact string: "%s"`, NotFoundSentinel(subjectName)),
		"",
		"ANSWER WRITING RULES:",
		"- Write the 'answer' field as a clear, detailed, well-structured explanation that directly addresses the student's question.",
		"- Use Markdown formatting in the answer: **bold** for key terms, bullet points or numbered lists for steps/items, and headings (## or ###) for sections when the answer is long.",
		"- Explain concepts thoroughly as a knowledgeable tutor would, not by copy-pasting from the notes.",
		"- Synthesize information from multiple chunks when relevant to give a complete answer.",
		"- Include examples from the notes when available to illustrate points.",
		"- Keep the language clear and student-friendly.",
		"",
		"EVIDENCE RULES:",
		"- The 'evidence' array should contain 2-5 short, exact quotes from the provided context that support your answer.",
		"- Each evidence string should be a direct quote, not a paraphrase.",
		"",
		"STRICT RULES:",
		"- Never include markdown code fences around the JSON output itself.",
		"- Never add extra keys beyond answer, confidence, evidence, and found.",
		"- If the context does not contain enough information to answer, output the exact Not Found string.",
		"- Do NOT make up information that is not in the provided context.",
	}
	return strings.Join(lines, "\n")
}

func (b *Builder) userBlock(input Input) string {
	sections := []string{
		fmt.Sprintf("Subject: %s", input.SubjectName),
		fmt.Sprintf("Question: %s", input.Question),
		"THREAD_MEMORY_START",
		b.memoryBlock(input.ThreadMemory),
		"THREAD_MEMORY_END",
		"CONTEXT_CHUNKS_START",
		b.contextBlock(input.Chunks),
		"CONTEXT_CHUNKS_END",
	}
	return strings.Join(sections, "\n\n")
}

func (b *Builder) memoryBlock(turns []*entity.MemoryTurn) string {
	if len(turns) == 0 {
		return "No prior thread memory."
	}

	blocks := make([]string, len(turns))
	for i, turn := range turns {
		blocks[i] = strings.Join([]string{
			fmt.Sprintf("[MEMORY_TURN_%d]", i+1),
			fmt.Sprintf("question: %s", turn.Question),
			fmt.Sprintf("answer: %s", turn.Answer),
			fmt.Sprintf("createdAtIso: %s", turn.CreatedAt.UTC().Format(time.RFC3339)),
			"[/MEMORY_TURN]",
		}, "\n")
	}
	return strings.Join(blocks, "\n\n")
}

func (b *Builder) contextBlock(chunks []*entity.ScoredChunk) string {
	blocks := make([]string, len(chunks))
	for i, sc := range chunks {
		blocks[i] = strings.Join([]string{
			"[CHUNK_START]",
			fmt.Sprintf("chunkId: %s", sc.Chunk.Id),
			fmt.Sprintf("fileName: %s", sc.Chunk.FileName),
			fmt.Sprintf("page: %d", sc.Chunk.Page),
			fmt.Sprintf("score: %.6f", sc.Score),
			"text:",
			sc.Chunk.Text,
			"[CHUNK_END]",
		}, "\n")
	}
	return strings.Join(blocks, "\n\n")
}
