package prompt

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Divyapahuja31/ASKMYNOTES/internal/entity"
)

func TestNotFoundSentinel(t *testing.T) {
	assert.Equal(t, "Not found in your notes for [Biology]", NotFoundSentinel("Biology"))
}

func TestBuildMessageShape(t *testing.T) {
	b := NewBuilder()
	msgs := b.Build(Input{SubjectName: "Biology", Question: "What is osmosis?"})

	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Equal(t, "user", msgs[1].Role)
}

func TestSystemBlockCarriesContract(t *testing.T) {
	b := NewBuilder()
	msgs := b.Build(Input{SubjectName: "Biology", Question: "q"})

	system := msgs[0].Content
	assert.Contains(t, system, `study assistant for the subject "Biology"`)
	assert.Contains(t, system, `"found": true`)
	assert.Contains(t, system, `The exact string: "Not found in your notes for [Biology]"`)
	assert.Contains(t, system, "Never add extra keys beyond answer, confidence, evidence, and found.")
}

func TestUserBlockEmptyMemory(t *testing.T) {
	b := NewBuilder()
	msgs := b.Build(Input{SubjectName: "Biology", Question: "What is osmosis?"})

	user := msgs[1].Content
	assert.Contains(t, user, "Subject: Biology")
	assert.Contains(t, user, "Question: What is osmosis?")
	assert.Contains(t, user, "THREAD_MEMORY_START\n\nNo prior thread memory.\n\nTHREAD_MEMORY_END")
	assert.Contains(t, user, "CONTEXT_CHUNKS_START")
	assert.Contains(t, user, "CONTEXT_CHUNKS_END")
}

func TestUserBlockMemoryTurnFraming(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	b := NewBuilder()
	msgs := b.Build(Input{
		SubjectName: "Biology",
		Question:    "follow-up",
		ThreadMemory: []*entity.MemoryTurn{
			{Question: "What is osmosis?", Answer: "Passive water transport.", CreatedAt: created},
			{Question: "And diffusion?", Answer: "Movement down a gradient.", CreatedAt: created.Add(time.Minute)},
		},
	})

	user := msgs[1].Content
	assert.Contains(t, user, "[MEMORY_TURN_1]\nquestion: What is osmosis?\nanswer: Passive water transport.\ncreatedAtIso: 2026-03-01T10:30:00Z\n[/MEMORY_TURN]")
	assert.Contains(t, user, "[MEMORY_TURN_2]")
	assert.NotContains(t, user, "No prior thread memory.")
}

func TestUserBlockChunkFraming(t *testing.T) {
	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	b := NewBuilder()
	msgs := b.Build(Input{
		SubjectName: "Biology",
		Question:    "q",
		Chunks: []*entity.ScoredChunk{
			{
				Chunk: &entity.NoteChunk{Id: id, FileName: "cells.pdf", Page: 12, Text: "Osmosis is passive."},
				Score: 0.8375,
			},
		},
	})

	user := msgs[1].Content
	want := strings.Join([]string{
		"[CHUNK_START]",
		"chunkId: 11111111-2222-3333-4444-555555555555",
		"fileName: cells.pdf",
		"page: 12",
		"score: 0.837500",
		"text:",
		"Osmosis is passive.",
		"[CHUNK_END]",
	}, "\n")
	assert.Contains(t, user, want)
}

func TestBuildDeterministic(t *testing.T) {
	b := NewBuilder()
	in := Input{SubjectName: "Math", Question: "What is a derivative?"}

	first := b.Build(in)
	second := b.Build(in)
	assert.Equal(t, first, second)
}
