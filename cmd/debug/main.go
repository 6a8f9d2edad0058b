package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/Divyapahuja31/ASKMYNOTES/internal/config"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/pkg/logger"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/repository/implementation"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag/memory"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag/prompt"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag/retrieval"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/database"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/embedding"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/llm/factory"
)

// Traces one question through every pipeline stage against a live database.
// Usage: go run ./cmd/debug -subject <uuid> -question "..." [-thread t1]
func main() {
	subjectIdStr := flag.String("subject", "", "subject uuid")
	subjectName := flag.String("name", "My Notes", "subject display name")
	question := flag.String("question", "", "question to trace")
	threadId := flag.String("thread", "debug-thread", "thread id for memory")
	flag.Parse()

	if *subjectIdStr == "" || *question == "" {
		color.Red("both -subject and -question are required")
		os.Exit(1)
	}
	subjectId, err := uuid.Parse(*subjectIdStr)
	if err != nil {
		color.Red("invalid subject uuid: %v", err)
		os.Exit(1)
	}

	cfg := config.Load()

	db, err := database.NewGormDB(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}

	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini, "")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("llm provider: %v", err)
	}

	chunkRepo := implementation.NewNoteChunkRepository(db)
	memoryRepo := implementation.NewMemoryTurnRepository(db)

	ctx := context.Background()

	color.Cyan("=== Stage 1: Retrieval (topK=%d) ===", cfg.Crag.TopK)
	retriever := retrieval.NewRetriever(embeddingProvider, chunkRepo, cfg.Crag.TopK)
	retrieved, err := retriever.Retrieve(ctx, subjectId, *question)
	if err != nil {
		color.Red("retrieval failed: %v", err)
		os.Exit(1)
	}
	for i, sc := range retrieved {
		color.White("  #%d score=%.6f file=%s page=%d", i+1, sc.Score, sc.Chunk.FileName, sc.Chunk.Page)
	}

	color.Cyan("=== Stage 2: Rerank (topN=%d) ===", cfg.Crag.RerankTopN)
	reranker := retrieval.NewReranker(cfg.Crag.RerankTopN)
	reranked := reranker.Rerank(*question, retrieved)
	for i, sc := range reranked {
		color.White("  #%d score=%.6f file=%s page=%d", i+1, sc.Score, sc.Chunk.FileName, sc.Chunk.Page)
	}
	if len(reranked) > 0 && reranked[0].Score < cfg.Crag.NotFoundThreshold {
		color.Yellow("  top score %.6f is below threshold %.2f, the answer will be a refusal", reranked[0].Score, cfg.Crag.NotFoundThreshold)
	}

	color.Cyan("=== Stage 3: Thread memory ===")
	memoryStore := memory.NewStore(memoryRepo)
	turns, err := memoryStore.Read(ctx, *threadId)
	if err != nil {
		color.Red("memory read failed: %v", err)
		os.Exit(1)
	}
	color.White("  %d prior turn(s) on thread %q", len(turns), *threadId)

	color.Cyan("=== Stage 4: Prompt ===")
	messages := prompt.NewBuilder().Build(prompt.Input{
		SubjectName:  *subjectName,
		Question:     *question,
		Chunks:       reranked,
		ThreadMemory: turns,
	})
	for _, m := range messages {
		color.Yellow("--- role: %s ---", m.Role)
		color.White("%s", m.Content)
	}

	color.Cyan("=== Stage 5: Generate + interpret ===")
	sysLogger := logger.NewIsolatedLogger("logs/debug.log")
	pipeline := crag.NewPipeline(retriever, reranker, memoryStore, llmProvider, sysLogger, cfg.Crag.NotFoundThreshold)
	res, err := pipeline.Ask(ctx, crag.AskRequest{
		Question:    *question,
		SubjectId:   subjectId,
		ThreadId:    *threadId,
		SubjectName: *subjectName,
	})
	if err != nil {
		color.Red("pipeline failed: %v", err)
		os.Exit(1)
	}

	if res.NotFound {
		color.Yellow("NOT FOUND: %s", res.Answer)
	} else {
		color.Green("Answer (%s confidence):", res.Confidence)
		color.White("%s", res.Answer)
		for _, ev := range res.Evidence {
			color.White("  evidence: %q", ev)
		}
		for _, c := range res.Citations {
			color.White("  citation: %s p.%d", c.FileName, c.Page)
		}
	}
}
