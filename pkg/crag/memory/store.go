package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Divyapahuja31/ASKMYNOTES/internal/entity"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/repository/contract"
)

// Store is the append-only per-thread turn history. Reads are chronological;
// turns are never edited or deleted by the pipeline.
type Store struct {
	turns contract.MemoryTurnRepository
}

func NewStore(turns contract.MemoryTurnRepository) *Store {
	return &Store{turns: turns}
}

func (s *Store) Read(ctx context.Context, threadId string) ([]*entity.MemoryTurn, error) {
	return s.turns.FindByThread(ctx, threadId)
}

// Append durably records one completed turn. Callers invoke this only after
// a successful generation; failed pipelines never write memory.
func (s *Store) Append(ctx context.Context, threadId string, question, answer string, evidence []string, citations []entity.Citation) error {
	turn := &entity.MemoryTurn{
		Id:        uuid.New(),
		ThreadId:  threadId,
		Question:  question,
		Answer:    answer,
		Evidence:  evidence,
		Citations: citations,
		CreatedAt: time.Now().UTC(),
	}
	return s.turns.Append(ctx, turn)
}
