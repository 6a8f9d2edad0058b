package contract

import (
	"context"

	"github.com/Divyapahuja31/ASKMYNOTES/internal/entity"
)

type MemoryTurnRepository interface {
	// FindByThread returns the thread's turns in chronological order.
	FindByThread(ctx context.Context, threadId string) ([]*entity.MemoryTurn, error)
	// Append durably writes one turn. Turns are never updated or deleted.
	Append(ctx context.Context, turn *entity.MemoryTurn) error
}
