package implementation

import (
	"context"

	"github.com/Divyapahuja31/ASKMYNOTES/internal/entity"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/mapper"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/model"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/repository/contract"

	"gorm.io/gorm"
)

type MemoryTurnRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MemoryTurnMapper
}

func NewMemoryTurnRepository(db *gorm.DB) contract.MemoryTurnRepository {
	return &MemoryTurnRepositoryImpl{
		db:     db,
		mapper: mapper.NewMemoryTurnMapper(),
	}
}

func (r *MemoryTurnRepositoryImpl) FindByThread(ctx context.Context, threadId string) ([]*entity.MemoryTurn, error) {
	var models []*model.MemoryTurn
	err := r.db.WithContext(ctx).
		Where("thread_id = ?", threadId).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *MemoryTurnRepositoryImpl) Append(ctx context.Context, turn *entity.MemoryTurn) error {
	m := r.mapper.ToModel(turn)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*turn = *r.mapper.ToEntity(m)
	return nil
}
