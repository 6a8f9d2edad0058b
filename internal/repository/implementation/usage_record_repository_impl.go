package implementation

import (
	"context"

	"github.com/Divyapahuja31/ASKMYNOTES/internal/entity"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/model"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/repository/contract"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/repository/specification"

	"gorm.io/gorm"
)

type UsageRecordRepositoryImpl struct {
	db *gorm.DB
}

func NewUsageRecordRepository(db *gorm.DB) contract.UsageRecordRepository {
	return &UsageRecordRepositoryImpl{db: db}
}

func (r *UsageRecordRepositoryImpl) Create(ctx context.Context, record *entity.UsageRecord) error {
	m := &model.UsageRecord{
		Id:         record.Id,
		UserId:     record.UserId,
		SubjectId:  record.SubjectId,
		ThreadId:   record.ThreadId,
		NotFound:   record.NotFound,
		DurationMs: record.DurationMs,
		CreatedAt:  record.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	record.Id = m.Id
	record.CreatedAt = m.CreatedAt
	return nil
}

func (r *UsageRecordRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	err := query.Model(&model.UsageRecord{}).Count(&count).Error
	return count, err
}
