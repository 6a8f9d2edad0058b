package contract

import (
	"context"

	"github.com/Divyapahuja31/ASKMYNOTES/internal/entity"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/repository/specification"
)

type UsageRecordRepository interface {
	Create(ctx context.Context, record *entity.UsageRecord) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
