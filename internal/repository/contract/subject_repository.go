package contract

import (
	"context"

	"github.com/Divyapahuja31/ASKMYNOTES/internal/entity"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/repository/specification"

	"github.com/google/uuid"
)

type SubjectRepository interface {
	Create(ctx context.Context, subject *entity.Subject) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subject, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Subject, error)
	// ListFiles aggregates the subject's chunks per ingested file.
	ListFiles(ctx context.Context, subjectId uuid.UUID) ([]*entity.SubjectFile, error)
}
