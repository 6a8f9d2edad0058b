package contract

import (
	"context"

	"github.com/Divyapahuja31/ASKMYNOTES/internal/entity"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/repository/specification"
)

type QuizRepository interface {
	Create(ctx context.Context, quiz *entity.Quiz) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Quiz, error)
}
