package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Divyapahuja31/ASKMYNOTES/internal/dto"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/entity"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/pkg/logger"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/repository/contract"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/repository/specification"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag/cragerr"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag/quiz"
)

type IQuizService interface {
	Generate(ctx context.Context, userId uuid.UUID, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error)
	List(ctx context.Context, userId, subjectId uuid.UUID) ([]*dto.QuizResponse, error)
}

type quizService struct {
	generator *quiz.Generator
	quizzes   contract.QuizRepository
	access    IAccessVerifier
	log       logger.ILogger
}

func NewQuizService(
	generator *quiz.Generator,
	quizzes contract.QuizRepository,
	access IAccessVerifier,
	log logger.ILogger,
) IQuizService {
	return &quizService{
		generator: generator,
		quizzes:   quizzes,
		access:    access,
		log:       log,
	}
}

func (s *quizService) Generate(ctx context.Context, userId uuid.UUID, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error) {
	subjectId, err := uuid.Parse(req.SubjectId)
	if err != nil {
		return nil, cragerr.Validation("subjectId is not a valid uuid")
	}

	subject, err := s.access.VerifyOwnership(ctx, userId, subjectId)
	if err != nil {
		return nil, err
	}

	subjectName := req.SubjectName
	if subjectName == "" {
		subjectName = subject.Name
	}

	generated, err := s.generator.Generate(ctx, subjectId, subjectName)
	if err != nil {
		return nil, err
	}

	record := &entity.Quiz{
		Id:        uuid.New(),
		SubjectId: subjectId,
		UserId:    userId,
		Payload:   generated,
		CreatedAt: time.Now(),
	}
	if err := s.quizzes.Create(ctx, record); err != nil {
		// the quiz itself is valid; persistence is for review history only
		s.log.Warn("quiz", "failed to persist generated quiz", map[string]interface{}{
			"subject_id": subjectId.String(),
			"error":      err.Error(),
		})
	}

	return toQuizResponse(record), nil
}

func (s *quizService) List(ctx context.Context, userId, subjectId uuid.UUID) ([]*dto.QuizResponse, error) {
	if _, err := s.access.VerifyOwnership(ctx, userId, subjectId); err != nil {
		return nil, err
	}

	records, err := s.quizzes.FindAll(ctx,
		specification.SubjectScope{SubjectID: subjectId},
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.QuizResponse, len(records))
	for i, record := range records {
		responses[i] = toQuizResponse(record)
	}
	return responses, nil
}

func toQuizResponse(record *entity.Quiz) *dto.QuizResponse {
	return &dto.QuizResponse{
		Id:        record.Id,
		SubjectId: record.SubjectId,
		Quiz:      record.Payload,
		CreatedAt: record.CreatedAt,
	}
}
