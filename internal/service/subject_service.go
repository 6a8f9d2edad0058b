package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Divyapahuja31/ASKMYNOTES/internal/dto"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/entity"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/repository/contract"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/repository/specification"
)

type ISubjectService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateSubjectRequest) (*dto.SubjectResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]*dto.SubjectResponse, error)
	ListFiles(ctx context.Context, userId, subjectId uuid.UUID) ([]*dto.SubjectFileResponse, error)
}

type subjectService struct {
	subjects contract.SubjectRepository
	access   IAccessVerifier
}

func NewSubjectService(subjects contract.SubjectRepository, access IAccessVerifier) ISubjectService {
	return &subjectService{
		subjects: subjects,
		access:   access,
	}
}

func (s *subjectService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateSubjectRequest) (*dto.SubjectResponse, error) {
	subject := &entity.Subject{
		Id:        uuid.New(),
		Name:      req.Name,
		UserId:    userId,
		CreatedAt: time.Now(),
	}

	if err := s.subjects.Create(ctx, subject); err != nil {
		return nil, err
	}

	return toSubjectResponse(subject), nil
}

func (s *subjectService) List(ctx context.Context, userId uuid.UUID) ([]*dto.SubjectResponse, error) {
	subjects, err := s.subjects.FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.SubjectResponse, len(subjects))
	for i, subject := range subjects {
		responses[i] = toSubjectResponse(subject)
	}
	return responses, nil
}

func (s *subjectService) ListFiles(ctx context.Context, userId, subjectId uuid.UUID) ([]*dto.SubjectFileResponse, error) {
	if _, err := s.access.VerifyOwnership(ctx, userId, subjectId); err != nil {
		return nil, err
	}

	files, err := s.subjects.ListFiles(ctx, subjectId)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.SubjectFileResponse, len(files))
	for i, f := range files {
		responses[i] = &dto.SubjectFileResponse{
			FileName:       f.FileName,
			ChunkCount:     f.ChunkCount,
			MaxPage:        f.MaxPage,
			LastIngestedAt: f.LastIngestedAt,
		}
	}
	return responses, nil
}

func toSubjectResponse(subject *entity.Subject) *dto.SubjectResponse {
	return &dto.SubjectResponse{
		Id:        subject.Id,
		Name:      subject.Name,
		CreatedAt: subject.CreatedAt,
	}
}
