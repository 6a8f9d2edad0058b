package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Divyapahuja31/ASKMYNOTES/internal/dto"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/pkg/logger"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag/cragerr"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/events"
	pktNats "github.com/Divyapahuja31/ASKMYNOTES/pkg/nats"
)

type IAskService interface {
	Ask(ctx context.Context, userId uuid.UUID, req *dto.AskRequest) (*dto.AskResponse, error)
	AskStream(ctx context.Context, userId uuid.UUID, req *dto.AskSocketRequest) (<-chan crag.StreamEvent, error)

	// AskRaw runs a pre-authorized pipeline request; the voice bridge uses
	// it after ownership was verified at session start.
	AskRaw(ctx context.Context, userId uuid.UUID, req crag.AskRequest) (*crag.AskResponse, error)
}

type askService struct {
	pipeline *crag.Pipeline
	access   IAccessVerifier
	bus      IPublisherService
	natsPub  *pktNats.Publisher
	log      logger.ILogger
}

func NewAskService(
	pipeline *crag.Pipeline,
	access IAccessVerifier,
	bus IPublisherService,
	natsPub *pktNats.Publisher,
	log logger.ILogger,
) IAskService {
	return &askService{
		pipeline: pipeline,
		access:   access,
		bus:      bus,
		natsPub:  natsPub,
		log:      log,
	}
}

// resolve authorizes the caller against the subject and builds the
// pipeline request. SubjectName falls back to the stored subject name.
func (s *askService) resolve(ctx context.Context, userId uuid.UUID, question, subjectIdStr, threadId, subjectName string) (crag.AskRequest, error) {
	subjectId, err := uuid.Parse(subjectIdStr)
	if err != nil {
		return crag.AskRequest{}, cragerr.Validation("subjectId is not a valid uuid")
	}

	subject, err := s.access.VerifyOwnership(ctx, userId, subjectId)
	if err != nil {
		return crag.AskRequest{}, err
	}

	if err := s.access.CheckAndCountAsk(ctx, userId); err != nil {
		return crag.AskRequest{}, err
	}

	if subjectName == "" {
		subjectName = subject.Name
	}

	return crag.AskRequest{
		Question:    question,
		SubjectId:   subjectId,
		ThreadId:    threadId,
		SubjectName: subjectName,
	}, nil
}

func (s *askService) Ask(ctx context.Context, userId uuid.UUID, req *dto.AskRequest) (*dto.AskResponse, error) {
	pipelineReq, err := s.resolve(ctx, userId, req.Question, req.SubjectId, req.ThreadId, req.SubjectName)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	response, err := s.pipeline.Ask(ctx, pipelineReq)
	if err != nil {
		return nil, err
	}

	s.publishCompleted(ctx, userId, pipelineReq, response.NotFound, time.Since(started))

	return &dto.AskResponse{
		Answer:     response.Answer,
		Confidence: response.Confidence,
		Evidence:   response.Evidence,
		Citations:  response.Citations,
		NotFound:   response.NotFound,
	}, nil
}

func (s *askService) AskStream(ctx context.Context, userId uuid.UUID, req *dto.AskSocketRequest) (<-chan crag.StreamEvent, error) {
	pipelineReq, err := s.resolve(ctx, userId, req.Question, req.SubjectId, req.ThreadId, req.SubjectName)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	upstream := s.pipeline.AskStream(ctx, pipelineReq)

	// observe the final event for usage accounting without disturbing
	// the caller's ordering
	out := make(chan crag.StreamEvent)
	go func() {
		defer close(out)
		for event := range upstream {
			if event.Type == crag.StreamEventFinal && event.Response != nil {
				s.publishCompleted(ctx, userId, pipelineReq, event.Response.NotFound, time.Since(started))
			}
			out <- event
		}
	}()

	return out, nil
}

func (s *askService) AskRaw(ctx context.Context, userId uuid.UUID, req crag.AskRequest) (*crag.AskResponse, error) {
	if err := s.access.CheckAndCountAsk(ctx, userId); err != nil {
		return nil, err
	}

	started := time.Now()
	response, err := s.pipeline.Ask(ctx, req)
	if err != nil {
		return nil, err
	}

	s.publishCompleted(ctx, userId, req, response.NotFound, time.Since(started))
	return response, nil
}

// publishCompleted feeds the in-process bus (usage consumer) and, when
// connected, the NATS event stream. Event delivery never fails an ask.
func (s *askService) publishCompleted(ctx context.Context, userId uuid.UUID, req crag.AskRequest, notFound bool, elapsed time.Duration) {
	event := events.NewAskCompleted(userId.String(), req.SubjectId.String(), req.ThreadId, notFound, elapsed.Milliseconds())

	if err := s.bus.Publish(ctx, event.Payload()); err != nil {
		s.log.Warn("ask", "failed to publish ask completion to bus", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if s.natsPub != nil {
		go func() {
			pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.natsPub.Publish(pubCtx, event); err != nil {
				s.log.Warn("ask", "failed to publish ask completion to nats", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}()
	}
}
