package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"github.com/Divyapahuja31/ASKMYNOTES/internal/entity"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/pkg/logger"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/repository/contract"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains ask-completion events off the in-process bus and
// writes usage records. It runs for the life of the process.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	usage     contract.UsageRecordRepository
	log       logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	usage contract.UsageRecordRepository,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		usage:     usage,
		log:       log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

type askCompletedPayload struct {
	UserId     string `json:"user_id"`
	SubjectId  string `json:"subject_id"`
	ThreadId   string `json:"thread_id"`
	NotFound   bool   `json:"not_found"`
	DurationMs int64  `json:"duration_ms"`
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload askCompletedPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("consumer", "failed to unmarshal ask completion", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // invalid messages would retry forever
		return
	}

	userId, err := uuid.Parse(payload.UserId)
	if err != nil {
		cs.log.Error("consumer", "ask completion has invalid user id", map[string]interface{}{
			"user_id": payload.UserId,
		})
		msg.Ack()
		return
	}
	subjectId, err := uuid.Parse(payload.SubjectId)
	if err != nil {
		cs.log.Error("consumer", "ask completion has invalid subject id", map[string]interface{}{
			"subject_id": payload.SubjectId,
		})
		msg.Ack()
		return
	}

	record := &entity.UsageRecord{
		Id:         uuid.New(),
		UserId:     userId,
		SubjectId:  subjectId,
		ThreadId:   payload.ThreadId,
		NotFound:   payload.NotFound,
		DurationMs: payload.DurationMs,
		CreatedAt:  time.Now(),
	}

	if err := cs.usage.Create(ctx, record); err != nil {
		cs.log.Error("consumer", "failed to write usage record", map[string]interface{}{
			"user_id": payload.UserId,
			"error":   err.Error(),
		})
		msg.Nack() // retriable
		return
	}

	msg.Ack()
}
