package settlementqueue

import (
	"context"
	"fmt"
	"jaspel-service/internal/app/config"
	"jaspel-service/internal/pkg/constvars"
	"jaspel-service/internal/pkg/exceptions"
	"jaspel-service/internal/pkg/utils"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// SettlementQueueMessage is the payload stored in RabbitMQ for one daily
// patient-count settlement job.
type SettlementQueueMessage struct {
	ID             string    `json:"id"`
	PatientCountID string    `json:"patient_count_id"`
	EnqueuedAt     time.Time `json:"enqueued_at"`
	FailedCount    int       `json:"failed_count"`
}

// Service manages the durable settlement queue and its dead-letter queue.
type Service struct {
	ch        *amqp.Channel
	log       *zap.Logger
	queueName string
	dlqName   string
	confirms  chan amqp.Confirmation
	mu        sync.Mutex
}

// NewService declares both durable queues, sets QoS and enables publisher
// confirms on a dedicated channel.
func NewService(conn *amqp.Connection, log *zap.Logger, internalConfig *config.InternalConfig) (*Service, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	queueName := internalConfig.RabbitMQ.SettlementQueue
	dlqName := internalConfig.RabbitMQ.SettlementDLQ

	for _, name := range []string{queueName, dlqName} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return nil, err
		}
	}

	prefetch := internalConfig.Jaspel.SettlementMaxQueue
	if prefetch <= 0 {
		prefetch = 1
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}
	if err := ch.Confirm(false); err != nil {
		return nil, err
	}

	return &Service{
		ch:        ch,
		log:       log,
		queueName: queueName,
		dlqName:   dlqName,
		confirms:  ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
	}, nil
}

type ReenqueueInput struct {
	Message SettlementQueueMessage
}

type ReenqueueOutput struct{}

type EnqueueToDLQInput struct {
	Message SettlementQueueMessage
}

type EnqueueToDLQOutput struct{}

type FetchNInput struct {
	Max int
}

// QueuedItem is a fetched delivery and its decoded payload.
type QueuedItem struct {
	DeliveryTag uint64
	Message     SettlementQueueMessage
}

type FetchNOutput struct {
	Items []QueuedItem
}

type AckMessageInput struct {
	DeliveryTag uint64
}

type AckMessageOutput struct{}

// Enqueue implements contracts.SettlementEnqueuer: it wraps the patient
// count reference in a fresh message and publishes it with persistence.
func (s *Service) Enqueue(ctx context.Context, patientCountID string) error {
	s.log.Info("SettlementQueue.Enqueue called",
		zap.String(constvars.LoggingRequestIDKey, utils.RequestIDFromContext(ctx)),
		zap.String(constvars.LoggingPatientCountIDKey, patientCountID),
	)
	message := SettlementQueueMessage{
		ID:             uuid.NewString(),
		PatientCountID: patientCountID,
		EnqueuedAt:     time.Now(),
	}
	return s.publish(ctx, s.queueName, message)
}

// Reenqueue publishes the (possibly modified) message to the tail of the
// settlement queue.
func (s *Service) Reenqueue(ctx context.Context, in *ReenqueueInput) (*ReenqueueOutput, error) {
	s.log.Info("SettlementQueue.Reenqueue called",
		zap.String(constvars.LoggingMessageIDKey, in.Message.ID),
		zap.Int(constvars.LoggingFailedCountKey, in.Message.FailedCount),
	)
	if err := s.publish(ctx, s.queueName, in.Message); err != nil {
		return nil, err
	}
	return &ReenqueueOutput{}, nil
}

// EnqueueToDeadQueue moves a message that exhausted its retry budget to
// the dead-letter queue.
func (s *Service) EnqueueToDeadQueue(ctx context.Context, in *EnqueueToDLQInput) (*EnqueueToDLQOutput, error) {
	s.log.Info("SettlementQueue.EnqueueToDeadQueue called",
		zap.String(constvars.LoggingMessageIDKey, in.Message.ID),
		zap.Int(constvars.LoggingFailedCountKey, in.Message.FailedCount),
	)
	if err := s.publish(ctx, s.dlqName, in.Message); err != nil {
		return nil, err
	}
	return &EnqueueToDLQOutput{}, nil
}

// FetchN retrieves up to N messages using basic.get without auto-ack.
func (s *Service) FetchN(ctx context.Context, in *FetchNInput) (*FetchNOutput, error) {
	n := in.Max
	if n <= 0 {
		n = 1
	}
	items := make([]QueuedItem, 0, n)

	for i := 0; i < n; i++ {
		d, ok, err := s.ch.Get(s.queueName, false)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		var payload SettlementQueueMessage
		if err := json.Unmarshal(d.Body, &payload); err != nil {
			// Poison message: dead-letter the raw body instead of
			// looping on it.
			_ = d.Ack(false)
			_ = s.publishRaw(ctx, s.dlqName, d.Body)
			continue
		}
		items = append(items, QueuedItem{DeliveryTag: d.DeliveryTag, Message: payload})
	}

	return &FetchNOutput{Items: items}, nil
}

func (s *Service) AckMessage(ctx context.Context, in *AckMessageInput) (*AckMessageOutput, error) {
	if err := s.ch.Ack(in.DeliveryTag, false); err != nil {
		return nil, err
	}
	return &AckMessageOutput{}, nil
}

func (s *Service) publish(ctx context.Context, queue string, message SettlementQueueMessage) error {
	body, err := json.Marshal(message)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}
	return s.publishRaw(ctx, queue, body)
}

func (s *Service) publishRaw(ctx context.Context, queue string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := amqp.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp.Persistent,
	}
	if err := s.ch.PublishWithContext(ctx, "", queue, false, false, msg); err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, queue)
	}
	select {
	case confirmed := <-s.confirms:
		if !confirmed.Ack {
			return exceptions.ErrRabbitMQPublishMessage(fmt.Errorf("message not confirmed"), queue)
		}
	case <-ctx.Done():
		return exceptions.ErrRabbitMQPublishMessage(ctx.Err(), queue)
	}
	return nil
}
