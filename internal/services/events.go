package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/logger"
	"alfredoptarigan/resume-screener/internal/models"
)

const (
	EventCandidateScored        = "candidate.scored"
	EventCandidateStatusChanged = "candidate.status_changed"
	EventCandidateNotesUpdated  = "candidate.notes_updated"
)

type CandidateEvent struct {
	Type         string          `json:"type"`
	RecordID     models.RecordID `json:"record_id"`
	JobTitle     string          `json:"job_title"`
	Filename     string          `json:"filename,omitempty"`
	Status       models.Stage    `json:"status,omitempty"`
	OverallScore *float64        `json:"overall_score,omitempty"`
	OccurredAt   time.Time       `json:"occurred_at"`
}

func NewCandidateEvent(eventType string, record models.CandidateRecord) CandidateEvent {
	return CandidateEvent{
		Type:         eventType,
		RecordID:     record.ID,
		JobTitle:     record.JobTitle,
		Filename:     record.Filename,
		Status:       record.Status,
		OverallScore: record.Evaluation.OverallScore,
		OccurredAt:   time.Now().UTC(),
	}
}

// EventPublisher announces candidate changes to other systems.
type EventPublisher interface {
	Publish(ctx context.Context, event CandidateEvent) error
	Close() error
}

type noopPublisher struct{}

func NewNoopPublisher() EventPublisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, CandidateEvent) error { return nil }
func (noopPublisher) Close() error                                 { return nil }

type amqpPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	log      *zap.Logger
}

// NewAMQPPublisher declares a durable topic exchange and publishes events with their type as routing key.
func NewAMQPPublisher(url, exchange string, log *zap.Logger) (EventPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &amqpPublisher{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
		log:      logger.OrNop(log),
	}, nil
}

func (p *amqpPublisher) Publish(_ context.Context, event CandidateEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.Publish(p.exchange, event.Type, false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   event.OccurredAt,
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}

	p.log.Debug("event published", zap.String("type", event.Type), zap.String(logger.FieldRecordID, event.RecordID.String()))
	return nil
}

func (p *amqpPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// publishQuietly logs publish failures instead of returning them.
func publishQuietly(ctx context.Context, publisher EventPublisher, log *zap.Logger, event CandidateEvent) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		log.Warn("failed to publish candidate event", zap.String("type", event.Type), zap.Error(err))
	}
}
