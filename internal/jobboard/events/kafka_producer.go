// Package events publishes job board domain events to Kafka and consumes
// them for notifications. Publishing is fire-and-forget: events go through a
// bounded queue and are dropped with a warning when the queue is full.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonMarshal = json.Marshal

type EventType string

const (
	JobCreated               EventType = "job_created"
	JobStatusChanged         EventType = "job_status_changed"
	JobDeleted               EventType = "job_deleted"
	InternshipCreated        EventType = "internship_created"
	CompanyCreated           EventType = "company_created"
	ApplicationSubmitted     EventType = "application_submitted"
	ApplicationStatusChanged EventType = "application_status_changed"
	ItemSaved                EventType = "item_saved"
	ItemUnsaved              EventType = "item_unsaved"
	AppointmentScheduled     EventType = "appointment_scheduled"
	AppointmentStatusChanged EventType = "appointment_status_changed"
	VideoRoomEvent           EventType = "video_room_event"
)

// Event is the envelope written to the topic. Key is the id of the entity
// the event is about and doubles as the Kafka message key.
type Event struct {
	Type       EventType       `json:"type"`
	Key        string          `json:"key"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer    KafkaWriter
	events    chan Event
	logger    *zap.Logger
	closeChan chan struct{}
	done      chan struct{}
}

const queueSize = 1000

func NewProducer(brokers []string, logger *zap.Logger, topic string) (*Producer, error) {
	// Create topic if it doesn't exist
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     3,
		ReplicationFactor: 1,
	})
	if err != nil {
		logger.Warn("failed to create topic (may already exist)", zap.Error(err))
	}

	return newProducer(&kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.Hash{},
		Topic:    topic,
	}, logger, queueSize), nil
}

func newProducer(writer KafkaWriter, logger *zap.Logger, size int) *Producer {
	p := &Producer{
		writer:    writer,
		events:    make(chan Event, size),
		logger:    logger.Named("kafka_producer"),
		closeChan: make(chan struct{}),
		done:      make(chan struct{}),
	}
	go p.eventLoop()
	return p
}

// Produce queues an event. It never blocks.
func (p *Producer) Produce(eventType EventType, key string, payload interface{}) {
	body, err := jsonMarshal(payload)
	if err != nil {
		p.logger.Error("Failed to serialize event",
			zap.Error(err),
			zap.String("event_type", string(eventType)),
			zap.String("key", key),
		)
		return
	}

	select {
	case p.events <- Event{Type: eventType, Key: key, OccurredAt: time.Now().UTC(), Payload: body}:
	default:
		p.logger.Warn("Kafka producer queue full, dropping event",
			zap.String("event_type", string(eventType)),
			zap.String("key", key),
		)
	}
}

func (p *Producer) eventLoop() {
	defer close(p.done)
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		case <-p.closeChan:
			// flush what is already queued
			for {
				select {
				case event := <-p.events:
					p.sendEvent(context.Background(), event)
				default:
					return
				}
			}
		}
	}
}

func (p *Producer) sendEvent(ctx context.Context, event Event) {
	value, err := jsonMarshal(event)
	if err != nil {
		p.logger.Error("Failed to serialize event",
			zap.Error(err),
			zap.String("key", event.Key),
		)
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Key),
		Value: value,
	})
	if err != nil {
		p.logger.Error("Failed to produce event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
			zap.String("key", event.Key),
		)
		return
	}
}

// Close flushes queued events and closes the writer.
func (p *Producer) Close() {
	close(p.closeChan)
	<-p.done
	if err := p.writer.Close(); err != nil {
		p.logger.Error("Failed to close Kafka writer", zap.Error(err))
	}
}

// LogProducer stands in for Kafka when no brokers are configured.
type LogProducer struct {
	logger *zap.Logger
}

func NewLogProducer(logger *zap.Logger) *LogProducer {
	return &LogProducer{logger: logger.Named("event_log")}
}

func (p *LogProducer) Produce(eventType EventType, key string, _ interface{}) {
	p.logger.Debug("Event", zap.String("event_type", string(eventType)), zap.String("key", key))
}
