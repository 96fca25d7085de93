package kafka

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"github.com/scm-platform/transport-service/internal/domain"
	"github.com/scm-platform/transport-service/pkg/kafka"
	"github.com/scm-platform/transport-service/pkg/logging"
	"github.com/scm-platform/transport-service/pkg/metrics"
	"github.com/scm-platform/transport-service/pkg/resilience"
)

const eventSource = "transport-service"

// EventPublisher publishes domain events to the transport topics.
// Publishes run through a circuit breaker so a Kafka outage degrades to
// dropped events instead of blocking status transitions.
type EventPublisher struct {
	producer *kafka.Producer
	breaker  *resilience.CircuitBreaker
	metrics  *metrics.Metrics
	logger   *logging.Logger
}

// topicForEvent routes archive events to the archive topic; everything
// else goes to the main transport events topic.
func topicForEvent(eventType string) string {
	if eventType == domain.EventTypeRequestArchived {
		return kafka.Topics.RequestArchive
	}
	return kafka.Topics.TransportEvents
}

// NewEventPublisher creates a new EventPublisher
func NewEventPublisher(producer *kafka.Producer, m *metrics.Metrics, logger *logging.Logger) *EventPublisher {
	cbConfig := resilience.DefaultCircuitBreakerConfig("kafka-publisher")
	cbConfig.OnStateChange = func(name string, from, to gobreaker.State) {
		m.SetCircuitBreakerState(name, int(to))
		if to == gobreaker.StateOpen {
			m.RecordCircuitBreakerTrip(name)
		}
	}

	return &EventPublisher{
		producer: producer,
		breaker:  resilience.NewCircuitBreaker(cbConfig, logger.Logger),
		metrics:  m,
		logger:   logger,
	}
}

// Publish sends a domain event keyed by the given subject
func (p *EventPublisher) Publish(ctx context.Context, event domain.DomainEvent, subject string) error {
	topic := topicForEvent(event.EventType())
	msg := &kafka.Message{
		ID:      uuid.NewString(),
		Type:    event.EventType(),
		Source:  eventSource,
		Subject: subject,
		Time:    event.OccurredAt(),
		Data:    event,
	}

	start := time.Now()
	_, err := p.breaker.Execute(ctx, func() (interface{}, error) {
		return nil, p.producer.Publish(ctx, topic, msg)
	})
	duration := time.Since(start)

	p.metrics.RecordKafkaPublish(topic, event.EventType(), err == nil, duration)
	p.logger.KafkaPublish(ctx, topic, event.EventType(), err == nil, duration)

	return err
}
