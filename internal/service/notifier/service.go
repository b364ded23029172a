package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/jwalitptl/patient-api/pkg/logger"
	"github.com/jwalitptl/patient-api/pkg/messaging"
	"github.com/jwalitptl/patient-api/pkg/metrics"
)

// Event types published to the broker.
const (
	EventPatientCreated       = "patient_created"
	EventPatientUpdated       = "patient_updated"
	EventPatientDeleted       = "patient_deleted"
	EventPatientRestored      = "patient_restored"
	EventMedicalRecordCreated = "medical_record_created"
)

// Event is a domain change fanned out to downstream consumers.
type Event struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// Service decouples request handling from broker publishes: Emit
// enqueues without blocking, a single dispatcher goroutine drains the
// queue. When the queue is full events are dropped and counted, never
// backpressured onto the request path.
type Service struct {
	broker  messaging.Broker
	channel string
	queue   chan Event
	logger  *logger.Logger
	metrics *metrics.Metrics

	stopOnce sync.Once
	done     chan struct{}
}

func NewService(broker messaging.Broker, channel string, queueSize int, logger *logger.Logger, metrics *metrics.Metrics) *Service {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Service{
		broker:  broker,
		channel: channel,
		queue:   make(chan Event, queueSize),
		logger:  logger,
		metrics: metrics,
		done:    make(chan struct{}),
	}
}

// Start launches the dispatcher. ctx cancellation stops it after the
// current publish.
func (s *Service) Start(ctx context.Context) {
	go s.dispatch(ctx)
}

// Emit enqueues an event without blocking. Returns false when the event
// was dropped because the queue is full.
func (s *Service) Emit(eventType string, payload interface{}) bool {
	event := Event{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}

	select {
	case s.queue <- event:
		s.metrics.QueueDepth.Set(float64(len(s.queue)))
		return true
	default:
		s.metrics.EventsDropped.WithLabelValues(eventType).Inc()
		s.logger.WithFields(map[string]interface{}{
			"event_type": eventType,
		}).Warn(nil, "notification queue full, event dropped")
		return false
	}
}

// Stop closes the queue; the dispatcher drains what remains and exits.
func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		close(s.queue)
	})
	<-s.done
}

func (s *Service) dispatch(ctx context.Context) {
	defer close(s.done)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-s.queue:
			if !ok {
				return
			}
			s.metrics.QueueDepth.Set(float64(len(s.queue)))
			s.publish(ctx, event)
		}
	}
}

func (s *Service) publish(ctx context.Context, event Event) {
	start := time.Now()
	err := s.broker.Publish(ctx, s.channel, messaging.Message{
		Type:    event.Type,
		Payload: event,
	})
	s.metrics.PublishLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		s.metrics.EventsDropped.WithLabelValues(event.Type).Inc()
		s.logger.WithFields(map[string]interface{}{
			"event_type": event.Type,
		}).Warn(err, "failed to publish notification event")
		return
	}

	s.metrics.EventsPublished.WithLabelValues(event.Type).Inc()
}
