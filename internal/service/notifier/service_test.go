package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/patient-api/pkg/logger"
	"github.com/jwalitptl/patient-api/pkg/messaging"
	"github.com/jwalitptl/patient-api/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("notifier_service_test")

type captureBroker struct {
	mu        sync.Mutex
	messages  []messaging.Message
	publishFn func() error
}

func (b *captureBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	if b.publishFn != nil {
		if err := b.publishFn(); err != nil {
			return err
		}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	raw, _ := json.Marshal(message)
	var msg messaging.Message
	_ = json.Unmarshal(raw, &msg)
	b.messages = append(b.messages, msg)
	return nil
}

func (b *captureBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return nil, nil
}

func (b *captureBroker) Close() error { return nil }

func (b *captureBroker) all() []messaging.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]messaging.Message(nil), b.messages...)
}

func testLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
}

func TestEmitPublishes(t *testing.T) {
	broker := &captureBroker{}
	svc := NewService(broker, "test-events", 16, testLogger(), testMetrics)
	svc.Start(context.Background())

	require.True(t, svc.Emit(EventPatientCreated, map[string]string{"id": "abc"}))
	require.True(t, svc.Emit(EventPatientDeleted, map[string]string{"id": "abc"}))

	// Stop drains the queue before returning.
	svc.Stop()

	messages := broker.all()
	require.Len(t, messages, 2)
	assert.Equal(t, EventPatientCreated, messages[0].Type)
	assert.Equal(t, EventPatientDeleted, messages[1].Type)
}

func TestEmitDropsWhenQueueFull(t *testing.T) {
	// Never started: nothing drains the queue.
	svc := NewService(&captureBroker{}, "test-events", 1, testLogger(), testMetrics)

	assert.True(t, svc.Emit(EventPatientCreated, nil))
	assert.False(t, svc.Emit(EventPatientCreated, nil))
}

func TestPublishFailureDoesNotStopDispatcher(t *testing.T) {
	broker := &captureBroker{}
	fail := true
	broker.publishFn = func() error {
		if fail {
			fail = false
			return errors.New("broker down")
		}
		return nil
	}

	svc := NewService(broker, "test-events", 16, testLogger(), testMetrics)
	svc.Start(context.Background())

	require.True(t, svc.Emit(EventPatientCreated, nil))
	require.True(t, svc.Emit(EventPatientUpdated, nil))
	svc.Stop()

	messages := broker.all()
	require.Len(t, messages, 1)
	assert.Equal(t, EventPatientUpdated, messages[0].Type)
}
