package order

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordergate/internal/config"
	"ordergate/internal/logger"
	pkgerrors "ordergate/pkg/errors"
)

type fakeProducer struct {
	mu       sync.Mutex
	attempts int
	failures int
	delay    time.Duration
	payloads []interface{}
}

func (p *fakeProducer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.attempts++
	if p.attempts <= p.failures {
		return fmt.Errorf("broker unreachable")
	}
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *fakeProducer) Close() error { return nil }

func (p *fakeProducer) attemptCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.attempts
}

func fastKafkaConfig(waitAck time.Duration) config.KafkaConfig {
	return config.KafkaConfig{
		OrderTopic: "orders.created",
		WaitAck:    waitAck,
		Retry: config.RetryConfig{
			MaxAttempts:     3,
			InitialInterval: time.Millisecond,
			MaxInterval:     5 * time.Millisecond,
			Multiplier:      1.5,
			MaxElapsedTime:  time.Second,
		},
	}
}

func testEvent() OrderEvent {
	return OrderEvent{
		OrderID:    "order-1",
		UserID:     "u1",
		ProductID:  "p1",
		Qty:        2,
		UnitPrice:  50,
		TotalPrice: 100,
		Status:     "created",
		CreatedAt:  time.Now(),
	}
}

func TestOrderEventProducer_Success(t *testing.T) {
	producer := &fakeProducer{}
	pub := NewOrderEventProducer(producer, logger.NopLogger(), fastKafkaConfig(time.Second), config.CircuitBreakerConfig{})

	err := pub.PublishCreated(context.Background(), testEvent())
	require.NoError(t, err)
	assert.Equal(t, 1, producer.attemptCount())
}

func TestOrderEventProducer_RetriesTransientFailure(t *testing.T) {
	producer := &fakeProducer{failures: 2}
	pub := NewOrderEventProducer(producer, logger.NopLogger(), fastKafkaConfig(time.Second), config.CircuitBreakerConfig{})

	err := pub.PublishCreated(context.Background(), testEvent())
	require.NoError(t, err)
	assert.Equal(t, 3, producer.attemptCount())
}

func TestOrderEventProducer_ExhaustedRetries(t *testing.T) {
	producer := &fakeProducer{failures: 100}
	pub := NewOrderEventProducer(producer, logger.NopLogger(), fastKafkaConfig(time.Second), config.CircuitBreakerConfig{})

	err := pub.PublishCreated(context.Background(), testEvent())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsPublishFailed(err))
	assert.Equal(t, 3, producer.attemptCount())
}

func TestOrderEventProducer_SlowBrokerReportsPending(t *testing.T) {
	producer := &fakeProducer{delay: 200 * time.Millisecond}
	pub := NewOrderEventProducer(producer, logger.NopLogger(), fastKafkaConfig(10*time.Millisecond), config.CircuitBreakerConfig{})

	err := pub.PublishCreated(context.Background(), testEvent())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsPublishFailed(err))
}

func TestOrderEventProducer_SurvivesCallerCancellation(t *testing.T) {
	producer := &fakeProducer{delay: 50 * time.Millisecond}
	pub := NewOrderEventProducer(producer, logger.NopLogger(), fastKafkaConfig(time.Second), config.CircuitBreakerConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- pub.PublishCreated(ctx, testEvent())
	}()

	// A client disconnect must not cancel an in-flight delivery.
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("publish did not complete")
	}
	assert.Equal(t, 1, producer.attemptCount())
}

func TestOrderEventProducer_BreakerSettingsFromConfig(t *testing.T) {
	cfg := fastKafkaConfig(time.Second)
	cfg.Retry.MaxAttempts = 5

	producer := &fakeProducer{failures: 100}
	pub := NewOrderEventProducer(producer, logger.NopLogger(), cfg, config.CircuitBreakerConfig{
		Enabled:     true,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     time.Minute,
	})

	err := pub.PublishCreated(context.Background(), testEvent())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsPublishFailed(err))

	// The breaker opens after the third consecutive failure, so the last
	// two retries fail fast without reaching the broker.
	assert.Equal(t, 3, producer.attemptCount())
}

func TestOrderEventProducer_DisabledBreakerRetriesToExhaustion(t *testing.T) {
	cfg := fastKafkaConfig(time.Second)
	cfg.Retry.MaxAttempts = 5

	producer := &fakeProducer{failures: 100}
	pub := NewOrderEventProducer(producer, logger.NopLogger(), cfg, config.CircuitBreakerConfig{})

	err := pub.PublishCreated(context.Background(), testEvent())
	require.Error(t, err)
	assert.Equal(t, 5, producer.attemptCount())
}

func TestOrderEvent_FieldNames(t *testing.T) {
	data, err := json.Marshal(testEvent())
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	for _, field := range []string{"orderId", "userId", "productId", "qty", "unitPrice", "totalPrice", "status", "createdAt"} {
		assert.Contains(t, decoded, field)
	}
}
