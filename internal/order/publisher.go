package order

import (
	"context"
	"time"

	"ordergate/internal/broker"
	"ordergate/internal/config"
	"ordergate/internal/constants"
	"ordergate/internal/logger"
	"ordergate/pkg/circuitbreaker"
	pkgerrors "ordergate/pkg/errors"
	"ordergate/pkg/metrics"
	"ordergate/pkg/retry"
)

// EventPublisher delivers one event per created order, at least once.
type EventPublisher interface {
	PublishCreated(ctx context.Context, event OrderEvent) error
}

type OrderEventProducer struct {
	producer broker.Producer
	breaker  *circuitbreaker.Wrapper
	logger   logger.Logger
	topic    string
	policy   retry.Policy
	waitAck  time.Duration
}

func NewOrderEventProducer(producer broker.Producer, log logger.Logger, cfg config.KafkaConfig, cbCfg config.CircuitBreakerConfig) *OrderEventProducer {
	topic := cfg.OrderTopic
	if topic == "" {
		topic = constants.DefaultOrderTopic
	}

	waitAck := cfg.WaitAck
	if waitAck <= 0 {
		waitAck = constants.DefaultPublishWaitAck
	}

	policy := retry.DefaultPolicy()
	if cfg.Retry.MaxAttempts > 0 {
		policy.MaxAttempts = cfg.Retry.MaxAttempts
	}
	if cfg.Retry.InitialInterval > 0 {
		policy.InitialInterval = cfg.Retry.InitialInterval
	}
	if cfg.Retry.MaxInterval > 0 {
		policy.MaxInterval = cfg.Retry.MaxInterval
	}
	if cfg.Retry.Multiplier > 0 {
		policy.Multiplier = cfg.Retry.Multiplier
	}
	if cfg.Retry.MaxElapsedTime > 0 {
		policy.MaxElapsedTime = cfg.Retry.MaxElapsedTime
	}

	var breaker *circuitbreaker.Wrapper
	if cbCfg.Enabled {
		bc := circuitbreaker.DefaultConfig("order-event-publisher")
		if cbCfg.MaxRequests > 0 {
			bc.MaxRequests = cbCfg.MaxRequests
		}
		if cbCfg.Interval > 0 {
			bc.Interval = cbCfg.Interval
		}
		if cbCfg.Timeout > 0 {
			bc.Timeout = cbCfg.Timeout
		}
		breaker = circuitbreaker.NewWrapper(bc)
	}

	return &OrderEventProducer{
		producer: producer,
		breaker:  breaker,
		logger:   log,
		topic:    topic,
		policy:   policy,
		waitAck:  waitAck,
	}
}

// PublishCreated hands the event to the broker with bounded retries.
// Delivery is detached from the request context: a client disconnect does
// not cancel it, and the caller waits at most waitAck for the outcome
// before the event is reported as pending. Any returned error means the
// event was not confirmed; the order record itself is already durable.
func (p *OrderEventProducer) PublishCreated(ctx context.Context, event OrderEvent) error {
	pubCtx := context.WithoutCancel(ctx)

	done := make(chan error, 1)
	go func() {
		err := p.publishWithRetry(pubCtx, event)
		if err != nil {
			metrics.OrderEventsPublishedTotal.WithLabelValues("failed").Inc()
			p.logger.ErrorwCtx(pubCtx, "Order event publish exhausted retries",
				"topic", p.topic,
				"error", err,
			)
		} else {
			metrics.OrderEventsPublishedTotal.WithLabelValues("published").Inc()
		}
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return pkgerrors.Wrap(err, pkgerrors.ErrPublishFailed)
		}
		return nil
	case <-time.After(p.waitAck):
		metrics.OrderEventsPublishedTotal.WithLabelValues("pending").Inc()
		p.logger.WarnwCtx(ctx, "Order event publish still in flight",
			"topic", p.topic,
			"wait_ack", p.waitAck,
		)
		return pkgerrors.ErrPublishFailed.WithDetail("message", "event delivery pending")
	}
}

func (p *OrderEventProducer) publishWithRetry(ctx context.Context, event OrderEvent) error {
	publish := func() error {
		return p.producer.Publish(ctx, p.topic, event.OrderID, event)
	}

	op := publish
	if p.breaker != nil {
		op = func() error {
			return p.breaker.Execute(ctx, publish)
		}
	}

	return retry.DoNotify(ctx, p.policy,
		op,
		func(err error, next time.Duration) {
			metrics.PublishRetryAttemptsTotal.WithLabelValues(p.topic).Inc()
			p.logger.WarnwCtx(ctx, "Retrying order event publish",
				"topic", p.topic,
				"next_delay", next,
				"error", err,
			)
		},
	)
}
