package constants

import "time"

const (
	KafkaBatchTimeout = 10 * time.Millisecond
	KafkaWriteTimeout = 10 * time.Second
)

const (
	DefaultOrderTopic  = "orders.created"
	DefaultMongoDBName = "ordergate"
)

const (
	// DefaultPublishWaitAck bounds how long a request handler waits for the
	// broker before reporting the event as pending.
	DefaultPublishWaitAck = 3 * time.Second
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	OrderStatusCreated = "created"
)

const (
	EventStatusPublished = "published"
	EventStatusPending   = "pending"
)
